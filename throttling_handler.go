package casgate

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	_DefaultLimiterTokenRate = 50
	_DefaultLimiterBurstSize = 150
	_DefaultCleanInterval    = 300
)

// ThrottlingHandler limits how many ticket validations a single client may cause.
// A client whose request ends with a 2xx or 3xx status starts over with a full
// bucket.
type ThrottlingHandler struct {
	mu        sync.Mutex
	clients   map[string]*rate.Limiter
	tokenRate rate.Limit
	burstSize int
	handler   http.Handler
}

// NewThrottlingHandler creates the handler and starts the cleanup job, which
// runs until ctx is done.
func NewThrottlingHandler(ctx context.Context, configuration Configuration, handler http.Handler) *ThrottlingHandler {
	tokenRate := configuration.LimiterTokenRate
	if tokenRate <= 0 {
		tokenRate = _DefaultLimiterTokenRate
	}
	burstSize := configuration.LimiterBurstSize
	if burstSize <= 0 {
		burstSize = _DefaultLimiterBurstSize
	}

	th := &ThrottlingHandler{
		clients:   make(map[string]*rate.Limiter),
		tokenRate: rate.Limit(tokenRate),
		burstSize: burstSize,
		handler:   handler,
	}

	go th.startCleanJob(ctx, configuration.LimiterCleanInterval)

	return th
}

func (th *ThrottlingHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if _, ok := ExtractTicket(request); !ok {
		// nothing to validate -> no throttling needed
		th.handler.ServeHTTP(writer, request)
		return
	}

	client := clientAddress(request)
	limiter := th.getOrCreateLimiter(client)

	if !limiter.Allow() {
		log.Infof("Throttle request to %s from %s", request.URL.Path, client)
		http.Error(writer, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}

	log.Debugf("Client %s has %.1f tokens left", client, limiter.Tokens())

	statusWriter := &statusResponseWriter{
		ResponseWriter: writer,
		statusCode:     http.StatusOK,
	}

	th.handler.ServeHTTP(statusWriter, request)

	if statusWriter.statusCode >= 200 && statusWriter.statusCode < 400 {
		th.cleanClient(client)
	}
}

func (th *ThrottlingHandler) getOrCreateLimiter(client string) *rate.Limiter {
	th.mu.Lock()
	defer th.mu.Unlock()

	l, ok := th.clients[client]
	if !ok {
		l = rate.NewLimiter(th.tokenRate, th.burstSize)
		th.clients[client] = l
	}

	return l
}

func (th *ThrottlingHandler) cleanClient(client string) {
	th.mu.Lock()
	defer th.mu.Unlock()

	delete(th.clients, client)
}

// cleanClients drops every limiter whose bucket has refilled completely.
func (th *ThrottlingHandler) cleanClients() {
	th.mu.Lock()
	defer th.mu.Unlock()

	for client, limiter := range th.clients {
		if limiter.Tokens() >= float64(th.burstSize) {
			delete(th.clients, client)
		}
	}
}

func (th *ThrottlingHandler) startCleanJob(ctx context.Context, cleanInterval int) {
	if cleanInterval <= 0 {
		cleanInterval = _DefaultCleanInterval
	}

	ticker := time.NewTicker(time.Duration(cleanInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Infof("Context done - stop throttling cleanup job")
			return
		case <-ticker.C:
			log.Info("Start cleanup for clients in throttling map")
			th.cleanClients()
		}
	}
}
