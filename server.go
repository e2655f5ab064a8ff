package casgate

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer creates a new casgate server. Start the server with ListenAndServe().
// Background jobs stop when ctx is done.
func NewServer(ctx context.Context, configuration Configuration) (*http.Server, error) {
	mainHandler, err := createHandlersForConfig(ctx, configuration, prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:    ":" + strconv.Itoa(configuration.Port),
		Handler: mainHandler,
	}, nil
}

func createHandlersForConfig(ctx context.Context, configuration Configuration, registry *prometheus.Registry) (http.Handler, error) {
	config, err := Resolve(configuration.CAS)
	if err != nil {
		return nil, fmt.Errorf("error creating cas-gate: %w", err)
	}

	proxyHandler, err := NewProxyHandler(configuration)
	if err != nil {
		return nil, fmt.Errorf("error creating proxy-handler: %w", err)
	}

	registry.MustRegister(collectors.NewGoCollector())

	gate := NewGate(config,
		WithHTTPClient(NewHTTPClient(configuration.SkipSSLVerification)),
		WithMetrics(NewMetrics(registry)),
		WithUserReplicator(configuration.UserReplicator),
	)

	throttlingHandler := NewThrottlingHandler(ctx, configuration, gate.Handler(proxyHandler))

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Handle("/*", throttlingHandler)

	log.Infof("Validating tickets against %s with CAS protocol version %s and action %s",
		config.ValidateURL().String(), config.Version(), config.Action())

	return router, nil
}
