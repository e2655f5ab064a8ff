package casgate

import (
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/vulcand/oxy/forward"
)

// ProxyHandler forwards gated requests to the target application. The user of an
// authenticated request is sent in the principal header.
type ProxyHandler struct {
	target *url.URL
	fwd    *forward.Forwarder
	config Configuration
}

func NewProxyHandler(configuration Configuration) (*ProxyHandler, error) {
	target, err := url.Parse(configuration.Target)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse target-url: %s", configuration.Target)
	}

	fwd, err := forward.New(forward.PassHostHeader(true))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create forward")
	}

	return &ProxyHandler{
		config: configuration,
		target: target,
		fwd:    fwd,
	}, nil
}

func (ph *ProxyHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if validationErr, ok := ValidationErrorFromContext(req.Context()); ok {
		log.Infof("Rejecting request %s: %s", req.URL.Path, validationErr.Error())
		http.Error(w, validationErr.Message, validationErr.StatusCode)
		return
	}

	// never trust a principal header sent by the client
	if ph.config.PrincipalHeader != "" {
		req.Header.Del(ph.config.PrincipalHeader)
	}

	if IsAuthenticated(req) {
		username := Username(req)
		if ph.config.PrincipalHeader != "" {
			req.Header.Set(ph.config.PrincipalHeader, username)
		}
		log.Infof("Forwarding request %s for user %s...", req.URL.Path, username)
	} else {
		log.Infof("Forwarding anonymous request %s...", req.URL.Path)
	}

	req.URL.Scheme = ph.target.Scheme
	req.URL.Host = ph.target.Host
	ph.fwd.ServeHTTP(w, req)
}
