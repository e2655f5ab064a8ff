package casgate

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ValidationRequest is the ticket of one inbound request together with the
// service it was issued for.
type ValidationRequest struct {
	Ticket  string
	Service string
}

// Validator validates service tickets against the CAS endpoint of its Config.
type Validator struct {
	config  Config
	client  *http.Client
	metrics *Metrics
}

// NewHTTPClient creates the client used for validation calls.
func NewHTTPClient(skipSSLVerification bool) *http.Client {
	httpClient := &http.Client{}
	if skipSSLVerification {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return httpClient
}

// NewValidator creates a Validator for a resolved config. A nil client falls back
// to http.DefaultClient, metrics may be nil.
func NewValidator(config Config, client *http.Client, metrics *Metrics) *Validator {
	if client == nil {
		client = http.DefaultClient
	}
	return &Validator{config: config, client: client, metrics: metrics}
}

// Validate issues exactly one validation call. The returned error is only set for
// transport problems and matches ErrTransport; an invalid ticket is reported as a
// Failure outcome. Cancellation of ctx is not propagated to the call.
func (v *Validator) Validate(ctx context.Context, request ValidationRequest) (Outcome, error) {
	start := time.Now()
	defer func() {
		v.metrics.observeValidation(time.Since(start))
	}()

	validationURL := v.requestURL(request)
	log.Debugf("Sending validation request to %s for service %s", v.config.ValidateURL().String(), request.Service)

	httpRequest, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, validationURL, nil)
	if err != nil {
		return nil, &transportError{err: err}
	}

	response, err := v.client.Do(httpRequest)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &transportError{response: true, err: err}
	}

	log.Debugf("Validation response with status %d and %d bytes", response.StatusCode, len(body))

	return v.config.Parser().Parse(body), nil
}

// requestURL builds a fresh url for every call; the configured endpoint is
// only copied, never modified.
func (v *Validator) requestURL(request ValidationRequest) string {
	u := v.config.ValidateURL()
	u.RawQuery = ticketParameter + "=" + url.QueryEscape(request.Ticket) +
		"&service=" + url.QueryEscape(request.Service)
	return u.String()
}
