package casgate

import (
	"net/http"
)

// category is the classification of a request after ticket validation.
type category int

const (
	categorySuccess category = iota
	categoryTicketAbsent
	categoryRejected
	categoryMalformed
	categoryTransport
)

func (c category) String() string {
	switch c {
	case categorySuccess:
		return "success"
	case categoryTicketAbsent:
		return "ticket_absent"
	case categoryRejected:
		return "rejected"
	case categoryMalformed:
		return "malformed"
	case categoryTransport:
		return "transport_error"
	default:
		return "unknown"
	}
}

// DecisionKind is the terminal behaviour of the gate for one request.
type DecisionKind int

const (
	// DecisionBlocked ends the request with StatusCode and Message.
	DecisionBlocked DecisionKind = iota
	// DecisionContinued calls the next handler, with Principal on success or
	// with Err in pass mode.
	DecisionContinued
	// DecisionContinuedSilently calls the next handler with neither.
	DecisionContinuedSilently
)

// Decision is what the gate does with a request.
type Decision struct {
	Kind       DecisionKind
	StatusCode int
	Message    string
	Err        *ValidationError
	Principal  *Principal
}

// decide maps a validation category onto the action. It is the only place
// decisions are made.
func decide(action Action, c category, principal *Principal, cause error) Decision {
	if c == categorySuccess {
		return Decision{Kind: DecisionContinued, StatusCode: http.StatusOK, Principal: principal}
	}

	statusCode, message := http.StatusUnauthorized, messageUnauthorized
	if c == categoryTransport {
		statusCode, message = http.StatusInternalServerError, messageRequestFailure
		if te, ok := cause.(*transportError); ok && te.response {
			message = messageResponseFailure
		}
	}

	switch action {
	case ActionPass:
		return Decision{
			Kind:       DecisionContinued,
			StatusCode: statusCode,
			Message:    message,
			Err:        newValidationError(statusCode, message, cause),
		}
	case ActionIgnore:
		return Decision{Kind: DecisionContinuedSilently, StatusCode: statusCode, Message: message}
	default:
		return Decision{Kind: DecisionBlocked, StatusCode: statusCode, Message: message}
	}
}

// Gate validates the CAS service ticket of each request before handing it on.
type Gate struct {
	config     Config
	client     *http.Client
	metrics    *Metrics
	replicator UserReplicator
	validator  *Validator
}

// GateOption customizes a Gate.
type GateOption func(*Gate)

// WithHTTPClient sets the client used for validation calls.
func WithHTTPClient(client *http.Client) GateOption {
	return func(g *Gate) {
		g.client = client
	}
}

// WithMetrics records validation outcomes in metrics.
func WithMetrics(metrics *Metrics) GateOption {
	return func(g *Gate) {
		g.metrics = metrics
	}
}

// WithUserReplicator calls replicator for every successfully validated user.
func WithUserReplicator(replicator UserReplicator) GateOption {
	return func(g *Gate) {
		g.replicator = replicator
	}
}

// NewGate creates a gate for a resolved config.
func NewGate(config Config, options ...GateOption) *Gate {
	g := &Gate{config: config}
	for _, option := range options {
		option(g)
	}
	g.validator = NewValidator(config, g.client, g.metrics)
	return g
}

// Handler wraps next using the configured action.
func (g *Gate) Handler(next http.Handler) http.Handler {
	return g.Validate("")(next)
}

// Validate returns a middleware using action. An empty or unknown action falls
// back to the configured one.
func (g *Gate) Validate(action string) func(http.Handler) http.Handler {
	resolved, ok := ParseAction(action)
	if !ok {
		resolved = g.config.Action()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := g.Evaluate(r, resolved)
			g.apply(decision, next, w, r)
		})
	}
}

// Evaluate runs extraction, validation and parsing for r and returns the
// decision for action.
func (g *Gate) Evaluate(r *http.Request, action Action) Decision {
	c, principal, cause := g.classify(r)
	g.metrics.incrementOutcome(c)
	return decide(action, c, principal, cause)
}

func (g *Gate) classify(r *http.Request) (category, *Principal, error) {
	ticket, ok := ExtractTicket(r)
	if !ok {
		log.Infof("No service ticket found in request %s", r.URL.Path)
		return categoryTicketAbsent, nil, ErrTicketAbsent
	}

	service := g.config.Service()
	if service == "" {
		service = r.Host
	}

	outcome, err := g.validator.Validate(r.Context(), ValidationRequest{Ticket: ticket, Service: service})
	if err != nil {
		log.Errorf("Failed to validate ticket for %s: %s", r.URL.Path, err.Error())
		return categoryTransport, nil, err
	}

	switch o := outcome.(type) {
	case Success:
		principal := &Principal{User: o.User, Attributes: o.Attributes}
		g.replicateUser(principal)
		log.Infof("Validated ticket of user %s for %s", o.User, r.URL.Path)
		return categorySuccess, principal, nil
	case Failure:
		log.Warningf("Error on validation: %s %s", o.Reason, o.Detail)
		if o.Kind == FailureMalformed {
			return categoryMalformed, nil, ErrMalformedResponse
		}
		return categoryRejected, nil, ErrAuthenticationRejected
	default:
		return categoryMalformed, nil, ErrMalformedResponse
	}
}

func (g *Gate) replicateUser(principal *Principal) {
	if g.replicator == nil {
		return
	}
	if err := g.replicator(principal.User, principal.Attributes); err != nil {
		log.Errorf("failed to replicate user %s: %s", principal.User, err.Error())
	}
}

func (g *Gate) apply(decision Decision, next http.Handler, w http.ResponseWriter, r *http.Request) {
	switch decision.Kind {
	case DecisionBlocked:
		log.Debugf("Status: %d %s", decision.StatusCode, decision.Message)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(decision.StatusCode)
		if _, err := w.Write([]byte(decision.Message)); err != nil {
			log.Errorf("failed to write response: %s", err.Error())
		}
	case DecisionContinued:
		ctx := r.Context()
		if decision.Principal != nil {
			ctx = WithPrincipal(ctx, *decision.Principal)
		}
		if decision.Err != nil {
			ctx = withValidationError(ctx, decision.Err)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	default:
		next.ServeHTTP(w, r)
	}
}
