package casgate

import (
	"context"
	"net/http"
)

type contextKey int

const (
	principalContextKey contextKey = iota
	validationErrorContextKey
)

// Principal is the identity CAS confirmed for a request.
type Principal struct {
	User       string
	Attributes UserAttributes
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext returns the principal attached by the gate.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}

// IsAuthenticated reports whether the gate validated the ticket of r.
func IsAuthenticated(r *http.Request) bool {
	_, ok := PrincipalFromContext(r.Context())
	return ok
}

// Username returns the CAS user of r or an empty string.
func Username(r *http.Request) string {
	p, _ := PrincipalFromContext(r.Context())
	return p.User
}

// Attributes returns the CAS attributes of r or nil.
func Attributes(r *http.Request) UserAttributes {
	p, _ := PrincipalFromContext(r.Context())
	return p.Attributes
}

func withValidationError(ctx context.Context, err *ValidationError) context.Context {
	return context.WithValue(ctx, validationErrorContextKey, err)
}

// ValidationErrorFromContext returns the error the gate passed on in pass mode.
func ValidationErrorFromContext(ctx context.Context) (*ValidationError, bool) {
	err, ok := ctx.Value(validationErrorContextKey).(*ValidationError)
	return err, ok
}
