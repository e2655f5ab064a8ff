package casgate

// UserAttributes maps a CAS attribute name to its values. A key that occurs once
// in the response carries a single value.
type UserAttributes map[string][]string

// First returns the first value of the attribute or an empty string.
func (a UserAttributes) First(name string) string {
	return firstOrEmpty(a[name])
}

func firstOrEmpty(values []string) string {
	if len(values) > 0 {
		return values[0]
	}
	return ""
}

// Outcome is the result of parsing a validation response. It is either a
// Success or a Failure.
type Outcome interface {
	isOutcome()
}

// Success is produced when CAS accepted the ticket. User is never empty.
type Success struct {
	User       string
	Attributes UserAttributes
}

func (Success) isOutcome() {}

// FailureKind separates an explicit denial by CAS from a response that could not
// be understood.
type FailureKind int

const (
	// FailureRejected means CAS answered and denied the ticket.
	FailureRejected FailureKind = iota
	// FailureMalformed means the response body had an unexpected shape.
	FailureMalformed
)

func (k FailureKind) String() string {
	switch k {
	case FailureRejected:
		return "rejected"
	case FailureMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

const (
	reasonRejected    = "CAS authentication failed"
	reasonBadResponse = "Response from CAS server was bad"
)

// Failure is produced when the ticket could not be validated.
type Failure struct {
	Kind   FailureKind
	Reason string
	// Code is the failure code reported by CAS (e.g. INVALID_TICKET), if any.
	Code string
	// Detail is the text CAS sent along with the code. It is kept for logging
	// and never written to the client.
	Detail string
}

func (Failure) isOutcome() {}

func rejected() Failure {
	return Failure{Kind: FailureRejected, Reason: reasonRejected}
}

func rejectedWithCode(code, detail string) Failure {
	return Failure{
		Kind:   FailureRejected,
		Reason: reasonRejected + " (" + code + ").",
		Code:   code,
		Detail: detail,
	}
}

func malformed() Failure {
	return Failure{Kind: FailureMalformed, Reason: reasonBadResponse}
}
