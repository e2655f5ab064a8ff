// Package casgate protects an application with CAS service tickets.
//
// Every request passes a Gate which takes the ticket from the "ticket" query
// parameter or a bearer token, validates it against the CAS server with the
// configured protocol version and attaches the confirmed user to the request
// context. Requests whose ticket is missing or invalid are handled according to
// the configured action:
//   - block: the gate answers with 401, or 500 if CAS could not be reached
//   - pass: the next handler receives a *ValidationError in the request context
//   - ignore: the next handler is called for an anonymous request
package casgate
