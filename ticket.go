package casgate

import (
	"net/http"
	"strings"
)

const ticketParameter = "ticket"

// ExtractTicket returns the service ticket of the request. The ticket query
// parameter wins over an "Authorization: Bearer" header.
func ExtractTicket(r *http.Request) (string, bool) {
	if ticket := r.URL.Query().Get(ticketParameter); ticket != "" {
		return ticket, true
	}

	split := strings.Split(r.Header.Get("Authorization"), " ")
	if len(split) >= 2 && split[0] == "Bearer" && split[1] != "" {
		return split[1], true
	}

	return "", false
}
