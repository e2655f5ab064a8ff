package casgate

import (
	"net"
	"net/http"
	"strings"
)

const httpHeaderXForwardedFor = "X-Forwarded-For"

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (s *statusResponseWriter) WriteHeader(statusCode int) {
	s.ResponseWriter.WriteHeader(statusCode)
	s.statusCode = statusCode
}

// clientAddress returns the first X-Forwarded-For entry or the host part of the
// remote address.
func clientAddress(r *http.Request) string {
	// go reverse proxy may add additional IP addresses from localhost. We need to take the right one.
	forwarded := strings.Split(r.Header.Get(httpHeaderXForwardedFor), ",")
	if first := strings.TrimSpace(forwarded[0]); first != "" {
		return first
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
