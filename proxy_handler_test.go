package casgate

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProxyHandler(t *testing.T) {
	t.Run("should create proxy-handler", func(t *testing.T) {
		conf := Configuration{
			Target: "https://foo.bar/test",
		}
		ph, err := NewProxyHandler(conf)

		require.NoError(t, err)
		require.NotNil(t, ph)
		require.NotNil(t, ph.fwd)
		assert.Equal(t, conf.Target, ph.target.String())
	})

	t.Run("should fail to create proxy-handler for error in target-url", func(t *testing.T) {
		conf := Configuration{
			Target: "http://example.com/%ZZ",
		}
		_, err := NewProxyHandler(conf)

		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to parse target-url:")
	})
}

func TestProxyHandler_ServeHTTP(t *testing.T) {
	t.Run("should forward authenticated request with principal header", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/foo/bar", r.URL.Path)
			assert.Equal(t, "alice", r.Header.Get("MY-PRINCIPAL"))

			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		logBuf := new(bytes.Buffer)
		logging.SetBackend(logging.NewLogBackend(logBuf, "", 0))

		ph, err := NewProxyHandler(Configuration{Target: srv.URL, PrincipalHeader: "MY-PRINCIPAL"})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/foo/bar", nil)
		r.Header.Set("MY-PRINCIPAL", "mallory")
		r = r.WithContext(WithPrincipal(r.Context(), Principal{User: "alice"}))

		ph.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, logBuf.String(), "Forwarding request /foo/bar for user alice...")
	})

	t.Run("should strip principal header of anonymous request", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "", r.Header.Get("MY-PRINCIPAL"))

			w.WriteHeader(312)
		}))
		defer srv.Close()

		ph, err := NewProxyHandler(Configuration{Target: srv.URL, PrincipalHeader: "MY-PRINCIPAL"})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/foo/bar", nil)
		r.Header.Set("MY-PRINCIPAL", "mallory")

		ph.ServeHTTP(w, r)

		assert.Equal(t, 312, w.Code)
	})

	t.Run("should answer passed validation error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpect request for url: %s", r.URL.String())
		}))
		defer srv.Close()

		ph, err := NewProxyHandler(Configuration{Target: srv.URL})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/foo/bar", nil)
		r = r.WithContext(withValidationError(r.Context(), newValidationError(http.StatusUnauthorized, messageUnauthorized, ErrTicketAbsent)))

		ph.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), messageUnauthorized)
	})
}
