package casgate

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("should create new server", func(t *testing.T) {
		srv, err := NewServer(ctx, Configuration{CAS: Options{BaseURL: "https://cas.example.org/cas"}, Port: 9090})

		require.NoError(t, err)
		require.NotNil(t, srv)
		assert.Equal(t, ":9090", srv.Addr)
	})

	t.Run("should fail to create new server without cas url", func(t *testing.T) {
		_, err := NewServer(ctx, Configuration{})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingBaseURL)
		assert.ErrorContains(t, err, "error creating cas-gate")
	})

	t.Run("should fail to create new server for error in proxy-handler", func(t *testing.T) {
		_, err := NewServer(ctx, Configuration{
			CAS:    Options{BaseURL: "https://cas.example.org/cas"},
			Target: "http://example.com/%ZZ",
		})

		require.Error(t, err)
		assert.ErrorContains(t, err, "error creating proxy-handler: failed to parse target-url")
	})
}

func TestServerFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cas := newCasServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ticket") == "ST-good" {
			_, _ = w.Write([]byte(successResponse))
			return
		}
		_, _ = w.Write([]byte(failureResponse))
	})

	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello " + r.Header.Get("X-CAS-User")))
	}))
	defer target.Close()

	handler, err := createHandlersForConfig(ctx, Configuration{
		CAS:             Options{BaseURL: cas.URL},
		Target:          target.URL,
		PrincipalHeader: "X-CAS-User",
	}, prometheus.NewRegistry())
	require.NoError(t, err)

	gateway := httptest.NewServer(handler)
	defer gateway.Close()

	get := func(t *testing.T, path string) (int, string) {
		t.Helper()

		resp, err := http.Get(gateway.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	t.Run("should forward validated request", func(t *testing.T) {
		status, body := get(t, "/app?ticket=ST-good")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "hello alice", body)
	})

	t.Run("should block request without ticket", func(t *testing.T) {
		status, body := get(t, "/app")

		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Unauthorized. No service ticket found or invalid.", body)
	})

	t.Run("should block invalid ticket", func(t *testing.T) {
		status, _ := get(t, "/app?ticket=ST-bad")

		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("should expose metrics", func(t *testing.T) {
		status, body := get(t, "/metrics")

		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, `casgate_validations_total{outcome="success"} 1`)
		assert.Contains(t, body, `casgate_validations_total{outcome="ticket_absent"} 1`)
	})
}
