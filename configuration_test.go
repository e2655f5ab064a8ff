package casgate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfiguration(t *testing.T, content string) string {
	t.Helper()

	confPath := filepath.Join(t.TempDir(), "casgate.yml")
	require.NoError(t, os.WriteFile(confPath, []byte(content), 0600))
	return confPath
}

func TestReadConfiguration(t *testing.T) {
	t.Run("should read configuration with cas mapping", func(t *testing.T) {
		confPath := writeConfiguration(t, `
cas:
  base_url: https://cas.example.org/cas
  version: "2"
  action: pass
target-url: http://localhost:8081
skip-ssl-verification: true
port: 9090
principal-header: X-CAS-Authentication
log-level: DEBUG
limiter-token-rate: 5
limiter-burst-size: 10
limiter-clean-interval: 60
`)

		configuration, err := ReadConfiguration(confPath)

		require.NoError(t, err)
		assert.Equal(t, Options{BaseURL: "https://cas.example.org/cas", Version: "2", Action: "pass"}, configuration.CAS)
		assert.Equal(t, "http://localhost:8081", configuration.Target)
		assert.True(t, configuration.SkipSSLVerification)
		assert.Equal(t, 9090, configuration.Port)
		assert.Equal(t, "X-CAS-Authentication", configuration.PrincipalHeader)
		assert.Equal(t, "DEBUG", configuration.LogLevel)
		assert.Equal(t, 5, configuration.LimiterTokenRate)
		assert.Equal(t, 10, configuration.LimiterBurstSize)
		assert.Equal(t, 60, configuration.LimiterCleanInterval)
	})

	t.Run("should read configuration with bare cas url", func(t *testing.T) {
		confPath := writeConfiguration(t, "cas: https://cas.example.org/cas\n")

		configuration, err := ReadConfiguration(confPath)

		require.NoError(t, err)
		assert.Equal(t, Options{BaseURL: "https://cas.example.org/cas"}, configuration.CAS)
	})

	t.Run("should fail for missing file", func(t *testing.T) {
		_, err := ReadConfiguration(filepath.Join(t.TempDir(), "missing.yml"))

		require.Error(t, err)
		assert.ErrorContains(t, err, "could not find configuration at")
	})

	t.Run("should fail for invalid yaml", func(t *testing.T) {
		confPath := writeConfiguration(t, "port: [")

		_, err := ReadConfiguration(confPath)

		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to unmarshal configuration")
	})
}
