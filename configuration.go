package casgate

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DefaultConfigurationPath is read when no other path is given.
const DefaultConfigurationPath = "casgate.yml"

// Configuration is the content of the casgate configuration file.
type Configuration struct {
	CAS                 Options `yaml:"cas"`
	Target              string  `yaml:"target-url"`
	SkipSSLVerification bool    `yaml:"skip-ssl-verification"`
	Port                int     `yaml:"port"`
	PrincipalHeader     string  `yaml:"principal-header"`
	LogLevel            string  `yaml:"log-level"`
	LoggingFormat       string  `yaml:"logging-format"`
	LimiterTokenRate    int     `yaml:"limiter-token-rate"`
	LimiterBurstSize    int     `yaml:"limiter-burst-size"`
	// LimiterCleanInterval is given in seconds.
	LimiterCleanInterval int            `yaml:"limiter-clean-interval"`
	UserReplicator       UserReplicator `yaml:"-"`
}

// ReadConfiguration reads and parses the configuration file at confPath.
func ReadConfiguration(confPath string) (Configuration, error) {
	configuration := Configuration{}

	if confPath == "" {
		confPath = DefaultConfigurationPath
	}

	if _, err := os.Stat(confPath); os.IsNotExist(err) {
		return configuration, errors.Errorf("could not find configuration at %s", confPath)
	}

	data, err := os.ReadFile(confPath)
	if err != nil {
		return configuration, errors.Wrapf(err, "failed to read configuration %s", confPath)
	}

	err = yaml.Unmarshal(data, &configuration)
	if err != nil {
		return configuration, errors.Wrapf(err, "failed to unmarshal configuration %s", confPath)
	}

	return configuration, nil
}
