package casgate

import (
	"os"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("casgate")

const defaultLoggingFormat = "%{time:2006-01-02 15:04:05.000-0700} [%{module}:%{shortfile}] %{level:.4s} %{message}"

// PrepareLogger installs a stderr backend using the configured format and level.
func PrepareLogger(configuration Configuration) error {
	backend := logging.NewLogBackend(os.Stderr, "", 0)

	format := configuration.LoggingFormat
	if format == "" {
		format = defaultLoggingFormat
	}
	formatter, err := logging.NewStringFormatter(format)
	if err != nil {
		return errors.Wrap(err, "could not parse logging format")
	}

	level, err := convertLogLevel(configuration.LogLevel)
	if err != nil {
		return errors.Wrap(err, "could not prepare logger")
	}
	backendLeveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, formatter))
	backendLeveled.SetLevel(level, "")

	logging.SetBackend(backendLeveled)

	return nil
}

func convertLogLevel(logLevel string) (logging.Level, error) {
	switch logLevel {
	case "":
		return logging.INFO, nil
	case "WARN":
		return logging.LogLevel("WARNING")
	default:
		return logging.LogLevel(logLevel)
	}
}
