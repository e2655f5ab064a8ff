package casgate

import (
	"net/url"

	"github.com/cloudogu/go-cas"
	"github.com/pkg/errors"
)

// Version is the CAS protocol version used for ticket validation.
type Version string

const (
	Version1 Version = "1"
	Version2 Version = "2"
	Version3 Version = "3"
)

func parseVersion(value string) Version {
	switch v := Version(value); v {
	case Version1, Version2, Version3:
		return v
	default:
		return Version3
	}
}

func (v Version) defaultValidatePath() string {
	switch v {
	case Version1:
		return "/validate"
	case Version2:
		return "/proxyValidate"
	default:
		return "/p3/proxyValidate"
	}
}

func (v Version) parser() ResponseParser {
	if v == Version1 {
		return plainTextParser{}
	}
	return xmlParser{}
}

// Action decides what happens to a request whose ticket could not be validated.
type Action string

const (
	// ActionBlock answers the request directly with 401 or 500.
	ActionBlock Action = "block"
	// ActionPass hands a *ValidationError to the next handler.
	ActionPass Action = "pass"
	// ActionIgnore calls the next handler as if nothing happened.
	ActionIgnore Action = "ignore"
)

// ParseAction returns the action named by value and whether value was valid.
func ParseAction(value string) (Action, bool) {
	switch a := Action(value); a {
	case ActionBlock, ActionPass, ActionIgnore:
		return a, true
	default:
		return "", false
	}
}

// Options are the user supplied gate settings. In YAML they may be given as a
// bare base url string or as a mapping.
type Options struct {
	BaseURL     string `yaml:"base_url"`
	Version     string `yaml:"version"`
	ValidateURL string `yaml:"validateUrl"`
	Action      string `yaml:"action"`
	Service     string `yaml:"service"`
}

// UnmarshalYAML accepts either a scalar base url or the full mapping.
func (o *Options) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var baseURL string
	if err := unmarshal(&baseURL); err == nil {
		*o = Options{BaseURL: baseURL}
		return nil
	}

	type plain Options
	var p plain
	if err := unmarshal(&p); err != nil {
		return err
	}
	*o = Options(p)
	return nil
}

// Config is the resolved, immutable gate configuration. It is safe for
// concurrent use.
type Config struct {
	baseURL      string
	version      Version
	validatePath string
	action       Action
	service      string
	validateURL  url.URL
	parser       ResponseParser
}

// ResolveBaseURL resolves a configuration from a base url only.
func ResolveBaseURL(baseURL string) (Config, error) {
	return Resolve(Options{BaseURL: baseURL})
}

// Resolve normalizes options into a Config. It fails with ErrMissingBaseURL if
// no base url is set.
func Resolve(options Options) (Config, error) {
	if options.BaseURL == "" {
		return Config{}, ErrMissingBaseURL
	}

	base, err := url.Parse(options.BaseURL)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse cas url: %s", options.BaseURL)
	}

	version := parseVersion(options.Version)

	action, ok := ParseAction(options.Action)
	if !ok {
		action = ActionBlock
	}

	validatePath := options.ValidateURL
	if validatePath == "" {
		validatePath = version.defaultValidatePath()
	}

	validateURL, err := createValidateURL(base, version, validatePath)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to create validate url for %s", options.BaseURL)
	}

	return Config{
		baseURL:      options.BaseURL,
		version:      version,
		validatePath: validatePath,
		action:       action,
		service:      options.Service,
		validateURL:  *validateURL,
		parser:       version.parser(),
	}, nil
}

func createValidateURL(base *url.URL, version Version, validatePath string) (*url.URL, error) {
	urlScheme := cas.NewDefaultURLScheme(base)
	if version == Version1 {
		urlScheme.ValidatePath = validatePath
		return urlScheme.Validate()
	}

	urlScheme.ServiceValidatePath = validatePath
	return urlScheme.ServiceValidate()
}

func (c Config) BaseURL() string        { return c.baseURL }
func (c Config) Version() Version       { return c.version }
func (c Config) ValidatePath() string   { return c.validatePath }
func (c Config) Action() Action         { return c.action }
func (c Config) Service() string        { return c.service }
func (c Config) Parser() ResponseParser { return c.parser }

// ValidateURL returns a copy of the validation endpoint without query.
func (c Config) ValidateURL() *url.URL {
	u := c.validateURL
	return &u
}
