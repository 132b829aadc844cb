// Package config layers webconform settings from defaults, a YAML file and
// the environment. Command-line flags are applied last by the CLI.
package config

import (
	"bytes"
	"time"

	"github.com/mstoykov/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/guregu/null.v3"
	"gopkg.in/yaml.v3"

	"github.com/chrisuehlinger/webconform/harness"
	"github.com/chrisuehlinger/webconform/js"
)

// Config holds every setting. Unset fields are not Valid and leave the
// value beneath them in place when applied.
type Config struct {
	Profile            null.String  `yaml:"profile" envconfig:"WEBCONFORM_PROFILE"`
	UserAgent          null.String  `yaml:"userAgent" envconfig:"WEBCONFORM_USER_AGENT"`
	PageTimeout        NullDuration `yaml:"pageTimeout" envconfig:"WEBCONFORM_PAGE_TIMEOUT"`
	MaxTimerIterations null.Int     `yaml:"maxTimerIterations" envconfig:"WEBCONFORM_MAX_TIMER_ITERATIONS"`
	LogLevel           null.String  `yaml:"logLevel" envconfig:"WEBCONFORM_LOG_LEVEL"`
	LogFormat          null.String  `yaml:"logFormat" envconfig:"WEBCONFORM_LOG_FORMAT"`
	NoColor            null.Bool    `yaml:"noColor" envconfig:"WEBCONFORM_NO_COLOR"`
	Suites             []string     `yaml:"suites" envconfig:"WEBCONFORM_SUITES"`
}

// NullDuration is a duration that may be unset.
type NullDuration struct {
	Duration time.Duration
	Valid    bool
}

// NullDurationFrom returns a set NullDuration.
func NullDurationFrom(d time.Duration) NullDuration {
	return NullDuration{Duration: d, Valid: true}
}

// UnmarshalText parses a Go duration string. Empty text unsets d.
func (d *NullDuration) UnmarshalText(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		*d = NullDuration{}
		return nil
	}
	v, err := time.ParseDuration(string(bytes.TrimSpace(data)))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", data)
	}
	*d = NullDurationFrom(v)
	return nil
}

func (d NullDuration) String() string {
	if !d.Valid {
		return ""
	}
	return d.Duration.String()
}

// NewConfig returns the defaults.
func NewConfig() Config {
	return Config{
		Profile:            null.NewString(harness.ProfileDefault.Name, false),
		PageTimeout:        NullDuration{Duration: harness.DefaultPageTimeout},
		MaxTimerIterations: null.NewInt(js.DefaultMaxTimerIterations, false),
		LogLevel:           null.NewString("info", false),
		LogFormat:          null.NewString("text", false),
	}
}

// Apply returns c with every set field of cfg copied over it.
func (c Config) Apply(cfg Config) Config {
	if cfg.Profile.Valid && cfg.Profile.String != "" {
		c.Profile = cfg.Profile
	}
	if cfg.UserAgent.Valid {
		c.UserAgent = cfg.UserAgent
	}
	if cfg.PageTimeout.Valid {
		c.PageTimeout = cfg.PageTimeout
	}
	if cfg.MaxTimerIterations.Valid && cfg.MaxTimerIterations.Int64 > 0 {
		c.MaxTimerIterations = cfg.MaxTimerIterations
	}
	if cfg.LogLevel.Valid && cfg.LogLevel.String != "" {
		c.LogLevel = cfg.LogLevel
	}
	if cfg.LogFormat.Valid && cfg.LogFormat.String != "" {
		c.LogFormat = cfg.LogFormat
	}
	if cfg.NoColor.Valid {
		c.NoColor = cfg.NoColor
	}
	if len(cfg.Suites) > 0 {
		c.Suites = cfg.Suites
	}
	return c
}

// ReadFile decodes the YAML config at path. Unknown keys are rejected.
func ReadFile(fs afero.Fs, path string) (Config, error) {
	var cfg Config
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "decoding config %s", path)
	}
	return cfg, nil
}

// FromEnv reads the WEBCONFORM_* variables from env.
func FromEnv(env map[string]string) (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	return cfg, errors.Wrap(err, "reading environment")
}

// Load layers the defaults, the config file when path is not empty, and
// env.
func Load(fs afero.Fs, path string, env map[string]string) (Config, error) {
	result := NewConfig()
	if path != "" {
		fileConf, err := ReadFile(fs, path)
		if err != nil {
			return result, err
		}
		result = result.Apply(fileConf)
	}
	envConf, err := FromEnv(env)
	if err != nil {
		return result, err
	}
	return result.Apply(envConf), nil
}

// Validate checks values that can only be judged once all layers are
// applied.
func (c Config) Validate() error {
	if _, ok := harness.LookupProfile(c.Profile.String); !ok {
		return errors.Errorf("unknown browser profile %q", c.Profile.String)
	}
	if _, err := logrus.ParseLevel(c.LogLevel.String); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	switch c.LogFormat.String {
	case "text", "json":
	default:
		return errors.Errorf("invalid log format %q", c.LogFormat.String)
	}
	if c.PageTimeout.Duration <= 0 {
		return errors.Errorf("page timeout must be positive, got %s", c.PageTimeout.Duration)
	}
	return nil
}

// ClientOptions translates the config into harness.WebClient options.
func (c Config) ClientOptions(logger logrus.FieldLogger) ([]harness.Option, error) {
	profile, ok := harness.LookupProfile(c.Profile.String)
	if !ok {
		return nil, errors.Errorf("unknown browser profile %q", c.Profile.String)
	}
	if c.UserAgent.Valid && c.UserAgent.String != "" {
		profile.UserAgent = c.UserAgent.String
	}
	return []harness.Option{
		harness.WithProfile(profile),
		harness.WithTimeout(c.PageTimeout.Duration),
		harness.WithMaxTimerIterations(int(c.MaxTimerIterations.Int64)),
		harness.WithLogger(logger),
	}, nil
}
