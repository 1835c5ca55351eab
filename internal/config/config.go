// Package config loads the engine configuration from a YAML file, the
// environment, or a loose options map supplied by an embedding host.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Directory holds the credentials of the real directory service. A nil
// Directory section selects the in-memory dummy.
type Directory struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Notify names the outbound notification endpoint. A nil Notify section
// disables notifications (they trivially succeed).
type Notify struct {
	Pool string `yaml:"pool"`
	Tag  string `yaml:"tag"`
}

// Redis holds the connection settings for profiles, counters, the outbox
// and distributed locks. A nil Redis section selects in-memory adapters.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Config is the full engine configuration.
type Config struct {
	// QA enables test-only behavior (debug endpoints, verbose logging).
	QA bool `yaml:"qa" env:"SWB_QA"`

	// DefaultLang is sent to the directory service with every request.
	DefaultLang string `yaml:"default_lang" env:"SWB_DEFAULT_LANG" envDefault:"en"`

	// Listen is the HTTP transport bind address.
	Listen string `yaml:"listen" env:"SWB_LISTEN" envDefault:":8080"`

	// MetricStore labels every exported metric.
	MetricStore string `yaml:"metric_store" env:"SWB_METRIC_STORE" envDefault:"default"`

	// ValidUserAddresses restricts which identities are served. Empty
	// means all identities are accepted.
	ValidUserAddresses []string `yaml:"valid_user_addresses" env:"SWB_VALID_USER_ADDRESSES" envSeparator:","`

	Directory *Directory `yaml:"directory"`
	Notify    *Notify    `yaml:"notify"`
	Redis     *Redis     `yaml:"redis"`
}

// Default returns the configuration used when nothing is supplied: dummy
// directory, in-memory stores, notifications disabled.
func Default() *Config {
	return &Config{
		DefaultLang: "en",
		Listen:      ":8080",
		MetricStore: "default",
	}
}

// Load reads a YAML file (optional; empty path skips it) and then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// FromMap decodes a loose options bag (e.g. a JSON document handed over by
// an embedding host) into a Config, reusing the yaml field names.
func FromMap(options map[string]any) (*Config, error) {
	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "yaml",
		Result:  cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(options); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}
	return cfg, nil
}

// AddressFilter gates identities against the configured patterns.
type AddressFilter struct {
	patterns []*regexp.Regexp
}

// CompileAddressFilter compiles ValidUserAddresses. An empty list yields a
// filter that accepts everything.
func (c *Config) CompileAddressFilter() (*AddressFilter, error) {
	f := &AddressFilter{}
	for _, p := range c.ValidUserAddresses {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid address pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// Allowed reports whether the identity may use the service.
func (f *AddressFilter) Allowed(identity string) bool {
	if f == nil || len(f.patterns) == 0 {
		return true
	}
	for _, re := range f.patterns {
		if re.MatchString(identity) {
			return true
		}
	}
	return false
}
