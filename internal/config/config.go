// Package config holds the settings of the nttcalc command: defaults, an
// optional JSON file, and validation. Command-line flags are applied on top by
// the caller.
package config

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"os"

	"github.com/jonathanmweiss/go-ntt"
	"github.com/jonathanmweiss/go-ntt/field"
	"github.com/pkg/errors"
)

// Default configuration values.
const (
	// DefaultModulus is 119*2^23 + 1, which supports transforms up to 2^23 points.
	DefaultModulus uint64 = 998244353
	DefaultLogLevel       = "info"
	DefaultMinLog         = 8
	DefaultMaxLog         = 16
	DefaultRounds         = 5
	DefaultSeed           = "nttcalc"
	DefaultChart          = "ntt-bench.html"
)

// Config aggregates the nttcalc settings. Zero-valued fields in a JSON file keep their defaults.
type Config struct {
	Modulus        uint64 `json:"modulus"`
	LogLevel       string `json:"log_level"`
	JSONLog        bool   `json:"json_log"`
	NaiveThreshold int    `json:"naive_threshold"`
	Workers        int    `json:"workers"`

	Bench BenchConfig `json:"bench"`
}

// BenchConfig controls the timing sweep of the bench command.
type BenchConfig struct {
	MinLog int    `json:"min_log"`
	MaxLog int    `json:"max_log"`
	Rounds int    `json:"rounds"`
	Seed   string `json:"seed"`
	Out    string `json:"out"`
}

// ConfigError reports a configuration value that cannot be used.
type ConfigError struct {
	Field   string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func newConfigError(field, format string, a ...any) error {
	return ConfigError{Field: field, Message: fmt.Sprintf(format, a...)}
}

func Default() Config {
	return Config{
		Modulus:        DefaultModulus,
		LogLevel:       DefaultLogLevel,
		NaiveThreshold: ntt.DefaultNaiveThreshold,
		Bench: BenchConfig{
			MinLog: DefaultMinLog,
			MaxLog: DefaultMaxLog,
			Rounds: DefaultRounds,
			Seed:   DefaultSeed,
			Out:    DefaultChart,
		},
	}
}

// Load reads the JSON file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := parseJSONConfig(&cfg, path); err != nil {
		return Config{}, errors.Wrapf(err, "loading config %s", path)
	}

	return cfg, nil
}

func parseJSONConfig(config *Config, path string) error {
	file, err := os.Open(path) // For read access.
	if err != nil {
		return err
	}
	defer file.Close()

	dec := json.NewDecoder(file)
	dec.DisallowUnknownFields()

	return dec.Decode(config)
}

// Validate checks that the modulus is an odd prime below 2^63. It returns a ConfigError.
func (c Config) Validate() error {
	if c.Modulus < 3 || c.Modulus >= 1<<63 {
		return newConfigError("modulus", "%d is outside [3, 2^63)", c.Modulus)
	}

	if _, err := field.NewPrimeField(c.Modulus); err != nil {
		return newConfigError("modulus", "%v", err)
	}

	if c.Workers < 0 {
		return newConfigError("workers", "cannot be negative: %d", c.Workers)
	}

	return nil
}

// ValidateBench checks that the bench sweep fits the modulus. Call Validate first.
func (c Config) ValidateBench() error {
	b := c.Bench
	if b.MinLog < 0 || b.MinLog > b.MaxLog {
		return newConfigError("bench.min_log", "%d must be in [0, max_log=%d]", b.MinLog, b.MaxLog)
	}

	if b.MaxLog > ntt.MaxLog {
		return newConfigError("bench.max_log", "%d exceeds %d", b.MaxLog, ntt.MaxLog)
	}

	if tz := bits.TrailingZeros64(c.Modulus - 1); b.MaxLog > tz {
		return newConfigError("bench.max_log", "2^%d does not divide %d-1", b.MaxLog, c.Modulus)
	}

	if b.Rounds <= 0 {
		return newConfigError("bench.rounds", "must be strictly positive: %d", b.Rounds)
	}

	return nil
}
