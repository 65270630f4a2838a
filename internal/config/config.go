// Package config reads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	catenary "Mooring/internal/calc/catenary"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

type Config struct {
	Addr        string
	TLSCert     string
	TLSKey      string
	DatabaseURL string
	TokenKey    string
	TrustProxy  bool
	Migrate     bool

	LogLevel  string
	LogFormat string

	MinSafetyFactor float64
	CurveSamples    int
	CurveModel      catenary.CurveModel

	RateLimit rate.Limit
	RateBurst int
}

// TLS reports whether both certificate and key are configured.
func (c Config) TLS() bool { return c.TLSCert != "" && c.TLSKey != "" }

// EngineOptions maps the calculation settings onto engine options.
func (c Config) EngineOptions() catenary.Options {
	return catenary.Options{
		Curve:           c.CurveModel,
		SampleCount:     c.CurveSamples,
		MinSafetyFactor: c.MinSafetyFactor,
	}
}

// Load reads .env files when present and then the process environment.
// A missing .env is not an error; malformed values are.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Config{
		Addr:        orDefault(getenv("ADDR"), ":443"),
		TLSCert:     getenv("TLS_CERT"),
		TLSKey:      getenv("TLS_KEY"),
		DatabaseURL: getenv("DATABASE_URL"),
		TokenKey:    getenv("TOKEN_KEY"),
		LogLevel:    orDefault(getenv("LOG_LEVEL"), "info"),
		LogFormat:   orDefault(getenv("LOG_FORMAT"), "text"),
	}
	if c.TokenKey == "" {
		return Config{}, errors.New("TOKEN_KEY environment variable is not set")
	}

	var err error
	if c.TrustProxy, err = parseBool(getenv, "TRUST_PROXY", false); err != nil {
		return Config{}, err
	}
	if c.Migrate, err = parseBool(getenv, "DB_MIGRATE", true); err != nil {
		return Config{}, err
	}
	if c.MinSafetyFactor, err = parsePositiveFloat(getenv, "MIN_SAFETY_FACTOR", catenary.DefaultMinSafetyFactor); err != nil {
		return Config{}, err
	}
	if c.CurveSamples, err = parsePositiveInt(getenv, "CURVE_SAMPLES", catenary.DefaultSampleCount); err != nil {
		return Config{}, err
	}
	if c.CurveModel, err = catenary.ParseCurveModel(getenv("CURVE_MODEL")); err != nil {
		return Config{}, fmt.Errorf("CURVE_MODEL: %w", err)
	}
	limit, err := parsePositiveFloat(getenv, "RATE_LIMIT", 1)
	if err != nil {
		return Config{}, err
	}
	c.RateLimit = rate.Limit(limit)
	if c.RateBurst, err = parsePositiveInt(getenv, "RATE_BURST", 3); err != nil {
		return Config{}, err
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT: unknown format %q", c.LogFormat)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return Config{}, errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	return c, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseBool(getenv func(string) string, key string, def bool) (bool, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func parsePositiveFloat(getenv func(string) string, key string, def float64) (float64, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if !(f > 0) {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, v)
	}
	return f, nil
}

func parsePositiveInt(getenv func(string) string, key string, def int) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, v)
	}
	return n, nil
}
