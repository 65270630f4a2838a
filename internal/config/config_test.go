package config

import (
	"os"
	"path/filepath"
	"testing"

	catenary "Mooring/internal/calc/catenary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	c, err := FromEnv(envMap(map[string]string{"TOKEN_KEY": "secret"}))
	require.NoError(t, err)

	assert.Equal(t, ":443", c.Addr)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.False(t, c.TrustProxy)
	assert.True(t, c.Migrate)
	assert.False(t, c.TLS())
	assert.Equal(t, catenary.DefaultMinSafetyFactor, c.MinSafetyFactor)
	assert.Equal(t, catenary.DefaultSampleCount, c.CurveSamples)
	assert.Equal(t, catenary.CurveLegacyCosine, c.CurveModel)
	assert.Equal(t, rate.Limit(1), c.RateLimit)
	assert.Equal(t, 3, c.RateBurst)
}

func TestFromEnv_Overrides(t *testing.T) {
	c, err := FromEnv(envMap(map[string]string{
		"TOKEN_KEY":         "secret",
		"ADDR":              ":8080",
		"TLS_CERT":          "cert.pem",
		"TLS_KEY":           "key.pem",
		"TRUST_PROXY":       "true",
		"DB_MIGRATE":        "false",
		"LOG_FORMAT":        "json",
		"MIN_SAFETY_FACTOR": "2.5",
		"CURVE_SAMPLES":     "50",
		"CURVE_MODEL":       "catenary",
		"RATE_LIMIT":        "0.5",
		"RATE_BURST":        "10",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Addr)
	assert.True(t, c.TLS())
	assert.True(t, c.TrustProxy)
	assert.False(t, c.Migrate)

	opts := c.EngineOptions()
	assert.Equal(t, catenary.CurveCatenary, opts.Curve)
	assert.Equal(t, 50, opts.SampleCount)
	assert.Equal(t, 2.5, opts.MinSafetyFactor)
	assert.Equal(t, rate.Limit(0.5), c.RateLimit)
	assert.Equal(t, 10, c.RateBurst)
}

func TestFromEnv_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing token":    {},
		"bad bool":         {"TOKEN_KEY": "k", "TRUST_PROXY": "maybe"},
		"zero safety":      {"TOKEN_KEY": "k", "MIN_SAFETY_FACTOR": "0"},
		"nan safety":       {"TOKEN_KEY": "k", "MIN_SAFETY_FACTOR": "NaN"},
		"negative samples": {"TOKEN_KEY": "k", "CURVE_SAMPLES": "-1"},
		"text samples":     {"TOKEN_KEY": "k", "CURVE_SAMPLES": "many"},
		"unknown curve":    {"TOKEN_KEY": "k", "CURVE_MODEL": "parabola"},
		"unknown format":   {"TOKEN_KEY": "k", "LOG_FORMAT": "xml"},
		"cert without key": {"TOKEN_KEY": "k", "TLS_CERT": "cert.pem"},
		"zero rate burst":  {"TOKEN_KEY": "k", "RATE_BURST": "0"},
		"negative rate":    {"TOKEN_KEY": "k", "RATE_LIMIT": "-3"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envMap(env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TOKEN_KEY=from-file\nCURVE_SAMPLES=7\n"), 0o600))

	t.Setenv("TOKEN_KEY", "")
	t.Setenv("CURVE_SAMPLES", "")
	os.Unsetenv("TOKEN_KEY")
	os.Unsetenv("CURVE_SAMPLES")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", c.TokenKey)
	assert.Equal(t, 7, c.CurveSamples)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	t.Setenv("TOKEN_KEY", "from-env")
	c, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.TokenKey)
}
