package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.CatalogTTL)
	assert.Equal(t, "en-US", cfg.VoiceLang)
	assert.True(t, cfg.Coaching)
	assert.False(t, cfg.VoiceEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(map[string]string{
		"EMPATHIZ_DB":           "/tmp/eq.db",
		"EMPATHIZ_CATALOG_URL":  "https://eq.example.com/api",
		"EMPATHIZ_CATALOG_TTL":  "30s",
		"EMPATHIZ_ANALYSIS_URL": "https://eq.example.com/api",
		"EMPATHIZ_VOICE_URL":    "ws://localhost:9000/listen",
		"EMPATHIZ_VOICE_LANG":   "hi-IN",
		"EMPATHIZ_COACHING":     "false",
		"EMPATHIZ_LOG_LEVEL":    "DEBUG",
		"EMPATHIZ_LOG_FILE":     "  ",
	}))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/eq.db", cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.CatalogTTL)
	assert.Equal(t, "hi-IN", cfg.VoiceLang)
	assert.False(t, cfg.Coaching)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, Default().LogPath, cfg.LogPath, "blank values are ignored")
	assert.True(t, cfg.VoiceEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestFromLookup_BadValues(t *testing.T) {
	_, err := fromLookup(lookupFrom(map[string]string{"EMPATHIZ_CATALOG_TTL": "soon"}))
	assert.ErrorContains(t, err, "EMPATHIZ_CATALOG_TTL")

	_, err = fromLookup(lookupFrom(map[string]string{"EMPATHIZ_COACHING": "maybe"}))
	assert.ErrorContains(t, err, "EMPATHIZ_COACHING")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"catalog url", func(c *Config) { c.CatalogURL = "not a url" }, "CatalogURL"},
		{"analysis url", func(c *Config) { c.AnalysisURL = "eq.example.com" }, "AnalysisURL"},
		{"voice url", func(c *Config) { c.VoiceURL = "microphone" }, "VoiceURL"},
		{"voice lang", func(c *Config) { c.VoiceLang = "" }, "VoiceLang"},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }, "LogLevel"},
		{"negative ttl", func(c *Config) { c.CatalogTTL = -time.Second }, "CatalogTTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	cfg := Default()
	cfg.VoiceURL = VoiceMock
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("EMPATHIZ_VOICE_LANG=fr-FR\n"), 0o600))

	t.Setenv("EMPATHIZ_VOICE_LANG", "")
	os.Unsetenv("EMPATHIZ_VOICE_LANG")

	require.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env"), path))
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "fr-FR", cfg.VoiceLang)
}
