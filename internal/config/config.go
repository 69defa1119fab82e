// Package config loads application settings from EMPATHIZ_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/abhisek/empathiz/internal/logging"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "EMPATHIZ_"

// VoiceMock selects the scripted speech engine instead of a live service.
const VoiceMock = "mock"

// Config is the resolved application configuration.
type Config struct {
	// DBPath is the SQLite file; "" means the XDG default.
	DBPath string

	// CatalogURL points at the EQ backend's catalog endpoints. "" uses
	// the built-in catalog stored in the local database.
	CatalogURL string `validate:"omitempty,url"`

	// CatalogTTL bounds how long topic and prompt lists are cached.
	CatalogTTL time.Duration `validate:"gte=0"`

	// AnalysisURL points at the EQ backend's /analyze endpoint. "" scores
	// answers with the configured LLM provider.
	AnalysisURL string `validate:"omitempty,url"`

	// VoiceURL is the speech service WebSocket, or "mock". "" disables
	// voice input.
	VoiceURL  string `validate:"omitempty,url|eq=mock"`
	VoiceLang string `validate:"required,bcp47_language_tag"`

	// Coaching enables the LLM narrative on the summary screen.
	Coaching bool

	LogPath  string
	LogLevel string `validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		CatalogTTL: 10 * time.Minute,
		VoiceLang:  "en-US",
		Coaching:   true,
		LogPath:    logging.DefaultLogPath(),
		LogLevel:   "info",
	}
}

// LoadEnvFile loads variables from the given .env files without overriding
// variables already set. Missing files are skipped.
func LoadEnvFile(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv applies EMPATHIZ_* variables on top of Default.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("DB"); ok {
		cfg.DBPath = v
	}
	if v, ok := get("CATALOG_URL"); ok {
		cfg.CatalogURL = v
	}
	if v, ok := get("CATALOG_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%sCATALOG_TTL: %w", EnvPrefix, err)
		}
		cfg.CatalogTTL = d
	}
	if v, ok := get("ANALYSIS_URL"); ok {
		cfg.AnalysisURL = v
	}
	if v, ok := get("VOICE_URL"); ok {
		cfg.VoiceURL = v
	}
	if v, ok := get("VOICE_LANG"); ok {
		cfg.VoiceLang = v
	}
	if v, ok := get("COACHING"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%sCOACHING: %w", EnvPrefix, err)
		}
		cfg.Coaching = b
	}
	if v, ok := get("LOG_FILE"); ok {
		cfg.LogPath = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field formats and reports every invalid field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %q (%s)", fe.Field(), fmt.Sprint(fe.Value()), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Logging returns the logger settings.
func (c Config) Logging() logging.Config {
	lc := logging.DefaultConfig()
	lc.Path = c.LogPath
	lc.Level = c.LogLevel
	return lc
}

// VoiceEnabled reports whether a speech engine is configured.
func (c Config) VoiceEnabled() bool { return c.VoiceURL != "" }
