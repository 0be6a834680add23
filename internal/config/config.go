package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Tiliavir/trivial-attendance/internal/api"
)

// Config is the root configuration for att, stored in ~/.att/config.json.
// The file supports single-line // comments for documentation purposes.
// Every key can be overridden by an ATT_ environment variable, e.g.
// ATT_API_BASE_URL or ATT_TIMEZONE.
type Config struct {
	API APIConfig `mapstructure:"api"`
	// Timezone is the IANA timezone attendance windows are evaluated in.
	// Empty = the system's local zone.
	Timezone string `mapstructure:"timezone" validate:"omitempty,timezone"`
	// Token and UserID override the stored session when set. They are read
	// from ATT_TOKEN and ATT_USER_ID and never written to the file.
	Token  string `mapstructure:"token"`
	UserID string `mapstructure:"user_id"`
}

// APIConfig holds the remote attendance API settings.
type APIConfig struct {
	// BaseURL prefixes every endpoint, e.g. "<base>/attendance/add".
	BaseURL string `mapstructure:"base_url" validate:"required,http_url"`
}

// Location returns the zone named by Timezone, or time.Local when empty.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.Local
}

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "ATT"

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		API: APIConfig{BaseURL: api.DefaultBaseURL},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// att configuration – ~/.att/config.json
//
// All settings are optional; the built-in defaults shown below point at the
// hosted attendance API. Any key can also be set through the environment,
// e.g. ATT_API_BASE_URL or ATT_TIMEZONE, or in a .env file in the current
// directory.
{
  // ── Attendance API ───────────────────────────────────────────────────────
  "api": {
    // Base URL of the attendance API. Endpoints are appended to it:
    //   <base_url>/attendance/status, <base_url>/attendance/add, <base_url>/users
    "base_url": "https://scanqr-jdez.onrender.com/api"
  },

  // IANA timezone used to evaluate attendance windows, e.g. "Asia/Kolkata".
  // Leave empty to use the system's local time.
  "timezone": ""
}
`

// configFilePath returns the path to ~/.att/config.json.
func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".att", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.att/config.json, creating it with annotated defaults on first
// run. A .env file in the working directory is loaded into the environment
// first, so it can supply ATT_ overrides.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}
	path, err := configFilePath()
	if err != nil {
		return defaultConfig(), err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, writing the annotated template if the
// file does not exist, applies ATT_ environment overrides and validates the
// result.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	def := defaultConfig()
	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("token", "")
	v.SetDefault("user_id", "")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := v.ReadConfig(bytes.NewReader(stripLineComments(data))); err != nil {
			return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return defaultConfig(), fmt.Errorf("decoding config: %w", err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user blanks a key.
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = def.API.BaseURL
	}

	if err := validate(cfg); err != nil {
		return defaultConfig(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = func() func(Config) error {
	vd := validator.New(validator.WithRequiredStructEnabled())
	return func(c Config) error {
		err := vd.Struct(c)
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
}()

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
