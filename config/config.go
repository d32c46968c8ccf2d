// Package config resolves the settings of a smoke-test run from the environment, an optional
// .env file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultBaseURL is used when FECO_API_BASE is not set.
	DefaultBaseURL = "http://localhost:3001"

	// DefaultEnvFile is loaded if it exists. Variables already in the environment win.
	DefaultEnvFile = ".env"

	EnvBaseURL  = "FECO_API_BASE"
	EnvEmail    = "FECO_EMAIL"
	EnvPassword = "FECO_PASSWORD"
)

// Viper keys.
const (
	KeyBaseURL  = "api_base"
	KeyEmail    = "email"
	KeyPassword = "password"
)

// ErrMissingSetting is wrapped by Load when a required setting is empty.
var ErrMissingSetting = errors.New("missing required setting")

// Config is the immutable configuration of a run.
type Config struct {
	BaseURL  string
	Email    string
	Password string
}

// LoadEnvFile loads variables from a dotenv file into the process environment. A file that
// does not exist is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// NewViper returns a viper instance with the environment bindings and defaults that Load
// expects. Callers may bind command-line flags to the Key constants before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	_ = v.BindEnv(KeyBaseURL, EnvBaseURL)
	_ = v.BindEnv(KeyEmail, EnvEmail)
	_ = v.BindEnv(KeyPassword, EnvPassword)
	return v
}

// Load reads and normalises the settings. The email is trimmed and lower-cased, the password is
// trimmed and the base URL loses any trailing slash. An empty email or password is an error
// wrapping ErrMissingSetting that names the environment variable.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		BaseURL:  strings.TrimRight(strings.TrimSpace(v.GetString(KeyBaseURL)), "/"),
		Email:    strings.ToLower(strings.TrimSpace(v.GetString(KeyEmail))),
		Password: strings.TrimSpace(v.GetString(KeyPassword)),
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Email == "" {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingSetting, EnvEmail)
	}
	if c.Password == "" {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingSetting, EnvPassword)
	}
	return c, nil
}
