package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/translateme/translateme/history"
	"github.com/translateme/translateme/translation"
)

var BuildKey string

type Config struct {
	HTTP        HTTPConfig
	Auth        AuthConfig
	Translation translation.Config
	History     history.Config
	DB          ConfigDB
	UI          UIConfig
}

type UIConfig struct {
	DefaultLanguageID int32
}

func defaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			URL:                      ":8080",
			ReadTimeoutSeconds:       10,
			ReadHeaderTimeoutSeconds: 5,
			WriteTimeoutSeconds:      30,
			IdleTimeoutSeconds:       120,
			StaticDir:                "static",
		},
		Auth: AuthConfig{
			Provider:      "mock",
			SecureCookies: true,
		},
		Translation: translation.Config{
			Endpoint:       translation.DefaultEndpoint,
			TimeoutSeconds: 15,
		},
		History: history.Config{
			IdleTTLMinutes: 12 * 60,
		},
		DB: ConfigDB{
			Host:    "localhost",
			Port:    "5432",
			User:    "translateme",
			Name:    "translateme",
			SSLMode: "disable",
		},
		UI: UIConfig{
			DefaultLanguageID: 2,
		},
	}
}

// loadConfig reads file on top of the defaults. A missing file is only an
// error when required is set.
func loadConfig(file string, required bool) (Config, error) {
	config := defaultConfig()

	raw, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) && !required {
		config.applyEnvOverrides()
		return config, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config file '%s': %w", file, err)
	}

	if err := json.Unmarshal(raw, &config); err != nil {
		return Config{}, fmt.Errorf("corrupted config file '%s': %w", file, err)
	}
	config.applyEnvOverrides()
	return config, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TRANSLATEME_HTTP_URL"); v != "" {
		c.HTTP.URL = v
	}
	if v := os.Getenv("TRANSLATEME_AUTH_PROVIDER"); v != "" {
		c.Auth.Provider = v
	}
	if v := os.Getenv("TRANSLATEME_FIREBASE_API_KEY"); v != "" {
		c.Auth.FirebaseAPIKey = v
	}
	if v := os.Getenv("TRANSLATEME_MYMEMORY_EMAIL"); v != "" {
		c.Translation.ContactEmail = v
	}
	if v := os.Getenv("TRANSLATEME_DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("TRANSLATEME_DB_PORT"); v != "" {
		c.DB.Port = v
	}
}

func (c *Config) historyTTL() time.Duration {
	return c.History.IdleTTLMinutes * time.Minute
}
