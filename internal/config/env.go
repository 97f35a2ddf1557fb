package config

import (
	"fmt"
	"os"
	"strings"
)

// ApplyEnv overrides file settings from the environment:
//
//	GRIDPATH_ADDR, GRIDPATH_STORAGE,
//	PGHOST, PGPORT, PGUSER, PGDATABASE, PGSSLMODE, PGPASSWORD (or PGPASSWORD_FILE),
//	MQTT_URL (also enables the publisher).
func (c *Config) ApplyEnv() error {
	c.Server.Addr = getEnv("GRIDPATH_ADDR", c.Server.Addr)
	c.Storage.Driver = getEnv("GRIDPATH_STORAGE", c.Storage.Driver)

	c.Postgres.Host = getEnv("PGHOST", c.Postgres.Host)
	c.Postgres.Port = getEnv("PGPORT", c.Postgres.Port)
	c.Postgres.User = getEnv("PGUSER", c.Postgres.User)
	c.Postgres.DBName = getEnv("PGDATABASE", c.Postgres.DBName)
	c.Postgres.SSLMode = getEnv("PGSSLMODE", c.Postgres.SSLMode)
	pw, err := ResolveSecret("PGPASSWORD")
	if err != nil {
		return err
	}
	if pw != "" {
		c.Postgres.Password = pw
	}

	if url := os.Getenv("MQTT_URL"); url != "" {
		c.MQTT.Broker = url
		c.MQTT.Enabled = true
	}
	return c.Validate()
}

// ResolveSecret reads a secret using the *_FILE convention: envName+"_FILE"
// names a file holding the value and takes precedence over envName itself.
func ResolveSecret(envName string) (string, error) {
	fileEnv := envName + "_FILE"
	if path := os.Getenv(fileEnv); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("config: read secret from %s=%s: %w", fileEnv, path, err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return os.Getenv(envName), nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
