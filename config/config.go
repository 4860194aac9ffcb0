// Package config resolves the cluster connection settings.
//
// Settings come from the [CLUSTER] section of an INI file (dwh.cfg by default) and can be
// overridden by DWH_-prefixed environment variables, e.g. DWH_DB_PASSWORD.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/sparkify/dwhdef/database"
	"github.com/sparkify/dwhdef/driver"
	"gopkg.in/ini.v1"
)

const (
	Section   = "CLUSTER"
	EnvPrefix = "DWH_"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Cluster is the immutable result of Load. The koanf tags are the INI key names, lowercased.
type Cluster struct {
	Type     string `koanf:"db_type"`
	Host     string `koanf:"host"`
	DbName   string `koanf:"db_name"`
	User     string `koanf:"db_user"`
	Password string `koanf:"db_password"`
	Port     int    `koanf:"db_port"`
	SslMode  string `koanf:"ssl_mode"`
	Socket   string `koanf:"socket"`
}

var knownKeys = []string{"db_type", "host", "db_name", "db_user", "db_password", "db_port", "ssl_mode", "socket"}

var defaults = map[string]any{
	"db_type": "redshift",
}

// Load reads path and applies environment overrides. The result is not validated.
func Load(path string) (Cluster, error) {
	values, err := readSection(path)
	if err != nil {
		return Cluster{}, err
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Cluster{}, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return Cluster{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	// An empty DWH_* variable does not blank the file value.
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
	}), nil); err != nil {
		return Cluster{}, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cluster Cluster
	if err := k.Unmarshal("", &cluster); err != nil {
		return Cluster{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return cluster, nil
}

// readSection returns the [CLUSTER] keys of path, lowercased. Values are taken verbatim:
// '#' and ';' inside a value are not comments and surrounding quotes are kept.
func readSection(path string) (map[string]any, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:             true,
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	section, err := file.GetSection(Section)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no [%s] section", ErrInvalidConfig, path, Section)
	}

	values := map[string]any{}
	for name, value := range section.KeysHash() {
		if !slices.Contains(knownKeys, name) {
			slog.Warn("Ignoring unknown key", "file", path, "section", Section, "key", name)
			continue
		}
		values[name] = value
	}
	return values, nil
}

// LoadDotenv loads the given .env files into the process environment, skipping missing ones.
// Variables already set are kept.
func LoadDotenv(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// Validate reports every missing or malformed setting at once.
func (c Cluster) Validate() error {
	var problems []string

	dbType := driver.NormalizeType(c.Type)
	if !slices.Contains(driver.Types, dbType) {
		problems = append(problems, fmt.Sprintf("db_type %q is not one of %s", c.Type, strings.Join(driver.Types, ", ")))
	}
	if c.DbName == "" {
		problems = append(problems, "db_name is required")
	}
	if dbType != "sqlite3" {
		if c.Host == "" && c.Socket == "" {
			problems = append(problems, "host is required")
		}
		if c.User == "" {
			problems = append(problems, "db_user is required")
		}
		if c.Port <= 0 || c.Port > 65535 {
			problems = append(problems, fmt.Sprintf("db_port must be between 1 and 65535, got %d", c.Port))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func (c Cluster) DatabaseConfig() database.Config {
	return database.Config{
		Type:     driver.NormalizeType(c.Type),
		DbName:   c.DbName,
		User:     c.User,
		Password: c.Password,
		Host:     c.Host,
		Port:     c.Port,
		Socket:   c.Socket,
		SslMode:  c.SslMode,
	}
}

// WithPassword returns a copy of c using password.
func (c Cluster) WithPassword(password string) Cluster {
	c.Password = password
	return c
}

// Masked returns a copy safe to print.
func (c Cluster) Masked() Cluster {
	if c.Password != "" {
		c.Password = "********"
	}
	return c
}
