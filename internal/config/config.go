package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config holds runtime configuration loaded from environment variables and an optional file.
type Config struct {
	DatabaseURL      string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSSLMode        string
	DBPoolMin        int
	DBPoolMax        int
	BootstrapSchema  bool
	Port             string
	CorsOrigins      []string
	UpdatesPath      string
	MediaPath        string
	LogDir           string
	LogLevel         string
	LogFormat        string
	LogRetentionDays int
	LogViewLimit     int
}

var ErrMissingPassword = errors.New("DB_PASSWORD environment variable is required")

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_url", "")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "defaultdb")
	v.SetDefault("db_ssl_mode", "prefer")
	v.SetDefault("db_pool_min", 2)
	v.SetDefault("db_pool_max", 5)
	v.SetDefault("db_bootstrap_schema", true)
	v.SetDefault("port", "8080")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("updates_path", "my-app-updates")
	v.SetDefault("media_path", "media")
	v.SetDefault("log_dir", "storage/logs")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_retention_days", 7)
	v.SetDefault("log_view_limit", 1000)
}

// Load reads the configuration. configFile may be empty, in which case only defaults and the
// environment are used.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := Config{
		DatabaseURL:      strings.TrimSpace(v.GetString("database_url")),
		DBHost:           strings.TrimSpace(v.GetString("db_host")),
		DBPort:           strings.TrimSpace(v.GetString("db_port")),
		DBUser:           strings.TrimSpace(v.GetString("db_user")),
		DBPassword:       v.GetString("db_password"),
		DBName:           strings.TrimSpace(v.GetString("db_name")),
		DBSSLMode:        strings.TrimSpace(v.GetString("db_ssl_mode")),
		DBPoolMin:        v.GetInt("db_pool_min"),
		DBPoolMax:        v.GetInt("db_pool_max"),
		BootstrapSchema:  v.GetBool("db_bootstrap_schema"),
		Port:             strings.TrimSpace(v.GetString("port")),
		CorsOrigins:      parseCSV(v.GetString("cors_origins")),
		UpdatesPath:      strings.TrimSpace(v.GetString("updates_path")),
		MediaPath:        strings.TrimSpace(v.GetString("media_path")),
		LogDir:           strings.TrimSpace(v.GetString("log_dir")),
		LogLevel:         strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogFormat:        strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		LogRetentionDays: v.GetInt("log_retention_days"),
		LogViewLimit:     v.GetInt("log_view_limit"),
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if c.DatabaseURL == "" && c.DBPassword == "" {
		return ErrMissingPassword
	}
	if c.DBPoolMax <= 0 {
		c.DBPoolMax = 5
	}
	if c.DBPoolMin < 0 {
		c.DBPoolMin = 0
	}
	if c.DBPoolMin > c.DBPoolMax {
		c.DBPoolMin = c.DBPoolMax
	}
	if c.LogRetentionDays <= 0 || c.LogRetentionDays > 7 {
		c.LogRetentionDays = 7
	}
	if c.LogViewLimit <= 0 {
		c.LogViewLimit = 1000
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	return nil
}

// DSN returns DATABASE_URL when set, otherwise a postgres URL built from the DB_* settings.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	if c.DBSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.DBSSLMode}}.Encode()
	}
	return u.String()
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
