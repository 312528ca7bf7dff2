package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config holds all runtime configuration for the board API.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Relay    RelayConfig    `koanf:"relay"`
	Mail     MailConfig     `koanf:"mail"`
	Reminder ReminderConfig `koanf:"reminder"`
}

type ServerConfig struct {
	Port           int      `koanf:"port"`
	GinMode        string   `koanf:"gin_mode"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver   string `koanf:"driver"` // "mysql" or "postgres"
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
}

type RelayConfig struct {
	// Embed starts an in-process NATS server; otherwise URL must point at
	// an external one.
	Embed         bool   `koanf:"embed"`
	URL           string `koanf:"url"`
	Port          int    `koanf:"port"`
	WebsocketPort int    `koanf:"websocket_port"`
}

type MailConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

type ReminderConfig struct {
	Interval time.Duration `koanf:"interval"`
}

var defaults = map[string]interface{}{
	"server.port":            8000,
	"server.gin_mode":        "debug",
	"server.allowed_origins": []string{"http://localhost:5173"},
	"database.driver":        "mysql",
	"database.host":          "localhost",
	"database.port":          "3306",
	"database.user":          "boarduser",
	"database.password":      "boardpassword",
	"database.name":          "board",
	"auth.jwt_secret":        "default-secret-change-me",
	"relay.embed":            true,
	"relay.port":             4222,
	"relay.websocket_port":   8080,
	"mail.port":              587,
	"mail.from":              "ProjectZen <noreply@projectzen.local>",
	"reminder.interval":      time.Minute,
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
//
// Environment variables map underscore-separated keys onto the nested
// structure: BOARD_SERVER_PORT -> server.port, BOARD_DATABASE_HOST ->
// database.host, BOARD_AUTH_JWT_SECRET -> auth.jwt_secret.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("BOARD_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// envTransform maps BOARD_SECTION_FIELD_NAME to section.field_name. The
// first underscore separates the section; the rest belong to the field.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "BOARD_"))
	parts := strings.SplitN(s, "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + "." + parts[1]
}
