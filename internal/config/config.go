package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Workflow  WorkflowConfig  `yaml:"workflow"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

// WorkflowConfig holds tunables for the workflow engine and the
// interaction-safety layer. Durations are plain integers so the file
// stays readable next to the platform's own limits.
type WorkflowConfig struct {
	InviteTTLHours          int `yaml:"invite_ttl_hours"`
	TicketCloseDelaySeconds int `yaml:"ticket_close_delay_seconds"`
	SweepIntervalSeconds    int `yaml:"sweep_interval_seconds"`
	EventFreshnessMillis    int `yaml:"event_freshness_millis"`
	ClaimRetentionSeconds   int `yaml:"claim_retention_seconds"`
	AckTimeoutMillis        int `yaml:"ack_timeout_millis"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "guildflow.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Workflow: WorkflowConfig{
			InviteTTLHours:          24,
			TicketCloseDelaySeconds: 10,
			SweepIntervalSeconds:    60,
			EventFreshnessMillis:    2000,
			ClaimRetentionSeconds:   30,
			AckTimeoutMillis:        1200,
		},
	}

	if path := os.Getenv("GUILDFLOW_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("GUILDFLOW_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("GUILDFLOW_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid GUILDFLOW_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("GUILDFLOW_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("GUILDFLOW_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("GUILDFLOW_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
