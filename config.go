package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	BaseURL               string
	Username              string
	City                  string
	DBPath                string
	RequestTimeoutSeconds int
}

func DefaultConfig() Config {
	return Config{
		DBPath:                defaultDBPath(),
		RequestTimeoutSeconds: 30,
	}
}

func LoadConfig() (Config, error) {
	path := configPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := SaveConfig(cfg); err != nil {
				return Config{}, err
			}
			return cfg, nil
		}
		return Config{}, err
	}

	cfg := DefaultConfig()
	if err := parseConfig(string(data), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func SaveConfig(cfg Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	content := renderConfig(cfg)
	return os.WriteFile(path, []byte(content), 0o600)
}

func configPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(configDir, "afisha", "config.toml")
}

func defaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "afisha.db"
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	path := filepath.Join(dataDir, "afisha")
	_ = os.MkdirAll(path, 0o755)
	return filepath.Join(path, "afisha.db")
}

func parseConfig(raw string, cfg *Config) error {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid config line: %q", line)
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		switch key {
		case "base_url":
			cfg.BaseURL = trimQuotes(value)
		case "username":
			cfg.Username = trimQuotes(value)
		case "city":
			cfg.City = trimQuotes(value)
		case "db_path":
			cfg.DBPath = trimQuotes(value)
		case "request_timeout_seconds":
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid request_timeout_seconds: %w", err)
			}
			cfg.RequestTimeoutSeconds = parsed
		default:
			// ignore unknown keys for forward compatibility
		}
	}
	return scanner.Err()
}

func trimQuotes(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	unquoted, err := strconv.Unquote(value)
	if err == nil {
		return unquoted
	}
	return strings.Trim(value, "\"")
}

func renderConfig(cfg Config) string {
	lines := []string{
		"base_url = \"" + cfg.BaseURL + "\"",
		"username = \"" + cfg.Username + "\"",
		"db_path = \"" + cfg.DBPath + "\"",
		"request_timeout_seconds = " + strconv.Itoa(cfg.RequestTimeoutSeconds),
	}
	if cfg.City != "" {
		lines = append(lines, "city = \""+cfg.City+"\"")
	}
	return strings.Join(lines, "\n") + "\n"
}
