package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}

// DefaultConfigPaths defines the default locations to search for configuration files
var DefaultConfigPaths = []string{
	"./config.yaml",
	"./config.yml",
	"./configs/config.yaml",
	"./configs/config.yml",
	"/etc/mailsift/config.yaml",
	"/etc/mailsift/config.yml",
}

// Load loads the configuration from the specified file or default
// locations, then applies environment variable overrides. Validation
// failures are fatal at startup: the process must not run half-configured.
func Load(configPath string) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: 5000,
		},
		Auth: AuthConfig{
			JWT: JWTConfig{
				Lifetime: time.Hour,
			},
		},
	}

	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" && fileExists(configPath) {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the config
		data = expandEnvVars(data)

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(config)

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides lets the environment win over the config file, so the
// service can run from env vars alone.
func applyEnvOverrides(config *Config) {
	setFromEnv(&config.Database.URL, "DATABASE_URL")
	setFromEnv(&config.Auth.Google.ClientID, "GOOGLE_CLIENT_ID")
	setFromEnv(&config.Auth.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setFromEnv(&config.Auth.JWT.SigningKey, "JWT_SECRET")
	setFromEnv(&config.Auth.SessionSecret, "SESSION_SECRET")
	setFromEnv(&config.Server.PublicURL, "BACKEND_URL")
	setFromEnv(&config.Frontend.Origin, "FRONTEND_URL")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// findConfigFile searches for a configuration file in default locations
func findConfigFile() string {
	for _, path := range DefaultConfigPaths {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// validate rejects configurations missing any required value
func validate(config *Config) error {
	if config.Database.URL == "" {
		return fmt.Errorf("database url is required (DATABASE_URL)")
	}
	if config.Auth.Google.ClientID == "" {
		return fmt.Errorf("google client id is required (GOOGLE_CLIENT_ID)")
	}
	if config.Auth.Google.ClientSecret == "" {
		return fmt.Errorf("google client secret is required (GOOGLE_CLIENT_SECRET)")
	}
	if config.Auth.JWT.SigningKey == "" {
		return fmt.Errorf("jwt signing key is required (JWT_SECRET)")
	}
	if config.Server.PublicURL == "" {
		return fmt.Errorf("backend public url is required (BACKEND_URL)")
	}
	if config.Frontend.Origin == "" {
		return fmt.Errorf("frontend origin is required (FRONTEND_URL)")
	}
	if config.Auth.JWT.Lifetime <= 0 {
		return fmt.Errorf("jwt lifetime must be positive")
	}
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	return nil
}
