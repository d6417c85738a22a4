// Package config loads and validates the yaml configuration shared by the
// manager and chat worker binaries.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const envPrefix = "PARLEY_"

// Load reads the yaml file at path, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigRead, err)
	}
	var c Config
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	c.applyEnv()
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Secrets can be kept out of the file and injected through the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv(envPrefix + "DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv(envPrefix + "DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv(envPrefix + "DB_PORT"); v != "" {
		if port, err := strconv.ParseUint(v, 10, 16); err == nil {
			c.DB.Port = uint16(port)
		}
	}
	if v := os.Getenv(envPrefix + "SERVER_SECRET"); v != "" {
		c.Server.Secret = v
	}
	if v := os.Getenv(envPrefix + "SERVER_SALT"); v != "" {
		c.Server.Salt = v
	}
}

func (c *Config) applyDefaults() {
	if c.DB.MaxConnections == 0 {
		c.DB.MaxConnections = defaultMaxConnections
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.Server.ListenInterval == 0 {
		c.Server.ListenInterval = Duration(defaultListenInterval)
	}
	if c.Server.ReportDuration == 0 {
		c.Server.ReportDuration = Duration(defaultReportDuration)
	}
	if c.Server.EmptyLiveTime == 0 {
		c.Server.EmptyLiveTime = Duration(defaultEmptyLiveTime)
	}
}

// Validate checks required fields are set
func (c *Config) Validate() error {
	if c.DB.Host == "" {
		return errDBHostUnset
	}
	if c.DB.DBName == "" {
		return errDBNameUnset
	}
	if c.Server.Port == 0 {
		return errServerPortUnset
	}
	if c.Server.Secret == "" {
		return errSecretUnset
	}
	if c.Server.Salt == "" {
		return errSaltUnset
	}
	for _, d := range []Duration{c.Server.ListenInterval, c.Server.ReportDuration, c.Server.EmptyLiveTime} {
		if d.Duration() <= 0 {
			return errNegativeDuration
		}
	}
	return nil
}

// DSN returns a lib/pq style connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DBName)
}

// Addr returns the host:port pair the server binds or dials
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
