package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/parley-chat/parley/log"
)

var (
	// ErrConfigRead is returned when the config file cannot be opened
	ErrConfigRead = errors.New("unable to read config file")
	// ErrConfigParse is returned when the config file is not valid yaml
	ErrConfigParse = errors.New("unable to parse config file")

	errDBHostUnset      = errors.New("db host unset")
	errDBNameUnset      = errors.New("db name unset")
	errServerPortUnset  = errors.New("server port unset")
	errSecretUnset      = errors.New("server secret unset")
	errSaltUnset        = errors.New("server salt unset")
	errNegativeDuration = errors.New("duration must be positive")
)

const (
	defaultMaxConnections = 5
	defaultListenInterval = time.Second
	defaultReportDuration = 3 * time.Second
	defaultEmptyLiveTime  = 30 * time.Second
)

// Config is the top level configuration for both server roles
type Config struct {
	DB     DatabaseConfig `yaml:"db"`
	Server ServerConfig   `yaml:"server"`
	Log    *log.Config    `yaml:"log,omitempty"`
}

// DatabaseConfig holds postgres connection details
type DatabaseConfig struct {
	Host           string `yaml:"host"`
	Port           uint16 `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	DBName         string `yaml:"dbname"`
	MaxConnections int    `yaml:"max_connections"`
	Verbose        bool   `yaml:"verbose"`
}

// ServerConfig holds the shared server options. ManagerAddr is only consulted
// by the chat worker role.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           uint16   `yaml:"port"`
	Secret         string   `yaml:"secret"`
	Salt           string   `yaml:"salt"`
	ListenInterval Duration `yaml:"listen_interval"`
	ReportDuration Duration `yaml:"report_duration"`
	EmptyLiveTime  Duration `yaml:"empty_live_time"`
	ManagerAddr    string   `yaml:"manager_addr,omitempty"`
}

// Duration wraps time.Duration so yaml values like "3s" parse directly
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrConfigParse, raw)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
