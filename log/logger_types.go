package log

import (
	"io"
	"sync"
)

const (
	timestampFormat = " 02/01/2006 15:04:05 "
	spacer          = " | "

	infoHeader  = "[INFO]"
	warnHeader  = "[WARN]"
	debugHeader = "[DEBUG]"
	errorHeader = "[ERROR]"
)

var (
	// read/write mutex for logger
	mu = &sync.RWMutex{}
)

// Config holds logger configuration settings loaded from the service config
type Config struct {
	Enabled *bool `yaml:"enabled"`
	SubLoggerConfig
	SubLoggers []SubLoggerConfig `yaml:"subloggers,omitempty"`
}

// SubLoggerConfig holds sub logger configuration settings
type SubLoggerConfig struct {
	Name   string `yaml:"name,omitempty"`
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

// Levels flags for each sub logger type
type Levels struct {
	Info, Debug, Warn, Error bool
}

// logFields is used to store data in a non-global and thread-safe manner
// so logs cannot be modified mid-log causing a data-race issue
type logFields struct {
	info   bool
	warn   bool
	debug  bool
	error  bool
	name   string
	output io.Writer
}

type multiWriter struct {
	writers []io.Writer
	mu      sync.RWMutex
}
