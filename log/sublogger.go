package log

import (
	"io"
	"os"
	"strings"
)

// Global vars related to the logger package
var (
	subLoggers = map[string]*SubLogger{}

	Global      *SubLogger
	ManagerSys  *SubLogger
	ChatSys     *SubLogger
	ReporterSys *SubLogger
	DatabaseSys *SubLogger
	GRPCSys     *SubLogger
	DispatchSys *SubLogger
)

// SubLogger defines a sub logger tied to a subsystem name with its own
// functional levels and output writer.
type SubLogger struct {
	name   string
	levels Levels
	output io.Writer
}

func init() {
	Global = NewSubLogger("LOG")
	ManagerSys = NewSubLogger("MANAGER")
	ChatSys = NewSubLogger("CHAT")
	ReporterSys = NewSubLogger("REPORTER")
	DatabaseSys = NewSubLogger("DATABASE")
	GRPCSys = NewSubLogger("GRPCSYS")
	DispatchSys = NewSubLogger("DISPATCH")
}

// NewSubLogger allows for a new sub logger to be registered, returns the
// already registered instance when the name is taken.
func NewSubLogger(name string) *SubLogger {
	if name == "" {
		return nil
	}
	name = strings.ToUpper(name)
	mu.Lock()
	defer mu.Unlock()
	if sl, ok := subLoggers[name]; ok {
		return sl
	}
	sl := &SubLogger{
		name:   name,
		levels: splitLevel("INFO|WARN|ERROR"),
		output: os.Stdout,
	}
	subLoggers[name] = sl
	return sl
}

// SetOutput overrides the default output with a new writer
func (sl *SubLogger) SetOutput(o io.Writer) {
	mu.Lock()
	sl.output = o
	mu.Unlock()
}

// SetLevels overrides the default levels with new levels
func (sl *SubLogger) SetLevels(newLevels Levels) {
	mu.Lock()
	sl.levels = newLevels
	mu.Unlock()
}

// GetLevels returns current functional log levels
func (sl *SubLogger) GetLevels() Levels {
	mu.RLock()
	defer mu.RUnlock()
	return sl.levels
}

func (sl *SubLogger) getFields() *logFields {
	if sl == nil {
		return nil
	}
	return &logFields{
		info:   sl.levels.Info,
		warn:   sl.levels.Warn,
		debug:  sl.levels.Debug,
		error:  sl.levels.Error,
		name:   sl.name,
		output: sl.output,
	}
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch level := enabledLevels[x]; level {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}
