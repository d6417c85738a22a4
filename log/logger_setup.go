package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	errSubloggerConfigIsNil  = errors.New("sublogger config is nil")
	errUnhandledOutputWriter = errors.New("unhandled output writer")
	errSubloggerNotFound     = errors.New("sublogger not found")
)

// GenDefaultSettings returns a Config with known sane/working logger settings
func GenDefaultSettings() *Config {
	enabled := true
	return &Config{
		Enabled: &enabled,
		SubLoggerConfig: SubLoggerConfig{
			Level:  "INFO|WARN|ERROR",
			Output: "console",
		},
	}
}

// SetupGlobalLogger applies a logger configuration to every registered
// sublogger, then applies the per-sublogger overrides.
func SetupGlobalLogger(cfg *Config) error {
	if cfg == nil {
		return errSubloggerConfigIsNil
	}
	if cfg.Enabled != nil && !*cfg.Enabled {
		mu.Lock()
		for _, sl := range subLoggers {
			sl.levels = Levels{}
		}
		mu.Unlock()
		return nil
	}
	writer, err := getWriters(&cfg.SubLoggerConfig)
	if err != nil {
		return err
	}
	mu.Lock()
	for _, sl := range subLoggers {
		sl.levels = splitLevel(cfg.Level)
		sl.output = writer
	}
	mu.Unlock()
	for i := range cfg.SubLoggers {
		if err := configureSubLogger(&cfg.SubLoggers[i]); err != nil {
			return err
		}
	}
	return nil
}

func configureSubLogger(cfg *SubLoggerConfig) error {
	mu.Lock()
	logPtr, found := subLoggers[strings.ToUpper(cfg.Name)]
	mu.Unlock()
	if !found {
		return fmt.Errorf("%w: %s", errSubloggerNotFound, cfg.Name)
	}
	writer, err := getWriters(cfg)
	if err != nil {
		return err
	}
	logPtr.SetLevels(splitLevel(cfg.Level))
	logPtr.SetOutput(writer)
	return nil
}

func getWriters(s *SubLoggerConfig) (io.Writer, error) {
	if s == nil {
		return nil, errSubloggerConfigIsNil
	}
	mw := &multiWriter{}
	outputWriters := strings.Split(s.Output, "|")
	for x := range outputWriters {
		var writer io.Writer
		switch strings.ToLower(outputWriters[x]) {
		case "stdout", "console", "":
			writer = os.Stdout
		case "stderr":
			writer = os.Stderr
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, outputWriters[x])
		}
		if err := mw.Add(writer); err != nil {
			return nil, err
		}
	}
	return mw, nil
}
