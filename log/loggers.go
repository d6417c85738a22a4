package log

import (
	"fmt"
	"time"
)

// Info takes a pointer subLogger struct and string, emits at info level
func Info(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	if fields == nil || !fields.info {
		return
	}
	fields.emit(infoHeader, data)
}

// Infoln takes a pointer subLogger struct and interface, emits at info level
func Infoln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	if fields == nil || !fields.info {
		return
	}
	fields.emit(infoHeader, fmt.Sprintln(v...))
}

// Infof takes a pointer subLogger struct, string and interface, formats and
// emits at info level
func Infof(sl *SubLogger, data string, v ...interface{}) {
	Info(sl, fmt.Sprintf(data, v...))
}

// Debug takes a pointer subLogger struct and string, emits at debug level
func Debug(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	if fields == nil || !fields.debug {
		return
	}
	fields.emit(debugHeader, data)
}

// Debugln takes a pointer subLogger struct and interface, emits at debug level
func Debugln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	if fields == nil || !fields.debug {
		return
	}
	fields.emit(debugHeader, fmt.Sprintln(v...))
}

// Debugf takes a pointer subLogger struct, string and interface, formats and
// emits at debug level
func Debugf(sl *SubLogger, data string, v ...interface{}) {
	Debug(sl, fmt.Sprintf(data, v...))
}

// Warn takes a pointer subLogger struct and string, emits at warn level
func Warn(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	if fields == nil || !fields.warn {
		return
	}
	fields.emit(warnHeader, data)
}

// Warnln takes a pointer subLogger struct and interface, emits at warn level
func Warnln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	if fields == nil || !fields.warn {
		return
	}
	fields.emit(warnHeader, fmt.Sprintln(v...))
}

// Warnf takes a pointer subLogger struct, string and interface, formats and
// emits at warn level
func Warnf(sl *SubLogger, data string, v ...interface{}) {
	Warn(sl, fmt.Sprintf(data, v...))
}

// Error takes a pointer subLogger struct and string, emits at error level
func Error(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	if fields == nil || !fields.error {
		return
	}
	fields.emit(errorHeader, data)
}

// Errorln takes a pointer subLogger struct and interface, emits at error level
func Errorln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	if fields == nil || !fields.error {
		return
	}
	fields.emit(errorHeader, fmt.Sprintln(v...))
}

// Errorf takes a pointer subLogger struct, string and interface, formats and
// emits at error level
func Errorf(sl *SubLogger, data string, v ...interface{}) {
	Error(sl, fmt.Sprintf(data, v...))
}

func (f *logFields) emit(header, data string) {
	if f.output == nil {
		return
	}
	msg := header +
		time.Now().Format(timestampFormat) +
		f.name +
		spacer +
		data
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	//nolint:errcheck // logging failures have nowhere to go
	f.output.Write([]byte(msg))
}
