package database

import (
	"github.com/parley-chat/parley/log"
)

// databaseLogger forwards sqlboiler debug output to the database sublogger
type databaseLogger struct{}

func (databaseLogger) Write(p []byte) (int, error) {
	log.Debug(log.DatabaseSys, string(p))
	return len(p), nil
}
