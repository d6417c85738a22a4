// Package database manages the postgres connection shared by the manager's
// repositories.
package database

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	// postgres driver
	_ "github.com/lib/pq"
	"github.com/thrasher-corp/sqlboiler/boil"

	"github.com/parley-chat/parley/config"
	"github.com/parley-chat/parley/log"
)

var (
	errNilInstance = errors.New("database instance is nil")
	errNilConfig   = errors.New("database config is nil")
	errNilSQL      = errors.New("database connection is nil")
)

// Instance holds the database connection and config
type Instance struct {
	m         sync.RWMutex
	sql       *sql.DB
	config    *config.DatabaseConfig
	connected bool
}

// Connect opens a connection pool against the configured postgres server
func Connect(cfg *config.DatabaseConfig) (*Instance, error) {
	if cfg == nil {
		return nil, errNilConfig
	}
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if cfg.Verbose {
		boil.DebugMode = true
		boil.DebugWriter = databaseLogger{}
	}

	log.Debugf(log.DatabaseSys, "connected to %s/%s", cfg.Host, cfg.DBName)
	return &Instance{sql: db, config: cfg, connected: true}, nil
}

// SQL safely returns the underlying connection pool
func (i *Instance) SQL() *sql.DB {
	if i == nil {
		return nil
	}
	i.m.RLock()
	defer i.m.RUnlock()
	return i.sql
}

// IsConnected safely checks the connection status
func (i *Instance) IsConnected() bool {
	if i == nil {
		return false
	}
	i.m.RLock()
	defer i.m.RUnlock()
	return i.connected
}

// Ping pings the database
func (i *Instance) Ping() error {
	if i == nil {
		return errNilInstance
	}
	i.m.RLock()
	defer i.m.RUnlock()
	if i.sql == nil {
		return errNilSQL
	}
	return i.sql.Ping()
}

// CloseConnection safely disconnects the instance
func (i *Instance) CloseConnection() error {
	if i == nil {
		return errNilInstance
	}
	i.m.Lock()
	defer i.m.Unlock()
	i.connected = false
	return i.sql.Close()
}

// Setup creates the schema if it is not already present
func (i *Instance) Setup(ctx context.Context) error {
	if i == nil {
		return errNilInstance
	}
	for _, query := range schema {
		if _, err := i.SQL().ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}
