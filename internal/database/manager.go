// Package database provides per-request access to the catalog database: a
// Manager that owns the driver handle and hands out Sessions, each of which
// checks out its own connection, runs statements and checks it back in.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/0x6d61/mustwatch/internal/dbms"
)

// defaultMaxOpenConns bounds concurrent checkouts when no option is given.
const defaultMaxOpenConns = 10

// Manager owns the database handle. It is safe for concurrent use; the
// Sessions it returns are not.
type Manager struct {
	dialect      dbms.DBMS
	dsn          string
	log          *zap.SugaredLogger
	maxOpenConns int

	mu sync.Mutex
	db *sql.DB
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for connection diagnostics.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithMaxOpenConns bounds the number of connections checked out at once.
func WithMaxOpenConns(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxOpenConns = n
		}
	}
}

// NewManager creates a Manager for the given dialect and DSN. No connection
// is made until a Session is opened.
func NewManager(dialect dbms.DBMS, dsn string, opts ...Option) *Manager {
	m := &Manager{
		dialect:      dialect,
		dsn:          dsn,
		log:          zap.NewNop().Sugar(),
		maxOpenConns: defaultMaxOpenConns,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dialect returns the SQL dialect of the underlying database.
func (m *Manager) Dialect() dbms.DBMS {
	return m.dialect
}

// Session returns a new, unopened Session. Each request must use its own.
func (m *Manager) Session() *Session {
	return &Session{m: m}
}

// Ping verifies that the database is reachable.
func (m *Manager) Ping(ctx context.Context) error {
	db, err := m.handle()
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}
	return nil
}

// Close closes the underlying handle. Sessions opened afterwards reopen it.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

// handle lazily opens the *sql.DB. sql.Open only validates arguments; the
// first real connection happens on checkout.
func (m *Manager) handle() (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return m.db, nil
	}
	db, err := sql.Open(m.dialect.DriverName(), m.dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", m.dialect.Name(), err)
	}
	db.SetMaxOpenConns(m.maxOpenConns)
	db.SetMaxIdleConns(m.maxOpenConns)
	m.db = db
	return db, nil
}
