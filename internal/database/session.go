package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Result reports the outcome of a mutating statement.
type Result struct {
	RowsAffected int64
	// LastInsertID is zero when the dialect cannot report it.
	LastInsertID int64
}

// Session is one request's connection lifecycle: Open, any number of
// Execute/Query calls, Close. A Session must not be shared between
// goroutines.
type Session struct {
	m    *Manager
	conn *sql.Conn
	tx   *sql.Tx
}

// Open checks out a dedicated connection. On failure the Session stays in
// the not-connected state and the failure is logged and returned wrapping
// ErrNotConnected; later Execute/Query calls report ErrNotConnected too.
func (s *Session) Open(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}

	db, err := s.m.handle()
	if err != nil {
		s.m.log.Warnw("database connection failed", "dbms", s.m.dialect.Name(), "error", err)
		return fmt.Errorf("%w: %w", ErrNotConnected, err)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		s.conn, s.tx = nil, nil
		s.m.log.Warnw("database connection failed", "dbms", s.m.dialect.Name(), "error", err)
		return fmt.Errorf("%w: %w", ErrNotConnected, err)
	}

	s.conn = conn
	s.m.log.Debugw("database connection opened", "dbms", s.m.dialect.Name())
	return nil
}

// Connected reports whether the Session holds a live connection.
func (s *Session) Connected() bool {
	return s != nil && s.conn != nil
}

// Close rolls back any pending transaction and checks the connection back
// in. It is safe to call on a Session that was never opened or is already
// closed.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.Rollback()
	if s.conn == nil {
		return
	}
	if err := s.conn.Close(); err != nil {
		s.m.log.Warnw("database connection close failed", "error", err)
	}
	s.conn = nil
	s.m.log.Debugw("database connection closed")
}

// Rollback discards a transaction left pending by a failed Execute.
func (s *Session) Rollback() {
	if s == nil || s.tx == nil {
		return
	}
	if err := s.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		s.m.log.Warnw("database rollback failed", "error", err)
	}
	s.tx = nil
}

// Execute runs a mutating statement with positional arguments and commits
// it. On failure nothing is committed and the transaction stays pending
// until Rollback or Close.
func (s *Session) Execute(ctx context.Context, stmt string, args ...any) (Result, error) {
	if !s.Connected() {
		return Result{}, ErrNotConnected
	}
	tx, err := s.begin(ctx)
	if err != nil {
		return Result{}, err
	}

	res, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return Result{}, &ExecError{Statement: stmt, Err: err}
	}
	if err := s.commit(stmt); err != nil {
		return Result{}, err
	}

	var out Result
	out.RowsAffected, _ = res.RowsAffected()
	if s.m.dialect.Capabilities().LastInsertID {
		out.LastInsertID, _ = res.LastInsertId()
	}
	return out, nil
}

// ExecuteReturning runs a mutating statement that returns a single integer
// column (an INSERT ... RETURNING id) and commits it, with the same failure
// contract as Execute.
func (s *Session) ExecuteReturning(ctx context.Context, stmt string, args ...any) (int64, error) {
	if !s.Connected() {
		return 0, ErrNotConnected
	}
	tx, err := s.begin(ctx)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := tx.QueryRowContext(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, &ExecError{Statement: stmt, Err: err}
	}
	if err := s.commit(stmt); err != nil {
		return 0, err
	}
	return id, nil
}

// Query runs a statement and returns every row. No match yields an empty
// slice, not an error.
func (s *Session) Query(ctx context.Context, stmt string, args ...any) ([]Record, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	var (
		rows *sql.Rows
		err  error
	)
	if s.tx != nil {
		rows, err = s.tx.QueryContext(ctx, stmt, args...)
	} else {
		rows, err = s.conn.QueryContext(ctx, stmt, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("database: query: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *Session) begin(ctx context.Context) (*sql.Tx, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("database: begin: %w", err)
	}
	s.tx = tx
	return tx, nil
}

func (s *Session) commit(stmt string) error {
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(); err != nil {
		return &ExecError{Statement: stmt, Err: err}
	}
	return nil
}
