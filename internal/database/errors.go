package database

import "errors"

// ErrNotConnected is returned by Execute and Query when the Session has no
// live connection, either because Open was never called or because it
// failed.
var ErrNotConnected = errors.New("database: not connected")

// ExecError wraps a driver failure while running a statement.
type ExecError struct {
	Statement string
	Err       error
}

func (e *ExecError) Error() string {
	return "database: execute: " + e.Err.Error()
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
