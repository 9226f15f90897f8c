package dbms

import (
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLite implements DBMS for SQLite via modernc.org/sqlite (pure Go).
// Key differences from the network engines:
//   - Database is a file path (or ":memory:"); host, user and password are ignored
//   - Foreign keys are off unless enabled per connection with a pragma
//   - Placeholders are "?" like MySQL, identifiers are double-quoted
type SQLite struct{}

func (s *SQLite) Name() string { return "SQLite" }

func (s *SQLite) DriverName() string { return "sqlite" }

// DSN returns the database path with connection pragmas applied through
// modernc's _pragma query parameters.
func (s *SQLite) DSN(p ConnParams) (string, error) {
	if p.Database == "" {
		return "", fmt.Errorf("%s: missing connection parameters: database", s.Name())
	}
	if p.Database == ":memory:" {
		return p.Database, nil
	}
	return p.Database +
		"?_pragma=foreign_keys(ON)" +
		"&_pragma=busy_timeout(5000)", nil
}

func (s *SQLite) Placeholder(_ int) string { return "?" }

func (s *SQLite) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *SQLite) Capabilities() Capabilities {
	return Capabilities{
		LastInsertID: true,
		Returning:    true, // since SQLite 3.35
		Network:      false,
	}
}
