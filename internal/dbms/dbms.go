// Package dbms provides the SQL dialect knowledge the catalog needs for each
// supported database engine: driver registration, DSN construction,
// placeholder syntax and identifier quoting.
package dbms

import (
	"fmt"
	"strings"
)

// DBMS provides database-specific SQL syntax and connection details.
type DBMS interface {
	Name() string

	// DriverName is the database/sql driver name registered by the
	// dialect's driver import.
	DriverName() string

	// DSN builds the data source name from connection parameters.
	DSN(p ConnParams) (string, error)

	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder(n int) string

	// QuoteIdent quotes a table or column name. Only registry-owned
	// identifiers are ever passed here.
	QuoteIdent(name string) string

	// Capabilities
	Capabilities() Capabilities
}

// Capabilities describes what a DBMS supports.
type Capabilities struct {
	// LastInsertID reports whether sql.Result.LastInsertId works.
	LastInsertID bool
	// Returning reports whether INSERT ... RETURNING is supported.
	Returning bool
	// Network is false for embedded engines that ignore host/user/password.
	Network bool
}

// ConnParams holds the credentials and location of the catalog database.
type ConnParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// Registry returns a DBMS implementation by name.
// It accepts common name variants (e.g. "MySQL", "mysql", "PostgreSQL", "postgres").
// Returns nil if the name is not recognized.
func Registry(name string) DBMS {
	switch name {
	case "MySQL", "mysql", "mariadb":
		return &MySQL{}
	case "PostgreSQL", "postgres", "postgresql":
		return &PostgreSQL{}
	case "SQLite", "sqlite", "sqlite3":
		return &SQLite{}
	default:
		return nil
	}
}

// Names lists the canonical names accepted by Registry.
func Names() []string {
	return []string{"mysql", "postgres", "sqlite"}
}

// Placeholders returns n comma-separated bind markers starting at offset+1.
func Placeholders(d DBMS, offset, n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = d.Placeholder(offset + i + 1)
	}
	return strings.Join(marks, ", ")
}

// requireNetwork checks the parameters a networked engine cannot do without.
func requireNetwork(d DBMS, p ConnParams) error {
	var missing []string
	if p.Host == "" {
		missing = append(missing, "host")
	}
	if p.User == "" {
		missing = append(missing, "user")
	}
	if p.Database == "" {
		missing = append(missing, "database")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing connection parameters: %s", d.Name(), strings.Join(missing, ", "))
	}
	return nil
}
