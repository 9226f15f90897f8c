package dbms

import (
	"net"
	"net/url"
	"strconv"

	"github.com/lib/pq"
)

// PostgreSQL implements the DBMS interface for PostgreSQL databases.
type PostgreSQL struct{}

const defaultPostgresPort = 5432

// Name returns the canonical DBMS name.
func (p *PostgreSQL) Name() string {
	return "PostgreSQL"
}

// DriverName returns the lib/pq registration name.
func (p *PostgreSQL) DriverName() string {
	return "postgres"
}

// DSN builds a postgres:// URL understood by lib/pq.
func (p *PostgreSQL) DSN(c ConnParams) (string, error) {
	if err := requireNetwork(p, c); err != nil {
		return "", err
	}
	port := c.Port
	if port == 0 {
		port = defaultPostgresPort
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(port)),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String(), nil
}

// Placeholder returns "$n".
func (p *PostgreSQL) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// QuoteIdent uses lib/pq's identifier quoting.
func (p *PostgreSQL) QuoteIdent(name string) string {
	return pq.QuoteIdentifier(name)
}

// Capabilities reports RETURNING support; lib/pq does not implement
// LastInsertId.
func (p *PostgreSQL) Capabilities() Capabilities {
	return Capabilities{
		LastInsertID: false,
		Returning:    true,
		Network:      true,
	}
}
