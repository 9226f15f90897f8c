package dbms

import (
	"net"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// MySQL implements the DBMS interface for MySQL and MariaDB.
type MySQL struct{}

// defaultMySQLPort is used when ConnParams.Port is zero.
const defaultMySQLPort = 3306

// Name returns the canonical DBMS name.
func (m *MySQL) Name() string {
	return "MySQL"
}

// DriverName returns the go-sql-driver/mysql registration name.
func (m *MySQL) DriverName() string {
	return "mysql"
}

// DSN builds a go-sql-driver DSN over TCP.
func (m *MySQL) DSN(p ConnParams) (string, error) {
	if err := requireNetwork(m, p); err != nil {
		return "", err
	}
	port := p.Port
	if port == 0 {
		port = defaultMySQLPort
	}

	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.Host, strconv.Itoa(port))
	cfg.DBName = p.Database
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN(), nil
}

// Placeholder returns "?"; MySQL bind markers are positional.
func (m *MySQL) Placeholder(_ int) string {
	return "?"
}

// QuoteIdent wraps name in backticks.
func (m *MySQL) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (m *MySQL) Capabilities() Capabilities {
	return Capabilities{
		LastInsertID: true,
		Returning:    false,
		Network:      true,
	}
}
