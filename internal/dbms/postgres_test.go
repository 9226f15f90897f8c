package dbms

import (
	"net/url"
	"testing"
)

func TestPostgreSQL_DriverName(t *testing.T) {
	p := &PostgreSQL{}
	if p.DriverName() != "postgres" {
		t.Errorf("DriverName() = %q, want 'postgres'", p.DriverName())
	}
}

func TestPostgreSQL_DSN(t *testing.T) {
	p := &PostgreSQL{}
	dsn, err := p.DSN(ConnParams{
		Host:     "pg.local",
		User:     "catalog",
		Password: "p@ss word",
		Database: "series",
	})
	if err != nil {
		t.Fatalf("DSN() returned error: %v", err)
	}

	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("DSN() produced unparsable URL %q: %v", dsn, err)
	}
	if u.Scheme != "postgres" {
		t.Errorf("Scheme = %q, want 'postgres'", u.Scheme)
	}
	if u.Host != "pg.local:5432" {
		t.Errorf("Host = %q, want 'pg.local:5432'", u.Host)
	}
	if u.User.Username() != "catalog" {
		t.Errorf("Username = %q, want 'catalog'", u.User.Username())
	}
	if pw, _ := u.User.Password(); pw != "p@ss word" {
		t.Errorf("Password = %q, want 'p@ss word'", pw)
	}
	if u.Path != "/series" {
		t.Errorf("Path = %q, want '/series'", u.Path)
	}
	if got := u.Query().Get("sslmode"); got != "disable" {
		t.Errorf("sslmode = %q, want 'disable'", got)
	}
}

func TestPostgreSQL_DSNSSLMode(t *testing.T) {
	p := &PostgreSQL{}
	dsn, err := p.DSN(ConnParams{Host: "pg", User: "u", Database: "d", SSLMode: "require"})
	if err != nil {
		t.Fatalf("DSN() returned error: %v", err)
	}
	u, _ := url.Parse(dsn)
	if got := u.Query().Get("sslmode"); got != "require" {
		t.Errorf("sslmode = %q, want 'require'", got)
	}
}

func TestPostgreSQL_DSNMissingHost(t *testing.T) {
	p := &PostgreSQL{}
	if _, err := p.DSN(ConnParams{User: "u", Database: "d"}); err == nil {
		t.Fatal("DSN() without host returned nil error")
	}
}

func TestPostgreSQL_Placeholder(t *testing.T) {
	p := &PostgreSQL{}
	if got := p.Placeholder(1); got != "$1" {
		t.Errorf("Placeholder(1) = %q, want '$1'", got)
	}
	if got := p.Placeholder(12); got != "$12" {
		t.Errorf("Placeholder(12) = %q, want '$12'", got)
	}
}

func TestPostgreSQL_QuoteIdent(t *testing.T) {
	p := &PostgreSQL{}
	if got := p.QuoteIdent("motivo_assistir"); got != `"motivo_assistir"` {
		t.Errorf("QuoteIdent() = %q, want %q", got, `"motivo_assistir"`)
	}
	if got := p.QuoteIdent(`a"b`); got != `"a""b"` {
		t.Errorf("QuoteIdent() = %q, want %q", got, `"a""b"`)
	}
}

func TestPostgreSQL_Capabilities(t *testing.T) {
	caps := (&PostgreSQL{}).Capabilities()
	if caps.LastInsertID {
		t.Error("LastInsertID should be false: lib/pq does not support it")
	}
	if !caps.Returning {
		t.Error("Returning should be true")
	}
}
