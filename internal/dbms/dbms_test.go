package dbms

import "testing"

func TestRegistry(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"MySQL", "MySQL"},
		{"mysql", "MySQL"},
		{"mariadb", "MySQL"},
		{"PostgreSQL", "PostgreSQL"},
		{"postgres", "PostgreSQL"},
		{"postgresql", "PostgreSQL"},
		{"SQLite", "SQLite"},
		{"sqlite", "SQLite"},
		{"sqlite3", "SQLite"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := Registry(tt.input)
			if d == nil {
				t.Fatalf("Registry(%q) returned nil", tt.input)
			}
			if d.Name() != tt.want {
				t.Errorf("Registry(%q).Name() = %q, want %q", tt.input, d.Name(), tt.want)
			}
		})
	}
}

func TestRegistryUnknown(t *testing.T) {
	for _, name := range []string{"", "oracle", "mssql", "MYSQL"} {
		if d := Registry(name); d != nil {
			t.Errorf("Registry(%q) = %s, want nil", name, d.Name())
		}
	}
}

func TestNamesResolve(t *testing.T) {
	for _, name := range Names() {
		if Registry(name) == nil {
			t.Errorf("Names() contains %q which Registry does not resolve", name)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		name   string
		d      DBMS
		offset int
		n      int
		want   string
	}{
		{"mysql three", &MySQL{}, 0, 3, "?, ?, ?"},
		{"sqlite one", &SQLite{}, 0, 1, "?"},
		{"postgres three", &PostgreSQL{}, 0, 3, "$1, $2, $3"},
		{"postgres offset", &PostgreSQL{}, 2, 2, "$3, $4"},
		{"zero", &MySQL{}, 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Placeholders(tt.d, tt.offset, tt.n); got != tt.want {
				t.Errorf("Placeholders() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCapabilities(t *testing.T) {
	for _, name := range Names() {
		caps := Registry(name).Capabilities()
		if !caps.LastInsertID && !caps.Returning {
			t.Errorf("%s reports neither LastInsertID nor Returning; generated ids would be lost", name)
		}
	}
}
