// Package testutil provides test fixtures: a throwaway SQLite catalog
// database with the production table layout and a small seed data set.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Schema is the SQLite layout of the catalog tables.
const Schema = `
CREATE TABLE categoria (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	nome TEXT NOT NULL
);
CREATE TABLE serie (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	titulo         TEXT NOT NULL,
	descricao      TEXT,
	ano_lancamento INTEGER,
	id_categoria   INTEGER REFERENCES categoria(id)
);
CREATE TABLE ator (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	nome       TEXT NOT NULL,
	personagem TEXT
);
CREATE TABLE motivo_assistir (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	idserie INTEGER REFERENCES serie(id),
	motivo  TEXT NOT NULL
);
`

// Seed rows. IDs are deterministic because every table starts empty.
const seedSQL = `
INSERT INTO categoria (nome) VALUES ('Drama'), ('Comédia');
INSERT INTO serie (titulo, descricao, ano_lancamento, id_categoria) VALUES
	('Dark', 'Viagem no tempo em Winden', 2017, 1),
	('The Office', 'Documentário de escritório', 2005, 2);
INSERT INTO ator (nome, personagem) VALUES
	('Louis Hofmann', 'Jonas Kahnwald'),
	('Steve Carell', 'Michael Scott'),
	('Rainn Wilson', 'Dwight Schrute');
INSERT INTO motivo_assistir (idserie, motivo) VALUES (1, 'Roteiro amarrado');
`

// NewCatalogDB creates an empty catalog database in a temporary directory
// and returns its path. The file is removed when the test ends.
func NewCatalogDB(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	exec(t, path, Schema)
	return path
}

// NewSeededCatalogDB is NewCatalogDB plus the seed rows:
//
//	categoria: 1 Drama, 2 Comédia
//	serie:     1 Dark (categoria 1), 2 The Office (categoria 2)
//	ator:      1 Louis Hofmann, 2 Steve Carell, 3 Rainn Wilson
//	motivo:    1 (serie 1)
func NewSeededCatalogDB(t testing.TB) string {
	t.Helper()
	path := NewCatalogDB(t)
	exec(t, path, seedSQL)
	return path
}

// CountRows returns the number of rows in table. table must be a trusted
// constant.
func CountRows(t testing.TB, path, table string) int {
	t.Helper()
	db := open(t, path)
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("testutil: count %s: %v", table, err)
	}
	return n
}

func exec(t testing.TB, path, script string) {
	t.Helper()
	db := open(t, path)
	defer db.Close()

	if _, err := db.Exec(script); err != nil {
		t.Fatalf("testutil: exec script: %v", err)
	}
}

func open(t testing.TB, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("testutil: open %s: %v", path, err)
	}
	return db
}
