package database

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/0x6d61/mustwatch/internal/dbms"
	"github.com/0x6d61/mustwatch/internal/testutil"
)

func newTestManager(t *testing.T, path string) *Manager {
	t.Helper()
	dialect := &dbms.SQLite{}
	dsn, err := dialect.DSN(dbms.ConnParams{Database: path})
	if err != nil {
		t.Fatalf("DSN failed: %v", err)
	}
	m := NewManager(dialect, dsn)
	t.Cleanup(func() { m.Close() })
	return m
}

func openSession(t *testing.T, m *Manager) *Session {
	t.Helper()
	s := m.Session()
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestSession_NotConnected(t *testing.T) {
	m := newTestManager(t, testutil.NewCatalogDB(t))
	s := m.Session()
	ctx := context.Background()

	if s.Connected() {
		t.Fatal("unopened session reports Connected() = true")
	}
	if _, err := s.Query(ctx, "SELECT 1"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Query error = %v, want ErrNotConnected", err)
	}
	if _, err := s.Execute(ctx, "DELETE FROM ator"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Execute error = %v, want ErrNotConnected", err)
	}
	if _, err := s.ExecuteReturning(ctx, "SELECT 1"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ExecuteReturning error = %v, want ErrNotConnected", err)
	}
}

func TestSession_OpenFailureLeavesAbsentState(t *testing.T) {
	// SQLite cannot create a database file inside a missing directory.
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "catalog.db")
	m := newTestManager(t, missing)
	s := m.Session()
	ctx := context.Background()

	if err := s.Open(ctx); err == nil {
		s.Close()
		t.Skip("driver opened a database in a missing directory")
	}
	if s.Connected() {
		t.Error("session reports Connected() after failed Open")
	}
	if _, err := s.Query(ctx, "SELECT 1"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Query after failed Open error = %v, want ErrNotConnected", err)
	}
	s.Close()
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	m := newTestManager(t, testutil.NewCatalogDB(t))

	never := m.Session()
	never.Close()
	never.Close()

	s := m.Session()
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	s.Close()
	s.Close()
	if s.Connected() {
		t.Error("closed session reports Connected() = true")
	}

	var nilSession *Session
	nilSession.Close()
}

func TestSession_ExecuteAndQuery(t *testing.T) {
	m := newTestManager(t, testutil.NewCatalogDB(t))
	s := openSession(t, m)
	ctx := context.Background()

	res, err := s.Execute(ctx, "INSERT INTO categoria (nome) VALUES (?)", "Drama")
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if res.RowsAffected != 1 {
		t.Errorf("RowsAffected = %d, want 1", res.RowsAffected)
	}
	if res.LastInsertID != 1 {
		t.Errorf("LastInsertID = %d, want 1", res.LastInsertID)
	}

	records, err := s.Query(ctx, "SELECT * FROM categoria WHERE id = ?", 1)
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Query returned %d records, want 1", len(records))
	}
	if v, _ := records[0].Get("nome"); v != "Drama" {
		t.Errorf("nome = %#v, want \"Drama\"", v)
	}
	if v, _ := records[0].Get("id"); v != int64(1) {
		t.Errorf("id = %#v, want int64(1)", v)
	}
}

func TestSession_ExecuteCommits(t *testing.T) {
	path := testutil.NewCatalogDB(t)
	m := newTestManager(t, path)
	s := openSession(t, m)

	if _, err := s.Execute(context.Background(), "INSERT INTO ator (nome, personagem) VALUES (?, ?)", "Steve Carell", "Michael Scott"); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	s.Close()

	if n := testutil.CountRows(t, path, "ator"); n != 1 {
		t.Errorf("ator has %d rows after committed insert, want 1", n)
	}
}

func TestSession_QueryEmptyIsNotError(t *testing.T) {
	m := newTestManager(t, testutil.NewCatalogDB(t))
	s := openSession(t, m)

	records, err := s.Query(context.Background(), "SELECT * FROM serie WHERE id = ?", 42)
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("Query = %#v, want empty non-nil slice", records)
	}
}

func TestSession_QueryMalformed(t *testing.T) {
	m := newTestManager(t, testutil.NewCatalogDB(t))
	s := openSession(t, m)

	if _, err := s.Query(context.Background(), "SELEC * FROM serie"); err == nil {
		t.Fatal("Query with malformed SQL returned nil error")
	}
}

func TestSession_ExecuteFailureNeedsRollback(t *testing.T) {
	path := testutil.NewSeededCatalogDB(t)
	m := newTestManager(t, path)
	s := openSession(t, m)
	ctx := context.Background()

	// NOT NULL violation.
	_, err := s.Execute(ctx, "INSERT INTO categoria (nome) VALUES (?)", nil)
	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("Execute error = %v, want *ExecError", err)
	}
	if execErr.Statement == "" {
		t.Error("ExecError.Statement is empty")
	}
	s.Rollback()

	// The session is still usable after rollback.
	if _, err := s.Execute(ctx, "INSERT INTO categoria (nome) VALUES (?)", "Terror"); err != nil {
		t.Fatalf("Execute after Rollback returned error: %v", err)
	}
	s.Close()

	if n := testutil.CountRows(t, path, "categoria"); n != 3 {
		t.Errorf("categoria has %d rows, want 3", n)
	}
}

func TestSession_ExecuteReturning(t *testing.T) {
	m := newTestManager(t, testutil.NewSeededCatalogDB(t))
	s := openSession(t, m)

	id, err := s.ExecuteReturning(context.Background(), "INSERT INTO categoria (nome) VALUES (?) RETURNING id", "Terror")
	if err != nil {
		t.Fatalf("ExecuteReturning returned error: %v", err)
	}
	if id != 3 {
		t.Errorf("id = %d, want 3", id)
	}
}

func TestSession_ConcurrentSessionsAreIndependent(t *testing.T) {
	m := newTestManager(t, testutil.NewSeededCatalogDB(t))
	ctx := context.Background()

	a := openSession(t, m)
	b := openSession(t, m)
	if a.conn == b.conn {
		t.Fatal("two sessions share the same connection")
	}

	ra, err := a.Query(ctx, "SELECT * FROM ator")
	if err != nil {
		t.Fatalf("Query a: %v", err)
	}
	rb, err := b.Query(ctx, "SELECT * FROM categoria")
	if err != nil {
		t.Fatalf("Query b: %v", err)
	}
	if len(ra) != 3 || len(rb) != 2 {
		t.Errorf("got %d ator and %d categoria rows, want 3 and 2", len(ra), len(rb))
	}
}

func TestManager_Ping(t *testing.T) {
	m := newTestManager(t, testutil.NewCatalogDB(t))
	if err := m.Ping(context.Background()); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
	if m.Dialect().Name() != "SQLite" {
		t.Errorf("Dialect().Name() = %q, want 'SQLite'", m.Dialect().Name())
	}
}

func TestRecord_MarshalJSONKeepsColumnOrder(t *testing.T) {
	r := NewRecord([]string{"id", "titulo", "ano_lancamento"}, []any{int64(1), "Dark", int64(2017)})
	got, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	want := `{"id":1,"titulo":"Dark","ano_lancamento":2017}`
	if string(got) != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}
}

func TestRecord_MapAndGet(t *testing.T) {
	r := NewRecord([]string{"id", "nome"}, []any{int64(7), "Drama"})
	m := r.Map()
	if m["id"] != int64(7) || m["nome"] != "Drama" {
		t.Errorf("Map() = %v", m)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) reported ok")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		typeName string
		want     any
	}{
		{"mysql int bytes", []byte("42"), "INT", int64(42)},
		{"mysql bigint bytes", []byte("-7"), "BIGINT", int64(-7)},
		{"mysql varchar bytes", []byte("Drama"), "VARCHAR", "Drama"},
		{"mysql decimal bytes", []byte("9.5"), "DECIMAL", 9.5},
		{"unparsable int stays string", []byte("abc"), "INT", "abc"},
		{"non-bytes untouched", int64(3), "INTEGER", int64(3)},
		{"nil untouched", nil, "TEXT", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize(tt.in, tt.typeName); got != tt.want {
				t.Errorf("normalize(%#v, %q) = %#v, want %#v", tt.in, tt.typeName, got, tt.want)
			}
		})
	}
}

func TestSession_OpenErrorWrapsNotConnected(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent", "catalog.db")
	m := newTestManager(t, missing)
	s := m.Session()

	err := s.Open(context.Background())
	if err == nil {
		s.Close()
		t.Skip("driver opened a database in a missing directory")
	}
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Open error = %v, want it to wrap ErrNotConnected", err)
	}
}
