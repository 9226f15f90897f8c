// Package catalog holds the static allow-list of tables the API exposes,
// with the identifier column, accepted create/update fields and user-facing
// messages of each one.
//
// Table and column names from this package are the only identifiers ever
// interpolated into SQL text. Anything that does not resolve here never
// reaches the database.
package catalog

import "sort"

// Op is an operation a table may allow.
type Op int

const (
	OpRead Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Kind is the JSON/SQL type of a field.
type Kind int

const (
	KindText Kind = iota
	KindInteger
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindInteger {
		return "integer"
	}
	return "text"
}

// Field is a column accepted in request bodies.
type Field struct {
	Name string
	Kind Kind
}

// Messages are the acknowledgment and not-found texts for a table.
type Messages struct {
	Created  string
	Updated  string
	Deleted  string
	NotFound string
}

// Table is one allow-listed table.
type Table struct {
	Name     string
	IDColumn string
	// Fields is the ordered column list. Create requires all of them,
	// update accepts any subset.
	Fields   []Field
	Ops      []Op
	Messages Messages
}

// Allows reports whether op is permitted on the table.
func (t *Table) Allows(op Op) bool {
	for _, o := range t.Ops {
		if o == op {
			return true
		}
	}
	return false
}

// Field returns the named field.
func (t *Table) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Registry maps table names to their definitions. It is built once and
// never mutated, so it is safe for concurrent use.
type Registry struct {
	tables map[string]*Table
}

// NewRegistry builds a registry from table definitions. A later definition
// with the same name replaces an earlier one.
func NewRegistry(tables ...*Table) *Registry {
	r := &Registry{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		r.tables[t.Name] = t
	}
	return r
}

// Resolve looks up a table by exact, case-sensitive name.
func (r *Registry) Resolve(name string) (*Table, bool) {
	t, ok := r.tables[name]
	return t, ok
}

// Tables returns all tables sorted by name.
func (r *Registry) Tables() []*Table {
	out := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
