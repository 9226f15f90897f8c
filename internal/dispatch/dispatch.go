// Package dispatch implements the generic table operations behind the HTTP
// API. A table name is resolved against the catalog allow-list before any
// connection is made; statements are then built from the resolved table
// definition and run on a per-call database session.
package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/0x6d61/mustwatch/internal/catalog"
	"github.com/0x6d61/mustwatch/internal/database"
)

// Ack acknowledges a successful mutation.
type Ack struct {
	Message string `json:"message"`
	// ID is the generated identifier on create.
	ID int64 `json:"id,omitempty"`
}

// Dispatcher runs table operations. It holds no per-request state and is
// safe for concurrent use.
type Dispatcher struct {
	registry *catalog.Registry
	db       *database.Manager
	log      *zap.SugaredLogger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for execution failures.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// New creates a Dispatcher over registry and db.
func New(registry *catalog.Registry, db *database.Manager, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		db:       db,
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the allow-list the dispatcher resolves against.
func (d *Dispatcher) Registry() *catalog.Registry {
	return d.registry
}

// List returns every row of table.
func (d *Dispatcher) List(ctx context.Context, table string) ([]database.Record, error) {
	t, err := d.resolve(table, catalog.OpRead)
	if err != nil {
		return nil, err
	}

	records, err := d.query(ctx, t, catalog.OpRead, selectAllSQL(d.db.Dialect(), t))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, itemNotFound(t, MsgItemNotFound)
	}
	return records, nil
}

// Get returns the rows of table whose identifier equals id.
func (d *Dispatcher) Get(ctx context.Context, table string, id int64) ([]database.Record, error) {
	t, err := d.resolve(table, catalog.OpRead)
	if err != nil {
		return nil, err
	}

	records, err := d.query(ctx, t, catalog.OpRead, selectByIDSQL(d.db.Dialect(), t), id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, itemNotFound(t, t.Messages.NotFound)
	}
	return records, nil
}

// Create inserts a row from a JSON body and returns the generated id.
func (d *Dispatcher) Create(ctx context.Context, table string, body []byte) (*Ack, error) {
	t, err := d.resolve(table, catalog.OpCreate)
	if err != nil {
		return nil, err
	}
	values, err := t.DecodeCreate(body)
	if err != nil {
		return nil, err
	}

	sess := d.db.Session()
	defer sess.Close()
	if err := sess.Open(ctx); err != nil {
		return nil, d.fail(sess, t, catalog.OpCreate, err)
	}

	dialect := d.db.Dialect()
	caps := dialect.Capabilities()
	var id int64
	if caps.LastInsertID {
		res, err := sess.Execute(ctx, insertSQL(dialect, t, values.Columns(), false), values.Args()...)
		if err != nil {
			return nil, d.fail(sess, t, catalog.OpCreate, err)
		}
		id = res.LastInsertID
	} else {
		id, err = sess.ExecuteReturning(ctx, insertSQL(dialect, t, values.Columns(), true), values.Args()...)
		if err != nil {
			return nil, d.fail(sess, t, catalog.OpCreate, err)
		}
	}

	return &Ack{Message: t.Messages.Created, ID: id}, nil
}

// Update applies a partial update: only the fields present in body are
// written. A missing row is reported before anything is changed.
func (d *Dispatcher) Update(ctx context.Context, table string, id int64, body []byte) (*Ack, error) {
	t, err := d.resolve(table, catalog.OpUpdate)
	if err != nil {
		return nil, err
	}
	values, err := t.DecodePatch(body)
	if err != nil {
		return nil, err
	}

	sess := d.db.Session()
	defer sess.Close()
	if err := sess.Open(ctx); err != nil {
		return nil, d.fail(sess, t, catalog.OpUpdate, err)
	}
	if err := d.mustExist(ctx, sess, t, catalog.OpUpdate, id); err != nil {
		return nil, err
	}

	args := append(values.Args(), id)
	if _, err := sess.Execute(ctx, updateSQL(d.db.Dialect(), t, values.Columns()), args...); err != nil {
		return nil, d.fail(sess, t, catalog.OpUpdate, err)
	}
	return &Ack{Message: t.Messages.Updated}, nil
}

// Delete removes the row with the given id.
func (d *Dispatcher) Delete(ctx context.Context, table string, id int64) (*Ack, error) {
	t, err := d.resolve(table, catalog.OpDelete)
	if err != nil {
		return nil, err
	}

	sess := d.db.Session()
	defer sess.Close()
	if err := sess.Open(ctx); err != nil {
		return nil, d.fail(sess, t, catalog.OpDelete, err)
	}
	if err := d.mustExist(ctx, sess, t, catalog.OpDelete, id); err != nil {
		return nil, err
	}

	if _, err := sess.Execute(ctx, deleteSQL(d.db.Dialect(), t), id); err != nil {
		return nil, d.fail(sess, t, catalog.OpDelete, err)
	}
	return &Ack{Message: t.Messages.Deleted}, nil
}

// resolve is the allow-list gate. It runs before any session exists.
func (d *Dispatcher) resolve(table string, op catalog.Op) (*catalog.Table, error) {
	t, ok := d.registry.Resolve(table)
	if !ok || !t.Allows(op) {
		return nil, tableNotFound(table)
	}
	return t, nil
}

func (d *Dispatcher) query(ctx context.Context, t *catalog.Table, op catalog.Op, stmt string, args ...any) ([]database.Record, error) {
	sess := d.db.Session()
	defer sess.Close()
	if err := sess.Open(ctx); err != nil {
		return nil, d.fail(sess, t, op, err)
	}

	records, err := sess.Query(ctx, stmt, args...)
	if err != nil {
		return nil, d.fail(sess, t, op, err)
	}
	return records, nil
}

func (d *Dispatcher) mustExist(ctx context.Context, sess *database.Session, t *catalog.Table, op catalog.Op, id int64) error {
	records, err := sess.Query(ctx, existsSQL(d.db.Dialect(), t), id)
	if err != nil {
		return d.fail(sess, t, op, err)
	}
	if len(records) == 0 {
		return itemNotFound(t, t.Messages.NotFound)
	}
	return nil
}

// fail rolls back whatever the session left pending and wraps err.
func (d *Dispatcher) fail(sess *database.Session, t *catalog.Table, op catalog.Op, err error) error {
	sess.Rollback()
	d.log.Errorw("table operation failed", "table", t.Name, "op", op.String(), "error", err)
	return &ExecutionError{Table: t.Name, Op: op, Err: err}
}
