package dispatch

import (
	"errors"
	"fmt"

	"github.com/0x6d61/mustwatch/internal/catalog"
)

var (
	// ErrTableNotFound means the table is not allow-listed, or does not
	// allow the requested operation.
	ErrTableNotFound = errors.New("table not found")

	// ErrItemNotFound means no row has the requested id, or a listing is
	// empty.
	ErrItemNotFound = errors.New("item not found")
)

// Default user-facing messages.
const (
	MsgTableNotFound = "Tabela não encontrada"
	MsgItemNotFound  = "Item não encontrado"
)

// ValidationError is a request body that does not fit the table's schema.
type ValidationError = catalog.ValidationError

// NotFoundError carries the user-facing message for a not-found outcome.
// It unwraps to ErrTableNotFound or ErrItemNotFound.
type NotFoundError struct {
	Table   string
	Message string
	Err     error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dispatch: %s: %v", e.Table, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// ExecutionError is a database failure during an operation. The
// transaction, if any, has already been rolled back.
type ExecutionError struct {
	Table string
	Op    catalog.Op
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("dispatch: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func tableNotFound(table string) error {
	return &NotFoundError{Table: table, Message: MsgTableNotFound, Err: ErrTableNotFound}
}

func itemNotFound(t *catalog.Table, message string) error {
	return &NotFoundError{Table: t.Name, Message: message, Err: ErrItemNotFound}
}
