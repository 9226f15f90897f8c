// Package report renders the table catalog for the command line.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/0x6d61/mustwatch/internal/catalog"
)

// Reporter renders a catalog in a specific format.
type Reporter interface {
	// Format returns the format name (e.g., "text", "json").
	Format() string

	// Generate writes the rendered registry to w.
	Generate(ctx context.Context, registry *catalog.Registry, w io.Writer) error
}

// New creates a reporter by format name ("text" or "json").
// The format name is case-insensitive.
func New(format string) (Reporter, error) {
	switch strings.ToLower(format) {
	case "text":
		return &TextReporter{}, nil
	case "json":
		return &JSONReporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %q", format)
	}
}

// opNames lists the operations a table allows, in a fixed order.
func opNames(t *catalog.Table) []string {
	var names []string
	for _, op := range []catalog.Op{catalog.OpRead, catalog.OpCreate, catalog.OpUpdate, catalog.OpDelete} {
		if t.Allows(op) {
			names = append(names, op.String())
		}
	}
	return names
}
