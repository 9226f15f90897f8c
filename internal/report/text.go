package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/0x6d61/mustwatch/internal/catalog"
)

const (
	doubleLine = "\u2550" // ═
	singleLine = "\u2500" // ─
	lineWidth  = 50
)

// TextReporter outputs plain terminal text.
type TextReporter struct {
	// Messages includes the acknowledgment messages of each table.
	Messages bool
}

// Format returns "text".
func (r *TextReporter) Format() string {
	return "text"
}

// Generate writes one block per table to w.
func (r *TextReporter) Generate(ctx context.Context, registry *catalog.Registry, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := &strings.Builder{}
	doubleBar := strings.Repeat(doubleLine, lineWidth)
	singleBar := strings.Repeat(singleLine, lineWidth)

	tables := registry.Tables()
	fmt.Fprintln(b, doubleBar)
	fmt.Fprintf(b, "mustwatch - %d tables\n", len(tables))
	fmt.Fprintln(b, doubleBar)

	for _, t := range tables {
		fmt.Fprintln(b, singleBar)
		fmt.Fprintf(b, "%s (id: %s)\n", t.Name, t.IDColumn)
		fmt.Fprintf(b, "  Operations: %s\n", strings.Join(opNames(t), ", "))
		for _, f := range t.Fields {
			fmt.Fprintf(b, "  %-16s %s\n", f.Name, f.Kind)
		}
		if r.Messages {
			fmt.Fprintf(b, "  Created:   %s\n", t.Messages.Created)
			fmt.Fprintf(b, "  Updated:   %s\n", t.Messages.Updated)
			fmt.Fprintf(b, "  Deleted:   %s\n", t.Messages.Deleted)
			fmt.Fprintf(b, "  Not found: %s\n", t.Messages.NotFound)
		}
	}
	fmt.Fprintln(b, doubleBar)

	_, err := io.WriteString(w, b.String())
	return err
}
