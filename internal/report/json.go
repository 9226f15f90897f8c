package report

import (
	"context"
	"encoding/json"
	"io"

	"github.com/0x6d61/mustwatch/internal/catalog"
)

// JSONReporter outputs structured JSON.
type JSONReporter struct {
	// Compact outputs single-line JSON when true (no indentation).
	Compact bool
}

// Format returns "json".
func (r *JSONReporter) Format() string {
	return "json"
}

type jsonOutput struct {
	SchemaVersion string      `json:"schema_version"`
	Tool          string      `json:"tool"`
	Tables        []jsonTable `json:"tables"`
}

type jsonTable struct {
	Name       string       `json:"name"`
	IDColumn   string       `json:"id_column"`
	Operations []string     `json:"operations"`
	Fields     []jsonField  `json:"fields"`
	Messages   jsonMessages `json:"messages"`
}

type jsonField struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type jsonMessages struct {
	Created  string `json:"created,omitempty"`
	Updated  string `json:"updated,omitempty"`
	Deleted  string `json:"deleted,omitempty"`
	NotFound string `json:"not_found,omitempty"`
}

// Generate writes the registry as JSON to w.
func (r *JSONReporter) Generate(ctx context.Context, registry *catalog.Registry, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tables := registry.Tables()
	output := jsonOutput{
		SchemaVersion: "1.0",
		Tool:          "mustwatch",
		Tables:        make([]jsonTable, 0, len(tables)),
	}
	for _, t := range tables {
		jt := jsonTable{
			Name:       t.Name,
			IDColumn:   t.IDColumn,
			Operations: opNames(t),
			Fields:     make([]jsonField, 0, len(t.Fields)),
			Messages: jsonMessages{
				Created:  t.Messages.Created,
				Updated:  t.Messages.Updated,
				Deleted:  t.Messages.Deleted,
				NotFound: t.Messages.NotFound,
			},
		}
		for _, f := range t.Fields {
			jt.Fields = append(jt.Fields, jsonField{Name: f.Name, Kind: f.Kind.String()})
		}
		output.Tables = append(output.Tables, jt)
	}

	enc := json.NewEncoder(w)
	if !r.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(output)
}
