package dispatch

import (
	"fmt"
	"strings"

	"github.com/0x6d61/mustwatch/internal/catalog"
	"github.com/0x6d61/mustwatch/internal/dbms"
)

// Statement builders. Every identifier comes from a resolved catalog.Table;
// values are always bound.

func selectAllSQL(d dbms.DBMS, t *catalog.Table) string {
	return fmt.Sprintf("SELECT * FROM %s ORDER BY %s",
		d.QuoteIdent(t.Name), d.QuoteIdent(t.IDColumn))
}

func selectByIDSQL(d dbms.DBMS, t *catalog.Table) string {
	return fmt.Sprintf("SELECT * FROM %s WHERE %s = %s",
		d.QuoteIdent(t.Name), d.QuoteIdent(t.IDColumn), d.Placeholder(1))
}

func existsSQL(d dbms.DBMS, t *catalog.Table) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		d.QuoteIdent(t.IDColumn), d.QuoteIdent(t.Name), d.QuoteIdent(t.IDColumn), d.Placeholder(1))
}

func insertSQL(d dbms.DBMS, t *catalog.Table, cols []string, returning bool) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.QuoteIdent(c)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(t.Name), strings.Join(quoted, ", "), dbms.Placeholders(d, 0, len(cols)))
	if returning {
		stmt += " RETURNING " + d.QuoteIdent(t.IDColumn)
	}
	return stmt
}

// updateSQL binds the SET values first and the id last.
func updateSQL(d dbms.DBMS, t *catalog.Table, cols []string) string {
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = %s", d.QuoteIdent(c), d.Placeholder(i+1))
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		d.QuoteIdent(t.Name), strings.Join(sets, ", "), d.QuoteIdent(t.IDColumn), d.Placeholder(len(cols)+1))
}

func deleteSQL(d dbms.DBMS, t *catalog.Table) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		d.QuoteIdent(t.Name), d.QuoteIdent(t.IDColumn), d.Placeholder(1))
}
