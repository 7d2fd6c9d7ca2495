package rules

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/categorizer/internal/model"
)

// DefaultSQLiteTable is the table read when a sqlite source names none.
const DefaultSQLiteTable = "categorization_rules"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// sqliteColumns maps conventional lower-case column names onto the rule
// table header.
var sqliteColumns = map[string]string{
	"keyword":  model.ColumnKeyword,
	"category": model.ColumnCategory,
}

// SQLiteSource reads rules from a table in a SQLite database, in rowid
// order. The table needs keyword and category columns (or "Key Word" and
// "Category").
type SQLiteSource struct {
	Path  string
	Table string
}

func (s *SQLiteSource) table() string {
	if s.Table == "" {
		return DefaultSQLiteTable
	}
	return s.Table
}

// Fetch queries the rules table.
func (s *SQLiteSource) Fetch(ctx context.Context) (*model.Table, error) {
	table := s.table()
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", model.ErrMalformedSource, table)
	}
	if _, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", model.ErrSourceUnavailable, s.Path, err)
	}

	db, err := sql.Open("sqlite3", "file:"+s.Path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", model.ErrSourceUnavailable, s.Path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %w", model.ErrSourceUnavailable, s, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: reading columns: %w", model.ErrSourceUnavailable, err)
	}
	cols := make([]string, len(names))
	for i, n := range names {
		if mapped, ok := sqliteColumns[n]; ok {
			cols[i] = mapped
		} else {
			cols[i] = n
		}
	}
	tbl := model.NewTable(cols)

	raw := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scanning row: %w", model.ErrSourceUnavailable, err)
		}
		cells := make([]model.Value, len(raw))
		for i, v := range raw {
			cells[i] = sqlValue(v)
		}
		if err := tbl.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating rows: %w", model.ErrSourceUnavailable, err)
	}
	return tbl, nil
}

func (s *SQLiteSource) String() string { return "sqlite://" + s.Path + "?table=" + s.table() }

func sqlValue(v any) model.Value {
	switch x := v.(type) {
	case nil:
		return model.NullValue()
	case int64:
		return model.NumberValue(decimal.NewFromInt(x))
	case float64:
		return model.NumberValue(decimal.NewFromFloat(x))
	case bool:
		return model.BoolValue(x)
	case []byte:
		return model.StringValue(string(x))
	case string:
		return model.StringValue(x)
	case time.Time:
		return model.StringValue(x.Format(time.RFC3339))
	default:
		return model.StringValue(fmt.Sprint(x))
	}
}
