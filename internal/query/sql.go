package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect abstracts the bind-parameter syntax of the SQL backend.
type Dialect interface {
	Name() string
	Placeholder(n int) string
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }
func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite3" }
func (sqliteDialect) Placeholder(int) string { return "?" }

var (
	Postgres Dialect = postgresDialect{}
	SQLite   Dialect = sqliteDialect{}
)

// DialectFor returns the dialect for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return Postgres, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

type ColumnType int

const (
	ColText ColumnType = iota
	ColBool
	ColNumber
)

// Column maps an attribute path to a scalar SQL expression.
type Column struct {
	Expr string
	Type ColumnType
}

// SetColumn maps a set-valued attribute path to a link table.
// Membership renders as EXISTS over Table where OwnerColumn = OwnerExpr.
type SetColumn struct {
	Table       string
	OwnerColumn string
	ValueColumn string
	OwnerExpr   string
}

// Schema describes which attribute paths a resource exposes to filters.
type Schema struct {
	Columns map[string]Column
	Sets    map[string]SetColumn
}

// SQLBuilder accumulates bind arguments while rendering clauses.
type SQLBuilder struct {
	dialect Dialect
	args    []any
}

func NewSQLBuilder(d Dialect) *SQLBuilder { return &SQLBuilder{dialect: d} }

// Arg registers a bind value and returns its placeholder.
func (b *SQLBuilder) Arg(v any) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

func (b *SQLBuilder) Args() []any { return b.args }

// Where renders f against s as a WHERE clause (including the keyword).
// Attributes the schema does not know match nothing, as do values that do not
// convert to the column type.
func (b *SQLBuilder) Where(f Filter, s Schema) string {
	clauses := []string{"1=1"}
	for _, c := range f.Constraints() {
		clauses = append(clauses, b.constraint(c, s))
	}
	return "WHERE " + strings.Join(clauses, " AND ")
}

func (b *SQLBuilder) constraint(c Constraint, s Schema) string {
	if len(c.Values) == 0 {
		return "1=1"
	}
	if set, ok := s.Sets[c.Field]; ok {
		return fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE %s.%s = %s AND %s.%s %s)",
			set.Table, set.Table, set.OwnerColumn, set.OwnerExpr,
			set.Table, set.ValueColumn, b.in(stringArgs(c.Values)))
	}
	col, ok := s.Columns[c.Field]
	if !ok {
		return "1=0"
	}
	vals, ok := convert(col.Type, c.Values)
	if !ok {
		return "1=0"
	}
	return col.Expr + " " + b.in(vals)
}

func (b *SQLBuilder) in(vals []any) string {
	if len(vals) == 1 {
		return "= " + b.Arg(vals[0])
	}
	ph := make([]string, len(vals))
	for i, v := range vals {
		ph[i] = b.Arg(v)
	}
	return "IN (" + strings.Join(ph, ", ") + ")"
}

func convert(t ColumnType, vals []string) ([]any, bool) {
	out := make([]any, 0, len(vals))
	for _, v := range vals {
		switch t {
		case ColBool:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, false
			}
			out = append(out, b)
		case ColNumber:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, false
			}
			out = append(out, n)
		default:
			out = append(out, v)
		}
	}
	return out, true
}

func stringArgs(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
