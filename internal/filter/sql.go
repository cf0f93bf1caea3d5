package filter

import (
	"fmt"
	"strings"
)

// Clause is the SQL rendering of a Filter using '?' placeholders.
// Callers rebind placeholders for their driver.
type Clause struct {
	Where   string
	OrderBy string
	Limit   int
	Args    []interface{}
}

// QuoteIdent double-quotes an identifier, which both SQLite and PostgreSQL accept
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Dialect selects how numeric parameters are written
type Dialect int

const (
	// DialectSQLite binds numbers as bare placeholders
	DialectSQLite Dialect = iota
	// DialectPostgres casts every numeric parameter to DOUBLE PRECISION so a
	// fractional literal can be compared with an integer column
	DialectPostgres
)

// DialectFor maps a database/sql driver name to its dialect
func DialectFor(driverName string) Dialect {
	switch driverName {
	case "postgres", "pgx":
		return DialectPostgres
	}
	return DialectSQLite
}

func (d Dialect) param() string {
	if d == DialectPostgres {
		return "CAST(? AS DOUBLE PRECISION)"
	}
	return "?"
}

// SQL renders the filter as bound-parameter SQL fragments for SQLite
func (f *Filter) SQL() Clause {
	return f.SQLFor(DialectSQLite)
}

// SQLFor renders the filter as bound-parameter SQL fragments for a dialect
func (f *Filter) SQLFor(d Dialect) Clause {
	var c Clause
	if f.Where != nil {
		r := sqlRenderer{param: d.param(), args: &c.Args}
		var b strings.Builder
		r.render(&b, f.Where)
		c.Where = b.String()
	}
	if len(f.OrderBy) > 0 {
		keys := make([]string, len(f.OrderBy))
		for i, o := range f.OrderBy {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			keys[i] = QuoteIdent(o.Column) + " " + dir
		}
		c.OrderBy = strings.Join(keys, ", ")
	}
	c.Limit = f.Limit
	return c
}

// Apply appends the clause to a base SELECT statement
func (c Clause) Apply(base string) (string, []interface{}) {
	var b strings.Builder
	b.WriteString(base)
	if c.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(c.Where)
	}
	if c.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(c.OrderBy)
	}
	if c.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", c.Limit)
	}
	return b.String(), c.Args
}

type sqlRenderer struct {
	param string
	args  *[]interface{}
}

func (r sqlRenderer) bind(b *strings.Builder, v float64) {
	b.WriteString(r.param)
	*r.args = append(*r.args, v)
}

func (r sqlRenderer) render(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Logical:
		b.WriteString("(")
		r.render(b, n.Left)
		b.WriteString(" " + string(n.Op) + " ")
		r.render(b, n.Right)
		b.WriteString(")")
	case *Not:
		b.WriteString("NOT (")
		r.render(b, n.X)
		b.WriteString(")")
	case *Compare:
		r.operand(b, n.Left)
		b.WriteString(" " + string(n.Op) + " ")
		r.operand(b, n.Right)
	case *Between:
		b.WriteString(QuoteIdent(n.Column))
		if n.Negate {
			b.WriteString(" NOT")
		}
		b.WriteString(" BETWEEN ")
		r.bind(b, n.Lo)
		b.WriteString(" AND ")
		r.bind(b, n.Hi)
	case *In:
		b.WriteString(QuoteIdent(n.Column))
		if n.Negate {
			b.WriteString(" NOT")
		}
		b.WriteString(" IN (")
		for i, v := range n.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			r.bind(b, v)
		}
		b.WriteString(")")
	case *IsNull:
		b.WriteString(QuoteIdent(n.Column))
		if n.Negate {
			b.WriteString(" IS NOT NULL")
		} else {
			b.WriteString(" IS NULL")
		}
	}
}

func (r sqlRenderer) operand(b *strings.Builder, o Operand) {
	if o.IsColumn() {
		b.WriteString(QuoteIdent(o.Column))
		return
	}
	r.bind(b, o.Value)
}
