package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"haloscope/internal/errors"
)

// SyntaxError reports a problem at a byte offset of the filter text
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Pos)
}

// Filter is a parsed, schema-validated filter clause
type Filter struct {
	Where   Expr // nil selects every row
	OrderBy []OrderTerm
	Limit   int // 0 means no limit

	text string
}

// All returns a filter selecting every row
func All() *Filter {
	return &Filter{}
}

// Text returns the filter text as typed by the user
func (f *Filter) Text() string {
	return f.text
}

// String renders the filter in canonical lower-case form
func (f *Filter) String() string {
	var parts []string
	if f.Where != nil {
		parts = append(parts, "where "+f.Where.String())
	}
	if len(f.OrderBy) > 0 {
		keys := make([]string, len(f.OrderBy))
		for i, o := range f.OrderBy {
			keys[i] = o.Column
			if o.Desc {
				keys[i] += " desc"
			}
		}
		parts = append(parts, "order by "+strings.Join(keys, ", "))
	}
	if f.Limit > 0 {
		parts = append(parts, "limit "+strconv.Itoa(f.Limit))
	}
	return strings.Join(parts, " ")
}

// Columns returns every column the filter references
func (f *Filter) Columns() []string {
	seen := map[string]bool{}
	var out []string
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	walk(f.Where, func(e Expr) {
		switch n := e.(type) {
		case *Compare:
			add(n.Left.Column)
			add(n.Right.Column)
		case *Between:
			add(n.Column)
		case *In:
			add(n.Column)
		case *IsNull:
			add(n.Column)
		}
	})
	for _, o := range f.OrderBy {
		add(o.Column)
	}
	return out
}

func walk(e Expr, fn func(Expr)) {
	if e == nil {
		return
	}
	fn(e)
	switch n := e.(type) {
	case *Logical:
		walk(n.Left, fn)
		walk(n.Right, fn)
	case *Not:
		walk(n.X, fn)
	}
}

// Parse parses filter text against the given schema. Column names are
// matched case-insensitively and normalized to the schema spelling.
func Parse(text string, columns []string) (*Filter, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))

	tokens, err := lex(trimmed)
	if err != nil {
		return nil, invalid(err)
	}

	p := &parser{tokens: tokens, schema: make(map[string]string, len(columns))}
	for _, c := range columns {
		p.schema[strings.ToLower(c)] = c
	}

	f, err := p.parseClause()
	if err != nil {
		return nil, invalid(err)
	}
	f.text = trimmed
	return f, nil
}

func invalid(err error) error {
	return &errors.AppError{Code: errors.CodeInvalidFilter, Message: "invalid filter", Cause: err}
}

type parser struct {
	tokens []token
	pos    int
	schema map[string]string
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...interface{}) error {
	return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expectKeyword(kw string) error {
	t := p.next()
	if !t.is(kw) {
		return p.errorf(t, "expected %q, found %s", kw, t)
	}
	return nil
}

func (p *parser) parseClause() (*Filter, error) {
	f := &Filter{}

	if p.peek().is("where") {
		p.next()
	}
	if t := p.peek(); t.kind != tokEOF && !t.is("order") && !t.is("limit") {
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		f.Where = expr
	}

	if p.peek().is("order") {
		p.next()
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		for {
			col, err := p.parseColumn()
			if err != nil {
				return nil, err
			}
			term := OrderTerm{Column: col}
			if t := p.peek(); t.is("desc") {
				p.next()
				term.Desc = true
			} else if t.is("asc") {
				p.next()
			}
			f.OrderBy = append(f.OrderBy, term)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}

	if p.peek().is("limit") {
		p.next()
		t := p.next()
		if t.kind != tokNumber {
			return nil, p.errorf(t, "expected row count after limit, found %s", t)
		}
		n, err := strconv.Atoi(t.text)
		if err != nil || n <= 0 {
			return nil, p.errorf(t, "limit must be a positive integer")
		}
		f.Limit = n
	}

	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %s", t)
	}
	return f, nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().is("or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.peek().is("and") {
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseFactor() (Expr, error) {
	t := p.peek()
	switch {
	case t.is("not"):
		p.next()
		x, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &Not{X: x}, nil
	case t.kind == tokLParen:
		p.next()
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, p.errorf(c, "expected ')', found %s", c)
		}
		return x, nil
	}
	return p.parsePredicate()
}

func (p *parser) parsePredicate() (Expr, error) {
	start := p.peek()
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	t := p.peek()
	if t.kind == tokOp {
		p.next()
		op, err := cmpOp(t)
		if err != nil {
			return nil, err
		}
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &Compare{Op: op, Left: left, Right: right}, nil
	}

	if !left.IsColumn() {
		return nil, p.errorf(t, "expected comparison after %s, found %s", start, t)
	}

	negate := false
	if t.is("not") {
		p.next()
		negate = true
		t = p.peek()
	}

	switch {
	case t.is("between"):
		p.next()
		lo, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("and"); err != nil {
			return nil, err
		}
		hi, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return &Between{Column: left.Column, Lo: lo, Hi: hi, Negate: negate}, nil

	case t.is("in"):
		p.next()
		if c := p.next(); c.kind != tokLParen {
			return nil, p.errorf(c, "expected '(' after in, found %s", c)
		}
		var values []float64
		for {
			v, err := p.parseNumber()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
			c := p.next()
			if c.kind == tokRParen {
				break
			}
			if c.kind != tokComma {
				return nil, p.errorf(c, "expected ',' or ')', found %s", c)
			}
		}
		return &In{Column: left.Column, Values: values, Negate: negate}, nil

	case t.is("is") && !negate:
		p.next()
		if p.peek().is("not") {
			p.next()
			negate = true
		}
		if err := p.expectKeyword("null"); err != nil {
			return nil, err
		}
		return &IsNull{Column: left.Column, Negate: negate}, nil
	}

	return nil, p.errorf(t, "expected comparison after %s, found %s", start, t)
}

func (p *parser) parseOperand() (Operand, error) {
	t := p.peek()
	if t.kind == tokNumber || t.kind == tokSign {
		v, err := p.parseNumber()
		return Operand{Value: v}, err
	}
	col, err := p.parseColumn()
	return Operand{Column: col}, err
}

func (p *parser) parseColumn() (string, error) {
	t := p.next()
	if t.kind != tokIdent && t.kind != tokQuotedIdent {
		return "", p.errorf(t, "expected column name, found %s", t)
	}
	if t.kind == tokIdent && isReserved(t.text) {
		return "", p.errorf(t, "expected column name, found keyword %s", t)
	}
	col, ok := p.schema[strings.ToLower(t.text)]
	if !ok {
		return "", p.errorf(t, "unknown column %q", t.text)
	}
	return col, nil
}

func (p *parser) parseNumber() (float64, error) {
	sign := 1.0
	t := p.next()
	if t.kind == tokSign {
		if t.text == "-" {
			sign = -1
		}
		t = p.next()
	}
	if t.kind != tokNumber {
		return 0, p.errorf(t, "expected number, found %s", t)
	}
	v, err := strconv.ParseFloat(t.text, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, p.errorf(t, "invalid number %s", t)
	}
	return sign * v, nil
}

func cmpOp(t token) (CmpOp, error) {
	switch t.text {
	case "=", "==":
		return CmpEq, nil
	case "!=", "<>":
		return CmpNe, nil
	case "<":
		return CmpLt, nil
	case "<=":
		return CmpLe, nil
	case ">":
		return CmpGt, nil
	case ">=":
		return CmpGe, nil
	}
	return "", &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unknown operator %s", t)}
}

var reserved = map[string]bool{
	"where": true, "and": true, "or": true, "not": true, "between": true,
	"in": true, "is": true, "null": true, "order": true, "by": true,
	"asc": true, "desc": true, "limit": true,
}

func isReserved(word string) bool {
	return reserved[strings.ToLower(word)]
}
