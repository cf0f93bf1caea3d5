package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a node of a parsed filter expression
type Expr interface {
	String() string
}

// LogicOp joins two sub-expressions
type LogicOp string

const (
	OpAnd LogicOp = "AND"
	OpOr  LogicOp = "OR"
)

// CmpOp is a binary comparison
type CmpOp string

const (
	CmpEq CmpOp = "="
	CmpNe CmpOp = "<>"
	CmpLt CmpOp = "<"
	CmpLe CmpOp = "<="
	CmpGt CmpOp = ">"
	CmpGe CmpOp = ">="
)

// Operand is either a column reference or a numeric literal
type Operand struct {
	Column string
	Value  float64
}

// IsColumn reports whether the operand references a column
func (o Operand) IsColumn() bool { return o.Column != "" }

func (o Operand) String() string {
	if o.IsColumn() {
		return o.Column
	}
	return formatNumber(o.Value)
}

type Logical struct {
	Op          LogicOp
	Left, Right Expr
}

func (e *Logical) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, strings.ToLower(string(e.Op)), e.Right)
}

type Not struct {
	X Expr
}

func (e *Not) String() string { return fmt.Sprintf("not %s", e.X) }

type Compare struct {
	Op          CmpOp
	Left, Right Operand
}

func (e *Compare) String() string {
	return fmt.Sprintf("%s %s %s", e.Left, e.Op, e.Right)
}

type Between struct {
	Column string
	Lo, Hi float64
	Negate bool
}

func (e *Between) String() string {
	not := ""
	if e.Negate {
		not = "not "
	}
	return fmt.Sprintf("%s %sbetween %s and %s", e.Column, not, formatNumber(e.Lo), formatNumber(e.Hi))
}

type In struct {
	Column string
	Values []float64
	Negate bool
}

func (e *In) String() string {
	vals := make([]string, len(e.Values))
	for i, v := range e.Values {
		vals[i] = formatNumber(v)
	}
	not := ""
	if e.Negate {
		not = "not "
	}
	return fmt.Sprintf("%s %sin (%s)", e.Column, not, strings.Join(vals, ", "))
}

type IsNull struct {
	Column string
	Negate bool
}

func (e *IsNull) String() string {
	if e.Negate {
		return e.Column + " is not null"
	}
	return e.Column + " is null"
}

// OrderTerm is one key of an "order by" list
type OrderTerm struct {
	Column string
	Desc   bool
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
