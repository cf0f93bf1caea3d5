package filter

import (
	"math"
	"sort"
)

// truth is SQL three-valued logic; NULL (NaN) comparisons are unknown
type truth int

const (
	tFalse truth = iota
	tUnknown
	tTrue
)

func boolTruth(b bool) truth {
	if b {
		return tTrue
	}
	return tFalse
}

// Row resolves a column to its value; missing values are NaN
type Row func(column string) float64

// Match evaluates the where expression against a row with the same
// semantics the store applies: a row is kept only when the predicate is true.
func (f *Filter) Match(row Row) bool {
	if f.Where == nil {
		return true
	}
	return eval(f.Where, row) == tTrue
}

func eval(e Expr, row Row) truth {
	switch n := e.(type) {
	case *Logical:
		l, r := eval(n.Left, row), eval(n.Right, row)
		if n.Op == OpAnd {
			if l == tFalse || r == tFalse {
				return tFalse
			}
			if l == tUnknown || r == tUnknown {
				return tUnknown
			}
			return tTrue
		}
		if l == tTrue || r == tTrue {
			return tTrue
		}
		if l == tUnknown || r == tUnknown {
			return tUnknown
		}
		return tFalse
	case *Not:
		switch eval(n.X, row) {
		case tTrue:
			return tFalse
		case tFalse:
			return tTrue
		}
		return tUnknown
	case *Compare:
		l, r := operandValue(n.Left, row), operandValue(n.Right, row)
		if math.IsNaN(l) || math.IsNaN(r) {
			return tUnknown
		}
		return boolTruth(compare(n.Op, l, r))
	case *Between:
		v := row(n.Column)
		if math.IsNaN(v) {
			return tUnknown
		}
		return boolTruth((v >= n.Lo && v <= n.Hi) != n.Negate)
	case *In:
		v := row(n.Column)
		if math.IsNaN(v) {
			return tUnknown
		}
		found := false
		for _, c := range n.Values {
			if v == c {
				found = true
				break
			}
		}
		return boolTruth(found != n.Negate)
	case *IsNull:
		return boolTruth(math.IsNaN(row(n.Column)) != n.Negate)
	}
	return tUnknown
}

func operandValue(o Operand, row Row) float64 {
	if o.IsColumn() {
		return row(o.Column)
	}
	return o.Value
}

func compare(op CmpOp, l, r float64) bool {
	switch op {
	case CmpEq:
		return l == r
	case CmpNe:
		return l != r
	case CmpLt:
		return l < r
	case CmpLe:
		return l <= r
	case CmpGt:
		return l > r
	case CmpGe:
		return l >= r
	}
	return false
}

// SortRows orders row indices by the filter's order terms. Missing values
// sort first ascending and last descending, matching SQLite.
func (f *Filter) SortRows(indices []int, value func(row int, column string) float64) {
	if len(f.OrderBy) == 0 {
		return
	}
	sort.SliceStable(indices, func(a, b int) bool {
		for _, o := range f.OrderBy {
			va, vb := value(indices[a], o.Column), value(indices[b], o.Column)
			if c := cmpNullsFirst(va, vb); c != 0 {
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		return false
	})
}

func cmpNullsFirst(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
