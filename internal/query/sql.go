package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the differences between SQL backends that matter when
// rendering a Query.
type Dialect struct {
	Name        string
	like        string
	placeholder func(n int) string
}

var (
	SQLite = Dialect{
		Name:        "sqlite",
		like:        "LIKE",
		placeholder: func(int) string { return "?" },
	}
	Postgres = Dialect{
		Name:        "postgres",
		like:        "ILIKE",
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}
)

// Placeholder returns the bind marker for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	return d.placeholder(n)
}

// Paging renders the LIMIT/OFFSET suffix of a SELECT, empty when unbounded.
func (d Dialect) Paging(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	} else if offset > 0 && d.Name == SQLite.Name {
		// SQLite only accepts OFFSET after a LIMIT.
		b.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", offset)
	}
	return b.String()
}

// SQL is a Query rendered for one dialect. Where and OrderBy come without
// their keywords; Where is empty when everything matches.
type SQL struct {
	Where   string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
}

var comparisons = map[Op]string{
	OpEq: "=",
	OpNe: "<>",
	OpLt: "<",
	OpLe: "<=",
	OpGt: ">",
	OpGe: ">=",
}

// SQL renders q. key is appended to the ordering so results are stable.
func (q *Query) SQL(d Dialect, key string) SQL {
	r := &sqlRenderer{d: d}
	out := SQL{Limit: q.Limit, Offset: q.Offset}
	if q.Where != nil {
		out.Where = r.expr(q.Where)
		out.Args = r.args
	}

	order := make([]string, 0, len(q.Sort)+1)
	keySorted := false
	for _, s := range q.Sort {
		term := s.Field
		if s.Desc {
			term += " DESC"
		}
		order = append(order, term)
		if s.Field == key {
			keySorted = true
		}
	}
	if !keySorted {
		order = append(order, key)
	}
	out.OrderBy = strings.Join(order, ", ")
	return out
}

type sqlRenderer struct {
	d    Dialect
	args []any
}

func (r *sqlRenderer) bind(v any) string {
	r.args = append(r.args, v)
	return r.d.Placeholder(len(r.args))
}

func (r *sqlRenderer) expr(e *Expr) string {
	switch e.Op {
	case OpAnd, OpOr:
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = r.expr(a)
		}
		return "(" + strings.Join(parts, " "+strings.ToUpper(string(e.Op))+" ") + ")"
	case OpNot:
		return "NOT (" + r.expr(e.Args[0]) + ")"
	case OpLike:
		return e.Field + " " + r.d.like + " " + r.bind(LikePattern(e.Values[0])) + ` ESCAPE '\'`
	case OpIn:
		marks := make([]string, len(e.Values))
		for i, v := range e.Values {
			marks[i] = r.bind(v)
		}
		return e.Field + " IN (" + strings.Join(marks, ", ") + ")"
	default:
		return e.Field + " " + comparisons[e.Op] + " " + r.bind(e.Values[0])
	}
}
