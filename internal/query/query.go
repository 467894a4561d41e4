// Package query turns RQL condition strings into a validated expression tree
// that storage backends render into their own filter language.
//
// Supported operators: eq, ne, lt, le, gt, ge, like, in, and, or, not.
// Top-level comma-separated terms are and-ed. sort(+f,-g) and limit(...) are
// honoured. See https://doc.apsstandard.org/2.1/spec/rql/.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	rqlParser "github.com/Q-CIS-DEV/go-rql-parser"
)

// ErrInvalidCondition is returned for any condition that cannot be parsed or
// does not fit the entity's fields.
var ErrInvalidCondition = errors.New("invalid condition")

type Kind int

const (
	Text Kind = iota
	Int
	Real
)

type Field struct {
	Name string
	Kind Kind
}

// Fields is the ordered set of queryable fields of one entity type.
type Fields []Field

func (fs Fields) Lookup(name string) (Field, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

type Op string

const (
	OpAnd  Op = "and"
	OpOr   Op = "or"
	OpNot  Op = "not"
	OpEq   Op = "eq"
	OpNe   Op = "ne"
	OpLt   Op = "lt"
	OpLe   Op = "le"
	OpGt   Op = "gt"
	OpGe   Op = "ge"
	OpLike Op = "like"
	OpIn   Op = "in"
)

// Expr is a node of the condition tree. Logical nodes (and, or, not) use
// Args; comparisons use Field and Values.
type Expr struct {
	Op     Op
	Field  string
	Values []any
	Args   []*Expr
}

type Sort struct {
	Field string
	Desc  bool
}

// Query is a parsed condition. A nil Where matches everything; zero Limit
// means unlimited.
type Query struct {
	Where  *Expr
	Sort   []Sort
	Limit  int
	Offset int
}

func invalid(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCondition, fmt.Sprintf(format, a...))
}

// Parse parses conditions against fields. Blank conditions yield an empty
// Query.
func Parse(conditions string, fields Fields) (*Query, error) {
	q := &Query{}
	if strings.TrimSpace(conditions) == "" {
		return q, nil
	}

	root, err := parseRQL(conditions)
	if err != nil {
		return nil, err
	}

	if root.Node != nil {
		where, err := build(root.Node, fields)
		if err != nil {
			return nil, err
		}
		q.Where = where
	}

	for _, s := range root.Sort() {
		if _, ok := fields.Lookup(s.By); !ok {
			return nil, invalid("unknown sort field %q", s.By)
		}
		q.Sort = append(q.Sort, Sort{Field: s.By, Desc: s.Desc})
	}

	// The parser stores limit(count,start) with the two values swapped:
	// Offset() holds the count and Limit() the start.
	if q.Limit, err = parseCount("limit", root.Offset()); err != nil {
		return nil, err
	}
	if q.Offset, err = parseCount("offset", root.Limit()); err != nil {
		return nil, err
	}

	return q, nil
}

// parseRQL runs the RQL parser, which panics on some truncated or
// mistyped input (eq(, limit(), sort()).
func parseRQL(conditions string) (root *rqlParser.RqlRootNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			root, err = nil, invalid("malformed condition %q: %v", conditions, r)
		}
	}()

	root, err = rqlParser.NewParser().Parse(conditions)
	if err != nil {
		return nil, invalid("%v", err)
	}
	return root, nil
}

func parseCount(name, raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, invalid("bad %s %q", name, raw)
	}
	return n, nil
}

func build(node *rqlParser.RqlNode, fields Fields) (*Expr, error) {
	op := Op(strings.ToLower(node.Op))
	switch op {
	case OpAnd, OpOr:
		if len(node.Args) == 0 {
			return nil, invalid("%s needs at least one argument", op)
		}
		return buildLogical(op, node.Args, fields)
	case OpNot:
		if len(node.Args) != 1 {
			return nil, invalid("not expects one argument, got %d", len(node.Args))
		}
		return buildLogical(op, node.Args, fields)
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpLike:
		if len(node.Args) != 2 {
			return nil, invalid("%s expects two arguments, got %d", op, len(node.Args))
		}
		return buildComparison(op, node.Args, fields)
	case OpIn:
		if len(node.Args) < 2 {
			return nil, invalid("in expects a field and at least one value")
		}
		return buildComparison(op, node.Args, fields)
	default:
		return nil, invalid("unknown operator %q", node.Op)
	}
}

func buildLogical(op Op, args []interface{}, fields Fields) (*Expr, error) {
	e := &Expr{Op: op}
	for _, arg := range args {
		child, ok := arg.(*rqlParser.RqlNode)
		if !ok {
			return nil, invalid("unexpected argument %v to %s", arg, op)
		}
		sub, err := build(child, fields)
		if err != nil {
			return nil, err
		}
		e.Args = append(e.Args, sub)
	}
	return e, nil
}

func buildComparison(op Op, args []interface{}, fields Fields) (*Expr, error) {
	name, ok := args[0].(string)
	if !ok {
		return nil, invalid("field name of %s is not a string", op)
	}
	f, ok := fields.Lookup(name)
	if !ok {
		return nil, invalid("unknown field %q", name)
	}
	if op == OpLike && f.Kind != Text {
		return nil, invalid("like is only supported on text fields, %q is not", name)
	}

	var raw []interface{}
	for _, arg := range args[1:] {
		if list, ok := arg.(*rqlParser.RqlNode); ok && op == OpIn {
			raw = append(raw, list.Args...)
			continue
		}
		raw = append(raw, arg)
	}

	e := &Expr{Op: op, Field: name}
	for _, r := range raw {
		v, err := convert(f, r)
		if err != nil {
			return nil, err
		}
		e.Values = append(e.Values, v)
	}
	if len(e.Values) == 0 {
		return nil, invalid("%s on %q has no values", op, name)
	}
	return e, nil
}

func convert(f Field, arg interface{}) (any, error) {
	var s string
	switch v := arg.(type) {
	case string:
		s = v
	case *rqlParser.RqlNode:
		return nil, invalid("value functions are not supported (%s)", v.Op)
	default:
		s = fmt.Sprint(v)
	}

	switch f.Kind {
	case Int:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, invalid("value %q of %q is not an integer", s, f.Name)
		}
		return n, nil
	case Real:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, invalid("value %q of %q is not a number", s, f.Name)
		}
		return n, nil
	default:
		return s, nil
	}
}

// LikePattern converts an RQL wildcard pattern (*) into a SQL LIKE pattern
// with backslash as the escape character. %, _ and \ in the value match
// literally.
func LikePattern(v any) string {
	var b strings.Builder
	for _, r := range fmt.Sprint(v) {
		switch r {
		case '*':
			b.WriteByte('%')
		case '%', '_', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
