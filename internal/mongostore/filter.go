package mongostore

import (
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vbonduro/camstock/internal/query"
)

var comparisons = map[query.Op]string{
	query.OpNe: "$ne",
	query.OpLt: "$lt",
	query.OpLe: "$lte",
	query.OpGt: "$gt",
	query.OpGe: "$gte",
}

// Filter renders a condition tree as a bson filter. The entity key field is
// stored as _id.
func Filter(e *query.Expr, key string) bson.D {
	if e == nil {
		return bson.D{}
	}

	switch e.Op {
	case query.OpAnd, query.OpOr:
		parts := make(bson.A, len(e.Args))
		for i, a := range e.Args {
			parts[i] = Filter(a, key)
		}
		return bson.D{{Key: "$" + string(e.Op), Value: parts}}
	case query.OpNot:
		return bson.D{{Key: "$nor", Value: bson.A{Filter(e.Args[0], key)}}}
	case query.OpEq:
		return bson.D{{Key: docField(e.Field, key), Value: e.Values[0]}}
	case query.OpIn:
		return bson.D{{Key: docField(e.Field, key), Value: bson.D{{Key: "$in", Value: bson.A(e.Values)}}}}
	case query.OpLike:
		return bson.D{{Key: docField(e.Field, key), Value: primitive.Regex{Pattern: likeRegex(e.Values[0]), Options: "i"}}}
	default:
		return bson.D{{Key: docField(e.Field, key), Value: bson.D{{Key: comparisons[e.Op], Value: e.Values[0]}}}}
	}
}

// Sort renders sort terms, with the key appended as a tiebreaker.
func Sort(terms []query.Sort, key string) bson.D {
	out := bson.D{}
	keySorted := false
	for _, s := range terms {
		dir := 1
		if s.Desc {
			dir = -1
		}
		out = append(out, bson.E{Key: docField(s.Field, key), Value: dir})
		if s.Field == key {
			keySorted = true
		}
	}
	if !keySorted {
		out = append(out, bson.E{Key: "_id", Value: 1})
	}
	return out
}

func docField(name, key string) string {
	if name == key {
		return "_id"
	}
	return name
}

// likeRegex turns an RQL wildcard pattern into an anchored regular
// expression.
func likeRegex(v any) string {
	parts := strings.Split(fmt.Sprint(v), "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return "^" + strings.Join(parts, ".*") + "$"
}
