package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lensFields = Fields{
	{Name: "id", Kind: Int},
	{Name: "brand", Kind: Text},
	{Name: "model", Kind: Text},
	{Name: "weight", Kind: Real},
}

func TestParseEmpty(t *testing.T) {
	q, err := Parse("   ", lensFields)
	require.NoError(t, err)
	assert.Nil(t, q.Where)
	assert.Empty(t, q.Sort)
	assert.Zero(t, q.Limit)
}

func TestParseEq(t *testing.T) {
	q, err := Parse("eq(brand,Canon)", lensFields)
	require.NoError(t, err)
	require.NotNil(t, q.Where)
	assert.Equal(t, OpEq, q.Where.Op)
	assert.Equal(t, "brand", q.Where.Field)
	assert.Equal(t, []any{"Canon"}, q.Where.Values)
}

func TestParseConvertsValues(t *testing.T) {
	q, err := Parse("eq(id,12)", lensFields)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(12)}, q.Where.Values)

	q, err = Parse("ge(weight,190.5)", lensFields)
	require.NoError(t, err)
	assert.Equal(t, OpGe, q.Where.Op)
	assert.Equal(t, []any{190.5}, q.Where.Values)
}

func TestParseTopLevelTermsAreAnded(t *testing.T) {
	q, err := Parse("eq(brand,Canon),lt(weight,500)", lensFields)
	require.NoError(t, err)
	require.NotNil(t, q.Where)
	assert.Equal(t, OpAnd, q.Where.Op)
	require.Len(t, q.Where.Args, 2)
	assert.Equal(t, OpEq, q.Where.Args[0].Op)
	assert.Equal(t, OpLt, q.Where.Args[1].Op)
}

func TestParseNested(t *testing.T) {
	q, err := Parse("or(eq(brand,Canon),not(eq(brand,Sony)))", lensFields)
	require.NoError(t, err)
	assert.Equal(t, OpOr, q.Where.Op)
	require.Len(t, q.Where.Args, 2)
	assert.Equal(t, OpNot, q.Where.Args[1].Op)
	assert.Equal(t, "brand", q.Where.Args[1].Args[0].Field)
}

func TestParseSort(t *testing.T) {
	q, err := Parse("eq(brand,Canon),sort(-weight)", lensFields)
	require.NoError(t, err)
	require.Len(t, q.Sort, 1)
	assert.Equal(t, Sort{Field: "weight", Desc: true}, q.Sort[0])
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":    "eq(color,red)",
		"unknown operator": "near(brand,Canon)",
		"bad integer":      "eq(id,abc)",
		"bad real":         "gt(weight,heavy)",
		"like on number":   "like(weight,1*)",
		"wrong arity":      "eq(brand)",
		"unknown sort":     "sort(+color)",
		"unclosed call":    "eq(",
		"unclosed args":    "eq(brand,Canon",
		"empty limit":      "limit()",
		"empty sort":       "sort()",
		"empty and":        "and()",
		"nested limit":     "limit(eq(id,1))",
	}
	for name, cond := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(cond, lensFields)
			assert.ErrorIs(t, err, ErrInvalidCondition)
		})
	}
}

func TestParseLimit(t *testing.T) {
	q, err := Parse("limit(2)", lensFields)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Limit)
	assert.Zero(t, q.Offset)

	q, err = Parse("eq(brand,Canon),limit(10,5)", lensFields)
	require.NoError(t, err)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 5, q.Offset)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%EF%", LikePattern("*EF*"))
	assert.Equal(t, "Canon", LikePattern("Canon"))
	assert.Equal(t, `EF\_50`, LikePattern("EF_50"))
	assert.Equal(t, `100\%%`, LikePattern("100%*"))
	assert.Equal(t, `a\\b`, LikePattern(`a\b`))
}
