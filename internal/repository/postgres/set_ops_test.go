package postgres

import (
	"strings"
	"testing"

	"match-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSetOpsQuery(t *testing.T) {
	query, args, err := buildSetOpsQuery("p1", "",
		[]domain.SetOp{
			{Set: domain.SetLikes, Add: []string{"p2"}},
			{Set: domain.SetDislikes, Remove: []string{"p2"}},
		})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "UPDATE profiles SET \"likes\" = "))
	assert.Contains(t, query, "\"dislikes\" = ARRAY(SELECT m FROM unnest(\"dislikes\")")
	assert.Contains(t, query, "updated_at = now() WHERE id = $1 RETURNING id")
	assert.Equal(t, []any{"p1", []string{}, []string{"p2"}, []string{"p2"}, []string{}}, args)
}

func TestBuildSetOpsQueryMergesSameSet(t *testing.T) {
	query, args, err := buildSetOpsQuery("p1", "",
		[]domain.SetOp{
			{Set: domain.SetLikes, Add: []string{"a", "b"}},
			{Set: domain.SetLikes, Remove: []string{"b", "c"}, Add: []string{"d"}},
		})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(query, "\"likes\" = "))
	assert.Equal(t, []any{"p1", []string{"b", "c"}, []string{"a", "d"}}, args)
}

func TestBuildSetOpsQueryRejectsUnknownSet(t *testing.T) {
	_, _, err := buildSetOpsQuery("p1", "", []domain.SetOp{{Set: "owner_id; DROP TABLE profiles", Add: []string{"x"}}})
	assert.Error(t, err)

	_, _, err = buildSetOpsQuery("p1", "", nil)
	assert.Error(t, err)
}

func TestBuildSetOpsQueryUnlessMatchedGuardsTheRow(t *testing.T) {
	query, args, err := buildSetOpsQuery("p1", "p2",
		[]domain.SetOp{{Set: domain.SetDislikes, Add: []string{"p2"}}})
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE id = $1 AND NOT (matched @> ARRAY[$4::text]) RETURNING id")
	assert.Equal(t, []any{"p1", []string{}, []string{"p2"}, "p2"}, args)
}
