package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyIsMembershipBased(t *testing.T) {
	p := &Profile{}
	p.Normalize()

	p.Apply(SetOp{Set: SetLikes, Add: []string{"b", "c"}})
	p.Apply(SetOp{Set: SetLikes, Add: []string{"b"}})
	assert.Equal(t, []string{"b", "c"}, p.Likes)

	p.Apply(SetOp{Set: SetLikes, Remove: []string{"b", "missing"}})
	assert.Equal(t, []string{"c"}, p.Likes)
}

func TestApplyRemovesBeforeAdding(t *testing.T) {
	p := &Profile{Matched: []string{"a"}}
	p.Apply(SetOp{Set: SetMatched, Add: []string{"a"}, Remove: []string{"a"}})
	assert.Equal(t, []string{"a"}, p.Matched)
}

func TestApplyIgnoresUnknownSet(t *testing.T) {
	p := &Profile{Likes: []string{"a"}}
	p.Apply(SetOp{Set: RelationSet("friends"), Add: []string{"b"}})
	assert.Equal(t, []string{"a"}, p.Likes)
}

func TestCloneIsDeep(t *testing.T) {
	tag := "hiking"
	p := &Profile{ID: "a", Tag: &tag, Likes: []string{"b"}}
	c := p.Clone()

	c.Likes[0] = "z"
	*c.Tag = "sailing"

	assert.Equal(t, []string{"b"}, p.Likes)
	assert.Equal(t, "hiking", *p.Tag)
}

func TestNormalizeFillsEmptySets(t *testing.T) {
	p := &Profile{}
	p.Normalize()
	for _, s := range RelationSets {
		assert.NotNil(t, p.Set(s), s)
	}
	assert.True(t, SetLikedBy.Valid())
	assert.False(t, RelationSet("friends").Valid())
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction(" Like ")
	require.NoError(t, err)
	assert.Equal(t, ActionLike, a)

	a, err = ParseAction("DISLIKE")
	require.NoError(t, err)
	assert.Equal(t, ActionDislike, a)

	_, err = ParseAction("superlike")
	assert.ErrorIs(t, err, ErrInvalidAction)
}
