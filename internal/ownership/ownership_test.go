package ownership

import (
	"testing"

	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerCompleteClearsMatchingOwner(t *testing.T) {
	owner := ecs.NewEntityID(4, 1)
	ref := NewOwnerRef(owner)
	require.NoError(t, ref.OwnerComplete(owner))
	assert.True(t, ref.Owner().IsZero())
}

func TestOwnerCompleteRejectsOtherOwner(t *testing.T) {
	owner := ecs.NewEntityID(4, 1)
	ref := NewOwnerRef(owner)

	err := ref.OwnerComplete(ecs.NewEntityID(4, 2))
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, owner, ref.Owner(), "state untouched on rejection")

	require.NoError(t, ref.OwnerComplete(owner))
	assert.ErrorIs(t, ref.OwnerComplete(owner), ErrNotOwner, "already cleared")
}

func TestOwnerCompleteWithoutOwner(t *testing.T) {
	var ref OwnerRef
	assert.ErrorIs(t, ref.OwnerComplete(ecs.None), ErrNotOwner)
}

func TestChildList(t *testing.T) {
	a, b, c := ecs.NewEntityID(1, 0), ecs.NewEntityID(2, 0), ecs.NewEntityID(3, 0)

	var l ChildList
	l.Add(a)
	l.Add(b)
	l.Add(a)
	l.Add(ecs.None)
	l.Add(c)
	assert.Equal(t, []ecs.EntityID{a, b, c}, l.IDs())

	ids := l.IDs()
	assert.True(t, l.Remove(b))
	assert.False(t, l.Remove(b))
	assert.Equal(t, []ecs.EntityID{a, b, c}, ids, "earlier copy is unaffected")
	assert.Equal(t, 2, l.Len())
	assert.False(t, l.Contains(b))
	assert.True(t, l.Contains(c))
}
