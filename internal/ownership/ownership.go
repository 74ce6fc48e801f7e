// Package ownership is the owner/children contract shared by every mission,
// operation and job. The cleanup engine relies on nothing else.
package ownership

import (
	"errors"
	"fmt"

	"github.com/ibexsim/colony/internal/core/ecs"
)

// ErrNotOwner is returned by OwnerComplete when the argument is not the
// owner the receiver currently records.
var ErrNotOwner = errors.New("not the recorded owner")

// Owned is implemented by anything that can be owned.
type Owned interface {
	// Owner returns ecs.None when there is no owner.
	Owner() ecs.EntityID
	// OwnerComplete clears the owner reference. It must be called with the
	// exact owner currently recorded.
	OwnerComplete(owner ecs.EntityID) error
}

// Node is implemented by every mission and operation. Non-composites return
// no children and ignore ChildComplete.
type Node interface {
	Owned
	Children() []ecs.EntityID
	ChildComplete(child ecs.EntityID)
}

// OwnerRef is embedded to provide Owned.
type OwnerRef struct {
	owner ecs.EntityID
}

func NewOwnerRef(owner ecs.EntityID) OwnerRef { return OwnerRef{owner: owner} }

func (r *OwnerRef) Owner() ecs.EntityID { return r.owner }

func (r *OwnerRef) OwnerComplete(owner ecs.EntityID) error {
	if r.owner.IsZero() || r.owner != owner {
		return fmt.Errorf("owner complete %s (recorded %s): %w", owner, r.owner, ErrNotOwner)
	}
	r.owner = ecs.None
	return nil
}

// ChildList is an ordered set of child handles.
type ChildList struct {
	ids []ecs.EntityID
}

// Add appends child unless already present.
func (c *ChildList) Add(child ecs.EntityID) {
	if child.IsZero() || c.Contains(child) {
		return
	}
	c.ids = append(c.ids, child)
}

// Remove drops every occurrence of child. Reports whether anything was removed.
func (c *ChildList) Remove(child ecs.EntityID) bool {
	n := 0
	for _, id := range c.ids {
		if id != child {
			c.ids[n] = id
			n++
		}
	}
	removed := n != len(c.ids)
	c.ids = c.ids[:n]
	return removed
}

func (c *ChildList) Contains(child ecs.EntityID) bool {
	for _, id := range c.ids {
		if id == child {
			return true
		}
	}
	return false
}

func (c *ChildList) Len() int { return len(c.ids) }

// IDs returns a copy so callers may hold it across mutations.
func (c *ChildList) IDs() []ecs.EntityID {
	out := make([]ecs.EntityID, len(c.ids))
	copy(out, c.ids)
	return out
}
