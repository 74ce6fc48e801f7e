package cleanup

import (
	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/ownership"
)

// MissionView is the part of a mission a snapshot needs.
type MissionView interface {
	ownership.Node
	Room() ecs.EntityID
}

// ExtractMission snapshots a live mission's owner, children and room.
func ExtractMission(entity ecs.EntityID, m MissionView) MissionCleanup {
	return MissionCleanup{
		Entity:   entity,
		Owner:    m.Owner(),
		Children: copyIDs(m.Children()),
		Room:     m.Room(),
	}
}

// ExtractOperation snapshots a live operation's owner and children.
func ExtractOperation(entity ecs.EntityID, o ownership.Node) OperationCleanup {
	return OperationCleanup{
		Entity:   entity,
		Owner:    o.Owner(),
		Children: copyIDs(o.Children()),
	}
}

func copyIDs(ids []ecs.EntityID) []ecs.EntityID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]ecs.EntityID, len(ids))
	copy(out, ids)
	return out
}
