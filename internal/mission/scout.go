package mission

import (
	"errors"
	"fmt"

	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/job"
	"github.com/ibexsim/colony/internal/scripting"
	"github.com/ibexsim/colony/internal/spawn"
)

// ScoutTicks is how long an active scout must observe a target.
const ScoutTicks = 100

var errNoHomeRooms = errors.New("scout mission has no home rooms")

// ScoutMission requests one scout from any of several home rooms. All
// home-room requests share a token so only one is produced per tick.
type ScoutMission struct {
	base

	target   string
	homes    []ecs.EntityID
	urgency  float64
	observed int
}

// NewScoutMission creates a scout mission. The first home room is the
// mission's room.
func NewScoutMission(owner ecs.EntityID, target string, homes []ecs.EntityID, urgency float64) *ScoutMission {
	room := ecs.None
	if len(homes) > 0 {
		room = homes[0]
	}
	h := make([]ecs.EntityID, len(homes))
	copy(h, homes)
	return &ScoutMission{base: newBase(owner, room), target: target, homes: h, urgency: urgency}
}

func (m *ScoutMission) isMission() {}

func (m *ScoutMission) Target() string { return m.target }

func (m *ScoutMission) Describe() string {
	return fmt.Sprintf("Scout - Target Room: %s - Observed: %d/%d", m.target, m.observed, ScoutTicks)
}

func (m *ScoutMission) Run(ctx *Context) (Result, error) {
	if len(m.homes) == 0 {
		return Running, errNoHomeRooms
	}
	m.pruneCreeps(ctx.World)

	for _, id := range m.creeps.IDs() {
		if j, ok := ctx.World.Job(id); ok && j.Active() {
			m.observed++
			break
		}
	}
	if m.observed >= ScoutTicks {
		return Success, nil
	}
	if m.creeps.Len() > 0 {
		return Running, nil
	}

	priority := ctx.policy().CalcSpawnPriority(scripting.PriorityContext{
		Mission: "scout",
		Room:    m.target,
		Creeps:  0,
		Desired: 1,
		Urgency: m.urgency,
	})
	body := []spawn.Part{spawn.Move}
	token := ctx.Spawn.Token()
	for _, home := range m.homes {
		if _, ok := ctx.World.Room(home); !ok {
			continue
		}
		req := spawn.NewRequest(
			fmt.Sprintf("Scout - Target Room: %s", m.target),
			body,
			priority,
			spawnCreep(ctx, ctx.Entity, &m.base, job.Scout, home, body, ""),
		).WithToken(token)
		ctx.Spawn.Request(home, req)
	}
	return Running, nil
}
