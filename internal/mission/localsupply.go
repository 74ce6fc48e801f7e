package mission

import (
	"fmt"

	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/job"
	"github.com/ibexsim/colony/internal/scripting"
	"github.com/ibexsim/colony/internal/spawn"
)

const (
	defaultHarvesters = 2
	bootstrapEnergy   = 200 // smallest harvester (work+carry+move)
	renewBelowTTL     = 300
)

var harvesterSegment = []spawn.Part{spawn.Work, spawn.Carry, spawn.Move}

// LocalSupplyMission keeps a room's harvesters alive.
type LocalSupplyMission struct {
	base
}

func NewLocalSupplyMission(owner, room ecs.EntityID) *LocalSupplyMission {
	return &LocalSupplyMission{base: newBase(owner, room)}
}

func (m *LocalSupplyMission) isMission() {}

func (m *LocalSupplyMission) Describe() string {
	return fmt.Sprintf("Local Supply - Harvesters: %d", m.creeps.Len())
}

func (m *LocalSupplyMission) Run(ctx *Context) (Result, error) {
	room, ok := ctx.World.Room(m.room)
	if !ok {
		return Running, fmt.Errorf("local supply %s: room %s gone", ctx.Entity, m.room)
	}
	m.pruneCreeps(ctx.World)

	desired := ctx.policy().DesiredHarvesters(int(room.EnergyCapacity), defaultHarvesters)
	count := m.creeps.Len()

	dock := ""
	if spawners := room.Spawners(); len(spawners) > 0 {
		dock = spawners[0].Name()
	}

	if count < desired {
		// With nothing alive, size to what the room holds right now so the
		// request is not fenced behind a full refill.
		budget := room.EnergyCapacity
		if count == 0 {
			budget = max(room.EnergyAvailable, bootstrapEnergy)
		}
		body, err := spawn.CreateBody(spawn.BodyDefinition{
			MaximumEnergy: budget,
			MinimumRepeat: 1,
			MaximumRepeat: 5,
			RepeatBody:    harvesterSegment,
		})
		if err == nil {
			priority := ctx.policy().CalcSpawnPriority(scripting.PriorityContext{
				Mission: "local_supply",
				Room:    room.Name,
				Creeps:  count,
				Desired: desired,
			})
			req := spawn.NewRequest(
				fmt.Sprintf("Harvester - Room: %s", room.Name),
				body,
				priority,
				spawnCreep(ctx, ctx.Entity, &m.base, job.Harvest, m.room, body, dock),
			)
			ctx.Spawn.Request(m.room, req)
		}
	}

	for _, id := range m.creeps.IDs() {
		j, ok := ctx.World.Job(id)
		if !ok || !j.Active() || j.Dock == "" || j.TicksToLive >= renewBelowTTL {
			continue
		}
		ctx.Spawn.RequestRenew(m.room, spawn.RenewRequest{
			Creep:       id,
			TicksToLive: j.TicksToLive,
			BodyCost:    j.BodyCost(),
			Facility:    j.Dock,
		})
	}

	return Running, nil
}
