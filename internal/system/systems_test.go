package system

import (
	"testing"

	"github.com/ibexsim/colony/internal/cleanup"
	"github.com/ibexsim/colony/internal/core/command"
	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/core/event"
	"github.com/ibexsim/colony/internal/job"
	"github.com/ibexsim/colony/internal/mission"
	"github.com/ibexsim/colony/internal/operation"
	"github.com/ibexsim/colony/internal/region"
	"github.com/ibexsim/colony/internal/spawn"
	"github.com/ibexsim/colony/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEventDispatchSystem(t *testing.T) {
	bus := event.NewBus()
	var got int
	event.Subscribe(bus, func(e event.UnitSpawned) { got++ })
	event.Emit(bus, event.UnitSpawned{Name: "1-0"})

	sys := NewEventDispatchSystem(bus)
	sys.Update(0)
	assert.Equal(t, 1, got)
	sys.Update(0)
	assert.Equal(t, 1, got)
}

func TestRegionUpkeepSystem(t *testing.T) {
	ws := world.NewState(1)
	r := region.NewRoom("W1N1", 300)
	r.Income = 10
	ws.CreateRoom(r)

	NewRegionUpkeepSystem(ws).Update(0)
	assert.Equal(t, uint32(10), r.EnergyAvailable)
}

func TestCreepLifetimeQueuesExpiredAndOrphanedUnits(t *testing.T) {
	ws := world.NewState(1)
	room := ws.CreateRoom(region.NewRoom("W1N1", 300))
	owner := ws.CreateMission(mission.NewLocalSupplyMission(ecs.None, room))
	body := []spawn.Part{spawn.Move}

	healthy := ws.CreateCreep("healthy", job.New(job.Harvest, owner, room, "healthy", body, 0))
	expired := job.New(job.Harvest, owner, room, "expired", body, 0)
	expired.TicksToLive = 0
	expiredID := ws.CreateCreep(expired.Name, expired)
	orphanID := ws.CreateCreep("orphan", job.New(job.Harvest, ecs.None, room, "orphan", body, 0))
	deadOwner := ws.CreateMission(mission.NewLocalSupplyMission(ecs.None, room))
	strandedID := ws.CreateCreep("stranded", job.New(job.Harvest, deadOwner, room, "stranded", body, 0))
	require.NoError(t, ws.DeleteEntity(deadOwner))

	q := cleanup.NewQueue()
	NewCreepLifetimeSystem(ws, q, zap.NewNop()).Update(0)

	var queued []ecs.EntityID
	for _, e := range q.Drain() {
		queued = append(queued, e.Target())
	}
	assert.ElementsMatch(t, []ecs.EntityID{expiredID, orphanID, strandedID}, queued)
	assert.NotContains(t, queued, healthy)
}

func TestRunJobSystemDepositsHarvest(t *testing.T) {
	ws := world.NewState(1)
	r := region.NewRoom("W1N1", 300)
	room := ws.CreateRoom(r)
	j := job.New(job.Harvest, ecs.None, room, "h", []spawn.Part{spawn.Work, spawn.Work, spawn.Move}, 2)
	ws.CreateCreep(j.Name, j)

	sys := NewRunJobSystem(ws)
	sys.Update(0)
	assert.Zero(t, r.EnergyAvailable, "still in production")
	sys.Update(0)
	assert.Equal(t, uint32(4), r.EnergyAvailable)
	assert.Equal(t, uint32(job.CreepLifeTime), j.TicksToLive, "life starts once active")
}

func TestRunMissionSystemAbortsFailedMissions(t *testing.T) {
	ws := world.NewState(1)
	room := ws.CreateRoom(region.NewRoom("W1N1", 300))
	id := ws.CreateMission(mission.NewLocalSupplyMission(ecs.None, room))
	require.NoError(t, ws.DeleteEntity(room))

	cq := cleanup.NewQueue()
	NewRunMissionSystem(ws, spawn.NewQueue(), cq, command.NewQueue[mission.Host](), nil, 3, zap.NewNop()).Update(0)

	entries := cq.Drain()
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].Target())
}

func TestRunOperationSystemAbortsFinishedOperations(t *testing.T) {
	ws := world.NewState(1)
	id := ws.CreateOperation(operation.NewScoutOperation(nil))

	cq := cleanup.NewQueue()
	NewRunOperationSystem(ws, cq, command.NewQueue[mission.Host](), zap.NewNop()).Update(0)

	entries := cq.Drain()
	require.Len(t, entries, 1)
	assert.IsType(t, cleanup.OperationCleanup{}, entries[0])
	assert.Equal(t, id, entries[0].Target())
}

func TestCommandSystemFlushesIntoWorld(t *testing.T) {
	ws := world.NewState(1)
	room := ws.CreateRoom(region.NewRoom("W1N1", 300))
	commands := command.NewQueue[mission.Host]()
	commands.Push(func(h mission.Host) {
		h.CreateMission(mission.NewLocalSupplyMission(ecs.None, room))
	})

	NewCommandSystem(ws, commands, zap.NewNop()).Update(0)
	assert.Equal(t, 1, ws.Missions().Len())
	assert.Zero(t, commands.Len())
}
