package operation_test

import (
	"testing"

	"github.com/ibexsim/colony/internal/cleanup"
	"github.com/ibexsim/colony/internal/core/command"
	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/mission"
	"github.com/ibexsim/colony/internal/operation"
	"github.com/ibexsim/colony/internal/region"
	"github.com/ibexsim/colony/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newContext(ws *world.State, entity ecs.EntityID, commands *command.Queue[mission.Host]) *operation.Context {
	return &operation.Context{
		Entity:   entity,
		Tick:     ws.Tick(),
		World:    ws,
		Cleanup:  cleanup.NewQueue(),
		Commands: commands,
		Log:      zap.NewNop(),
	}
}

func TestColonyOperationCreatesOneMissionPerRoom(t *testing.T) {
	ws := world.NewState(3)
	a := ws.CreateRoom(region.NewRoom("W1N1", 300))
	b := ws.CreateRoom(region.NewRoom("W2N1", 300))
	op := operation.NewColonyOperation([]ecs.EntityID{a, b})
	id := ws.CreateOperation(op)
	commands := command.NewQueue[mission.Host]()

	_, err := op.Run(newContext(ws, id, commands))
	require.NoError(t, err)
	_, err = op.Run(newContext(ws, id, commands))
	require.NoError(t, err)
	assert.Equal(t, 2, commands.Flush(ws))

	ma, ok := op.Mission(a)
	require.True(t, ok)
	mb, ok := op.Mission(b)
	require.True(t, ok)
	assert.Equal(t, []ecs.EntityID{ma, mb}, op.Children())

	m, ok := ws.Mission(ma)
	require.True(t, ok)
	assert.Equal(t, id, m.Owner())
	assert.Equal(t, a, m.Room())

	op.ChildComplete(ma)
	_, ok = op.Mission(a)
	assert.False(t, ok)
	assert.Equal(t, []ecs.EntityID{mb}, op.Children())

	// a lost mission is replaced on the next run
	_, err = op.Run(newContext(ws, id, commands))
	require.NoError(t, err)
	assert.Equal(t, 1, commands.Flush(ws))
	_, ok = op.Mission(a)
	assert.True(t, ok)
}

func TestColonyOperationFailsWithoutRooms(t *testing.T) {
	ws := world.NewState(3)
	a := ws.CreateRoom(region.NewRoom("W1N1", 300))
	op := operation.NewColonyOperation([]ecs.EntityID{a})
	id := ws.CreateOperation(op)
	require.NoError(t, ws.DeleteEntity(a))

	_, err := op.Run(newContext(ws, id, command.NewQueue[mission.Host]()))
	assert.Error(t, err)
}

func TestOperationDeletedBeforeCommandCreatesNothing(t *testing.T) {
	ws := world.NewState(3)
	a := ws.CreateRoom(region.NewRoom("W1N1", 300))
	op := operation.NewColonyOperation([]ecs.EntityID{a})
	id := ws.CreateOperation(op)
	commands := command.NewQueue[mission.Host]()

	_, err := op.Run(newContext(ws, id, commands))
	require.NoError(t, err)
	require.NoError(t, ws.DeleteEntity(id))
	commands.Flush(ws)

	assert.Zero(t, ws.Missions().Len())
}

func TestScoutOperationCompletesWhenAllTargetsDone(t *testing.T) {
	ws := world.NewState(3)
	home := ws.CreateRoom(region.NewRoom("W1N1", 300))
	op := operation.NewScoutOperation([]operation.ScoutTarget{
		{Room: "W2N1", Homes: []ecs.EntityID{home}, Urgency: 0.5},
		{Room: "W3N1", Homes: []ecs.EntityID{home}, Urgency: 0.5},
	})
	id := ws.CreateOperation(op)
	commands := command.NewQueue[mission.Host]()

	res, err := op.Run(newContext(ws, id, commands))
	require.NoError(t, err)
	assert.Equal(t, operation.Running, res)
	assert.Equal(t, 2, commands.Flush(ws))

	children := op.Children()
	require.Len(t, children, 2)
	for _, child := range children {
		op.ChildComplete(child)
	}
	assert.True(t, op.Done("W2N1"))
	assert.True(t, op.Done("W3N1"))

	res, err = op.Run(newContext(ws, id, commands))
	require.NoError(t, err)
	assert.Equal(t, operation.Success, res)
	assert.Zero(t, commands.Len())
}

func TestAbortSnapshotsChildren(t *testing.T) {
	ws := world.NewState(3)
	a := ws.CreateRoom(region.NewRoom("W1N1", 300))
	op := operation.NewColonyOperation([]ecs.EntityID{a})
	id := ws.CreateOperation(op)
	commands := command.NewQueue[mission.Host]()
	_, err := op.Run(newContext(ws, id, commands))
	require.NoError(t, err)
	commands.Flush(ws)

	q := cleanup.NewQueue()
	operation.Abort(q, id, op)
	entries := q.Drain()
	require.Len(t, entries, 1)
	oc := entries[0].(cleanup.OperationCleanup)
	assert.Equal(t, id, oc.Entity)
	assert.Equal(t, op.Children(), oc.Children)
	assert.True(t, oc.Owner.IsZero())
}
