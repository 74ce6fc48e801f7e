package spawn

import (
	"math"
	"testing"

	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartCosts(t *testing.T) {
	assert.Equal(t, uint32(200), BodyCost([]Part{Work, Carry, Move}))
	assert.Equal(t, uint32(600), Claim.Cost())
	assert.Zero(t, Part(99).Cost())

	p, err := ParsePart("ranged_attack")
	require.NoError(t, err)
	assert.Equal(t, RangedAttack, p)
	_, err = ParsePart("laser")
	assert.Error(t, err)
}

func TestCreateBody(t *testing.T) {
	body, err := CreateBody(BodyDefinition{
		MaximumEnergy: 550,
		PreBody:       []Part{Tough},
		RepeatBody:    []Part{Work, Carry, Move},
		PostBody:      []Part{Move},
	})
	require.NoError(t, err)
	// 550 - 60 fixed = 490 → two segments
	assert.Equal(t, []Part{Tough, Work, Carry, Move, Work, Carry, Move, Move}, body)

	body, err = CreateBody(BodyDefinition{
		MaximumEnergy: 5000,
		MaximumRepeat: 3,
		RepeatBody:    []Part{Move},
	})
	require.NoError(t, err)
	assert.Len(t, body, 3)
}

func TestCreateBodyTooExpensive(t *testing.T) {
	_, err := CreateBody(BodyDefinition{MaximumEnergy: 100, PreBody: []Part{Claim}})
	assert.ErrorIs(t, err, ErrBodyTooExpensive)

	_, err = CreateBody(BodyDefinition{MaximumEnergy: 150, MinimumRepeat: 1, RepeatBody: []Part{Work, Carry, Move}})
	assert.ErrorIs(t, err, ErrBodyTooExpensive)
}

func describe(list []*Request) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.Description()
	}
	return out
}

func TestQueueKeepsPriorityOrderStableOnTies(t *testing.T) {
	q := NewQueue()
	room := ecs.NewEntityID(1, 0)
	body := []Part{Move}

	q.Request(room, NewRequest("low", body, PriorityLow, nil))
	q.Request(room, NewRequest("high-1", body, PriorityHigh, nil))
	q.Request(room, NewRequest("medium", body, PriorityMedium, nil))
	q.Request(room, NewRequest("high-2", body, PriorityHigh, nil))
	q.Request(room, NewRequest("critical", body, PriorityCritical, nil))
	q.Request(room, NewRequest("low-2", body, PriorityLow, nil))

	assert.Equal(t, []string{"critical", "high-1", "high-2", "medium", "low", "low-2"}, describe(q.Requests(room)))
	assert.Equal(t, 6, q.Len())
}

func TestQueueNaNPrioritySortsAsNone(t *testing.T) {
	q := NewQueue()
	room := ecs.NewEntityID(1, 0)
	body := []Part{Move}

	q.Request(room, NewRequest("nan", body, float32(math.NaN()), nil))
	q.Request(room, NewRequest("low", body, PriorityLow, nil))
	q.Request(room, NewRequest("critical", body, PriorityCritical, nil))

	assert.Equal(t, []string{"critical", "low", "nan"}, describe(q.Requests(room)))
	assert.Equal(t, PriorityNone, q.Requests(room)[2].Priority())
}

func TestQueueRoomsInFirstSeenOrder(t *testing.T) {
	q := NewQueue()
	a, b, c := ecs.NewEntityID(3, 0), ecs.NewEntityID(1, 0), ecs.NewEntityID(2, 0)
	q.Request(a, NewRequest("x", nil, PriorityLow, nil))
	q.RequestRenew(b, RenewRequest{Creep: ecs.NewEntityID(9, 0)})
	q.Request(c, NewRequest("y", nil, PriorityLow, nil))
	q.Request(b, NewRequest("z", nil, PriorityLow, nil))

	assert.Equal(t, []ecs.EntityID{a, b, c}, q.Rooms())
	assert.Len(t, q.Renews(b), 1)
}

func TestQueueTokensAndClear(t *testing.T) {
	q := NewQueue()
	room := ecs.NewEntityID(1, 0)
	t0, t1 := q.Token(), q.Token()
	assert.NotEqual(t, t0, t1)

	q.Request(room, NewRequest("a", []Part{Move}, PriorityLow, nil).WithToken(t1))
	q.Request(room, NewRequest("b", []Part{Move}, PriorityLow, nil))
	q.RequestRenew(room, RenewRequest{})

	snap := q.Snapshot()
	assert.Equal(t, uint32(2), snap.Total)
	assert.Equal(t, uint32(2), snap.PerRoom[room])

	q.Clear()
	assert.Zero(t, q.Len())
	assert.Empty(t, q.Rooms())
	assert.Empty(t, q.Renews(room))
	assert.Equal(t, t0, q.Token(), "token counter resets")
}

func TestRequest(t *testing.T) {
	body := []Part{Work, Move}
	var got []string
	r := NewRequest("harvester", body, PriorityHigh, func(name string) { got = append(got, name) })
	body[0] = Claim

	assert.Equal(t, []Part{Work, Move}, r.Body(), "body is copied")
	assert.Equal(t, uint32(150), r.Cost())
	_, ok := r.Token()
	assert.False(t, ok)

	r.WithToken(7)
	tok, ok := r.Token()
	assert.True(t, ok)
	assert.Equal(t, Token(7), tok)

	r.Complete("12-0")
	assert.Equal(t, []string{"12-0"}, got)

	NewRequest("no callback", nil, 0, nil).Complete("x")
}

func TestRenewCost(t *testing.T) {
	assert.Equal(t, uint32(80), RenewRequest{BodyCost: 200}.RenewCost())
}
