// Package job is the behavior state attached to a produced unit.
package job

import (
	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/ownership"
	"github.com/ibexsim/colony/internal/spawn"
)

const (
	CreepLifeTime   = 1500 // ticks a fresh unit lives
	renewMultiplier = 600  // renew adds renewMultiplier/len(body) ticks
	harvestPerWork  = 2    // energy deposited per work part per tick
)

// Kind selects the behavior a job runs.
type Kind uint8

const (
	Harvest Kind = iota
	Upgrade
	Scout
)

func (k Kind) String() string {
	switch k {
	case Harvest:
		return "harvest"
	case Upgrade:
		return "upgrade"
	case Scout:
		return "scout"
	}
	return "unknown"
}

// Job is the job component. Its owner is the mission that requested it.
type Job struct {
	ownership.OwnerRef

	Kind        Kind
	Name        string
	HomeRoom    ecs.EntityID
	Body        []spawn.Part
	SpawnTicks  int    // ticks until the unit leaves the facility
	TicksToLive uint32 // counts down once active
	Dock        string // facility the unit idles next to, if any
}

func New(kind Kind, owner, home ecs.EntityID, name string, body []spawn.Part, spawnTicks int) *Job {
	return &Job{
		OwnerRef:    ownership.NewOwnerRef(owner),
		Kind:        kind,
		Name:        name,
		HomeRoom:    home,
		Body:        body,
		SpawnTicks:  spawnTicks,
		TicksToLive: CreepLifeTime,
	}
}

func (j *Job) Active() bool { return j.SpawnTicks == 0 }

// Expired reports whether the unit's life has ended.
func (j *Job) Expired() bool { return j.Active() && j.TicksToLive == 0 }

// Orphaned reports whether the owning mission has gone away.
func (j *Job) Orphaned() bool { return j.Owner().IsZero() }

// Age advances the unit one tick.
func (j *Job) Age() {
	if j.SpawnTicks > 0 {
		j.SpawnTicks--
		return
	}
	if j.TicksToLive > 0 {
		j.TicksToLive--
	}
}

// Output is the energy an active harvester deposits per tick.
func (j *Job) Output() uint32 {
	if j.Kind != Harvest || !j.Active() {
		return 0
	}
	var n uint32
	for _, p := range j.Body {
		if p == spawn.Work {
			n++
		}
	}
	return n * harvestPerWork
}

func (j *Job) BodyCost() uint32 { return spawn.BodyCost(j.Body) }

// Extend applies one renew.
func (j *Job) Extend() {
	if len(j.Body) == 0 {
		return
	}
	j.TicksToLive = min(j.TicksToLive+uint32(renewMultiplier/len(j.Body)), CreepLifeTime)
}
