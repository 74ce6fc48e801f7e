package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseEvents     Phase = iota // 0: dispatch last tick's events
	PhasePrepass                 // 1: region upkeep, creep lifetimes, cleanup prepass
	PhaseOperations              // 2: top-level strategies
	PhaseMissions                // 3: persistent goals
	PhaseJobs                    // 4: unit behavior
	PhaseCleanup                 // 5: process the entity cleanup queue
	PhaseQueues                  // 6: spawn queue
	PhaseCommands                // 7: apply deferred commands
	PhasePersist                 // 8: stats flush
)

var phaseNames = [...]string{"events", "prepass", "operations", "missions", "jobs", "cleanup", "queues", "commands", "persist"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
