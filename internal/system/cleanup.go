package system

import (
	"time"

	"github.com/ibexsim/colony/internal/cleanup"
	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/core/event"
	coresys "github.com/ibexsim/colony/internal/core/system"
	"github.com/ibexsim/colony/internal/mission"
	"github.com/ibexsim/colony/internal/world"
	"go.uber.org/zap"
)

// DefaultMaxCascadeIterations bounds cascade expansion per pass.
const DefaultMaxCascadeIterations = 20

// EntityCleanupSystem drains the cleanup queue and performs every deletion
// with owner/child notification. Registered twice: once in the prepass so
// missions see accurate unit counts, and once after jobs (Phase 5).
type EntityCleanupSystem struct {
	phase         coresys.Phase
	pass          string
	world         *world.State
	queue         *cleanup.Queue
	bus           *event.Bus
	log           *zap.Logger
	maxIterations int
}

func NewEntityCleanupSystem(phase coresys.Phase, pass string, ws *world.State, queue *cleanup.Queue, bus *event.Bus, log *zap.Logger, maxIterations int) *EntityCleanupSystem {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxCascadeIterations
	}
	return &EntityCleanupSystem{
		phase:         phase,
		pass:          pass,
		world:         ws,
		queue:         queue,
		bus:           bus,
		log:           log,
		maxIterations: maxIterations,
	}
}

func (s *EntityCleanupSystem) Phase() coresys.Phase { return s.phase }

func (s *EntityCleanupSystem) Update(_ time.Duration) {
	report := s.Process()
	if !report.Empty() && s.bus != nil {
		event.Emit(s.bus, event.CleanupProcessed{Tick: s.world.Tick(), Pass: s.pass, Report: report})
	}
}

// Process runs one full cleanup pass and leaves the queue empty.
func (s *EntityCleanupSystem) Process() cleanup.Report {
	var report cleanup.Report
	if s.queue.IsEmpty() {
		return report
	}

	// ── Drain & classify ─────────────────────────────────────────
	var (
		creeps     []cleanup.CreepCleanup
		missions   []cleanup.MissionCleanup
		operations []cleanup.OperationCleanup
	)
	for _, entry := range s.queue.Drain() {
		switch e := entry.(type) {
		case cleanup.CreepCleanup:
			creeps = append(creeps, e)
		case cleanup.MissionCleanup:
			missions = append(missions, e)
		case cleanup.OperationCleanup:
			operations = append(operations, e)
		}
	}

	s.deleteCreeps(creeps, &report)

	missions = s.expandCascades(missions, &report)
	missions = dedupMissions(missions)
	operations = dedupOperations(operations)
	missions = orderChildrenFirst(missions)

	for _, mc := range missions {
		s.deleteMission(mc, &report)
	}
	for _, oc := range operations {
		s.deleteOperation(oc, &report)
	}
	return report
}

// deleteCreeps notifies every live mission of every dead unit before any
// unit entity is removed.
func (s *EntityCleanupSystem) deleteCreeps(creeps []cleanup.CreepCleanup, report *cleanup.Report) {
	if len(creeps) == 0 {
		return
	}
	for _, c := range creeps {
		s.world.Missions().Each(func(_ ecs.EntityID, m mission.Mission) {
			m.RemoveCreep(c.Entity)
		})
	}
	for _, c := range creeps {
		if err := s.world.DeleteEntityOf(c.Entity, world.KindCreep); err != nil {
			s.logDeleteFailure("creep", c.Entity, err, report)
			continue
		}
		report.Creeps++
	}
}

// expandCascades follows each snapshot's children and queues a fresh
// snapshot for every child that is itself a live mission. Each round only
// expands the previous round's new entries. Stops when a round adds
// nothing or at maxIterations, in which case the last round is kept and
// deeper descendants are left for a later tick.
func (s *EntityCleanupSystem) expandCascades(missions []cleanup.MissionCleanup, report *cleanup.Report) []cleanup.MissionCleanup {
	frontier := missions
	for iteration := 1; ; iteration++ {
		var next []cleanup.MissionCleanup
		for _, mc := range frontier {
			for _, child := range mc.Children {
				if !s.world.Alive(child) {
					continue
				}
				if m, ok := s.world.Mission(child); ok {
					next = append(next, cleanup.ExtractMission(child, m))
				}
			}
		}
		if len(next) == 0 {
			return missions
		}
		report.CascadeIterations = iteration
		missions = append(missions, next...)
		if iteration >= s.maxIterations {
			report.CapReached = true
			s.log.Error("cleanup cascade iteration limit reached",
				zap.String("pass", s.pass),
				zap.Int("limit", s.maxIterations),
				zap.Int("pending", len(next)))
			return missions
		}
		frontier = next
	}
}

// dedupMissions keeps the first entry per entity.
func dedupMissions(in []cleanup.MissionCleanup) []cleanup.MissionCleanup {
	seen := make(map[ecs.EntityID]struct{}, len(in))
	out := in[:0]
	for _, mc := range in {
		if _, ok := seen[mc.Entity]; ok {
			continue
		}
		seen[mc.Entity] = struct{}{}
		out = append(out, mc)
	}
	return out
}

func dedupOperations(in []cleanup.OperationCleanup) []cleanup.OperationCleanup {
	seen := make(map[ecs.EntityID]struct{}, len(in))
	out := in[:0]
	for _, oc := range in {
		if _, ok := seen[oc.Entity]; ok {
			continue
		}
		seen[oc.Entity] = struct{}{}
		out = append(out, oc)
	}
	return out
}

// orderChildrenFirst moves entries whose owner is also being deleted ahead
// of the rest. One level only: relative order among the children-first
// group follows queue order.
func orderChildrenFirst(in []cleanup.MissionCleanup) []cleanup.MissionCleanup {
	set := make(map[ecs.EntityID]struct{}, len(in))
	for _, mc := range in {
		set[mc.Entity] = struct{}{}
	}
	children := make([]cleanup.MissionCleanup, 0, len(in))
	parents := make([]cleanup.MissionCleanup, 0, len(in))
	for _, mc := range in {
		if _, ok := set[mc.Owner]; ok && !mc.Owner.IsZero() {
			children = append(children, mc)
		} else {
			parents = append(parents, mc)
		}
	}
	return append(children, parents...)
}

func (s *EntityCleanupSystem) deleteMission(mc cleanup.MissionCleanup, report *cleanup.Report) {
	if !s.world.Alive(mc.Entity) {
		report.Skipped++
		return
	}
	if !s.world.Is(mc.Entity, world.KindMission) {
		s.logDeleteFailure("mission", mc.Entity, s.world.DeleteEntityOf(mc.Entity, world.KindMission), report)
		return
	}
	if room, ok := s.world.Room(mc.Room); ok {
		room.RemoveMission(mc.Entity)
	}
	s.notifyChildren(mc.Entity, mc.Children, report)
	s.notifyOwner(mc.Entity, mc.Owner)
	if err := s.world.DeleteEntityOf(mc.Entity, world.KindMission); err != nil {
		s.logDeleteFailure("mission", mc.Entity, err, report)
		return
	}
	report.Missions++
	s.log.Debug("mission deleted", zap.String("pass", s.pass), zap.Stringer("mission", mc.Entity))
}

func (s *EntityCleanupSystem) deleteOperation(oc cleanup.OperationCleanup, report *cleanup.Report) {
	if !s.world.Alive(oc.Entity) {
		report.Skipped++
		return
	}
	if !s.world.Is(oc.Entity, world.KindOperation) {
		s.logDeleteFailure("operation", oc.Entity, s.world.DeleteEntityOf(oc.Entity, world.KindOperation), report)
		return
	}
	s.notifyChildren(oc.Entity, oc.Children, report)
	s.notifyOwner(oc.Entity, oc.Owner)
	if err := s.world.DeleteEntityOf(oc.Entity, world.KindOperation); err != nil {
		s.logDeleteFailure("operation", oc.Entity, err, report)
		return
	}
	report.Operations++
	s.log.Debug("operation deleted", zap.String("pass", s.pass), zap.Stringer("operation", oc.Entity))
}

func (s *EntityCleanupSystem) notifyChildren(entity ecs.EntityID, children []ecs.EntityID, report *cleanup.Report) {
	for _, child := range children {
		if !s.world.Alive(child) {
			continue
		}
		owned, ok := s.world.Owned(child)
		if !ok {
			continue
		}
		if err := owned.OwnerComplete(entity); err != nil {
			report.NotifyFailures++
			s.log.Error("owner complete rejected",
				zap.Stringer("owner", entity),
				zap.Stringer("child", child),
				zap.Error(err))
		}
	}
}

func (s *EntityCleanupSystem) notifyOwner(entity, owner ecs.EntityID) {
	if owner.IsZero() || !s.world.Alive(owner) {
		return
	}
	if n, ok := s.world.Node(owner); ok {
		n.ChildComplete(entity)
	}
}

func (s *EntityCleanupSystem) logDeleteFailure(kind string, id ecs.EntityID, err error, report *cleanup.Report) {
	report.DeleteFailures++
	s.log.Warn("cleanup failed to delete entity",
		zap.String("kind", kind),
		zap.Stringer("entity", id),
		zap.Error(err))
}
