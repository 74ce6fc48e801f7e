package system

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/core/event"
	coresys "github.com/ibexsim/colony/internal/core/system"
	"github.com/ibexsim/colony/internal/spawn"
	"go.uber.org/zap"
)

const maxNameAttempts = 64

// Clock reports the current tick.
type Clock interface {
	Tick() uint32
}

// SpawnSettings tunes renew handling.
type SpawnSettings struct {
	TimePerPart        int    // ticks per body part
	RenewMinRoomEnergy uint32 // stored energy a region needs before renewing
	RenewTTLMargin     uint32 // renew only units dying within next spawn + margin
}

// SpawnQueueSystem allocates each region's idle facilities and energy to its
// queued requests in priority order, then clears the queue. Phase 6 (Queues).
type SpawnQueueSystem struct {
	queue    *spawn.Queue
	registry spawn.Registry
	clock    Clock
	bus      *event.Bus
	log      *zap.Logger
	settings SpawnSettings
}

func NewSpawnQueueSystem(queue *spawn.Queue, registry spawn.Registry, clock Clock, bus *event.Bus, log *zap.Logger, settings SpawnSettings) *SpawnQueueSystem {
	if settings.TimePerPart <= 0 {
		settings.TimePerPart = 3
	}
	return &SpawnQueueSystem{
		queue:    queue,
		registry: registry,
		clock:    clock,
		bus:      bus,
		log:      log,
		settings: settings,
	}
}

func (s *SpawnQueueSystem) Phase() coresys.Phase { return coresys.PhaseQueues }

func (s *SpawnQueueSystem) Update(_ time.Duration) {
	report, snapshot := s.Process()
	if s.bus != nil && (snapshot.Total > 0 || report.Renewed > 0) {
		event.Emit(s.bus, event.SpawnProcessed{Tick: s.clock.Tick(), Report: report, Snapshot: snapshot})
	}
}

// Process runs one pass over every region and clears the queue. The
// returned snapshot is the queue depth before clearing.
func (s *SpawnQueueSystem) Process() (spawn.Report, spawn.QueueSnapshot) {
	var report spawn.Report
	spawned := make(map[spawn.Token]struct{})

	for _, room := range s.queue.Rooms() {
		if err := s.processRoom(room, s.queue.Requests(room), s.queue.Renews(room), spawned, &report); err != nil {
			s.log.Warn("failed spawning for room", zap.Stringer("room", room), zap.Error(err))
		}
	}

	snapshot := s.queue.Snapshot()
	report.Remaining = int(snapshot.Total) - report.Spawned
	s.queue.Clear()
	return report, snapshot
}

func (s *SpawnQueueSystem) processRoom(room ecs.EntityID, requests []*spawn.Request, renews []spawn.RenewRequest, spawned map[spawn.Token]struct{}, report *spawn.Report) error {
	snap, err := s.registry.RegionSnapshot(room)
	if err != nil {
		return err
	}

	facilities := append([]spawn.Facility(nil), snap.Facilities...)
	available := snap.EnergyAvailable

	if snap.StoredEnergy >= s.settings.RenewMinRoomEnergy && len(renews) > 0 {
		facilities, available = s.processRenews(snap.Name, renews, facilities, available, s.nextSpawnTicks(requests, spawned), report)
	}

	tick := s.clock.Tick()

queue:
	for _, req := range requests {
		token, hasToken := req.Token()
		if hasToken {
			if _, done := spawned[token]; done {
				continue
			}
		}
		if len(facilities) == 0 {
			break
		}

		cost := req.Cost()
		if cost > snap.EnergyCapacity {
			// Can never be afforded; must not block the rest of the queue.
			report.Rejected++
			continue
		}
		if cost > available {
			report.Blocked++
			break
		}

		name, err := spawnUnit(facilities[0], req.Body(), tick)
		switch {
		case err == nil:
			req.Complete(name)
			facilities = facilities[1:]
			if hasToken {
				spawned[token] = struct{}{}
			}
			available -= cost
			report.Spawned++
			if s.bus != nil {
				event.Emit(s.bus, event.UnitSpawned{Tick: tick, Room: room, Name: name, Description: req.Description(), Cost: cost})
			}
			s.log.Debug("spawned unit",
				zap.String("room", snap.Name),
				zap.String("name", name),
				zap.String("request", req.Description()),
				zap.Uint32("cost", cost))
		case errors.Is(err, spawn.ErrNotEnoughEnergy):
			report.Blocked++
			break queue
		default:
			report.Failed++
			s.log.Debug("spawn request failed",
				zap.String("room", snap.Name),
				zap.String("request", req.Description()),
				zap.Error(err))
		}
	}
	return nil
}

// processRenews renews units closest to expiry first, each on the facility
// it is docked at. Used facilities are removed from the idle list.
func (s *SpawnQueueSystem) processRenews(roomName string, renews []spawn.RenewRequest, facilities []spawn.Facility, available uint32, nextSpawnTicks uint32, report *spawn.Report) ([]spawn.Facility, uint32) {
	sorted := append([]spawn.RenewRequest(nil), renews...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TicksToLive < sorted[j].TicksToLive })

	threshold := nextSpawnTicks + s.settings.RenewTTLMargin
	for _, r := range sorted {
		if r.TicksToLive >= threshold && nextSpawnTicks > 0 {
			continue
		}
		idx := -1
		for i, f := range facilities {
			if f.Name() == r.Facility {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		cost := r.RenewCost()
		if err := facilities[idx].Renew(r.Creep, cost); err != nil {
			s.log.Debug("renew failed", zap.String("room", roomName), zap.Stringer("creep", r.Creep), zap.Error(err))
			continue
		}
		report.Renewed++
		if cost > available {
			available = 0
		} else {
			available -= cost
		}
		facilities = append(facilities[:idx:idx], facilities[idx+1:]...)
	}
	return facilities, available
}

// nextSpawnTicks is the build time of the first request still eligible.
func (s *SpawnQueueSystem) nextSpawnTicks(requests []*spawn.Request, spawned map[spawn.Token]struct{}) uint32 {
	for _, req := range requests {
		if token, ok := req.Token(); ok {
			if _, done := spawned[token]; done {
				continue
			}
		}
		return uint32(len(req.Body()) * s.settings.TimePerPart)
	}
	return 0
}

// spawnUnit names the unit "<tick>-<n>", retrying n while the name is taken.
func spawnUnit(f spawn.Facility, body []spawn.Part, tick uint32) (string, error) {
	for n := 0; n < maxNameAttempts; n++ {
		name := fmt.Sprintf("%d-%d", tick, n)
		err := f.Spawn(body, name)
		if errors.Is(err, spawn.ErrNameExists) {
			continue
		}
		return name, err
	}
	return "", fmt.Errorf("%s: no free name after %d attempts: %w", f.Name(), maxNameAttempts, spawn.ErrNameExists)
}
