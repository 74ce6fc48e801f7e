package scripting

// Mirrors of the spawn priority constants, exposed to scripts as globals.
const (
	PriorityCritical = 100.0
	PriorityHigh     = 75.0
	PriorityMedium   = 50.0
	PriorityLow      = 25.0
	PriorityNone     = 0.0
)

// PriorityContext holds pre-packed data for a spawn priority decision.
type PriorityContext struct {
	Mission string  // mission kind, e.g. "local_supply"
	Room    string  // home room name
	Creeps  int     // units the mission currently has
	Desired int     // units it wants
	Urgency float64 // 0..1, mission-specific
}

// DefaultSpawnPriority is used when no script overrides the policy. Scouts
// map urgency onto the priority bands; other missions are critical with
// nothing alive and otherwise scale with the missing share.
func DefaultSpawnPriority(ctx PriorityContext) float32 {
	if ctx.Mission == "scout" {
		switch {
		case ctx.Urgency >= 0.9:
			return PriorityHigh
		case ctx.Urgency >= 0.6:
			return PriorityMedium
		case ctx.Urgency >= 0.3:
			return PriorityLow
		}
		return PriorityNone
	}
	if ctx.Desired > 0 && ctx.Creeps == 0 {
		return PriorityCritical
	}
	if ctx.Desired <= 0 || ctx.Creeps >= ctx.Desired {
		return PriorityLow
	}
	missing := float64(ctx.Desired-ctx.Creeps) / float64(ctx.Desired)
	if missing >= 0.5 {
		return PriorityHigh
	}
	return PriorityMedium
}
