package spawn

import (
	"math"

	"github.com/ibexsim/colony/internal/core/ecs"
)

// Spawn priorities. Higher runs first.
const (
	PriorityCritical float32 = 100.0
	PriorityHigh     float32 = 75.0
	PriorityMedium   float32 = 50.0
	PriorityLow      float32 = 25.0
	PriorityNone     float32 = 0.0
)

// Token correlates competing requests for one logical need. At most one
// request carrying a given token succeeds per tick.
type Token uint32

// Callback runs exactly once when the request is produced, with the name the
// facility assigned. It should only enqueue deferred commands.
type Callback func(name string)

// Request asks a region for one unit.
type Request struct {
	description string
	body        []Part
	priority    float32
	token       Token
	hasToken    bool
	callback    Callback
}

func NewRequest(description string, body []Part, priority float32, callback Callback) *Request {
	b := make([]Part, len(body))
	copy(b, body)
	// NaN compares false against everything and would break the queue order
	if math.IsNaN(float64(priority)) {
		priority = PriorityNone
	}
	return &Request{
		description: description,
		body:        b,
		priority:    priority,
		callback:    callback,
	}
}

// WithToken tags the request with a shared token.
func (r *Request) WithToken(t Token) *Request {
	r.token = t
	r.hasToken = true
	return r
}

func (r *Request) Description() string { return r.description }
func (r *Request) Body() []Part        { return r.body }
func (r *Request) Priority() float32   { return r.priority }
func (r *Request) Cost() uint32        { return BodyCost(r.body) }

// Token returns the dedup token and whether one is set.
func (r *Request) Token() (Token, bool) { return r.token, r.hasToken }

// Complete invokes the callback.
func (r *Request) Complete(name string) {
	if r.callback != nil {
		r.callback(name)
	}
}

// RenewRequest asks a facility to extend a unit's lifetime. Ephemeral.
type RenewRequest struct {
	Creep       ecs.EntityID
	TicksToLive uint32
	BodyCost    uint32
	Facility    string // facility the unit is docked at
}

// RenewCost is the energy a renew consumes.
func (r RenewRequest) RenewCost() uint32 {
	return r.BodyCost * 2 / 5
}
