package spawn

import (
	"sort"

	"github.com/ibexsim/colony/internal/core/ecs"
)

// Queue holds this tick's spawn requests per region, each list kept in
// descending priority order with ties in submission order.
type Queue struct {
	nextToken Token
	requests  map[ecs.EntityID][]*Request
	renew     map[ecs.EntityID][]RenewRequest
	order     []ecs.EntityID // regions in first-seen order
}

func NewQueue() *Queue {
	return &Queue{
		requests: make(map[ecs.EntityID][]*Request),
		renew:    make(map[ecs.EntityID][]RenewRequest),
	}
}

// Token issues a token unique until the next Clear.
func (q *Queue) Token() Token {
	t := q.nextToken
	q.nextToken++
	return t
}

// Request inserts r into room's list after every request of equal or
// higher priority.
func (q *Queue) Request(room ecs.EntityID, r *Request) {
	q.touch(room)
	list := q.requests[room]
	pos := sort.Search(len(list), func(i int) bool {
		return list[i].priority < r.priority
	})
	list = append(list, nil)
	copy(list[pos+1:], list[pos:])
	list[pos] = r
	q.requests[room] = list
}

// RequestRenew submits a renew request for a unit docked in room.
func (q *Queue) RequestRenew(room ecs.EntityID, r RenewRequest) {
	q.touch(room)
	q.renew[room] = append(q.renew[room], r)
}

func (q *Queue) touch(room ecs.EntityID) {
	if _, ok := q.requests[room]; ok {
		return
	}
	if _, ok := q.renew[room]; ok {
		return
	}
	q.order = append(q.order, room)
}

// Rooms lists every region with requests or renews, in first-seen order.
func (q *Queue) Rooms() []ecs.EntityID {
	out := make([]ecs.EntityID, len(q.order))
	copy(out, q.order)
	return out
}

// Requests returns room's requests in processing order.
func (q *Queue) Requests(room ecs.EntityID) []*Request {
	return q.requests[room]
}

// Renews returns room's renew requests in submission order.
func (q *Queue) Renews(room ecs.EntityID) []RenewRequest {
	return q.renew[room]
}

// Len counts spawn requests across all regions.
func (q *Queue) Len() int {
	n := 0
	for _, l := range q.requests {
		n += len(l)
	}
	return n
}

// Snapshot records queue depth per region.
func (q *Queue) Snapshot() QueueSnapshot {
	s := QueueSnapshot{PerRoom: make(map[ecs.EntityID]uint32, len(q.requests))}
	for room, l := range q.requests {
		s.PerRoom[room] = uint32(len(l))
		s.Total += uint32(len(l))
	}
	return s
}

// Clear drops every request and resets the token counter.
func (q *Queue) Clear() {
	q.nextToken = 0
	clear(q.requests)
	clear(q.renew)
	q.order = q.order[:0]
}

// QueueSnapshot is the queue depth captured before Clear.
type QueueSnapshot struct {
	PerRoom map[ecs.EntityID]uint32
	Total   uint32
}
