package world

import (
	"encoding/json"
	"sync"
)

// PendingAction is one queued intent. At most one is honored per agent per
// tick; resubmitting before the drain overwrites the slot (last write wins)
// while keeping the agent's original place in the drain order.
type PendingAction struct {
	AgentID       string
	Action        string
	Params        json.RawMessage
	SubmittedTick uint64
}

// ActionQueue is the only structure shared between connection handlers (many
// concurrent producers) and the world loop (single consumer). Producers only
// ever hold the lock for a slot overwrite; the loop empties the queue
// atomically at each tick boundary.
type ActionQueue struct {
	mu    sync.Mutex
	slots map[string]int
	order []PendingAction
}

func NewActionQueue() *ActionQueue {
	return &ActionQueue{slots: map[string]int{}}
}

func (q *ActionQueue) Submit(a PendingAction) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i, ok := q.slots[a.AgentID]; ok {
		q.order[i] = a
		return
	}
	q.slots[a.AgentID] = len(q.order)
	q.order = append(q.order, a)
}

// DrainAll atomically empties the queue and returns the pending actions in
// FIFO first-submission order.
func (q *ActionQueue) DrainAll() []PendingAction {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.order
	q.order = nil
	q.slots = map[string]int{}
	return out
}

func (q *ActionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}
