package world

import (
	"fmt"
	"sync"
	"testing"
)

func TestQueueOverwriteKeepsPosition(t *testing.T) {
	q := NewActionQueue()
	q.Submit(PendingAction{AgentID: "A1", Action: "move"})
	q.Submit(PendingAction{AgentID: "A2", Action: "move"})
	q.Submit(PendingAction{AgentID: "A1", Action: "craft"})

	got := q.DrainAll()
	if len(got) != 2 {
		t.Fatalf("drained %d actions, want 2", len(got))
	}
	if got[0].AgentID != "A1" || got[0].Action != "craft" {
		t.Fatalf("slot 0 = %s/%s, want A1/craft", got[0].AgentID, got[0].Action)
	}
	if got[1].AgentID != "A2" || got[1].Action != "move" {
		t.Fatalf("slot 1 = %s/%s, want A2/move", got[1].AgentID, got[1].Action)
	}
}

func TestQueueDrainEmpties(t *testing.T) {
	q := NewActionQueue()
	q.Submit(PendingAction{AgentID: "A1", Action: "harvest"})
	if q.Len() != 1 {
		t.Fatalf("len=%d want 1", q.Len())
	}
	_ = q.DrainAll()
	if q.Len() != 0 {
		t.Fatalf("len=%d after drain, want 0", q.Len())
	}
	if got := q.DrainAll(); len(got) != 0 {
		t.Fatalf("second drain returned %d actions", len(got))
	}
}

func TestQueueConcurrentSubmit(t *testing.T) {
	q := NewActionQueue()
	const agents = 32
	const rounds = 100

	var wg sync.WaitGroup
	for i := 0; i < agents; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("A%d", n)
			for r := 0; r < rounds; r++ {
				q.Submit(PendingAction{AgentID: id, Action: "move"})
			}
		}(i)
	}
	wg.Wait()

	got := q.DrainAll()
	if len(got) != agents {
		t.Fatalf("drained %d actions, want one slot per agent (%d)", len(got), agents)
	}
	seen := map[string]bool{}
	for _, a := range got {
		if seen[a.AgentID] {
			t.Fatalf("agent %s appears twice", a.AgentID)
		}
		seen[a.AgentID] = true
	}
}
