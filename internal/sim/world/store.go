package world

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotFound             = errors.New("entity not found")
	ErrInsufficientResource = errors.New("insufficient resource")
)

// EntityStore owns the canonical Resource and Agent records. It is the source
// of truth for positions, inventories and quantities; the Grid mirrors only
// cell membership. Accessed exclusively from the world loop goroutine.
type EntityStore struct {
	agents    map[string]*Agent
	resources map[string]*Resource
}

func NewEntityStore() *EntityStore {
	return &EntityStore{
		agents:    map[string]*Agent{},
		resources: map[string]*Resource{},
	}
}

func (s *EntityStore) Agent(id string) *Agent       { return s.agents[id] }
func (s *EntityStore) Resource(id string) *Resource { return s.resources[id] }

func (s *EntityStore) AgentCount() int    { return len(s.agents) }
func (s *EntityStore) ResourceCount() int { return len(s.resources) }
func (s *EntityStore) EntityCount() int   { return len(s.agents) + len(s.resources) }

// Position resolves any live entity's position by id.
func (s *EntityStore) Position(id string) (Vec2i, bool) {
	if a := s.agents[id]; a != nil {
		return a.Pos, true
	}
	if r := s.resources[id]; r != nil {
		return r.Pos, true
	}
	return Vec2i{}, false
}

func (s *EntityStore) UpsertAgent(a *Agent) {
	a.initDefaults()
	s.agents[a.ID] = a
}

func (s *EntityStore) UpsertResource(r *Resource) {
	s.resources[r.ID] = r
}

func (s *EntityStore) Remove(id string) error {
	if _, ok := s.agents[id]; ok {
		delete(s.agents, id)
		return nil
	}
	if _, ok := s.resources[id]; ok {
		delete(s.resources, id)
		return nil
	}
	return fmt.Errorf("remove %s: %w", id, ErrNotFound)
}

// CreditInventory adds n of item to the agent's inventory.
func (s *EntityStore) CreditInventory(agentID, item string, n int) error {
	a := s.agents[agentID]
	if a == nil {
		return fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	if n <= 0 {
		return nil
	}
	a.Inventory[item] += n
	return nil
}

// DebitInventory removes exactly n of item, or fails without mutating if the
// agent holds fewer than n. Counts never go negative.
func (s *EntityStore) DebitInventory(agentID, item string, n int) error {
	a := s.agents[agentID]
	if a == nil {
		return fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	if n <= 0 {
		return nil
	}
	if a.Inventory[item] < n {
		return fmt.Errorf("debit %d %s from %s: %w", n, item, agentID, ErrInsufficientResource)
	}
	a.Inventory[item] -= n
	if a.Inventory[item] == 0 {
		delete(a.Inventory, item)
	}
	return nil
}

// SortedAgentIDs and SortedResourceIDs give deterministic iteration order for
// resolution, digests and snapshots.
func (s *EntityStore) SortedAgentIDs() []string {
	ids := make([]string, 0, len(s.agents))
	for id := range s.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *EntityStore) SortedResourceIDs() []string {
	ids := make([]string, 0, len(s.resources))
	for id := range s.resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
