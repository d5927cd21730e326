package world

import "proxiverse/internal/protocol"

// Entity kinds. The entity set is closed: every record in the store is either
// a Resource or an Agent, distinguished by kind tag.
type EntityKind string

const (
	KindAgent    EntityKind = "AGENT"
	KindResource EntityKind = "RESOURCE"
)

// Harvestable resource types. COMPONENTS exists only as an inventory item
// (the craft output); it never appears as a world entity.
const (
	ResourceOre  = "ORE"
	ResourceFuel = "FUEL"

	ItemComponents = "COMPONENTS"
)

type Resource struct {
	ID       string
	Pos      Vec2i
	Type     string
	Quantity int
}

// Harvest removes up to amount from the deposit and returns what was actually
// taken. Quantity never goes negative.
func (r *Resource) Harvest(amount int) int {
	if amount <= 0 {
		return 0
	}
	taken := amount
	if taken > r.Quantity {
		taken = r.Quantity
	}
	r.Quantity -= taken
	return taken
}

func (r *Resource) Depleted() bool { return r.Quantity <= 0 }

type Agent struct {
	ID   string
	Name string
	Pos  Vec2i

	// Inventory maps item tag -> count. Absent key means zero; zero-count
	// keys are pruned on debit so snapshots stay compact.
	Inventory map[string]int

	// Resolution results accumulated during the current tick, delivered
	// ahead of game_state in the fanout and then reset.
	results []protocol.ActionConfirmedMsg
}

func (a *Agent) initDefaults() {
	if a.Inventory == nil {
		a.Inventory = map[string]int{}
	}
}

func (a *Agent) InventoryCount(item string) int { return a.Inventory[item] }

func (a *Agent) addResult(r protocol.ActionConfirmedMsg) {
	a.results = append(a.results, r)
}

func (a *Agent) takeResults() []protocol.ActionConfirmedMsg {
	out := a.results
	a.results = nil
	return out
}
