package world

import (
	"errors"
	"testing"
)

func TestStoreInventoryDebit(t *testing.T) {
	s := NewEntityStore()
	s.UpsertAgent(&Agent{ID: "A1", Pos: Vec2i{X: 1, Y: 1}})

	if err := s.CreditInventory("A1", ResourceOre, 3); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := s.DebitInventory("A1", ResourceOre, 5); !errors.Is(err, ErrInsufficientResource) {
		t.Fatalf("debit past zero: err=%v want ErrInsufficientResource", err)
	}
	if got := s.Agent("A1").InventoryCount(ResourceOre); got != 3 {
		t.Fatalf("failed debit mutated inventory: %d want 3", got)
	}
	if err := s.DebitInventory("A1", ResourceOre, 3); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if _, ok := s.Agent("A1").Inventory[ResourceOre]; ok {
		t.Fatalf("zero-count item should be deleted from inventory")
	}
}

func TestStoreUnknownAgent(t *testing.T) {
	s := NewEntityStore()
	if err := s.CreditInventory("A9", ResourceOre, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("credit unknown: err=%v want ErrNotFound", err)
	}
	if err := s.Remove("A9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("remove unknown: err=%v want ErrNotFound", err)
	}
	if _, ok := s.Position("A9"); ok {
		t.Fatalf("position of unknown entity should report ok=false")
	}
}

func TestResourceHarvestClamps(t *testing.T) {
	r := &Resource{ID: "R000001", Type: ResourceOre, Quantity: 3}
	if got := r.Harvest(10); got != 3 {
		t.Fatalf("harvest returned %d, want 3", got)
	}
	if !r.Depleted() {
		t.Fatalf("resource should be depleted")
	}
	if got := r.Harvest(10); got != 0 {
		t.Fatalf("harvesting a depleted resource returned %d", got)
	}
}
