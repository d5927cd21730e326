package world

import (
	"fmt"
	"sort"
)

// Grid is the fixed-size 2D lattice tracking which entity ids occupy each
// cell. It holds ids only; entity records live in the EntityStore. Both are
// mutated exclusively from the world loop goroutine, and always together.
type Grid struct {
	width  int
	height int
	cells  []map[string]struct{}
}

func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]map[string]struct{}, width*height),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// OccupantsAt returns the ids occupying (x, y) in sorted order, so callers
// iterate cells deterministically. Out-of-bounds cells are empty.
func (g *Grid) OccupantsAt(x, y int) []string {
	if !g.InBounds(x, y) {
		return nil
	}
	cell := g.cells[y*g.width+x]
	if len(cell) == 0 {
		return nil
	}
	ids := make([]string, 0, len(cell))
	for id := range cell {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *Grid) Contains(id string, x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	_, ok := g.cells[y*g.width+x][id]
	return ok
}

func (g *Grid) Place(id string, x, y int) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("place %s at (%d,%d): out of bounds", id, x, y)
	}
	i := y*g.width + x
	if g.cells[i] == nil {
		g.cells[i] = map[string]struct{}{}
	}
	g.cells[i][id] = struct{}{}
	return nil
}

func (g *Grid) Remove(id string, x, y int) {
	if !g.InBounds(x, y) {
		return
	}
	delete(g.cells[y*g.width+x], id)
}
