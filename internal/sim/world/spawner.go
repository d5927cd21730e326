package world

import "fmt"

// scatterResources seeds n resource nodes in distinct empty cells. Used once
// at world creation.
func (w *World) scatterResources(n int) {
	cells := w.emptyCells()
	for i := 0; i < n && len(cells) > 0; i++ {
		j := w.rng.Intn(len(cells))
		pos := cells[j]
		cells[j] = cells[len(cells)-1]
		cells = cells[:len(cells)-1]
		w.spawnResourceAt(pos)
	}
}

// maybeSpawnResources tops the world back up to MaxResources every
// SpawnIntervalTicks. Tick 0 is skipped so the first interval elapses before
// the first respawn.
func (w *World) maybeSpawnResources(nowTick uint64) {
	if w.cfg.DisableRespawn || w.cfg.SpawnIntervalTicks <= 0 {
		return
	}
	if nowTick == 0 || nowTick%uint64(w.cfg.SpawnIntervalTicks) != 0 {
		return
	}
	deficit := w.cfg.MaxResources - w.store.ResourceCount()
	if deficit <= 0 {
		return
	}
	cells := w.emptyCells()
	for i := 0; i < deficit && len(cells) > 0; i++ {
		j := w.rng.Intn(len(cells))
		pos := cells[j]
		cells[j] = cells[len(cells)-1]
		cells = cells[:len(cells)-1]
		w.spawnResourceAt(pos)
	}
}

func (w *World) spawnResourceAt(pos Vec2i) string {
	id := fmt.Sprintf("R%06d", w.nextResourceNum.Add(1))
	typ := ResourceOre
	if w.rng.Intn(2) == 1 {
		typ = ResourceFuel
	}
	qty := w.cfg.SpawnMinQuantity
	if span := w.cfg.SpawnMaxQuantity - w.cfg.SpawnMinQuantity; span > 0 {
		qty += w.rng.Intn(span + 1)
	}
	w.store.UpsertResource(&Resource{ID: id, Pos: pos, Type: typ, Quantity: qty})
	if err := w.grid.Place(id, pos.X, pos.Y); err != nil {
		panic(err)
	}
	return id
}

// emptyCells lists unoccupied cells in row-major order so cell selection
// depends only on the seeded PRNG.
func (w *World) emptyCells() []Vec2i {
	var cells []Vec2i
	for y := 0; y < w.cfg.Height; y++ {
		for x := 0; x < w.cfg.Width; x++ {
			if len(w.grid.OccupantsAt(x, y)) == 0 {
				cells = append(cells, Vec2i{X: x, Y: y})
			}
		}
	}
	return cells
}
