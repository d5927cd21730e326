package world

type WorldConfig struct {
	Width      int
	Height     int
	TickRateHz int
	Seed       int64

	// Action tuning.
	HarvestAmount int
	CraftOreCost  int
	CraftFuelCost int

	// Resource spawner.
	InitialResources   int
	MaxResources       int
	SpawnIntervalTicks int
	SpawnMinQuantity   int
	SpawnMaxQuantity   int

	// DisableRespawn turns off both the initial scatter and the periodic
	// respawn; tests use it to control cell contents exactly.
	DisableRespawn bool

	// Ticks a disconnected agent survives before the registry evicts it.
	EvictAfterTicks uint64
}

func (c *WorldConfig) applyDefaults() {
	if c.Width <= 0 {
		c.Width = 20
	}
	if c.Height <= 0 {
		c.Height = 20
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 5
	}
	if c.HarvestAmount <= 0 {
		c.HarvestAmount = 10
	}
	if c.CraftOreCost <= 0 {
		c.CraftOreCost = 1
	}
	if c.CraftFuelCost <= 0 {
		c.CraftFuelCost = 1
	}
	if c.InitialResources <= 0 {
		c.InitialResources = 25
	}
	if c.MaxResources <= 0 {
		c.MaxResources = 50
	}
	if c.SpawnIntervalTicks <= 0 {
		c.SpawnIntervalTicks = 10
	}
	if c.SpawnMinQuantity <= 0 {
		c.SpawnMinQuantity = 20
	}
	if c.SpawnMaxQuantity < c.SpawnMinQuantity {
		c.SpawnMaxQuantity = 100
	}
	if c.EvictAfterTicks == 0 {
		c.EvictAfterTicks = 300
	}
}
