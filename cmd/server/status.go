package main

import (
	"html/template"
	"net/http"

	"proxiverse/internal/sim/tuning"
	"proxiverse/internal/sim/world"
)

func worldConfig(t tuning.Tuning) world.WorldConfig {
	return world.WorldConfig{
		Width:              t.World.Width,
		Height:             t.World.Height,
		TickRateHz:         t.World.TickRateHz,
		Seed:               t.World.Seed,
		HarvestAmount:      t.Harvest.AmountPerTick,
		CraftOreCost:       t.Craft.OreCost,
		CraftFuelCost:      t.Craft.FuelCost,
		InitialResources:   t.Spawner.InitialResources,
		MaxResources:       t.Spawner.MaxResources,
		SpawnIntervalTicks: t.Spawner.IntervalTicks,
		SpawnMinQuantity:   t.Spawner.MinQuantity,
		SpawnMaxQuantity:   t.Spawner.MaxQuantity,
		DisableRespawn:     t.Spawner.Disabled,
		EvictAfterTicks:    t.Sessions.EvictAfterTicks,
	}
}

var statusTmpl = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head><title>Proxiverse Server</title></head>
<body>
<h1>Proxiverse Server</h1>
<p>Tick-based world simulation for autonomous agents.</p>
<ul>
<li>Tick: {{.Tick}}</li>
<li>Agents: {{.Agents}}</li>
<li>Connected clients: {{.Clients}}</li>
<li>Resource nodes: {{.Resources}}</li>
<li>Last step: {{printf "%.3f" .StepMS}} ms</li>
</ul>
<p>Connect over WebSocket at <code>/v1/ws?name=YourAgent</code>.</p>
</body>
</html>
`))

func statusPageHandler(w *world.World) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = statusTmpl.Execute(rw, w.Metrics())
	}
}
