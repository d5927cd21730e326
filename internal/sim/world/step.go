package world

import (
	"time"
)

// step advances the simulation by one tick. Order within a tick: leaves,
// evictions, joins, queued actions in submission order, resource spawning,
// then snapshot fanout. Returns a non-nil error only on state corruption.
func (w *World) step(joins []JoinRequest, leaves []string) error {
	start := time.Now()
	nowTick := w.tick.Load()

	entry := TickLogEntry{Tick: nowTick}

	for _, id := range leaves {
		w.sessions.unregister(id, nowTick)
		entry.Leaves = append(entry.Leaves, id)
	}

	// Agents whose connection has been gone past the grace window are
	// removed from the world entirely.
	for _, id := range w.sessions.evictable(nowTick, w.cfg.EvictAfterTicks) {
		w.removeEntity(id)
		w.sessions.drop(id)
		entry.Evicted = append(entry.Evicted, id)
	}

	for _, req := range joins {
		resp := w.joinAgent(req.Name, req.Out)
		if req.Resp != nil {
			req.Resp <- resp
		}
		entry.Joins = append(entry.Joins, RecordedJoin{
			AgentID: resp.Welcome.AgentID,
			Name:    resp.Welcome.AgentName,
		})
	}

	for _, act := range w.queue.DrainAll() {
		rec, err := w.resolveAction(act, nowTick)
		entry.Actions = append(entry.Actions, rec)
		if err != nil {
			return err
		}
	}

	w.maybeSpawnResources(nowTick)

	w.publish(nowTick)

	entry.Digest = w.stateDigest(nowTick)
	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(entry)
	}

	w.metrics.Store(WorldMetrics{
		Tick:       nowTick,
		Agents:     w.store.AgentCount(),
		Clients:    w.sessions.clientCount(),
		Resources:  w.store.ResourceCount(),
		QueueDepth: w.queue.Len(),
		StepMS:     float64(time.Since(start).Microseconds()) / 1000.0,
	})

	w.tick.Add(1)
	return nil
}

// publish sends each connected agent its action confirmations followed by a
// fresh game_state snapshot for the tick that just resolved.
func (w *World) publish(nowTick uint64) {
	info := w.worldInfo()
	for _, id := range w.store.SortedAgentIDs() {
		a := w.store.Agent(id)
		if a == nil {
			continue
		}
		for _, res := range a.takeResults() {
			w.sessions.sendJSON(id, res)
		}
		w.sessions.sendJSON(id, w.buildGameState(a, nowTick, info))
	}
}
