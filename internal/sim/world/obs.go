package world

import (
	"encoding/json"

	"proxiverse/internal/protocol"
)

func (r *sessionRegistry) sendJSON(agentID string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	r.send(agentID, b)
}

func (w *World) worldInfo() protocol.WorldInfo {
	return protocol.WorldInfo{
		Dimensions:     [2]int{w.cfg.Width, w.cfg.Height},
		TotalEntities:  w.store.EntityCount(),
		TotalAgents:    w.store.AgentCount(),
		TotalResources: w.store.ResourceCount(),
	}
}

func (w *World) buildGameState(a *Agent, nowTick uint64, info protocol.WorldInfo) protocol.GameStateMsg {
	inv := make(map[string]int, len(a.Inventory))
	for item, n := range a.Inventory {
		inv[item] = n
	}
	return protocol.GameStateMsg{
		Type: protocol.TypeGameState,
		Tick: nowTick,
		AgentState: protocol.AgentState{
			ID:        a.ID,
			Name:      a.Name,
			X:         a.Pos.X,
			Y:         a.Pos.Y,
			Inventory: inv,
		},
		WorldInfo: info,
	}
}
