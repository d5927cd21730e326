package world

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

type digestAgent struct {
	ID        string         `json:"id"`
	X         int            `json:"x"`
	Y         int            `json:"y"`
	Inventory map[string]int `json:"inventory"`
}

type digestResource struct {
	ID       string `json:"id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

type digestState struct {
	Tick      uint64           `json:"tick"`
	Agents    []digestAgent    `json:"agents"`
	Resources []digestResource `json:"resources"`
}

// stateDigest hashes the canonical world state for a tick. Two worlds with
// the same seed fed the same join/action stream produce the same digests.
func (w *World) stateDigest(nowTick uint64) string {
	st := digestState{Tick: nowTick}
	for _, id := range w.store.SortedAgentIDs() {
		a := w.store.Agent(id)
		st.Agents = append(st.Agents, digestAgent{
			ID: a.ID, X: a.Pos.X, Y: a.Pos.Y, Inventory: a.Inventory,
		})
	}
	for _, id := range w.store.SortedResourceIDs() {
		r := w.store.Resource(id)
		st.Resources = append(st.Resources, digestResource{
			ID: r.ID, X: r.Pos.X, Y: r.Pos.Y, Type: r.Type, Quantity: r.Quantity,
		})
	}
	b, err := json.Marshal(st)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
