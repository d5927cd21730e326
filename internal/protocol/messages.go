package protocol

// MoveParams is the params payload for a "move" command.
// harvest and craft take an empty params object.
type MoveParams struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// connection_established (server -> client), sent once when a session is admitted.
type WelcomeMsg struct {
	Type       string `json:"type"`
	AgentID    string `json:"agent_id"`
	AgentName  string `json:"agent_name"`
	SessionID  string `json:"session_id,omitempty"`
	Dimensions [2]int `json:"dimensions"`
	TickRateHz int    `json:"tick_rate_hz"`
	Message    string `json:"message,omitempty"`
}

// action_confirmed (server -> client): the per-tick resolution result for the
// agent's pending action. Sent before the same tick's game_state.
type ActionConfirmedMsg struct {
	Type    string `json:"type"`
	Tick    uint64 `json:"tick"`
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// game_state (server -> client), once per tick per connected agent.
type GameStateMsg struct {
	Type       string     `json:"type"`
	Tick       uint64     `json:"tick"`
	AgentState AgentState `json:"agent_state"`
	WorldInfo  WorldInfo  `json:"world_info"`
}

type AgentState struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	X         int            `json:"x"`
	Y         int            `json:"y"`
	Inventory map[string]int `json:"inventory"`
}

type WorldInfo struct {
	Dimensions     [2]int `json:"dimensions"`
	TotalEntities  int    `json:"total_entities"`
	TotalAgents    int    `json:"total_agents"`
	TotalResources int    `json:"total_resources"`
}

// error (server -> client): transport-level rejects only (bad JSON, missing
// action). Simulation-level failures are reported via action_confirmed.
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
