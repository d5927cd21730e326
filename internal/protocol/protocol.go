package protocol

import "encoding/json"

// Message types (server -> client). Client -> server messages are bare
// command envelopes and carry no type field.
const (
	TypeConnectionEstablished = "connection_established"
	TypeActionConfirmed       = "action_confirmed"
	TypeGameState             = "game_state"
	TypeError                 = "error"
)

// Action kinds accepted in a command envelope.
const (
	ActionMove    = "move"
	ActionHarvest = "harvest"
	ActionCraft   = "craft"
)

// Command is the client -> server envelope: {"action": ..., "params": {...}}.
// Params stays raw here; the simulation decodes it per action kind.
type Command struct {
	Action string          `json:"action"`
	Params json.RawMessage `json:"params,omitempty"`
}

func DecodeCommand(b []byte) (Command, error) {
	var c Command
	err := json.Unmarshal(b, &c)
	return c, err
}
