package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"proxiverse/internal/protocol"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	commandSchema := compile("command.schema.json")
	gameStateSchema := compile("game_state.schema.json")

	var move any
	_ = json.Unmarshal([]byte(`{"action":"move","params":{"dx":1,"dy":0}}`), &move)
	validate(commandSchema, move)

	var harvest any
	_ = json.Unmarshal([]byte(`{"action":"harvest"}`), &harvest)
	validate(commandSchema, harvest)

	var craft any
	_ = json.Unmarshal([]byte(`{"action":"craft"}`), &craft)
	validate(commandSchema, craft)

	var bad any
	_ = json.Unmarshal([]byte(`{"action":"teleport"}`), &bad)
	if err := commandSchema.Validate(bad); err == nil {
		t.Fatalf("unknown action should fail validation")
	}

	var moveNoParams any
	_ = json.Unmarshal([]byte(`{"action":"move"}`), &moveNoParams)
	if err := commandSchema.Validate(moveNoParams); err == nil {
		t.Fatalf("move without params should fail validation")
	}

	gs := protocol.GameStateMsg{
		Type: protocol.TypeGameState,
		Tick: 42,
		AgentState: protocol.AgentState{
			ID:        "A1",
			Name:      "alice",
			X:         10,
			Y:         10,
			Inventory: map[string]int{"ORE": 3},
		},
		WorldInfo: protocol.WorldInfo{
			Dimensions:     [2]int{20, 20},
			TotalEntities:  26,
			TotalAgents:    1,
			TotalResources: 25,
		},
	}
	b, err := json.Marshal(gs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var gsAny any
	_ = json.Unmarshal(b, &gsAny)
	validate(gameStateSchema, gsAny)
}

func TestDecodeCommand(t *testing.T) {
	cmd, err := protocol.DecodeCommand([]byte(`{"action":"move","params":{"dx":-1,"dy":1}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cmd.Action != protocol.ActionMove {
		t.Fatalf("action=%q", cmd.Action)
	}
	var mv protocol.MoveParams
	if err := json.Unmarshal(cmd.Params, &mv); err != nil {
		t.Fatalf("params: %v", err)
	}
	if mv.DX != -1 || mv.DY != 1 {
		t.Fatalf("params=%+v", mv)
	}
	if _, err := protocol.DecodeCommand([]byte(`{"action":`)); err == nil {
		t.Fatalf("truncated json should fail")
	}
}
