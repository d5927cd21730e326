package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"proxiverse/internal/protocol"
	"proxiverse/internal/sim/world"
)

func startTestServer(t *testing.T) (*httptest.Server, *world.World, context.CancelFunc) {
	t.Helper()
	w, err := world.New(world.WorldConfig{
		Width:          20,
		Height:         20,
		TickRateHz:     50,
		Seed:           1,
		DisableRespawn: true,
	})
	if err != nil {
		t.Fatalf("world: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Run(ctx) }()

	logger := log.New(os.Stdout, "[test] ", log.LstdFlags)
	srv := httptest.NewServer(NewServer(w, logger).Handler())
	return srv, w, cancel
}

func dialTestServer(t *testing.T, srv *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?name=" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readTyped(t *testing.T, conn *websocket.Conn, wantType string) []byte {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &base); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if base.Type == wantType {
			return msg
		}
	}
	t.Fatalf("no %s message within deadline", wantType)
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	srv, w, cancel := startTestServer(t)
	defer srv.Close()
	defer cancel()

	conn := dialTestServer(t, srv, "tester")
	defer conn.Close()

	var welcome protocol.WelcomeMsg
	if err := json.Unmarshal(readTyped(t, conn, protocol.TypeConnectionEstablished), &welcome); err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if welcome.AgentID == "" || welcome.SessionID == "" {
		t.Fatalf("welcome missing ids: %+v", welcome)
	}
	if welcome.AgentName != "tester" {
		t.Fatalf("agent name=%q", welcome.AgentName)
	}
	if welcome.Dimensions != [2]int{20, 20} {
		t.Fatalf("dimensions=%v", welcome.Dimensions)
	}

	// Snapshots arrive every tick once joined.
	var gs protocol.GameStateMsg
	if err := json.Unmarshal(readTyped(t, conn, protocol.TypeGameState), &gs); err != nil {
		t.Fatalf("game_state: %v", err)
	}
	if gs.AgentState.ID != welcome.AgentID {
		t.Fatalf("snapshot for %s, want %s", gs.AgentState.ID, welcome.AgentID)
	}

	if err := conn.WriteJSON(map[string]any{
		"action": "move",
		"params": protocol.MoveParams{DX: 1, DY: 0},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var ac protocol.ActionConfirmedMsg
	if err := json.Unmarshal(readTyped(t, conn, protocol.TypeActionConfirmed), &ac); err != nil {
		t.Fatalf("action_confirmed: %v", err)
	}
	if ac.Action != protocol.ActionMove || !ac.Success {
		t.Fatalf("confirmation=%+v", ac)
	}

	// World kept the agent after resolving the move.
	deadline := time.Now().Add(2 * time.Second)
	for w.Metrics().Agents != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := w.Metrics().Agents; got != 1 {
		t.Fatalf("agents=%d want 1", got)
	}
}

func TestMalformedCommandGetsError(t *testing.T) {
	srv, _, cancel := startTestServer(t)
	defer srv.Close()
	defer cancel()

	conn := dialTestServer(t, srv, "tester")
	defer conn.Close()

	readTyped(t, conn, protocol.TypeConnectionEstablished)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"action":`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	var em protocol.ErrorMsg
	if err := json.Unmarshal(readTyped(t, conn, protocol.TypeError), &em); err != nil {
		t.Fatalf("error msg: %v", err)
	}
	if em.Code != protocol.ErrBadRequest {
		t.Fatalf("code=%q want %s", em.Code, protocol.ErrBadRequest)
	}
}
