package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"proxiverse/internal/protocol"
	"proxiverse/internal/sim/world"
)

func main() {
	var (
		serverURL = flag.String("url", "ws://localhost:8765/v1/ws", "ws url")
		name      = flag.String("name", "bot", "agent name")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)

	u, err := url.Parse(*serverURL)
	if err != nil {
		logger.Fatalf("parse url: %v", err)
	}
	q := u.Query()
	q.Set("name", *name)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &base); err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeConnectionEstablished:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("connected agent_id=%s grid=%dx%d tick_rate=%d",
				w.AgentID, w.Dimensions[0], w.Dimensions[1], w.TickRateHz)

		case protocol.TypeActionConfirmed:
			var ac protocol.ActionConfirmedMsg
			if err := json.Unmarshal(msg, &ac); err != nil {
				continue
			}
			if !ac.Success {
				logger.Printf("action %s rejected: %s %s", ac.Action, ac.Code, ac.Message)
			}

		case protocol.TypeGameState:
			var gs protocol.GameStateMsg
			if err := json.Unmarshal(msg, &gs); err != nil {
				continue
			}
			act(conn, rng, &gs)
		}
	}
}

// act picks one intent per snapshot: craft when the inputs are on hand,
// otherwise wander and harvest opportunistically.
func act(conn *websocket.Conn, rng *rand.Rand, gs *protocol.GameStateMsg) {
	inv := gs.AgentState.Inventory
	if inv[world.ResourceOre] >= 1 && inv[world.ResourceFuel] >= 1 {
		sendCommand(conn, protocol.ActionCraft, nil)
		return
	}
	// Harvest roughly half the time; a miss is only a rejected action.
	if rng.Intn(2) == 0 {
		sendCommand(conn, protocol.ActionHarvest, nil)
		return
	}
	dirs := [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	d := dirs[rng.Intn(len(dirs))]
	sendCommand(conn, protocol.ActionMove, protocol.MoveParams{DX: d[0], DY: d[1]})
}

func sendCommand(conn *websocket.Conn, action string, params any) {
	cmd := map[string]any{"action": action}
	if params != nil {
		cmd["params"] = params
	}
	_ = conn.WriteJSON(cmd)
}
