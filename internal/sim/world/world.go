package world

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"proxiverse/internal/protocol"
)

type JoinRequest struct {
	Name string
	Out  chan []byte
	Resp chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
}

type RecordedJoin struct {
	AgentID string `json:"agent_id"`
	Name    string `json:"name"`
}

type RecordedAction struct {
	AgentID string `json:"agent_id"`
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
}

type TickLogEntry struct {
	Tick    uint64           `json:"tick"`
	Joins   []RecordedJoin   `json:"joins,omitempty"`
	Leaves  []string         `json:"leaves,omitempty"`
	Evicted []string         `json:"evicted,omitempty"`
	Actions []RecordedAction `json:"actions,omitempty"`
	Digest  string           `json:"digest"`
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

// World is a single-threaded authoritative simulation. Grid and EntityStore
// are owned by the world loop goroutine; the only concurrency-shared entry
// points are the ActionQueue, the join/leave channels and the per-agent
// outbound channels.
type World struct {
	cfg WorldConfig

	tick atomic.Uint64

	grid     *Grid
	store    *EntityStore
	queue    *ActionQueue
	sessions *sessionRegistry

	// Seeded world PRNG: resource spawning is reproducible for a given
	// seed and action stream. Driven only from the world loop.
	rng *rand.Rand

	join  chan JoinRequest
	leave chan string
	stop  chan struct{}

	nextAgentNum    atomic.Uint64
	nextResourceNum atomic.Uint64

	// Optional tick logger (may be nil). Implemented in internal/persistence/*.
	tickLogger TickLogger

	metrics atomic.Value // WorldMetrics
}

func New(cfg WorldConfig) (*World, error) {
	cfg.applyDefaults()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("world dimensions must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	w := &World{
		cfg:      cfg,
		grid:     NewGrid(cfg.Width, cfg.Height),
		store:    NewEntityStore(),
		queue:    NewActionQueue(),
		sessions: newSessionRegistry(),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		join:     make(chan JoinRequest, 64),
		leave:    make(chan string, 64),
		stop:     make(chan struct{}),
	}
	if !cfg.DisableRespawn {
		w.scatterResources(cfg.InitialResources)
	}
	return w, nil
}

func (w *World) SetTickLogger(l TickLogger) { w.tickLogger = l }

func (w *World) Join() chan<- JoinRequest { return w.join }
func (w *World) Leave() chan<- string     { return w.leave }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

func (w *World) Config() WorldConfig { return w.cfg }

// Submit enqueues one pending intent for the agent; callable concurrently
// from connection handlers. A second submission before the next tick boundary
// overwrites the first.
func (w *World) Submit(agentID, action string, params json.RawMessage) error {
	if agentID == "" {
		return fmt.Errorf("submit: empty agent id")
	}
	if action == "" {
		return fmt.Errorf("submit: empty action")
	}
	w.queue.Submit(PendingAction{
		AgentID:       agentID,
		Action:        action,
		Params:        params,
		SubmittedTick: w.tick.Load(),
	})
	return nil
}

// Run drives the tick loop until ctx is canceled, Stop is called, or a
// grid/store invariant violation is detected. The latter returns a non-nil
// error: the world is corrupt and must not keep ticking.
func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingJoins []JoinRequest
	var pendingLeaves []string

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.join:
			pendingJoins = append(pendingJoins, req)
		case id := <-w.leave:
			pendingLeaves = append(pendingLeaves, id)
		case <-ticker.C:
			if err := w.step(pendingJoins, pendingLeaves); err != nil {
				return err
			}
			pendingJoins = pendingJoins[:0]
			pendingLeaves = pendingLeaves[:0]
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// StepOnce advances the world by a single tick with the same ordering
// semantics as the server loop. Intended for deterministic tests and replays.
func (w *World) StepOnce(joins []JoinRequest, leaves []string) (tick uint64, digest string, err error) {
	tick = w.tick.Load()
	err = w.step(joins, leaves)
	return tick, w.stateDigest(tick), err
}

func (w *World) joinAgent(name string, out chan []byte) JoinResponse {
	if name == "" {
		name = fmt.Sprintf("RemoteAgent_%d", w.sessions.clientCount()+1)
	}
	idNum := w.nextAgentNum.Add(1)
	agentID := fmt.Sprintf("A%d", idNum)

	// Spawn in the center of the grid.
	spawn := Vec2i{X: w.cfg.Width / 2, Y: w.cfg.Height / 2}

	a := &Agent{ID: agentID, Name: name, Pos: spawn}
	w.store.UpsertAgent(a)
	if err := w.grid.Place(agentID, spawn.X, spawn.Y); err != nil {
		// Center of a validated grid is always in bounds.
		panic(err)
	}
	w.sessions.register(agentID, out)

	return JoinResponse{Welcome: protocol.WelcomeMsg{
		Type:       protocol.TypeConnectionEstablished,
		AgentID:    agentID,
		AgentName:  name,
		Dimensions: [2]int{w.cfg.Width, w.cfg.Height},
		TickRateHz: w.cfg.TickRateHz,
		Message:    "Connected to Proxiverse server",
	}}
}

// removeEntity removes an entity from Store and Grid as one transaction.
func (w *World) removeEntity(id string) {
	pos, ok := w.store.Position(id)
	if !ok {
		return
	}
	w.grid.Remove(id, pos.X, pos.Y)
	_ = w.store.Remove(id)
}

// verifyPlacement is the corruption tripwire: the Grid cell for the entity's
// canonical position must contain its id. A disagreement means a core bug,
// and ticking further would compound it.
func (w *World) verifyPlacement(id string) error {
	pos, ok := w.store.Position(id)
	if !ok {
		return nil
	}
	if !w.grid.Contains(id, pos.X, pos.Y) {
		return fmt.Errorf("grid/store disagreement for %s at (%d,%d)", id, pos.X, pos.Y)
	}
	return nil
}
