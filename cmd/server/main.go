package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"proxiverse/internal/persistence/indexdb"
	persistlog "proxiverse/internal/persistence/log"
	"proxiverse/internal/sim/tuning"
	"proxiverse/internal/sim/world"
	"proxiverse/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8765", "listen address")
		seed       = flag.Int64("seed", 0, "world seed (overrides tuning when non-zero)")
		tunePath   = flag.String("tuning", "./configs/tuning.yaml", "tuning config path")
		dataDir    = flag.String("data", "./data", "data directory for logs and index")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite read-model index")
		disableLog = flag.Bool("disable_log", false, "disable the jsonl tick log")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tune, err := tuning.Load(*tunePath)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}
	if *seed != 0 {
		tune.World.Seed = *seed
	}

	w, err := world.New(worldConfig(tune))
	if err != nil {
		logger.Fatalf("world: %v", err)
	}

	var tickLoggers []world.TickLogger
	var closers []func() error

	if !*disableLog {
		tl := persistlog.NewTickLogger(*dataDir)
		tickLoggers = append(tickLoggers, tl)
		closers = append(closers, tl.Close)
	}
	if !*disableDB {
		idx, err := indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		if err := idx.RecordTuning(tune); err != nil {
			logger.Fatalf("record tuning: %v", err)
		}
		tickLoggers = append(tickLoggers, idx)
		closers = append(closers, idx.Close)
	}
	if len(tickLoggers) > 0 {
		w.SetTickLogger(multiTickLogger(tickLoggers))
	}

	ctx, cancel := signalContext()
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- w.Run(ctx) }()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		m := w.Metrics()
		tick := w.CurrentTick()
		if m.Tick != 0 {
			tick = m.Tick
		}

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP proxiverse_world_tick Current world tick.\n")
		fmt.Fprintf(rw, "# TYPE proxiverse_world_tick gauge\n")
		fmt.Fprintf(rw, "proxiverse_world_tick %d\n", tick)

		fmt.Fprintf(rw, "# HELP proxiverse_world_agents Current number of agents in the world.\n")
		fmt.Fprintf(rw, "# TYPE proxiverse_world_agents gauge\n")
		fmt.Fprintf(rw, "proxiverse_world_agents %d\n", m.Agents)

		fmt.Fprintf(rw, "# HELP proxiverse_world_clients Current number of connected clients.\n")
		fmt.Fprintf(rw, "# TYPE proxiverse_world_clients gauge\n")
		fmt.Fprintf(rw, "proxiverse_world_clients %d\n", m.Clients)

		fmt.Fprintf(rw, "# HELP proxiverse_world_resources Current number of resource nodes.\n")
		fmt.Fprintf(rw, "# TYPE proxiverse_world_resources gauge\n")
		fmt.Fprintf(rw, "proxiverse_world_resources %d\n", m.Resources)

		fmt.Fprintf(rw, "# HELP proxiverse_action_queue_depth Pending actions awaiting the next tick.\n")
		fmt.Fprintf(rw, "# TYPE proxiverse_action_queue_depth gauge\n")
		fmt.Fprintf(rw, "proxiverse_action_queue_depth %d\n", m.QueueDepth)

		fmt.Fprintf(rw, "# HELP proxiverse_world_step_ms Last tick step duration in milliseconds.\n")
		fmt.Fprintf(rw, "# TYPE proxiverse_world_step_ms gauge\n")
		fmt.Fprintf(rw, "proxiverse_world_step_ms %.3f\n", m.StepMS)
	})
	mux.HandleFunc("/state", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		resp := struct {
			Tick    uint64             `json:"tick"`
			Metrics world.WorldMetrics `json:"metrics"`
		}{
			Tick:    w.CurrentTick(),
			Metrics: w.Metrics(),
		}
		_ = json.NewEncoder(rw).Encode(resp)
	})
	mux.HandleFunc("/status", statusPageHandler(w))
	mux.HandleFunc("/v1/ws", ws.NewServer(w, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()
	go func() {
		err := <-runErr
		if err != nil && err != context.Canceled {
			logger.Printf("world loop: %v", err)
		}
		cancel()
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}

	for _, c := range closers {
		_ = c()
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

type multiTickLogger []world.TickLogger

func (m multiTickLogger) WriteTick(entry world.TickLogEntry) error {
	var first error
	for _, l := range m {
		if err := l.WriteTick(entry); err != nil && first == nil {
			first = err
		}
	}
	return first
}
