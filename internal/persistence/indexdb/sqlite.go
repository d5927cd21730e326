// Package indexdb maintains a SQLite read-model over the tick log. It is a
// secondary index: writes are dropped under backpressure and the JSONL logs
// remain the source of truth.
package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"proxiverse/internal/sim/tuning"
	"proxiverse/internal/sim/world"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan world.TickLogEntry
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan world.TickLogEntry, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ticks (
			tick INTEGER PRIMARY KEY,
			digest TEXT NOT NULL,
			joins INTEGER NOT NULL,
			leaves INTEGER NOT NULL,
			actions INTEGER NOT NULL,
			raw_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS joins (
			tick INTEGER NOT NULL,
			agent_id TEXT NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (tick, agent_id)
		);`,
		`CREATE TABLE IF NOT EXISTS leaves (
			tick INTEGER NOT NULL,
			agent_id TEXT NOT NULL,
			PRIMARY KEY (tick, agent_id)
		);`,
		`CREATE TABLE IF NOT EXISTS actions (
			tick INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			agent_id TEXT NOT NULL,
			action TEXT NOT NULL,
			success INTEGER NOT NULL,
			code TEXT,
			PRIMARY KEY (tick, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_agent_tick ON actions(agent_id, tick);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// WriteTick queues a tick entry for indexing. Never blocks the world loop:
// entries are dropped when the writer falls behind.
func (s *SQLiteIndex) WriteTick(entry world.TickLogEntry) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- entry:
	default:
	}
	return nil
}

// RecordTuning stores the applied tuning values so an operator can see what
// a database was produced with.
func (s *SQLiteIndex) RecordTuning(tune tuning.Tuning) error {
	if s == nil {
		return nil
	}
	b, err := json.Marshal(tune)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(b)

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('tuning',?)`, string(b)); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('tuning_digest',?)`, hex.EncodeToString(sum[:])); err != nil {
		return err
	}
	return tx.Commit()
}

// LatestTick returns the highest indexed tick, or ok=false on an empty index.
func (s *SQLiteIndex) LatestTick() (tick uint64, digest string, ok bool, err error) {
	row := s.db.QueryRow(`SELECT tick, digest FROM ticks ORDER BY tick DESC LIMIT 1`)
	var t int64
	if err := row.Scan(&t, &digest); err != nil {
		if err == sql.ErrNoRows {
			return 0, "", false, nil
		}
		return 0, "", false, err
	}
	return uint64(t), digest, true, nil
}

// ActionCountFor returns the number of indexed actions submitted by an agent.
func (s *SQLiteIndex) ActionCountFor(agentID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM actions WHERE agent_id=?`, agentID).Scan(&n)
	return n, err
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertTick, _ := s.db.Prepare(`INSERT OR REPLACE INTO ticks(tick,digest,joins,leaves,actions,raw_json) VALUES(?,?,?,?,?,?)`)
	insertJoin, _ := s.db.Prepare(`INSERT OR REPLACE INTO joins(tick,agent_id,name) VALUES(?,?,?)`)
	insertLeave, _ := s.db.Prepare(`INSERT OR REPLACE INTO leaves(tick,agent_id) VALUES(?,?)`)
	insertAction, _ := s.db.Prepare(`INSERT OR REPLACE INTO actions(tick,seq,agent_id,action,success,code) VALUES(?,?,?,?,?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertTick, insertJoin, insertLeave, insertAction} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for entry := range s.ch {
		begin()
		if tx == nil {
			continue
		}

		raw, _ := json.Marshal(entry)
		if insertTick != nil {
			if _, err := tx.Stmt(insertTick).Exec(
				int64(entry.Tick),
				entry.Digest,
				len(entry.Joins),
				len(entry.Leaves),
				len(entry.Actions),
				string(raw),
			); err != nil {
				rollback()
				continue
			}
			opCount++
		}
		for _, j := range entry.Joins {
			if insertJoin == nil {
				break
			}
			if _, err := tx.Stmt(insertJoin).Exec(int64(entry.Tick), j.AgentID, j.Name); err != nil {
				rollback()
				break
			}
			opCount++
		}
		if tx == nil {
			continue
		}
		for _, id := range entry.Leaves {
			if insertLeave == nil {
				break
			}
			if _, err := tx.Stmt(insertLeave).Exec(int64(entry.Tick), id); err != nil {
				rollback()
				break
			}
			opCount++
		}
		if tx == nil {
			continue
		}
		for seq, a := range entry.Actions {
			if insertAction == nil {
				break
			}
			success := 0
			if a.Success {
				success = 1
			}
			if _, err := tx.Stmt(insertAction).Exec(int64(entry.Tick), seq, a.AgentID, a.Action, success, a.Code); err != nil {
				rollback()
				break
			}
			opCount++
		}
		if tx == nil {
			continue
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}
	commit()
}
