package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/limaJavier/timetabling-ga/pkg/scheduler"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("run not found")

// Fixed-width so that created_at sorts chronologically as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is a persisted scheduling run: the snapshot it was computed from and what it produced
type Run struct {
	Id        string           `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	Input     model.Input      `json:"input"`
	Config    scheduler.Config `json:"config"`
	Result    scheduler.Result `json:"result"`
}

type Summary struct {
	Id          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Seed        uint64    `json:"seed"`
	Hard        int       `json:"hardViolations"`
	Soft        float64   `json:"softCost"`
	Incomplete  bool      `json:"incomplete"`
	Reason      string    `json:"reason"`
	Generations int       `json:"generations"`
	Elapsed     int64     `json:"elapsedMs"`
	Sessions    int       `json:"sessions"`
}

type Store struct {
	DB *sql.DB
}

// Open opens (creating it if missing) the SQLite database at path and applies pending migrations
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cannot migrate run store: %w", err)
	}
	return &Store{DB: conn}, nil
}

func (store *Store) Close() error {
	return store.DB.Close()
}

func (store *Store) Save(ctx context.Context, run Run) error {
	inputJson, err := json.Marshal(run.Input)
	if err != nil {
		return err
	}
	configJson, err := json.Marshal(run.Config)
	if err != nil {
		return err
	}
	resultJson, err := json.Marshal(run.Result)
	if err != nil {
		return err
	}

	_, err = store.DB.ExecContext(ctx, `INSERT INTO runs(id,created_at,seed,hard_violations,soft_cost,incomplete,reason,generations,elapsed_ms,sessions,input_json,config_json,result_json) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.Id,
		run.CreatedAt.UTC().Format(timeLayout),
		strconv.FormatUint(run.Result.Seed, 10),
		run.Result.Score.Hard,
		run.Result.Score.Soft,
		run.Result.Incomplete,
		string(run.Result.Reason),
		run.Result.Generations,
		run.Result.Elapsed.Milliseconds(),
		len(run.Result.Timetable),
		string(inputJson),
		string(configJson),
		string(resultJson),
	)
	if err != nil {
		return fmt.Errorf("cannot save run %v: %w", run.Id, err)
	}
	return nil
}

func (store *Store) Get(ctx context.Context, id string) (Run, error) {
	var (
		run                               Run
		createdAt                         string
		inputJson, configJson, resultJson string
	)
	err := store.DB.QueryRowContext(ctx, `SELECT id,created_at,input_json,config_json,result_json FROM runs WHERE id=?`, id).
		Scan(&run.Id, &createdAt, &inputJson, &configJson, &resultJson)
	if err == sql.ErrNoRows {
		return Run{}, ErrNotFound
	} else if err != nil {
		return Run{}, err
	}

	if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return Run{}, err
	}
	if err := json.Unmarshal([]byte(inputJson), &run.Input); err != nil {
		return Run{}, fmt.Errorf("cannot decode input of run %v: %w", id, err)
	}
	if err := json.Unmarshal([]byte(configJson), &run.Config); err != nil {
		return Run{}, fmt.Errorf("cannot decode config of run %v: %w", id, err)
	}
	if err := json.Unmarshal([]byte(resultJson), &run.Result); err != nil {
		return Run{}, fmt.Errorf("cannot decode result of run %v: %w", id, err)
	}
	return run, nil
}

// List returns the most recent runs first; limit <= 0 lists every run
func (store *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := store.DB.QueryContext(ctx, `SELECT id,created_at,seed,hard_violations,soft_cost,incomplete,reason,generations,elapsed_ms,sessions FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var (
			summary         Summary
			createdAt, seed string
		)
		if err := rows.Scan(&summary.Id, &createdAt, &seed, &summary.Hard, &summary.Soft, &summary.Incomplete, &summary.Reason, &summary.Generations, &summary.Elapsed, &summary.Sessions); err != nil {
			return nil, err
		}
		if summary.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, err
		}
		if summary.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}
