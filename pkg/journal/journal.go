// Package journal records appraisals and decay steps in SQLite so a run can
// be replayed and inspected after the fact.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Appraisal is one engine result applied to an agent.
type Appraisal struct {
	ID          string             `db:"id" json:"id"`
	Agent       string             `db:"agent" json:"agent"`
	Event       string             `db:"event" json:"event"`
	Context     string             `db:"context" json:"context"`
	Personality string             `db:"personality" json:"personality"`
	X           float64            `db:"x" json:"x"`
	Y           float64            `db:"y" json:"y"`
	Label       string             `db:"label" json:"label"`
	WeightsJSON string             `db:"weights_json" json:"-"`
	Weights     map[string]float64 `db:"-" json:"weights"`
	CreatedAt   time.Time          `db:"-" json:"created_at"`
	CreatedMs   int64              `db:"created_ms" json:"-"`
}

// Step is one applied decay step.
type Step struct {
	AppraisalID string    `db:"appraisal_id" json:"appraisal_id"`
	Agent       string    `db:"agent" json:"agent"`
	Step        int       `db:"step" json:"step"`
	Total       int       `db:"total" json:"total"`
	X           float64   `db:"x" json:"x"`
	Y           float64   `db:"y" json:"y"`
	Label       string    `db:"label" json:"label"`
	CreatedAt   time.Time `db:"-" json:"created_at"`
	CreatedMs   int64     `db:"created_ms" json:"-"`
}

// Journal wraps a SQLite connection.
type Journal struct {
	conn *sqlx.DB
}

// Open opens or creates a journal at path. Use MemoryPath for tests.
func Open(path string) (*Journal, error) {
	dsn := path
	if path != MemoryPath {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// A single connection keeps an in-memory database alive and serializes writers.
	conn.SetMaxOpenConns(1)

	j := &Journal{conn: conn}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS appraisals (
		id TEXT PRIMARY KEY,
		agent TEXT NOT NULL,
		event TEXT NOT NULL,
		context TEXT NOT NULL,
		personality TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		label TEXT NOT NULL,
		weights_json TEXT NOT NULL,
		created_ms INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS decay_steps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		appraisal_id TEXT NOT NULL,
		agent TEXT NOT NULL,
		step INTEGER NOT NULL,
		total INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		label TEXT NOT NULL,
		created_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_appraisals_agent ON appraisals(agent, created_ms);
	CREATE INDEX IF NOT EXISTS idx_steps_appraisal ON decay_steps(appraisal_id, step);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// RecordAppraisal stores an appraisal. CreatedAt defaults to now.
func (j *Journal) RecordAppraisal(ctx context.Context, a Appraisal) error {
	weights, err := json.Marshal(a.Weights)
	if err != nil {
		return fmt.Errorf("encode weights: %w", err)
	}
	a.WeightsJSON = string(weights)
	a.CreatedMs = stamp(a.CreatedAt)

	_, err = j.conn.NamedExecContext(ctx, `INSERT INTO appraisals
		(id, agent, event, context, personality, x, y, label, weights_json, created_ms)
		VALUES (:id, :agent, :event, :context, :personality, :x, :y, :label, :weights_json, :created_ms)`, a)
	if err != nil {
		return fmt.Errorf("insert appraisal %s: %w", a.ID, err)
	}
	return nil
}

// RecordStep stores a decay step. CreatedAt defaults to now.
func (j *Journal) RecordStep(ctx context.Context, s Step) error {
	s.CreatedMs = stamp(s.CreatedAt)

	_, err := j.conn.NamedExecContext(ctx, `INSERT INTO decay_steps
		(appraisal_id, agent, step, total, x, y, label, created_ms)
		VALUES (:appraisal_id, :agent, :step, :total, :x, :y, :label, :created_ms)`, s)
	if err != nil {
		return fmt.Errorf("insert step %s/%d: %w", s.AppraisalID, s.Step, err)
	}
	return nil
}

// Appraisals returns the most recent appraisals for an agent, newest first.
// An empty agent matches every agent.
func (j *Journal) Appraisals(ctx context.Context, agent string, limit int) ([]Appraisal, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []Appraisal
	err := j.conn.SelectContext(ctx, &rows, `SELECT
		id, agent, event, context, personality, x, y, label, weights_json, created_ms
		FROM appraisals
		WHERE (? = '' OR agent = ?)
		ORDER BY created_ms DESC, rowid DESC
		LIMIT ?`, agent, agent, limit)
	if err != nil {
		return nil, fmt.Errorf("select appraisals: %w", err)
	}

	for i := range rows {
		if err := json.Unmarshal([]byte(rows[i].WeightsJSON), &rows[i].Weights); err != nil {
			return nil, fmt.Errorf("decode weights of %s: %w", rows[i].ID, err)
		}
		rows[i].CreatedAt = time.UnixMilli(rows[i].CreatedMs)
	}
	return rows, nil
}

// Steps returns the decay steps recorded for an appraisal in step order.
func (j *Journal) Steps(ctx context.Context, appraisalID string) ([]Step, error) {
	var rows []Step
	err := j.conn.SelectContext(ctx, &rows, `SELECT
		appraisal_id, agent, step, total, x, y, label, created_ms
		FROM decay_steps
		WHERE appraisal_id = ?
		ORDER BY step, id`, appraisalID)
	if err != nil {
		return nil, fmt.Errorf("select steps: %w", err)
	}
	for i := range rows {
		rows[i].CreatedAt = time.UnixMilli(rows[i].CreatedMs)
	}
	return rows, nil
}

func stamp(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UnixMilli()
}
