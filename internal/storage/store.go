// Package storage keeps a SQLite catalog of computed trajectories.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/orbit"
	"github.com/san-kum/geodesim/internal/storage/migrations"
)

var ErrNotFound = errors.New("run not found")

type Store struct {
	db *sql.DB
}

// Run is one saved computation: its inputs, the policy and stepper it ran
// under, and the result.
type Run struct {
	Name       string
	Params     orbit.Params
	Policy     dynamo.Config
	Integrator string
	Trajectory *orbit.Trajectory
}

type RunMetadata struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	Params     orbit.Params  `json:"params"`
	Policy     dynamo.Config `json:"policy"`
	Integrator string        `json:"integrator"`
	Outcome    orbit.Outcome `json:"outcome"`
	Samples    int           `json:"samples"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Open opens (creating if needed) the catalog at path and applies the
// embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	clean := filepath.Clean(path)
	if dir := filepath.Dir(clean); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	dsn := clean + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save stores the run and its samples in one transaction and returns the new
// run ID. Rejected runs are stored too; they simply have no samples.
func (s *Store) Save(ctx context.Context, run Run) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if run.Trajectory == nil {
		return 0, fmt.Errorf("trajectory is required")
	}
	name := strings.TrimSpace(run.Name)
	if name == "" {
		name = fmt.Sprintf("E=%g L=%g r0=%g", run.Params.E, run.Params.L, run.Params.R0)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	t := run.Trajectory
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (
		   name, energy, angular_momentum, r0, max_steps,
		   step, horizon_margin, outer_radius, integrator,
		   outcome, sample_count, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		name, t.E, t.L, run.Params.R0, run.Params.MaxSteps,
		run.Policy.Step, run.Policy.HorizonMargin, run.Policy.OuterRadius, run.Integrator,
		t.Outcome.String(), t.Len(), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO samples (run_id, idx, r, phi) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare samples: %w", err)
	}
	defer stmt.Close()
	for i, smp := range t.Samples {
		if _, err := stmt.ExecContext(ctx, id, i, smp.R, smp.Phi); err != nil {
			return 0, fmt.Errorf("insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save: %w", err)
	}
	return id, nil
}

const runColumns = `id, name, energy, angular_momentum, r0, max_steps,
	step, horizon_margin, outer_radius, integrator, outcome, sample_count, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunMetadata, error) {
	var (
		m       RunMetadata
		outcome string
		created int64
	)
	err := row.Scan(&m.ID, &m.Name, &m.Params.E, &m.Params.L, &m.Params.R0, &m.Params.MaxSteps,
		&m.Policy.Step, &m.Policy.HorizonMargin, &m.Policy.OuterRadius, &m.Integrator,
		&outcome, &m.Samples, &created)
	if err != nil {
		return RunMetadata{}, err
	}
	o, ok := orbit.ParseOutcome(outcome)
	if !ok {
		return RunMetadata{}, fmt.Errorf("run %d: unknown outcome %q", m.ID, outcome)
	}
	m.Outcome = o
	m.CreatedAt = time.UnixMilli(created).UTC()
	return m, nil
}

// List returns every run, newest first.
func (s *Store) List(ctx context.Context) ([]RunMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunMetadata
	for rows.Next() {
		m, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return out, nil
}

func (s *Store) Load(ctx context.Context, id int64) (RunMetadata, error) {
	if err := ctx.Err(); err != nil {
		return RunMetadata{}, err
	}
	m, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return RunMetadata{}, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return RunMetadata{}, fmt.Errorf("load run %d: %w", id, err)
	}
	return m, nil
}

// LoadTrajectory rebuilds the stored trajectory with its samples in order.
func (s *Store) LoadTrajectory(ctx context.Context, id int64) (*orbit.Trajectory, error) {
	m, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT r, phi FROM samples WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("load samples: %w", err)
	}
	defer rows.Close()

	t := &orbit.Trajectory{
		E:       m.Params.E,
		L:       m.Params.L,
		Outcome: m.Outcome,
		Samples: make([]orbit.Sample, 0, m.Samples),
	}
	for rows.Next() {
		var smp orbit.Sample
		if err := rows.Scan(&smp.R, &smp.Phi); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		t.Samples = append(t.Samples, smp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load samples: %w", err)
	}
	return t, nil
}

// Delete removes a run and, through the foreign key, its samples.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	return nil
}
