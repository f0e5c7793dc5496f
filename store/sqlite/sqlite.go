/*
Package sqlite provides the SQLite-backed implementation of the
store.Store interface.

PURPOSE:
  Persists the application state tree - roster, groups, shift
  templates, demand, settings, collective agreements and yearly
  schedules. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

STORAGE SHAPE:
  Reference rows keep their lookup keys as columns and the full value
  as a JSON document. People are stored in the canonical wire shape
  (domain.PersonRecord); legacy field spellings are folded in on read
  via Normalize, so old exports load cleanly. Schedules are stored
  whole per year - the engines replace schedules, they never patch
  them, so a document column matches the write pattern.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: multiple readers don't block, single writer at a time,
  better crash recovery.

USAGE:
  store, err := sqlite.New("./data/skiftet.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  state, err := store.LoadState(ctx, 2025)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - store/store.go: interface definition
  - store/memory: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/skiftet/schedule-engine/domain"
	"github.com/skiftet/schedule-engine/factory"
	"github.com/skiftet/schedule-engine/store"
)

var _ store.Store = (*Store)(nil)

// Store implements store.Store using SQLite.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	factory *factory.AgreementFactory
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, factory: factory.NewAgreementFactory()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Roster
	CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		sector TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		record_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_people_active ON people(active);

	-- Scheduling boundaries ("groups" is reserved in newer SQLite)
	CREATE TABLE IF NOT EXISTS "groups" (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Shift templates
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Singleton rows
	CREATE TABLE IF NOT EXISTS demand (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		config_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		config_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Collective agreements (static reference data)
	CREATE TABLE IF NOT EXISTS agreements (
		id TEXT PRIMARY KEY,
		sector TEXT NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_agreements_sector ON agreements(sector);

	-- Yearly schedules, stored whole (replace-not-patch)
	CREATE TABLE IF NOT EXISTS schedules (
		year INTEGER PRIMARY KEY,
		schedule_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// =============================================================================
// PEOPLE
// =============================================================================

func (s *Store) SavePerson(ctx context.Context, p domain.Person) error {
	raw, err := json.Marshal(p.Record())
	if err != nil {
		return fmt.Errorf("failed to encode person %s: %w", p.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	active := 0
	if p.Active {
		active = 1
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO people (id, name, sector, active, record_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sector = excluded.sector,
			active = excluded.active,
			record_json = excluded.record_json,
			updated_at = excluded.updated_at`,
		p.ID, p.Name(), string(p.Sector), active, string(raw), now(), now())
	if err != nil {
		return fmt.Errorf("failed to save person %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) GetPerson(ctx context.Context, id string) (domain.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT record_json FROM people WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return domain.Person{}, fmt.Errorf("%w: %q", domain.ErrPersonNotFound, id)
	}
	if err != nil {
		return domain.Person{}, fmt.Errorf("failed to load person %s: %w", id, err)
	}
	return decodePerson(raw)
}

func (s *Store) ListPeople(ctx context.Context) ([]domain.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT record_json FROM people ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var out []domain.Person
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		p, err := decodePerson(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) DeletePerson(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM people WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete person %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", domain.ErrPersonNotFound, id)
	}
	return nil
}

func decodePerson(raw string) (domain.Person, error) {
	var rec domain.PersonRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.Person{}, fmt.Errorf("failed to decode person record: %w", err)
	}
	return rec.Normalize(), nil
}

// =============================================================================
// GROUPS
// =============================================================================

func (s *Store) SaveGroup(ctx context.Context, g domain.Group) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to encode group %s: %w", g.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO "groups" (id, name, config_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			updated_at = excluded.updated_at`,
		g.ID, g.Name, string(raw), now(), now())
	if err != nil {
		return fmt.Errorf("failed to save group %s: %w", g.ID, err)
	}
	return nil
}

func (s *Store) ListGroups(ctx context.Context) (map[string]domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT config_json FROM "groups"`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Group)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var g domain.Group
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			return nil, fmt.Errorf("failed to decode group: %w", err)
		}
		out[g.ID] = g
	}
	return out, rows.Err()
}

func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM "groups" WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", domain.ErrGroupNotFound, id)
	}
	return nil
}

// =============================================================================
// SHIFTS
// =============================================================================

func (s *Store) SaveShift(ctx context.Context, sh domain.Shift) error {
	raw, err := json.Marshal(sh)
	if err != nil {
		return fmt.Errorf("failed to encode shift %s: %w", sh.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO shifts (id, name, config_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			updated_at = excluded.updated_at`,
		sh.ID, sh.Name, string(raw), now(), now())
	if err != nil {
		return fmt.Errorf("failed to save shift %s: %w", sh.ID, err)
	}
	return nil
}

func (s *Store) ListShifts(ctx context.Context) (map[string]domain.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT config_json FROM shifts`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Shift)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var sh domain.Shift
		if err := json.Unmarshal([]byte(raw), &sh); err != nil {
			return nil, fmt.Errorf("failed to decode shift: %w", err)
		}
		out[sh.ID] = sh
	}
	return out, rows.Err()
}

func (s *Store) DeleteShift(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", domain.ErrShiftNotFound, id)
	}
	return nil
}

// =============================================================================
// DEMAND / SETTINGS (singleton rows)
// =============================================================================

func (s *Store) SaveDemand(ctx context.Context, d domain.Demand) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return s.saveSingleton(ctx, "demand", d)
}

func (s *Store) GetDemand(ctx context.Context) (domain.Demand, error) {
	var d domain.Demand
	err := s.loadSingleton(ctx, "demand", &d)
	return d, err
}

func (s *Store) SaveSettings(ctx context.Context, st domain.Settings) error {
	return s.saveSingleton(ctx, "settings", st)
}

func (s *Store) GetSettings(ctx context.Context) (domain.Settings, error) {
	var st domain.Settings
	err := s.loadSingleton(ctx, "settings", &st)
	return st, err
}

func (s *Store) saveSingleton(ctx context.Context, table string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", table, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, config_json, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			config_json = excluded.config_json,
			updated_at = excluded.updated_at`, table)
	if _, err := s.db.ExecContext(ctx, query, string(raw), now()); err != nil {
		return fmt.Errorf("failed to save %s: %w", table, err)
	}
	return nil
}

// loadSingleton leaves v at its zero value when no row exists yet.
func (s *Store) loadSingleton(ctx context.Context, table string, v any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	query := fmt.Sprintf(`SELECT config_json FROM %s WHERE id = 1`, table)
	err := s.db.QueryRowContext(ctx, query).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", table, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", table, err)
	}
	return nil
}

// =============================================================================
// AGREEMENTS
// =============================================================================

func (s *Store) SaveAgreement(ctx context.Context, a domain.CollectiveAgreement) error {
	raw, err := json.Marshal(s.factory.ToJSON(a))
	if err != nil {
		return fmt.Errorf("failed to encode agreement %s: %w", a.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO agreements (id, sector, config_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sector = excluded.sector,
			config_json = excluded.config_json,
			updated_at = excluded.updated_at`,
		a.ID, string(a.Sector), string(raw), now(), now())
	if err != nil {
		return fmt.Errorf("failed to save agreement %s: %w", a.ID, err)
	}
	return nil
}

func (s *Store) GetAgreement(ctx context.Context, id string) (domain.CollectiveAgreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT config_json FROM agreements WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return domain.CollectiveAgreement{}, fmt.Errorf("%w: %q", domain.ErrAgreementNotFound, id)
	}
	if err != nil {
		return domain.CollectiveAgreement{}, fmt.Errorf("failed to load agreement %s: %w", id, err)
	}
	return s.decodeAgreement(raw)
}

func (s *Store) ListAgreements(ctx context.Context) ([]domain.CollectiveAgreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT config_json FROM agreements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list agreements: %w", err)
	}
	defer rows.Close()

	var out []domain.CollectiveAgreement
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		a, err := s.decodeAgreement(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) decodeAgreement(raw string) (domain.CollectiveAgreement, error) {
	var aj factory.AgreementJSON
	if err := json.Unmarshal([]byte(raw), &aj); err != nil {
		return domain.CollectiveAgreement{}, fmt.Errorf("failed to decode agreement: %w", err)
	}
	return s.factory.FromJSON(aj)
}

// =============================================================================
// SCHEDULES
// =============================================================================

func (s *Store) SaveSchedule(ctx context.Context, sched domain.Schedule) error {
	if err := sched.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(sched)
	if err != nil {
		return fmt.Errorf("failed to encode schedule %d: %w", sched.Year, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schedules (year, schedule_json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			schedule_json = excluded.schedule_json,
			updated_at = excluded.updated_at`,
		sched.Year, string(raw), now())
	if err != nil {
		return fmt.Errorf("failed to save schedule %d: %w", sched.Year, err)
	}
	return nil
}

// GetSchedule returns the stored schedule for the year, or a fresh
// empty one when none has been saved yet.
func (s *Store) GetSchedule(ctx context.Context, year int) (domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT schedule_json FROM schedules WHERE year = ?`, year).Scan(&raw)
	if err == sql.ErrNoRows {
		return domain.NewSchedule(year), nil
	}
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("failed to load schedule %d: %w", year, err)
	}

	var sched domain.Schedule
	if err := json.Unmarshal([]byte(raw), &sched); err != nil {
		return domain.Schedule{}, fmt.Errorf("failed to decode schedule %d: %w", year, err)
	}
	if err := sched.Validate(); err != nil {
		return domain.Schedule{}, err
	}
	return sched, nil
}

// =============================================================================
// WHOLE-TREE SNAPSHOTS
// =============================================================================

// LoadState assembles the full application tree for a year.
func (s *Store) LoadState(ctx context.Context, year int) (*domain.State, error) {
	people, err := s.ListPeople(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := s.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	shifts, err := s.ListShifts(ctx)
	if err != nil {
		return nil, err
	}
	demand, err := s.GetDemand(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	sched, err := s.GetSchedule(ctx, year)
	if err != nil {
		return nil, err
	}

	return &domain.State{
		People:   people,
		Groups:   groups,
		Shifts:   shifts,
		Demand:   demand,
		Schedule: sched,
		Settings: settings,
	}, nil
}

// SaveState replaces the stored tree with the given state. The roster,
// groups and shifts are replaced wholesale; the engines never patch.
func (s *Store) SaveState(ctx context.Context, state *domain.State) error {
	if err := state.Schedule.Validate(); err != nil {
		return err
	}
	if err := state.Demand.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"people", `"groups"`, "shifts"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	ts := now()
	for _, p := range state.People {
		raw, err := json.Marshal(p.Record())
		if err != nil {
			return fmt.Errorf("failed to encode person %s: %w", p.ID, err)
		}
		active := 0
		if p.Active {
			active = 1
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO people (id, name, sector, active, record_json, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name(), string(p.Sector), active, string(raw), ts, ts); err != nil {
			return fmt.Errorf("failed to save person %s: %w", p.ID, err)
		}
	}
	for _, g := range state.Groups {
		raw, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("failed to encode group %s: %w", g.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO "groups" (id, name, config_json, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`, g.ID, g.Name, string(raw), ts, ts); err != nil {
			return fmt.Errorf("failed to save group %s: %w", g.ID, err)
		}
	}
	for _, sh := range state.Shifts {
		raw, err := json.Marshal(sh)
		if err != nil {
			return fmt.Errorf("failed to encode shift %s: %w", sh.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO shifts (id, name, config_json, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`, sh.ID, sh.Name, string(raw), ts, ts); err != nil {
			return fmt.Errorf("failed to save shift %s: %w", sh.ID, err)
		}
	}

	demandRaw, err := json.Marshal(state.Demand)
	if err != nil {
		return fmt.Errorf("failed to encode demand: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO demand (id, config_json, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET config_json = excluded.config_json, updated_at = excluded.updated_at`,
		string(demandRaw), ts); err != nil {
		return fmt.Errorf("failed to save demand: %w", err)
	}

	settingsRaw, err := json.Marshal(state.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO settings (id, config_json, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET config_json = excluded.config_json, updated_at = excluded.updated_at`,
		string(settingsRaw), ts); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	schedRaw, err := json.Marshal(state.Schedule)
	if err != nil {
		return fmt.Errorf("failed to encode schedule: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO schedules (year, schedule_json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(year) DO UPDATE SET schedule_json = excluded.schedule_json, updated_at = excluded.updated_at`,
		state.Schedule.Year, string(schedRaw), ts); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state: %w", err)
	}
	return nil
}
