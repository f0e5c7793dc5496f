/*
Package store defines the persistence interface for the application
state tree.

PURPOSE:
  The engines are pure: they consume a State snapshot and return new
  values. The Store owns the canonical tree - roster, groups, shift
  templates, demand, settings, agreements and the yearly schedule -
  and is the only component that commits replacements.

REPLACEMENT SEMANTICS:
  Engines return whole proposed states; SaveState replaces the stored
  tree rather than patching it. Schedules are saved per year and
  validated structurally before the write.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store (WAL, migrate on open)
  - store/memory: in-memory store for tests

SEE ALSO:
  - domain/schedule.go: the State tree being persisted
  - api: the only consumer that writes through this interface
*/
package store

import (
	"context"

	"github.com/skiftet/schedule-engine/domain"
)

// Store persists the application state tree. Missing-id lookups return
// errors wrapping the domain not-found sentinels.
type Store interface {
	// Roster. Deleting removes the person from the roster only;
	// historical schedule entries keep referencing the id.
	SavePerson(ctx context.Context, p domain.Person) error
	GetPerson(ctx context.Context, id string) (domain.Person, error)
	ListPeople(ctx context.Context) ([]domain.Person, error)
	DeletePerson(ctx context.Context, id string) error

	SaveGroup(ctx context.Context, g domain.Group) error
	ListGroups(ctx context.Context) (map[string]domain.Group, error)
	DeleteGroup(ctx context.Context, id string) error

	SaveShift(ctx context.Context, sh domain.Shift) error
	ListShifts(ctx context.Context) (map[string]domain.Shift, error)
	DeleteShift(ctx context.Context, id string) error

	SaveDemand(ctx context.Context, d domain.Demand) error
	GetDemand(ctx context.Context) (domain.Demand, error)

	SaveSettings(ctx context.Context, s domain.Settings) error
	GetSettings(ctx context.Context) (domain.Settings, error)

	// Agreements are static reference data keyed by id.
	SaveAgreement(ctx context.Context, a domain.CollectiveAgreement) error
	GetAgreement(ctx context.Context, id string) (domain.CollectiveAgreement, error)
	ListAgreements(ctx context.Context) ([]domain.CollectiveAgreement, error)

	// Schedules are stored whole, one per year, and validated before
	// the write. Loading a year with no stored schedule returns a
	// fresh empty one.
	SaveSchedule(ctx context.Context, s domain.Schedule) error
	GetSchedule(ctx context.Context, year int) (domain.Schedule, error)

	// Whole-tree snapshot for the engines.
	LoadState(ctx context.Context, year int) (*domain.State, error)
	SaveState(ctx context.Context, state *domain.State) error

	Close() error
}
