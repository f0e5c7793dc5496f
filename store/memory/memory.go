// Package memory provides an in-memory store.Store for testing and dev.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/skiftet/schedule-engine/domain"
	"github.com/skiftet/schedule-engine/store"
)

var _ store.Store = (*Store)(nil)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Store mirrors the SQLite store's behavior, including clone-on-read:
// callers never share memory with the stored tree.
type Store struct {
	mu         sync.RWMutex
	people     map[string]domain.Person
	groups     map[string]domain.Group
	shifts     map[string]domain.Shift
	demand     domain.Demand
	settings   domain.Settings
	agreements map[string]domain.CollectiveAgreement
	schedules  map[int]domain.Schedule
}

func New() *Store {
	return &Store{
		people:     make(map[string]domain.Person),
		groups:     make(map[string]domain.Group),
		shifts:     make(map[string]domain.Shift),
		agreements: make(map[string]domain.CollectiveAgreement),
		schedules:  make(map[int]domain.Schedule),
	}
}

func (s *Store) Close() error { return nil }

// =============================================================================
// PEOPLE
// =============================================================================

func (s *Store) SavePerson(_ context.Context, p domain.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people[p.ID] = p.Clone()
	return nil
}

func (s *Store) GetPerson(_ context.Context, id string) (domain.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people[id]
	if !ok {
		return domain.Person{}, fmt.Errorf("%w: %q", domain.ErrPersonNotFound, id)
	}
	return p.Clone(), nil
}

func (s *Store) ListPeople(_ context.Context) ([]domain.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Person, 0, len(s.people))
	for _, p := range s.people {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (s *Store) DeletePerson(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.people[id]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrPersonNotFound, id)
	}
	delete(s.people, id)
	return nil
}

// =============================================================================
// GROUPS / SHIFTS
// =============================================================================

func (s *Store) SaveGroup(_ context.Context, g domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ShiftIDs = append([]string(nil), g.ShiftIDs...)
	s.groups[g.ID] = g
	return nil
}

func (s *Store) ListGroups(_ context.Context) (map[string]domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Group, len(s.groups))
	for id, g := range s.groups {
		g.ShiftIDs = append([]string(nil), g.ShiftIDs...)
		out[id] = g
	}
	return out, nil
}

func (s *Store) DeleteGroup(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[id]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrGroupNotFound, id)
	}
	delete(s.groups, id)
	return nil
}

func (s *Store) SaveShift(_ context.Context, sh domain.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts[sh.ID] = sh
	return nil
}

func (s *Store) ListShifts(_ context.Context) (map[string]domain.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Shift, len(s.shifts))
	for id, sh := range s.shifts {
		out[id] = sh
	}
	return out, nil
}

func (s *Store) DeleteShift(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shifts[id]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrShiftNotFound, id)
	}
	delete(s.shifts, id)
	return nil
}

// =============================================================================
// DEMAND / SETTINGS / AGREEMENTS
// =============================================================================

func (s *Store) SaveDemand(_ context.Context, d domain.Demand) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.demand = d
	return nil
}

func (s *Store) GetDemand(_ context.Context) (domain.Demand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.demand, nil
}

func (s *Store) SaveSettings(_ context.Context, st domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = st
	return nil
}

func (s *Store) GetSettings(_ context.Context) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Store) SaveAgreement(_ context.Context, a domain.CollectiveAgreement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agreements[a.ID] = a
	return nil
}

func (s *Store) GetAgreement(_ context.Context, id string) (domain.CollectiveAgreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agreements[id]
	if !ok {
		return domain.CollectiveAgreement{}, fmt.Errorf("%w: %q", domain.ErrAgreementNotFound, id)
	}
	return a, nil
}

func (s *Store) ListAgreements(_ context.Context) ([]domain.CollectiveAgreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CollectiveAgreement, 0, len(s.agreements))
	for _, a := range s.agreements {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// SCHEDULES / WHOLE-TREE SNAPSHOTS
// =============================================================================

func (s *Store) SaveSchedule(_ context.Context, sched domain.Schedule) error {
	if err := sched.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[sched.Year] = sched.Clone()
	return nil
}

func (s *Store) GetSchedule(_ context.Context, year int) (domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sched, ok := s.schedules[year]
	if !ok {
		return domain.NewSchedule(year), nil
	}
	return sched.Clone(), nil
}

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

func (s *Store) SaveState(_ context.Context, state *domain.State) error {
	if err := state.Schedule.Validate(); err != nil {
		return err
	}
	if err := state.Demand.Validate(); err != nil {
		return err
	}

	clone := state.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.people = make(map[string]domain.Person, len(clone.People))
	for _, p := range clone.People {
		s.people[p.ID] = p
	}
	s.groups = clone.Groups
	s.shifts = clone.Shifts
	s.demand = clone.Demand
	s.settings = clone.Settings
	s.schedules[clone.Schedule.Year] = clone.Schedule
	return nil
}
