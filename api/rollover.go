/*
rollover.go - Automated vacation-year rollover

PURPOSE:
  Periodically checks whether a sector's vacation year has turned
  (April 1 for HRF/private, June 1 for Kommunal/municipal) and rolls
  every affected person over: unused days become saved days up to the
  carryover cap, the used counter resets.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - A rollover fires when the sector's vacation-year start falls after
    the previous check, so each turn is applied exactly once per
    process lifetime
  - The first check is anchored at startup; turns that happened before
    the process started are not replayed

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  rs := NewRolloverScheduler(store)
  rs.Start()
  // ... later
  rs.Stop()

SEE ALSO:
  - hrrules: RolloverVacationYear, VacationYearStart
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/skiftet/schedule-engine/domain"
	"github.com/skiftet/schedule-engine/hrrules"
)

// RolloverScheduler applies vacation-year rollovers automatically.
type RolloverScheduler struct {
	Store         PersonStore
	CheckInterval time.Duration
	Enabled       bool

	ticker    *time.Ticker
	stop      chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	lastCheck domain.Date
}

// PersonStore is the slice of the store the scheduler needs.
type PersonStore interface {
	ListPeople(ctx context.Context) ([]domain.Person, error)
	SavePerson(ctx context.Context, p domain.Person) error
}

// NewRolloverScheduler creates a new scheduler.
func NewRolloverScheduler(st PersonStore) *RolloverScheduler {
	return &RolloverScheduler{
		Store:         st,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan struct{}),
		lastCheck:     domain.Today(),
	}
}

// Start begins the scheduler.
func (rs *RolloverScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		log.Println("[Rollover] Disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)
	go rs.run()

	log.Printf("[Rollover] Started with check interval: %v", rs.CheckInterval)
}

// Stop stops the scheduler.
func (rs *RolloverScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		log.Println("[Rollover] Stopped")
	}
}

func (rs *RolloverScheduler) run() {
	defer rs.wg.Done()

	for {
		select {
		case <-rs.ticker.C:
			rs.CheckOnce(context.Background(), domain.Today())
		case <-rs.stop:
			return
		}
	}
}

// CheckOnce rolls over everyone whose vacation year turned between the
// previous check and today. Exported for tests and admin triggers.
func (rs *RolloverScheduler) CheckOnce(ctx context.Context, today domain.Date) {
	rs.mu.Lock()
	since := rs.lastCheck
	rs.lastCheck = today
	rs.mu.Unlock()

	turned := map[domain.Sector]bool{
		domain.SectorPrivate:   vacationYearTurned(domain.SectorPrivate, since, today),
		domain.SectorMunicipal: vacationYearTurned(domain.SectorMunicipal, since, today),
	}
	if !turned[domain.SectorPrivate] && !turned[domain.SectorMunicipal] {
		return
	}

	people, err := rs.Store.ListPeople(ctx)
	if err != nil {
		log.Printf("[Rollover] Error listing people: %v", err)
		return
	}

	rolled := 0
	for _, p := range people {
		if !p.Active || !turned[p.Sector] {
			continue
		}
		// Price the carryover against the ending vacation year, not the
		// one that just started.
		lastDay := hrrules.VacationYearStart(p.Sector, today).AddDays(-1)
		updated := hrrules.RolloverVacationYear(p, p.Sector, lastDay)
		if err := rs.Store.SavePerson(ctx, updated); err != nil {
			log.Printf("[Rollover] Error saving %s: %v", p.ID, err)
			continue
		}
		rolled++
	}

	if rolled > 0 {
		log.Printf("[Rollover] Vacation year turned: %d people rolled over (%s)",
			rolled, hrrules.VacationYearLabel(domain.SectorPrivate, today))
	}
}

// vacationYearTurned reports whether the sector's vacation-year start
// lies in (since, today].
func vacationYearTurned(sector domain.Sector, since, today domain.Date) bool {
	start := hrrules.VacationYearStart(sector, today)
	return start.After(since) && !start.After(today)
}
