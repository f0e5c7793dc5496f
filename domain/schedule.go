/*
schedule.go - The persisted schedule tree: Schedule/Month/Day/Entry

PURPOSE:
  The month/day/entry structure the role engine and extra-day planner
  operate on, and the state tree the store persists. A Schedule always
  holds exactly 12 months; each month holds exactly as many days as the
  calendar says (leap-year aware); each day holds an ordered entry list.

ENTRY STATUS VOCABULARY (fixed, never extended silently):
  A     working
  L     off
  X     extra day taken (banked red-day compensation spent)
  SEM   vacation (semester)
  SJ    sick
  VAB   child-care leave
  PERM  leave of absence
  UTB   training
  EXTRA unfilled vacancy placeholder (PersonID empty)

ISOLATION:
  Engines never mutate the caller's tree. They work on State.Clone()
  and return the proposed tree; the caller decides whether to commit.
  Clone is a structural copy, not a serialize/deserialize round trip.

SEE ALSO:
  - scheduler: fills entries, clears prior A/EXTRA before regenerating
  - stats:     aggregates hours and extra-day balances from entries
*/
package domain

import "time"

// =============================================================================
// ENTRY STATUS
// =============================================================================

type Status string

const (
	StatusWork     Status = "A"
	StatusOff      Status = "L"
	StatusExtraDay Status = "X"
	StatusVacation Status = "SEM"
	StatusSick     Status = "SJ"
	StatusChild    Status = "VAB"
	StatusLeave    Status = "PERM"
	StatusTraining Status = "UTB"
	StatusVacancy  Status = "EXTRA"
)

// KnownStatus reports whether s is in the fixed vocabulary.
func KnownStatus(s Status) bool {
	switch s {
	case StatusWork, StatusOff, StatusExtraDay, StatusVacation,
		StatusSick, StatusChild, StatusLeave, StatusTraining, StatusVacancy:
		return true
	}
	return false
}

// ProtectedStatuses are never overwritten by generators or planners.
var ProtectedStatuses = map[Status]bool{
	StatusVacation: true,
	StatusSick:     true,
	StatusChild:    true,
	StatusLeave:    true,
	StatusTraining: true,
}

// =============================================================================
// ENTRY
// =============================================================================

// Entry is one assignment (or absence) for a person on a day.
// PersonID is empty for EXTRA vacancy placeholders. Time fields
// override shift/month defaults when set.
type Entry struct {
	PersonID   string     `json:"personId,omitempty"`
	Status     Status     `json:"status"`
	Start      *ClockTime `json:"start,omitempty"`
	End        *ClockTime `json:"end,omitempty"`
	BreakStart *ClockTime `json:"breakStart,omitempty"`
	BreakEnd   *ClockTime `json:"breakEnd,omitempty"`
	Role       Role       `json:"role,omitempty"`
	GroupID    string     `json:"groupId,omitempty"`
	ShiftID    string     `json:"shiftId,omitempty"`
}

// IsWorking reports whether the entry represents worked time.
func (e Entry) IsWorking() bool { return e.Status == StatusWork }

// =============================================================================
// DAY / MONTH / SCHEDULE
// =============================================================================

type Day struct {
	Date    Date    `json:"date"`
	Entries []Entry `json:"entries,omitempty"`
}

// EntryFor returns the first entry for the person, if any.
func (d Day) EntryFor(personID string) (Entry, bool) {
	for _, e := range d.Entries {
		if e.PersonID == personID {
			return e, true
		}
	}
	return Entry{}, false
}

// HasEntryFor reports whether the person already appears on this day.
func (d Day) HasEntryFor(personID string) bool {
	_, ok := d.EntryFor(personID)
	return ok
}

type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Days  []Day      `json:"days"`

	// Month-level time defaults, applied when an entry carries none.
	DefaultStart      *ClockTime `json:"defaultStart,omitempty"`
	DefaultEnd        *ClockTime `json:"defaultEnd,omitempty"`
	DefaultBreakStart *ClockTime `json:"defaultBreakStart,omitempty"`
	DefaultBreakEnd   *ClockTime `json:"defaultBreakEnd,omitempty"`
}

type Schedule struct {
	Year   int     `json:"year"`
	Months []Month `json:"months"` // exactly 12, January first
}

// NewSchedule builds an empty schedule for the year with the correct
// day count in every month.
func NewSchedule(year int) Schedule {
	months := make([]Month, 12)
	for m := time.January; m <= time.December; m++ {
		days := make([]Day, DaysInMonth(year, m))
		for i := range days {
			days[i] = Day{Date: NewDate(year, m, i+1)}
		}
		months[m-1] = Month{Year: year, Month: m, Days: days}
	}
	return Schedule{Year: year, Months: months}
}

// Clone returns a structurally independent copy.
func (s Schedule) Clone() Schedule { return cloneSchedule(s) }

// MonthAt returns the month (January = 1). Out-of-range months fail
// closed to nil.
func (s *Schedule) MonthAt(month time.Month) *Month {
	if month < time.January || month > time.December || len(s.Months) != 12 {
		return nil
	}
	return &s.Months[month-1]
}

// Validate checks the structural invariants: 12 months, calendar day
// counts, known statuses.
func (s *Schedule) Validate() error {
	if len(s.Months) != 12 {
		return &ScheduleShapeError{Year: s.Year, Detail: "schedule must hold exactly 12 months"}
	}
	for i := range s.Months {
		m := &s.Months[i]
		want := DaysInMonth(s.Year, time.Month(i+1))
		if len(m.Days) != want {
			return &ScheduleShapeError{Year: s.Year, Month: time.Month(i + 1),
				Detail: "day count does not match calendar"}
		}
		for _, day := range m.Days {
			for _, e := range day.Entries {
				if !KnownStatus(e.Status) {
					return &ScheduleShapeError{Year: s.Year, Month: time.Month(i + 1),
						Detail: "unknown entry status " + string(e.Status)}
				}
			}
		}
	}
	return nil
}

// =============================================================================
// STATE - The full application tree owned by the store
// =============================================================================

type Settings struct {
	DefaultStart      *ClockTime `json:"defaultStart,omitempty"`
	DefaultEnd        *ClockTime `json:"defaultEnd,omitempty"`
	DefaultBreakStart *ClockTime `json:"defaultBreakStart,omitempty"`
	DefaultBreakEnd   *ClockTime `json:"defaultBreakEnd,omitempty"`
	Sector            Sector     `json:"sector,omitempty"`
}

// State is the canonical application tree. Engines receive a snapshot
// and return new values; only the store commits replacements.
type State struct {
	People   []Person
	Groups   map[string]Group
	Shifts   map[string]Shift
	Demand   Demand
	Schedule Schedule
	Settings Settings
}

// PersonByID looks up a roster member.
func (s *State) PersonByID(id string) (Person, bool) {
	for _, p := range s.People {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

// ActivePeople returns the active subset of the roster.
func (s *State) ActivePeople() []Person {
	var out []Person
	for _, p := range s.People {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a structurally independent copy of the state. Mutating
// the clone never touches the original.
func (s *State) Clone() *State {
	out := &State{
		People:   make([]Person, len(s.People)),
		Groups:   make(map[string]Group, len(s.Groups)),
		Shifts:   make(map[string]Shift, len(s.Shifts)),
		Settings: cloneSettings(s.Settings),
	}
	for i, p := range s.People {
		out.People[i] = clonePerson(p)
	}
	for id, g := range s.Groups {
		g.ShiftIDs = append([]string(nil), g.ShiftIDs...)
		out.Groups[id] = g
	}
	for id, sh := range s.Shifts {
		sh.Start = cloneClock(sh.Start)
		sh.End = cloneClock(sh.End)
		sh.BreakStart = cloneClock(sh.BreakStart)
		sh.BreakEnd = cloneClock(sh.BreakEnd)
		out.Shifts[id] = sh
	}
	out.Demand = cloneDemand(s.Demand)
	out.Schedule = cloneSchedule(s.Schedule)
	return out
}

func clonePerson(p Person) Person {
	p.Availability = append([]bool(nil), p.Availability...)
	p.VacationDates = append([]Date(nil), p.VacationDates...)
	p.LeaveDates = append([]Date(nil), p.LeaveDates...)
	p.Groups = append([]string(nil), p.Groups...)
	p.Skills = append([]Role(nil), p.Skills...)
	return p
}

func cloneDemand(d Demand) Demand {
	out := Demand{}
	if d.GroupDemands != nil {
		out.GroupDemands = make(map[string]WeekdayCounts, len(d.GroupDemands))
		for k, v := range d.GroupDemands {
			out.GroupDemands[k] = v
		}
	}
	if d.ByRole != nil {
		out.ByRole = make(map[Role]WeekdayCounts, len(d.ByRole))
		for k, v := range d.ByRole {
			out.ByRole[k] = v
		}
	}
	return out
}

func cloneSchedule(s Schedule) Schedule {
	out := Schedule{Year: s.Year, Months: make([]Month, len(s.Months))}
	for i, m := range s.Months {
		cm := m
		cm.DefaultStart = cloneClock(m.DefaultStart)
		cm.DefaultEnd = cloneClock(m.DefaultEnd)
		cm.DefaultBreakStart = cloneClock(m.DefaultBreakStart)
		cm.DefaultBreakEnd = cloneClock(m.DefaultBreakEnd)
		cm.Days = make([]Day, len(m.Days))
		for j, day := range m.Days {
			cd := Day{Date: day.Date, Entries: make([]Entry, len(day.Entries))}
			for k, e := range day.Entries {
				e.Start = cloneClock(e.Start)
				e.End = cloneClock(e.End)
				e.BreakStart = cloneClock(e.BreakStart)
				e.BreakEnd = cloneClock(e.BreakEnd)
				cd.Entries[k] = e
			}
			cm.Days[j] = cd
		}
		out.Months[i] = cm
	}
	return out
}

func cloneSettings(s Settings) Settings {
	s.DefaultStart = cloneClock(s.DefaultStart)
	s.DefaultEnd = cloneClock(s.DefaultEnd)
	s.DefaultBreakStart = cloneClock(s.DefaultBreakStart)
	s.DefaultBreakEnd = cloneClock(s.DefaultBreakEnd)
	return s
}

func cloneClock(c *ClockTime) *ClockTime {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
