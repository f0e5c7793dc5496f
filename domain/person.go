/*
person.go - Roster types: Person, Group, Shift, Demand

PURPOSE:
  The roster side of the data model: who can work (Person), the
  scheduling boundaries (Group), the shift templates people are
  assigned to (Shift), and how many heads each group needs per
  weekday (Demand).

KEY INVARIANTS:
  - EmploymentPct is within [10,100].
  - Availability, when set, has exactly 7 booleans, Monday-indexed.
  - Demand headcounts are within [0,50].
  - A person may only fill a slot for a group they belong to.

SEE ALSO:
  - normalize.go: legacy field spellings (degree, groupIds) are mapped
    to these canonical fields exactly once at the wire boundary
  - hrrules:      entitlement and validation against the agreement
*/
package domain

// =============================================================================
// PERSON
// =============================================================================

// Person is a roster member. Persons are soft-removed from the roster
// (Active=false); historical schedule entries keep referencing them.
type Person struct {
	ID        string
	FirstName string
	LastName  string

	// Employment terms
	StartDate       Date
	EmploymentPct   int // [10,100], fraction of full time
	WorkdaysPerWeek int // [1,7]
	Sector          Sector
	Age             int // 0 = unknown

	// Weekly availability, Monday-indexed. nil = not yet specified.
	Availability []bool

	// Leave state
	VacationDates     []Date
	LeaveDates        []Date
	SavedVacationDays int // carried over from the previous vacation year
	UsedVacationDays  int // used in the current vacation year
	SavedLeaveDays    int
	ExtraDayBalance   int // banked days earned by working red days

	// Scheduling attributes
	Groups []string // group ids the person belongs to
	Skills []Role   // skill flags consumed by the role engine
	Core   bool     // member of the designated core kitchen list

	Active bool
}

// Clone returns a structurally independent copy.
func (p Person) Clone() Person { return clonePerson(p) }

func (p Person) Name() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// InGroup reports group membership.
func (p Person) InGroup(groupID string) bool {
	for _, g := range p.Groups {
		if g == groupID {
			return true
		}
	}
	return false
}

// HasSkill reports whether the person carries the given skill flag.
func (p Person) HasSkill(role Role) bool {
	for _, s := range p.Skills {
		if s == role {
			return true
		}
	}
	return false
}

// AvailableOn reports availability for the weekday of the given date.
// An absent availability array fails closed.
func (p Person) AvailableOn(date Date) bool {
	if len(p.Availability) != 7 {
		return false
	}
	return p.Availability[date.WeekdayIndex()]
}

// OnVacation reports whether date is one of the person's vacation days.
func (p Person) OnVacation(date Date) bool {
	for _, d := range p.VacationDates {
		if d.Equal(date) {
			return true
		}
	}
	return false
}

// OnLeave reports whether date is one of the person's leave days.
func (p Person) OnLeave(date Date) bool {
	for _, d := range p.LeaveDates {
		if d.Equal(date) {
			return true
		}
	}
	return false
}

// =============================================================================
// GROUP - Scheduling boundary
// =============================================================================

type Group struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Color    string   `json:"color,omitempty"`
	ShiftIDs []string `json:"shiftIds,omitempty"` // shift templates linked to this group
}

// HasShift reports whether the shift template is linked to the group.
func (g Group) HasShift(shiftID string) bool {
	for _, id := range g.ShiftIDs {
		if id == shiftID {
			return true
		}
	}
	return false
}

// =============================================================================
// SHIFT TEMPLATE
// =============================================================================

// Shift is a reusable shift template. A nil Start or End means the
// shift is flexible and carries no fixed duration.
type Shift struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Start      *ClockTime `json:"start,omitempty"`
	End        *ClockTime `json:"end,omitempty"`
	BreakStart *ClockTime `json:"breakStart,omitempty"`
	BreakEnd   *ClockTime `json:"breakEnd,omitempty"`
	Color      string     `json:"color,omitempty"`
	CostCenter string     `json:"costCenter,omitempty"`
	Workplace  string     `json:"workplace,omitempty"`
}

// DurationHours returns the shift length in hours, wrapping past
// midnight when End is before Start. Flexible shifts report 0.
func (s Shift) DurationHours() float64 {
	if s.Start == nil || s.End == nil {
		return 0
	}
	return float64(SpanMinutes(*s.Start, *s.End)) / 60
}

// =============================================================================
// ROLE - Skill roles used by the legacy weekday demand template
// =============================================================================

type Role string

const (
	RoleKitchen Role = "KITCHEN"
	RolePack    Role = "PACK"
	RoleDish    Role = "DISH"
	RoleSystem  Role = "SYSTEM"
	RoleAdmin   Role = "ADMIN"
)

// RolePriority is the fill order for role-based generation: scarce and
// critical roles are staffed first.
var RolePriority = []Role{RoleSystem, RoleAdmin, RoleDish, RoleKitchen, RolePack}

// KnownRole reports whether r is one of the enumerated skill roles.
func KnownRole(r Role) bool {
	switch r {
	case RoleKitchen, RolePack, RoleDish, RoleSystem, RoleAdmin:
		return true
	}
	return false
}

// =============================================================================
// DEMAND - Required headcount per group (or role) per weekday
// =============================================================================

const MaxDemandPerSlot = 50

// WeekdayCounts is a Monday-indexed headcount row.
type WeekdayCounts [7]int

// Demand carries both demand shapes: the canonical per-group rows and
// the legacy role-keyed template consumed by the role engine.
type Demand struct {
	GroupDemands map[string]WeekdayCounts `json:"groupDemands,omitempty"`
	ByRole       map[Role]WeekdayCounts   `json:"byRole,omitempty"`
}

// ForGroup returns the demand row for a group; missing groups fail
// closed to an all-zero row.
func (d Demand) ForGroup(groupID string) WeekdayCounts {
	return d.GroupDemands[groupID]
}

// ForRole returns the demand row for a skill role; missing roles fail
// closed to an all-zero row.
func (d Demand) ForRole(role Role) WeekdayCounts {
	return d.ByRole[role]
}

// Validate checks every headcount against [0,MaxDemandPerSlot].
func (d Demand) Validate() error {
	for id, row := range d.GroupDemands {
		for _, n := range row {
			if n < 0 || n > MaxDemandPerSlot {
				return &DemandRangeError{Key: id, Count: n}
			}
		}
	}
	for role, row := range d.ByRole {
		for _, n := range row {
			if n < 0 || n > MaxDemandPerSlot {
				return &DemandRangeError{Key: string(role), Count: n}
			}
		}
	}
	return nil
}
