/*
handlers.go - HTTP API handlers for the scheduling engine

PURPOSE:
  Exposes the roster, schedule generation and statistics via REST.
  Handles HTTP request/response, JSON serialization, and delegates to
  domain logic.

ENDPOINTS:
  People:
    GET    /api/people                 List roster
    POST   /api/people                 Create person
    GET    /api/people/{id}            Get person
    PUT    /api/people/{id}            Update person
    DELETE /api/people/{id}            Remove person
    GET    /api/people/{id}/vacation   Vacation entitlement view

  Groups / shifts / demand / settings:
    standard CRUD; demand and settings are singletons (PUT replaces)

  Agreements:
    GET    /api/agreements             List agreements (incl. built-ins)
    POST   /api/agreements             Create from JSON config
    GET    /api/agreements/{id}        Get agreement

  Schedule:
    GET    /api/schedule?year=         Get the year's schedule
    POST   /api/schedule/generate      Flat shift-list generation
    POST   /api/schedule/engine-run    Role-based month fill
    POST   /api/schedule/plan-extra    Extra-day (X) planning

  Stats:
    GET    /api/stats/month?year=&month=
    GET    /api/stats/year?year=
    GET    /api/stats/cost?year=&month=&agreement=

  Holidays:
    GET    /api/holidays/{year}        Red-day table for a year

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (engine, planner, stats, hrrules)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

PROPOSED-STATE CONTRACT:
  Generation endpoints run against a cloned state and return the
  outcome. Nothing is persisted unless the request sets commit=true;
  the stored schedule is then replaced, never patched.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - rollover.go: Vacation-year rollover scheduler
*/
package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skiftet/schedule-engine/domain"
	"github.com/skiftet/schedule-engine/factory"
	"github.com/skiftet/schedule-engine/holidays"
	"github.com/skiftet/schedule-engine/hrrules"
	"github.com/skiftet/schedule-engine/rules"
	"github.com/skiftet/schedule-engine/scheduler"
	"github.com/skiftet/schedule-engine/stats"
	"github.com/skiftet/schedule-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    store.Store
	Factory  *factory.AgreementFactory
	Calendar *holidays.Calendar

	engine    *scheduler.Engine
	planner   *scheduler.Planner
	generator *scheduler.Generator
	stats     *stats.Calculator
}

// NewHandler wires the default evaluator, planner and stats calculator
// on top of the given store.
func NewHandler(st store.Store) *Handler {
	cal := holidays.NewCalendar()
	ev := scheduler.NewDefaultEvaluator(cal)
	return &Handler{
		Store:     st,
		Factory:   factory.NewAgreementFactory(),
		Calendar:  cal,
		engine:    scheduler.NewEngine(ev),
		planner:   scheduler.NewPlanner(ev, cal),
		generator: scheduler.NewGenerator(rules.NewEvaluator(cal)),
		stats:     stats.NewCalculator(cal),
	}
}

// =============================================================================
// PEOPLE HANDLERS
// =============================================================================

// ListPeople returns the roster, active and inactive.
func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.Store.ListPeople(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list people", err)
		return
	}

	records := make([]domain.PersonRecord, len(people))
	for i, p := range people {
		records[i] = p.Record()
	}
	writeJSON(w, http.StatusOK, records)
}

// GetPerson returns a single person.
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Store.GetPerson(r.Context(), id)
	if err != nil {
		writeStoreError(w, "Failed to get person", err)
		return
	}
	writeJSON(w, http.StatusOK, p.Record())
}

// CreatePerson creates a roster member. Legacy field names (degree,
// groupIds) in the body are folded into the canonical fields.
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var rec domain.PersonRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	p := rec.Normalize()
	if ok, problems := hrrules.ValidatePerson(p, p.Sector, domain.Today()); !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid person",
			Details: joinProblems(problems),
		})
		return
	}

	if err := h.Store.SavePerson(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create person", err)
		return
	}
	writeJSON(w, http.StatusCreated, p.Record())
}

// UpdatePerson replaces a roster member.
func (h *Handler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.Store.GetPerson(r.Context(), id); err != nil {
		writeStoreError(w, "Failed to get person", err)
		return
	}

	var rec domain.PersonRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rec.ID = id

	p := rec.Normalize()
	if ok, problems := hrrules.ValidatePerson(p, p.Sector, domain.Today()); !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid person",
			Details: joinProblems(problems),
		})
		return
	}

	if err := h.Store.SavePerson(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update person", err)
		return
	}
	writeJSON(w, http.StatusOK, p.Record())
}

// DeletePerson removes a person from the roster.
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeletePerson(r.Context(), id); err != nil {
		writeStoreError(w, "Failed to delete person", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetVacation returns the entitlement view for one person, derived
// from the tenure tables for their sector.
func (h *Handler) GetVacation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Store.GetPerson(r.Context(), id)
	if err != nil {
		writeStoreError(w, "Failed to get person", err)
		return
	}

	today := domain.Today()
	years := hrrules.YearsEmployed(p.StartDate, p.Sector, today)

	writeJSON(w, http.StatusOK, VacationSummaryDTO{
		PersonID:        p.ID,
		VacationYear:    hrrules.VacationYearLabel(p.Sector, today),
		YearsEmployed:   years,
		EntitledDays:    hrrules.VacationDaysPerYear(years, p.EmploymentPct, p.Sector, p.Age),
		AccumulatedDays: hrrules.AccumulatedVacationDays(p, p.Sector, today),
		SavedDays:       p.SavedVacationDays,
		UsedDays:        p.UsedVacationDays,
		RemainingDays:   hrrules.RemainingVacationDays(p, p.Sector, today),
		ExtraDayBalance: p.ExtraDayBalance,
	})
}

// =============================================================================
// GROUP / SHIFT HANDLERS
// =============================================================================

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Store.ListGroups(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groups", err)
		return
	}
	writeJSON(w, http.StatusOK, sortedGroups(groups))
}

func (h *Handler) SaveGroup(w http.ResponseWriter, r *http.Request) {
	var g domain.Group
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Name == "" {
		writeError(w, http.StatusBadRequest, "Group name is required", nil)
		return
	}

	if err := h.Store.SaveGroup(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save group", err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteGroup(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete group", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Store.ListShifts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}
	writeJSON(w, http.StatusOK, sortedShifts(shifts))
}

func (h *Handler) SaveShift(w http.ResponseWriter, r *http.Request) {
	var s domain.Shift
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Name == "" {
		writeError(w, http.StatusBadRequest, "Shift name is required", nil)
		return
	}

	if err := h.Store.SaveShift(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteShift(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete shift", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// DEMAND / SETTINGS HANDLERS
// =============================================================================

func (h *Handler) GetDemand(w http.ResponseWriter, r *http.Request) {
	demand, err := h.Store.GetDemand(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get demand", err)
		return
	}
	writeJSON(w, http.StatusOK, demand)
}

func (h *Handler) SaveDemand(w http.ResponseWriter, r *http.Request) {
	var d domain.Demand
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := d.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid demand", err)
		return
	}

	if err := h.Store.SaveDemand(r.Context(), d); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save demand", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var s domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if s.Sector != "" && !domain.KnownSector(s.Sector) {
		writeError(w, http.StatusBadRequest, "Unknown sector", nil)
		return
	}

	if err := h.Store.SaveSettings(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// =============================================================================
// AGREEMENT HANDLERS
// =============================================================================

// ListAgreements returns stored agreements plus the built-in defaults
// (stored agreements shadow a built-in with the same id).
func (h *Handler) ListAgreements(w http.ResponseWriter, r *http.Request) {
	stored, err := h.Store.ListAgreements(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list agreements", err)
		return
	}

	byID := make(map[string]domain.CollectiveAgreement)
	if defaults, derr := h.Factory.Defaults(); derr == nil {
		for _, a := range defaults {
			byID[a.ID] = a
		}
	}
	for _, a := range stored {
		byID[a.ID] = a
	}

	out := make([]factory.AgreementJSON, 0, len(byID))
	for _, a := range byID {
		out = append(out, h.Factory.ToJSON(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

// CreateAgreement validates and stores an agreement config.
func (h *Handler) CreateAgreement(w http.ResponseWriter, r *http.Request) {
	var cfg factory.AgreementJSON
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	agreement, err := h.Factory.FromJSON(cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid agreement configuration", err)
		return
	}

	if err := h.Store.SaveAgreement(r.Context(), agreement); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save agreement", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.Factory.ToJSON(agreement))
}

// GetAgreement returns one agreement, checking the store first and the
// built-ins second.
func (h *Handler) GetAgreement(w http.ResponseWriter, r *http.Request) {
	agreement, err := h.lookupAgreement(r, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get agreement", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Factory.ToJSON(agreement))
}

func (h *Handler) lookupAgreement(r *http.Request, id string) (domain.CollectiveAgreement, error) {
	agreement, err := h.Store.GetAgreement(r.Context(), id)
	if err == nil {
		return agreement, nil
	}
	if builtin, berr := h.Factory.Default(id); berr == nil {
		return builtin, nil
	}
	return domain.CollectiveAgreement{}, err
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// GetSchedule returns the stored schedule for a year (an empty tree
// when the year has never been saved).
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	year, ok := queryInt(r, "year")
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing or invalid year", nil)
		return
	}

	sched, err := h.Store.GetSchedule(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

// GenerateSchedule runs the flat-list generator over the stored roster
// and returns the assignment list. Nothing is persisted.
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	people, err := h.Store.ListPeople(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load roster", err)
		return
	}
	groups, err := h.Store.ListGroups(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load groups", err)
		return
	}
	shifts, err := h.Store.ListShifts(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load shifts", err)
		return
	}
	demand, err := h.Store.GetDemand(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load demand", err)
		return
	}

	genReq := scheduler.Request{
		Mode:   scheduler.Mode(req.Mode),
		Year:   req.Year,
		Month:  time.Month(req.Month),
		Groups: sortedGroups(groups),
		Shifts: sortedShifts(shifts),
		Demand: demand,
		People: people,
	}
	if req.FromDate != "" {
		genReq.FromDate, _ = domain.ParseDate(req.FromDate)
	}
	if req.ToDate != "" {
		genReq.ToDate, _ = domain.ParseDate(req.ToDate)
	}

	res := h.generator.Generate(genReq)

	out := GenerateResponse{
		Success: res.Success,
		Shifts:  make([]AssignmentDTO, len(res.Shifts)),
		Message: res.Message,
		Errors:  res.Errors,
	}
	for i, a := range res.Shifts {
		dto := AssignmentDTO{
			Date:       a.Date.String(),
			PersonID:   a.PersonID,
			PersonName: a.PersonName,
			GroupID:    a.GroupID,
			GroupName:  a.GroupName,
			ShiftID:    a.ShiftID,
			ShiftName:  a.ShiftName,
		}
		if a.Start != nil {
			dto.Start = a.Start.String()
		}
		if a.End != nil {
			dto.End = a.End.String()
		}
		out.Shifts[i] = dto
	}

	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, out)
}

// EngineRun fills one month role-wise against the stored state.
func (h *Handler) EngineRun(w http.ResponseWriter, r *http.Request) {
	var req EngineRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	month := time.Month(req.Month)
	if req.Year == 0 || month < time.January || month > time.December {
		writeError(w, http.StatusBadRequest, "Invalid year/month", nil)
		return
	}

	ctx := r.Context()
	state, err := h.Store.LoadState(ctx, req.Year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}

	res, err := h.engine.Generate(state, scheduler.RunOptions{
		Year:            req.Year,
		Month:           month,
		UseDemandTotals: req.UseDemandTotals,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Engine run failed", err)
		return
	}

	committed := false
	if req.Commit {
		if err := h.Store.SaveSchedule(ctx, res.ProposedState.Schedule); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to commit schedule", err)
			return
		}
		committed = true
	}

	out := EngineRunResponse{
		Notes:       res.Notes,
		FillRate:    res.FillRate,
		TotalSlots:  res.TotalSlots,
		FilledSlots: res.FilledSlots,
		Vacancies:   make([]VacancyDTO, len(res.Vacancies)),
		Committed:   committed,
	}
	for i, v := range res.Vacancies {
		out.Vacancies[i] = VacancyDTO{Date: v.Date.String(), Role: string(v.Role), Count: v.Count}
	}
	writeJSON(w, http.StatusOK, out)
}

// PlanExtra converts positive extra-day balances into X entries.
func (h *Handler) PlanExtra(w http.ResponseWriter, r *http.Request) {
	var req PlanExtraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	month := time.Month(req.Month)
	if req.Year == 0 || month < time.January || month > time.December {
		writeError(w, http.StatusBadRequest, "Invalid year/month", nil)
		return
	}

	ctx := r.Context()
	state, err := h.Store.LoadState(ctx, req.Year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}

	res, err := h.planner.PlanExtraDays(state, scheduler.PlanOptions{
		Year:                 req.Year,
		Month:                month,
		MaxPerPersonPerMonth: req.MaxPerPersonPerMonth,
		PreferWeekdays:       true,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Extra-day planning failed", err)
		return
	}

	committed := false
	if req.Commit {
		if err := h.Store.SaveSchedule(ctx, res.ProposedState.Schedule); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to commit schedule", err)
			return
		}
		committed = true
	}

	out := PlanExtraResponse{
		Planned:   make([]PlannedPersonDTO, len(res.Planned)),
		Unplanned: make([]UnplannedPersonDTO, len(res.Unplanned)),
		Notes:     res.Notes,
		Committed: committed,
	}
	for i, p := range res.Planned {
		dates := make([]string, len(p.Dates))
		for j, d := range p.Dates {
			dates[j] = d.String()
		}
		out.Planned[i] = PlannedPersonDTO{PersonID: p.PersonID, Dates: dates}
	}
	for i, u := range res.Unplanned {
		out.Unplanned[i] = UnplannedPersonDTO{PersonID: u.PersonID, Remaining: u.Remaining}
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// STATS HANDLERS
// =============================================================================

func (h *Handler) MonthStats(w http.ResponseWriter, r *http.Request) {
	year, ok := queryInt(r, "year")
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing or invalid year", nil)
		return
	}
	monthN, ok := queryInt(r, "month")
	if !ok || monthN < 1 || monthN > 12 {
		writeError(w, http.StatusBadRequest, "Missing or invalid month", nil)
		return
	}

	state, err := h.Store.LoadState(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}

	perPerson := h.stats.MonthStats(state, year, time.Month(monthN))
	writeJSON(w, http.StatusOK, statsDTOs(perPerson))
}

func (h *Handler) YearStats(w http.ResponseWriter, r *http.Request) {
	year, ok := queryInt(r, "year")
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing or invalid year", nil)
		return
	}

	state, err := h.Store.LoadState(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}

	perPerson := h.stats.YearStats(state, year)
	writeJSON(w, http.StatusOK, statsDTOs(perPerson))
}

// CostStats prices a month against an agreement's wage tables.
func (h *Handler) CostStats(w http.ResponseWriter, r *http.Request) {
	year, ok := queryInt(r, "year")
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing or invalid year", nil)
		return
	}
	monthN, ok := queryInt(r, "month")
	if !ok || monthN < 1 || monthN > 12 {
		writeError(w, http.StatusBadRequest, "Missing or invalid month", nil)
		return
	}
	agreementID := r.URL.Query().Get("agreement")
	if agreementID == "" {
		writeError(w, http.StatusBadRequest, "Missing agreement id", nil)
		return
	}

	agreement, err := h.lookupAgreement(r, agreementID)
	if err != nil {
		writeStoreError(w, "Failed to get agreement", err)
		return
	}

	state, err := h.Store.LoadState(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}

	summary := h.stats.CostSummary(state, agreement, year, time.Month(monthN))

	out := CostSummaryDTO{
		Year:      summary.Year,
		Month:     int(summary.Month),
		Agreement: summary.Agreement,
		ByPerson:  make([]PersonCostDTO, 0, len(summary.ByPerson)),
		TotalPay:  summary.TotalPay.StringFixed(2),
	}
	for _, pc := range summary.ByPerson {
		out.ByPerson = append(out.ByPerson, PersonCostDTO{
			PersonID:    pc.PersonID,
			Name:        pc.Name,
			HoursWorked: pc.HoursWorked,
			RedDayHours: pc.RedDayHours,
			HourlyWage:  pc.HourlyWage.StringFixed(2),
			BasePay:     pc.BasePay.StringFixed(2),
			OBPremium:   pc.OBPremium.StringFixed(2),
			TotalPay:    pc.TotalPay.StringFixed(2),
		})
	}
	sort.Slice(out.ByPerson, func(i, j int) bool { return out.ByPerson[i].PersonID < out.ByPerson[j].PersonID })
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the Swedish red-day table for a year.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 2200 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	table := h.Calendar.AllHolidays(year)
	dtos := make([]HolidayDTO, 0, len(table))
	for d, name := range table {
		dtos = append(dtos, HolidayDTO{Date: d.String(), Name: name})
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].Date < dtos[j].Date })

	writeJSON(w, http.StatusOK, map[string]any{"year": year, "holidays": dtos})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps the store's not-found sentinels to 404.
func writeStoreError(w http.ResponseWriter, message string, err error) {
	if domain.IsNotFound(err) {
		writeError(w, http.StatusNotFound, message, err)
		return
	}
	writeError(w, http.StatusInternalServerError, message, err)
}

func joinProblems(problems []string) string {
	out := ""
	for i, p := range problems {
		if i > 0 {
			out += "; "
		}
		out += p
	}
	return out
}

func queryInt(r *http.Request, key string) (int, bool) {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0, false
	}
	return v, true
}

func sortedGroups(m map[string]domain.Group) []domain.Group {
	out := make([]domain.Group, 0, len(m))
	for _, g := range m {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedShifts(m map[string]domain.Shift) []domain.Shift {
	out := make([]domain.Shift, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func statsDTOs(perPerson map[string]stats.PersonStats) []PersonStatsDTO {
	out := make([]PersonStatsDTO, 0, len(perPerson))
	for _, ps := range perPerson {
		out = append(out, PersonStatsDTO{
			PersonID:          ps.PersonID,
			Name:              ps.Name,
			HoursWorked:       ps.HoursWorked,
			TargetHours:       ps.TargetHours,
			DaysWorked:        ps.DaysWorked,
			Status:            string(ps.Status),
			RedDaysWorked:     ps.RedDaysWorked,
			ExtraDaysTaken:    ps.ExtraDaysTaken,
			ExtraToPlanDays:   ps.ExtraToPlanDays,
			ExtraNegativeDays: ps.ExtraNegativeDays,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PersonID < out[j].PersonID })
	return out
}
