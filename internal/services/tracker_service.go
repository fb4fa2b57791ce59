// Package services – TrackerService
//
// TrackerService owns the application state: the medication collection and
// the dose-log collection. It is the only write surface for both. Every
// mutation validates its input, applies the change in memory, and mirrors the
// touched collections to the StateStore while still holding the write lock,
// so store writes happen in mutation order.
//
// Reads take a deep copy under the read lock and run the analytics functions
// on the copy; callers never see shared slices.
//
// When the store write fails the mutation still stands in memory; the method
// returns its result together with an error wrapping ErrPersistence.
//
// Observability: public methods are OpenTelemetry-instrumented and mutations
// are counted in Prometheus.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-med-tracker/internal/analytics"
	"github.com/tbourn/go-med-tracker/internal/domain"
	"github.com/tbourn/go-med-tracker/internal/reference"
)

// MedicationInput carries the fields of a new medication.
type MedicationInput struct {
	Name         string   `json:"name"`
	Dosage       string   `json:"dosage"`
	Frequency    string   `json:"frequency"`
	Times        []string `json:"times"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Instructions string   `json:"instructions"`
	Color        string   `json:"color"`
	Category     string   `json:"category"`
	SideEffects  []string `json:"sideEffects"`
	RefillDate   string   `json:"refillDate"`
}

// MedicationPatch is a partial update. Nil fields are left unchanged; an
// empty string clears an optional field.
type MedicationPatch struct {
	Name         *string   `json:"name"`
	Dosage       *string   `json:"dosage"`
	Frequency    *string   `json:"frequency"`
	Times        *[]string `json:"times"`
	StartDate    *string   `json:"startDate"`
	EndDate      *string   `json:"endDate"`
	Instructions *string   `json:"instructions"`
	Color        *string   `json:"color"`
	Category     *string   `json:"category"`
	SideEffects  *[]string `json:"sideEffects"`
	RefillDate   *string   `json:"refillDate"`
}

// DoseInput identifies a dose slot and what was reported when taking it.
// An empty Date means today.
type DoseInput struct {
	MedicationID string   `json:"medicationId"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Mood         *int     `json:"mood"`
	SideEffects  []string `json:"sideEffects"`
}

// DoseResult is the outcome of MarkDoseTaken.
type DoseResult struct {
	Log     domain.DoseLog `json:"log"`
	Created bool           `json:"created"`
	Message string         `json:"message"`
}

// AnalyticsReport bundles the adherence views.
type AnalyticsReport struct {
	Adherence   analytics.Adherence        `json:"adherence"`
	Medications []analytics.MedicationStat `json:"medications"`
	Mood        []analytics.MoodPoint      `json:"mood"`
}

// InsightsReport is the insights summary plus the canned recommendations.
type InsightsReport struct {
	Summary         analytics.Summary          `json:"summary"`
	Recommendations []reference.Recommendation `json:"recommendations"`
}

// InteractionsReport lists interaction findings among the current medications.
type InteractionsReport struct {
	Findings []analytics.InteractionFinding `json:"findings"`
	Counts   analytics.RiskCounts           `json:"counts"`
}

// TrackerService provides the Mutation API and the derived read views.
type TrackerService struct {
	// Store mirrors the collections; nil disables persistence.
	Store StateStore
	// Reference is the interaction and recommendation data.
	Reference reference.Table
	// Location defines the local calendar day. Nil means time.Local.
	Location *time.Location
	// Now is the clock; nil means time.Now.
	Now func() time.Time
	// AdherenceWindowDays and RefillHorizonDays default to 7 when <= 0.
	AdherenceWindowDays int
	RefillHorizonDays   int

	mu   sync.RWMutex
	meds []domain.Medication
	logs []domain.DoseLog
}

// NewTrackerService constructs an empty TrackerService. Call Load to hydrate
// it from the store.
func NewTrackerService(store StateStore, ref reference.Table, loc *time.Location) *TrackerService {
	return &TrackerService{
		Store:               store,
		Reference:           ref,
		Location:            loc,
		AdherenceWindowDays: analytics.DefaultWindowDays,
		RefillHorizonDays:   analytics.DefaultRefillHorizonDays,
		meds:                []domain.Medication{},
		logs:                []domain.DoseLog{},
	}
}

// Load replaces the in-memory collections with the stored ones. A missing key
// is an empty collection. A value that does not parse is logged and treated
// as empty. Only store read failures are returned.
func (s *TrackerService) Load(ctx context.Context) error {
	tr := otel.Tracer("services/TrackerService")
	ctx, span := tr.Start(ctx, "Load")
	defer span.End()

	meds := []domain.Medication{}
	logs := []domain.DoseLog{}
	if s.Store != nil {
		var err error
		if meds, err = readCollection[domain.Medication](ctx, s.Store, KeyMedications); err != nil {
			return err
		}
		if logs, err = readCollection[domain.DoseLog](ctx, s.Store, KeyMedicationLogs); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.meds, s.logs = meds, logs
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("medications", len(meds)), attribute.Int("logs", len(logs)))
	log.Info().Int("medications", len(meds)).Int("logs", len(logs)).Msg("tracker state loaded")
	return nil
}

func readCollection[T any](ctx context.Context, store StateStore, key string) ([]T, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	out := []T{}
	if !ok || strings.TrimSpace(raw) == "" {
		return out, nil
	}
	var v []T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		malformed(key, err)
		return out, nil
	}
	if v != nil {
		out = v
	}
	return out, nil
}

func malformed(key string, err error) {
	malformedState.WithLabelValues(key).Inc()
	log.Warn().Err(err).Str("key", key).Msg("persisted state is malformed; starting with an empty collection")
}

// AddMedication validates in, assigns a fresh id and appends the medication.
// No uniqueness is enforced on name or dosage.
func (s *TrackerService) AddMedication(ctx context.Context, in MedicationInput) (*domain.Medication, error) {
	tr := otel.Tracer("services/TrackerService")
	ctx, span := tr.Start(ctx, "AddMedication")
	defer span.End()

	m, err := s.newMedication(in)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("medication.id", m.ID))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.meds = append(s.meds, m)
	mutationsTotal.WithLabelValues("add_medication").Inc()

	out := m.Clone()
	return &out, s.persistLocked(ctx, KeyMedications)
}

func (s *TrackerService) newMedication(in MedicationInput) (domain.Medication, error) {
	var (
		m   domain.Medication
		err error
	)
	if m.Name, err = checkRequired("name", in.Name); err != nil {
		return m, err
	}
	if m.Dosage, err = checkRequired("dosage", in.Dosage); err != nil {
		return m, err
	}
	if m.Frequency, err = checkRequired("frequency", in.Frequency); err != nil {
		return m, err
	}
	if m.Times, err = checkTimes(in.Times); err != nil {
		return m, err
	}
	if m.StartDate, err = checkOptionalDate("startDate", in.StartDate); err != nil {
		return m, err
	}
	if m.StartDate == "" {
		m.StartDate = analytics.DateOf(s.now())
	}
	if m.EndDate, err = checkOptionalDate("endDate", in.EndDate); err != nil {
		return m, err
	}
	if m.RefillDate, err = checkOptionalDate("refillDate", in.RefillDate); err != nil {
		return m, err
	}

	m.ID = uuid.NewString()
	m.Instructions = strings.TrimSpace(in.Instructions)
	m.Color = strings.TrimSpace(in.Color)
	if m.Color == "" {
		m.Color = domain.Palette[0]
	}
	m.Category = strings.TrimSpace(in.Category)
	if m.Category == "" {
		m.Category = DefaultCategory
	}
	m.SideEffects = cleanNames(in.SideEffects)
	return m, nil
}

// UpdateMedication merges the non-nil fields of p into the medication with
// the given id. An unknown id changes nothing and returns
// ErrMedicationNotFound.
func (s *TrackerService) UpdateMedication(ctx context.Context, id string, p MedicationPatch) (*domain.Medication, error) {
	tr := otel.Tracer("services/TrackerService")
	ctx, span := tr.Start(ctx, "UpdateMedication",
		trace.WithAttributes(attribute.String("medication.id", id)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, ErrMedicationNotFound
	}
	m, err := applyPatch(s.meds[i].Clone(), p)
	if err != nil {
		return nil, err
	}
	s.meds[i] = m
	mutationsTotal.WithLabelValues("update_medication").Inc()

	out := m.Clone()
	return &out, s.persistLocked(ctx, KeyMedications)
}

// applyPatch validates each present field and merges it into m.
func applyPatch(m domain.Medication, p MedicationPatch) (domain.Medication, error) {
	var err error
	if p.Name != nil {
		if m.Name, err = checkRequired("name", *p.Name); err != nil {
			return m, err
		}
	}
	if p.Dosage != nil {
		if m.Dosage, err = checkRequired("dosage", *p.Dosage); err != nil {
			return m, err
		}
	}
	if p.Frequency != nil {
		if m.Frequency, err = checkRequired("frequency", *p.Frequency); err != nil {
			return m, err
		}
	}
	if p.Times != nil {
		if m.Times, err = checkTimes(*p.Times); err != nil {
			return m, err
		}
	}
	if p.StartDate != nil {
		v, err := checkOptionalDate("startDate", *p.StartDate)
		if err != nil {
			return m, err
		}
		if v == "" {
			return m, invalid("startDate", "cannot be cleared")
		}
		m.StartDate = v
	}
	if p.EndDate != nil {
		if m.EndDate, err = checkOptionalDate("endDate", *p.EndDate); err != nil {
			return m, err
		}
	}
	if p.RefillDate != nil {
		if m.RefillDate, err = checkOptionalDate("refillDate", *p.RefillDate); err != nil {
			return m, err
		}
	}
	if p.Instructions != nil {
		m.Instructions = strings.TrimSpace(*p.Instructions)
	}
	if p.Color != nil {
		if c := strings.TrimSpace(*p.Color); c != "" {
			m.Color = c
		}
	}
	if p.Category != nil {
		if c := strings.TrimSpace(*p.Category); c != "" {
			m.Category = c
		}
	}
	if p.SideEffects != nil {
		m.SideEffects = cleanNames(*p.SideEffects)
	}
	return m, nil
}

// DeleteMedication removes the medication and every dose log that refers to
// it in one critical section. An unknown id changes nothing and returns
// ErrMedicationNotFound.
func (s *TrackerService) DeleteMedication(ctx context.Context, id string) error {
	tr := otel.Tracer("services/TrackerService")
	ctx, span := tr.Start(ctx, "DeleteMedication",
		trace.WithAttributes(attribute.String("medication.id", id)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return ErrMedicationNotFound
	}
	meds := make([]domain.Medication, 0, len(s.meds)-1)
	meds = append(meds, s.meds[:i]...)
	s.meds = append(meds, s.meds[i+1:]...)

	kept := make([]domain.DoseLog, 0, len(s.logs))
	for _, l := range s.logs {
		if l.MedicationID != id {
			kept = append(kept, l)
		}
	}
	span.SetAttributes(attribute.Int("logs.removed", len(s.logs)-len(kept)))
	s.logs = kept
	mutationsTotal.WithLabelValues("delete_medication").Inc()

	return s.persistLocked(ctx, KeyMedications, KeyMedicationLogs)
}

// MarkDoseTaken records that the dose at (medication, date, time) was taken.
// An existing entry for the key is updated in place: taken is set, the taken
// timestamp becomes now, and mood and side effects are overwritten with the
// supplied values even when they are nil. Otherwise a new entry is appended.
//
// The medication must exist; an unknown id changes nothing and returns
// ErrMedicationNotFound.
func (s *TrackerService) MarkDoseTaken(ctx context.Context, in DoseInput) (*DoseResult, error) {
	tr := otel.Tracer("services/TrackerService")
	ctx, span := tr.Start(ctx, "MarkDoseTaken",
		trace.WithAttributes(
			attribute.String("medication.id", in.MedicationID),
			attribute.String("dose.time", in.Time),
		),
	)
	defer span.End()

	now := s.now()
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = analytics.DateOf(now)
	} else if !validDate(date) {
		return nil, invalid("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", date))
	}
	at := strings.TrimSpace(in.Time)
	if !validTime(at) {
		return nil, invalid("time", fmt.Sprintf("%q is not a HH:MM time", at))
	}
	if err := checkMood(in.Mood); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mi := s.indexLocked(in.MedicationID)
	if mi < 0 {
		return nil, ErrMedicationNotFound
	}

	takenAt := now
	entry := domain.DoseLog{
		MedicationID: in.MedicationID,
		Date:         date,
		Time:         at,
		Taken:        true,
		TakenAt:      &takenAt,
		Mood:         in.Mood,
		SideEffects:  cleanNames(in.SideEffects),
	}
	entry = entry.Clone()

	res := &DoseResult{Message: analytics.LoggedMessage(s.meds[mi], at)}
	key := entry.Key()
	found := false
	for i := range s.logs {
		if s.logs[i].Key() == key {
			s.logs[i] = entry
			found = true
			break
		}
	}
	if !found {
		s.logs = append(s.logs, entry)
	}
	res.Created = !found
	res.Log = entry.Clone()
	span.SetAttributes(attribute.Bool("dose.created", res.Created))
	mutationsTotal.WithLabelValues("mark_dose_taken").Inc()

	return res, s.persistLocked(ctx, KeyMedicationLogs)
}

// persistLocked mirrors the named collections to the store. Failures are
// logged, counted, and returned wrapped in ErrPersistence.
func (s *TrackerService) persistLocked(ctx context.Context, keys ...string) error {
	if s.Store == nil {
		return nil
	}
	values := make(map[string]string, len(keys))
	for _, k := range keys {
		var (
			raw []byte
			err error
		)
		switch k {
		case KeyMedications:
			raw, err = json.Marshal(s.meds)
		case KeyMedicationLogs:
			raw, err = json.Marshal(s.logs)
		default:
			err = fmt.Errorf("unknown state key %q", k)
		}
		if err != nil {
			return s.persistFailed(err)
		}
		values[k] = string(raw)
	}
	if err := s.Store.Put(ctx, values); err != nil {
		return s.persistFailed(err)
	}
	return nil
}

func (s *TrackerService) persistFailed(err error) error {
	persistFailures.Inc()
	log.Error().Err(err).Msg("mirroring tracker state failed")
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

func (s *TrackerService) indexLocked(id string) int {
	for i := range s.meds {
		if s.meds[i].ID == id {
			return i
		}
	}
	return -1
}

// ---- reads ----

// Medications returns a copy of the medication collection in insertion order.
func (s *TrackerService) Medications() []domain.Medication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneMedications(s.meds)
}

// Medication returns a copy of the medication with the given id.
func (s *TrackerService) Medication(id string) (*domain.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return nil, ErrMedicationNotFound
	}
	m := s.meds[i].Clone()
	return &m, nil
}

// Logs returns a copy of the dose-log collection. A non-empty medicationID
// filters to that medication.
func (s *TrackerService) Logs(medicationID string) []domain.DoseLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DoseLog, 0, len(s.logs))
	for _, l := range s.logs {
		if medicationID == "" || l.MedicationID == medicationID {
			out = append(out, l.Clone())
		}
	}
	return out
}

// snapshot returns deep copies of both collections.
func (s *TrackerService) snapshot() ([]domain.Medication, []domain.DoseLog) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneMedications(s.meds), domain.CloneLogs(s.logs)
}

// Clock returns the current instant in the tracker's location.
func (s *TrackerService) Clock() time.Time { return s.now() }

func (s *TrackerService) now() time.Time {
	clock := s.Now
	if clock == nil {
		clock = time.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return clock().In(loc)
}

// TodaySchedule returns today's dose slots in time order.
func (s *TrackerService) TodaySchedule(ctx context.Context) []analytics.ScheduleItem {
	_, span := otel.Tracer("services/TrackerService").Start(ctx, "TodaySchedule")
	defer span.End()
	meds, logs := s.snapshot()
	return analytics.TodaySchedule(meds, logs, s.now())
}

// TodayStats returns today's taken/total rollup.
func (s *TrackerService) TodayStats(ctx context.Context) analytics.DayStats {
	_, span := otel.Tracer("services/TrackerService").Start(ctx, "TodayStats")
	defer span.End()
	meds, logs := s.snapshot()
	return analytics.TodayStats(meds, logs, s.now())
}

// Analytics returns adherence over the trailing days (the configured window
// when days <= 0) plus per-medication stats and the mood trend.
func (s *TrackerService) Analytics(ctx context.Context, days int) AnalyticsReport {
	_, span := otel.Tracer("services/TrackerService").Start(ctx, "Analytics",
		trace.WithAttributes(attribute.Int("days", days)),
	)
	defer span.End()
	if days <= 0 {
		days = s.AdherenceWindowDays
	}
	meds, logs := s.snapshot()
	return AnalyticsReport{
		Adherence:   analytics.AdherenceByDay(meds, logs, days, s.now()),
		Medications: analytics.MedicationStats(meds, logs),
		Mood:        analytics.MoodTrend(logs),
	}
}

// Insights returns the summary and the recommendation list.
func (s *TrackerService) Insights(ctx context.Context) InsightsReport {
	_, span := otel.Tracer("services/TrackerService").Start(ctx, "Insights")
	defer span.End()
	meds, logs := s.snapshot()
	recs := make([]reference.Recommendation, len(s.Reference.Recommendations))
	copy(recs, s.Reference.Recommendations)
	return InsightsReport{
		Summary:         analytics.Summarize(meds, logs, s.now(), s.RefillHorizonDays),
		Recommendations: recs,
	}
}

// Interactions checks every pair of current medications against the
// reference table.
func (s *TrackerService) Interactions(ctx context.Context) InteractionsReport {
	_, span := otel.Tracer("services/TrackerService").Start(ctx, "Interactions")
	defer span.End()
	meds, _ := s.snapshot()
	findings := analytics.InteractionsAmong(meds, s.Reference)
	return InteractionsReport{Findings: findings, Counts: analytics.CountRisks(findings)}
}

// DueAt returns the medications with a reminder at the minute of at.
func (s *TrackerService) DueAt(at time.Time) []domain.Medication {
	meds, _ := s.snapshot()
	return analytics.DueAt(meds, at)
}
