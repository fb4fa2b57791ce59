// Package domain defines the medication-tracking records shared by the
// aggregator, the services, and the persistence mirror. Medication and
// DoseLog are plain values; the persistence layer stores each collection as
// one JSON document, so these types carry JSON tags matching the stored
// layout and no per-column GORM mapping.
package domain

import (
	"time"
)

// Layouts used for the string-encoded calendar fields.
const (
	// DateLayout is the calendar date format for StartDate, EndDate,
	// RefillDate and DoseLog.Date ("YYYY-MM-DD").
	DateLayout = "2006-01-02"
	// TimeLayout is the zero-padded local time-of-day format ("HH:MM").
	TimeLayout = "15:04"
)

// Mood scores reported when a dose is marked as taken.
const (
	MoodPoor = 1
	MoodOkay = 2
	MoodGood = 3
)

// Palette is the set of display colors offered for new medications. The first
// entry is used when a medication is created without a color.
var Palette = []string{"#3B82F6", "#EF4444", "#10B981", "#F59E0B", "#8B5CF6", "#EC4899", "#06B6D4", "#84CC16"}

// Frequencies lists the informational frequency labels clients usually offer.
// Frequency is never parsed into a schedule; Times drives scheduling.
var Frequencies = []string{
	"Once daily",
	"Twice daily",
	"Three times daily",
	"Four times daily",
	"Every 8 hours",
	"Every 12 hours",
	"As needed",
	"Custom",
}

// Medication is a registered medication with its reminder schedule.
//
// Fields:
//   - ID: opaque UUID assigned at creation, stable for the record's lifetime.
//   - Times: reminder times ("HH:MM"); each entry is one dose slot per day.
//     Duplicates are kept and counted.
//   - EndDate / RefillDate: optional calendar dates, empty when unset.
//   - SideEffects: known side-effect names for the medication (informational).
type Medication struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Dosage       string   `json:"dosage"`
	Frequency    string   `json:"frequency"`
	Times        []string `json:"times"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Color        string   `json:"color"`
	Category     string   `json:"category"`
	SideEffects  []string `json:"sideEffects,omitempty"`
	RefillDate   string   `json:"refillDate,omitempty"`
}

// Clone returns a deep copy of m.
func (m Medication) Clone() Medication {
	m.Times = cloneStrings(m.Times)
	m.SideEffects = cloneStrings(m.SideEffects)
	return m
}

// Slots returns the number of dose slots per day (len(Times)).
func (m Medication) Slots() int { return len(m.Times) }

// DoseKey is the composite identity of a DoseLog.
type DoseKey struct {
	MedicationID string
	Date         string
	Time         string
}

// DoseLog records a dose that was marked as taken. An untaken dose has no
// entry at all; at most one entry exists per DoseKey.
type DoseLog struct {
	MedicationID string     `json:"medicationId"`
	Date         string     `json:"date"`
	Time         string     `json:"time"`
	Taken        bool       `json:"taken"`
	TakenAt      *time.Time `json:"takenAt,omitempty"`
	Mood         *int       `json:"mood,omitempty"`
	SideEffects  []string   `json:"sideEffects"`
}

// Key returns the composite identity of l.
func (l DoseLog) Key() DoseKey {
	return DoseKey{MedicationID: l.MedicationID, Date: l.Date, Time: l.Time}
}

// Clone returns a deep copy of l.
func (l DoseLog) Clone() DoseLog {
	if l.TakenAt != nil {
		t := *l.TakenAt
		l.TakenAt = &t
	}
	if l.Mood != nil {
		m := *l.Mood
		l.Mood = &m
	}
	l.SideEffects = cloneStrings(l.SideEffects)
	return l
}

// CloneMedications deep-copies a medication collection.
func CloneMedications(in []Medication) []Medication {
	out := make([]Medication, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}

// CloneLogs deep-copies a dose log collection.
func CloneLogs(in []DoseLog) []DoseLog {
	out := make([]DoseLog, len(in))
	for i, l := range in {
		out[i] = l.Clone()
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
