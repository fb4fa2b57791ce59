// Package reference holds the static lookup data the tracker reasons over:
// the known drug-interaction pairs and the canned health recommendations.
//
// The data is configuration, not logic. Default returns the built-in tables;
// Load replaces them from a JSON file so the lists can be extended without
// touching the aggregator.
package reference

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-med-tracker/internal/domain"
)

// Interaction is one known pair of interacting medications. Names are
// matched case-insensitively and the order of the two names does not matter.
type Interaction struct {
	Medication1    string          `json:"medication1"`
	Medication2    string          `json:"medication2"`
	Severity       domain.Severity `json:"severity"`
	Description    string          `json:"description"`
	Recommendation string          `json:"recommendation"`
}

// Recommendation is a canned insight shown alongside computed statistics.
type Recommendation struct {
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    domain.Severity `json:"priority"`
}

// Table bundles the reference lists.
type Table struct {
	Interactions    []Interaction    `json:"interactions"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Default returns the built-in reference data.
func Default() Table {
	return Table{
		Interactions: []Interaction{
			{
				Medication1:    "aspirin",
				Medication2:    "warfarin",
				Severity:       domain.SeverityHigh,
				Description:    "Increased risk of bleeding when taken together",
				Recommendation: "Monitor INR levels closely and consult your doctor",
			},
			{
				Medication1:    "metformin",
				Medication2:    "alcohol",
				Severity:       domain.SeverityMedium,
				Description:    "May increase risk of lactic acidosis",
				Recommendation: "Limit alcohol consumption and monitor for symptoms",
			},
			{
				Medication1:    "lisinopril",
				Medication2:    "potassium",
				Severity:       domain.SeverityMedium,
				Description:    "May cause hyperkalemia (high potassium levels)",
				Recommendation: "Monitor potassium levels regularly",
			},
		},
		Recommendations: []Recommendation{
			{
				Type:        "optimization",
				Title:       "Optimize Timing",
				Description: "Consider taking your morning medications 30 minutes earlier for better absorption.",
				Priority:    domain.SeverityMedium,
			},
			{
				Type:        "interaction",
				Title:       "Drug Interaction Alert",
				Description: "Monitor for potential interactions between Aspirin and Warfarin. Consult your doctor.",
				Priority:    domain.SeverityHigh,
			},
			{
				Type:        "adherence",
				Title:       "Adherence Improvement",
				Description: "Your evening medication adherence has improved by 15% this week. Keep it up!",
				Priority:    domain.SeverityLow,
			},
			{
				Type:        "refill",
				Title:       "Refill Reminder",
				Description: "You have 2 medications that need refilling within the next week.",
				Priority:    domain.SeverityMedium,
			},
		},
	}
}

// Load reads a Table from a JSON file. An empty path returns Default.
// Lists missing from the file fall back to the built-in ones.
func Load(path string) (Table, error) {
	def := Default()
	if strings.TrimSpace(path) == "" {
		return def, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read reference data: %w", err)
	}
	var t Table
	if err := json.Unmarshal(raw, &t); err != nil {
		return Table{}, fmt.Errorf("parse reference data %s: %w", path, err)
	}
	if t.Interactions == nil {
		t.Interactions = def.Interactions
	}
	if t.Recommendations == nil {
		t.Recommendations = def.Recommendations
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Validate checks that every entry names two medications and a known severity.
func (t Table) Validate() error {
	for i, in := range t.Interactions {
		if strings.TrimSpace(in.Medication1) == "" || strings.TrimSpace(in.Medication2) == "" {
			return fmt.Errorf("interaction %d: both medication names are required", i)
		}
		if !in.Severity.Valid() {
			return fmt.Errorf("interaction %d: unknown severity %q", i, in.Severity)
		}
	}
	for i, r := range t.Recommendations {
		if !r.Priority.Valid() {
			return fmt.Errorf("recommendation %d: unknown priority %q", i, r.Priority)
		}
	}
	return nil
}

// Match returns the first interaction whose pair equals {a, b} in either
// order, comparing normalized names.
func (t Table) Match(a, b string) (Interaction, bool) {
	na, nb := Normalize(a), Normalize(b)
	for _, in := range t.Interactions {
		m1, m2 := Normalize(in.Medication1), Normalize(in.Medication2)
		if (m1 == na && m2 == nb) || (m1 == nb && m2 == na) {
			return in, true
		}
	}
	return Interaction{}, false
}

// Normalize lowercases a medication name for table lookups. A Caser is
// stateful, so one is built per call.
func Normalize(name string) string {
	return cases.Lower(language.Und).String(name)
}
