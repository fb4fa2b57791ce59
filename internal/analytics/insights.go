package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/tbourn/go-med-tracker/internal/domain"
	"github.com/tbourn/go-med-tracker/internal/reference"
)

// DefaultRefillHorizonDays is the refill look-ahead used when a caller passes <= 0.
const DefaultRefillHorizonDays = 7

// Refill is a medication whose refill date falls within the horizon.
type Refill struct {
	Medication domain.Medication `json:"medication"`
	RefillDate string            `json:"refillDate"`
	// DaysUntil is negative when the refill date has passed.
	DaysUntil int `json:"daysUntil"`
}

// InteractionFinding is a reference interaction matched between two of the
// user's medications, carrying their display names in list order.
type InteractionFinding struct {
	Medication1    string          `json:"medication1"`
	Medication2    string          `json:"medication2"`
	Severity       domain.Severity `json:"severity"`
	Description    string          `json:"description"`
	Recommendation string          `json:"recommendation"`
}

// RiskCounts tallies findings by severity.
type RiskCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// CategoryCount is the number of medications in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Summary is the insights overview.
type Summary struct {
	// AdherenceRate is taken entries over all entries, 0 without logs.
	AdherenceRate     float64           `json:"adherenceRate"`
	AvgMood           float64           `json:"avgMood"`
	SideEffects       SideEffectSummary `json:"sideEffects"`
	ByCategory        []CategoryCount   `json:"byCategory"`
	UpcomingRefills   []Refill          `json:"upcomingRefills"`
	TotalMedications  int               `json:"totalMedications"`
	ActiveMedications int               `json:"activeMedications"`
}

// UpcomingRefills lists medications whose refill date is at most horizonDays
// away, soonest first. There is no lower bound: overdue refills are included
// with negative DaysUntil. Unparseable refill dates are skipped.
func UpcomingRefills(meds []domain.Medication, now time.Time, horizonDays int) []Refill {
	if horizonDays <= 0 {
		horizonDays = DefaultRefillHorizonDays
	}
	out := []Refill{}
	for _, m := range meds {
		if m.RefillDate == "" {
			continue
		}
		at, err := time.ParseInLocation(domain.DateLayout, m.RefillDate, now.Location())
		if err != nil {
			continue
		}
		days := int(math.Ceil(float64(at.Sub(now)) / float64(24*time.Hour)))
		if days <= horizonDays {
			out = append(out, Refill{Medication: m.Clone(), RefillDate: m.RefillDate, DaysUntil: days})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysUntil < out[j].DaysUntil })
	return out
}

// InteractionsAmong checks every unordered pair of medications by list
// position against the reference table. Duplicate names are still paired.
func InteractionsAmong(meds []domain.Medication, table reference.Table) []InteractionFinding {
	out := []InteractionFinding{}
	for i := 0; i < len(meds); i++ {
		for j := i + 1; j < len(meds); j++ {
			in, ok := table.Match(meds[i].Name, meds[j].Name)
			if !ok {
				continue
			}
			out = append(out, InteractionFinding{
				Medication1:    meds[i].Name,
				Medication2:    meds[j].Name,
				Severity:       in.Severity,
				Description:    in.Description,
				Recommendation: in.Recommendation,
			})
		}
	}
	return out
}

// CountRisks tallies findings by severity.
func CountRisks(findings []InteractionFinding) RiskCounts {
	var rc RiskCounts
	for _, f := range findings {
		switch f.Severity {
		case domain.SeverityHigh:
			rc.High++
		case domain.SeverityMedium:
			rc.Medium++
		case domain.SeverityLow:
			rc.Low++
		}
	}
	return rc
}

// Summarize builds the insights overview.
func Summarize(meds []domain.Medication, logs []domain.DoseLog, now time.Time, horizonDays int) Summary {
	taken := 0
	for _, l := range logs {
		if l.Taken {
			taken++
		}
	}

	s := Summary{
		AdherenceRate:    percent(taken, len(logs)),
		AvgMood:          AverageMood(logs),
		SideEffects:      SideEffectFrequency(logs),
		ByCategory:       countCategories(meds),
		UpcomingRefills:  UpcomingRefills(meds, now, horizonDays),
		TotalMedications: len(meds),
	}
	for _, m := range meds {
		if IsActive(m, now) {
			s.ActiveMedications++
		}
	}
	return s
}

// IsActive reports whether m has no end date or ends after now. An end date
// that does not parse counts as inactive.
func IsActive(m domain.Medication, now time.Time) bool {
	if m.EndDate == "" {
		return true
	}
	end, err := time.ParseInLocation(domain.DateLayout, m.EndDate, now.Location())
	if err != nil {
		return false
	}
	return end.After(now)
}

func countCategories(meds []domain.Medication) []CategoryCount {
	idx := map[string]int{}
	out := []CategoryCount{}
	for _, m := range meds {
		i, ok := idx[m.Category]
		if !ok {
			i = len(out)
			idx[m.Category] = i
			out = append(out, CategoryCount{Category: m.Category})
		}
		out[i].Count++
	}
	return out
}
