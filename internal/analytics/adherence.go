package analytics

import (
	"sort"
	"time"

	"github.com/tbourn/go-med-tracker/internal/domain"
)

// DefaultWindowDays is the trailing window used when a caller passes <= 0.
const DefaultWindowDays = 7

// Adherence is the per-day adherence over a trailing window.
type Adherence struct {
	Days []DayStats `json:"days"`
	// Overall is the unweighted mean of the daily percentages.
	Overall float64 `json:"overall"`
}

// MedicationStat rolls up the dose logs of one medication. Only logged doses
// count: a slot that was never marked is invisible here, so MissedDoses means
// "logged but not taken".
type MedicationStat struct {
	Medication  domain.Medication `json:"medication"`
	TotalDoses  int               `json:"totalDoses"`
	TakenDoses  int               `json:"takenDoses"`
	MissedDoses int               `json:"missedDoses"`
	Adherence   float64           `json:"adherence"`
}

// MoodPoint is the average reported mood on one date.
type MoodPoint struct {
	Date    string  `json:"date"`
	AvgMood float64 `json:"avgMood"`
	Samples int     `json:"samples"`
}

// SideEffectCount is how many times a side effect was reported.
type SideEffectCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SideEffectSummary lists side-effect frequencies in first-reported order.
type SideEffectSummary struct {
	Counts     []SideEffectCount `json:"counts"`
	MostCommon *SideEffectCount  `json:"mostCommon,omitempty"`
}

// AdherenceByDay computes adherence for each of the last windowDays calendar
// days, oldest first and including today.
//
// Each day's total uses the medications' current reminder times, not the
// schedule that was configured on that day, so a day's percentage is clamped
// to 100.
func AdherenceByDay(meds []domain.Medication, logs []domain.DoseLog, windowDays int, now time.Time) Adherence {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	total := totalSlots(meds)
	known := medicationIDs(meds)

	out := Adherence{Days: make([]DayStats, 0, windowDays)}
	var sum float64
	for i := windowDays - 1; i >= 0; i-- {
		day := dayStats(DateOf(now.AddDate(0, 0, -i)), total, known, logs)
		day.Percentage = min(day.Percentage, 100)
		sum += day.Percentage
		out.Days = append(out.Days, day)
	}
	out.Overall = sum / float64(windowDays)
	return out
}

// MedicationStats returns one rollup per medication, in input order.
func MedicationStats(meds []domain.Medication, logs []domain.DoseLog) []MedicationStat {
	type tally struct{ total, taken int }
	byMed := make(map[string]*tally, len(meds))
	for _, l := range logs {
		t, ok := byMed[l.MedicationID]
		if !ok {
			t = &tally{}
			byMed[l.MedicationID] = t
		}
		t.total++
		if l.Taken {
			t.taken++
		}
	}

	out := make([]MedicationStat, 0, len(meds))
	for _, m := range meds {
		st := MedicationStat{Medication: m.Clone()}
		if t, ok := byMed[m.ID]; ok {
			st.TotalDoses = t.total
			st.TakenDoses = t.taken
			st.MissedDoses = t.total - t.taken
			st.Adherence = percent(t.taken, t.total)
		}
		out = append(out, st)
	}
	return out
}

// MoodTrend averages reported moods per date. Dates appear in the order they
// are first seen in logs; entries without a mood are skipped.
func MoodTrend(logs []domain.DoseLog) []MoodPoint {
	type acc struct {
		sum, n int
	}
	var order []string
	byDate := map[string]*acc{}
	for _, l := range logs {
		if l.Mood == nil || *l.Mood == 0 {
			continue
		}
		a, ok := byDate[l.Date]
		if !ok {
			a = &acc{}
			byDate[l.Date] = a
			order = append(order, l.Date)
		}
		a.sum += *l.Mood
		a.n++
	}

	out := make([]MoodPoint, 0, len(order))
	for _, d := range order {
		a := byDate[d]
		out = append(out, MoodPoint{Date: d, AvgMood: float64(a.sum) / float64(a.n), Samples: a.n})
	}
	return out
}

// AverageMood is the mean over every reported mood, 0 when none.
func AverageMood(logs []domain.DoseLog) float64 {
	sum, n := 0, 0
	for _, l := range logs {
		if l.Mood == nil || *l.Mood == 0 {
			continue
		}
		sum += *l.Mood
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// SideEffectFrequency counts every reported side-effect name across logs.
// The most common entry is the highest count; ties go to the name reported
// first.
func SideEffectFrequency(logs []domain.DoseLog) SideEffectSummary {
	idx := map[string]int{}
	counts := []SideEffectCount{}
	for _, l := range logs {
		for _, name := range l.SideEffects {
			i, ok := idx[name]
			if !ok {
				i = len(counts)
				idx[name] = i
				counts = append(counts, SideEffectCount{Name: name})
			}
			counts[i].Count++
		}
	}

	out := SideEffectSummary{Counts: counts}
	if len(counts) > 0 {
		ranked := make([]SideEffectCount, len(counts))
		copy(ranked, counts)
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
		top := ranked[0]
		out.MostCommon = &top
	}
	return out
}
