// Package analytics derives schedules and statistics from the medication and
// dose-log collections.
//
// Every function here is pure: it reads its inputs, never mutates them, and
// recomputes from scratch on each call. "Now" is always passed in; its
// location defines the local calendar day used for dates and HH:MM slots.
package analytics

import (
	"sort"
	"time"

	"github.com/tbourn/go-med-tracker/internal/domain"
)

// ScheduleItem is one dose slot on today's schedule.
type ScheduleItem struct {
	Medication domain.Medication `json:"medication"`
	Time       string            `json:"time"`
	Log        *domain.DoseLog   `json:"log,omitempty"`
	Taken      bool              `json:"taken"`
	Overdue    bool              `json:"overdue"`
	State      domain.DoseState  `json:"state"`
}

// DayStats is the taken/total rollup for one calendar day.
type DayStats struct {
	Date       string  `json:"date"`
	Taken      int     `json:"taken"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// TodaySchedule lists every (medication, reminder time) slot for the day of
// now, ordered by time of day. Ties keep input order, and a time listed twice
// on one medication yields two items.
func TodaySchedule(meds []domain.Medication, logs []domain.DoseLog, now time.Time) []ScheduleItem {
	today := DateOf(now)
	byKey := indexLogs(logs)

	items := make([]ScheduleItem, 0, totalSlots(meds))
	for _, med := range meds {
		for _, t := range med.Times {
			item := ScheduleItem{Medication: med.Clone(), Time: t}
			if l, ok := byKey[domain.DoseKey{MedicationID: med.ID, Date: today, Time: t}]; ok {
				lc := l.Clone()
				item.Log = &lc
				item.Taken = l.Taken
			}
			if at, ok := SlotTime(now, t); ok {
				item.Overdue = now.After(at) && !item.Taken
			}
			item.State = StateOf(item.Taken, item.Overdue)
			items = append(items, item)
		}
	}

	// "HH:MM" is zero-padded, so string order is time order.
	sort.SliceStable(items, func(i, j int) bool { return items[i].Time < items[j].Time })
	return items
}

// TodayStats counts today's taken entries against the number of scheduled
// slots. Taken entries count even if their time is no longer one of the
// medication's reminder times, so after a mid-day schedule change taken can
// exceed total and the percentage can exceed 100.
func TodayStats(meds []domain.Medication, logs []domain.DoseLog, now time.Time) DayStats {
	return dayStats(DateOf(now), totalSlots(meds), medicationIDs(meds), logs)
}

// StateOf maps the taken/overdue flags of a slot to its DoseState.
func StateOf(taken, overdue bool) domain.DoseState {
	switch {
	case taken:
		return domain.DoseCompleted
	case overdue:
		return domain.DoseOverdue
	default:
		return domain.DosePending
	}
}

// SlotTime resolves an "HH:MM" reminder time to an instant on the calendar
// day of now. It reports false when hhmm is not a valid time of day.
func SlotTime(now time.Time, hhmm string) (time.Time, bool) {
	t, err := time.Parse(domain.TimeLayout, hhmm)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location()), true
}

// DateOf formats the calendar day of t ("YYYY-MM-DD") in t's location.
func DateOf(t time.Time) string { return t.Format(domain.DateLayout) }

// dayStats counts taken entries on date, ignoring entries whose medication no
// longer exists.
func dayStats(date string, total int, known map[string]struct{}, logs []domain.DoseLog) DayStats {
	taken := 0
	for _, l := range logs {
		if l.Date != date || !l.Taken {
			continue
		}
		if _, ok := known[l.MedicationID]; !ok {
			continue
		}
		taken++
	}
	return DayStats{Date: date, Taken: taken, Total: total, Percentage: ratio(taken, total)}
}

// indexLogs maps each composite key to its first matching entry.
func indexLogs(logs []domain.DoseLog) map[domain.DoseKey]domain.DoseLog {
	out := make(map[domain.DoseKey]domain.DoseLog, len(logs))
	for _, l := range logs {
		k := l.Key()
		if _, dup := out[k]; !dup {
			out[k] = l
		}
	}
	return out
}

func medicationIDs(meds []domain.Medication) map[string]struct{} {
	out := make(map[string]struct{}, len(meds))
	for _, m := range meds {
		out[m.ID] = struct{}{}
	}
	return out
}

func totalSlots(meds []domain.Medication) int {
	n := 0
	for _, m := range meds {
		n += m.Slots()
	}
	return n
}

// ratio returns 100*part/whole, or 0 when whole is 0.
func ratio(part, whole int) float64 {
	if whole <= 0 || part <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// percent is ratio clamped to 100.
func percent(part, whole int) float64 {
	return min(ratio(part, whole), 100)
}
