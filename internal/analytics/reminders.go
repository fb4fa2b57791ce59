package analytics

import (
	"fmt"
	"time"

	"github.com/tbourn/go-med-tracker/internal/domain"
)

// DueAt returns the medications with a reminder time equal to the HH:MM of
// now, in input order. A medication listing the minute twice appears once.
func DueAt(meds []domain.Medication, now time.Time) []domain.Medication {
	minute := now.Format(domain.TimeLayout)
	out := []domain.Medication{}
	for _, m := range meds {
		for _, t := range m.Times {
			if t == minute {
				out = append(out, m.Clone())
				break
			}
		}
	}
	return out
}

// LoggedMessage is the notification text emitted after a dose is marked taken.
func LoggedMessage(m domain.Medication, at string) string {
	return fmt.Sprintf("%s logged successfully, %s taken at %s", m.Name, m.Dosage, at)
}

// ReminderMessage is the per-medication reminder text.
func ReminderMessage(m domain.Medication) string {
	instr := m.Instructions
	if instr == "" {
		instr = "Please take as prescribed."
	}
	return fmt.Sprintf("Time to take your %s, %s. %s", m.Name, m.Dosage, instr)
}

// GeneralReminderMessage announces how many medications are due.
func GeneralReminderMessage(n int) string {
	plural := ""
	if n > 1 {
		plural = "s"
	}
	return fmt.Sprintf("Medication reminder! You have %d medication%s to take now.", n, plural)
}
