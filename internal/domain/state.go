package domain

// DoseState is the per-day status of a single dose slot.
type DoseState string

const (
	// DosePending: not taken and the scheduled time has not passed.
	DosePending DoseState = "pending"
	// DoseOverdue: not taken and now is strictly after the scheduled time.
	DoseOverdue DoseState = "overdue"
	// DoseCompleted: a taken log exists for the slot. Terminal for the day.
	DoseCompleted DoseState = "completed"
)

// Severity grades a drug interaction.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}
