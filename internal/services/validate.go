package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/tbourn/go-med-tracker/internal/domain"
)

// DefaultCategory is assigned when a medication is created without one.
const DefaultCategory = "General"

// cleanTimes trims entries and drops blanks.
func cleanTimes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func validTime(s string) bool {
	if len(s) != len(domain.TimeLayout) {
		return false
	}
	_, err := time.Parse(domain.TimeLayout, s)
	return err == nil
}

func validDate(s string) bool {
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}

// checkTimes returns the cleaned, validated reminder times.
func checkTimes(in []string) ([]string, error) {
	times := cleanTimes(in)
	if len(times) == 0 {
		return nil, invalid("times", "at least one reminder time is required")
	}
	for _, t := range times {
		if !validTime(t) {
			return nil, invalid("times", fmt.Sprintf("%q is not a HH:MM time", t))
		}
	}
	return times, nil
}

func checkOptionalDate(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v != "" && !validDate(v) {
		return "", invalid(field, fmt.Sprintf("%q is not a YYYY-MM-DD date", v))
	}
	return v, nil
}

func checkRequired(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid(field, "is required")
	}
	return v, nil
}

func checkMood(m *int) error {
	if m != nil && (*m < domain.MoodPoor || *m > domain.MoodGood) {
		return invalid("mood", fmt.Sprintf("must be between %d and %d", domain.MoodPoor, domain.MoodGood))
	}
	return nil
}

// cleanNames trims entries and drops blanks, keeping nil as nil.
func cleanNames(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
