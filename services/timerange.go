package services

import (
	"fmt"
	"time"
)

// SubjectWindow is one subject's scheduled start/end within an exam.
type SubjectWindow struct {
	SubjectID uint      `json:"subject_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ExamTimeRange is the display summary across all subject windows.
type ExamTimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// SameTime: all windows share identical start and end timestamps.
	SameTime bool `json:"same_time"`
	// SameDay: all windows fall on the same calendar day. Checked at
	// year/month/day granularity, independent of SameTime.
	SameDay bool `json:"same_day"`
}

// SameCalendarDay compares two instants at calendar-day granularity.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ComputeTimeRange derives the min-start/max-end across subject windows and
// the two collapsing predicates used when rendering schedules.
func ComputeTimeRange(windows []SubjectWindow) (ExamTimeRange, error) {
	if len(windows) == 0 {
		return ExamTimeRange{}, fmt.Errorf("no subject schedules provided")
	}

	first := windows[0]
	rng := ExamTimeRange{
		Start:    first.StartTime,
		End:      first.EndTime,
		SameTime: true,
		SameDay:  true,
	}

	for _, w := range windows[1:] {
		if w.StartTime.Before(rng.Start) {
			rng.Start = w.StartTime
		}
		if w.EndTime.After(rng.End) {
			rng.End = w.EndTime
		}
		if !w.StartTime.Equal(first.StartTime) || !w.EndTime.Equal(first.EndTime) {
			rng.SameTime = false
		}
		if !SameCalendarDay(w.StartTime, first.StartTime) || !SameCalendarDay(w.EndTime, first.EndTime) {
			rng.SameDay = false
		}
	}

	return rng, nil
}

// FormatDateRange renders a dd/mm/yyyy date or date range, collapsing to a
// single date when both ends fall on the same calendar day.
func FormatDateRange(start, end time.Time) string {
	startStr := start.Format("02/01/2006")
	endStr := end.Format("02/01/2006")
	if startStr == endStr {
		return startStr
	}
	return startStr + " - " + endStr
}

// FormatTimeRange renders the hh:mm AM/PM span of a window.
func FormatTimeRange(start, end time.Time) string {
	return start.Format("03:04 PM") + " - " + end.Format("03:04 PM")
}

// ValidateWindows checks that every window is complete and validly ordered
// (end not before start). Zero times count as incomplete.
func ValidateWindows(windows []SubjectWindow) error {
	for _, w := range windows {
		if w.StartTime.IsZero() || w.EndTime.IsZero() {
			return fmt.Errorf("subject %d has an incomplete schedule", w.SubjectID)
		}
		if w.EndTime.Before(w.StartTime) {
			return fmt.Errorf("subject %d ends before it starts", w.SubjectID)
		}
	}
	return nil
}

// windowsOverlap reports whether two windows intersect. Back-to-back
// windows (end == start) do not overlap.
func windowsOverlap(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}
