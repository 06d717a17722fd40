package services

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return ts
}

func TestComputeTimeRange(t *testing.T) {
	tests := []struct {
		name        string
		windows     [][2]string
		expStart    string
		expEnd      string
		expSameTime bool
		expSameDay  bool
	}{
		{
			name: "single window",
			windows: [][2]string{
				{"2026-03-10 10:00", "2026-03-10 13:00"},
			},
			expStart:    "2026-03-10 10:00",
			expEnd:      "2026-03-10 13:00",
			expSameTime: true,
			expSameDay:  true,
		},
		{
			name: "same day different times",
			windows: [][2]string{
				{"2026-03-10 10:00", "2026-03-10 13:00"},
				{"2026-03-10 14:00", "2026-03-10 17:00"},
			},
			expStart:    "2026-03-10 10:00",
			expEnd:      "2026-03-10 17:00",
			expSameTime: false,
			expSameDay:  true,
		},
		{
			name: "identical times across windows",
			windows: [][2]string{
				{"2026-03-10 10:00", "2026-03-10 13:00"},
				{"2026-03-10 10:00", "2026-03-10 13:00"},
			},
			expStart:    "2026-03-10 10:00",
			expEnd:      "2026-03-10 13:00",
			expSameTime: true,
			expSameDay:  true,
		},
		{
			name: "multi day spread",
			windows: [][2]string{
				{"2026-03-12 10:00", "2026-03-12 13:00"},
				{"2026-03-10 10:00", "2026-03-10 13:00"},
				{"2026-03-11 10:00", "2026-03-11 13:00"},
			},
			expStart:    "2026-03-10 10:00",
			expEnd:      "2026-03-12 13:00",
			expSameTime: false,
			expSameDay:  false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			windows := make([]SubjectWindow, 0, len(tc.windows))
			for i, w := range tc.windows {
				windows = append(windows, SubjectWindow{
					SubjectID: uint(i + 1),
					StartTime: mustParse(t, w[0]),
					EndTime:   mustParse(t, w[1]),
				})
			}

			rng, err := ComputeTimeRange(windows)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !rng.Start.Equal(mustParse(t, tc.expStart)) {
				t.Fatalf("expected start %s, got %s", tc.expStart, rng.Start)
			}
			if !rng.End.Equal(mustParse(t, tc.expEnd)) {
				t.Fatalf("expected end %s, got %s", tc.expEnd, rng.End)
			}
			if rng.SameTime != tc.expSameTime {
				t.Fatalf("expected SameTime=%v, got %v", tc.expSameTime, rng.SameTime)
			}
			if rng.SameDay != tc.expSameDay {
				t.Fatalf("expected SameDay=%v, got %v", tc.expSameDay, rng.SameDay)
			}
		})
	}
}

func TestComputeTimeRangeEmpty(t *testing.T) {
	if _, err := ComputeTimeRange(nil); err == nil {
		t.Fatalf("expected error for empty window list")
	}
}

func TestValidateWindows(t *testing.T) {
	valid := []SubjectWindow{
		{SubjectID: 1, StartTime: mustParse(t, "2026-03-10 10:00"), EndTime: mustParse(t, "2026-03-10 13:00")},
	}
	if err := ValidateWindows(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	incomplete := []SubjectWindow{{SubjectID: 2, StartTime: mustParse(t, "2026-03-10 10:00")}}
	if err := ValidateWindows(incomplete); err == nil {
		t.Fatalf("expected error for incomplete window")
	}

	inverted := []SubjectWindow{
		{SubjectID: 3, StartTime: mustParse(t, "2026-03-10 13:00"), EndTime: mustParse(t, "2026-03-10 10:00")},
	}
	if err := ValidateWindows(inverted); err == nil {
		t.Fatalf("expected error for end before start")
	}
}

func TestWindowsOverlap(t *testing.T) {
	tests := []struct {
		name string
		a    [2]string
		b    [2]string
		exp  bool
	}{
		{
			name: "overlapping",
			a:    [2]string{"2026-03-10 10:00", "2026-03-10 13:00"},
			b:    [2]string{"2026-03-10 12:00", "2026-03-10 15:00"},
			exp:  true,
		},
		{
			name: "back to back does not overlap",
			a:    [2]string{"2026-03-10 10:00", "2026-03-10 13:00"},
			b:    [2]string{"2026-03-10 13:00", "2026-03-10 16:00"},
			exp:  false,
		},
		{
			name: "disjoint days",
			a:    [2]string{"2026-03-10 10:00", "2026-03-10 13:00"},
			b:    [2]string{"2026-03-11 10:00", "2026-03-11 13:00"},
			exp:  false,
		},
		{
			name: "contained",
			a:    [2]string{"2026-03-10 09:00", "2026-03-10 17:00"},
			b:    [2]string{"2026-03-10 10:00", "2026-03-10 12:00"},
			exp:  true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := windowsOverlap(
				mustParse(t, tc.a[0]), mustParse(t, tc.a[1]),
				mustParse(t, tc.b[0]), mustParse(t, tc.b[1]),
			)
			if got != tc.exp {
				t.Fatalf("expected %v, got %v", tc.exp, got)
			}
		})
	}
}

func TestFormatDateRange(t *testing.T) {
	sameDay := FormatDateRange(mustParse(t, "2026-03-10 10:00"), mustParse(t, "2026-03-10 17:00"))
	if sameDay != "10/03/2026" {
		t.Fatalf("expected collapsed date, got %q", sameDay)
	}

	spread := FormatDateRange(mustParse(t, "2026-03-10 10:00"), mustParse(t, "2026-03-12 13:00"))
	if spread != "10/03/2026 - 12/03/2026" {
		t.Fatalf("expected date range, got %q", spread)
	}
}
