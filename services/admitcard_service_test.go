package services

import (
	"errors"
	"testing"
	"time"

	"examdesk_go/models"
)

func TestCheckWindow(t *testing.T) {
	now := mustParse(t, "2026-03-05 12:00")
	before := mustParse(t, "2026-03-01 00:00")
	after := mustParse(t, "2026-03-10 00:00")

	tests := []struct {
		name   string
		start  *time.Time
		last   *time.Time
		expErr error
	}{
		{
			name: "no window set",
		},
		{
			name:  "inside window",
			start: &before,
			last:  &after,
		},
		{
			name:   "window not open yet",
			start:  &after,
			expErr: ErrAdmitCardWindowNotOpen,
		},
		{
			name:   "window closed",
			last:   &before,
			expErr: ErrAdmitCardWindowClosed,
		},
		{
			name:  "open-ended start",
			last:  &after,
		},
		{
			name:  "open-ended close",
			start: &before,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			exam := &models.Exam{
				AdmitCardStartDownloadDate: tc.start,
				AdmitCardLastDownloadDate:  tc.last,
			}
			err := checkWindow(exam, now)
			if tc.expErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.expErr != nil && !errors.Is(err, tc.expErr) {
				t.Fatalf("expected %v, got %v", tc.expErr, err)
			}
		})
	}
}
