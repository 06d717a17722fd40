package services

import "testing"

func TestReminderKey(t *testing.T) {
	if got := reminderKey(12, 30); got != "exam:reminder:12:30" {
		t.Fatalf("unexpected reminder key %q", got)
	}
	if reminderKey(12, 30) == reminderKey(12, 60) {
		t.Fatalf("expected distinct keys per reminder offset")
	}
	if reminderKey(12, 30) == reminderKey(13, 30) {
		t.Fatalf("expected distinct keys per exam subject")
	}
}
