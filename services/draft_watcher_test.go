package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"examdesk_go/models"
)

func waitForSnapshot(t *testing.T, w *DraftWatcher, rev uint64) DraftSnapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-w.Updates():
			if snap.Revision == rev {
				return snap
			}
		case <-deadline:
			t.Fatalf("timed out waiting for snapshot revision %d", rev)
		}
	}
}

func TestDraftWatcherAppliesResults(t *testing.T) {
	queries := DraftQueries{
		EligibleRooms: func(ctx context.Context, windows []SubjectWindow) ([]models.Room, error) {
			return []models.Room{{Name: "Room 101"}}, nil
		},
		CountStudents: func(ctx context.Context, filter StudentFilter) (int64, error) {
			return 42, nil
		},
		CheckDuplicate: func(ctx context.Context, draft *ExamDraft) (*DuplicateCheckResult, error) {
			return &DuplicateCheckResult{IsDuplicate: false}, nil
		},
	}

	w := NewDraftWatcher(queries, 0)
	defer w.Stop()

	rev := w.Update(ExamDraft{ClassID: 1}, StudentFilter{ClassID: 1})
	snap := waitForSnapshot(t, w, rev)

	if snap.StudentCount != 42 {
		t.Fatalf("expected count 42, got %d", snap.StudentCount)
	}
	if len(snap.EligibleRooms) != 1 || snap.EligibleRooms[0].Name != "Room 101" {
		t.Fatalf("unexpected rooms: %+v", snap.EligibleRooms)
	}
	if snap.Duplicate == nil || snap.Duplicate.IsDuplicate {
		t.Fatalf("unexpected duplicate result: %+v", snap.Duplicate)
	}
}

func TestDraftWatcherDiscardsStaleRounds(t *testing.T) {
	release := make(chan struct{})

	queries := DraftQueries{
		CountStudents: func(ctx context.Context, filter StudentFilter) (int64, error) {
			// The superseded draft's round stalls until released; rounds
			// run concurrently, so stalling by call order would be racy.
			if filter.ClassID == 1 {
				<-release
			}
			return int64(filter.ClassID), nil
		},
	}

	w := NewDraftWatcher(queries, 0)
	defer w.Stop()

	w.Update(ExamDraft{ClassID: 1}, StudentFilter{ClassID: 1})
	rev2 := w.Update(ExamDraft{ClassID: 2}, StudentFilter{ClassID: 2})

	snap := waitForSnapshot(t, w, rev2)
	if snap.StudentCount != 2 {
		t.Fatalf("expected count from latest round, got %d", snap.StudentCount)
	}

	close(release)
	time.Sleep(50 * time.Millisecond)

	// The stalled first round must not overwrite the newer snapshot
	if got := w.Snapshot(); got.Revision != rev2 || got.StudentCount != 2 {
		t.Fatalf("stale round overwrote snapshot: %+v", got)
	}
}

func TestDraftWatcherDebounceCollapsesBursts(t *testing.T) {
	var calls int32
	queries := DraftQueries{
		CountStudents: func(ctx context.Context, filter StudentFilter) (int64, error) {
			atomic.AddInt32(&calls, 1)
			return int64(filter.ClassID), nil
		},
	}

	w := NewDraftWatcher(queries, 30*time.Millisecond)
	defer w.Stop()

	w.Update(ExamDraft{ClassID: 1}, StudentFilter{ClassID: 1})
	w.Update(ExamDraft{ClassID: 2}, StudentFilter{ClassID: 2})
	rev := w.Update(ExamDraft{ClassID: 3}, StudentFilter{ClassID: 3})

	snap := waitForSnapshot(t, w, rev)
	if snap.StudentCount != 3 {
		t.Fatalf("expected count from last update in burst, got %d", snap.StudentCount)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single query round for the burst, got %d", got)
	}
}

func TestDraftWatcherSurfacesQueryErrors(t *testing.T) {
	queries := DraftQueries{
		CountStudents: func(ctx context.Context, filter StudentFilter) (int64, error) {
			return 0, context.DeadlineExceeded
		},
	}

	w := NewDraftWatcher(queries, 0)
	defer w.Stop()

	rev := w.Update(ExamDraft{ClassID: 1}, StudentFilter{ClassID: 1})
	snap := waitForSnapshot(t, w, rev)

	if snap.Err == nil {
		t.Fatalf("expected error in snapshot")
	}
}
