package services

import (
	"context"
	"sync"
	"time"

	"examdesk_go/models"

	"github.com/sirupsen/logrus"
)

// DraftQueries are the backend lookups re-run whenever the draft changes.
// They are injected so the watcher stays testable without a database.
type DraftQueries struct {
	EligibleRooms  func(ctx context.Context, windows []SubjectWindow) ([]models.Room, error)
	CountStudents  func(ctx context.Context, filter StudentFilter) (int64, error)
	CheckDuplicate func(ctx context.Context, draft *ExamDraft) (*DuplicateCheckResult, error)
}

// DatabaseDraftQueries wires the watcher to the real query services. The
// context only governs result application; the lookups themselves are
// synchronous database calls.
func DatabaseDraftQueries() DraftQueries {
	eligibility := NewEligibilityService()
	counting := NewCountingService()
	duplicates := NewDuplicateService()

	return DraftQueries{
		EligibleRooms: func(_ context.Context, windows []SubjectWindow) ([]models.Room, error) {
			return eligibility.EligibleRooms(windows)
		},
		CountStudents: func(_ context.Context, filter StudentFilter) (int64, error) {
			return counting.CountEligibleStudents(filter)
		},
		CheckDuplicate: func(_ context.Context, draft *ExamDraft) (*DuplicateCheckResult, error) {
			return duplicates.CheckDuplicate(draft)
		},
	}
}

// DraftSnapshot is the applied result of one query round. Revision ties it
// to the draft state that produced it.
type DraftSnapshot struct {
	Revision      uint64                `json:"revision"`
	EligibleRooms []models.Room         `json:"eligible_rooms"`
	StudentCount  int64                 `json:"student_count"`
	Duplicate     *DuplicateCheckResult `json:"duplicate"`
	Err           error                 `json:"-"`
}

// DraftWatcher coordinates the three draft-dependent queries: it debounces
// updates and guarantees that only the most recent round's results are
// ever applied. Superseded rounds are cancelled through their context and
// their results discarded on arrival.
type DraftWatcher struct {
	mu       sync.Mutex
	queries  DraftQueries
	debounce time.Duration

	revision uint64
	draft    ExamDraft
	filter   StudentFilter

	timer  *time.Timer
	cancel context.CancelFunc

	snapshot DraftSnapshot
	updates  chan DraftSnapshot
}

// NewDraftWatcher builds a watcher with the given debounce window. A zero
// debounce fires queries immediately, which tests rely on.
func NewDraftWatcher(queries DraftQueries, debounce time.Duration) *DraftWatcher {
	return &DraftWatcher{
		queries:  queries,
		debounce: debounce,
		updates:  make(chan DraftSnapshot, 8),
	}
}

// Update records a new draft state and schedules a query round after the
// debounce window. An update arriving before the window elapses restarts
// it, so only the last state in a burst is queried.
func (w *DraftWatcher) Update(draft ExamDraft, filter StudentFilter) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.revision++
	rev := w.revision
	w.draft = draft
	w.filter = filter

	// A newer draft supersedes any in-flight round
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.timer != nil {
		w.timer.Stop()
	}

	if w.debounce <= 0 {
		w.startRoundLocked(rev)
		return rev
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if rev != w.revision {
			return
		}
		w.startRoundLocked(rev)
	})
	return rev
}

// startRoundLocked launches the query round for the given revision.
// Callers must hold w.mu.
func (w *DraftWatcher) startRoundLocked(rev uint64) {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	draft := w.draft
	filter := w.filter

	go w.runRound(ctx, rev, draft, filter)
}

func (w *DraftWatcher) runRound(ctx context.Context, rev uint64, draft ExamDraft, filter StudentFilter) {
	snapshot := DraftSnapshot{Revision: rev}

	if w.queries.EligibleRooms != nil {
		rooms, err := w.queries.EligibleRooms(ctx, draft.Subjects)
		if err != nil {
			snapshot.Err = err
		} else {
			snapshot.EligibleRooms = rooms
		}
	}

	if snapshot.Err == nil && w.queries.CountStudents != nil {
		count, err := w.queries.CountStudents(ctx, filter)
		if err != nil {
			snapshot.Err = err
		} else {
			snapshot.StudentCount = count
		}
	}

	if snapshot.Err == nil && w.queries.CheckDuplicate != nil {
		result, err := w.queries.CheckDuplicate(ctx, &draft)
		if err != nil {
			snapshot.Err = err
		} else {
			snapshot.Duplicate = result
		}
	}

	w.apply(ctx, rev, snapshot)
}

// apply installs a round's results unless a newer round has superseded it.
func (w *DraftWatcher) apply(ctx context.Context, rev uint64, snapshot DraftSnapshot) {
	select {
	case <-ctx.Done():
		return
	default:
	}

	w.mu.Lock()
	if rev != w.revision {
		// Stale result, a newer draft state owns visible state now
		w.mu.Unlock()
		return
	}
	w.snapshot = snapshot
	w.mu.Unlock()

	if snapshot.Err != nil {
		logrus.WithError(snapshot.Err).Warn("Draft query round failed")
	}

	select {
	case w.updates <- snapshot:
	default:
		// Slow consumer, drop the oldest pending snapshot
		select {
		case <-w.updates:
		default:
		}
		select {
		case w.updates <- snapshot:
		default:
		}
	}
}

// Snapshot returns the most recently applied results.
func (w *DraftWatcher) Snapshot() DraftSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot
}

// Updates exposes applied snapshots for push consumers.
func (w *DraftWatcher) Updates() <-chan DraftSnapshot {
	return w.updates
}

// Stop cancels any in-flight round and pending debounce timer.
func (w *DraftWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}
