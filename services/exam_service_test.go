package services

import (
	"errors"
	"testing"
)

type stubDuplicateChecker struct {
	result *DuplicateCheckResult
	err    error
	calls  int
}

func (s *stubDuplicateChecker) CheckDuplicate(draft *ExamDraft) (*DuplicateCheckResult, error) {
	s.calls++
	return s.result, s.err
}

func TestAssignExamRejectsDuplicate(t *testing.T) {
	checker := &stubDuplicateChecker{
		result: &DuplicateCheckResult{IsDuplicate: true, DuplicateExamID: 7},
	}
	svc := &ExamService{duplicates: checker}

	draft := completeDraft(t)
	exam, err := svc.AssignExam(draft, nil, 1)
	if exam != nil {
		t.Fatalf("expected no exam on duplicate rejection, got %+v", exam)
	}
	if !errors.Is(err, ErrDuplicateExam) {
		t.Fatalf("expected ErrDuplicateExam, got %v", err)
	}
	if checker.calls != 1 {
		t.Fatalf("expected one duplicate check, got %d", checker.calls)
	}
}

func TestAssignExamSurfacesDuplicateCheckErrors(t *testing.T) {
	checkErr := errors.New("lookup failed")
	svc := &ExamService{duplicates: &stubDuplicateChecker{err: checkErr}}

	if _, err := svc.AssignExam(completeDraft(t), nil, 1); !errors.Is(err, checkErr) {
		t.Fatalf("expected duplicate check error to surface, got %v", err)
	}
}

func TestAssignExamRequiresSubjects(t *testing.T) {
	checker := &stubDuplicateChecker{result: &DuplicateCheckResult{}}
	svc := &ExamService{duplicates: checker}

	draft := completeDraft(t)
	draft.Subjects = nil

	if _, err := svc.AssignExam(draft, nil, 1); !errors.Is(err, ErrNoSubjectsScheduled) {
		t.Fatalf("expected ErrNoSubjectsScheduled, got %v", err)
	}
	if checker.calls != 0 {
		t.Fatalf("duplicate check must not run for an empty schedule, got %d calls", checker.calls)
	}
}
