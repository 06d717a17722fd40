package services

import (
	"testing"
	"time"

	"examdesk_go/models"
)

func completeDraft(t *testing.T) *ExamDraft {
	t.Helper()
	return &ExamDraft{
		ExamTypeID:       1,
		AcademicYearID:   2,
		ClassID:          3,
		ProgramCourseIDs: []uint{1, 2},
		ShiftIDs:         []uint{1},
		SubjectTypeIDs:   []uint{1},
		Subjects: []SubjectWindow{
			{SubjectID: 5, StartTime: mustParse(t, "2026-03-10 10:00"), EndTime: mustParse(t, "2026-03-10 13:00")},
		},
	}
}

func TestCanCheckDuplicate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ExamDraft)
		exp    bool
	}{
		{
			name:   "complete draft",
			mutate: func(d *ExamDraft) {},
			exp:    true,
		},
		{
			name:   "missing academic year",
			mutate: func(d *ExamDraft) { d.AcademicYearID = 0 },
		},
		{
			name:   "missing exam type",
			mutate: func(d *ExamDraft) { d.ExamTypeID = 0 },
		},
		{
			name:   "missing class",
			mutate: func(d *ExamDraft) { d.ClassID = 0 },
		},
		{
			name:   "no program courses",
			mutate: func(d *ExamDraft) { d.ProgramCourseIDs = nil },
		},
		{
			name:   "no shifts",
			mutate: func(d *ExamDraft) { d.ShiftIDs = nil },
		},
		{
			name:   "no subject categories",
			mutate: func(d *ExamDraft) { d.SubjectTypeIDs = nil },
		},
		{
			name:   "no subjects",
			mutate: func(d *ExamDraft) { d.Subjects = nil },
		},
		{
			name: "incomplete subject schedule",
			mutate: func(d *ExamDraft) {
				d.Subjects[0].EndTime = time.Time{}
			},
		},
		{
			name: "subject ends before it starts",
			mutate: func(d *ExamDraft) {
				d.Subjects[0].StartTime, d.Subjects[0].EndTime = d.Subjects[0].EndTime, d.Subjects[0].StartTime
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			draft := completeDraft(t)
			tc.mutate(draft)
			if got := CanCheckDuplicate(draft); got != tc.exp {
				t.Fatalf("expected %v, got %v", tc.exp, got)
			}
		})
	}
}

func TestSameIDSet(t *testing.T) {
	tests := []struct {
		name string
		a    []uint
		b    []uint
		exp  bool
	}{
		{name: "order ignored", a: []uint{1, 2, 3}, b: []uint{3, 1, 2}, exp: true},
		{name: "repeats collapse", a: []uint{1, 1, 2}, b: []uint{2, 1}, exp: true},
		{name: "different members", a: []uint{1, 2}, b: []uint{1, 3}},
		{name: "subset is not equal", a: []uint{1, 2}, b: []uint{1, 2, 3}},
		{name: "both empty", a: nil, b: nil, exp: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := sameIDSet(tc.a, tc.b); got != tc.exp {
				t.Fatalf("expected %v, got %v", tc.exp, got)
			}
		})
	}
}

func TestExamMatchesDraft(t *testing.T) {
	svc := NewDuplicateService()
	draft := completeDraft(t)

	buildExam := func() *models.Exam {
		return &models.Exam{
			ExamShifts:         []models.ExamShift{{ShiftID: 1}},
			ExamProgramCourses: []models.ExamProgramCourse{{ProgramCourseID: 2}, {ProgramCourseID: 1}},
			ExamSubjectTypes:   []models.ExamSubjectType{{SubjectTypeID: 1}},
			ExamSubjects: []models.ExamSubject{
				{SubjectID: 5, StartTime: mustParse(t, "2026-03-10 10:00"), EndTime: mustParse(t, "2026-03-10 13:00")},
			},
		}
	}

	t.Run("matching exam regardless of order", func(t *testing.T) {
		if !svc.examMatchesDraft(buildExam(), draft) {
			t.Fatalf("expected match")
		}
	})

	t.Run("different subject window", func(t *testing.T) {
		exam := buildExam()
		exam.ExamSubjects[0].StartTime = mustParse(t, "2026-03-10 14:00")
		if svc.examMatchesDraft(exam, draft) {
			t.Fatalf("expected no match for shifted window")
		}
	})

	t.Run("different shift set", func(t *testing.T) {
		exam := buildExam()
		exam.ExamShifts = append(exam.ExamShifts, models.ExamShift{ShiftID: 2})
		if svc.examMatchesDraft(exam, draft) {
			t.Fatalf("expected no match for extra shift")
		}
	})

	t.Run("rooms only matter when draft names them", func(t *testing.T) {
		exam := buildExam()
		exam.ExamRooms = []models.ExamRoom{{RoomID: 9}}
		if !svc.examMatchesDraft(exam, draft) {
			t.Fatalf("expected match when draft has no rooms")
		}

		withRooms := completeDraft(t)
		withRooms.RoomIDs = []uint{1}
		if svc.examMatchesDraft(exam, withRooms) {
			t.Fatalf("expected no match for differing room sets")
		}

		withRooms.RoomIDs = []uint{9}
		if !svc.examMatchesDraft(exam, withRooms) {
			t.Fatalf("expected match for equal room sets")
		}
	})

	t.Run("extra subject in existing exam", func(t *testing.T) {
		exam := buildExam()
		exam.ExamSubjects = append(exam.ExamSubjects, models.ExamSubject{
			SubjectID: 6,
			StartTime: mustParse(t, "2026-03-11 10:00"),
			EndTime:   mustParse(t, "2026-03-11 13:00"),
		})
		if svc.examMatchesDraft(exam, draft) {
			t.Fatalf("expected no match for differing subject counts")
		}
	})
}
