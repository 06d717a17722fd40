package services

import (
	"fmt"

	"examdesk_go/database"
	"examdesk_go/models"
)

// ExamDraft is the candidate exam assembled by the operator. It is
// transient: created empty, mutated by form interaction, and discarded
// after submission. Nothing here is persisted until AssignExam runs.
type ExamDraft struct {
	ExamTypeID       uint            `json:"exam_type_id"`
	AcademicYearID   uint            `json:"academic_year_id"`
	ClassID          uint            `json:"class_id"`
	AffiliationID    *uint           `json:"affiliation_id,omitempty"`
	RegulationID     *uint           `json:"regulation_id,omitempty"`
	ProgramCourseIDs []uint          `json:"program_course_ids"`
	ShiftIDs         []uint          `json:"shift_ids"`
	SubjectTypeIDs   []uint          `json:"subject_type_ids"`
	Subjects         []SubjectWindow `json:"subjects"`
	// RoomIDs participate in duplicate matching only when provided.
	RoomIDs   []uint `json:"room_ids,omitempty"`
	Gender    string `json:"gender,omitempty"`
	OrderType string `json:"order_type,omitempty"`
}

// DuplicateCheckResult is advisory data, not an error: a true result
// disables submission until a fresh check clears it.
type DuplicateCheckResult struct {
	IsDuplicate     bool   `json:"is_duplicate"`
	DuplicateExamID uint   `json:"duplicate_exam_id,omitempty"`
	Message         string `json:"message,omitempty"`
}

type DuplicateService struct{}

func NewDuplicateService() *DuplicateService {
	return &DuplicateService{}
}

// CanCheckDuplicate is the precondition for a meaningful duplicate check:
// the draft must name an academic year, exam type and class, have at least
// one program course, shift, subject category and subject, and carry a
// complete, validly ordered schedule for every selected subject.
func CanCheckDuplicate(draft *ExamDraft) bool {
	if draft.AcademicYearID == 0 || draft.ExamTypeID == 0 || draft.ClassID == 0 {
		return false
	}
	if len(draft.ProgramCourseIDs) == 0 || len(draft.ShiftIDs) == 0 || len(draft.SubjectTypeIDs) == 0 {
		return false
	}
	if len(draft.Subjects) == 0 {
		return false
	}
	return ValidateWindows(draft.Subjects) == nil
}

// CheckDuplicate looks for an existing exam matching the draft. Before the
// precondition holds the result is "not a duplicate" (fail-open): the user
// is never blocked on incomplete input.
func (s *DuplicateService) CheckDuplicate(draft *ExamDraft) (*DuplicateCheckResult, error) {
	if !CanCheckDuplicate(draft) {
		return &DuplicateCheckResult{IsDuplicate: false}, nil
	}

	var exams []models.Exam
	err := database.DB.
		Preload("ExamSubjects").
		Preload("ExamShifts").
		Preload("ExamProgramCourses").
		Preload("ExamSubjectTypes").
		Preload("ExamRooms").
		Where("academic_year_id = ? AND exam_type_id = ? AND class_id = ?",
			draft.AcademicYearID, draft.ExamTypeID, draft.ClassID).
		Find(&exams).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate exams: %w", err)
	}

	for i := range exams {
		if s.examMatchesDraft(&exams[i], draft) {
			return &DuplicateCheckResult{
				IsDuplicate:     true,
				DuplicateExamID: exams[i].ID,
				Message:         fmt.Sprintf("An identical exam already exists (exam %d)", exams[i].ID),
			}, nil
		}
	}

	return &DuplicateCheckResult{IsDuplicate: false}, nil
}

// examMatchesDraft compares an existing exam to the draft on every
// selection dimension. Room sets only participate when the draft names
// rooms; subject windows must match bidirectionally.
func (s *DuplicateService) examMatchesDraft(exam *models.Exam, draft *ExamDraft) bool {
	examShifts := make([]uint, 0, len(exam.ExamShifts))
	for _, es := range exam.ExamShifts {
		examShifts = append(examShifts, es.ShiftID)
	}
	if !sameIDSet(examShifts, draft.ShiftIDs) {
		return false
	}

	examCourses := make([]uint, 0, len(exam.ExamProgramCourses))
	for _, epc := range exam.ExamProgramCourses {
		examCourses = append(examCourses, epc.ProgramCourseID)
	}
	if !sameIDSet(examCourses, draft.ProgramCourseIDs) {
		return false
	}

	examSubjectTypes := make([]uint, 0, len(exam.ExamSubjectTypes))
	for _, est := range exam.ExamSubjectTypes {
		examSubjectTypes = append(examSubjectTypes, est.SubjectTypeID)
	}
	if !sameIDSet(examSubjectTypes, draft.SubjectTypeIDs) {
		return false
	}

	if len(draft.RoomIDs) > 0 {
		examRooms := make([]uint, 0, len(exam.ExamRooms))
		for _, er := range exam.ExamRooms {
			examRooms = append(examRooms, er.RoomID)
		}
		if !sameIDSet(examRooms, draft.RoomIDs) {
			return false
		}
	}

	return sameSubjectWindows(exam.ExamSubjects, draft.Subjects)
}

// sameIDSet reports set equality, ignoring order and repeats.
func sameIDSet(a, b []uint) bool {
	setA := make(map[uint]bool, len(a))
	for _, id := range a {
		setA[id] = true
	}
	setB := make(map[uint]bool, len(b))
	for _, id := range b {
		setB[id] = true
	}
	if len(setA) != len(setB) {
		return false
	}
	for id := range setA {
		if !setB[id] {
			return false
		}
	}
	return true
}

// sameSubjectWindows checks that every scheduled subject window matches in
// both directions on subject, start and end.
func sameSubjectWindows(existing []models.ExamSubject, candidate []SubjectWindow) bool {
	if len(existing) != len(candidate) {
		return false
	}

	matched := func(es models.ExamSubject, w SubjectWindow) bool {
		return es.SubjectID == w.SubjectID &&
			es.StartTime.Equal(w.StartTime) &&
			es.EndTime.Equal(w.EndTime)
	}

	for _, es := range existing {
		found := false
		for _, w := range candidate {
			if matched(es, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, w := range candidate {
		found := false
		for _, es := range existing {
			if matched(es, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
