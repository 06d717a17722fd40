package services

import (
	"errors"
	"fmt"
	"time"

	"examdesk_go/database"
	"examdesk_go/models"
	"examdesk_go/services/notifications"

	"gorm.io/gorm"
)

// Structured domain errors. Controllers map these to status codes and
// domain-termed messages instead of pattern-matching message text.
var (
	ErrDuplicateExam        = errors.New("an identical exam already exists")
	ErrExamNotFound         = errors.New("exam not found")
	ErrRoomsAlreadyAssigned = errors.New("exam already has rooms assigned")
	ErrNoEligibleStudents   = errors.New("no eligible students found")
	ErrNoSubjectsScheduled  = errors.New("exam has no subjects scheduled")
	ErrExamAlreadyStarted   = errors.New("exam has already started")
)

// AllotmentRequest carries the room/ordering choices for an allotment.
type AllotmentRequest struct {
	Rooms                      []RoomSelection `json:"locations"`
	OrderType                  string          `json:"order_type"`
	Gender                     string          `json:"gender,omitempty"`
	AdmitCardStartDownloadDate *time.Time      `json:"admit_card_start_download_date,omitempty"`
	AdmitCardLastDownloadDate  *time.Time      `json:"admit_card_last_download_date,omitempty"`
}

// duplicateChecker is what AssignExam needs from the duplicate service;
// tests substitute a stub to reach the rejection path without a database.
type duplicateChecker interface {
	CheckDuplicate(draft *ExamDraft) (*DuplicateCheckResult, error)
}

type ExamService struct {
	duplicates duplicateChecker
	seating    *SeatingService
	notifier   *notifications.Service
}

func NewExamService() *ExamService {
	return &ExamService{
		duplicates: NewDuplicateService(),
		seating:    NewSeatingService(),
		notifier:   notifications.NewService(),
	}
}

// AssignExam validates the draft, hard-gates on the duplicate check, and
// creates the exam aggregate in one transaction. On success all cached
// counts are invalidated and an exam_updated event is broadcast; on
// failure nothing is persisted.
func (s *ExamService) AssignExam(draft *ExamDraft, rooms []RoomSelection, userID uint) (*models.Exam, error) {
	if len(draft.Subjects) == 0 {
		return nil, ErrNoSubjectsScheduled
	}
	if err := ValidateWindows(draft.Subjects); err != nil {
		return nil, err
	}
	if len(rooms) > 0 {
		if err := ValidateRoomSelections(rooms); err != nil {
			return nil, err
		}
	}

	dup, err := s.duplicates.CheckDuplicate(draft)
	if err != nil {
		return nil, err
	}
	if dup.IsDuplicate {
		return nil, fmt.Errorf("%w (exam %d)", ErrDuplicateExam, dup.DuplicateExamID)
	}

	exam := models.Exam{
		ExamTypeID:          draft.ExamTypeID,
		AcademicYearID:      draft.AcademicYearID,
		ClassID:             draft.ClassID,
		AffiliationID:       draft.AffiliationID,
		RegulationID:        draft.RegulationID,
		Gender:              draft.Gender,
		OrderType:           draft.OrderType,
		LastUpdatedByUserID: &userID,
	}
	if exam.OrderType == "" {
		exam.OrderType = OrderByUID
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&exam).Error; err != nil {
			return fmt.Errorf("failed to create exam: %w", err)
		}

		for _, w := range draft.Subjects {
			es := models.ExamSubject{
				ExamID:    exam.ID,
				SubjectID: w.SubjectID,
				StartTime: w.StartTime,
				EndTime:   w.EndTime,
			}
			if err := tx.Create(&es).Error; err != nil {
				return fmt.Errorf("failed to create exam subject: %w", err)
			}
		}
		for _, shiftID := range draft.ShiftIDs {
			if err := tx.Create(&models.ExamShift{ExamID: exam.ID, ShiftID: shiftID}).Error; err != nil {
				return fmt.Errorf("failed to create exam shift: %w", err)
			}
		}
		for _, pcID := range draft.ProgramCourseIDs {
			if err := tx.Create(&models.ExamProgramCourse{ExamID: exam.ID, ProgramCourseID: pcID}).Error; err != nil {
				return fmt.Errorf("failed to create exam program course: %w", err)
			}
		}
		for _, stID := range draft.SubjectTypeIDs {
			if err := tx.Create(&models.ExamSubjectType{ExamID: exam.ID, SubjectTypeID: stID}).Error; err != nil {
				return fmt.Errorf("failed to create exam subject type: %w", err)
			}
		}
		for _, room := range rooms {
			er := models.ExamRoom{
				ExamID:           exam.ID,
				RoomID:           room.RoomID,
				Capacity:         room.Capacity(),
				StudentsPerBench: room.EffectivePerBench(),
			}
			if err := tx.Create(&er).Error; err != nil {
				return fmt.Errorf("failed to create exam room: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	InvalidateCountCache()
	s.notifier.NotifyExamUpdated(exam.ID, "assignment", "Exam has been scheduled", userID)

	return &exam, nil
}

// AllotExam books rooms for an existing exam and seats the eligible
// students. An exam that already has rooms is rejected; existing rooms
// must be removed first.
func (s *ExamService) AllotExam(examID uint, req AllotmentRequest, foilMap FoilNumberMap, userID uint) ([]SeatedStudent, error) {
	var exam models.Exam
	err := database.DB.
		Preload("ExamSubjects").
		Preload("ExamShifts").
		Preload("ExamProgramCourses").
		Preload("ExamRooms").
		First(&exam, examID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to fetch exam: %w", err)
	}

	if len(exam.ExamRooms) > 0 {
		return nil, ErrRoomsAlreadyAssigned
	}
	if len(exam.ExamSubjects) == 0 {
		return nil, ErrNoSubjectsScheduled
	}
	if err := ValidateRoomSelections(req.Rooms); err != nil {
		return nil, err
	}

	assignments, err := s.resolveRoomAssignments(req.Rooms)
	if err != nil {
		return nil, err
	}

	filter := s.filterForExam(&exam, req.Gender, foilMap)
	orderType := req.OrderType
	if orderType == "" {
		orderType = exam.OrderType
	}

	students, err := s.seating.StudentsForExam(filter, assignments, orderType, foilMap)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, ErrNoEligibleStudents
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"order_type":              orderType,
			"last_updated_by_user_id": userID,
		}
		if req.Gender != "" {
			updates["gender"] = req.Gender
		}
		updates["admit_card_start_download_date"] = req.AdmitCardStartDownloadDate
		updates["admit_card_last_download_date"] = req.AdmitCardLastDownloadDate
		if err := tx.Model(&models.Exam{}).Where("id = ?", examID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update exam: %w", err)
		}

		examRoomByRoomID := make(map[uint]uint, len(req.Rooms))
		for _, room := range req.Rooms {
			er := models.ExamRoom{
				ExamID:           examID,
				RoomID:           room.RoomID,
				Capacity:         room.Capacity(),
				StudentsPerBench: room.EffectivePerBench(),
			}
			if err := tx.Create(&er).Error; err != nil {
				return fmt.Errorf("failed to create exam room: %w", err)
			}
			examRoomByRoomID[room.RoomID] = er.ID
		}

		candidates := make([]models.ExamCandidate, 0, len(students)*len(exam.ExamSubjects))
		for _, student := range students {
			if student.SeatNumber == "" {
				// Overflow beyond total capacity stays unseated
				continue
			}
			examRoomID, ok := examRoomByRoomID[student.RoomID]
			if !ok {
				return fmt.Errorf("room %d not booked for student %s", student.RoomID, student.UID)
			}

			var foil *string
			if student.FoilNumber != "" {
				f := student.FoilNumber
				foil = &f
			}

			for _, es := range exam.ExamSubjects {
				candidates = append(candidates, models.ExamCandidate{
					ExamID:        examID,
					StudentID:     student.StudentID,
					ExamRoomID:    examRoomID,
					ExamSubjectID: es.ID,
					SeatNumber:    student.SeatNumber,
					FoilNumber:    foil,
				})
			}
		}

		if len(candidates) > 0 {
			if err := tx.CreateInBatches(candidates, 500).Error; err != nil {
				return fmt.Errorf("failed to create exam candidates: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	InvalidateCountCache()
	s.notifier.NotifyExamUpdated(examID, "allotment", "Exam rooms and students have been allotted", userID)

	return students, nil
}

// DeleteExamIfUpcoming removes an exam and its children, but only before
// the earliest scheduled subject has started.
func (s *ExamService) DeleteExamIfUpcoming(examID uint, userID uint) error {
	var exam models.Exam
	err := database.DB.Preload("ExamSubjects").First(&exam, examID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExamNotFound
		}
		return fmt.Errorf("failed to fetch exam: %w", err)
	}

	now := time.Now()
	for _, es := range exam.ExamSubjects {
		if !es.StartTime.After(now) {
			return ErrExamAlreadyStarted
		}
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.ExamCandidate{},
			&models.ExamRoom{},
			&models.ExamSubject{},
			&models.ExamShift{},
			&models.ExamProgramCourse{},
			&models.ExamSubjectType{},
		} {
			if err := tx.Where("exam_id = ?", examID).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete exam children: %w", err)
			}
		}
		return tx.Delete(&models.Exam{}, examID).Error
	})
	if err != nil {
		return err
	}

	InvalidateCountCache()
	s.notifier.NotifyExamUpdated(examID, "deletion", "Exam has been deleted", userID)
	return nil
}

// UpdateAdmitCardDates sets or clears the admit-card download window.
func (s *ExamService) UpdateAdmitCardDates(examID uint, start, last *time.Time, userID uint) error {
	result := database.DB.Model(&models.Exam{}).Where("id = ?", examID).Updates(map[string]interface{}{
		"admit_card_start_download_date": start,
		"admit_card_last_download_date":  last,
		"last_updated_by_user_id":        userID,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update admit card dates: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrExamNotFound
	}
	return nil
}

// resolveRoomAssignments loads floor/room master data for the selected
// rooms and produces the fill-order assignments used by seating.
func (s *ExamService) resolveRoomAssignments(selections []RoomSelection) ([]RoomAssignment, error) {
	assignments := make([]RoomAssignment, 0, len(selections))
	for _, sel := range selections {
		var room models.Room
		if err := database.DB.Preload("Floor").First(&room, sel.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("room %d not found", sel.RoomID)
			}
			return nil, fmt.Errorf("failed to fetch room %d: %w", sel.RoomID, err)
		}

		// Master data wins over whatever the client sent
		sel.NumberOfBenches = room.NumberOfBenches
		sel.MaxStudentsPerBench = room.MaxStudentsPerBench
		if err := sel.ValidateOverride(); err != nil {
			return nil, err
		}

		assignments = append(assignments, RoomAssignment{
			RoomID:              room.ID,
			FloorID:             room.FloorID,
			FloorName:           room.Floor.Name,
			RoomName:            room.Name,
			MaxStudentsPerBench: sel.EffectivePerBench(),
			NumberOfBenches:     room.NumberOfBenches,
			Capacity:            sel.Capacity(),
		})
	}
	return assignments, nil
}

// filterForExam derives the eligible-student filter from an exam's
// children, an optional gender restriction and the foil sheet.
func (s *ExamService) filterForExam(exam *models.Exam, gender string, foilMap FoilNumberMap) StudentFilter {
	filter := StudentFilter{
		ClassID:         exam.ClassID,
		AcademicYearIDs: []uint{exam.AcademicYearID},
	}
	for _, epc := range exam.ExamProgramCourses {
		filter.ProgramCourseIDs = append(filter.ProgramCourseIDs, epc.ProgramCourseID)
	}
	for _, es := range exam.ExamShifts {
		filter.ShiftIDs = append(filter.ShiftIDs, es.ShiftID)
	}
	if gender == "" {
		gender = exam.Gender
	}
	filter.Gender = gender
	if len(foilMap) > 0 {
		filter.UIDs = foilMap.UIDs()
	}
	return filter
}
