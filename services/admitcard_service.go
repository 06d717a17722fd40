package services

import (
	"errors"
	"fmt"
	"time"

	"examdesk_go/database"
	"examdesk_go/models"

	"gorm.io/gorm"
)

var (
	ErrStudentNotFound        = errors.New("student not found")
	ErrNoAdmitCards           = errors.New("no admit cards available")
	ErrAdmitCardWindowNotOpen = errors.New("admit card download has not started yet")
	ErrAdmitCardWindowClosed  = errors.New("admit card download window has closed")
)

// AdmitCard is everything printed on one student's card for one exam.
type AdmitCard struct {
	ExamID             uint              `json:"exam_id"`
	ExamTypeName       string            `json:"exam_type_name"`
	AcademicYearName   string            `json:"academic_year_name"`
	ClassName          string            `json:"class_name"`
	StudentUID         string            `json:"student_uid"`
	StudentName        string            `json:"student_name"`
	RollNumber         string            `json:"roll_number"`
	RegistrationNumber string            `json:"registration_number"`
	FloorName          string            `json:"floor_name"`
	RoomName           string            `json:"room_name"`
	SeatNumber         string            `json:"seat_number"`
	FoilNumber         string            `json:"foil_number,omitempty"`
	DateRange          string            `json:"date_range"`
	Schedule           []AdmitCardEntry  `json:"schedule"`
	DownloadedAt       *time.Time        `json:"downloaded_at,omitempty"`
}

// AdmitCardEntry is one subject sitting on the card's schedule table.
type AdmitCardEntry struct {
	SubjectName string    `json:"subject_name"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Date        string    `json:"date"`
	TimeRange   string    `json:"time_range"`
}

type AdmitCardService struct{}

func NewAdmitCardService() *AdmitCardService {
	return &AdmitCardService{}
}

// checkWindow enforces the exam's admit-card download window. A missing
// boundary leaves that side open.
func checkWindow(exam *models.Exam, now time.Time) error {
	if exam.AdmitCardStartDownloadDate != nil && now.Before(*exam.AdmitCardStartDownloadDate) {
		return ErrAdmitCardWindowNotOpen
	}
	if exam.AdmitCardLastDownloadDate != nil && now.After(*exam.AdmitCardLastDownloadDate) {
		return ErrAdmitCardWindowClosed
	}
	return nil
}

// AdmitCardsForStudent assembles the admit cards a student may download
// right now. Exams whose window is not open are skipped; if every card is
// outside its window the most specific window error is returned so the
// caller can tell "not yet" from "nothing allotted".
func (s *AdmitCardService) AdmitCardsForStudent(studentUID string) ([]AdmitCard, error) {
	var student models.Student
	err := database.DB.Where("uid = ?", studentUID).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to fetch student: %w", err)
	}

	var candidates []models.ExamCandidate
	err = database.DB.
		Preload("ExamRoom.Room.Floor").
		Where("student_id = ?", student.ID).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoAdmitCards
	}

	// One card per exam; a student has one candidate row per subject
	byExam := make(map[uint][]models.ExamCandidate)
	for _, c := range candidates {
		byExam[c.ExamID] = append(byExam[c.ExamID], c)
	}

	now := time.Now()
	cards := make([]AdmitCard, 0, len(byExam))
	var windowErr error

	for examID, examCandidates := range byExam {
		var exam models.Exam
		err := database.DB.
			Preload("ExamType").
			Preload("AcademicYear").
			Preload("Class").
			Preload("ExamSubjects.Subject").
			First(&exam, examID).Error
		if err != nil {
			return nil, fmt.Errorf("failed to fetch exam %d: %w", examID, err)
		}

		if err := checkWindow(&exam, now); err != nil {
			windowErr = err
			continue
		}

		cards = append(cards, s.buildCard(&exam, &student, examCandidates))
	}

	if len(cards) == 0 {
		if windowErr != nil {
			return nil, windowErr
		}
		return nil, ErrNoAdmitCards
	}
	return cards, nil
}

func (s *AdmitCardService) buildCard(exam *models.Exam, student *models.Student, candidates []models.ExamCandidate) AdmitCard {
	first := candidates[0]

	card := AdmitCard{
		ExamID:             exam.ID,
		ExamTypeName:       exam.ExamType.Name,
		AcademicYearName:   exam.AcademicYear.Year,
		ClassName:          exam.Class.Name,
		StudentUID:         student.UID,
		StudentName:        student.Name,
		RollNumber:         student.RollNumber,
		RegistrationNumber: student.RegistrationNumber,
		SeatNumber:         first.SeatNumber,
		DownloadedAt:       first.AdmitCardDownloadedAt,
	}
	if first.FoilNumber != nil {
		card.FoilNumber = *first.FoilNumber
	}
	card.RoomName = first.ExamRoom.Room.Name
	card.FloorName = first.ExamRoom.Room.Floor.Name

	windows := make([]SubjectWindow, 0, len(exam.ExamSubjects))
	for _, es := range exam.ExamSubjects {
		windows = append(windows, SubjectWindow{
			SubjectID: es.SubjectID,
			StartTime: es.StartTime,
			EndTime:   es.EndTime,
		})
		card.Schedule = append(card.Schedule, AdmitCardEntry{
			SubjectName: es.Subject.Name,
			StartTime:   es.StartTime,
			EndTime:     es.EndTime,
			Date:        es.StartTime.Format("02/01/2006"),
			TimeRange:   FormatTimeRange(es.StartTime, es.EndTime),
		})
	}
	if tr, err := ComputeTimeRange(windows); err == nil {
		card.DateRange = FormatDateRange(tr.Start, tr.End)
	}

	return card
}

// AdmitCardForExam returns one student's card for one exam, enforcing
// the exam's download window.
func (s *AdmitCardService) AdmitCardForExam(examID uint, studentUID string) (*AdmitCard, error) {
	var student models.Student
	err := database.DB.Where("uid = ?", studentUID).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to fetch student: %w", err)
	}

	var candidates []models.ExamCandidate
	err = database.DB.
		Preload("ExamRoom.Room.Floor").
		Where("exam_id = ? AND student_id = ?", examID, student.ID).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoAdmitCards
	}

	var exam models.Exam
	err = database.DB.
		Preload("ExamType").
		Preload("AcademicYear").
		Preload("Class").
		Preload("ExamSubjects.Subject").
		First(&exam, examID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exam %d: %w", examID, err)
	}

	if err := checkWindow(&exam, time.Now()); err != nil {
		return nil, err
	}

	card := s.buildCard(&exam, &student, candidates)
	return &card, nil
}

// MarkDownloaded records the first successful download time for every
// candidate row of the student in the exam. Later downloads keep the
// original timestamp.
func (s *AdmitCardService) MarkDownloaded(examID uint, studentUID string) error {
	var student models.Student
	err := database.DB.Where("uid = ?", studentUID).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to fetch student: %w", err)
	}

	now := time.Now()
	result := database.DB.Model(&models.ExamCandidate{}).
		Where("exam_id = ? AND student_id = ? AND admit_card_downloaded_at IS NULL", examID, student.ID).
		Update("admit_card_downloaded_at", now)
	if result.Error != nil {
		return fmt.Errorf("failed to record download: %w", result.Error)
	}
	return nil
}
