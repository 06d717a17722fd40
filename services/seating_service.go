package services

import (
	"fmt"
	"sort"
	"strings"

	"examdesk_go/database"
	"examdesk_go/models"

	"gorm.io/gorm"
)

// Order types for seat assignment
const (
	OrderByUID                = "UID"
	OrderByRollNumber         = "CU_ROLL_NUMBER"
	OrderByRegistrationNumber = "CU_REGISTRATION_NUMBER"
)

// RoomAssignment describes one room made available for seating, in the
// order rooms should be filled.
type RoomAssignment struct {
	RoomID              uint   `json:"room_id"`
	FloorID             uint   `json:"floor_id"`
	FloorName           string `json:"floor_name"`
	RoomName            string `json:"room_name"`
	MaxStudentsPerBench int    `json:"max_students_per_bench"`
	NumberOfBenches     int    `json:"number_of_benches"`
	Capacity            int    `json:"capacity"`
}

// SeatedStudent is one student with their assigned seat. Students beyond
// the total room capacity are reported with an empty seat number.
type SeatedStudent struct {
	StudentID          uint   `json:"student_id"`
	UID                string `json:"uid"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	WhatsappPhone      string `json:"whatsapp_phone"`
	RollNumber         string `json:"roll_number"`
	RegistrationNumber string `json:"registration_number"`
	ProgramCourseID    uint   `json:"program_course_id"`
	ShiftID            uint   `json:"shift_id"`
	FloorName          string `json:"floor_name"`
	RoomName           string `json:"room_name"`
	RoomID             uint   `json:"room_id"`
	SeatNumber         string `json:"seat_number"`
	FoilNumber         string `json:"foil_number,omitempty"`
}

// StudentFilter selects the eligible population for an exam.
type StudentFilter struct {
	ClassID          uint   `json:"class_id"`
	ProgramCourseIDs []uint `json:"program_course_ids"`
	AcademicYearIDs  []uint `json:"academic_year_ids"`
	ShiftIDs         []uint `json:"shift_ids,omitempty"`
	// PaperIDs narrows the population to students enrolled in any of the
	// selected papers.
	PaperIDs []uint `json:"paper_ids,omitempty"`
	// Gender restriction; empty means all students.
	Gender string `json:"gender,omitempty"`
	// UIDs restricts the population to the uploaded foil sheet when present.
	UIDs []string `json:"uids,omitempty"`
}

// paperEnrollmentTuples reduces papers to the distinct (class,
// program course, academic year) combinations their students belong to.
func paperEnrollmentTuples(papers []models.Paper) [][]interface{} {
	seen := make(map[string]bool)
	tuples := make([][]interface{}, 0, len(papers))
	for _, p := range papers {
		key := fmt.Sprintf("%d:%d:%d", p.ClassID, p.ProgramCourseID, p.AcademicYearID)
		if seen[key] {
			continue
		}
		seen[key] = true
		tuples = append(tuples, []interface{}{p.ClassID, p.ProgramCourseID, p.AcademicYearID})
	}
	return tuples
}

// applyPaperScope narrows a student query to the enrollment combinations
// of the selected papers. Unknown or inactive papers contribute nothing,
// so a selection resolving to no papers yields an empty population.
func applyPaperScope(tx *gorm.DB, query *gorm.DB, paperIDs []uint) (*gorm.DB, error) {
	var papers []models.Paper
	if err := tx.Where("id IN ? AND active = ?", paperIDs, true).Find(&papers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch papers: %w", err)
	}

	tuples := paperEnrollmentTuples(papers)
	if len(tuples) == 0 {
		return query.Where("1 = 0"), nil
	}
	return query.Where("(class_id, program_course_id, academic_year_id) IN ?", tuples), nil
}

type SeatingService struct{}

func NewSeatingService() *SeatingService {
	return &SeatingService{}
}

// seatPositions returns the per-bench seat letters for a given density.
// Seats are placed extremes-first to maximise the gap between students,
// then reported in alphabetical order:
//
//	1 student:  A
//	2 students: A, C (skip the middle seat)
//	3+:         contiguous letters from A
func seatPositions(maxStudentsPerBench int) []string {
	if maxStudentsPerBench <= 1 {
		return []string{"A"}
	}
	if maxStudentsPerBench == 2 {
		return []string{"A", "C"}
	}

	letters := make([]string, 0, maxStudentsPerBench)
	left, right := 0, maxStudentsPerBench-1
	for len(letters) < maxStudentsPerBench {
		if left <= right {
			letters = append(letters, string(rune('A'+left)))
			left++
		}
		if right >= left && len(letters) < maxStudentsPerBench {
			letters = append(letters, string(rune('A'+right)))
			right--
		}
	}
	sort.Strings(letters)
	return letters
}

// orderValue picks the identifier used for ordering under the given policy.
func orderValue(s *SeatedStudent, orderType string) string {
	switch orderType {
	case OrderByRollNumber:
		return strings.TrimSpace(s.RollNumber)
	case OrderByRegistrationNumber:
		return strings.TrimSpace(s.RegistrationNumber)
	default:
		return strings.TrimSpace(s.UID)
	}
}

// sortStudents orders students by the chosen identifier. Students with an
// empty identifier always sort after those with one.
func sortStudents(students []SeatedStudent, orderType string) {
	sort.SliceStable(students, func(i, j int) bool {
		a := orderValue(&students[i], orderType)
		b := orderValue(&students[j], orderType)
		if a == "" && b == "" {
			return false
		}
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})
}

// AssignSeats fills rooms in the given order, bench by bench, after sorting
// students by the order-type identifier. Overflow students keep their room
// fields empty.
func AssignSeats(students []SeatedStudent, rooms []RoomAssignment, orderType string) []SeatedStudent {
	sortStudents(students, orderType)

	studentIdx := 0
	for _, room := range rooms {
		perBench := room.MaxStudentsPerBench
		if perBench <= 0 {
			perBench = 2
		}
		capacity := room.Capacity
		if capacity <= 0 {
			capacity = perBench * room.NumberOfBenches
		}
		letters := seatPositions(perBench)

		for seatIdx := 0; studentIdx < len(students) && seatIdx < capacity; seatIdx++ {
			bench := seatIdx/perBench + 1
			letter := letters[seatIdx%perBench]

			s := &students[studentIdx]
			s.FloorName = room.FloorName
			s.RoomName = room.RoomName
			s.RoomID = room.RoomID
			s.SeatNumber = fmt.Sprintf("%d%s", bench, letter)
			studentIdx++
		}
	}

	return students
}

// fetchEligibleStudents loads the student population for a filter set.
func (s *SeatingService) fetchEligibleStudents(tx *gorm.DB, filter StudentFilter) ([]SeatedStudent, error) {
	query := tx.Model(&models.Student{}).
		Where("active = ?", true).
		Where("class_id = ?", filter.ClassID).
		Where("program_course_id IN ?", filter.ProgramCourseIDs).
		Where("academic_year_id IN ?", filter.AcademicYearIDs)

	if len(filter.ShiftIDs) > 0 {
		query = query.Where("shift_id IN ?", filter.ShiftIDs)
	}
	if len(filter.PaperIDs) > 0 {
		var err error
		query, err = applyPaperScope(tx, query, filter.PaperIDs)
		if err != nil {
			return nil, err
		}
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if len(filter.UIDs) > 0 {
		query = query.Where("uid IN ?", filter.UIDs)
	}

	var records []models.Student
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch eligible students: %w", err)
	}

	students := make([]SeatedStudent, 0, len(records))
	for _, r := range records {
		students = append(students, SeatedStudent{
			StudentID:          r.ID,
			UID:                r.UID,
			Name:               r.Name,
			Email:              r.Email,
			WhatsappPhone:      r.WhatsappPhone,
			RollNumber:         r.RollNumber,
			RegistrationNumber: r.RegistrationNumber,
			ProgramCourseID:    r.ProgramCourseID,
			ShiftID:            r.ShiftID,
		})
	}
	return students, nil
}

// StudentsForExam returns the eligible students with seats assigned across
// the given rooms. Foil numbers from the uploaded sheet are joined by UID.
func (s *SeatingService) StudentsForExam(filter StudentFilter, rooms []RoomAssignment, orderType string, foilMap map[string]string) ([]SeatedStudent, error) {
	students, err := s.fetchEligibleStudents(database.DB, filter)
	if err != nil {
		return nil, err
	}

	students = AssignSeats(students, rooms, orderType)

	if len(foilMap) > 0 {
		for i := range students {
			if foil, ok := foilMap[students[i].UID]; ok {
				students[i].FoilNumber = foil
			}
		}
	}

	return students, nil
}
