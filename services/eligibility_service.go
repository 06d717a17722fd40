package services

import (
	"fmt"

	"examdesk_go/database"
	"examdesk_go/models"
)

type EligibilityService struct{}

func NewEligibilityService() *EligibilityService {
	return &EligibilityService{}
}

// EligibleRooms returns the rooms free of conflicting bookings for the
// requested subject windows.
//
// With no valid windows the conflict computation is skipped and the full
// active-room catalog is returned sorted by name: "no constraint known
// yet" means show everything, not show nothing.
func (s *EligibilityService) EligibleRooms(windows []SubjectWindow) ([]models.Room, error) {
	complete := make([]SubjectWindow, 0, len(windows))
	for _, w := range windows {
		if !w.StartTime.IsZero() && !w.EndTime.IsZero() {
			complete = append(complete, w)
		}
	}

	var rooms []models.Room
	query := database.DB.Preload("Floor").
		Where("active = ?", true).
		Order("name ASC")
	if err := query.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch rooms: %w", err)
	}

	if len(complete) == 0 {
		return rooms, nil
	}

	booked, err := s.bookedRoomIDs(complete)
	if err != nil {
		return nil, err
	}

	eligible := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if !booked[room.ID] {
			eligible = append(eligible, room)
		}
	}
	return eligible, nil
}

// bookedRoomIDs collects rooms whose existing exam bookings overlap any
// requested window. Back-to-back windows do not conflict.
func (s *EligibilityService) bookedRoomIDs(windows []SubjectWindow) (map[uint]bool, error) {
	var examRooms []models.ExamRoom
	if err := database.DB.Find(&examRooms).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch exam rooms: %w", err)
	}
	if len(examRooms) == 0 {
		return map[uint]bool{}, nil
	}

	examIDs := make([]uint, 0, len(examRooms))
	for _, er := range examRooms {
		examIDs = append(examIDs, er.ExamID)
	}

	var examSubjects []models.ExamSubject
	if err := database.DB.Where("exam_id IN ?", examIDs).Find(&examSubjects).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch exam subjects: %w", err)
	}

	// exam -> subject windows
	subjectsByExam := make(map[uint][]models.ExamSubject)
	for _, es := range examSubjects {
		subjectsByExam[es.ExamID] = append(subjectsByExam[es.ExamID], es)
	}

	booked := make(map[uint]bool)
	for _, er := range examRooms {
		if booked[er.RoomID] {
			continue
		}
		for _, es := range subjectsByExam[er.ExamID] {
			if anyWindowOverlaps(windows, es) {
				booked[er.RoomID] = true
				break
			}
		}
	}
	return booked, nil
}

func anyWindowOverlaps(windows []SubjectWindow, es models.ExamSubject) bool {
	for _, w := range windows {
		if windowsOverlap(w.StartTime, w.EndTime, es.StartTime, es.EndTime) {
			return true
		}
	}
	return false
}
