package services

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"time"

	"examdesk_go/database"
	"examdesk_go/models"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrNoCandidates       = errors.New("exam has no allotted candidates")
	ErrWorkbookGeneration = errors.New("failed to generate workbook")
)

type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// candidateRow is one row of the flattened candidate listing used by all
// three workbook layouts.
type candidateRow struct {
	SeatNumber         string
	UID                string
	Name               string
	RollNumber         string
	RegistrationNumber string
	FloorName          string
	RoomName           string
	RoomID             uint
	FoilNumber         string
	DownloadedAt       *time.Time
}

// loadCandidateRows fetches candidates for an exam, deduplicated per
// student (one row per seat, not per subject), sorted by room then seat.
func (s *ExportService) loadCandidateRows(examID uint) ([]candidateRow, error) {
	var exam models.Exam
	err := database.DB.First(&exam, examID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to fetch exam: %w", err)
	}

	var candidates []models.ExamCandidate
	err = database.DB.
		Preload("Student").
		Preload("ExamRoom.Room.Floor").
		Where("exam_id = ?", examID).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	seen := make(map[uint]bool, len(candidates))
	rows := make([]candidateRow, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.StudentID] {
			continue
		}
		seen[c.StudentID] = true

		row := candidateRow{
			SeatNumber:         c.SeatNumber,
			UID:                c.Student.UID,
			Name:               c.Student.Name,
			RollNumber:         c.Student.RollNumber,
			RegistrationNumber: c.Student.RegistrationNumber,
			DownloadedAt:       c.AdmitCardDownloadedAt,
		}
		if c.FoilNumber != nil {
			row.FoilNumber = *c.FoilNumber
		}
		row.RoomID = c.ExamRoom.RoomID
		row.RoomName = c.ExamRoom.Room.Name
		row.FloorName = c.ExamRoom.Room.Floor.Name
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RoomName != rows[j].RoomName {
			return rows[i].RoomName < rows[j].RoomName
		}
		return rows[i].SeatNumber < rows[j].SeatNumber
	})

	return rows, nil
}

// headerStyle builds the bold/filled header style shared by every export.
func headerStyle(f *excelize.File) int {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		logrus.WithError(err).Warn("Failed to build header style")
		return 0
	}
	return style
}

// writeSheet writes a header row plus data rows and sizes every column to
// its longest value.
func writeSheet(f *excelize.File, sheet string, headers []string, data [][]string, style int) error {
	widths := make([]int, len(headers))
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if style != 0 {
			f.SetCellStyle(sheet, cell, cell, style)
		}
		widths[col] = len(h)
	}

	for rowIdx, row := range data {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
			if len(value) > widths[col] {
				widths[col] = len(value)
			}
		}
	}

	for col, width := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		f.SetColWidth(sheet, name, name, float64(width)+4)
	}
	return nil
}

// CandidatesWorkbook exports the full seating assignment for an exam:
// one row per seated student with floor, room, seat and foil number.
func (s *ExportService) CandidatesWorkbook(examID uint) (*bytes.Buffer, string, error) {
	rows, err := s.loadCandidateRows(examID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Candidates"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrWorkbookGeneration
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Seat Number", "UID", "Name", "CU Roll Number", "CU Registration Number", "Floor", "Room", "Foil Number"}
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.SeatNumber, r.UID, r.Name, r.RollNumber, r.RegistrationNumber,
			r.FloorName, r.RoomName, r.FoilNumber,
		})
	}

	if err := writeSheet(f, sheet, headers, data, headerStyle(f)); err != nil {
		logrus.WithError(err).Error("Failed to write candidates sheet")
		return nil, "", ErrWorkbookGeneration
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		logrus.WithError(err).Error("Failed to serialize candidates workbook")
		return nil, "", ErrWorkbookGeneration
	}

	filename := fmt.Sprintf("candidates_exam_%d_%s.xlsx", examID, time.Now().Format("20060102"))
	return buf, filename, nil
}

// AttendanceWorkbook exports one sheet per room, each listing its seated
// students with a blank signature column for invigilators.
func (s *ExportService) AttendanceWorkbook(examID uint) (*bytes.Buffer, string, error) {
	rows, err := s.loadCandidateRows(examID)
	if err != nil {
		return nil, "", err
	}

	byRoom := make(map[string][]candidateRow)
	roomOrder := make([]string, 0)
	for _, r := range rows {
		key := fmt.Sprintf("%s - %s", r.FloorName, r.RoomName)
		if _, ok := byRoom[key]; !ok {
			roomOrder = append(roomOrder, key)
		}
		byRoom[key] = append(byRoom[key], r)
	}
	sort.Strings(roomOrder)

	f := excelize.NewFile()
	defer f.Close()
	style := headerStyle(f)

	headers := []string{"Seat Number", "UID", "Name", "CU Roll Number", "Foil Number", "Signature"}
	for i, roomKey := range roomOrder {
		// Sheet names cap at 31 chars in the xlsx format
		sheet := roomKey
		if len(sheet) > 31 {
			sheet = sheet[:31]
		}
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return nil, "", ErrWorkbookGeneration
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		data := make([][]string, 0, len(byRoom[roomKey]))
		for _, r := range byRoom[roomKey] {
			data = append(data, []string{r.SeatNumber, r.UID, r.Name, r.RollNumber, r.FoilNumber, ""})
		}
		if err := writeSheet(f, sheet, headers, data, style); err != nil {
			logrus.WithError(err).Error("Failed to write attendance sheet")
			return nil, "", ErrWorkbookGeneration
		}
	}
	f.DeleteSheet("Sheet1")

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		logrus.WithError(err).Error("Failed to serialize attendance workbook")
		return nil, "", ErrWorkbookGeneration
	}

	filename := fmt.Sprintf("attendance_exam_%d_%s.xlsx", examID, time.Now().Format("20060102"))
	return buf, filename, nil
}

// AdmitCardTrackingWorkbook exports the download status of every
// candidate's admit card.
func (s *ExportService) AdmitCardTrackingWorkbook(examID uint) (*bytes.Buffer, string, error) {
	rows, err := s.loadCandidateRows(examID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Admit Cards"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrWorkbookGeneration
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"UID", "Name", "Seat Number", "Room", "Downloaded", "Downloaded At"}
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		downloaded := "No"
		downloadedAt := ""
		if r.DownloadedAt != nil {
			downloaded = "Yes"
			downloadedAt = r.DownloadedAt.Format("02/01/2006 03:04 PM")
		}
		data = append(data, []string{r.UID, r.Name, r.SeatNumber, r.RoomName, downloaded, downloadedAt})
	}

	if err := writeSheet(f, sheet, headers, data, headerStyle(f)); err != nil {
		logrus.WithError(err).Error("Failed to write admit card tracking sheet")
		return nil, "", ErrWorkbookGeneration
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		logrus.WithError(err).Error("Failed to serialize admit card workbook")
		return nil, "", ErrWorkbookGeneration
	}

	filename := fmt.Sprintf("admit_card_tracking_exam_%d_%s.xlsx", examID, time.Now().Format("20060102"))
	return buf, filename, nil
}
