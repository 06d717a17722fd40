package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"examdesk_go/config"
	"examdesk_go/database"
	"examdesk_go/middleware"
	"examdesk_go/models"
	"examdesk_go/services"
	"examdesk_go/utils"

	"github.com/gofiber/fiber/v2"
)

type ExamController struct{}

// examServiceError maps service errors to HTTP responses.
func examServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrExamNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exam not found"})
	case errors.Is(err, services.ErrDuplicateExam):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrRoomsAlreadyAssigned):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Exam already has rooms assigned; remove them before allotting again"})
	case errors.Is(err, services.ErrNoEligibleStudents):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "No eligible students found for this exam"})
	case errors.Is(err, services.ErrNoSubjectsScheduled):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Exam has no subjects scheduled"})
	case errors.Is(err, services.ErrExamAlreadyStarted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Exam has already started and cannot be deleted"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// parseFoilSheet pulls the optional foil spreadsheet out of a multipart
// request. Missing file means no foil restriction.
func parseFoilSheet(c *fiber.Ctx) (services.FoilNumberMap, error) {
	fileHeader, err := c.FormFile("foil_sheet")
	if err != nil {
		return nil, nil
	}

	if fileHeader.Size > config.AppConfig.MaxFileSize {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "Foil sheet exceeds the maximum upload size")
	}
	allowed := strings.Split(utils.SanitizeString(config.AppConfig.AllowedExtensions), ",")
	if !utils.IsValidFileExtension(fileHeader.Filename, allowed) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Foil sheet must be an .xlsx or .xls file")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to open foil sheet")
	}
	defer src.Close()

	foilMap, err := services.ParseFoilSpreadsheet(src)
	if err != nil {
		var missing *services.MissingColumnsError
		if errors.As(err, &missing) {
			return nil, fiber.NewError(fiber.StatusUnprocessableEntity, missing.Error())
		}
		if errors.Is(err, services.ErrNoValidRows) {
			return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Foil sheet contains no valid rows")
		}
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to read foil sheet")
	}

	return foilMap, nil
}

// GetExams returns all exams with pagination
func (ec *ExamController) GetExams(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var exams []models.Exam
	var total int64

	query := database.DB.Model(&models.Exam{})

	if examTypeID := c.Query("exam_type_id"); examTypeID != "" {
		query = query.Where("exam_type_id = ?", examTypeID)
	}
	if academicYearID := c.Query("academic_year_id"); academicYearID != "" {
		query = query.Where("academic_year_id = ?", academicYearID)
	}
	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}

	query.Count(&total)

	err := query.
		Preload("ExamType").
		Preload("AcademicYear").
		Preload("Class").
		Preload("ExamSubjects.Subject").
		Preload("ExamShifts.Shift").
		Preload("ExamProgramCourses.ProgramCourse").
		Preload("ExamRooms.Room.Floor").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&exams).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch exams",
		})
	}

	return c.JSON(fiber.Map{
		"exams": exams,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetExam returns a specific exam by ID
func (ec *ExamController) GetExam(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid exam ID",
		})
	}

	var exam models.Exam
	err = database.DB.
		Preload("ExamType").
		Preload("AcademicYear").
		Preload("Class").
		Preload("ExamSubjects.Subject").
		Preload("ExamShifts.Shift").
		Preload("ExamProgramCourses.ProgramCourse").
		Preload("ExamSubjectTypes.SubjectType").
		Preload("ExamRooms.Room.Floor").
		First(&exam, uint(id)).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Exam not found",
		})
	}

	return c.JSON(fiber.Map{
		"exam": exam,
	})
}

// CreateExam schedules a new exam from a validated draft
func (ec *ExamController) CreateExam(c *fiber.Ctx) error {
	var req struct {
		services.ExamDraft
		Locations []services.RoomSelection `json:"locations"`
	}
	if err := parsePayload(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.OrderType != "" && !utils.IsValidOrderType(req.OrderType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order type. Must be: UID, CU_ROLL_NUMBER, or CU_REGISTRATION_NUMBER",
		})
	}
	if !utils.IsValidGender(req.Gender) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid gender filter. Must be: MALE, FEMALE, or OTHER",
		})
	}

	// A foil sheet may ride along with the submission; it only narrows
	// draft-stage counts, so here it is validated and logged, not stored.
	foilMap, err := parseFoilSheet(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not authenticated",
		})
	}

	exam, err := services.NewExamService().AssignExam(&req.ExamDraft, req.Locations, user.ID)
	if err != nil {
		return examServiceError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "exams", exam.ID, fiber.Map{
		"draft":       req.ExamDraft,
		"locations":   len(req.Locations),
		"foil_sheets": len(foilMap),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Exam scheduled successfully",
		"exam":    exam,
	})
}

// AllotExam books rooms and seats eligible students for an exam
func (ec *ExamController) AllotExam(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid exam ID",
		})
	}

	var req services.AllotmentRequest
	if err := parsePayload(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.OrderType != "" && !utils.IsValidOrderType(req.OrderType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order type. Must be: UID, CU_ROLL_NUMBER, or CU_REGISTRATION_NUMBER",
		})
	}
	if !utils.IsValidGender(req.Gender) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid gender filter. Must be: MALE, FEMALE, or OTHER",
		})
	}

	foilMap, err := parseFoilSheet(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not authenticated",
		})
	}

	students, err := services.NewExamService().AllotExam(uint(id), req, foilMap, user.ID)
	if err != nil {
		return examServiceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "exams", uint(id), fiber.Map{
		"action":      "allotment",
		"rooms":       len(req.Rooms),
		"students":    len(students),
		"order_type":  req.OrderType,
		"foil_sheets": len(foilMap),
	})

	return c.JSON(fiber.Map{
		"message":  "Exam allotted successfully",
		"students": students,
		"total":    len(students),
	})
}

// DeleteExam removes an upcoming exam; started exams are immutable
func (ec *ExamController) DeleteExam(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid exam ID",
		})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not authenticated",
		})
	}

	if err := services.NewExamService().DeleteExamIfUpcoming(uint(id), user.ID); err != nil {
		return examServiceError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "exams", uint(id), nil)

	return c.JSON(fiber.Map{
		"message": "Exam deleted successfully",
	})
}

// UpdateAdmitCardDates sets or clears the admit-card download window
func (ec *ExamController) UpdateAdmitCardDates(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid exam ID",
		})
	}

	var req struct {
		AdmitCardStartDownloadDate *time.Time `json:"admit_card_start_download_date"`
		AdmitCardLastDownloadDate  *time.Time `json:"admit_card_last_download_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.AdmitCardStartDownloadDate != nil && req.AdmitCardLastDownloadDate != nil &&
		req.AdmitCardLastDownloadDate.Before(*req.AdmitCardStartDownloadDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Admit card last download date cannot be before the start date",
		})
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not authenticated",
		})
	}

	err = services.NewExamService().UpdateAdmitCardDates(uint(id),
		req.AdmitCardStartDownloadDate, req.AdmitCardLastDownloadDate, user.ID)
	if err != nil {
		return examServiceError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "exams", uint(id), req)

	return c.JSON(fiber.Map{
		"message": "Admit card dates updated successfully",
	})
}
