package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"examdesk_go/middleware"
	"examdesk_go/services"
	"examdesk_go/storage"

	"github.com/gofiber/fiber/v2"
)

type ExportController struct{}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// deliverWorkbook either streams the workbook as a download or, when
// store=true is passed, uploads it to S3 and returns the URL.
func deliverWorkbook(c *fiber.Ctx, buf *bytes.Buffer, filename string) error {
	if c.Query("store") == "true" {
		user, err := middleware.GetCurrentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not authenticated",
			})
		}

		storageService, err := storage.NewStorageService()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Storage service unavailable",
			})
		}

		url, err := storageService.UploadBytes(buf.Bytes(), "exports", user.ID, "xlsx")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to store export",
			})
		}

		return c.JSON(fiber.Map{
			"message":  "Export stored successfully",
			"filename": filename,
			"url":      url,
		})
	}

	c.Set("Content-Type", xlsxContentType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

func exportError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrExamNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exam not found"})
	case errors.Is(err, services.ErrNoCandidates):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Exam has no allotted candidates to export"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate export"})
	}
}

// ExportCandidates streams the full seating assignment as a spreadsheet
func (xc *ExportController) ExportCandidates(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid exam ID",
		})
	}

	buf, filename, err := services.NewExportService().CandidatesWorkbook(uint(id))
	if err != nil {
		return exportError(c, err)
	}

	middleware.LogActivity(c, "EXPORT", "exams", uint(id), fiber.Map{"type": "candidates"})

	return deliverWorkbook(c, buf, filename)
}

// ExportAttendanceSheets streams per-room attendance sheets
func (xc *ExportController) ExportAttendanceSheets(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid exam ID",
		})
	}

	buf, filename, err := services.NewExportService().AttendanceWorkbook(uint(id))
	if err != nil {
		return exportError(c, err)
	}

	middleware.LogActivity(c, "EXPORT", "exams", uint(id), fiber.Map{"type": "attendance_sheets"})

	return deliverWorkbook(c, buf, filename)
}

// ExportAdmitCardTracking streams the admit-card download register
func (xc *ExportController) ExportAdmitCardTracking(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid exam ID",
		})
	}

	buf, filename, err := services.NewExportService().AdmitCardTrackingWorkbook(uint(id))
	if err != nil {
		return exportError(c, err)
	}

	middleware.LogActivity(c, "EXPORT", "exams", uint(id), fiber.Map{"type": "admit_card_tracking"})

	return deliverWorkbook(c, buf, filename)
}

type AdmitCardController struct{}

func admitCardError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrStudentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	case errors.Is(err, services.ErrNoAdmitCards):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No admit cards available"})
	case errors.Is(err, services.ErrAdmitCardWindowNotOpen):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admit card download has not started yet"})
	case errors.Is(err, services.ErrAdmitCardWindowClosed):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admit card download window has closed"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch admit cards"})
	}
}

// GetAdmitCards returns the admit cards a student may download now
func (ac *AdmitCardController) GetAdmitCards(c *fiber.Ctx) error {
	uid := c.Params("uid")
	if uid == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student UID is required",
		})
	}

	cards, err := services.NewAdmitCardService().AdmitCardsForStudent(uid)
	if err != nil {
		return admitCardError(c, err)
	}

	return c.JSON(fiber.Map{
		"admit_cards": cards,
		"total":       len(cards),
	})
}

// GetAdmitCardForExam returns a single student's card for one exam,
// window-gated like the student-facing listing.
func (ac *AdmitCardController) GetAdmitCardForExam(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid exam ID",
		})
	}
	uid := c.Params("uid")
	if uid == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student UID is required",
		})
	}

	card, err := services.NewAdmitCardService().AdmitCardForExam(uint(id), uid)
	if err != nil {
		return admitCardError(c, err)
	}

	return c.JSON(fiber.Map{
		"admit_card": card,
	})
}

// MarkAdmitCardDownloaded records the first download of a student's card
func (ac *AdmitCardController) MarkAdmitCardDownloaded(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid exam ID",
		})
	}
	uid := c.Params("uid")
	if uid == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student UID is required",
		})
	}

	if err := services.NewAdmitCardService().MarkDownloaded(uint(id), uid); err != nil {
		return admitCardError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "admit_cards", uint(id), fiber.Map{"student_uid": uid})

	return c.JSON(fiber.Map{
		"message": "Admit card download recorded",
	})
}
