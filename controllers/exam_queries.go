package controllers

import (
	"encoding/json"
	"strings"

	"examdesk_go/services"

	"github.com/gofiber/fiber/v2"
)

// ExamQueryController serves the draft-time lookups the scheduling form
// re-runs while the operator edits: eligible rooms, student counts and
// duplicate detection.
type ExamQueryController struct{}

// parsePayload decodes the request either from a JSON body or from the
// "payload" field of a multipart form (used when a foil sheet rides along).
func parsePayload(c *fiber.Ctx, dst interface{}) error {
	if strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data") {
		raw := c.FormValue("payload")
		if raw == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Missing payload field")
		}
		return json.Unmarshal([]byte(raw), dst)
	}
	return c.BodyParser(dst)
}

// EligibleRooms returns the active rooms free of clashing bookings for the
// draft's subject schedules. Incomplete schedules fall back to the full
// room catalog.
func (eq *ExamQueryController) EligibleRooms(c *fiber.Ctx) error {
	var req struct {
		Subjects []services.SubjectWindow `json:"subjects"`
	}
	if err := parsePayload(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rooms, err := services.NewEligibilityService().EligibleRooms(req.Subjects)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch eligible rooms",
		})
	}

	return c.JSON(fiber.Map{
		"rooms": rooms,
		"total": len(rooms),
	})
}

// StudentCount returns the eligible headcount for a draft, with a capacity
// summary when rooms are selected. A foil sheet upload restricts the
// population to the listed UIDs.
func (eq *ExamQueryController) StudentCount(c *fiber.Ctx) error {
	var req struct {
		Filter    services.StudentFilter   `json:"filter"`
		Locations []services.RoomSelection `json:"locations"`
	}
	if err := parsePayload(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	foilMap, err := parseFoilSheet(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(foilMap) > 0 {
		req.Filter.UIDs = foilMap.UIDs()
	}

	count, err := services.NewCountingService().CountEligibleStudents(req.Filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count eligible students",
		})
	}

	response := fiber.Map{
		"total_eligible_students": count,
	}
	if len(req.Locations) > 0 {
		response["capacity"] = services.ReconcileCapacity(req.Locations, int(count))
	}

	return c.JSON(response)
}

// StudentCountBreakdown returns per program-course and shift counts.
func (eq *ExamQueryController) StudentCountBreakdown(c *fiber.Ctx) error {
	var req struct {
		Filter services.StudentFilter `json:"filter"`
	}
	if err := parsePayload(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	breakdown, err := services.NewCountingService().CountBreakdown(req.Filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute breakdown",
		})
	}

	return c.JSON(fiber.Map{
		"breakdown": breakdown,
	})
}

// CheckDuplicate reports whether an identical exam already exists. An
// incomplete draft always reports no duplicate so the operator is never
// blocked on partial input.
func (eq *ExamQueryController) CheckDuplicate(c *fiber.Ctx) error {
	var draft services.ExamDraft
	if err := parsePayload(c, &draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := services.NewDuplicateService().CheckDuplicate(&draft)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check for duplicates",
		})
	}

	return c.JSON(fiber.Map{
		"can_check": services.CanCheckDuplicate(&draft),
		"result":    result,
	})
}

// StudentsForExam previews seating without persisting anything: the
// eligible students are seated across the selected rooms in order.
func (eq *ExamQueryController) StudentsForExam(c *fiber.Ctx) error {
	var req struct {
		Filter    services.StudentFilter   `json:"filter"`
		Locations []services.RoomSelection `json:"locations"`
		OrderType string                   `json:"order_type"`
	}
	if err := parsePayload(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := services.ValidateRoomSelections(req.Locations); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	foilMap, err := parseFoilSheet(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(foilMap) > 0 {
		req.Filter.UIDs = foilMap.UIDs()
	}

	assignments := make([]services.RoomAssignment, 0, len(req.Locations))
	for _, sel := range req.Locations {
		assignments = append(assignments, services.RoomAssignment{
			RoomID:              sel.RoomID,
			FloorID:             sel.FloorID,
			FloorName:           sel.FloorName,
			RoomName:            sel.RoomName,
			MaxStudentsPerBench: sel.EffectivePerBench(),
			NumberOfBenches:     sel.NumberOfBenches,
			Capacity:            sel.Capacity(),
		})
	}

	students, err := services.NewSeatingService().StudentsForExam(req.Filter, assignments, req.OrderType, foilMap)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute seating",
		})
	}

	return c.JSON(fiber.Map{
		"students": students,
		"total":    len(students),
		"capacity": services.ReconcileCapacity(req.Locations, len(students)),
	})
}
