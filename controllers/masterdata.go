package controllers

import (
	"examdesk_go/database"
	"examdesk_go/models"

	"github.com/gofiber/fiber/v2"
)

// MasterDataController serves the reference data the scheduling form
// selects from. Everything here is read-mostly; rows are maintained by
// seeders or ad-hoc admin inserts.
type MasterDataController struct{}

func (mc *MasterDataController) GetAcademicYears(c *fiber.Ctx) error {
	var years []models.AcademicYear
	if err := database.DB.Where("active = ?", true).Order("year DESC").Find(&years).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch academic years",
		})
	}
	return c.JSON(fiber.Map{"academic_years": years})
}

func (mc *MasterDataController) GetExamTypes(c *fiber.Ctx) error {
	var examTypes []models.ExamType
	if err := database.DB.Where("active = ?", true).Order("name ASC").Find(&examTypes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch exam types",
		})
	}
	return c.JSON(fiber.Map{"exam_types": examTypes})
}

func (mc *MasterDataController) GetClasses(c *fiber.Ctx) error {
	var classes []models.Class
	if err := database.DB.Where("active = ?", true).Order("name ASC").Find(&classes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch classes",
		})
	}
	return c.JSON(fiber.Map{"classes": classes})
}

func (mc *MasterDataController) GetProgramCourses(c *fiber.Ctx) error {
	var courses []models.ProgramCourse
	if err := database.DB.Where("active = ?", true).Order("name ASC").Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch program courses",
		})
	}
	return c.JSON(fiber.Map{"program_courses": courses})
}

func (mc *MasterDataController) GetShifts(c *fiber.Ctx) error {
	var shifts []models.Shift
	if err := database.DB.Where("active = ?", true).Order("name ASC").Find(&shifts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch shifts",
		})
	}
	return c.JSON(fiber.Map{"shifts": shifts})
}

func (mc *MasterDataController) GetSubjectTypes(c *fiber.Ctx) error {
	var subjectTypes []models.SubjectType
	if err := database.DB.Where("active = ?", true).Order("name ASC").Find(&subjectTypes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch subject types",
		})
	}
	return c.JSON(fiber.Map{"subject_types": subjectTypes})
}

// GetSubjects lists subjects, optionally narrowed through the paper
// catalog by class, program course and subject type so the form only
// offers subjects actually taught in the selected combination.
func (mc *MasterDataController) GetSubjects(c *fiber.Ctx) error {
	classID := c.Query("class_id")
	programCourseID := c.Query("program_course_id")
	subjectTypeID := c.Query("subject_type_id")

	if classID == "" && programCourseID == "" && subjectTypeID == "" {
		var subjects []models.Subject
		if err := database.DB.Where("active = ?", true).Order("name ASC").Find(&subjects).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch subjects",
			})
		}
		return c.JSON(fiber.Map{"subjects": subjects})
	}

	query := database.DB.Model(&models.Subject{}).
		Joins("JOIN papers ON papers.subject_id = subjects.id").
		Where("subjects.active = ? AND papers.active = ?", true, true)

	if classID != "" {
		query = query.Where("papers.class_id = ?", classID)
	}
	if programCourseID != "" {
		query = query.Where("papers.program_course_id = ?", programCourseID)
	}
	if subjectTypeID != "" {
		query = query.Where("papers.subject_type_id = ?", subjectTypeID)
	}

	var subjects []models.Subject
	if err := query.Distinct("subjects.*").Order("subjects.name ASC").Find(&subjects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch subjects",
		})
	}

	return c.JSON(fiber.Map{"subjects": subjects})
}
