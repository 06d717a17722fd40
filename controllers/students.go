package controllers

import (
	"examdesk_go/database"
	"examdesk_go/middleware"
	"examdesk_go/models"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type StudentController struct{}

// GetStudents returns students with pagination and eligibility filters
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset := (page - 1) * limit

	var students []models.Student
	var total int64

	query := database.DB.Model(&models.Student{})

	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	if programCourseID := c.Query("program_course_id"); programCourseID != "" {
		query = query.Where("program_course_id = ?", programCourseID)
	}
	if academicYearID := c.Query("academic_year_id"); academicYearID != "" {
		query = query.Where("academic_year_id = ?", academicYearID)
	}
	if shiftID := c.Query("shift_id"); shiftID != "" {
		query = query.Where("shift_id = ?", shiftID)
	}
	if gender := c.Query("gender"); gender != "" {
		query = query.Where("gender = ?", gender)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("uid LIKE ? OR name LIKE ? OR roll_number LIKE ?", like, like, like)
	}

	query.Count(&total)

	if err := query.Preload("Class").Preload("ProgramCourse").Preload("Shift").
		Order("uid ASC").
		Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	return c.JSON(fiber.Map{
		"students": students,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStudent returns a specific student by ID or UID
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	param := c.Params("id")

	var student models.Student
	query := database.DB.Preload("Class").Preload("ProgramCourse").Preload("Shift")

	if id, err := strconv.ParseUint(param, 10, 32); err == nil {
		if err := query.First(&student, uint(id)).Error; err == nil {
			return c.JSON(fiber.Map{"student": student})
		}
	}

	// Fall back to UID lookup for non-numeric or unmatched identifiers
	if err := query.Where("uid = ?", param).First(&student).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	return c.JSON(fiber.Map{"student": student})
}

// CreateStudent adds a student record
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var student models.Student
	if err := c.BodyParser(&student); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if student.UID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student UID is required",
		})
	}
	if student.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student name is required",
		})
	}
	if student.ClassID == 0 || student.ProgramCourseID == 0 || student.AcademicYearID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Class, program course and academic year are required",
		})
	}

	var existing models.Student
	if err := database.DB.Where("uid = ?", student.UID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Student with this UID already exists",
		})
	}

	student.Active = true

	if err := database.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create student",
		})
	}

	middleware.LogActivity(c, "CREATE", "students", student.ID, student)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

// UpdateStudent updates a student record
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var updateData models.Student
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if updateData.UID != "" && updateData.UID != student.UID {
		var existing models.Student
		if err := database.DB.Where("uid = ? AND id != ?", updateData.UID, student.ID).
			First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Student with this UID already exists",
			})
		}
	}

	if err := database.DB.Model(&student).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update student",
		})
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// DeleteStudent removes a student not seated in any exam
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var seatCount int64
	database.DB.Model(&models.ExamCandidate{}).Where("student_id = ?", student.ID).Count(&seatCount)
	if seatCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Student is seated in existing exams and cannot be deleted",
		})
	}

	if err := database.DB.Delete(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete student",
		})
	}

	middleware.LogActivity(c, "DELETE", "students", student.ID, student)

	return c.JSON(fiber.Map{
		"message": "Student deleted successfully",
	})
}
