package controllers

import (
	"examdesk_go/database"
	"examdesk_go/middleware"
	"examdesk_go/models"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type FloorController struct{}

// GetFloors returns all floors with pagination
func (fc *FloorController) GetFloors(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var floors []models.Floor
	var total int64

	query := database.DB.Model(&models.Floor{})

	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	query.Count(&total)

	if err := query.Preload("Rooms").
		Order("name ASC").
		Offset(offset).Limit(limit).Find(&floors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch floors",
		})
	}

	return c.JSON(fiber.Map{
		"floors": floors,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetFloor returns a specific floor by ID
func (fc *FloorController) GetFloor(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid floor ID",
		})
	}

	var floor models.Floor
	if err := database.DB.Preload("Rooms").First(&floor, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Floor not found",
		})
	}

	return c.JSON(fiber.Map{
		"floor": floor,
	})
}

// CreateFloor creates a new floor
func (fc *FloorController) CreateFloor(c *fiber.Ctx) error {
	var floor models.Floor
	if err := c.BodyParser(&floor); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if floor.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Floor name is required",
		})
	}

	var existingFloor models.Floor
	if err := database.DB.Where("name = ?", floor.Name).First(&existingFloor).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Floor with this name already exists",
		})
	}

	floor.Active = true

	if err := database.DB.Create(&floor).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create floor",
		})
	}

	middleware.LogActivity(c, "CREATE", "floors", floor.ID, floor)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Floor created successfully",
		"floor":   floor,
	})
}

// UpdateFloor updates an existing floor
func (fc *FloorController) UpdateFloor(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid floor ID",
		})
	}

	var floor models.Floor
	if err := database.DB.First(&floor, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Floor not found",
		})
	}

	var updateData models.Floor
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if updateData.Name != "" && updateData.Name != floor.Name {
		var existingFloor models.Floor
		if err := database.DB.Where("name = ? AND id != ?", updateData.Name, floor.ID).
			First(&existingFloor).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Floor with this name already exists",
			})
		}
	}

	if err := database.DB.Model(&floor).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update floor",
		})
	}

	middleware.LogActivity(c, "UPDATE", "floors", floor.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Floor updated successfully",
		"floor":   floor,
	})
}

// DeleteFloor deletes a floor that has no rooms
func (fc *FloorController) DeleteFloor(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid floor ID",
		})
	}

	var floor models.Floor
	if err := database.DB.First(&floor, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Floor not found",
		})
	}

	var roomCount int64
	database.DB.Model(&models.Room{}).Where("floor_id = ?", floor.ID).Count(&roomCount)
	if roomCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Floor still has rooms; move or delete them first",
		})
	}

	if err := database.DB.Delete(&floor).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete floor",
		})
	}

	middleware.LogActivity(c, "DELETE", "floors", floor.ID, floor)

	return c.JSON(fiber.Map{
		"message": "Floor deleted successfully",
	})
}
