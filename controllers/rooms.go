package controllers

import (
	"examdesk_go/database"
	"examdesk_go/middleware"
	"examdesk_go/models"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type RoomController struct{}

// GetRooms returns all rooms with pagination
func (rc *RoomController) GetRooms(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var rooms []models.Room
	var total int64

	query := database.DB.Model(&models.Room{})

	if floorID := c.Query("floor_id"); floorID != "" {
		query = query.Where("floor_id = ?", floorID)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}
	if minBenches := c.Query("min_benches"); minBenches != "" {
		query = query.Where("number_of_benches >= ?", minBenches)
	}

	query.Count(&total)

	if err := query.Preload("Floor").
		Order("name ASC").
		Offset(offset).Limit(limit).Find(&rooms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch rooms",
		})
	}

	return c.JSON(fiber.Map{
		"rooms": rooms,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetRoom returns a specific room by ID
func (rc *RoomController) GetRoom(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid room ID",
		})
	}

	var room models.Room
	if err := database.DB.Preload("Floor").First(&room, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Room not found",
		})
	}

	return c.JSON(fiber.Map{
		"room": room,
	})
}

// CreateRoom creates a new room
func (rc *RoomController) CreateRoom(c *fiber.Ctx) error {
	var room models.Room
	if err := c.BodyParser(&room); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if room.FloorID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Floor ID is required",
		})
	}
	if room.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Room name is required",
		})
	}
	if room.NumberOfBenches <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Number of benches must be greater than 0",
		})
	}
	if room.MaxStudentsPerBench < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Max students per bench cannot be negative",
		})
	}

	var floor models.Floor
	if err := database.DB.First(&floor, room.FloorID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Floor not found",
		})
	}

	var existingRoom models.Room
	if err := database.DB.Where("floor_id = ? AND name = ?", room.FloorID, room.Name).
		First(&existingRoom).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Room with this name already exists on the floor",
		})
	}

	if room.MaxStudentsPerBench == 0 {
		room.MaxStudentsPerBench = 2
	}
	room.Active = true

	if err := database.DB.Create(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create room",
		})
	}

	database.DB.Preload("Floor").First(&room, room.ID)

	middleware.LogActivity(c, "CREATE", "rooms", room.ID, room)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Room created successfully",
		"room":    room,
	})
}

// UpdateRoom updates an existing room
func (rc *RoomController) UpdateRoom(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid room ID",
		})
	}

	var room models.Room
	if err := database.DB.First(&room, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Room not found",
		})
	}

	var updateData models.Room
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if updateData.NumberOfBenches < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Number of benches cannot be negative",
		})
	}
	if updateData.MaxStudentsPerBench < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Max students per bench cannot be negative",
		})
	}

	if updateData.Name != "" && updateData.Name != room.Name {
		var existingRoom models.Room
		floorID := room.FloorID
		if updateData.FloorID != 0 {
			floorID = updateData.FloorID
		}

		if err := database.DB.Where("floor_id = ? AND name = ? AND id != ?",
			floorID, updateData.Name, room.ID).First(&existingRoom).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Room with this name already exists on the floor",
			})
		}
	}

	if err := database.DB.Model(&room).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update room",
		})
	}

	database.DB.Preload("Floor").First(&room, room.ID)

	middleware.LogActivity(c, "UPDATE", "rooms", room.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Room updated successfully",
		"room":    room,
	})
}

// DeleteRoom deletes a room not referenced by any exam
func (rc *RoomController) DeleteRoom(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid room ID",
		})
	}

	var room models.Room
	if err := database.DB.First(&room, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Room not found",
		})
	}

	var bookingCount int64
	database.DB.Model(&models.ExamRoom{}).Where("room_id = ?", room.ID).Count(&bookingCount)
	if bookingCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Room is booked by existing exams and cannot be deleted",
		})
	}

	if err := database.DB.Delete(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete room",
		})
	}

	middleware.LogActivity(c, "DELETE", "rooms", room.ID, room)

	return c.JSON(fiber.Map{
		"message": "Room deleted successfully",
	})
}

// GetRoomsByFloor returns rooms for a specific floor
func (rc *RoomController) GetRoomsByFloor(c *fiber.Ctx) error {
	floorID, err := strconv.ParseUint(c.Params("floor_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid floor ID",
		})
	}

	var rooms []models.Room
	query := database.DB.Where("floor_id = ?", uint(floorID))

	if active := c.Query("active", "true"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	if err := query.Preload("Floor").Order("name ASC").Find(&rooms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch rooms",
		})
	}

	return c.JSON(fiber.Map{
		"rooms": rooms,
		"total": len(rooms),
	})
}
