package controllers

import (
	"strconv"
	"time"

	"examdesk_go/database"
	"examdesk_go/models"
	"examdesk_go/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type LogController struct{}

// LogResponse represents a log entry response
type LogResponse struct {
	ID         uint           `json:"id"`
	UserID     uint           `json:"user_id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID uint           `json:"resource_id"`
	Details    models.JSON    `json:"details"`
	IPAddress  string         `json:"ip_address"`
	UserAgent  string         `json:"user_agent"`
	CreatedAt  time.Time      `json:"created_at"`
	User       *UserBasicInfo `json:"user,omitempty"`
}

type UserBasicInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// GetLogs retrieves paginated activity logs with filters
func (lc *LogController) GetLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	offset := (page - 1) * limit

	query := database.DB.Model(&models.ActivityLog{}).Preload("User")

	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if startDate := c.Query("start_date"); startDate != "" {
		if parsedDate, err := time.Parse("2006-01-02", startDate); err == nil {
			query = query.Where("created_at >= ?", parsedDate)
		}
	}
	if endDate := c.Query("end_date"); endDate != "" {
		if parsedDate, err := time.Parse("2006-01-02", endDate); err == nil {
			query = query.Where("created_at <= ?", parsedDate.Add(24*time.Hour))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logrus.WithError(err).Error("Failed to count logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve logs count",
		})
	}

	var activityLogs []models.ActivityLog
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&activityLogs).Error; err != nil {
		logrus.WithError(err).Error("Failed to fetch logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve logs",
		})
	}

	responses := make([]LogResponse, 0, len(activityLogs))
	for _, entry := range activityLogs {
		resp := LogResponse{
			ID:         entry.ID,
			UserID:     entry.UserID,
			Action:     entry.Action,
			Resource:   entry.Resource,
			ResourceID: entry.ResourceID,
			Details:    entry.Details,
			IPAddress:  entry.IPAddress,
			UserAgent:  entry.UserAgent,
			CreatedAt:  entry.CreatedAt,
		}
		if entry.User.ID > 0 {
			resp.User = &UserBasicInfo{
				ID:       entry.User.ID,
				Username: entry.User.Username,
				Role:     entry.User.Role,
			}
		}
		responses = append(responses, resp)
	}

	return c.JSON(fiber.Map{
		"logs": responses,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetLogStats returns aggregate activity statistics
func (lc *LogController) GetLogStats(c *fiber.Ctx) error {
	now := time.Now()
	dayStart := now.Truncate(24 * time.Hour)
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var total, totalToday, totalThisWeek, totalThisMonth int64
	database.DB.Model(&models.ActivityLog{}).Count(&total)
	database.DB.Model(&models.ActivityLog{}).Where("created_at >= ?", dayStart).Count(&totalToday)
	database.DB.Model(&models.ActivityLog{}).Where("created_at >= ?", weekStart).Count(&totalThisWeek)
	database.DB.Model(&models.ActivityLog{}).Where("created_at >= ?", monthStart).Count(&totalThisMonth)

	actionBreakdown := make(map[string]int64)
	for _, action := range []string{"CREATE", "UPDATE", "DELETE", "LOGIN", "LOGOUT", "EXPORT"} {
		var count int64
		database.DB.Model(&models.ActivityLog{}).Where("action = ?", action).Count(&count)
		actionBreakdown[action] = count
	}

	return c.JSON(fiber.Map{
		"stats": fiber.Map{
			"total":            total,
			"total_today":      totalToday,
			"total_this_week":  totalThisWeek,
			"total_this_month": totalThisMonth,
			"action_breakdown": actionBreakdown,
		},
	})
}

// GetArchivedLogs lists archive files stored in S3
func (lc *LogController) GetArchivedLogs(c *fiber.Ctx) error {
	archives, err := services.NewLogArchiveService().GetArchivedLogs()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve archived logs",
		})
	}

	return c.JSON(fiber.Map{
		"archives": archives,
	})
}

// DownloadArchivedLog streams an archive file from S3
func (lc *LogController) DownloadArchivedLog(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid archive ID",
		})
	}

	reader, filename, err := services.NewLogArchiveService().DownloadArchivedLogs(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Archive not found",
		})
	}

	c.Set("Content-Type", "application/zip")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.SendStream(reader)
}

// TriggerArchive runs the flush-and-archive pass on demand (admin only)
func (lc *LogController) TriggerArchive(c *fiber.Ctx) error {
	svc := services.NewLogArchiveService()

	if err := svc.FlushCachedLogsToDatabase(); err != nil {
		logrus.WithError(err).Warn("Manual log flush failed")
	}
	if err := svc.ArchiveOldLogs(30); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Log archive completed",
	})
}
