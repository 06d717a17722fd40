package utils

import (
	"time"

	"examdesk_go/models"
)

// Compact representations used across APIs
type UserShort struct {
	ID       uint   `json:"id"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

type Sender struct {
	Type string `json:"type"` // "system" or "user"
	ID   *uint  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type NotificationDTO struct {
	ID        uint       `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	UserID    uint       `json:"user_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	User      UserShort  `json:"user"`
	Sender    Sender     `json:"sender"`
}

// ToNotificationDTO maps a models.Notification to the compact DTO.
// Caller should preload User when the recipient info matters.
func ToNotificationDTO(n models.Notification) NotificationDTO {
	var us UserShort
	if n.User.ID != 0 {
		us = UserShort{ID: n.User.ID, Username: n.User.Username, Role: n.User.Role}
	} else {
		us = UserShort{ID: n.UserID}
	}

	// Notifications don't track created_by; everything originates from the
	// notification service.
	sender := Sender{Type: "system", Name: "Notification Service"}

	return NotificationDTO{
		ID:        n.ID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		User:      us,
		Sender:    sender,
	}
}

// ToNotificationDTOs maps a slice preserving order.
func ToNotificationDTOs(items []models.Notification) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(items))
	for _, n := range items {
		out = append(out, ToNotificationDTO(n))
	}
	return out
}
