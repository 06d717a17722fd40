package controllers

import (
	"examdesk_go/config"
	"examdesk_go/database"
	"examdesk_go/models"
	"examdesk_go/services"
	"examdesk_go/services/websocket"
	"log"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v4"
)

type WebSocketController struct {
	hub *websocket.Hub
}

type wsClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func NewWebSocketController(hub *websocket.Hub) *WebSocketController {
	return &WebSocketController{
		hub: hub,
	}
}

// validateJWT validates a JWT token and returns user info
func (wsc *WebSocketController) validateJWT(tokenString string) (*models.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &wsClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*wsClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrInvalidKey
	}

	// Verify user still exists and is active
	var user models.User
	if err := database.DB.Where("id = ? AND status = ?", claims.UserID, "active").First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// WebSocketHandler returns a Fiber WebSocket handler that validates JWT
// and connects the client to the hub for exam_updated and notification
// events.
func (wsc *WebSocketController) WebSocketHandler() fiber.Handler {
	return fiberws.New(func(c *fiberws.Conn) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("WebSocket handler panic: %v", r)
			}
		}()

		token := c.Query("token")
		if token == "" {
			log.Println("WebSocket connection rejected: missing token")
			c.WriteMessage(fiberws.CloseMessage, []byte("Missing token"))
			c.Close()
			return
		}

		user, err := wsc.validateJWT(token)
		if err != nil {
			log.Printf("WebSocket connection rejected: invalid token: %v", err)
			c.WriteMessage(fiberws.CloseMessage, []byte("Invalid token"))
			c.Close()
			return
		}

		log.Printf("WebSocket connection established for user ID: %d (%s)", user.ID, user.Username)

		wsc.hub.ServeFiberWS(c, user.ID)
	})
}

type draftUpdateMessage struct {
	Draft  services.ExamDraft     `json:"draft"`
	Filter services.StudentFilter `json:"filter"`
}

type draftSnapshotMessage struct {
	services.DraftSnapshot
	Error string `json:"error,omitempty"`
}

// DraftSessionHandler runs a live draft session over a WebSocket: the
// client streams draft states and receives debounced eligible-room,
// headcount and duplicate results. Stale rounds are never pushed.
func (wsc *WebSocketController) DraftSessionHandler() fiber.Handler {
	return fiberws.New(func(c *fiberws.Conn) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Draft session panic: %v", r)
			}
		}()

		token := c.Query("token")
		if token == "" {
			c.WriteMessage(fiberws.CloseMessage, []byte("Missing token"))
			c.Close()
			return
		}

		user, err := wsc.validateJWT(token)
		if err != nil {
			c.WriteMessage(fiberws.CloseMessage, []byte("Invalid token"))
			c.Close()
			return
		}
		if user.Role != "admin" && user.Role != "controller" {
			c.WriteMessage(fiberws.CloseMessage, []byte("Insufficient permissions"))
			c.Close()
			return
		}

		watcher := services.NewDraftWatcher(services.DatabaseDraftQueries(), config.AppConfig.DraftDebounce)
		defer watcher.Stop()

		done := make(chan struct{})
		go func() {
			for {
				select {
				case snapshot := <-watcher.Updates():
					msg := draftSnapshotMessage{DraftSnapshot: snapshot}
					if snapshot.Err != nil {
						msg.Error = snapshot.Err.Error()
					}
					if err := c.WriteJSON(msg); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			var update draftUpdateMessage
			if err := c.ReadJSON(&update); err != nil {
				break
			}
			watcher.Update(update.Draft, update.Filter)
		}
		close(done)
	})
}

// GetWebSocketStats returns WebSocket connection statistics (admin only)
func (wsc *WebSocketController) GetWebSocketStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connected_clients": wsc.hub.GetClientCount(),
		"status":            "active",
	})
}
