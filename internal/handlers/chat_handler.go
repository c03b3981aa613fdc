package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/repositories"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/services"
)

// ChatHandler runs the intake questionnaire over a WebSocket: the server
// asks, the client answers in plain text, the server replies with the next
// question or the profile summary.
type ChatHandler struct {
	intake   services.IntakeService
	chatRepo repositories.ChatMessageRepository
}

func NewChatHandler(intake services.IntakeService, chatRepo repositories.ChatMessageRepository) *ChatHandler {
	return &ChatHandler{intake: intake, chatRepo: chatRepo}
}

// RequireWebSocketUpgrade guards the chat route: plain HTTP requests get a
// 426 instead of reaching the upgrade handler.
func RequireWebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
		"error": "WebSocket upgrade required",
	})
}

// HandleChat builds the upgrade handler for GET /users/:id/chat. Fiber
// serves on fasthttp, so the upgrade goes through the fasthttp-native
// websocket middleware rather than a net/http upgrader.
func (h *ChatHandler) HandleChat() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		userID, err := uuid.Parse(conn.Params("id"))
		if err != nil {
			conn.WriteJSON(fiber.Map{"error": "Invalid user ID format"})
			return
		}

		h.runSession(conn, userID)
	})
}

// HandleChatHistory handles GET /users/:id/chat/history
func (h *ChatHandler) HandleChatHistory(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID format",
		})
	}

	limit := c.QueryInt("limit", 100)

	messages, err := h.chatRepo.FindByUser(userID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load chat history",
		})
	}

	return c.JSON(fiber.Map{"messages": messages})
}

// chatConn is the slice of the websocket connection the session loop uses.
type chatConn interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v interface{}) error
}

func (h *ChatHandler) runSession(conn chatConn, userID uuid.UUID) {
	reply, err := h.intake.Greet(userID)
	if err != nil {
		conn.WriteJSON(fiber.Map{"error": err.Error()})
		return
	}
	if err := conn.WriteJSON(reply); err != nil {
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		answer := strings.TrimSpace(string(raw))
		reply, err := h.intake.HandleAnswer(userID, answer)
		if err != nil {
			conn.WriteJSON(fiber.Map{"error": err.Error()})
			return
		}

		if err := conn.WriteJSON(reply); err != nil {
			return
		}

		if reply.Complete {
			return
		}
	}
}
