package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"skillbridge/chat"
	config "skillbridge/configs"
	"skillbridge/database"

	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	chatRepo       chat.Repository
	chatAggregator *chat.Aggregator
	chatHub        *chat.Hub
)

// InitMessaging wires the messaging core to the database. The returned hub
// must be run by the caller.
func InitMessaging() *chat.Hub {
	chatRepo = chat.NewGormRepository(database.DB)
	chatAggregator = chat.NewAggregator(chatRepo)
	chatHub = chat.NewHub(chatRepo)
	return chatHub
}

func GetConversations(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	viewerID, _ := uuid.Parse(claims["user_id"].(string))

	conversations, err := chatAggregator.ListConversations(c.Context(), viewerID)
	if err != nil {
		log.Printf("Failed to aggregate conversations for %s: %v", viewerID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch conversations"})
	}

	return c.JSON(conversations)
}

func GetConversationMessages(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	viewerID, _ := uuid.Parse(claims["user_id"].(string))

	counterpartID, err := uuid.Parse(c.Params("counterpartId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid counterpart ID"})
	}

	ok, err := chatRepo.HasActiveMentorship(c.Context(), viewerID, counterpartID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No active mentorship with this user"})
	}

	history := chat.NewHistory(chatRepo, viewerID)
	messages, err := history.Select(c.Context(), counterpartID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}

	return c.JSON(messages)
}

type SendMessageRequest struct {
	ReceiverID    string  `json:"receiver_id" validate:"required,uuid"`
	Content       string  `json:"content"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
}

func SendMessage(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	viewerID, _ := uuid.Parse(claims["user_id"].(string))

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	receiverID, _ := uuid.Parse(req.ReceiverID)

	ok, err := chatRepo.HasActiveMentorship(c.Context(), viewerID, receiverID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send message"})
	}
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No active mentorship with this user"})
	}

	msg := chat.NewDirectMessage(viewerID, receiverID, req.Content, req.AttachmentURL)
	if msg == nil {
		// Whitespace-only content is a quiet no-op, not an error.
		return c.SendStatus(fiber.StatusNoContent)
	}

	if err := chatRepo.InsertMessage(c.Context(), msg); err != nil {
		log.Printf("Failed to insert message from %s to %s: %v", viewerID, receiverID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send message"})
	}

	chatHub.Broadcast <- msg

	return c.Status(fiber.StatusCreated).JSON(msg)
}

type wsFrame struct {
	Type          string  `json:"type"`
	Token         string  `json:"token,omitempty"`
	CounterpartID string  `json:"counterpart_id,omitempty"`
	Content       string  `json:"content,omitempty"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
}

// ServeWs is the realtime feed endpoint. The client authenticates with an
// auth frame, then selects one conversation at a time; inbound messages for
// the selected conversation are pushed down the socket by the hub.
func ServeWs(c *websocketcontrib.Conn) {
	var authMsg wsFrame
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		log.Printf("WebSocket auth failed: invalid or missing auth message: %v", err)
		_ = c.WriteJSON(chat.Event{Type: "error", Error: "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid token: %v", err)
		_ = c.WriteJSON(chat.Event{Type: "error", Error: "Invalid token"})
		c.Close()
		return
	}

	userID, _ := claims["user_id"].(string)
	viewerID, err := uuid.Parse(userID)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid user_id: %v", err)
		_ = c.WriteJSON(chat.Event{Type: "error", Error: "Invalid user ID"})
		c.Close()
		return
	}

	session := chatHub.NewSession(viewerID, c)
	chatHub.Register <- session
	defer func() {
		chatHub.Unregister <- session
		c.Close()
	}()

	for {
		var frame wsFrame
		if err := c.ReadJSON(&frame); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseAbnormalClosure) {
				log.Printf("WebSocket closed for viewer %s: %v", viewerID, err)
			} else {
				log.Printf("WebSocket read error for viewer %s: %v", viewerID, err)
			}
			break
		}

		switch frame.Type {
		case "select":
			counterpartID, err := uuid.Parse(frame.CounterpartID)
			if err != nil {
				_ = session.Write(chat.Event{Type: "error", Error: "Invalid counterpart ID"})
				continue
			}
			ok, err := chatRepo.HasActiveMentorship(context.Background(), viewerID, counterpartID)
			if err != nil || !ok {
				_ = session.Write(chat.Event{Type: "error", Error: "No active mentorship with this user"})
				continue
			}
			messages, err := session.History.Select(context.Background(), counterpartID)
			if err != nil {
				if errors.Is(err, chat.ErrSuperseded) {
					continue
				}
				_ = session.Write(chat.Event{Type: "error", Error: "Failed to load conversation"})
				continue
			}
			_ = session.Write(chat.Event{Type: "history", Messages: messages})

		case "message":
			msg, err := session.History.Send(context.Background(), frame.Content, frame.AttachmentURL)
			if err != nil {
				if errors.Is(err, chat.ErrNoSelection) {
					_ = session.Write(chat.Event{Type: "error", Error: "Select a conversation first"})
				} else {
					log.Printf("Failed to send message for viewer %s: %v", viewerID, err)
					_ = session.Write(chat.Event{Type: "error", Error: "Failed to send message"})
				}
				continue
			}
			if msg == nil {
				continue
			}
			chatHub.Broadcast <- msg
			_ = session.Write(chat.Event{Type: "sent", Message: msg})

		default:
			_ = session.Write(chat.Event{Type: "error", Error: "Unknown frame type"})
		}
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
