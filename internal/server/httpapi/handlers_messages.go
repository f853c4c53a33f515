package httpapi

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pr-poehali-dev/onlimess/internal/server/messages"
)

type messageResponse struct {
	ID        int64  `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

func newMessageResponse(m messages.Message) messageResponse {
	return messageResponse{ID: m.ID, From: m.From, To: m.To, Text: m.Text, Timestamp: m.Timestamp}
}

func (s *Server) handleListMessages(c *fiber.Ctx) error {
	list, err := s.messages.List(c.UserContext(), currentUser(c).Email)
	if err != nil {
		return err
	}

	entries := make([]messageResponse, 0, len(list))
	for _, m := range list {
		entries = append(entries, newMessageResponse(m))
	}

	return c.JSON(fiber.Map{"messages": entries})
}

func (s *Server) handleSendMessage(c *fiber.Ctx) error {
	var req struct {
		To        string `json:"to"`
		Text      string `json:"text"`
		Timestamp int64  `json:"timestamp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	msg, err := s.messages.Send(c.UserContext(), currentUser(c).Email, req.To, req.Text, req.Timestamp)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(newMessageResponse(*msg))
}

func (s *Server) handleDeleteConversation(c *fiber.Ctx) error {
	var req struct {
		Contact string `json:"contact"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Contact == "" {
		return fiber.NewError(http.StatusBadRequest, "contact required")
	}

	if err := s.messages.DeleteConversation(c.UserContext(), currentUser(c).Email, req.Contact); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}
