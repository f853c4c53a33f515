package httpapi

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

type contactRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func (s *Server) handleListContacts(c *fiber.Ctx) error {
	list, err := s.contacts.List(c.UserContext(), currentUser(c).Email)
	if err != nil {
		return err
	}

	type contact struct {
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	}
	entries := make([]contact, 0, len(list))
	for _, entry := range list {
		entries = append(entries, contact{Email: entry.Email, DisplayName: entry.DisplayName})
	}

	return c.JSON(fiber.Map{"contacts": entries})
}

func (s *Server) handleAddContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if _, err := s.contacts.Add(c.UserContext(), currentUser(c).Email, req.Email, req.DisplayName); err != nil {
		return err
	}
	return c.SendStatus(http.StatusCreated)
}

func (s *Server) handleRenameContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := s.contacts.Rename(c.UserContext(), currentUser(c).Email, req.Email, req.DisplayName); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}

func (s *Server) handleRemoveContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := s.contacts.Remove(c.UserContext(), currentUser(c).Email, req.Email); err != nil {
		return err
	}
	return c.SendStatus(http.StatusOK)
}
