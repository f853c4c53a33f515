package httpapi

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pr-poehali-dev/onlimess/internal/server/users"
)

type sessionResponse struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
	IsFrozen    bool   `json:"isFrozen"`
	HasLoggedIn bool   `json:"hasLoggedIn"`
	AccessToken string `json:"accessToken"`
}

type profileResponse struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
	IsFrozen    bool   `json:"isFrozen"`
	HasLoggedIn bool   `json:"hasLoggedIn"`
}

func newSessionResponse(user *users.User, token string) sessionResponse {
	return sessionResponse{
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsAdmin:     user.IsAdmin,
		IsFrozen:    user.IsFrozen,
		HasLoggedIn: user.HasLoggedIn,
		AccessToken: token,
	}
}

func newProfileResponse(user *users.User) profileResponse {
	return profileResponse{
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsAdmin:     user.IsAdmin,
		IsFrozen:    user.IsFrozen,
		HasLoggedIn: user.HasLoggedIn,
	}
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, token, err := s.users.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(newSessionResponse(user, token))
}

func (s *Server) handleSetup(c *fiber.Ctx) error {
	var req struct {
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, token, err := s.users.CompleteSetup(c.UserContext(), currentUser(c).Username, req.DisplayName, req.Email)
	if err != nil {
		return err
	}

	return c.JSON(newSessionResponse(user, token))
}

func (s *Server) handleProfile(c *fiber.Ctx) error {
	return c.JSON(newProfileResponse(currentUser(c)))
}

func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := s.users.Create(c.UserContext(), req.Username, req.Password); err != nil {
		return err
	}
	return c.SendStatus(http.StatusCreated)
}

func (s *Server) handleToggleFrozen(c *fiber.Ctx) error {
	username := c.Params("username")

	user, err := s.users.ToggleFrozen(c.UserContext(), username)
	if err != nil {
		return err
	}

	s.logger.Info("account freeze toggled",
		zap.String("username", username),
		zap.Bool("isFrozen", user.IsFrozen),
	)
	return c.SendStatus(http.StatusOK)
}

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	list, err := s.users.List(c.UserContext())
	if err != nil {
		return err
	}

	type rosterEntry struct {
		Username string `json:"username"`
		IsFrozen bool   `json:"isFrozen"`
		IsAdmin  bool   `json:"isAdmin"`
	}
	entries := make([]rosterEntry, 0, len(list))
	for _, u := range list {
		entries = append(entries, rosterEntry{Username: u.Username, IsFrozen: u.IsFrozen, IsAdmin: u.IsAdmin})
	}

	return c.JSON(fiber.Map{"users": entries})
}
