// Package httpapi exposes the store over a JSON HTTP API.
package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pr-poehali-dev/onlimess/internal/server/contacts"
	"github.com/pr-poehali-dev/onlimess/internal/server/messages"
	"github.com/pr-poehali-dev/onlimess/internal/server/users"
)

// Server wires the domain services into a fiber application.
type Server struct {
	app      *fiber.App
	logger   *zap.Logger
	secret   []byte
	users    *users.Service
	contacts *contacts.Service
	messages *messages.Service
}

func NewServer(logger *zap.Logger, secret []byte, us *users.Service, cs *contacts.Service, ms *messages.Service) *Server {
	s := &Server{
		logger:   logger,
		secret:   secret,
		users:    us,
		contacts: cs,
		messages: ms,
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler:          s.handleError,
		DisableStartupMessage: true,
	})
	s.registerRoutes()

	return s
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	if statusFromError(err) >= 500 {
		s.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return errorHandler(c, err)
}

func (s *Server) registerRoutes() {
	s.app.Use(s.requestLogger)

	api := s.app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", s.handleLogin)

	protected := api.Group("", s.authRequired)
	protected.Get("/auth/me", s.handleProfile)
	protected.Post("/auth/setup", s.notFrozen, s.handleSetup)

	admin := protected.Group("/auth/users", s.adminOnly)
	admin.Get("", s.handleListUsers)
	admin.Post("", s.notFrozen, s.handleCreateUser)
	admin.Post("/:username/toggle-frozen", s.notFrozen, s.handleToggleFrozen)

	protected.Get("/contacts", s.handleListContacts)
	protected.Post("/contacts", s.notFrozen, s.handleAddContact)
	protected.Put("/contacts", s.notFrozen, s.handleRenameContact)
	protected.Delete("/contacts", s.notFrozen, s.handleRemoveContact)

	protected.Get("/messages", s.handleListMessages)
	protected.Post("/messages", s.notFrozen, s.handleSendMessage)
	protected.Delete("/messages", s.notFrozen, s.handleDeleteConversation)
}

// Listen serves until the address-bound listener fails or Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
