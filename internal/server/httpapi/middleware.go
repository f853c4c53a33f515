package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pr-poehali-dev/onlimess/internal/common"
	"github.com/pr-poehali-dev/onlimess/internal/server/auth"
	"github.com/pr-poehali-dev/onlimess/internal/server/users"
)

const localUser = "user"

// requestLogger tags every request with an ID and logs its outcome.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	c.Set("X-Request-Id", requestID)

	start := time.Now()
	err := c.Next()

	s.logger.Debug("request",
		zap.String("requestId", requestID),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("duration", time.Since(start)),
	)
	return err
}

// authRequired validates the bearer token and loads the current account.
// The account is re-read on every request so freezes and profile changes
// take effect immediately, not at the next token refresh.
func (s *Server) authRequired(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return common.ErrInvalidToken
	}

	claims, err := auth.ParseToken(token, s.secret)
	if err != nil {
		return common.ErrInvalidToken
	}

	user, err := s.users.Get(c.UserContext(), claims.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidToken
		}
		return err
	}

	c.Locals(localUser, user)
	return c.Next()
}

// notFrozen rejects state-changing requests from frozen accounts. Reads
// stay allowed so a frozen client keeps polling and sees the unfreeze.
func (s *Server) notFrozen(c *fiber.Ctx) error {
	if currentUser(c).IsFrozen {
		return common.ErrAccountFrozen
	}
	return c.Next()
}

func (s *Server) adminOnly(c *fiber.Ctx) error {
	if !currentUser(c).IsAdmin {
		return common.ErrUnauthorized
	}
	return c.Next()
}

func currentUser(c *fiber.Ctx) *users.User {
	return c.Locals(localUser).(*users.User)
}
