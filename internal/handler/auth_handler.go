package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/guru03-coder/SlideSense/internal/dto"
	"github.com/guru03-coder/SlideSense/internal/service"
	"github.com/guru03-coder/SlideSense/internal/utils"
)

// AuthHandler manages login, logout and token verification endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the auth routes to the provided router group. The login
// endpoints sit behind the supplied rate limiter. Both the flat and the
// /auth-prefixed forms are registered because older portal clients use the
// former and newer ones the latter.
func (h *AuthHandler) Register(router fiber.Router, limiter fiber.Handler) {
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}

	router.Post("/login", limiter, h.login)
	router.Post("/logout", h.logout)

	auth := router.Group("/auth")
	auth.Post("/login", limiter, h.login)
	auth.Post("/logout", h.logout)
	auth.Post("/verify", h.verify)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", resp)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	// Tokens are stateless, so logout is a client-side discard. The endpoint
	// exists so clients have a uniform call to end a session.
	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) verify(c *fiber.Ctx) error {
	var payload dto.VerifyRequest
	_ = c.BodyParser(&payload)

	token := payload.Token
	if token == "" {
		token = bearerToken(c)
	}
	if token == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "token is required")
	}

	resp, err := h.service.Verify(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			// Failed verification still reports valid:false in the body so
			// clients can branch on the payload alone.
			return c.Status(fiber.StatusUnauthorized).JSON(utils.APIResponse{
				Success: false,
				Data:    resp,
				Message: "invalid or expired token",
			})
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "token is valid", resp)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrInvalidToken):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid or expired token")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
