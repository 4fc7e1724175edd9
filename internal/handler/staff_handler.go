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

// StaffHandler manages the review queue and dashboard endpoints.
type StaffHandler struct {
	review    service.StaffReviewService
	analytics service.StaffAnalyticsService
	logger    zerolog.Logger
}

// NewStaffHandler builds a staff handler instance.
func NewStaffHandler(review service.StaffReviewService, analytics service.StaffAnalyticsService, logger zerolog.Logger) *StaffHandler {
	return &StaffHandler{
		review:    review,
		analytics: analytics,
		logger:    logger.With().Str("component", "staff_handler").Logger(),
	}
}

// Register attaches the staff routes to the provided router group.
func (h *StaffHandler) Register(router fiber.Router) {
	presentations := router.Group("/presentations")
	presentations.Get("", h.list)
	presentations.Get("/:id", h.get)
	presentations.Post("/:id/analyze", h.analyze)
	presentations.Post("/:id/approve", h.approve)
	presentations.Post("/:id/reject", h.reject)
	presentations.Get("/:id/download", h.download)

	router.Get("/stats", h.stats)
	router.Get("/analytics", h.scoreAnalytics)
}

func (h *StaffHandler) list(c *fiber.Ctx) error {
	filter := dto.StaffListFilter{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Status:     c.Query("status"),
	}

	minScore, err := parseQueryFloat(c, "min_score")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	maxScore, err := parseQueryFloat(c, "max_score")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	filter.MinScore = minScore
	filter.MaxScore = maxScore

	submissions, err := h.review.List(c.UserContext(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, submissions, "presentations retrieved", fiber.Map{"count": len(submissions)})
}

func (h *StaffHandler) get(c *fiber.Ctx) error {
	submission, err := h.review.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "presentation retrieved", submission)
}

func (h *StaffHandler) analyze(c *fiber.Ctx) error {
	analysis, err := h.review.Analyze(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "analysis completed", analysis)
}

func (h *StaffHandler) approve(c *fiber.Ctx) error {
	submission, err := h.review.Approve(c.UserContext(), c.Params("id"), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "presentation approved", submission)
}

func (h *StaffHandler) reject(c *fiber.Ctx) error {
	var payload dto.RejectRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.review.Reject(c.UserContext(), c.Params("id"), payload, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "presentation rejected", submission)
}

func (h *StaffHandler) download(c *fiber.Ctx) error {
	target, err := h.review.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.Download(target.Path, target.FileName)
}

func (h *StaffHandler) stats(c *fiber.Ctx) error {
	stats, err := h.analytics.Stats(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "stats retrieved", stats)
}

func (h *StaffHandler) scoreAnalytics(c *fiber.Ctx) error {
	summary, err := h.analytics.Analytics(c.UserContext())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "analytics retrieved", summary)
}

func (h *StaffHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrInvalidStatusFilter):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid status filter")
	case errors.Is(err, service.ErrReasonRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "rejection reason is required")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "presentation not found")
	case errors.Is(err, service.ErrFileMissing):
		return utils.SendError(c, fiber.StatusNotFound, "presentation file missing")
	case errors.Is(err, service.ErrNotPending):
		return utils.SendError(c, fiber.StatusConflict, "presentation has already been reviewed")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
