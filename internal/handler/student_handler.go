package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/guru03-coder/SlideSense/internal/dto"
	"github.com/guru03-coder/SlideSense/internal/service"
	"github.com/guru03-coder/SlideSense/internal/utils"
)

// StudentHandler manages the student-facing submission endpoints. Every route
// is scoped to the authenticated student's own submissions; the roll number
// bound to the token is the ownership key.
type StudentHandler struct {
	submissions service.SubmissionService
	review      service.StaffReviewService
	logger      zerolog.Logger
}

// NewStudentHandler builds a student handler instance. The review service
// backs the analyze and download routes, which share their semantics with the
// staff side.
func NewStudentHandler(submissions service.SubmissionService, review service.StaffReviewService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		submissions: submissions,
		review:      review,
		logger:      logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the student routes to the provided router group.
func (h *StudentHandler) Register(router fiber.Router) {
	presentations := router.Group("/presentations")
	presentations.Get("", h.list)
	presentations.Get("/:id", h.get)
	presentations.Post("/:id/analyze", h.analyze)
	presentations.Get("/:id/download", h.download)

	router.Post("/upload", h.upload)
	router.Get("/stats", h.stats)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	roll := strings.TrimSpace(c.Query("rollNumber"))
	if roll == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "rollNumber is required")
	}
	if !h.ownsRoll(c, roll) {
		return utils.SendError(c, fiber.StatusForbidden, "access denied")
	}

	submissions, err := h.submissions.ListByOwner(c.UserContext(), roll)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.OK(c, submissions, "presentations retrieved", fiber.Map{"count": len(submissions)})
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	submission, err := h.ownedSubmission(c)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "presentation retrieved", submission)
}

func (h *StudentHandler) analyze(c *fiber.Ctx) error {
	if _, err := h.ownedSubmission(c); err != nil {
		return h.handleError(c, err)
	}

	analysis, err := h.review.Analyze(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "analysis completed", analysis)
}

func (h *StudentHandler) download(c *fiber.Ctx) error {
	if _, err := h.ownedSubmission(c); err != nil {
		return h.handleError(c, err)
	}

	target, err := h.review.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.Download(target.Path, target.FileName)
}

func (h *StudentHandler) upload(c *fiber.Ctx) error {
	payload := dto.UploadRequest{
		RollNumber: strings.TrimSpace(c.FormValue("rollNumber")),
	}
	slideCount, err := parseFormInt(c, "slideCount")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	payload.SlideCount = slideCount

	if payload.RollNumber == "" {
		payload.RollNumber = userIDFromContext(c)
	}
	if !h.ownsRoll(c, payload.RollNumber) {
		return utils.SendError(c, fiber.StatusForbidden, "cannot upload for another student")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	submission, err := h.submissions.Upload(c.UserContext(), payload, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "presentation uploaded", submission)
}

func (h *StudentHandler) stats(c *fiber.Ctx) error {
	roll := strings.TrimSpace(c.Query("rollNumber"))
	if roll == "" {
		roll = userIDFromContext(c)
	}
	if roll == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "rollNumber is required")
	}
	if !h.ownsRoll(c, roll) {
		return utils.SendError(c, fiber.StatusForbidden, "access denied")
	}

	dashboard, err := h.submissions.Dashboard(c.UserContext(), roll)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "stats retrieved", dashboard)
}

// ownedSubmission loads the path submission and enforces that it belongs to
// the authenticated student.
func (h *StudentHandler) ownedSubmission(c *fiber.Ctx) (dto.SubmissionResponse, error) {
	submission, err := h.submissions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !h.ownsRoll(c, submission.RollNumber) {
		return dto.SubmissionResponse{}, errAccessDenied
	}
	return submission, nil
}

func (h *StudentHandler) ownsRoll(c *fiber.Ctx, roll string) bool {
	owner := userIDFromContext(c)
	return owner != "" && strings.EqualFold(strings.TrimSpace(roll), owner)
}

var errAccessDenied = errors.New("access denied")

func (h *StudentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, errAccessDenied):
		return utils.SendError(c, fiber.StatusForbidden, "access denied")
	case errors.Is(err, service.ErrUnknownStudent):
		return utils.SendError(c, fiber.StatusBadRequest, "unknown roll number")
	case errors.Is(err, service.ErrFileRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	case errors.Is(err, service.ErrUploadTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, "file type not allowed")
	case errors.Is(err, service.ErrUploadScanFailed):
		return utils.SendError(c, fiber.StatusBadRequest, "file failed content checks")
	case errors.Is(err, service.ErrUploadTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "file exceeds the upload limit")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "presentation not found")
	case errors.Is(err, service.ErrFileMissing):
		return utils.SendError(c, fiber.StatusNotFound, "presentation file missing")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
