package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/guru03-coder/SlideSense/internal/dto"
	"github.com/guru03-coder/SlideSense/internal/models"
	"github.com/guru03-coder/SlideSense/internal/repository"
	"github.com/guru03-coder/SlideSense/internal/store"
	"github.com/guru03-coder/SlideSense/pkg/evaluator"
)

var (
	// ErrNotPending indicates a decision was attempted on an already reviewed submission.
	ErrNotPending = errors.New("submission is not pending review")
	// ErrReasonRequired indicates a rejection carried no usable reason text.
	ErrReasonRequired = errors.New("rejection reason is required")
	// ErrFileMissing indicates the stored presentation file is gone.
	ErrFileMissing = errors.New("presentation file missing")
	// ErrInvalidStatusFilter indicates an unrecognised status value in a list query.
	ErrInvalidStatusFilter = errors.New("invalid status filter")
)

// FileResolver maps a submission's public file path to a readable location on disk.
type FileResolver interface {
	Resolve(publicPath string) (string, error)
}

// DownloadTarget describes a file ready to be streamed to a client.
type DownloadTarget struct {
	Path     string
	FileName string
}

// StaffReviewService covers the review side of the pipeline: browsing the
// queue, scoring presentations and recording approve or reject decisions.
type StaffReviewService interface {
	List(ctx context.Context, filter dto.StaffListFilter) ([]dto.SubmissionResponse, error)
	Get(ctx context.Context, id string) (dto.SubmissionResponse, error)
	Analyze(ctx context.Context, id string) (dto.AnalysisResponse, error)
	Approve(ctx context.Context, id, reviewer string) (dto.SubmissionResponse, error)
	Reject(ctx context.Context, id string, payload dto.RejectRequest, reviewer string) (dto.SubmissionResponse, error)
	Download(ctx context.Context, id string) (DownloadTarget, error)
}

type staffReviewService struct {
	submissions repository.SubmissionRepository
	evaluator   evaluator.Evaluator
	files       FileResolver
	validator   *validator.Validate
	invalidator StatsCacheInvalidator
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewStaffReviewService constructs a StaffReviewService instance.
func NewStaffReviewService(
	subRepo repository.SubmissionRepository,
	eval evaluator.Evaluator,
	files FileResolver,
	validate *validator.Validate,
	invalidator StatsCacheInvalidator,
	logger zerolog.Logger,
) StaffReviewService {
	return &staffReviewService{
		submissions: subRepo,
		evaluator:   eval,
		files:       files,
		validator:   validate,
		invalidator: invalidator,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "staff_review_service").Logger(),
		tracer:      otel.Tracer("github.com/guru03-coder/SlideSense/internal/service/review"),
	}
}

func (s *staffReviewService) List(ctx context.Context, filter dto.StaffListFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	repoFilter := repository.SubmissionFilter{
		Search:     filter.Search,
		Department: filter.Department,
		MinScore:   filter.MinScore,
		MaxScore:   filter.MaxScore,
	}
	if raw := strings.TrimSpace(filter.Status); raw != "" && !strings.EqualFold(raw, "all") {
		status, ok := models.ParseStatus(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatusFilter, raw)
		}
		repoFilter.Status = &status
	}

	items, err := s.submissions.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponseSlice(items), nil
}

func (s *staffReviewService) Get(ctx context.Context, id string) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	// Staff detail views trigger scoring on demand so older uploads are
	// never presented without a score.
	if submission.Analysis == nil {
		refreshed, err := s.ensureAnalysis(ctx, submission)
		if err != nil {
			s.logger.Warn().Err(err).Str("submission_id", id).Msg("lazy analysis failed")
		} else {
			submission = refreshed
		}
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *staffReviewService) Analyze(ctx context.Context, id string) (dto.AnalysisResponse, error) {
	ctx, span := s.tracer.Start(ctx, "review.analyze")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", id))

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			span.SetStatus(codes.Error, "not_found")
			return dto.AnalysisResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup_failed")
		return dto.AnalysisResponse{}, err
	}

	if submission.Analysis != nil {
		span.SetAttributes(attribute.Bool("analysis.cached", true))
		span.SetStatus(codes.Ok, "already_analyzed")
		return dto.NewAnalysisResponse(*submission.Analysis), nil
	}

	refreshed, err := s.ensureAnalysis(ctx, submission)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis_failed")
		return dto.AnalysisResponse{}, err
	}

	span.SetAttributes(attribute.Int("analysis.score", refreshed.Analysis.Score))
	span.SetStatus(codes.Ok, "analyzed")
	return dto.NewAnalysisResponse(*refreshed.Analysis), nil
}

func (s *staffReviewService) Approve(ctx context.Context, id, reviewer string) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "review.approve")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", id))

	updated, err := s.submissions.Update(ctx, id, func(m *models.Submission) error {
		if !m.IsPending() {
			return ErrNotPending
		}
		m.Status = models.StatusApproved
		m.RejectionReason = ""
		return nil
	})
	if err != nil {
		return dto.SubmissionResponse{}, s.decisionError(span, err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateStats(ctx)
	}

	span.SetStatus(codes.Ok, "approved")
	s.logger.Info().
		Str("submission_id", id).
		Str("reviewer", reviewer).
		Msg("submission approved")

	return dto.NewSubmissionResponse(updated), nil
}

func (s *staffReviewService) Reject(ctx context.Context, id string, payload dto.RejectRequest, reviewer string) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "review.reject")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", id))

	if err := s.validator.Struct(payload); err != nil {
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	reason := strings.TrimSpace(s.sanitizer.Sanitize(payload.Reason))
	if reason == "" {
		span.SetStatus(codes.Error, "reason_empty")
		return dto.SubmissionResponse{}, ErrReasonRequired
	}

	updated, err := s.submissions.Update(ctx, id, func(m *models.Submission) error {
		if !m.IsPending() {
			return ErrNotPending
		}
		m.Status = models.StatusRejected
		m.RejectionReason = reason
		return nil
	})
	if err != nil {
		return dto.SubmissionResponse{}, s.decisionError(span, err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateStats(ctx)
	}

	span.SetStatus(codes.Ok, "rejected")
	s.logger.Info().
		Str("submission_id", id).
		Str("reviewer", reviewer).
		Msg("submission rejected")

	return dto.NewSubmissionResponse(updated), nil
}

func (s *staffReviewService) Download(ctx context.Context, id string) (DownloadTarget, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return DownloadTarget{}, ErrSubmissionNotFound
		}
		return DownloadTarget{}, err
	}

	if strings.TrimSpace(submission.FilePath) == "" {
		return DownloadTarget{}, ErrFileMissing
	}

	path, err := s.files.Resolve(submission.FilePath)
	if err != nil {
		s.logger.Warn().Err(err).Str("submission_id", id).Str("file_path", submission.FilePath).Msg("stored file unavailable")
		return DownloadTarget{}, ErrFileMissing
	}

	return DownloadTarget{Path: path, FileName: submission.FileName}, nil
}

// ensureAnalysis computes and persists scoring for a submission that has none.
// The nil re-check inside the mutation keeps concurrent analyze calls from
// overwriting each other's result.
func (s *staffReviewService) ensureAnalysis(ctx context.Context, submission models.Submission) (models.Submission, error) {
	report, err := s.evaluator.Evaluate(ctx, evaluator.Input{
		SubmissionID: submission.ID,
		FileName:     submission.FileName,
		Department:   submission.Department,
		SlideCount:   submission.SlideCount,
		SizeBytes:    submission.SizeBytes,
	})
	if err != nil {
		return models.Submission{}, err
	}

	computed := analysisFromReport(report)
	updated, err := s.submissions.Update(ctx, submission.ID, func(m *models.Submission) error {
		if m.Analysis == nil {
			m.Analysis = computed
		}
		return nil
	})
	if err != nil {
		return models.Submission{}, err
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateStats(ctx)
	}
	return updated, nil
}

func (s *staffReviewService) decisionError(span trace.Span, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		span.SetStatus(codes.Error, "not_found")
		return ErrSubmissionNotFound
	case errors.Is(err, ErrNotPending):
		span.SetStatus(codes.Error, "not_pending")
		return ErrNotPending
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "update_failed")
		return err
	}
}
