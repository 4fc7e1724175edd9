package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/guru03-coder/SlideSense/internal/dto"
	"github.com/guru03-coder/SlideSense/internal/models"
	"github.com/guru03-coder/SlideSense/internal/observability"
	"github.com/guru03-coder/SlideSense/internal/repository"
	"github.com/guru03-coder/SlideSense/internal/store"
	"github.com/guru03-coder/SlideSense/pkg/evaluator"
)

var (
	// ErrSubmissionNotFound indicates a submission could not be found.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrUnknownStudent indicates the roll number matches no enrolled student.
	ErrUnknownStudent = errors.New("unknown student")
	// ErrFileRequired indicates the upload carried no file part.
	ErrFileRequired = errors.New("file is required")
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the detected MIME type is not permitted.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
	// ErrUploadScanFailed indicates structural validation of the file failed.
	ErrUploadScanFailed = errors.New("file scanning failed")
)

// FileStorage abstracts the upload destination for presentation files.
type FileStorage interface {
	Save(ctx context.Context, name string, reader io.Reader) (string, int64, error)
}

// StatsCacheInvalidator drops cached pipeline aggregates after a mutation.
type StatsCacheInvalidator interface {
	InvalidateStats(ctx context.Context)
}

// SubmissionService orchestrates the student-facing submission workflows.
type SubmissionService interface {
	Upload(ctx context.Context, payload dto.UploadRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error)
	ListByOwner(ctx context.Context, rollNumber string) ([]dto.SubmissionResponse, error)
	Get(ctx context.Context, id string) (dto.SubmissionResponse, error)
	Dashboard(ctx context.Context, rollNumber string) (dto.StudentDashboardResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	accounts    repository.AccountRepository
	evaluator   evaluator.Evaluator
	storage     FileStorage
	validator   *validator.Validate
	invalidator StatsCacheInvalidator
	logger      zerolog.Logger
	maxSize     int64
	tracer      trace.Tracer
	now         func() time.Time
	newID       func() string
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(
	subRepo repository.SubmissionRepository,
	accountRepo repository.AccountRepository,
	eval evaluator.Evaluator,
	fileStorage FileStorage,
	validate *validator.Validate,
	invalidator StatsCacheInvalidator,
	maxSizeMB int,
	logger zerolog.Logger,
) SubmissionService {
	if maxSizeMB <= 0 {
		maxSizeMB = 20
	}
	return &submissionService{
		submissions: subRepo,
		accounts:    accountRepo,
		evaluator:   eval,
		storage:     fileStorage,
		validator:   validate,
		invalidator: invalidator,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		maxSize:     int64(maxSizeMB) * 1024 * 1024,
		tracer:      otel.Tracer("github.com/guru03-coder/SlideSense/internal/service/submission"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *submissionService) Upload(ctx context.Context, payload dto.UploadRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.upload")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	if file == nil {
		observability.UploadOutcomes().WithLabelValues("rejected_missing").Inc()
		span.RecordError(ErrFileRequired)
		span.SetStatus(codes.Error, "file_missing")
		return dto.SubmissionResponse{}, ErrFileRequired
	}

	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
		attribute.Int64("upload.max_bytes", s.maxSize),
	)

	account, err := s.accounts.FindStudentByRoll(ctx, payload.RollNumber)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "student_not_found")
			return dto.SubmissionResponse{}, ErrUnknownStudent
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "student_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	if file.Size > s.maxSize {
		observability.UploadOutcomes().WithLabelValues("rejected_size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload_too_large")
		return dto.SubmissionResponse{}, ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open_failed")
		return dto.SubmissionResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read_failed")
		return dto.SubmissionResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.UploadOutcomes().WithLabelValues("rejected_size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload_too_large")
		return dto.SubmissionResponse{}, ErrUploadTooLarge
	}

	detected := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("upload.detected_mime", detected.String()))
	if !isAllowedPresentationType(detected.String()) {
		observability.UploadOutcomes().WithLabelValues("rejected_type").Inc()
		span.RecordError(ErrUploadTypeNotAllowed)
		span.SetStatus(codes.Error, "type_not_allowed")
		return dto.SubmissionResponse{}, ErrUploadTypeNotAllowed
	}

	if err := scanArchive(buf.Bytes(), detected.String(), s.maxSize); err != nil {
		observability.UploadOutcomes().WithLabelValues("rejected_scan").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan_failed")
		return dto.SubmissionResponse{}, err
	}

	displayName := filepath.Base(strings.TrimSpace(file.Filename))
	id := s.newID()
	storedName := id + strings.ToLower(filepath.Ext(displayName))

	path, size, err := s.storage.Save(ctx, storedName, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.UploadOutcomes().WithLabelValues("rejected_storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage_failed")
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		ID:          id,
		FileName:    displayName,
		StudentName: account.Name,
		RollNumber:  account.RollNumber,
		Department:  account.Department,
		SlideCount:  payload.SlideCount,
		SizeBytes:   size,
		MimeType:    detected.String(),
		Status:      models.StatusPending,
		FilePath:    path,
		UploadedAt:  s.now().UTC(),
	}

	report, err := s.evaluator.Evaluate(ctx, evaluator.Input{
		SubmissionID: submission.ID,
		FileName:     submission.FileName,
		Department:   submission.Department,
		SlideCount:   submission.SlideCount,
		SizeBytes:    submission.SizeBytes,
	})
	if err != nil {
		// Scoring never blocks an upload; staff can trigger it again later.
		s.logger.Warn().Err(err).Str("submission_id", submission.ID).Msg("initial analysis failed")
		span.RecordError(err)
	} else {
		submission.Analysis = analysisFromReport(report)
	}

	if err := s.submissions.Create(ctx, submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence_failed")
		return dto.SubmissionResponse{}, err
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateStats(ctx)
	}

	observability.UploadOutcomes().WithLabelValues("accepted").Inc()
	span.SetAttributes(
		attribute.String("upload.submission_id", submission.ID),
		attribute.Int64("upload.size_bytes", size),
	)
	span.SetStatus(codes.Ok, "stored")

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("roll_number", submission.RollNumber).
		Int64("size_bytes", size).
		Msg("presentation uploaded")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListByOwner(ctx context.Context, rollNumber string) ([]dto.SubmissionResponse, error) {
	items, err := s.submissions.List(ctx, repository.SubmissionFilter{RollNumber: rollNumber})
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponseSlice(items), nil
}

func (s *submissionService) Get(ctx context.Context, id string) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}
	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Dashboard(ctx context.Context, rollNumber string) (dto.StudentDashboardResponse, error) {
	items, err := s.submissions.List(ctx, repository.SubmissionFilter{RollNumber: rollNumber})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	dashboard := dto.StudentDashboardResponse{
		RollNumber:  strings.ToUpper(strings.TrimSpace(rollNumber)),
		Total:       len(items),
		Submissions: dto.NewSubmissionResponseSlice(items),
	}

	scoreSum := 0
	scored := 0
	for _, item := range items {
		switch item.Status {
		case models.StatusPending:
			dashboard.Pending++
		case models.StatusApproved:
			dashboard.Approved++
		case models.StatusRejected:
			dashboard.Rejected++
		}
		if item.Analysis != nil {
			scoreSum += item.Analysis.Score
			scored++
		}
	}

	if scored > 0 {
		avg := roundTo1(float64(scoreSum) / float64(scored))
		dashboard.AverageScore = &avg
	}

	return dashboard, nil
}

// analysisFromReport converts an evaluator report into the persisted model.
func analysisFromReport(report evaluator.Report) *models.AnalysisResult {
	return &models.AnalysisResult{
		Score: report.Score,
		Factors: models.FactorScores{
			FilenameQuality:  report.Factors.FilenameQuality,
			ContentStructure: report.Factors.ContentStructure,
			VisualDesign:     report.Factors.VisualDesign,
			Completeness:     report.Factors.Completeness,
			Clarity:          report.Factors.Clarity,
			Relevance:        report.Factors.Relevance,
		},
		Strengths:       report.Strengths,
		Improvements:    report.Improvements,
		Recommendations: report.Recommendations,
		Insights:        report.Insights,
	}
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

func isAllowedPresentationType(mime string) bool {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/pdf",
		"application/zip",
		"application/x-zip-compressed":
		return true
	default:
		return false
	}
}

// scanArchive guards against zip payloads whose uncompressed size balloons
// far past the upload limit.
func scanArchive(payload []byte, mime string, maxSize int64) error {
	if !strings.Contains(mime, "zip") && !strings.Contains(mime, "presentationml") {
		return nil
	}

	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return ErrUploadScanFailed
	}

	var totalUncompressed uint64
	for _, f := range reader.File {
		totalUncompressed += f.UncompressedSize64
		if totalUncompressed > uint64(maxSize*20) {
			return fmt.Errorf("zip archive uncompressed size too large: %w", ErrUploadScanFailed)
		}
	}
	return nil
}
