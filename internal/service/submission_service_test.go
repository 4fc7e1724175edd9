package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/guru03-coder/SlideSense/internal/dto"
	"github.com/guru03-coder/SlideSense/internal/models"
	"github.com/guru03-coder/SlideSense/internal/repository"
	"github.com/guru03-coder/SlideSense/pkg/evaluator"
)

type recordingInvalidator struct {
	calls int
}

func (r *recordingInvalidator) InvalidateStats(ctx context.Context) {
	r.calls++
}

func newSubmissionService(t *testing.T, repo repository.SubmissionRepository, maxSizeMB int, invalidator StatsCacheInvalidator) SubmissionService {
	t.Helper()
	return NewSubmissionService(
		repo,
		testAccounts(),
		evaluator.NewHeuristic(testLogger()),
		newFileStorage(t),
		validator.New(),
		invalidator,
		maxSizeMB,
		testLogger(),
	)
}

func TestUploadStoresPendingSubmission(t *testing.T) {
	repo := newSubmissionRepo(t)
	invalidator := &recordingInvalidator{}
	svc := newSubmissionService(t, repo, 5, invalidator)

	file := buildFileHeader(t, "Quantum_Computing_Overview.pdf", pdfBytes())
	resp, err := svc.Upload(context.Background(), dto.UploadRequest{RollNumber: "21CS001", SlideCount: 18}, file)
	require.NoError(t, err)

	require.Equal(t, "Quantum_Computing_Overview.pdf", resp.FileName)
	require.Equal(t, "Alice Johnson", resp.StudentName)
	require.Equal(t, "21CS001", resp.RollNumber)
	require.Equal(t, "CSE", resp.Department)
	require.Equal(t, string(models.StatusPending), resp.Status)
	require.Equal(t, "application/pdf", resp.MimeType)
	require.True(t, strings.HasPrefix(resp.FilePath, "/uploads/"))
	require.True(t, strings.HasSuffix(resp.FilePath, ".pdf"))
	require.Greater(t, resp.SizeBytes, int64(0))
	require.NotNil(t, resp.Analysis)
	require.NotNil(t, resp.Score)
	require.Equal(t, 1, invalidator.calls)

	stored, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, stored.Status)
	require.NotNil(t, stored.Analysis)
}

func TestUploadAcceptsZipContainers(t *testing.T) {
	repo := newSubmissionRepo(t)
	svc := newSubmissionService(t, repo, 5, nil)

	payload := zipBytes(t, map[string][]byte{"ppt/slides/slide1.xml": []byte("<p:sld/>")})
	file := buildFileHeader(t, "final_project.pptx", payload)

	resp, err := svc.Upload(context.Background(), dto.UploadRequest{RollNumber: "21EE015", SlideCount: 20}, file)
	require.NoError(t, err)
	require.Equal(t, "final_project.pptx", resp.FileName)
	require.Contains(t, resp.MimeType, "zip")
}

func TestUploadRejectsUnknownStudent(t *testing.T) {
	svc := newSubmissionService(t, newSubmissionRepo(t), 5, nil)

	file := buildFileHeader(t, "deck.pdf", pdfBytes())
	_, err := svc.Upload(context.Background(), dto.UploadRequest{RollNumber: "99ZZ999"}, file)
	require.ErrorIs(t, err, ErrUnknownStudent)
}

func TestUploadRequiresFile(t *testing.T) {
	svc := newSubmissionService(t, newSubmissionRepo(t), 5, nil)

	_, err := svc.Upload(context.Background(), dto.UploadRequest{RollNumber: "21CS001"}, nil)
	require.ErrorIs(t, err, ErrFileRequired)
}

func TestUploadRejectsSize(t *testing.T) {
	svc := newSubmissionService(t, newSubmissionRepo(t), 1, nil)

	file := buildFileHeader(t, "big.pdf", bytes.Repeat([]byte("a"), 2*1024*1024))
	_, err := svc.Upload(context.Background(), dto.UploadRequest{RollNumber: "21CS001"}, file)
	require.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	svc := newSubmissionService(t, newSubmissionRepo(t), 5, nil)

	file := buildFileHeader(t, "notes.txt", []byte("plain text notes"))
	_, err := svc.Upload(context.Background(), dto.UploadRequest{RollNumber: "21CS001"}, file)
	require.ErrorIs(t, err, ErrUploadTypeNotAllowed)
}

func TestUploadRejectsZipBomb(t *testing.T) {
	svc := newSubmissionService(t, newSubmissionRepo(t), 1, nil)

	// 24MB of zeros deflates to a few KB, so the payload passes the size
	// check while the declared uncompressed size blows past the limit.
	payload := zipBytes(t, map[string][]byte{"huge.bin": make([]byte, 24*1024*1024)})
	require.Less(t, len(payload), 1024*1024)

	file := buildFileHeader(t, "deck.pptx", payload)
	_, err := svc.Upload(context.Background(), dto.UploadRequest{RollNumber: "21CS001"}, file)
	require.ErrorIs(t, err, ErrUploadScanFailed)
}

func TestUploadValidatesPayload(t *testing.T) {
	svc := newSubmissionService(t, newSubmissionRepo(t), 5, nil)

	file := buildFileHeader(t, "deck.pdf", pdfBytes())
	_, err := svc.Upload(context.Background(), dto.UploadRequest{RollNumber: ""}, file)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestListByOwnerFiltersRoll(t *testing.T) {
	repo := newSubmissionRepo(t)
	require.NoError(t, repo.Create(context.Background(), pendingSubmission("a1", "21CS001", "CSE", "first_draft.pptx")))
	require.NoError(t, repo.Create(context.Background(), pendingSubmission("b22", "21EE015", "EEE", "circuits.pptx")))
	require.NoError(t, repo.Create(context.Background(), pendingSubmission("c333", "21CS001", "CSE", "final_project.pptx")))

	svc := newSubmissionService(t, repo, 5, nil)
	items, err := svc.ListByOwner(context.Background(), "21cs001")
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Newest upload first.
	require.Equal(t, "c333", items[0].ID)
	require.Equal(t, "a1", items[1].ID)
}

func TestGetReturnsNotFound(t *testing.T) {
	svc := newSubmissionService(t, newSubmissionRepo(t), 5, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestDashboardAggregatesOwnSubmissions(t *testing.T) {
	repo := newSubmissionRepo(t)
	require.NoError(t, repo.Create(context.Background(), analyzedSubmission("a1", "21CS001", "CSE", 92, models.StatusApproved)))
	require.NoError(t, repo.Create(context.Background(), analyzedSubmission("b22", "21CS001", "CSE", 79, models.StatusRejected)))
	require.NoError(t, repo.Create(context.Background(), pendingSubmission("c333", "21CS001", "CSE", "draft.pptx")))
	require.NoError(t, repo.Create(context.Background(), analyzedSubmission("d4444", "21EE015", "EEE", 70, models.StatusPending)))

	svc := newSubmissionService(t, repo, 5, nil)
	dashboard, err := svc.Dashboard(context.Background(), "21CS001")
	require.NoError(t, err)

	require.Equal(t, "21CS001", dashboard.RollNumber)
	require.Equal(t, 3, dashboard.Total)
	require.Equal(t, 1, dashboard.Pending)
	require.Equal(t, 1, dashboard.Approved)
	require.Equal(t, 1, dashboard.Rejected)
	require.NotNil(t, dashboard.AverageScore)
	require.InDelta(t, 85.5, *dashboard.AverageScore, 0.001)
	require.Len(t, dashboard.Submissions, 3)
}

func TestDashboardEmptyHasNoAverage(t *testing.T) {
	svc := newSubmissionService(t, newSubmissionRepo(t), 5, nil)

	dashboard, err := svc.Dashboard(context.Background(), "21CS001")
	require.NoError(t, err)
	require.Equal(t, 0, dashboard.Total)
	require.Nil(t, dashboard.AverageScore)
}
