package service

import (
	"archive/zip"
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/guru03-coder/SlideSense/internal/models"
	"github.com/guru03-coder/SlideSense/internal/repository"
	"github.com/guru03-coder/SlideSense/internal/store"
	"github.com/guru03-coder/SlideSense/pkg/storage"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func newSubmissionRepo(t *testing.T) repository.SubmissionRepository {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "data.json"), testLogger())
	require.NoError(t, err)
	return repository.NewSubmissionRepository(st)
}

func newFileStorage(t *testing.T) *storage.Service {
	t.Helper()
	svc, err := storage.New(storage.Config{Dir: t.TempDir()}, testLogger())
	require.NoError(t, err)
	return svc
}

func testAccounts() repository.AccountRepository {
	staff := []models.StaffAccount{
		{ID: "staff-1", Name: "Dr. John Smith", Email: "teacher@example.com", Password: "password123"},
	}
	students := []models.StudentAccount{
		{ID: "student-1", Name: "Alice Johnson", Email: "alice@example.com", RollNumber: "21CS001", Department: "CSE", Password: "student123"},
		{ID: "student-2", Name: "Rahul Verma", Email: "rahul@example.com", RollNumber: "21EE015", Department: "EEE", Password: "student123"},
	}
	return repository.NewAccountRepository(staff, students)
}

func pendingSubmission(id, roll, dept, fileName string) models.Submission {
	return models.Submission{
		ID:          id,
		FileName:    fileName,
		StudentName: "Alice Johnson",
		RollNumber:  roll,
		Department:  dept,
		SlideCount:  18,
		Status:      models.StatusPending,
		FilePath:    "/uploads/" + id + ".pptx",
		UploadedAt:  time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).Add(time.Duration(len(id)) * time.Minute),
	}
}

func analyzedSubmission(id, roll, dept string, score int, status models.SubmissionStatus) models.Submission {
	s := pendingSubmission(id, roll, dept, "Quantum_Computing_Overview.pptx")
	s.Status = status
	s.Analysis = &models.AnalysisResult{
		Score: score,
		Factors: models.FactorScores{
			FilenameQuality:  score,
			ContentStructure: score,
			VisualDesign:     score,
			Completeness:     score,
			Clarity:          score,
			Relevance:        score,
		},
		Strengths:       []string{"Well-structured content"},
		Improvements:    []string{},
		Recommendations: []string{"Excellent work! Ready for presentation"},
		Insights:        []string{"High quality submission"},
	}
	return s
}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {"form-data; name=\"file\"; filename=\"" + filename + "\""},
		"Content-Type":        {"application/octet-stream"},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
}

func zipBytes(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}
