package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/guru03-coder/SlideSense/internal/dto"
)

func TestStudentUpload(t *testing.T) {
	portal := newPortalApp(t)

	payload := pdfPayload()
	req := asStudent(uploadRequest(t, "21CS001", "Compiler_Design_Final.pdf", "18", payload), "21CS001")
	resp, err := portal.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body submissionBody
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "pending", body.Data.Status)
	require.Equal(t, "Compiler_Design_Final.pdf", body.Data.FileName)
	require.Equal(t, "21CS001", body.Data.RollNumber)
	require.Equal(t, "Rahul Kumar", body.Data.StudentName)
	require.Equal(t, "CSE", body.Data.Department)
	require.Equal(t, 18, body.Data.SlideCount)
	require.Equal(t, "application/pdf", body.Data.MimeType)
	require.Equal(t, int64(len(payload)), body.Data.SizeBytes)
	require.Contains(t, body.Data.FilePath, "/uploads/")
	require.NotNil(t, body.Data.Analysis)

	stored, err := portal.submissions.GetByID(context.Background(), body.Data.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Analysis)
}

func TestStudentUploadDefaultsRollFromToken(t *testing.T) {
	portal := newPortalApp(t)

	resp, err := portal.app.Test(asStudent(uploadRequest(t, "", "Networks_Lab_Report.pdf", "", pdfPayload()), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body submissionBody
	decodeResponse(t, resp, &body)
	require.Equal(t, "21CS001", body.Data.RollNumber)
	require.Equal(t, 0, body.Data.SlideCount)
}

func TestStudentUploadForAnotherStudent(t *testing.T) {
	portal := newPortalApp(t)

	resp, err := portal.app.Test(asStudent(uploadRequest(t, "21EE015", "Borrowed_Slides.pdf", "", pdfPayload()), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestStudentUploadUnknownRoll(t *testing.T) {
	portal := newPortalApp(t)

	resp, err := portal.app.Test(asStudent(uploadRequest(t, "99ZZ999", "Mystery.pdf", "", pdfPayload()), "99ZZ999"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStudentUploadMissingFile(t *testing.T) {
	portal := newPortalApp(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("rollNumber", "21CS001"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/student/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := portal.app.Test(asStudent(req, "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStudentUploadRejectsBadSlideCount(t *testing.T) {
	portal := newPortalApp(t)

	resp, err := portal.app.Test(asStudent(uploadRequest(t, "21CS001", "Slides.pdf", "lots", pdfPayload()), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStudentListRequiresRollNumber(t *testing.T) {
	portal := newPortalApp(t)

	resp, err := portal.app.Test(asStudent(jsonRequest(t, "GET", "/api/student/presentations", nil), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStudentListScopedToOwner(t *testing.T) {
	portal := newPortalApp(t)

	other, err := portal.app.Test(asStudent(jsonRequest(t, "GET", "/api/student/presentations?rollNumber=21EE015", nil), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, other.StatusCode)

	own, err := portal.app.Test(asStudent(jsonRequest(t, "GET", "/api/student/presentations?rollNumber=21cs001", nil), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, own.StatusCode)

	var body submissionListBody
	decodeResponse(t, own, &body)
	require.Len(t, body.Data, 1)
	require.Equal(t, "1", body.Data[0].ID)
}

func TestStudentGetEnforcesOwnership(t *testing.T) {
	portal := newPortalApp(t)

	own, err := portal.app.Test(asStudent(jsonRequest(t, "GET", "/api/student/presentations/1", nil), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, own.StatusCode)

	var body submissionBody
	decodeResponse(t, own, &body)
	require.Equal(t, "1", body.Data.ID)

	foreign, err := portal.app.Test(asStudent(jsonRequest(t, "GET", "/api/student/presentations/2", nil), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, foreign.StatusCode)

	missing, err := portal.app.Test(asStudent(jsonRequest(t, "GET", "/api/student/presentations/nope", nil), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, missing.StatusCode)
}

func TestStudentAnalyzeOwnPresentation(t *testing.T) {
	portal := newPortalApp(t)

	resp, err := portal.app.Test(asStudent(jsonRequest(t, "POST", "/api/student/presentations/1/analyze", nil), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.AnalysisResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)

	stored, err := portal.submissions.GetByID(context.Background(), "1")
	require.NoError(t, err)
	require.NotNil(t, stored.Analysis)
	require.Equal(t, stored.Analysis.Score, body.Data.Score)

	foreign, err := portal.app.Test(asStudent(jsonRequest(t, "POST", "/api/student/presentations/2/analyze", nil), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, foreign.StatusCode)
}

func TestStudentDownloadOwnPresentation(t *testing.T) {
	portal := newPortalApp(t)

	_, _, err := portal.files.Save(context.Background(), "1.pptx", bytes.NewReader(pdfPayload()))
	require.NoError(t, err)

	resp, err := portal.app.Test(asStudent(jsonRequest(t, "GET", "/api/student/presentations/1/download", nil), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "AI_Machine_Learning_Presentation.pptx")

	foreign, err := portal.app.Test(asStudent(jsonRequest(t, "GET", "/api/student/presentations/2/download", nil), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, foreign.StatusCode)
}

func TestStudentStatsDashboard(t *testing.T) {
	portal := newPortalApp(t)

	upload, err := portal.app.Test(asStudent(uploadRequest(t, "21CS001", "Operating_Systems_Review.pdf", "20", pdfPayload()), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, upload.StatusCode)

	resp, err := portal.app.Test(asStudent(jsonRequest(t, "GET", "/api/student/stats", nil), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.StudentDashboardResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "21CS001", body.Data.RollNumber)
	require.Equal(t, 2, body.Data.Total)
	require.Equal(t, 1, body.Data.Pending)
	require.Equal(t, 1, body.Data.Approved)
	require.Equal(t, 0, body.Data.Rejected)
	require.NotNil(t, body.Data.AverageScore)
	require.Len(t, body.Data.Submissions, 2)

	foreign, err := portal.app.Test(asStudent(jsonRequest(t, "GET", "/api/student/stats?rollNumber=21EE015", nil), "21CS001"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, foreign.StatusCode)
}

func TestStudentRoutesEnforceRole(t *testing.T) {
	portal := newPortalApp(t)

	staff, err := portal.app.Test(asStaff(jsonRequest(t, "GET", "/api/student/stats", nil)))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, staff.StatusCode)

	anonymous, err := portal.app.Test(jsonRequest(t, "GET", "/api/student/stats", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, anonymous.StatusCode)
}
