package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/guru03-coder/SlideSense/internal/config"
	"github.com/guru03-coder/SlideSense/internal/handler"
	"github.com/guru03-coder/SlideSense/internal/repository"
	"github.com/guru03-coder/SlideSense/internal/router"
	"github.com/guru03-coder/SlideSense/internal/seed"
	"github.com/guru03-coder/SlideSense/internal/service"
	"github.com/guru03-coder/SlideSense/internal/store"
	"github.com/guru03-coder/SlideSense/pkg/evaluator"
	"github.com/guru03-coder/SlideSense/pkg/storage"
)

type portalApp struct {
	app         *fiber.App
	store       *store.Store
	submissions repository.SubmissionRepository
	files       *storage.Service
}

// newPortalApp wires the full portal stack over temp storage with the demo
// data applied. The JWT middleware is replaced by a stub that trusts the
// X-Test-User / X-Test-Role headers so tests can act as any principal while
// the role guard still runs for real.
func newPortalApp(t *testing.T) *portalApp {
	t.Helper()

	logger := zerolog.New(io.Discard)
	validate := validator.New()

	st, err := store.Open(filepath.Join(t.TempDir(), "data.json"), logger)
	require.NoError(t, err)

	files, err := storage.New(storage.Config{Dir: t.TempDir()}, logger)
	require.NoError(t, err)

	eval := evaluator.NewHeuristic(logger)
	submissionRepo := repository.NewSubmissionRepository(st)
	require.NoError(t, seed.Apply(context.Background(), submissionRepo, eval, logger))

	accountRepo := repository.NewAccountRepository(seed.StaffAccounts(), seed.StudentAccounts())

	analyticsService := service.NewStaffAnalyticsService(submissionRepo, nil, time.Minute, logger)
	submissionService := service.NewSubmissionService(submissionRepo, accountRepo, eval, files, validate, analyticsService, 5, logger)
	reviewService := service.NewStaffReviewService(submissionRepo, eval, files, validate, analyticsService, logger)
	authService := service.NewAuthService(accountRepo, validate, "test-secret", time.Hour, logger)

	app := fiber.New()
	cfg := config.Config{AppName: "SlideSense Test", AppEnv: "test", JWTSecret: "test-secret", LoginRatePerMin: 50}

	router.Register(app, cfg, router.Dependencies{
		AuthHandler:     handler.NewAuthHandler(authService, logger),
		StudentHandler:  handler.NewStudentHandler(submissionService, reviewService, logger),
		StaffHandler:    handler.NewStaffHandler(reviewService, analyticsService, logger),
		SubmissionCount: st.Len,
		JWTMiddleware: func(c *fiber.Ctx) error {
			if user := c.Get("X-Test-User"); user != "" {
				c.Locals("user_id", user)
			}
			if role := c.Get("X-Test-Role"); role != "" {
				c.Locals("user_role", role)
			}
			return c.Next()
		},
	})

	return &portalApp{app: app, store: st, submissions: submissionRepo, files: files}
}

func asStaff(req *http.Request) *http.Request {
	req.Header.Set("X-Test-User", "teacher@example.com")
	req.Header.Set("X-Test-Role", "staff")
	return req
}

func asStudent(req *http.Request, roll string) *http.Request {
	req.Header.Set("X-Test-User", roll)
	req.Header.Set("X-Test-Role", "student")
	return req
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func uploadRequest(t *testing.T, roll, fileName string, slideCount string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("rollNumber", roll))
	if slideCount != "" {
		require.NoError(t, writer.WriteField("slideCount", slideCount))
	}
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/student/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func pdfPayload() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
}
