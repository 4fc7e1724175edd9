package handler_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/guru03-coder/SlideSense/internal/dto"
)

func TestLoginStaff(t *testing.T) {
	portal := newPortalApp(t)

	req := jsonRequest(t, "POST", "/api/login", dto.LoginRequest{
		Role:       "staff",
		Identifier: "teacher@example.com",
		Password:   "password123",
	})
	resp, err := portal.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "SlideSense Test", resp.Header.Get("X-Application"))

	var body struct {
		Success bool              `json:"success"`
		Data    dto.LoginResponse `json:"data"`
		Message string            `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "login successful", body.Message)
	require.NotEmpty(t, body.Data.Token)
	require.Equal(t, "staff", body.Data.Role)
	require.Equal(t, "Dr. John Smith", body.Data.Profile.Name)
}

func TestLoginStudentViaAuthAlias(t *testing.T) {
	portal := newPortalApp(t)

	req := jsonRequest(t, "POST", "/api/auth/login", dto.LoginRequest{
		Role:       "student",
		Identifier: "21cs001",
		Password:   "student123",
	})
	resp, err := portal.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool              `json:"success"`
		Data    dto.LoginResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "student", body.Data.Role)
	require.Equal(t, "21CS001", body.Data.Profile.RollNumber)
	require.Equal(t, "CSE", body.Data.Profile.Department)
}

func TestLoginWrongPassword(t *testing.T) {
	portal := newPortalApp(t)

	req := jsonRequest(t, "POST", "/api/login", dto.LoginRequest{
		Role:       "staff",
		Identifier: "teacher@example.com",
		Password:   "wrong",
	})
	resp, err := portal.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, "invalid credentials", body.Message)
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	portal := newPortalApp(t)

	req := jsonRequest(t, "POST", "/api/login", dto.LoginRequest{
		Role:       "admin",
		Identifier: "teacher@example.com",
		Password:   "password123",
	})
	resp, err := portal.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginMalformedBody(t *testing.T) {
	portal := newPortalApp(t)

	req := httptest.NewRequest("POST", "/api/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := portal.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestVerifyTokenFromBody(t *testing.T) {
	portal := newPortalApp(t)

	login := jsonRequest(t, "POST", "/api/login", dto.LoginRequest{
		Role:       "staff",
		Identifier: "teacher@example.com",
		Password:   "password123",
	})
	loginResp, err := portal.app.Test(login)
	require.NoError(t, err)

	var loginBody struct {
		Data dto.LoginResponse `json:"data"`
	}
	decodeResponse(t, loginResp, &loginBody)

	verify := jsonRequest(t, "POST", "/api/auth/verify", dto.VerifyRequest{Token: loginBody.Data.Token})
	verifyResp, err := portal.app.Test(verify)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, verifyResp.StatusCode)

	var verifyBody struct {
		Success bool               `json:"success"`
		Data    dto.VerifyResponse `json:"data"`
	}
	decodeResponse(t, verifyResp, &verifyBody)
	require.True(t, verifyBody.Success)
	require.True(t, verifyBody.Data.Valid)
	require.Equal(t, "staff", verifyBody.Data.Role)
	require.NotNil(t, verifyBody.Data.Profile)
	require.Equal(t, "teacher@example.com", verifyBody.Data.Profile.Email)
}

func TestVerifyTokenFromBearerHeader(t *testing.T) {
	portal := newPortalApp(t)

	login := jsonRequest(t, "POST", "/api/login", dto.LoginRequest{
		Role:       "student",
		Identifier: "21EE015",
		Password:   "student123",
	})
	loginResp, err := portal.app.Test(login)
	require.NoError(t, err)

	var loginBody struct {
		Data dto.LoginResponse `json:"data"`
	}
	decodeResponse(t, loginResp, &loginBody)

	verify := jsonRequest(t, "POST", "/api/auth/verify", nil)
	verify.Header.Set("Authorization", "Bearer "+loginBody.Data.Token)
	verifyResp, err := portal.app.Test(verify)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, verifyResp.StatusCode)
}

func TestVerifyInvalidTokenReportsValidFalse(t *testing.T) {
	portal := newPortalApp(t)

	verify := jsonRequest(t, "POST", "/api/auth/verify", dto.VerifyRequest{Token: "garbage"})
	resp, err := portal.app.Test(verify)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Success bool               `json:"success"`
		Data    dto.VerifyResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.False(t, body.Data.Valid)
}

func TestVerifyMissingToken(t *testing.T) {
	portal := newPortalApp(t)

	resp, err := portal.app.Test(jsonRequest(t, "POST", "/api/auth/verify", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogoutEndpoints(t *testing.T) {
	portal := newPortalApp(t)

	for _, target := range []string{"/api/logout", "/api/auth/logout"} {
		resp, err := portal.app.Test(jsonRequest(t, "POST", target, nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, target)
	}
}

func TestLoginRateLimited(t *testing.T) {
	portal := newPortalApp(t)

	last := 0
	for i := 0; i < 55; i++ {
		req := jsonRequest(t, "POST", "/api/login", dto.LoginRequest{
			Role:       "staff",
			Identifier: "teacher@example.com",
			Password:   "wrong",
		})
		resp, err := portal.app.Test(req)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		last = resp.StatusCode
	}
	require.Equal(t, fiber.StatusTooManyRequests, last)
}
