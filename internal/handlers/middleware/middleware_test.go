package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"tastebuddin/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func authApp(secret string) *fiber.App {
	m := New(config.Config{AuthJWTSecret: secret})
	app := fiber.New()
	app.Get("/private", m.RequireAuth(), func(c *fiber.Ctx) error {
		userID, ok := GetUserID(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(userID.String())
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name           string
		secret         string
		header         string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Disabled without secret",
			expectedStatus: fiber.StatusOK,
			expectedBody:   "anonymous",
		},
		{
			name:           "Missing header",
			secret:         testSecret,
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "Malformed header",
			secret:         testSecret,
			header:         "Token abc",
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "Valid token",
			secret: testSecret,
			header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"sub": userID.String(),
				"exp": future,
			}),
			expectedStatus: fiber.StatusOK,
			expectedBody:   userID.String(),
		},
		{
			name:   "Wrong secret",
			secret: testSecret,
			header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{
				"sub": userID.String(),
				"exp": future,
			}),
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "Expired token",
			secret: testSecret,
			header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"sub": userID.String(),
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "Missing expiry",
			secret: testSecret,
			header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"sub": userID.String(),
			}),
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "Subject is not a uuid",
			secret: testSecret,
			header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"sub": "alice",
				"exp": future,
			}),
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "Other signing method",
			secret: testSecret,
			header: "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{
				"sub": userID.String(),
				"exp": future,
			}),
			expectedStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := authApp(tt.secret).Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedBody != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.expectedBody, string(body))
			}
		})
	}
}

func TestTraceID(t *testing.T) {
	m := New(config.Config{})
	app := fiber.New()
	app.Use(m.TraceID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetTraceID(c))
	})

	t.Run("Reuses incoming header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(TraceIDHeader, "trace-123")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "trace-123", string(body))
		assert.Equal(t, "trace-123", resp.Header.Get(TraceIDHeader))
	})

	t.Run("Generates one when absent", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		_, err = uuid.Parse(resp.Header.Get(TraceIDHeader))
		assert.NoError(t, err)
	})
}
