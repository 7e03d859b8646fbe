package middlewares

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET_KEY", "test-secret")
	os.Exit(m.Run())
}

func newAuthTestApp(required bool) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	var guard fiber.Handler
	if required {
		guard = RequireAuth()
	} else {
		guard = OptionalAuth()
	}
	app.Get("/whoami", guard, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": UserID(c)})
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	app := newAuthTestApp(true)

	validToken, err := GenerateJWT("user-123")
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + validToken, expectedStatus: http.StatusOK},
		{name: "missing header", authHeader: "", expectedStatus: http.StatusUnauthorized},
		{name: "invalid format", authHeader: "Invalid " + validToken, expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer invalid.token.string", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestOptionalAuthAnonymousPasses(t *testing.T) {
	app := newAuthTestApp(false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOptionalAuthIdentifiesUser(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/whoami", OptionalAuth(), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	token, err := GenerateJWT("user-456")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "user-456", string(body[:n]))
}
