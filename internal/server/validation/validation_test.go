package validation_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cvsbridge/cvsbridge/internal/server/validation"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type body struct {
	Name string `json:"name" validate:"required"`
	Mode string `json:"mode" validate:"omitempty,oneof=a b"`
}

func (b *body) Validate() error {
	if b.Name == "forbidden" {
		return errors.New("name is forbidden")
	}
	return nil
}

type query struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=10"`
}

func newApp() *fiber.App {
	v := validator.New()
	app := fiber.New()
	app.Post("/", validation.DecorateWithBodyEx(v, func(c *fiber.Ctx, req *body) error {
		return c.SendString(req.Name)
	}))
	app.Get("/", validation.DecorateWithQueryEx(v, func(c *fiber.Ctx, req *query) error {
		return c.JSON(req.Limit)
	}))
	return app
}

func TestDecorateWithBodyEx(t *testing.T) {
	app := newApp()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "valid", body: `{"name":"x","mode":"a"}`, status: fiber.StatusOK},
		{name: "malformed", body: `{"name":`, status: fiber.StatusBadRequest},
		{name: "missing field", body: `{"mode":"a"}`, status: fiber.StatusBadRequest},
		{name: "bad enum", body: `{"name":"x","mode":"c"}`, status: fiber.StatusBadRequest},
		{name: "custom check", body: `{"name":"forbidden"}`, status: fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestDecorateWithQueryEx(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/?limit=5", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "5", string(data))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/?limit=50", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
