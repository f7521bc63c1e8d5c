package openapifx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cvsbridge/cvsbridge/pkg/openapifx"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
	"go.uber.org/zap/zaptest"
)

func TestNew_OverridesAddress(t *testing.T) {
	spec := &swag.Spec{Host: "localhost:3000", BasePath: "/api/v1"}

	openapifx.New(openapifx.Config{PublicHost: "cvs.example.com", PublicPath: "/cvs/api/v1"}, spec, zaptest.NewLogger(t))

	assert.Equal(t, "cvs.example.com", spec.Host)
	assert.Equal(t, "/cvs/api/v1", spec.BasePath)
}

func TestRegister_Disabled(t *testing.T) {
	spec := &swag.Spec{Host: "localhost:3000", BasePath: "/api/v1"}
	h := openapifx.New(openapifx.Config{Enabled: false}, spec, zaptest.NewLogger(t))

	app := fiber.New()
	h.Register(app.Group("/docs"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "localhost:3000", spec.Host)
}
