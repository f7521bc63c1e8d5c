// Package validation binds request bodies and queries to DTOs and checks
// them before the handler runs.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validatable is implemented by DTOs with checks beyond struct tags.
type Validatable interface {
	Validate() error
}

// DecorateWithBodyEx parses the JSON body into a new T and validates it.
func DecorateWithBodyEx[T any](v *validator.Validate, next func(c *fiber.Ctx, req *T) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(T)
		if err := c.BodyParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("failed to parse request body: %s", err))
		}

		if err := validate(v, req); err != nil {
			return err
		}

		return next(c, req)
	}
}

// DecorateWithQueryEx parses the query string into a new T and validates it.
func DecorateWithQueryEx[T any](v *validator.Validate, next func(c *fiber.Ctx, req *T) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(T)
		if err := c.QueryParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("failed to parse query: %s", err))
		}

		if err := validate(v, req); err != nil {
			return err
		}

		return next(c, req)
	}
}

func validate(v *validator.Validate, req any) error {
	if err := v.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if val, ok := req.(Validatable); ok {
		if err := val.Validate(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	return nil
}
