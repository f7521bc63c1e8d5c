package workspace

import (
	"errors"
	"fmt"

	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/cvsbridge/cvsbridge/internal/runs"
	"github.com/cvsbridge/cvsbridge/internal/server/validation"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	runsSvc *runs.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(runsSvc *runs.Service, validator *validator.Validate, logger *zap.Logger) handler.Handler {
	return &Handler{
		runsSvc: runsSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/workspace")

	r.Use(h.errorsHandler)
	r.Get("/changes", validation.DecorateWithQueryEx(h.validator, h.getChanges))
	r.Get("/session", h.getSession)
}

//	@Summary		Get changes of a working copy
//	@Description	Classifies the output of a dry-run update without recording a run
//	@Tags			workspace
//	@Produce		json
//	@Param			root		query		string	false	"Repository root"
//	@Param			work_dir	query		string	true	"Working copy"
//	@Success		200			{object}	ChangesResponse
//	@Failure		400			{object}	fiberfx.ErrorResponse
//	@Failure		502			{object}	fiberfx.ErrorResponse
//	@Router			/workspace/changes [get]
//
// Get changes of a working copy.
func (h *Handler) getChanges(c *fiber.Ctx, q *ChangesQuery) error {
	changes, err := h.runsSvc.Changes(c.UserContext(), cvs.Location{Root: q.Root, WorkDir: q.WorkDir})
	if err != nil {
		return fmt.Errorf("failed to collect changes: %w", err)
	}

	return c.JSON(ChangesResponse{
		Changeset: changes,
		Total:     changes.Len(),
		Summary:   changes.Render(),
	})
}

func (h *Handler) getSession(c *fiber.Ctx) error {
	return c.JSON(SessionResponse{LastComment: h.runsSvc.LastComment()})
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, cvs.ErrInvalidPath), errors.Is(err, cvs.ErrInvalidOperation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, cvs.ErrSpawn), errors.Is(err, cvs.ErrClientFailure):
		h.logger.Warn("client failed", zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
