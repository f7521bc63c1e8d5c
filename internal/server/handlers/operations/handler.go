package operations

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/cvsbridge/cvsbridge/internal/journal"
	"github.com/cvsbridge/cvsbridge/internal/runs"
	"github.com/cvsbridge/cvsbridge/internal/server/validation"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const defaultListLimit = 50

type Handler struct {
	runsSvc  *runs.Service
	resolver cvs.PathResolver

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	runsSvc *runs.Service,
	resolver cvs.PathResolver,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		runsSvc:  runsSvc,
		resolver: resolver,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/operations")

	r.Use(h.errorsHandler)
	r.Post("/add", validation.DecorateWithBodyEx(h.validator, h.postAdd))
	r.Post("/remove", validation.DecorateWithBodyEx(h.validator, h.postRemove))
	r.Post("/commit", validation.DecorateWithBodyEx(h.validator, h.postCommit))
	r.Post("/checkout", validation.DecorateWithBodyEx(h.validator, h.postCheckout))
	r.Post("/update", validation.DecorateWithBodyEx(h.validator, h.postUpdate))
	r.Post("/compare", validation.DecorateWithBodyEx(h.validator, h.postCompare))
	r.Post("/show-changes", validation.DecorateWithBodyEx(h.validator, h.postShowChanges))
	r.Post("/smart-commit", validation.DecorateWithBodyEx(h.validator, h.postSmartCommit))
	r.Get("/", validation.DecorateWithQueryEx(h.validator, h.list))
	r.Get("/:id", h.get)
	r.Delete("/:id", h.cancel)
}

//	@Summary		Add a file or directory
//	@Description	Schedules a text file, a binary file or a directory for addition
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddRequest	true	"Add request"
//	@Success		200		{object}	RunResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		409		{object}	fiberfx.ErrorResponse
//	@Router			/operations/add [post]
//
// Add a file or directory.
func (h *Handler) postAdd(c *fiber.Ctx, req *AddRequest) error {
	loc, path, err := h.resolve(req.location(), req.Path)
	if err != nil {
		return err
	}

	var op cvs.Operation
	switch req.Mode {
	case ModeBinary:
		op = cvs.AddBinary{Location: loc, Path: path}
	case ModeDir:
		op = cvs.AddDir{Location: loc, Path: path}
	default:
		op = cvs.AddText{Location: loc, Path: path}
	}

	return h.execute(c, op)
}

//	@Summary		Remove a file
//	@Description	Schedules a file that is already deleted locally for removal
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RemoveRequest	true	"Remove request"
//	@Success		200		{object}	RunResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		409		{object}	fiberfx.ErrorResponse
//	@Router			/operations/remove [post]
//
// Remove a file.
func (h *Handler) postRemove(c *fiber.Ctx, req *RemoveRequest) error {
	loc, path, err := h.resolve(req.location(), req.Path)
	if err != nil {
		return err
	}

	return h.execute(c, cvs.Remove{Location: loc, Path: path})
}

//	@Summary		Commit files
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CommitRequest	true	"Commit request"
//	@Success		200		{object}	RunResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		409		{object}	fiberfx.ErrorResponse
//	@Router			/operations/commit [post]
//
// Commit files.
func (h *Handler) postCommit(c *fiber.Ctx, req *CommitRequest) error {
	loc, paths, err := h.resolveAll(req.location(), req.Paths)
	if err != nil {
		return err
	}

	if len(paths) == 1 {
		return h.execute(c, cvs.CommitFile{Location: loc, Path: paths[0], Comment: req.Comment})
	}

	return h.execute(c, cvs.CommitPaths{Location: loc, Paths: paths, Comment: req.Comment})
}

//	@Summary		Check out a module
//	@Description	Starts a checkout in the background; poll the returned run for progress
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CheckoutRequest	true	"Checkout request"
//	@Success		202		{object}	RunResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		409		{object}	fiberfx.ErrorResponse
//	@Router			/operations/checkout [post]
//
// Check out a module.
func (h *Handler) postCheckout(c *fiber.Ctx, req *CheckoutRequest) error {
	return h.launch(c, cvs.Checkout{Location: req.location(), Module: req.Module, BranchTag: req.BranchTag})
}

//	@Summary		Update a working copy
//	@Description	Starts an update in the background, optionally to a branch or tag
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		UpdateRequest	true	"Update request"
//	@Success		202		{object}	RunResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		409		{object}	fiberfx.ErrorResponse
//	@Router			/operations/update [post]
//
// Update a working copy.
func (h *Handler) postUpdate(c *fiber.Ctx, req *UpdateRequest) error {
	loc := req.location()

	if req.BranchTag == "" {
		return h.launch(c, cvs.Update{Location: loc})
	}

	return h.launch(c, cvs.UpdateBranch{Location: loc, BranchTag: req.BranchTag})
}

//	@Summary		Compare a file with the repository
//	@Description	The response carries the rendered diff of the clean copy against the local file
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CompareRequest	true	"Compare request"
//	@Success		200		{object}	RunResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		409		{object}	fiberfx.ErrorResponse
//	@Router			/operations/compare [post]
//
// Compare a file with the repository.
func (h *Handler) postCompare(c *fiber.Ctx, req *CompareRequest) error {
	loc, path, err := h.resolve(req.location(), req.Path)
	if err != nil {
		return err
	}

	return h.execute(c, cvs.Compare{Location: loc, Path: path})
}

//	@Summary		Show changes of a working copy
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ShowChangesRequest	true	"Show changes request"
//	@Success		200		{object}	RunResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Router			/operations/show-changes [post]
//
// Show changes of a working copy.
func (h *Handler) postShowChanges(c *fiber.Ctx, req *ShowChangesRequest) error {
	return h.execute(c, cvs.ShowChanges{Location: req.location()})
}

//	@Summary		Add, remove and commit in one go
//	@Description	Empty selections take every reported change of their category
//	@Tags			operations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SmartCommitRequest	true	"Smart commit request"
//	@Success		200		{object}	RunResponse
//	@Failure		400		{object}	fiberfx.ErrorResponse
//	@Failure		409		{object}	fiberfx.ErrorResponse
//	@Router			/operations/smart-commit [post]
//
// Add, remove and commit in one go.
func (h *Handler) postSmartCommit(c *fiber.Ctx, req *SmartCommitRequest) error {
	op := cvs.SmartCommit{Location: req.location(), Comment: req.Comment}

	// every selection resolves against the same working copy
	var err error
	for _, sel := range []struct {
		dst *[]string
		src []string
	}{
		{dst: &op.Commit, src: req.Commit},
		{dst: &op.Add, src: req.Add},
		{dst: &op.AddBinary, src: req.AddBinary},
		{dst: &op.Remove, src: req.Remove},
	} {
		if op.Location, *sel.dst, err = h.resolveAll(op.Location, sel.src); err != nil {
			return err
		}
	}

	return h.execute(c, op)
}

//	@Summary		List runs
//	@Description	Newest first
//	@Tags			operations
//	@Produce		json
//	@Param			limit		query		int		false	"Maximum number of runs"
//	@Param			work_dir	query		string	false	"Only runs of this working copy"
//	@Success		200			{array}		RunResponse
//	@Failure		400			{object}	fiberfx.ErrorResponse
//	@Router			/operations [get]
//
// List runs.
func (h *Handler) list(c *fiber.Ctx, q *ListQuery) error {
	limit := lo.Ternary(q.Limit > 0, q.Limit, defaultListLimit)

	records, err := h.runsSvc.List(c.Context(), q.WorkDir, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	return c.JSON(lo.Map(records, func(r journal.Record, _ int) RunResponse {
		return newRunResponse(&r)
	}))
}

//	@Summary		Get a run
//	@Tags			operations
//	@Produce		json
//	@Param			id	path		string	true	"Run ID"
//	@Success		200	{object}	RunResponse
//	@Failure		404	{object}	fiberfx.ErrorResponse
//	@Router			/operations/{id} [get]
//
// Get a run.
func (h *Handler) get(c *fiber.Ctx) error {
	id, err := getRunID(c)
	if err != nil {
		return err
	}

	record, err := h.runsSvc.Get(c.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	return c.JSON(newRunResponse(record))
}

//	@Summary		Cancel a run
//	@Tags			operations
//	@Param			id	path	string	true	"Run ID"
//	@Success		202
//	@Failure		404	{object}	fiberfx.ErrorResponse
//	@Failure		409	{object}	fiberfx.ErrorResponse
//	@Router			/operations/{id} [delete]
//
// Cancel a run.
func (h *Handler) cancel(c *fiber.Ctx) error {
	id, err := getRunID(c)
	if err != nil {
		return err
	}

	if cancelErr := h.runsSvc.Cancel(c.Context(), id); cancelErr != nil {
		return fmt.Errorf("failed to cancel run: %w", cancelErr)
	}

	return c.SendStatus(fiber.StatusAccepted)
}

func (h *Handler) execute(c *fiber.Ctx, op cvs.Operation) error {
	record, err := h.runsSvc.Execute(c.UserContext(), op)
	if err != nil {
		return fmt.Errorf("failed to execute %s: %w", op.Kind(), err)
	}

	return c.JSON(newRunResponse(record))
}

func (h *Handler) launch(c *fiber.Ctx, op cvs.Operation) error {
	record, err := h.runsSvc.Launch(c.UserContext(), op)
	if err != nil {
		return fmt.Errorf("failed to launch %s: %w", op.Kind(), err)
	}

	return c.Status(fiber.StatusAccepted).JSON(newRunResponse(record))
}

// resolve turns an absolute path into one relative to the working copy,
// which is looked up from the path when the request leaves it empty.
func (h *Handler) resolve(loc cvs.Location, path string) (cvs.Location, string, error) {
	if path == "" || !filepath.IsAbs(path) {
		return loc, path, nil
	}

	if loc.WorkDir == "" {
		root, err := h.resolver.RootOf(path)
		if err != nil {
			return loc, "", err //nolint:wrapcheck //already wrapped
		}
		loc.WorkDir = root
	}

	rel, err := h.resolver.RelativeTo(path, loc.WorkDir)
	if err != nil {
		return loc, "", err //nolint:wrapcheck //already wrapped
	}

	return loc, rel, nil
}

// resolveAll resolves paths against one working copy; the first absolute
// path picks it when loc has none.
func (h *Handler) resolveAll(loc cvs.Location, paths []string) (cvs.Location, []string, error) {
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		next, rel, err := h.resolve(loc, p)
		if err != nil {
			return loc, nil, err
		}
		loc = next
		resolved = append(resolved, rel)
	}

	return loc, resolved, nil
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, runs.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, runs.ErrBusy), errors.Is(err, runs.ErrNotRunning):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, cvs.ErrInvalidPath), errors.Is(err, cvs.ErrInvalidOperation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}

func getRunID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.UUID{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return id, nil
}
