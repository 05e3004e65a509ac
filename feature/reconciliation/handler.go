package reconciliation

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"reconciler/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reconciliation jobs and rulesets.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/reconcile", h.HandleReconcile)

	jobs := app.Group("/jobs")
	jobs.Get("/", h.HandleListJobs)
	jobs.Get("/:id", h.HandleGetJob)
	jobs.Get("/:id/results", h.HandleJobResults)

	app.Get("/queue", h.HandleQueueStatus)

	rulesets := app.Group("/rulesets")
	rulesets.Get("/", h.HandleListRulesets)
	rulesets.Post("/", h.HandleCreateRuleset)
	rulesets.Get("/:id", h.HandleGetRuleset)
	rulesets.Put("/:id", h.HandleReplaceRuleset)
	rulesets.Delete("/:id", h.HandleDeleteRuleset)
}

// respondError maps service errors to HTTP responses.
func (h *Handler) respondError(c *fiber.Ctx, l *zap.Logger, err error) error {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		body := fiber.Map{"error": reqErr.Message}
		if len(reqErr.Details) > 0 {
			body["details"] = reqErr.Details
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.Is(err, ErrJobNotFound), errors.Is(err, ErrRulesetNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrRulesetExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		l.Error("Request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

func readUpload(c *fiber.Ctx, field string) (*InputFile, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	return readFileHeader(fh)
}

func readFileHeader(fh *multipart.FileHeader) (*InputFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	return &InputFile{Name: fh.Filename, Content: content}, nil
}

// HandleReconcile accepts two datasets and queues a reconciliation job.
// @Summary Submit Reconciliation Job
// @Description Upload a source and a target file (CSV or XLSX) and a ruleset id. The headers are checked against the ruleset before the job is queued.
// @Tags reconciliation
// @Accept multipart/form-data
// @Produce json
// @Param source_file formData file true "Source dataset"
// @Param target_file formData file true "Target dataset"
// @Param ruleset_id formData string true "Ruleset ID"
// @Success 201 {object} SubmitResult "Job queued"
// @Failure 400 {object} map[string]string "Invalid files or ruleset"
// @Failure 500 {object} map[string]string "Job could not be queued"
// @Router /reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	source, srcErr := readUpload(c, "source_file")
	target, tgtErr := readUpload(c, "target_file")
	if srcErr != nil || tgtErr != nil {
		l.Warn("Reconciliation request missing files", zap.NamedError("source", srcErr), zap.NamedError("target", tgtErr))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "both source_file and target_file are required"})
	}

	l.Info("Reconciliation request received",
		zap.String("source", source.Name),
		zap.String("target", target.Name),
		zap.String("ruleset_id", c.FormValue("ruleset_id")))

	result, err := h.service.SubmitJob(c.Context(), c.FormValue("ruleset_id"), *source, *target)
	if err != nil {
		return h.respondError(c, l, err)
	}

	l.Info("Job queued", zap.String("job_id", result.JobID))
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleListJobs lists reconciliation jobs.
// @Summary List Jobs
// @Description List every reconciliation job, newest first.
// @Tags reconciliation
// @Produce json
// @Success 200 {array} JobView "Jobs"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /jobs [get]
func (h *Handler) HandleListJobs(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	jobs, err := h.service.ListJobs(c.Context())
	if err != nil {
		return h.respondError(c, l, err)
	}
	return c.JSON(jobs)
}

// HandleGetJob returns one job.
// @Summary Get Job
// @Description Get the status, counts and summary of a reconciliation job.
// @Tags reconciliation
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} JobView "Job"
// @Failure 404 {object} map[string]string "Job not found"
// @Router /jobs/{id} [get]
func (h *Handler) HandleGetJob(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	job, err := h.service.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return h.respondError(c, l, err)
	}
	return c.JSON(job)
}

// HandleJobResults returns paginated results of a job.
// @Summary Get Job Results
// @Description Get paginated reconciliation results of a job.
// @Tags reconciliation
// @Produce json
// @Param id path string true "Job ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Results per page (max 100)"
// @Param result_type query string false "Filter by result type (matched, unmatched_source, unmatched_target)"
// @Success 200 {object} ResultsPage "Results page"
// @Failure 404 {object} map[string]string "Job not found"
// @Router /jobs/{id}/results [get]
func (h *Handler) HandleJobResults(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	page, err := h.service.ListResults(c.Context(), c.Params("id"),
		c.QueryInt("page", 1), c.QueryInt("page_size", defaultPageSize), c.Query("result_type"))
	if err != nil {
		return h.respondError(c, l, err)
	}
	return c.JSON(page)
}

// HandleQueueStatus reports the job queue state.
// @Summary Queue Status
// @Description Get the queue size, its capacity and whether the processor runs.
// @Tags reconciliation
// @Produce json
// @Success 200 {object} QueueStatus "Queue status"
// @Router /queue [get]
func (h *Handler) HandleQueueStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.QueueStatus())
}

// HandleListRulesets lists rulesets.
// @Summary List Rulesets
// @Tags rulesets
// @Produce json
// @Success 200 {array} RulesetSummary "Rulesets"
// @Router /rulesets [get]
func (h *Handler) HandleListRulesets(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	list, err := h.service.ListRulesets(c.Context())
	if err != nil {
		return h.respondError(c, l, err)
	}
	return c.JSON(list)
}

// HandleCreateRuleset creates a ruleset.
// @Summary Create Ruleset
// @Description Create a ruleset with its field definitions.
// @Tags rulesets
// @Accept json
// @Produce json
// @Param ruleset body RulesetRequest true "Ruleset"
// @Success 201 {object} models.Ruleset "Ruleset created"
// @Failure 400 {object} map[string]interface{} "Invalid payload"
// @Failure 409 {object} map[string]string "Name already used"
// @Router /rulesets [post]
func (h *Handler) HandleCreateRuleset(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req RulesetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	rs, err := h.service.CreateRuleset(c.Context(), req)
	if err != nil {
		return h.respondError(c, l, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rs)
}

// HandleGetRuleset returns one ruleset.
// @Summary Get Ruleset
// @Description Get a ruleset including all field definitions.
// @Tags rulesets
// @Produce json
// @Param id path string true "Ruleset ID"
// @Success 200 {object} models.Ruleset "Ruleset"
// @Failure 404 {object} map[string]string "Ruleset not found"
// @Router /rulesets/{id} [get]
func (h *Handler) HandleGetRuleset(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	rs, err := h.service.GetRuleset(c.Context(), c.Params("id"))
	if err != nil {
		return h.respondError(c, l, err)
	}
	return c.JSON(rs)
}

// HandleReplaceRuleset replaces a ruleset and its fields.
// @Summary Replace Ruleset
// @Description Replace a ruleset. The field list in the payload replaces the stored one.
// @Tags rulesets
// @Accept json
// @Produce json
// @Param id path string true "Ruleset ID"
// @Param ruleset body RulesetRequest true "Ruleset"
// @Success 200 {object} models.Ruleset "Ruleset updated"
// @Failure 400 {object} map[string]interface{} "Invalid payload"
// @Failure 404 {object} map[string]string "Ruleset not found"
// @Router /rulesets/{id} [put]
func (h *Handler) HandleReplaceRuleset(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req RulesetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	rs, err := h.service.ReplaceRuleset(c.Context(), c.Params("id"), req)
	if err != nil {
		return h.respondError(c, l, err)
	}
	return c.JSON(rs)
}

// HandleDeleteRuleset deletes a ruleset.
// @Summary Delete Ruleset
// @Description Delete a ruleset and all its field definitions. Jobs that used it are kept.
// @Tags rulesets
// @Param id path string true "Ruleset ID"
// @Success 204 "Ruleset deleted"
// @Failure 404 {object} map[string]string "Ruleset not found"
// @Router /rulesets/{id} [delete]
func (h *Handler) HandleDeleteRuleset(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.DeleteRuleset(c.Context(), c.Params("id")); err != nil {
		return h.respondError(c, l, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
