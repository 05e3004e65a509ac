package integrity

import (
	"reconciler/core/logger"
	"reconciler/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.SchemaReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/staging", h.HandleStagingCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Schema, Staging). Nothing is fixed.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	if stagingReport, err := h.service.CheckStaging(c.UserContext()); err != nil {
		report["staging"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["staging"] = stagingReport
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks the database schema.
// @Summary Check Database Schema
// @Description Validates that the reconciliation tables expose the columns and types of their models.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Database schema does not match models", zap.Strings("errors", report.Errors))
	}
	return c.JSON(report)
}

// HandleStagingCheck checks and optionally fixes staged inputs.
// @Summary Check Staged Inputs
// @Description Finds staged inputs of completed or deleted jobs. Optionally removes them.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Remove orphaned inputs"
// @Success 200 {object} map[string]interface{} "Staging Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/staging [get]
func (h *Handler) HandleStagingCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckStaging(c.UserContext())
	if err != nil {
		l.Error("Staging check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(report.Orphaned) > 0 {
		l.Warn("Orphaned staged inputs detected", zap.Strings("orphaned", report.Orphaned))

		if fix {
			l.Info("Attempting to remove orphaned staged inputs")
			if err := h.service.FixStaging(c.UserContext(), report.Orphaned); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":    "Failed to remove staged inputs",
					"details":  err.Error(),
					"orphaned": report.Orphaned,
				})
			}
			return c.JSON(fiber.Map{
				"status":  "fixed",
				"removed": report.Orphaned,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":      "checked",
		"staged_jobs": report.StagedJobs,
		"orphaned":    report.Orphaned,
	})
}
