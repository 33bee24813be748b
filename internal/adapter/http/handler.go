package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"serenityops/internal/domain"
	"serenityops/internal/model"
	"serenityops/internal/usecase"
	"serenityops/pkg/template"
)

// Handler exposes the CV generation API over fiber. Submission is
// non-blocking: every synchronous precondition is checked before a job record
// exists, and the actual generation runs in a detached goroutine the caller
// polls for.
type Handler struct {
	store          usecase.JobStore
	orchestrator   *usecase.Orchestrator
	engine         *template.Engine
	renderer       usecase.PDFRenderer
	validator      *model.Validator
	outputDir      string
	curriculumPath string
	log            *slog.Logger
}

func NewHandler(
	store usecase.JobStore,
	orchestrator *usecase.Orchestrator,
	engine *template.Engine,
	renderer usecase.PDFRenderer,
	validator *model.Validator,
	outputDir, curriculumPath string,
	log *slog.Logger,
) *Handler {
	return &Handler{
		store:          store,
		orchestrator:   orchestrator,
		engine:         engine,
		renderer:       renderer,
		validator:      validator,
		outputDir:      outputDir,
		curriculumPath: curriculumPath,
		log:            log,
	}
}

// Register mounts all routes on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)

	api := app.Group("/api/cv")
	api.Post("/generate-pdf", h.GeneratePDF)
	api.Get("/status/:id", h.JobStatus)
	api.Get("/jobs", h.ListJobs)
	api.Get("/templates", h.ListTemplates)
	api.Get("/download/:filename", h.Download)
	api.Delete("/:filename", h.Delete)
}

type generateRequest struct {
	Opportunity string               `json:"opportunity"`
	UserID      string               `json:"user_id"`
	TemplateID  string               `json:"template_id"`
	CustomCSS   string               `json:"custom_css"`
	Options     domain.RenderOptions `json:"options"`
	CVData      json.RawMessage      `json:"cv_data"`
}

// GeneratePDF accepts a generation request, validates every synchronous
// precondition, then creates a queued job and returns 202 immediately.
// Precondition order is fixed: template existence, custom CSS safety,
// renderer availability, payload validity. A request that fails any of them
// creates no job record at all.
func (h *Handler) GeneratePDF(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Opportunity == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "opportunity is required"})
	}
	if req.TemplateID == "" {
		req.TemplateID = "classic"
	}
	if err := req.Options.Normalize(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if _, err := h.engine.Config(req.TemplateID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	if req.CustomCSS != "" {
		if _, err := template.SanitizeCustomCSS(req.CustomCSS); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	if err := h.renderer.Available(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}

	doc, err := h.resolveDocument(req.CVData)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	job, err := h.store.Create(c.Context(), req.Opportunity, req.UserID)
	if err != nil {
		h.log.Error("failed to create job", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create job"})
	}

	// Detached from the request context on purpose: the caller disconnects
	// after submission and the run must outlive it.
	go h.orchestrator.Run(context.Background(), job.ID, usecase.GenerateRequest{
		Opportunity: req.Opportunity,
		TemplateID:  req.TemplateID,
		CustomCSS:   req.CustomCSS,
		Options:     req.Options,
		Document:    doc,
	})

	return c.Status(fiber.StatusAccepted).JSON(job)
}

// resolveDocument validates inline cv_data when present, otherwise falls back
// to the configured curriculum file.
func (h *Handler) resolveDocument(raw json.RawMessage) (*model.CVDocument, error) {
	if len(raw) > 0 && string(raw) != "null" {
		return h.validator.ValidateRaw(raw)
	}
	return model.LoadCurriculum(h.curriculumPath)
}

// JobStatus reports the polled state of one job. On success the response also
// carries the download URL, filename and size of the generated file.
func (h *Handler) JobStatus(c *fiber.Ctx) error {
	job, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
		}
		h.log.Error("failed to load job", "job_id", c.Params("id"), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load job"})
	}

	resp := fiber.Map{
		"id":         job.ID,
		"status":     job.Status,
		"progress":   job.Progress,
		"stage":      job.Stage,
		"created_at": job.CreatedAt,
		"updated_at": job.UpdatedAt,
	}
	if job.ErrorMessage != "" {
		resp["error"] = job.ErrorMessage
	}
	if job.Status == domain.StatusSuccess && job.OutputPath != "" {
		name := filepath.Base(job.OutputPath)
		resp["filename"] = name
		resp["download_url"] = "/api/cv/download/" + name
		if fi, err := os.Stat(job.OutputPath); err == nil {
			resp["size"] = fi.Size()
		}
	}
	return c.JSON(resp)
}

// ListJobs returns recent jobs, most recently updated first.
func (h *Handler) ListJobs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	jobs, err := h.store.List(c.Context(), c.Query("user_id"), limit)
	if err != nil {
		h.log.Error("failed to list jobs", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list jobs"})
	}
	return c.JSON(fiber.Map{"jobs": jobs, "count": len(jobs)})
}

// ListTemplates returns the template catalog.
func (h *Handler) ListTemplates(c *fiber.Ctx) error {
	templates := h.engine.ListTemplates()
	return c.JSON(fiber.Map{"templates": templates, "count": len(templates)})
}

// Download streams a generated PDF by filename.
func (h *Handler) Download(c *fiber.Ctx) error {
	path, ok := h.safeOutputPath(c.Params("filename"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid filename"})
	}
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.SendFile(path)
}

// Delete removes a generated PDF by filename.
func (h *Handler) Delete(c *fiber.Ctx) error {
	path, ok := h.safeOutputPath(c.Params("filename"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid filename"})
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
		}
		h.log.Error("failed to delete file", "path", path, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete file"})
	}
	return c.JSON(fiber.Map{"deleted": true, "filename": filepath.Base(path)})
}

// safeOutputPath resolves a user-supplied filename inside the output
// directory, rejecting traversal attempts and non-PDF names.
func (h *Handler) safeOutputPath(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, "/\\") {
		return "", false
	}
	if name == "." || name == ".." || !strings.HasSuffix(name, ".pdf") {
		return "", false
	}
	return filepath.Join(h.outputDir, name), true
}

// Health reports liveness and whether the PDF renderer dependency is present.
func (h *Handler) Health(c *fiber.Ctx) error {
	rendererOK := h.renderer.Available(c.Context()) == nil
	return c.JSON(fiber.Map{
		"status":        "ok",
		"pdf_available": rendererOK,
	})
}
