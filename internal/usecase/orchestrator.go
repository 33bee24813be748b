package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"serenityops/internal/domain"
	"serenityops/internal/model"
	"serenityops/pkg/template"
)

// GenerateRequest is the validated input for one CV generation run. By the
// time an Orchestrator sees it, every synchronous precondition (template
// lookup, custom CSS sanitation, renderer availability, payload validation)
// has already passed.
type GenerateRequest struct {
	Opportunity string
	TemplateID  string
	CustomCSS   string
	Options     domain.RenderOptions
	Document    *model.CVDocument
}

// Orchestrator drives a job through queued -> running -> success|error,
// writing every stage boundary through the job store. Progress uses fixed
// checkpoints (10/40/80/100): the PDF conversion step is an opaque external
// call with no progress signal, so the contract stays honest instead of
// fabricating precision.
type Orchestrator struct {
	store     JobStore
	engine    *template.Engine
	renderer  PDFRenderer
	outputDir string
	log       *slog.Logger
}

func NewOrchestrator(store JobStore, engine *template.Engine, renderer PDFRenderer, outputDir string, log *slog.Logger) (*Orchestrator, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outputDir, err)
	}
	return &Orchestrator{
		store:     store,
		engine:    engine,
		renderer:  renderer,
		outputDir: outputDir,
		log:       log,
	}, nil
}

// Run executes one generation attempt to a terminal state. It holds only the
// job id and always writes through the store; it never caches a record across
// stages. Failures are recorded, never propagated: by the time a run fails
// there is no caller connected to report to. There is no retry — a new attempt
// means a new job.
func (o *Orchestrator) Run(ctx context.Context, jobID string, req GenerateRequest) {
	defer func() {
		if r := recover(); r != nil {
			o.fail(ctx, jobID, fmt.Sprintf("panic: %v\n%s", r, debug.Stack()))
		}
	}()

	log := o.log.With("job_id", jobID, "opportunity", req.Opportunity)
	log.Info("generation started", "template", req.TemplateID)

	if !o.advance(ctx, jobID, domain.JobUpdate{
		Status:   domain.StatusPtr(domain.StatusRunning),
		Stage:    domain.StrPtr("Compiling HTML..."),
		Progress: domain.IntPtr(10),
	}) {
		return
	}

	html, err := o.engine.RenderDocument(req.Document, req.TemplateID, req.CustomCSS)
	if err != nil {
		o.fail(ctx, jobID, fmt.Sprintf("HTML synthesis failed: %v", err))
		return
	}

	if !o.advance(ctx, jobID, domain.JobUpdate{
		Stage:    domain.StrPtr("Converting HTML to PDF"),
		Progress: domain.IntPtr(40),
	}) {
		return
	}

	outputPath := filepath.Join(o.outputDir, outputFilename(req.Opportunity))
	size, err := o.renderer.RenderToFile(ctx, html, outputPath, req.Options)
	if err != nil {
		o.fail(ctx, jobID, fmt.Sprintf("PDF conversion failed: %v", err))
		return
	}

	if !o.advance(ctx, jobID, domain.JobUpdate{
		Stage:    domain.StrPtr("Saving output and finalizing"),
		Progress: domain.IntPtr(80),
	}) {
		return
	}

	if _, err := o.store.Update(ctx, jobID, domain.JobUpdate{
		Status:     domain.StatusPtr(domain.StatusSuccess),
		Progress:   domain.IntPtr(100),
		Stage:      domain.StrPtr("Completed"),
		OutputPath: domain.StrPtr(outputPath),
	}); err != nil {
		log.Error("failed to record success", "error", err)
		return
	}
	log.Info("generation succeeded", "output_path", outputPath, "size", size)
}

// advance applies a mid-run stage update; returns false when the store write
// fails, which aborts the run (there is no record left to report through).
func (o *Orchestrator) advance(ctx context.Context, jobID string, upd domain.JobUpdate) bool {
	if _, err := o.store.Update(ctx, jobID, upd); err != nil {
		o.log.Error("failed to update job", "job_id", jobID, "error", err)
		return false
	}
	return true
}

// fail marks the job terminally failed, preserving the full diagnostic for
// operator inspection. Progress stays at the last recorded checkpoint.
func (o *Orchestrator) fail(ctx context.Context, jobID, detail string) {
	o.log.Error("generation failed", "job_id", jobID, "error", detail)
	if _, err := o.store.Update(ctx, jobID, domain.JobUpdate{
		Status:       domain.StatusPtr(domain.StatusError),
		Stage:        domain.StrPtr("Failed"),
		ErrorMessage: domain.StrPtr(detail),
	}); err != nil {
		o.log.Error("failed to record job failure", "job_id", jobID, "error", err)
	}
}

// outputFilename builds a timestamped name so re-running the same opportunity
// produces a new file rather than overwriting the previous attempt.
func outputFilename(opportunity string) string {
	ts := time.Now().Format("2006-01-02_150405")
	slug := slugify(opportunity)
	if slug == "" {
		return fmt.Sprintf("cv_%s.pdf", ts)
	}
	return fmt.Sprintf("cv_%s_%s.pdf", slug, ts)
}

func slugify(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
