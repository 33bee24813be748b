package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serenityops/internal/adapter/repository"
	"serenityops/internal/domain"
	"serenityops/internal/model"
	"serenityops/pkg/template"
)

const orchestratorTemplatesYAML = `
templates:
  classic:
    name: "Classic"
    sections: [personal, summary, experience]
`

func newTestEngine(t *testing.T) *template.Engine {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates.yaml"), []byte(orchestratorTemplatesYAML), 0o644))
	engine, err := template.NewEngine(dir)
	require.NoError(t, err)
	return engine
}

// fakeRenderer satisfies PDFRenderer without a browser.
type fakeRenderer struct {
	availableErr error
	renderErr    error

	mu       sync.Mutex
	lastHTML string
	lastPath string
	lastOpts domain.RenderOptions
}

func (f *fakeRenderer) Available(ctx context.Context) error { return f.availableErr }

func (f *fakeRenderer) RenderToFile(ctx context.Context, html, outputPath string, opts domain.RenderOptions) (int64, error) {
	f.mu.Lock()
	f.lastHTML, f.lastPath, f.lastOpts = html, outputPath, opts
	f.mu.Unlock()
	if f.renderErr != nil {
		return 0, f.renderErr
	}
	if err := os.WriteFile(outputPath, []byte("%PDF-fake"), 0o644); err != nil {
		return 0, err
	}
	return int64(len("%PDF-fake")), nil
}

// progressRecorder wraps a JobStore and records every progress checkpoint.
type progressRecorder struct {
	JobStore

	mu       sync.Mutex
	progress []int
}

func (r *progressRecorder) Update(ctx context.Context, id string, upd domain.JobUpdate) (*domain.CVJob, error) {
	job, err := r.JobStore.Update(ctx, id, upd)
	if err == nil {
		r.mu.Lock()
		r.progress = append(r.progress, job.Progress)
		r.mu.Unlock()
	}
	return job, err
}

func newOrchestratorFixture(t *testing.T, renderer PDFRenderer) (*Orchestrator, *progressRecorder, string) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	fileStore, err := repository.NewFileJobStore(t.TempDir(), log)
	require.NoError(t, err)
	store := &progressRecorder{JobStore: fileStore}

	outputDir := t.TempDir()
	orch, err := NewOrchestrator(store, newTestEngine(t), renderer, outputDir, log)
	require.NoError(t, err)
	return orch, store, outputDir
}

func testRequest() GenerateRequest {
	return GenerateRequest{
		Opportunity: "Backend Role",
		TemplateID:  "classic",
		Document: &model.CVDocument{
			Personal: model.Personal{FullName: "Jane Doe"},
			Summary:  "Builds things.",
		},
	}
}

func TestRunSuccess(t *testing.T) {
	renderer := &fakeRenderer{}
	orch, store, outputDir := newOrchestratorFixture(t, renderer)
	ctx := context.Background()

	job, err := store.Create(ctx, "Backend Role", "")
	require.NoError(t, err)

	orch.Run(ctx, job.ID, testRequest())

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, "Completed", got.Stage)
	assert.Empty(t, got.ErrorMessage)

	require.NotEmpty(t, got.OutputPath)
	assert.Equal(t, outputDir, filepath.Dir(got.OutputPath))
	name := filepath.Base(got.OutputPath)
	assert.True(t, strings.HasPrefix(name, "cv_backend_role_"), name)
	assert.True(t, strings.HasSuffix(name, ".pdf"), name)
	_, err = os.Stat(got.OutputPath)
	assert.NoError(t, err)

	assert.Contains(t, renderer.lastHTML, "Jane Doe")

	// Checkpoints arrive in order and never decrease.
	store.mu.Lock()
	progress := append([]int(nil), store.progress...)
	store.mu.Unlock()
	assert.Equal(t, []int{10, 40, 80, 100}, progress)
}

func TestRunRendererFailure(t *testing.T) {
	renderer := &fakeRenderer{renderErr: errors.New("browser crashed")}
	orch, store, _ := newOrchestratorFixture(t, renderer)
	ctx := context.Background()

	job, err := store.Create(ctx, "Backend Role", "")
	require.NoError(t, err)

	orch.Run(ctx, job.ID, testRequest())

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, got.Status)
	assert.Equal(t, "Failed", got.Stage)
	assert.Contains(t, got.ErrorMessage, "PDF conversion failed")
	assert.Contains(t, got.ErrorMessage, "browser crashed")
	assert.Empty(t, got.OutputPath)
	assert.Equal(t, 40, got.Progress)
}

func TestRunTemplateFailure(t *testing.T) {
	orch, store, _ := newOrchestratorFixture(t, &fakeRenderer{})
	ctx := context.Background()

	job, err := store.Create(ctx, "Backend Role", "")
	require.NoError(t, err)

	req := testRequest()
	req.TemplateID = "missing"
	orch.Run(ctx, job.ID, req)

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, got.Status)
	assert.Contains(t, got.ErrorMessage, "HTML synthesis failed")
}

func TestRunRecordsFailureOnceTerminal(t *testing.T) {
	renderer := &fakeRenderer{renderErr: errors.New("boom")}
	orch, store, _ := newOrchestratorFixture(t, renderer)
	ctx := context.Background()

	job, err := store.Create(ctx, "Backend Role", "")
	require.NoError(t, err)
	orch.Run(ctx, job.ID, testRequest())

	before, err := store.Get(ctx, job.ID)
	require.NoError(t, err)

	// A stray second run cannot resurrect a terminal record.
	renderer.renderErr = nil
	orch.Run(ctx, job.ID, testRequest())

	after, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, after.Status)
	assert.Equal(t, before.ErrorMessage, after.ErrorMessage)
}

func TestSweeperDeletesExpiredJobs(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := repository.NewFileJobStore(t.TempDir(), log)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err = store.Create(ctx, "fresh", "")
	require.NoError(t, err)

	sweeper := NewSweeper(store, time.Nanosecond, time.Hour, log)
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	// The initial sweep runs before the ticker; poll for its effect.
	require.Eventually(t, func() bool {
		jobs, err := store.List(ctx, "", 0)
		return err == nil && len(jobs) == 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
