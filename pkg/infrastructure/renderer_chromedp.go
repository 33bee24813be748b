package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"serenityops/internal/domain"
)

// ErrUnavailable signals that no usable headless browser was found. It is
// checked before a job is created, so a job is never queued when rendering
// cannot possibly succeed.
var ErrUnavailable = errors.New("pdf renderer unavailable: no usable browser binary found")

// Paper dimensions in inches per format.
var paperSizes = map[domain.PaperFormat][2]float64{
	domain.FormatA4:     {8.27, 11.69},
	domain.FormatLetter: {8.5, 11},
	domain.FormatLegal:  {8.5, 14},
}

// Margin presets in inches.
var marginSizes = map[domain.MarginPreset]float64{
	domain.MarginNone:   0,
	domain.MarginSmall:  0.4,
	domain.MarginMedium: 0.75,
	domain.MarginLarge:  1.0,
}

var browserCandidates = []string{
	"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell",
}

// ChromedpRenderer converts HTML to PDF with a headless browser.
type ChromedpRenderer struct {
	chromePath string
	timeout    time.Duration
}

func NewChromedpRenderer(chromePath string, timeout time.Duration) *ChromedpRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromedpRenderer{chromePath: chromePath, timeout: timeout}
}

// Available probes for a browser binary without launching one.
func (r *ChromedpRenderer) Available(ctx context.Context) error {
	if r.chromePath != "" {
		if _, err := os.Stat(r.chromePath); err != nil {
			return fmt.Errorf("%w: configured path %s: %v", ErrUnavailable, r.chromePath, err)
		}
		return nil
	}
	for _, name := range browserCandidates {
		if _, err := exec.LookPath(name); err == nil {
			return nil
		}
	}
	return ErrUnavailable
}

// RenderToFile renders html into a PDF at outputPath and returns its size.
// Timeouts, subprocess failures and empty output all surface as plain errors,
// distinct from Available's unavailability signal.
func (r *ChromedpRenderer) RenderToFile(ctx context.Context, html, outputPath string, opts domain.RenderOptions) (int64, error) {
	if err := opts.Normalize(); err != nil {
		return 0, err
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, r.timeout)
	defer cancelRun()

	// The browser loads the document from disk so relative resources resolve.
	tmpDir, err := os.MkdirTemp("", "cv-render-")
	if err != nil {
		return 0, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return 0, err
	}

	size := paperSizes[opts.Format]
	width, height := size[0], size[1]
	margin := marginSizes[opts.Margin]

	var pdfBuf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithLandscape(opts.Landscape).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("pdf conversion: %w", err)
	}

	if !strings.HasPrefix(string(pdfBuf), "%PDF") {
		return 0, fmt.Errorf("pdf conversion produced invalid output (len=%d)", len(pdfBuf))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(outputPath, pdfBuf, 0o644); err != nil {
		return 0, fmt.Errorf("write pdf %s: %w", outputPath, err)
	}
	return int64(len(pdfBuf)), nil
}
