package usecase

import (
	"context"
	"time"

	"serenityops/internal/domain"
)

// JobStore is the durable persistence contract for job records. Updates are
// partial (nil fields untouched) and whole-record-atomic: concurrent readers
// never observe a half-written record.
type JobStore interface {
	Create(ctx context.Context, opportunity, userID string) (*domain.CVJob, error)
	Update(ctx context.Context, id string, upd domain.JobUpdate) (*domain.CVJob, error)
	Get(ctx context.Context, id string) (*domain.CVJob, error)
	List(ctx context.Context, userID string, limit int) ([]*domain.CVJob, error)
	CleanupOlderThan(ctx context.Context, maxAge time.Duration) (int, error)
}

// PDFRenderer converts HTML into a PDF file at outputPath, returning the
// file's byte size. Available reports whether the conversion dependency can
// possibly succeed, distinguishable from an execution failure.
type PDFRenderer interface {
	Available(ctx context.Context) error
	RenderToFile(ctx context.Context, html, outputPath string, opts domain.RenderOptions) (int64, error)
}
