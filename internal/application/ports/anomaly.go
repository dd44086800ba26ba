package ports

import (
	"context"

	"file-storage-api/internal/domain/file"
)

// AnomalyReporter records states the service cannot repair inline, for
// out-of-band reconciliation. It never fails the request that produced them.
type AnomalyReporter interface {
	ReportOrphanedObject(ctx context.Context, o file.OrphanedObject)
}
