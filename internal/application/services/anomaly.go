package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/domain/file"
	"file-storage-api/internal/infrastructure/metrics"
	"file-storage-api/internal/infrastructure/mq"
)

type AnomalyReporter struct {
	logger    *zap.Logger
	publisher ports.EventPublisher
	mCounter  *prometheus.CounterVec
}

func NewAnomalyReporter(
	logger *zap.Logger,
	publisher ports.EventPublisher,
	mCounter *prometheus.CounterVec,
) ports.AnomalyReporter {
	return &AnomalyReporter{
		logger:    logger,
		publisher: publisher,
		mCounter:  mCounter,
	}
}

// ReportOrphanedObject logs and counts o, then hands it to the sweeper queue.
func (ar *AnomalyReporter) ReportOrphanedObject(ctx context.Context, o file.OrphanedObject) {
	// alert
	ar.logger.Error("orphaned object",
		zap.String("bucket", o.Bucket),
		zap.String("storage_path", o.StoragePath),
		zap.String("file_id", o.FileID),
		zap.String("reason", o.Reason),
	)
	metrics.Inc(ar.mCounter, metrics.OrphanedObjects)

	if ar.publisher != nil {
		ar.publisher.Publish(context.WithoutCancel(ctx), mq.NewEvent(mq.ActionObjectOrphaned, "", o.FileID, o))
	}
}
