package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels of the general counter.
const (
	AppRequests        = "app_requests_total"
	BucketsEnsured     = "buckets_ensured_total"
	FilesUploaded      = "files_uploaded_total"
	FilesDeleted       = "files_deleted_total"
	FilesRenamed       = "files_renamed_total"
	DownloadURLsIssued = "download_urls_issued_total"
	AccessGranted      = "access_granted_total"
	AccessRevoked      = "access_revoked_total"
	OrphanedObjects    = "orphaned_objects_total"
	OrphansSwept       = "orphans_swept_total"
)

func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "filestorage",
			Name:      "general_counters",
		},
		[]string{"result"})
}

// Inc is a nil-safe increment, so collaborators can run without metrics in tests.
func Inc(c *prometheus.CounterVec, result string) {
	if c == nil {
		return
	}
	c.WithLabelValues(result).Inc()
}
