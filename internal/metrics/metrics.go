// Package metrics exposes Prometheus collectors for the image pipeline,
// the storage backends and the HTTP layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ModeSingle = "single"
	ModeBatch  = "batch"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// ImageUploadsTotal counts processed image files by upload mode and outcome.
	ImageUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishlog_image_uploads_total",
			Help: "Total number of processed image uploads",
		},
		[]string{"mode", "result"},
	)

	// ImageUploadBytes tracks the declared size of accepted uploads.
	ImageUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fishlog_image_upload_bytes",
			Help:    "Size of uploaded image payloads in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 7), // 16KB .. 64MB
		},
	)

	// StorageOperationsTotal counts object storage calls per backend.
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishlog_storage_operations_total",
			Help: "Total number of object storage operations",
		},
		[]string{"backend", "op", "result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishlog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fishlog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func resultLabel(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// RecordImageUpload records one processed file. size is only observed on success.
func RecordImageUpload(mode string, size int64, err error) {
	ImageUploadsTotal.WithLabelValues(mode, resultLabel(err)).Inc()
	if err == nil {
		ImageUploadBytes.Observe(float64(size))
	}
}

func RecordStorageOperation(backend, op string, err error) {
	StorageOperationsTotal.WithLabelValues(backend, op, resultLabel(err)).Inc()
}

func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
