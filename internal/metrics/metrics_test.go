package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordImageUpload(t *testing.T) {
	success := ImageUploadsTotal.WithLabelValues(ModeSingle, ResultSuccess)
	failure := ImageUploadsTotal.WithLabelValues(ModeBatch, ResultFailure)
	beforeSuccess := testutil.ToFloat64(success)
	beforeFailure := testutil.ToFloat64(failure)

	RecordImageUpload(ModeSingle, 2048, nil)
	RecordImageUpload(ModeBatch, 0, errors.New("boom"))

	assert.Equal(t, beforeSuccess+1, testutil.ToFloat64(success))
	assert.Equal(t, beforeFailure+1, testutil.ToFloat64(failure))
}

func TestRecordStorageOperation(t *testing.T) {
	counter := StorageOperationsTotal.WithLabelValues("s3", "delete", ResultFailure)
	before := testutil.ToFloat64(counter)

	RecordStorageOperation("s3", "delete", errors.New("access denied"))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordHTTPRequest(t *testing.T) {
	counter := HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/captures/:id", "200")
	before := testutil.ToFloat64(counter)

	RecordHTTPRequest("GET", "/api/v1/captures/:id", "200", 15*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration, "fishlog_http_request_duration_seconds"))
}
