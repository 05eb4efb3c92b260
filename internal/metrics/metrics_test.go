package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveFetch(t *testing.T) {
	before := testutil.CollectAndCount(FetchDuration)
	ObserveFetch("unit-test", time.Now(), errors.New("boom"))
	ObserveFetch("unit-test", time.Now(), nil)
	assert.Equal(t, before+2, testutil.CollectAndCount(FetchDuration))
}

func TestHandlerExposesCounters(t *testing.T) {
	ReportsTotal.WithLabelValues("ok").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "sentinel_reports_total"))
}
