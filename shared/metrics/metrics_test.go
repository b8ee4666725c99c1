package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordEventPublished(t *testing.T) {
	before := testutil.ToFloat64(eventsPublished.WithLabelValues("user.created", "ok"))

	RecordEventPublished("user.created", "ok")
	RecordEventPublished("user.created", "ok")

	after := testutil.ToFloat64(eventsPublished.WithLabelValues("user.created", "ok"))
	assert.Equal(t, before+2, after)
}

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/users", "200"))

	RecordRequest("GET", "/users", 200, 15*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/users", "200")))
}
