package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, "success", Status(nil))
	assert.Equal(t, "error", Status(errors.New("boom")))
}

func TestOCCInvocationsCounter(t *testing.T) {
	c := OCCInvocationsTotal.WithLabelValues("test:command", "success")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestUptimeIsPositive(t *testing.T) {
	assert.GreaterOrEqual(t, testutil.ToFloat64(Uptime), 0.0)
}
