package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCleanupLabel(t *testing.T) {
	assert.Equal(t, "client_and_aval", CleanupLabel(true, true))
	assert.Equal(t, "client", CleanupLabel(true, false))
	assert.Equal(t, "aval", CleanupLabel(false, true))
	assert.Equal(t, "none", CleanupLabel(false, false))
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(ContractsDeleted.WithLabelValues("none"))
	ContractsDeleted.WithLabelValues("none").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ContractsDeleted.WithLabelValues("none")))
}
