package gateway_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolasdeu/Tact/internal/adapters/metrics"
)

// gatewayOps returns the value of tact_gateway_operations_total for op and outcome.
func gatewayOps(t *testing.T, m *metrics.Metrics, op, outcome string) float64 {
	t.Helper()
	mfs, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "tact_gateway_operations_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["op"] == op && labels["outcome"] == outcome {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}
