package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMintFailureMetricLabeledByPhase(t *testing.T) {
	m := Drop()
	m.ObserveMintFailure("public")
	m.ObserveMintFailure("public")
	m.ObserveMintFailure("presale")

	expected := `
# HELP drop_mint_failures_total Count of rejected mint requests by phase.
# TYPE drop_mint_failures_total counter
drop_mint_failures_total{phase="presale"} 1
drop_mint_failures_total{phase="public"} 2
`
	if err := testutil.CollectAndCompare(m.mintFailed, strings.NewReader(expected)); err != nil {
		t.Fatalf("mint failure metric: %v", err)
	}
}

func TestMintMetricCountsByPhase(t *testing.T) {
	m := Drop()
	m.ObserveMint("reserve", 4)
	if got := testutil.ToFloat64(m.mints.WithLabelValues("reserve")); got != 4 {
		t.Fatalf("reserve mint count = %v, want 4", got)
	}
}
