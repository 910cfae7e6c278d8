package deps

import (
	"context"
	"testing"
)

func TestNewReverseAnalyzerEmptyRootsProducesEmptyReport(t *testing.T) {
	a := NewReverseAnalyzer()
	report := a.Analyze(context.Background(), nil)
	if len(report.Dependencies) != 0 || len(report.Summaries) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}
