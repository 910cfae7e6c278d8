package parse

import (
	"errors"
	"testing"
)

func TestParseAurRPCResponseMissingResultsFails(t *testing.T) {
	_, err := ParseAurRPCResponse([]byte(`{"version":5,"type":"search","resultcount":0}`))
	if !errors.Is(err, ErrMissingResults) {
		t.Fatalf("expected ErrMissingResults, got %v", err)
	}
}

func TestParseAurRPCResponseEmptyResultsSucceeds(t *testing.T) {
	resp, err := ParseAurRPCResponse([]byte(`{"version":5,"type":"search","resultcount":0,"results":[]}`))
	if err != nil {
		t.Fatalf("ParseAurRPCResponse: %v", err)
	}
	if resp.Results != nil && len(resp.Results) != 0 {
		t.Errorf("Results = %+v, want empty", resp.Results)
	}
}

func TestParseAurRPCResponseNullResultsSucceeds(t *testing.T) {
	resp, err := ParseAurRPCResponse([]byte(`{"version":5,"type":"search","resultcount":0,"results":null}`))
	if err != nil {
		t.Fatalf("ParseAurRPCResponse: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("Results = %+v, want empty", resp.Results)
	}
}

func TestParseAurRPCResponseErrorTypeSkipsMissingResultsCheck(t *testing.T) {
	resp, err := ParseAurRPCResponse([]byte(`{"version":5,"type":"error","error":"Too many package results."}`))
	if err != nil {
		t.Fatalf("ParseAurRPCResponse: %v", err)
	}
	if resp.Error != "Too many package results." {
		t.Errorf("Error = %q", resp.Error)
	}
}
