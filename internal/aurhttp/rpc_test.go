package aurhttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func withRPCBaseURL(t *testing.T, url string) {
	t.Helper()
	original := rpcBaseURL
	rpcBaseURL = url
	t.Cleanup(func() { rpcBaseURL = original })
}

func TestSearchParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version":5,"type":"search","resultcount":1,"results":[{"Name":"yay","Version":"1.0-1"}]}`))
	}))
	defer srv.Close()
	withRPCBaseURL(t, srv.URL+"/rpc/")

	c := New()
	resp, err := c.Search(context.Background(), "yay")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Name != "yay" {
		t.Errorf("Results = %+v", resp.Results)
	}
}

func TestInfoSurfacesAurErrorType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version":5,"type":"error","error":"Too many package results."}`))
	}))
	defer srv.Close()
	withRPCBaseURL(t, srv.URL+"/rpc/")

	c := New()
	resp, err := c.Info(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if resp.Type != "error" || resp.Error == "" {
		t.Errorf("expected error envelope to pass through, got %+v", resp)
	}
}
