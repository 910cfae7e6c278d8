package aurhttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func withPkgbuildBaseURL(t *testing.T, url string) {
	t.Helper()
	original := pkgbuildBaseURL
	pkgbuildBaseURL = url
	t.Cleanup(func() { pkgbuildBaseURL = original })
}

func TestPkgbuildText404SurfacesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()
	withPkgbuildBaseURL(t, srv.URL+"/plain/PKGBUILD")

	c := New(WithRetryPolicy(RetryPolicy{}))
	_, err := c.PkgbuildText(context.Background(), "nonexistent-pkg")
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	se, ok := AsStatusError(err)
	if !ok {
		t.Fatalf("expected a *StatusError, got %T: %v", err, err)
	}
	if se.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want %d", se.StatusCode, http.StatusNotFound)
	}
}
