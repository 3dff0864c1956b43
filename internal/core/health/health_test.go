package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLiveness_Handler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	Liveness()(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
	ct := rr.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content-type=%q want text/plain", ct)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "ok" {
		t.Fatalf("body=%q want ok", got)
	}
}

type fakeReporter struct {
	ready   bool
	records int
}

func (f fakeReporter) Readiness() (bool, int) { return f.ready, f.records }

func TestReadiness_Handler(t *testing.T) {
	cases := []struct {
		name       string
		reporter   fakeReporter
		wantStatus int
		wantState  string
	}{
		{"ready", fakeReporter{ready: true, records: 42}, http.StatusOK, "ready"},
		{"not ready", fakeReporter{}, http.StatusServiceUnavailable, "not_ready"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Readiness(tc.reporter)(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rr.Code != tc.wantStatus {
				t.Fatalf("status=%d want %d", rr.Code, tc.wantStatus)
			}
			var out struct {
				Status  string `json:"status"`
				Records int    `json:"records"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Status != tc.wantState {
				t.Fatalf("status=%q want %q", out.Status, tc.wantState)
			}
			if tc.reporter.ready && out.Records != tc.reporter.records {
				t.Fatalf("records=%d want %d", out.Records, tc.reporter.records)
			}
		})
	}
}
