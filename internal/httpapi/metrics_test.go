package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mlactions/internal/pipeline"
	"mlactions/pkg/types"
)

func TestMetrics_RunOutcomesLabelledByRouteAndStatus(t *testing.T) {
	svc := &mockService{runResp: types.Response{Body: "ok"}}
	h := NewMux(svc)
	okRuns := httpRequestsTotal.WithLabelValues("/actions/{name}/run", http.MethodPost, "200")
	downRuns := httpRequestsTotal.WithLabelValues("/actions/{name}/run", http.MethodPost, "503")
	okBefore, downBefore := testutil.ToFloat64(okRuns), testutil.ToFloat64(downRuns)
	inflightBefore := testutil.ToFloat64(httpInflight)

	if rr := postJSON(h, "/actions/sentiment/run", `{"input":"good"}`); rr.Code != http.StatusOK {
		t.Fatalf("run status=%d", rr.Code)
	}
	svc.runErr = pipeline.ErrDependencyUnavailable("model loading: distilbert")
	if rr := postJSON(h, "/actions/mistral/run", `{"input":"hi"}`); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("run status=%d", rr.Code)
	}

	if got := testutil.ToFloat64(okRuns) - okBefore; got != 1 {
		t.Fatalf("200 runs delta=%v", got)
	}
	if got := testutil.ToFloat64(downRuns) - downBefore; got != 1 {
		t.Fatalf("503 runs delta=%v", got)
	}
	if got := testutil.ToFloat64(httpInflight); got != inflightBefore {
		t.Fatalf("inflight=%v want %v", got, inflightBefore)
	}
}

func TestMetrics_RejectedSetupBodyCounted(t *testing.T) {
	h := NewMux(&mockService{})
	rejected := rejectedTotal.WithLabelValues("invalid_body")
	before := testutil.ToFloat64(rejected)
	if rr := postJSON(h, "/actions/mistral/setup", `{"args":`); rr.Code != http.StatusBadRequest {
		t.Fatalf("setup status=%d", rr.Code)
	}
	if got := testutil.ToFloat64(rejected) - before; got != 1 {
		t.Fatalf("rejected delta=%v", got)
	}
}

func TestMetrics_ExposedOnMetricsRoute(t *testing.T) {
	h := NewMux(&mockService{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	mrr := httptest.NewRecorder()
	h.ServeHTTP(mrr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mrr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", mrr.Code)
	}
	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "mlactions_http_requests_total")
	if err != nil || n == 0 {
		t.Fatalf("series=%d err=%v", n, err)
	}
}
