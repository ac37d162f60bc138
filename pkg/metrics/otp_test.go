package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestOTPMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOTPMetrics(reg)
	m.IncIssued()
	m.IncIssued()
	m.IncRateLimited()
	m.ObserveVerify(true)
	m.ObserveVerify(false)
	m.ObserveVerify(false)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	issued := findMetricFamily(mfs, "matmaster_otp_issued_total")
	if issued == nil || issued.GetMetric()[0].GetCounter().GetValue() != 2 {
		t.Fatalf("expected otp_issued_total=2")
	}
	limited := findMetricFamily(mfs, "matmaster_otp_rate_limited_total")
	if limited == nil || limited.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected otp_rate_limited_total=1")
	}
	if got, err := fetchCounterValue(mfs, "matmaster_otp_verify_total", "result", "invalid"); err != nil || got != 2 {
		t.Fatalf("expected invalid verifies=2, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "matmaster_otp_verify_total", "result", "valid"); err != nil || got != 1 {
		t.Fatalf("expected valid verifies=1, got %f err=%v", got, err)
	}
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/master", 200, 10*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "matmaster_http_requests_total", "route", "/api/master"); err != nil || got != 1 {
		t.Fatalf("expected one request, got %f err=%v", got, err)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	var otp *OTPMetrics
	otp.IncIssued()
	NewOTPMetrics(nil).ObserveVerify(true)
	NewHTTPMetrics(nil).Observe("GET", "", 500, time.Second)
	NewCronJobMetrics(nil).IncFailure("x")
}
