package metrics

import "github.com/prometheus/client_golang/prometheus"

// OTPMetrics counts forgot-password passcode activity.
type OTPMetrics struct {
	issued      prometheus.Counter
	rateLimited prometheus.Counter
	verify      *prometheus.CounterVec
}

// NewOTPMetrics registers the passcode counters on reg. A nil registerer
// yields a no-op recorder.
func NewOTPMetrics(reg prometheus.Registerer) *OTPMetrics {
	if reg == nil {
		return &OTPMetrics{}
	}
	issued := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Passcodes generated and stored.",
	})
	rateLimited := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_rate_limited_total",
		Help:      "Passcode requests refused by the resend cooldown.",
	})
	verify := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verify_total",
		Help:      "Passcode verification attempts by result.",
	}, []string{"result"})
	reg.MustRegister(issued, rateLimited, verify)
	return &OTPMetrics{issued: issued, rateLimited: rateLimited, verify: verify}
}

func (o *OTPMetrics) IncIssued() {
	if o == nil || o.issued == nil {
		return
	}
	o.issued.Inc()
}

func (o *OTPMetrics) IncRateLimited() {
	if o == nil || o.rateLimited == nil {
		return
	}
	o.rateLimited.Inc()
}

// ObserveVerify records a verification outcome.
func (o *OTPMetrics) ObserveVerify(ok bool) {
	if o == nil || o.verify == nil {
		return
	}
	result := "invalid"
	if ok {
		result = "valid"
	}
	o.verify.WithLabelValues(result).Inc()
}
