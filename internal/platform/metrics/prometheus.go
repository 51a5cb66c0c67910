package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds the service's Prometheus collectors. A nil
// *MetricsManager is valid and records nothing.
type MetricsManager struct {
	Registry              *prometheus.Registry
	SignupOTPTotal        *prometheus.CounterVec
	OTPVerificationsTotal *prometheus.CounterVec
	LoginsTotal           *prometheus.CounterVec
	PostsCreatedTotal     prometheus.Counter
	PostUpdatesTotal      prometheus.Counter
	PostDeletesTotal      prometheus.Counter
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestLatency    *prometheus.HistogramVec
}

func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	signupOTPTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signup_otp_requests_total",
		Help:      "Signup OTP requests by outcome.",
	}, []string{"result"})
	otpVerificationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verifications_total",
		Help:      "OTP verification attempts by outcome.",
	}, []string{"result"})
	loginsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts by outcome.",
	}, []string{"result"})
	postsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of blog posts created.",
	})
	postUpdatesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_updates_total",
		Help:      "Total number of blog posts updated.",
	})
	postDeletesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_deletes_total",
		Help:      "Total number of blog posts deleted.",
	})
	httpRequestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})
	httpRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	registry.MustRegister(
		signupOTPTotal,
		otpVerificationsTotal,
		loginsTotal,
		postsCreatedTotal,
		postUpdatesTotal,
		postDeletesTotal,
		httpRequestsTotal,
		httpRequestLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:              registry,
		SignupOTPTotal:        signupOTPTotal,
		OTPVerificationsTotal: otpVerificationsTotal,
		LoginsTotal:           loginsTotal,
		PostsCreatedTotal:     postsCreatedTotal,
		PostUpdatesTotal:      postUpdatesTotal,
		PostDeletesTotal:      postDeletesTotal,
		HTTPRequestsTotal:     httpRequestsTotal,
		HTTPRequestLatency:    httpRequestLatency,
	}
}

func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *MetricsManager) ObserveSignupOTP(result string) {
	if m == nil {
		return
	}
	m.SignupOTPTotal.WithLabelValues(result).Inc()
}

func (m *MetricsManager) ObserveOTPVerification(result string) {
	if m == nil {
		return
	}
	m.OTPVerificationsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsManager) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsManager) IncPostsCreated() {
	if m == nil {
		return
	}
	m.PostsCreatedTotal.Inc()
}

func (m *MetricsManager) IncPostUpdates() {
	if m == nil {
		return
	}
	m.PostUpdatesTotal.Inc()
}

func (m *MetricsManager) IncPostDeletes() {
	if m == nil {
		return
	}
	m.PostDeletesTotal.Inc()
}
