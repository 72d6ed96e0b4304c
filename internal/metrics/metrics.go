package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// counters recorded by the payment and webhook paths
type Collector struct {
	webhookEvents  *prometheus.CounterVec
	paymentIntents *prometheus.CounterVec
	rateLimited    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
}

// creates a collector and registers its metrics with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codewithacp_webhook_events_total",
			Help: "Stripe webhook events by type and outcome",
		}, []string{"type", "outcome"}),
		paymentIntents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codewithacp_payment_intents_total",
			Help: "Payment intent creation attempts by result",
		}, []string{"result"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codewithacp_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}, []string{"scope"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codewithacp_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "codewithacp_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.webhookEvents,
		c.paymentIntents,
		c.rateLimited,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

func (c *Collector) WebhookEvent(eventType, outcome string) {
	c.webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// result is "created" or "failed"
func (c *Collector) PaymentIntent(result string) {
	c.paymentIntents.WithLabelValues(result).Inc()
}

func (c *Collector) RateLimited(scope string) {
	c.rateLimited.WithLabelValues(scope).Inc()
}

// records count and latency per matched route
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		c.httpRequests.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// returns the prometheus scrape handler
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
