// Package metrics exposes Prometheus instrumentation for the long-running
// watch mode: API call outcomes and the current tenant status breakdown.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nuqta-dev/tenadmin/internal/subscription"
	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

var (
	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenadmin_api_requests_total",
		Help: "SaaS API requests by method and status code.",
	}, []string{"method", "status"})

	apiErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tenadmin_api_errors_total",
		Help: "SaaS API requests that failed (transport or non-2xx).",
	})

	tenantsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tenadmin_tenants",
		Help: "Tenants in the directory by derived subscription status.",
	}, []string{"status"})

	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenadmin_status_transitions_total",
		Help: "Observed subscription status transitions.",
	}, []string{"from", "to"})
)

// ObserveRequest records one completed API call. Wire it to the SaaS
// client's OnRequest hook.
func ObserveRequest(stat saas.RequestStat) {
	apiRequests.WithLabelValues(stat.Method, strconv.Itoa(stat.Status)).Inc()
	if stat.Err != nil {
		apiErrors.Inc()
	}
}

// SetTenantCounts replaces the status breakdown gauges.
func SetTenantCounts(counts map[subscription.Status]int) {
	for _, status := range []subscription.Status{
		subscription.StatusActive,
		subscription.StatusExpiring,
		subscription.StatusExpired,
	} {
		tenantsByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}

// ObserveTransition counts a tenant moving between status buckets.
func ObserveTransition(from, to subscription.Status) {
	statusTransitions.WithLabelValues(string(from), string(to)).Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
