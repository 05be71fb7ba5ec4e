// metrics/metrics.go
package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SubmissionsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_submissions_accepted_total",
		Help: "Submissions that passed validation and entered processing",
	}, []string{"broker", "type"})

	SubmissionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_submissions_rejected_total",
		Help: "Submit attempts rejected by form validation",
	}, []string{"broker", "type"})

	NotificationSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intake_notifications_sent_total",
		Help: "Telegram notifications delivered",
	})

	NotificationFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intake_notifications_failed_total",
		Help: "Telegram notifications that failed (logged, never surfaced)",
	})

	NotificationSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intake_notifications_skipped_total",
		Help: "Notifications skipped because the channel is not configured",
	})
)

// Serve exposes /metrics on its own listener so the intake surface stays
// clean. No-op when addr is empty.
func Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("📊 Metrics listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()
}
