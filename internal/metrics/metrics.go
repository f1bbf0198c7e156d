package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WriteErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "campus", Name: "write_errors_total",
		Help: "Failed store mutations, constraint violations included",
	})
	LiveSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "campus", Name: "live_subscribers",
		Help: "Open live-query subscriptions",
	})
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "campus", Name: "sessions_active",
		Help: "Live login sessions",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "campus", Name: "db_ping_seconds",
		Help:    "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(WriteErrors, LiveSubscribers, SessionsActive, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
