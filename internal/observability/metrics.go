package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	packetsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metaclient",
			Subsystem: "bridge",
			Name:      "packets_received_total",
			Help:      "Control-channel datagrams by decode result.",
		},
		[]string{"result"},
	)
	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metaclient",
			Subsystem: "session",
			Name:      "logins_total",
			Help:      "Bootstrap attempts by outcome.",
		},
		[]string{"outcome"},
	)
	loginDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "metaclient",
			Subsystem: "session",
			Name:      "login_duration_seconds",
			Help:      "Wall-clock time of the remote authentication call.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
	mailboxMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metaclient",
			Subsystem: "mailbox",
			Name:      "messages_total",
			Help:      "Messages processed by the mailbox, by kind.",
		},
		[]string{"kind"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "metaclient",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Admin HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "metaclient",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			packetsReceived, loginAttempts, loginDuration,
			mailboxMessages, httpRequests, httpDuration,
		)
	})
}

func RecordPacket(result string) {
	RegisterMetrics()
	packetsReceived.WithLabelValues(result).Inc()
}

func RecordLogin(outcome string, duration time.Duration) {
	RegisterMetrics()
	loginAttempts.WithLabelValues(outcome).Inc()
	loginDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func RecordMailboxMessage(kind string) {
	RegisterMetrics()
	mailboxMessages.WithLabelValues(kind).Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
