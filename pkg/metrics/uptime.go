package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// startTime is taken when the process loads the package.
var startTime = time.Now()

// Uptime reports the process uptime in seconds.
var Uptime = promauto.NewGaugeFunc(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "uptime_seconds",
		Help:      "Seconds since the process started",
	},
	func() float64 { return time.Since(startTime).Seconds() },
)
