package publish

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	publishAttempts = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "publish_runs_total",
		Help: "Number of publish runs triggered by the owner.",
	})

	settingsPromoted = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "publish_settings_promoted_total",
		Help: "Number of setting rows promoted from draft to live.",
	})

	blocksPromoted = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "publish_blocks_promoted_total",
		Help: "Number of blocks promoted from draft to published.",
	})
)
