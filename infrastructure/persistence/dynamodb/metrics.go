package dynamodb

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// storeRetries counts throttle and unprocessed-item retries per operation.
// Sustained growth means the table is underprovisioned for cascade cleanups.
var storeRetries = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "user_mgmt",
		Subsystem: "authz_store",
		Name:      "retries_total",
		Help:      "Store-level retries by operation.",
	},
	[]string{"operation"},
)
