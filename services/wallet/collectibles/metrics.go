package collectibles

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	pageStatusOK    = "ok"
	pageStatusError = "error"
	pageStatusStale = "stale"
)

var (
	pageFetchCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nftstory_page_fetches_total",
		Help: "Aggregated multi-chain page fetches by outcome",
	}, []string{"status"})

	duplicateIDsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nftstory_duplicate_ids_dropped_total",
		Help: "Collectibles dropped because their ID was already listed",
	})
)

func init() {
	prometheus.MustRegister(pageFetchCounter)
	prometheus.MustRegister(duplicateIDsCounter)
}
