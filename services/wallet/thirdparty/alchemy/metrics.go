package alchemy

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	requestStatusOK            = "ok"
	requestStatusNetworkError  = "network_error"
	requestStatusInvalidJSON   = "invalid_json"
	requestStatusConfiguration = "config_error"
)

var (
	providerRequestsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nftstory_provider_requests_total",
		Help: "Requests sent to the collectibles provider, by chain and outcome",
	}, []string{"provider", "chain", "status"})

	spamFilteredCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nftstory_spam_filtered_total",
		Help: "Provider records dropped by the spam classifier, by chain and matching rule",
	}, []string{"chain", "reason"})
)

func init() {
	prometheus.MustRegister(providerRequestsCounter)
	prometheus.MustRegister(spamFilteredCounter)
}
