// Copyright 2025 NTT Communications Corporation.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var AutoCloseBatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "threatconnectome_autoclose_batch_duration_seconds",
	Help:    "Duration of an auto-close batch run in seconds",
	Buckets: prometheus.DefBuckets,
})

var TicketAutoClosedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "threatconnectome_ticket_auto_closed_amount",
	Help: "The total number of tickets closed automatically",
})

var AutoCloseIndeterminateAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "threatconnectome_autoclose_indeterminate_amount",
	Help: "The total number of auto-close decisions requiring manual review",
})
