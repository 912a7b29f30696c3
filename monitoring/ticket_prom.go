// Copyright 2025 NTT Communications Corporation.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var TicketAcknowledgedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "threatconnectome_ticket_acknowledged_amount",
	Help: "The total number of tickets acknowledged",
})

var TicketScheduledAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "threatconnectome_ticket_scheduled_amount",
	Help: "The total number of tickets scheduled",
})

var TicketCompletedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "threatconnectome_ticket_completed_amount",
	Help: "The total number of tickets completed manually",
})

var TicketReopenedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "threatconnectome_ticket_reopened_amount",
	Help: "The total number of tickets reopened by re-detection",
})

var TicketWriteConflictAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "threatconnectome_ticket_write_conflict_amount",
	Help: "The total number of rejected optimistic-lock ticket writes",
})
