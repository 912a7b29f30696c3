// Copyright (C) 2025 NTT Communications Corporation
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package statemachine

import (
	"fmt"
	"time"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/dtos"
)

// InvalidTransitionError rejects a transition the table does not allow.
type InvalidTransitionError struct {
	From dtos.TicketStatus
	To   dtos.TicketStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid ticket status transition %s -> %s", e.From, e.To)
}

// ScheduleInPastError rejects a scheduled transition whose date is not in the
// future at the time of the transition.
type ScheduleInPastError struct {
	ScheduledAt time.Time
}

func (e *ScheduleInPastError) Error() string {
	return fmt.Sprintf("scheduled_at %s is not in the future", e.ScheduledAt.Format(time.RFC3339))
}

// allowedTransitions is the lifecycle contract. completed -> alerted is the
// external re-detection path; everything else is manual or auto-close.
var allowedTransitions = map[dtos.TicketStatus][]dtos.TicketStatus{
	dtos.TicketStatusAlerted:      {dtos.TicketStatusAcknowledged, dtos.TicketStatusScheduled, dtos.TicketStatusCompleted},
	dtos.TicketStatusAcknowledged: {dtos.TicketStatusScheduled, dtos.TicketStatusCompleted},
	dtos.TicketStatusScheduled:    {dtos.TicketStatusAcknowledged, dtos.TicketStatusCompleted},
	dtos.TicketStatusCompleted:    {dtos.TicketStatusAlerted},
}

func CanTransition(from, to dtos.TicketStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// NewTransition validates a proposed status change against the table and
// returns the transition proposal handed to the persistence layer.
func NewTransition(from, to dtos.TicketStatus, justification string) (dtos.StatusTransition, error) {
	if !CanTransition(from, to) {
		return dtos.StatusTransition{}, &InvalidTransitionError{From: from, To: to}
	}
	return dtos.StatusTransition{From: from, To: to, Justification: justification}, nil
}

// ValidateSchedule checks the scheduled transition precondition: the date has
// to be in the future at the time of the transition.
func ValidateSchedule(scheduledAt time.Time, now time.Time) error {
	if !scheduledAt.After(now) {
		return &ScheduleInPastError{ScheduledAt: scheduledAt}
	}
	return nil
}

// Apply advances a ticket according to an event. Events are append-only; this
// is the single place ticket state is derived from them, both when applying a
// fresh transition and when replaying history. Applying a completion to an
// already completed ticket is a no-op, which is what makes auto-close
// idempotent.
func Apply(ticket *models.Ticket, event models.TicketEvent) {
	switch event.Type {
	case dtos.EventTypeAcknowledged:
		ticket.TopicStatus = dtos.TicketStatusAcknowledged
		// leaving scheduled before the date clears it
		ticket.ScheduledAt = nil
	case dtos.EventTypeScheduled:
		ticket.TopicStatus = dtos.TicketStatusScheduled
		ticket.ScheduledAt = event.ScheduledAt
	case dtos.EventTypeCompleted, dtos.EventTypeAutoCompleted:
		if ticket.Completed() {
			return
		}
		ticket.TopicStatus = dtos.TicketStatusCompleted
		ticket.ScheduledAt = nil
		// both completion paths clear assignees and record the action logs
		// that justified the completion (empty for the automatic path)
		ticket.Assignees = []string{}
		ticket.LoggingIDs = append(ticket.LoggingIDs, event.LoggingIDs...)
		ticket.Note = event.Note
	case dtos.EventTypeReopened:
		// re-detection always applies, even on a completed ticket
		ticket.TopicStatus = dtos.TicketStatusAlerted
		ticket.ScheduledAt = nil
		ticket.Note = nil
	}
	ticket.UserID = event.UserID
}

// EventTypeForTransition maps a validated transition to the event type that
// records it.
func EventTypeForTransition(to dtos.TicketStatus, userID string) (dtos.TicketEventType, error) {
	switch to {
	case dtos.TicketStatusAcknowledged:
		return dtos.EventTypeAcknowledged, nil
	case dtos.TicketStatusScheduled:
		return dtos.EventTypeScheduled, nil
	case dtos.TicketStatusCompleted:
		if userID == dtos.SystemUserID {
			return dtos.EventTypeAutoCompleted, nil
		}
		return dtos.EventTypeCompleted, nil
	case dtos.TicketStatusAlerted:
		return dtos.EventTypeReopened, nil
	default:
		return "", fmt.Errorf("status %s does not map to an event type", to)
	}
}
