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
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/database/repositories"
	"github.com/nttcom/threatconnectome-sub000/dtos"
	"github.com/nttcom/threatconnectome-sub000/monitoring"
	"github.com/nttcom/threatconnectome-sub000/shared"
	"github.com/nttcom/threatconnectome-sub000/statemachine"
)

// transitionRetries bounds the optimistic-lock retry loop. The ticket is
// re-read on every attempt, so the loop always operates on fresh data.
const transitionRetries = 3

type ticketService struct {
	ticketRepository      shared.TicketRepository
	ticketEventRepository shared.TicketEventRepository
}

func NewTicketService(ticketRepository shared.TicketRepository, ticketEventRepository shared.TicketEventRepository) *ticketService {
	return &ticketService{
		ticketRepository:      ticketRepository,
		ticketEventRepository: ticketEventRepository,
	}
}

func (s *ticketService) AcknowledgeTicket(ticketID uuid.UUID, userID string, assignees []string) (models.Ticket, error) {
	result, err := s.transition(ticketID, dtos.TicketStatusAcknowledged, func(ticket *models.Ticket, event *models.TicketEvent) error {
		if assignees != nil {
			ticket.Assignees = assignees
		}
		return nil
	}, userID, models.TicketEvent{})
	if err != nil {
		return result, err
	}
	monitoring.TicketAcknowledgedAmount.Inc()
	return result, nil
}

func (s *ticketService) ScheduleTicket(ticketID uuid.UUID, userID string, scheduledAt time.Time, assignees []string, note *string) (models.Ticket, error) {
	if err := statemachine.ValidateSchedule(scheduledAt, time.Now()); err != nil {
		return models.Ticket{}, err
	}
	result, err := s.transition(ticketID, dtos.TicketStatusScheduled, func(ticket *models.Ticket, event *models.TicketEvent) error {
		if assignees != nil {
			ticket.Assignees = assignees
		}
		ticket.Note = note
		return nil
	}, userID, models.TicketEvent{ScheduledAt: &scheduledAt, Note: note})
	if err != nil {
		return result, err
	}
	monitoring.TicketScheduledAmount.Inc()
	return result, nil
}

// CompleteTicket closes a ticket, either manually (the user attaches the
// logging ids of the actions they performed) or automatically when called
// with the reserved system account. Completing an already completed ticket is
// a no-op, not an error.
func (s *ticketService) CompleteTicket(ticketID uuid.UUID, userID string, loggingIDs []string, note *string) (models.Ticket, error) {
	ticket, err := s.ticketRepository.Read(ticketID)
	if err != nil {
		return models.Ticket{}, errors.Wrap(err, "could not read ticket")
	}
	if ticket.Completed() {
		return ticket, nil
	}

	result, err := s.transition(ticketID, dtos.TicketStatusCompleted, func(ticket *models.Ticket, event *models.TicketEvent) error {
		event.LoggingIDs = loggingIDs
		event.Note = note
		return nil
	}, userID, models.TicketEvent{LoggingIDs: loggingIDs, Note: note})
	if err != nil {
		return result, err
	}

	if userID != dtos.SystemUserID {
		monitoring.TicketCompletedAmount.Inc()
	}
	return result, nil
}

// ReopenTicket is the external re-detection path: a new reference re-introduced
// an applicable vulnerable range, so the detection pipeline alerts again. The
// pipeline calls this unconditionally for every re-detection, so a ticket that
// is still open is a no-op, not an error.
func (s *ticketService) ReopenTicket(ticketID uuid.UUID) (models.Ticket, error) {
	ticket, err := s.ticketRepository.Read(ticketID)
	if err != nil {
		return models.Ticket{}, errors.Wrap(err, "could not read ticket")
	}
	if !ticket.Completed() {
		return ticket, nil
	}

	result, err := s.transition(ticketID, dtos.TicketStatusAlerted, nil, dtos.SystemUserID, models.TicketEvent{})
	if err != nil {
		return result, err
	}
	monitoring.TicketReopenedAmount.Inc()
	return result, nil
}

// transition runs the read-validate-apply-write sequence under optimistic
// concurrency. A rejected write means the row moved underneath us; the whole
// sequence restarts on fresh data, bounded by transitionRetries.
func (s *ticketService) transition(ticketID uuid.UUID, to dtos.TicketStatus, mutate func(*models.Ticket, *models.TicketEvent) error, userID string, eventTemplate models.TicketEvent) (models.Ticket, error) {
	var lastErr error
	for attempt := 0; attempt < transitionRetries; attempt++ {
		ticket, err := s.ticketRepository.Read(ticketID)
		if err != nil {
			return models.Ticket{}, errors.Wrap(err, "could not read ticket")
		}
		readUpdatedAt := ticket.UpdatedAt

		// completion races: someone else completed the ticket while we were
		// retrying - idempotent, nothing left to do
		if to == dtos.TicketStatusCompleted && ticket.Completed() {
			return ticket, nil
		}

		if _, err := statemachine.NewTransition(ticket.TopicStatus, to, ""); err != nil {
			return models.Ticket{}, err
		}

		eventType, err := statemachine.EventTypeForTransition(to, userID)
		if err != nil {
			return models.Ticket{}, err
		}

		event := eventTemplate
		event.Type = eventType
		event.TicketID = ticket.ID
		event.FromStatus = ticket.TopicStatus
		event.ToStatus = to
		event.UserID = userID

		if mutate != nil {
			if err := mutate(&ticket, &event); err != nil {
				return models.Ticket{}, err
			}
		}

		statemachine.Apply(&ticket, event)

		err = s.ticketRepository.Transaction(func(tx shared.DB) error {
			if err := s.ticketRepository.UpdateGuarded(tx, &ticket, readUpdatedAt); err != nil {
				return err
			}
			// status history is append-only: every transition is a new record
			return s.ticketEventRepository.Create(tx, &event)
		})
		if err == nil {
			return ticket, nil
		}
		if !errors.Is(err, repositories.ErrConcurrentModification) {
			return models.Ticket{}, err
		}

		monitoring.TicketWriteConflictAmount.Inc()
		lastErr = err
	}

	return models.Ticket{}, errors.Wrap(lastErr, "ticket transition kept conflicting, try again")
}
