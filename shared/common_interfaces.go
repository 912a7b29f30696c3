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

package shared

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/dtos"
)

type TagRepository interface {
	All() ([]models.Tag, error)
	Read(id uuid.UUID) (models.Tag, error)
	FindByName(name string) (models.Tag, error)
	Save(tx DB, tag *models.Tag) error
}

type ReferenceRepository interface {
	GetByTagID(tagID uuid.UUID) ([]models.Reference, error)
	Save(tx DB, reference *models.Reference) error
	Delete(tx DB, id uuid.UUID) error
}

type ActionRepository interface {
	Read(id uuid.UUID) (models.Action, error)
	GetByTopicID(topicID uuid.UUID) ([]models.Action, error)
	Save(tx DB, action *models.Action) error
	Delete(tx DB, id uuid.UUID) error
}

type TicketRepository interface {
	Read(id uuid.UUID) (models.Ticket, error)
	GetByTagID(tagID uuid.UUID) ([]models.Ticket, error)
	GetOpenByTagID(tagID uuid.UUID) ([]models.Ticket, error)
	Save(tx DB, ticket *models.Ticket) error
	// UpdateGuarded writes the ticket only if the stored row still carries
	// readUpdatedAt as its optimistic concurrency token. Returns
	// repositories.ErrConcurrentModification when the row moved.
	UpdateGuarded(tx DB, ticket *models.Ticket, readUpdatedAt time.Time) error
	Transaction(fn func(tx DB) error) error
}

type TicketEventRepository interface {
	Create(tx DB, event *models.TicketEvent) error
	GetByTicketID(ticketID uuid.UUID) ([]models.TicketEvent, error)
}

type ApplicabilityService interface {
	IsActionRelevant(action models.Action, tagName string, parentTagName string, deployedVersion string) (bool, error)
	RelevantActions(actions []models.Action, tag models.Tag, deployedVersion string) ([]models.Action, error)
}

type AutoCloseService interface {
	DecideAutoClose(ticket models.Ticket, actions []models.Action, references []models.Reference) dtos.AutoCloseVerdict
	AutoCloseTicket(ticket models.Ticket) (dtos.AutoCloseVerdict, error)
	AutoCloseAllForTag(ctx context.Context, tagID uuid.UUID) (map[string]dtos.AutoCloseVerdict, error)
}

type TicketService interface {
	AcknowledgeTicket(ticketID uuid.UUID, userID string, assignees []string) (models.Ticket, error)
	ScheduleTicket(ticketID uuid.UUID, userID string, scheduledAt time.Time, assignees []string, note *string) (models.Ticket, error)
	CompleteTicket(ticketID uuid.UUID, userID string, loggingIDs []string, note *string) (models.Ticket, error)
	ReopenTicket(ticketID uuid.UUID) (models.Ticket, error)
}

type DaemonRunner interface {
	Start()
}

type ActionService interface {
	CreateAction(dto dtos.ActionCreateDTO, userID string) (models.Action, error)
	UpdateAction(id uuid.UUID, dto dtos.ActionCreateDTO) (models.Action, error)
	DeleteAction(id uuid.UUID) error
}
