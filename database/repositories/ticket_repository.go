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

package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/dtos"
	"github.com/nttcom/threatconnectome-sub000/shared"
)

// ErrConcurrentModification signals that a guarded ticket write lost the
// optimistic concurrency race: the row moved since it was read. The caller
// re-reads and re-evaluates - the write is rejected, never silently merged.
var ErrConcurrentModification = errors.New("ticket was modified concurrently")

type ticketRepository struct {
	*GormRepository[uuid.UUID, models.Ticket]
	db shared.DB
}

func NewTicketRepository(db shared.DB) *ticketRepository {
	return &ticketRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Ticket](db),
	}
}

func (r *ticketRepository) GetByTagID(tagID uuid.UUID) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.Find(&tickets, "tag_id = ?", tagID).Error
	return tickets, err
}

func (r *ticketRepository) GetOpenByTagID(tagID uuid.UUID) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.Find(&tickets, "tag_id = ? AND topic_status <> ?", tagID, dtos.TicketStatusCompleted).Error
	return tickets, err
}

// UpdateGuarded performs the optimistic concurrency write: the update only
// applies while the stored updated_at still equals the value the caller read.
func (r *ticketRepository) UpdateGuarded(tx shared.DB, ticket *models.Ticket, readUpdatedAt time.Time) error {
	ticket.UpdatedAt = time.Now()

	// struct-based update so the jsonb serializers apply; Select forces the
	// zero-valued fields (cleared assignees, nil note) into the statement
	res := r.GetDB(tx).Model(&models.Ticket{}).
		Where("id = ? AND updated_at = ?", ticket.ID, readUpdatedAt).
		Select("topic_status", "scheduled_at", "assignees", "logging_ids", "note", "user_id", "updated_at").
		Updates(ticket)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentModification
	}
	return nil
}
