package repositories

import (
	"github.com/google/uuid"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/shared"
)

type ticketEventRepository struct {
	*GormRepository[uuid.UUID, models.TicketEvent]
	db shared.DB
}

func NewTicketEventRepository(db shared.DB) *ticketEventRepository {
	return &ticketEventRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.TicketEvent](db),
	}
}

func (r *ticketEventRepository) GetByTicketID(ticketID uuid.UUID) ([]models.TicketEvent, error) {
	var events []models.TicketEvent
	err := r.db.Order("created_at ASC").Find(&events, "ticket_id = ?", ticketID).Error
	return events, err
}
