package repositories

import (
	"github.com/google/uuid"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/shared"
)

type actionRepository struct {
	*GormRepository[uuid.UUID, models.Action]
	db shared.DB
}

func NewActionRepository(db shared.DB) *actionRepository {
	return &actionRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Action](db),
	}
}

func (r *actionRepository) GetByTopicID(topicID uuid.UUID) ([]models.Action, error) {
	var actions []models.Action
	err := r.db.Find(&actions, "topic_id = ?", topicID).Error
	return actions, err
}
