package repositories

import (
	"github.com/google/uuid"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/shared"
)

type referenceRepository struct {
	*GormRepository[uuid.UUID, models.Reference]
	db shared.DB
}

func NewReferenceRepository(db shared.DB) *referenceRepository {
	return &referenceRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Reference](db),
	}
}

func (r *referenceRepository) GetByTagID(tagID uuid.UUID) ([]models.Reference, error) {
	var references []models.Reference
	err := r.db.Find(&references, "tag_id = ?", tagID).Error
	return references, err
}
