package repositories

import (
	"github.com/google/uuid"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/shared"
)

type tagRepository struct {
	*GormRepository[uuid.UUID, models.Tag]
	db shared.DB
}

func NewTagRepository(db shared.DB) *tagRepository {
	return &tagRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Tag](db),
	}
}

func (r *tagRepository) FindByName(name string) (models.Tag, error) {
	var tag models.Tag
	err := r.db.First(&tag, "name = ?", name).Error
	return tag, err
}
