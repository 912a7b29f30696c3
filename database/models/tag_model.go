package models

import (
	"github.com/google/uuid"

	"github.com/nttcom/threatconnectome-sub000/dtos"
)

// Tag identifies a software component family, optionally specializing a
// broader parent tag (e.g. an ecosystem-qualified tag under a generic one).
// Actions scoped to the parent name apply to every specialization.
type Tag struct {
	Model
	Name       string     `json:"tagName" gorm:"type:text;not null;uniqueIndex"`
	ParentID   *uuid.UUID `json:"parentId" gorm:"type:uuid;default:null"`
	ParentName *string    `json:"parentName" gorm:"type:text;default:null"`

	References []Reference `json:"references" gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

func (t Tag) TableName() string {
	return "tags"
}

func (t Tag) ToDTO() dtos.TagDTO {
	return dtos.TagDTO{
		ID:         t.ID,
		Name:       t.Name,
		ParentID:   t.ParentID,
		ParentName: t.ParentName,
	}
}

// Reference is one observed occurrence of a tag in a deployed artifact. A tag
// may carry any number of references (multiple deployed versions of the same
// component).
type Reference struct {
	Model
	TagID   uuid.UUID `json:"tagId" gorm:"type:uuid;not null;index"`
	Target  string    `json:"target" gorm:"type:text;not null"`
	Version string    `json:"version" gorm:"type:text;not null"`
	Group   string    `json:"group" gorm:"type:text;column:ref_group"`
}

func (r Reference) TableName() string {
	return "references"
}

func (r Reference) ToDTO() dtos.ReferenceDTO {
	return dtos.ReferenceDTO{
		ID:      r.ID,
		TagID:   r.TagID,
		Target:  r.Target,
		Version: r.Version,
		Group:   r.Group,
	}
}
