package dtos

import "github.com/google/uuid"

type TagDTO struct {
	ID         uuid.UUID  `json:"tag_id"`
	Name       string     `json:"tag_name"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	ParentName *string    `json:"parent_name,omitempty"`
}

type ReferenceDTO struct {
	ID      uuid.UUID `json:"reference_id"`
	TagID   uuid.UUID `json:"tag_id"`
	Target  string    `json:"target"`
	Version string    `json:"version"`
	Group   string    `json:"group"`
}
