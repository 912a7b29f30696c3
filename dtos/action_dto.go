package dtos

import (
	"time"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionTypeElimination ActionType = "elimination"
	ActionTypeMitigation  ActionType = "mitigation"
	ActionTypeDetection   ActionType = "detection"
	ActionTypeTransfer    ActionType = "transfer"
	ActionTypeAcceptance  ActionType = "acceptance"
	ActionTypeRejection   ActionType = "rejection"
)

func (t ActionType) Valid() bool {
	switch t {
	case ActionTypeElimination, ActionTypeMitigation, ActionTypeDetection,
		ActionTypeTransfer, ActionTypeAcceptance, ActionTypeRejection:
		return true
	}
	return false
}

// ActionExtDTO carries the optional scoping of an action. An empty Tags slice
// means the action applies to every tag. VulnerableVersions maps a tag name to
// the raw range expressions authored for it.
type ActionExtDTO struct {
	Tags               []string            `json:"tags"`
	VulnerableVersions map[string][]string `json:"vulnerable_versions"`
}

type ActionDTO struct {
	ID          uuid.UUID    `json:"action_id"`
	TopicID     uuid.UUID    `json:"topic_id"`
	Type        ActionType   `json:"action_type" validate:"required"`
	Action      string       `json:"action" validate:"required"`
	Recommended bool         `json:"recommended"`
	Ext         ActionExtDTO `json:"ext"`
	CreatedAt   time.Time    `json:"created_at"`
}

type ActionCreateDTO struct {
	TopicID     uuid.UUID    `json:"topic_id" validate:"required"`
	Type        ActionType   `json:"action_type" validate:"required"`
	Action      string       `json:"action" validate:"required,max=1024"`
	Recommended bool         `json:"recommended"`
	Ext         ActionExtDTO `json:"ext"`
}
