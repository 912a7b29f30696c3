package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nttcom/threatconnectome-sub000/dtos"
	"github.com/nttcom/threatconnectome-sub000/utils"
)

// Ticket is the mutable remediation record for a (topic, tag, service)
// triple. It is created implicitly on first alert and never hard-deleted -
// status history lives in append-only TicketEvent rows.
type Ticket struct {
	// deterministic hash of the identifying triple, set in BeforeSave
	ID uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`

	TopicID   uuid.UUID `json:"topicId" gorm:"type:uuid;not null;index"`
	TagID     uuid.UUID `json:"tagId" gorm:"type:uuid;not null;index"`
	ServiceID uuid.UUID `json:"serviceId" gorm:"type:uuid;not null;index"`

	TopicStatus dtos.TicketStatus `json:"topicStatus" gorm:"type:text;not null;default:'alerted'"`
	ScheduledAt *time.Time        `json:"scheduledAt" gorm:"default:null"`
	Assignees   []string          `json:"assignees" gorm:"type:jsonb;default:'[]';serializer:json"`
	LoggingIDs  []string          `json:"loggingIds" gorm:"type:jsonb;default:'[]';serializer:json"`
	Note        *string           `json:"note" gorm:"type:text;default:null"`
	UserID      string            `json:"userId" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt doubles as the optimistic concurrency token: a transition
	// write must supply the value it read.
	UpdatedAt time.Time `json:"updatedAt"`

	Events []TicketEvent `json:"events" gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
}

func (t Ticket) TableName() string {
	return "tickets"
}

// CalculateID derives the primary key from the identifying triple, so that
// re-detection of the same (topic, tag, service) converges on one row.
func (t *Ticket) CalculateID() uuid.UUID {
	hash := utils.HashString(fmt.Sprintf("%s/%s/%s", t.TopicID, t.TagID, t.ServiceID))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(hash))
}

func (t *Ticket) BeforeSave(tx *gorm.DB) (err error) {
	t.ID = t.CalculateID()
	return nil
}

func (t Ticket) Completed() bool {
	return t.TopicStatus == dtos.TicketStatusCompleted
}

func (t Ticket) ToDTO() dtos.TicketDTO {
	return dtos.TicketDTO{
		ID:          t.ID.String(),
		TopicID:     t.TopicID,
		TagID:       t.TagID,
		ServiceID:   t.ServiceID,
		TopicStatus: t.TopicStatus,
		ScheduledAt: t.ScheduledAt,
		Assignees:   t.Assignees,
		LoggingIDs:  t.LoggingIDs,
		Note:        t.Note,
		UserID:      t.UserID,
		UpdatedAt:   t.UpdatedAt,
	}
}
