package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nttcom/threatconnectome-sub000/dtos"
)

// TicketEvent is one entry of the append-only status history of a ticket.
// Transitions are never mutated in place - each write is a new record, which
// is what makes the audit trail reconstructable.
type TicketEvent struct {
	Model
	Type       dtos.TicketEventType `json:"type" gorm:"type:text;not null"`
	TicketID   uuid.UUID            `json:"ticketId" gorm:"type:uuid;not null;index"`
	FromStatus dtos.TicketStatus    `json:"fromStatus" gorm:"type:text;not null"`
	ToStatus   dtos.TicketStatus    `json:"toStatus" gorm:"type:text;not null"`
	UserID     string               `json:"userId" gorm:"type:text;not null"`

	Note        *string    `json:"note" gorm:"type:text;default:null"`
	LoggingIDs  []string   `json:"loggingIds" gorm:"type:jsonb;default:'[]';serializer:json"`
	ScheduledAt *time.Time `json:"scheduledAt" gorm:"default:null"`
}

func (e TicketEvent) TableName() string {
	return "ticket_events"
}

// Automatic reports whether the event was produced by the server rather than
// a user.
func (e TicketEvent) Automatic() bool {
	return e.UserID == dtos.SystemUserID
}

func (e TicketEvent) ToDTO() dtos.TicketEventDTO {
	return dtos.TicketEventDTO{
		ID:         e.ID,
		Type:       e.Type,
		TicketID:   e.TicketID.String(),
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
		UserID:     e.UserID,
		Note:       e.Note,
		LoggingIDs: e.LoggingIDs,
		CreatedAt:  e.CreatedAt,
	}
}
