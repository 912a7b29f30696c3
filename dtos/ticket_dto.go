package dtos

import (
	"time"

	"github.com/google/uuid"
)

// SystemUserID is the reserved account recorded as the author of
// automatic transitions (auto-close).
const SystemUserID = "system"

type TicketStatus string

const (
	TicketStatusAlerted      TicketStatus = "alerted"
	TicketStatusAcknowledged TicketStatus = "acknowledged"
	TicketStatusScheduled    TicketStatus = "scheduled"
	TicketStatusCompleted    TicketStatus = "completed"
)

type TicketEventType string

const (
	// Manual events (require user interaction)
	EventTypeAcknowledged TicketEventType = "acknowledged"
	EventTypeScheduled    TicketEventType = "scheduled"
	EventTypeCompleted    TicketEventType = "completed"

	// Automated events (triggered by the server)
	EventTypeAutoCompleted TicketEventType = "autoCompleted"
	EventTypeReopened      TicketEventType = "reopened"
)

type AutoCloseDecision string

const (
	AutoCloseEligible      AutoCloseDecision = "eligible"
	AutoCloseNotEligible   AutoCloseDecision = "notEligible"
	AutoCloseIndeterminate AutoCloseDecision = "indeterminate"
)

// AutoCloseVerdict is the aggregate decision over all actions bound to a
// ticket. Reason is only set for NotEligible and Indeterminate.
type AutoCloseVerdict struct {
	Decision AutoCloseDecision `json:"decision"`
	Reason   string            `json:"reason,omitempty"`
}

func VerdictEligible() AutoCloseVerdict {
	return AutoCloseVerdict{Decision: AutoCloseEligible}
}

func VerdictNotEligible(reason string) AutoCloseVerdict {
	return AutoCloseVerdict{Decision: AutoCloseNotEligible, Reason: reason}
}

func VerdictIndeterminate(reason string) AutoCloseVerdict {
	return AutoCloseVerdict{Decision: AutoCloseIndeterminate, Reason: reason}
}

// StatusTransition is the proposal the engine hands to the persistence layer.
// It never writes state itself.
type StatusTransition struct {
	From          TicketStatus `json:"from"`
	To            TicketStatus `json:"to"`
	Justification string       `json:"justification"`
}

type TicketEventDTO struct {
	ID         uuid.UUID       `json:"id"`
	Type       TicketEventType `json:"type"`
	TicketID   string          `json:"ticket_id"`
	FromStatus TicketStatus    `json:"from_status"`
	ToStatus   TicketStatus    `json:"to_status"`
	UserID     string          `json:"user_id"`
	Note       *string         `json:"note,omitempty"`
	LoggingIDs []string        `json:"logging_ids"`
	CreatedAt  time.Time       `json:"created_at"`
}

type TicketDTO struct {
	ID          string       `json:"ticket_id"`
	TopicID     uuid.UUID    `json:"topic_id"`
	TagID       uuid.UUID    `json:"tag_id"`
	ServiceID   uuid.UUID    `json:"service_id"`
	TopicStatus TicketStatus `json:"topic_status"`
	ScheduledAt *time.Time   `json:"scheduled_at,omitempty"`
	Assignees   []string     `json:"assignees"`
	LoggingIDs  []string     `json:"logging_ids"`
	Note        *string      `json:"note,omitempty"`
	UserID      string       `json:"user_id"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type AcknowledgeTicketDTO struct {
	Assignees []string `json:"assignees"`
}

type ScheduleTicketDTO struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Assignees   []string  `json:"assignees"`
	Note        *string   `json:"note"`
}

type CompleteTicketDTO struct {
	LoggingIDs []string `json:"logging_ids"`
	Note       *string  `json:"note"`
}
