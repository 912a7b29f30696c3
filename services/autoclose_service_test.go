package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/dtos"
)

type autoCloseFixture struct {
	tags       *fakeTagRepository
	references *fakeReferenceRepository
	actions    *fakeActionRepository
	tickets    *fakeTicketRepository
	events     *fakeTicketEventRepository

	service *autoCloseService
	ticket  models.Ticket
	tag     models.Tag
}

func newAutoCloseFixture(t *testing.T) *autoCloseFixture {
	t.Helper()

	tag := models.Tag{Name: "pkg:npm/lodash"}
	tag.ID = uuid.New()

	ticket := models.Ticket{
		TopicID:     uuid.New(),
		TagID:       tag.ID,
		ServiceID:   uuid.New(),
		TopicStatus: dtos.TicketStatusAlerted,
		UserID:      "user-1",
	}
	ticket.ID = ticket.CalculateID()

	f := &autoCloseFixture{
		tags:       newFakeTagRepository(tag),
		references: newFakeReferenceRepository(),
		actions:    newFakeActionRepository(),
		tickets:    newFakeTicketRepository(ticket),
		events:     newFakeTicketEventRepository(),
		tag:        tag,
	}
	ticketService := NewTicketService(f.tickets, f.events)
	f.service = NewAutoCloseService(f.tags, f.references, f.actions, f.tickets, ticketService)

	f.ticket, _ = f.tickets.Read(ticket.ID)
	return f
}

func (f *autoCloseFixture) addReference(version string) {
	ref := models.Reference{TagID: f.tag.ID, Target: "service-1", Version: version}
	ref.ID = uuid.New()
	_ = f.references.Save(nil, &ref)
}

func (f *autoCloseFixture) addAction(vulnerableRanges ...string) {
	action := newAction(models.ActionExt{
		Tags:               []string{f.tag.Name},
		VulnerableVersions: map[string][]string{f.tag.Name: vulnerableRanges},
	})
	action.TopicID = f.ticket.TopicID
	_ = f.actions.Save(nil, &action)
}

func TestDecideAutoClose(t *testing.T) {
	t.Run("no references means not eligible", func(t *testing.T) {
		f := newAutoCloseFixture(t)
		f.addAction("<1.0.0")
		actions, _ := f.actions.GetByTopicID(f.ticket.TopicID)

		verdict := f.service.DecideAutoClose(f.ticket, actions, nil)
		assert.Equal(t, dtos.AutoCloseNotEligible, verdict.Decision)
		assert.Equal(t, "no deployed version on record", verdict.Reason)
	})

	t.Run("every reference outside every range is eligible", func(t *testing.T) {
		f := newAutoCloseFixture(t)
		f.addAction("<2.0.0")
		f.addReference("2.1.0")
		f.addReference("3.0.0")
		actions, _ := f.actions.GetByTopicID(f.ticket.TopicID)
		references, _ := f.references.GetByTagID(f.tag.ID)

		verdict := f.service.DecideAutoClose(f.ticket, actions, references)
		assert.Equal(t, dtos.AutoCloseEligible, verdict.Decision)
	})

	t.Run("one matching reference keeps the ticket open", func(t *testing.T) {
		f := newAutoCloseFixture(t)
		f.addAction("<2.0.0")
		f.addReference("2.1.0")
		f.addReference("1.5.0")
		actions, _ := f.actions.GetByTopicID(f.ticket.TopicID)
		references, _ := f.references.GetByTagID(f.tag.ID)

		verdict := f.service.DecideAutoClose(f.ticket, actions, references)
		assert.Equal(t, dtos.AutoCloseNotEligible, verdict.Decision)
		assert.Equal(t, "still vulnerable", verdict.Reason)
	})

	t.Run("a reference without a version forces manual review", func(t *testing.T) {
		f := newAutoCloseFixture(t)
		f.addAction("<2.0.0")
		f.addReference("2.1.0")
		f.addReference("")
		actions, _ := f.actions.GetByTopicID(f.ticket.TopicID)
		references, _ := f.references.GetByTagID(f.tag.ID)

		verdict := f.service.DecideAutoClose(f.ticket, actions, references)
		assert.Equal(t, dtos.AutoCloseIndeterminate, verdict.Decision)
		assert.Equal(t, "manual review required", verdict.Reason)
	})

	t.Run("an incomparable pair dominates a non-matching one", func(t *testing.T) {
		f := newAutoCloseFixture(t)
		f.addAction(">=1.0.0-beta <1.0.0")
		f.addReference("1.0.0")
		actions, _ := f.actions.GetByTopicID(f.ticket.TopicID)
		references, _ := f.references.GetByTagID(f.tag.ID)

		verdict := f.service.DecideAutoClose(f.ticket, actions, references)
		assert.Equal(t, dtos.AutoCloseIndeterminate, verdict.Decision)
		assert.Equal(t, "manual review required", verdict.Reason)
	})

	t.Run("an incomparable pair dominates a matching one", func(t *testing.T) {
		f := newAutoCloseFixture(t)
		f.addAction("<2.0.0")
		f.addAction(">=1.0.0-beta")
		f.addReference("1.0.0")
		actions, _ := f.actions.GetByTopicID(f.ticket.TopicID)
		references, _ := f.references.GetByTagID(f.tag.ID)

		verdict := f.service.DecideAutoClose(f.ticket, actions, references)
		assert.Equal(t, dtos.AutoCloseIndeterminate, verdict.Decision)
	})

	t.Run("a version-agnostic action never blocks auto-close", func(t *testing.T) {
		f := newAutoCloseFixture(t)
		f.addAction()
		f.addReference("1.0.0")
		actions, _ := f.actions.GetByTopicID(f.ticket.TopicID)
		references, _ := f.references.GetByTagID(f.tag.ID)

		verdict := f.service.DecideAutoClose(f.ticket, actions, references)
		assert.Equal(t, dtos.AutoCloseEligible, verdict.Decision)
	})

	t.Run("a malformed range forces manual review", func(t *testing.T) {
		f := newAutoCloseFixture(t)
		f.addAction("oops 1.0")
		f.addReference("1.0.0")
		actions, _ := f.actions.GetByTopicID(f.ticket.TopicID)
		references, _ := f.references.GetByTagID(f.tag.ID)

		verdict := f.service.DecideAutoClose(f.ticket, actions, references)
		assert.Equal(t, dtos.AutoCloseIndeterminate, verdict.Decision)
	})

	t.Run("adding a matching reference never flips not eligible to eligible", func(t *testing.T) {
		f := newAutoCloseFixture(t)
		f.addAction("<2.0.0")
		f.addReference("1.5.0")
		actions, _ := f.actions.GetByTopicID(f.ticket.TopicID)
		references, _ := f.references.GetByTagID(f.tag.ID)

		verdict := f.service.DecideAutoClose(f.ticket, actions, references)
		assert.Equal(t, dtos.AutoCloseNotEligible, verdict.Decision)

		f.addReference("2.1.0")
		references, _ = f.references.GetByTagID(f.tag.ID)
		verdict = f.service.DecideAutoClose(f.ticket, actions, references)
		assert.Equal(t, dtos.AutoCloseNotEligible, verdict.Decision)
	})
}

func TestAutoCloseTicket(t *testing.T) {
	t.Run("an eligible ticket is completed as the system account", func(t *testing.T) {
		f := newAutoCloseFixture(t)
		f.addAction("<2.0.0")
		f.addReference("2.1.0")

		verdict, err := f.service.AutoCloseTicket(f.ticket)
		assert.NoError(t, err)
		assert.Equal(t, dtos.AutoCloseEligible, verdict.Decision)

		stored, err := f.tickets.Read(f.ticket.ID)
		assert.NoError(t, err)
		assert.True(t, stored.Completed())

		events, _ := f.events.GetByTicketID(f.ticket.ID)
		assert.Len(t, events, 1)
		assert.Equal(t, dtos.EventTypeAutoCompleted, events[0].Type)
		assert.Equal(t, dtos.SystemUserID, events[0].UserID)
		assert.Empty(t, events[0].LoggingIDs)
	})

	t.Run("an indeterminate ticket stays untouched", func(t *testing.T) {
		f := newAutoCloseFixture(t)
		f.addAction(">=1.0.0-beta")
		f.addReference("1.0.0")

		verdict, err := f.service.AutoCloseTicket(f.ticket)
		assert.NoError(t, err)
		assert.Equal(t, dtos.AutoCloseIndeterminate, verdict.Decision)

		stored, _ := f.tickets.Read(f.ticket.ID)
		assert.Equal(t, dtos.TicketStatusAlerted, stored.TopicStatus)
		events, _ := f.events.GetByTicketID(f.ticket.ID)
		assert.Empty(t, events)
	})

	t.Run("re-running on a completed ticket does nothing", func(t *testing.T) {
		f := newAutoCloseFixture(t)
		f.addAction("<2.0.0")
		f.addReference("2.1.0")

		_, err := f.service.AutoCloseTicket(f.ticket)
		assert.NoError(t, err)

		stored, _ := f.tickets.Read(f.ticket.ID)
		_, err = f.service.AutoCloseTicket(stored)
		assert.NoError(t, err)

		assert.Equal(t, 1, f.events.countByType(f.ticket.ID, dtos.EventTypeAutoCompleted))
	})

	t.Run("concurrent runs converge on a single completion event", func(t *testing.T) {
		f := newAutoCloseFixture(t)
		f.addAction("<2.0.0")
		f.addReference("2.1.0")

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.service.AutoCloseTicket(f.ticket)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		stored, _ := f.tickets.Read(f.ticket.ID)
		assert.True(t, stored.Completed())
		assert.Equal(t, 1, f.events.countByType(f.ticket.ID, dtos.EventTypeAutoCompleted))
	})
}

func TestAutoCloseAllForTag(t *testing.T) {
	f := newAutoCloseFixture(t)
	f.addAction("<2.0.0")
	f.addReference("2.1.0")

	// a second topic on the same tag that is still vulnerable
	open := models.Ticket{
		TopicID:     uuid.New(),
		TagID:       f.tag.ID,
		ServiceID:   uuid.New(),
		TopicStatus: dtos.TicketStatusAlerted,
		UserID:      "user-1",
	}
	assert.NoError(t, f.tickets.Save(nil, &open))
	vulnerable := newAction(models.ActionExt{
		Tags:               []string{f.tag.Name},
		VulnerableVersions: map[string][]string{f.tag.Name: {"<3.0.0"}},
	})
	vulnerable.TopicID = open.TopicID
	assert.NoError(t, f.actions.Save(nil, &vulnerable))

	verdicts, err := f.service.AutoCloseAllForTag(context.Background(), f.tag.ID)
	assert.NoError(t, err)
	assert.Len(t, verdicts, 2)
	assert.Equal(t, dtos.AutoCloseEligible, verdicts[f.ticket.ID.String()].Decision)
	assert.Equal(t, dtos.AutoCloseNotEligible, verdicts[open.ID.String()].Decision)

	stored, _ := f.tickets.Read(f.ticket.ID)
	assert.True(t, stored.Completed())
	stillOpen, _ := f.tickets.Read(open.ID)
	assert.False(t, stillOpen.Completed())

	// the cancelled context skips the batch without failing it
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	verdicts, err = f.service.AutoCloseAllForTag(cancelled, f.tag.ID)
	assert.NoError(t, err)
	assert.Empty(t, verdicts)
}
