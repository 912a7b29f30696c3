package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/database/repositories"
	"github.com/nttcom/threatconnectome-sub000/dtos"
	"github.com/nttcom/threatconnectome-sub000/shared"
)

// in-memory repository fakes; the repository contracts are small enough that
// hand-written fakes stay readable and keep the tests free of a database

type fakeTagRepository struct {
	tags map[uuid.UUID]models.Tag
}

func newFakeTagRepository(tags ...models.Tag) *fakeTagRepository {
	r := &fakeTagRepository{tags: make(map[uuid.UUID]models.Tag)}
	for _, tag := range tags {
		r.tags[tag.ID] = tag
	}
	return r
}

func (r *fakeTagRepository) All() ([]models.Tag, error) {
	res := make([]models.Tag, 0, len(r.tags))
	for _, tag := range r.tags {
		res = append(res, tag)
	}
	return res, nil
}

func (r *fakeTagRepository) Read(id uuid.UUID) (models.Tag, error) {
	tag, ok := r.tags[id]
	if !ok {
		return models.Tag{}, gorm.ErrRecordNotFound
	}
	return tag, nil
}

func (r *fakeTagRepository) FindByName(name string) (models.Tag, error) {
	for _, tag := range r.tags {
		if tag.Name == name {
			return tag, nil
		}
	}
	return models.Tag{}, gorm.ErrRecordNotFound
}

func (r *fakeTagRepository) Save(tx shared.DB, tag *models.Tag) error {
	r.tags[tag.ID] = *tag
	return nil
}

type fakeReferenceRepository struct {
	byTag map[uuid.UUID][]models.Reference
}

func newFakeReferenceRepository() *fakeReferenceRepository {
	return &fakeReferenceRepository{byTag: make(map[uuid.UUID][]models.Reference)}
}

func (r *fakeReferenceRepository) GetByTagID(tagID uuid.UUID) ([]models.Reference, error) {
	return r.byTag[tagID], nil
}

func (r *fakeReferenceRepository) Save(tx shared.DB, reference *models.Reference) error {
	r.byTag[reference.TagID] = append(r.byTag[reference.TagID], *reference)
	return nil
}

func (r *fakeReferenceRepository) Delete(tx shared.DB, id uuid.UUID) error {
	for tagID, refs := range r.byTag {
		for i, ref := range refs {
			if ref.ID == id {
				r.byTag[tagID] = append(refs[:i], refs[i+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeActionRepository struct {
	actions map[uuid.UUID]models.Action
}

func newFakeActionRepository(actions ...models.Action) *fakeActionRepository {
	r := &fakeActionRepository{actions: make(map[uuid.UUID]models.Action)}
	for _, action := range actions {
		r.actions[action.ID] = action
	}
	return r
}

func (r *fakeActionRepository) Read(id uuid.UUID) (models.Action, error) {
	action, ok := r.actions[id]
	if !ok {
		return models.Action{}, gorm.ErrRecordNotFound
	}
	return action, nil
}

func (r *fakeActionRepository) GetByTopicID(topicID uuid.UUID) ([]models.Action, error) {
	res := make([]models.Action, 0)
	for _, action := range r.actions {
		if action.TopicID == topicID {
			res = append(res, action)
		}
	}
	return res, nil
}

func (r *fakeActionRepository) Save(tx shared.DB, action *models.Action) error {
	if action.ID == uuid.Nil {
		action.ID = uuid.New()
	}
	r.actions[action.ID] = *action
	return nil
}

func (r *fakeActionRepository) Delete(tx shared.DB, id uuid.UUID) error {
	delete(r.actions, id)
	return nil
}

type fakeTicketRepository struct {
	mut     sync.Mutex
	tickets map[uuid.UUID]models.Ticket
}

func newFakeTicketRepository(tickets ...models.Ticket) *fakeTicketRepository {
	r := &fakeTicketRepository{tickets: make(map[uuid.UUID]models.Ticket)}
	for _, ticket := range tickets {
		if ticket.ID == uuid.Nil {
			ticket.ID = ticket.CalculateID()
		}
		if ticket.UpdatedAt.IsZero() {
			ticket.UpdatedAt = time.Now()
		}
		r.tickets[ticket.ID] = ticket
	}
	return r
}

func (r *fakeTicketRepository) Read(id uuid.UUID) (models.Ticket, error) {
	r.mut.Lock()
	defer r.mut.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return models.Ticket{}, gorm.ErrRecordNotFound
	}
	return ticket, nil
}

func (r *fakeTicketRepository) GetByTagID(tagID uuid.UUID) ([]models.Ticket, error) {
	r.mut.Lock()
	defer r.mut.Unlock()
	res := make([]models.Ticket, 0)
	for _, ticket := range r.tickets {
		if ticket.TagID == tagID {
			res = append(res, ticket)
		}
	}
	return res, nil
}

func (r *fakeTicketRepository) GetOpenByTagID(tagID uuid.UUID) ([]models.Ticket, error) {
	r.mut.Lock()
	defer r.mut.Unlock()
	res := make([]models.Ticket, 0)
	for _, ticket := range r.tickets {
		if ticket.TagID == tagID && !ticket.Completed() {
			res = append(res, ticket)
		}
	}
	return res, nil
}

func (r *fakeTicketRepository) Save(tx shared.DB, ticket *models.Ticket) error {
	r.mut.Lock()
	defer r.mut.Unlock()
	if ticket.ID == uuid.Nil {
		ticket.ID = ticket.CalculateID()
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepository) UpdateGuarded(tx shared.DB, ticket *models.Ticket, readUpdatedAt time.Time) error {
	r.mut.Lock()
	defer r.mut.Unlock()
	stored, ok := r.tickets[ticket.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !stored.UpdatedAt.Equal(readUpdatedAt) {
		return repositories.ErrConcurrentModification
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepository) Transaction(fn func(tx shared.DB) error) error {
	return fn(nil)
}

type fakeTicketEventRepository struct {
	mut    sync.Mutex
	events []models.TicketEvent
}

func newFakeTicketEventRepository() *fakeTicketEventRepository {
	return &fakeTicketEventRepository{events: make([]models.TicketEvent, 0)}
}

func (r *fakeTicketEventRepository) Create(tx shared.DB, event *models.TicketEvent) error {
	r.mut.Lock()
	defer r.mut.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeTicketEventRepository) GetByTicketID(ticketID uuid.UUID) ([]models.TicketEvent, error) {
	r.mut.Lock()
	defer r.mut.Unlock()
	res := make([]models.TicketEvent, 0)
	for _, event := range r.events {
		if event.TicketID == ticketID {
			res = append(res, event)
		}
	}
	return res, nil
}

func (r *fakeTicketEventRepository) countByType(ticketID uuid.UUID, eventType dtos.TicketEventType) int {
	r.mut.Lock()
	defer r.mut.Unlock()
	count := 0
	for _, event := range r.events {
		if event.TicketID == ticketID && event.Type == eventType {
			count++
		}
	}
	return count
}
