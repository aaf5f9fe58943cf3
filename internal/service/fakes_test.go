package service

import (
	"context"
	"sync"
	"time"

	"github.com/orgrec/appointment_scheduler/internal/model"
)

// In-memory ports. The slot store mirrors the database's compare-and-set
// contract, including under concurrent use.

type fakeTemplateStore struct {
	mu        sync.Mutex
	templates map[int64]*model.AvailabilityTemplate
	nextID    int64
}

func newFakeTemplateStore() *fakeTemplateStore {
	return &fakeTemplateStore{templates: make(map[int64]*model.AvailabilityTemplate)}
}

func (f *fakeTemplateStore) Create(ctx context.Context, tpl *model.AvailabilityTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	tpl.ID = f.nextID
	tpl.CreatedAt = time.Now()
	tpl.UpdatedAt = tpl.CreatedAt
	copied := *tpl
	f.templates[tpl.ID] = &copied
	return nil
}

func (f *fakeTemplateStore) Update(ctx context.Context, tpl *model.AvailabilityTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tpl.UpdatedAt = time.Now()
	copied := *tpl
	f.templates[tpl.ID] = &copied
	return nil
}

func (f *fakeTemplateStore) GetByID(ctx context.Context, id int64) (*model.AvailabilityTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tpl, ok := f.templates[id]
	if !ok {
		return nil, nil
	}
	copied := *tpl
	return &copied, nil
}

func (f *fakeTemplateStore) ListActive(ctx context.Context) ([]*model.AvailabilityTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AvailabilityTemplate
	for _, tpl := range f.templates {
		if tpl.Active {
			copied := *tpl
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeTemplateStore) Deactivate(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tpl, ok := f.templates[id]
	if !ok {
		return false, nil
	}
	tpl.Active = false
	return true, nil
}

func (f *fakeTemplateStore) Delete(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.templates[id]; !ok {
		return false, nil
	}
	delete(f.templates, id)
	return true, nil
}

type fakeSlotStore struct {
	mu     sync.Mutex
	slots  map[int64]*model.Slot
	nextID int64
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{slots: make(map[int64]*model.Slot)}
}

func (f *fakeSlotStore) Create(ctx context.Context, slot *model.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	slot.ID = f.nextID
	slot.CreatedAt = time.Now()
	copied := *slot
	f.slots[slot.ID] = &copied
	return nil
}

func (f *fakeSlotStore) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return nil, nil
	}
	copied := *slot
	return &copied, nil
}

func (f *fakeSlotStore) FindConflicting(ctx context.Context, templateID *int64, date, start, end time.Time) (*model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, slot := range f.slots {
		if !sameRef(slot.TemplateID, templateID) {
			continue
		}
		if !slot.Date.Equal(date) {
			continue
		}
		if slot.StartTime.Before(end) && slot.EndTime.After(start) {
			copied := *slot
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSlotStore) UpdateState(ctx context.Context, id int64, expected model.SlotStatus, upd model.SlotUpdate) (*model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok || slot.Status != expected {
		return nil, nil
	}
	slot.Status = upd.Status
	slot.PersonID = upd.PersonID
	slot.AccountID = upd.AccountID
	slot.CancellationReason = upd.CancellationReason
	if upd.Notes != nil {
		slot.Notes = *upd.Notes
	}
	copied := *slot
	return &copied, nil
}

func (f *fakeSlotStore) UpdateWindow(ctx context.Context, slot *model.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.slots[slot.ID]
	if !ok {
		return model.ErrNotFound
	}
	stored.Date = slot.Date
	stored.StartTime = slot.StartTime
	stored.EndTime = slot.EndTime
	stored.Notes = slot.Notes
	return nil
}

func (f *fakeSlotStore) ListByTemplate(ctx context.Context, templateID int64, from, to time.Time) ([]*model.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Slot
	for _, slot := range f.slots {
		if slot.TemplateID == nil || *slot.TemplateID != templateID {
			continue
		}
		if slot.StartTime.Before(from) || !slot.StartTime.Before(to) {
			continue
		}
		copied := *slot
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeSlotStore) Delete(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.slots[id]; !ok {
		return false, nil
	}
	delete(f.slots, id)
	return true, nil
}

func (f *fakeSlotStore) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if _, ok := f.slots[id]; ok {
			delete(f.slots, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakePartyDirectory struct {
	people   map[int64]bool
	accounts map[int64]bool
}

func newFakePartyDirectory(people ...int64) *fakePartyDirectory {
	f := &fakePartyDirectory{people: make(map[int64]bool), accounts: make(map[int64]bool)}
	for _, id := range people {
		f.people[id] = true
	}
	return f
}

func (f *fakePartyDirectory) addAccount(id int64) {
	f.accounts[id] = true
}

func (f *fakePartyDirectory) PersonExists(ctx context.Context, id int64) (bool, error) {
	return f.people[id], nil
}

func (f *fakePartyDirectory) AccountExists(ctx context.Context, id int64) (bool, error) {
	return f.accounts[id], nil
}

type fakeEnrollmentStore struct {
	mu          sync.Mutex
	events      map[int64]bool
	enrollments []*model.Enrollment
	nextID      int64
}

func newFakeEnrollmentStore(eventIDs ...int64) *fakeEnrollmentStore {
	f := &fakeEnrollmentStore{events: make(map[int64]bool)}
	for _, id := range eventIDs {
		f.events[id] = true
	}
	return f
}

func (f *fakeEnrollmentStore) EventExists(ctx context.Context, eventID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[eventID], nil
}

func (f *fakeEnrollmentStore) FindEnrolled(ctx context.Context, eventID int64) ([]*model.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Enrollment
	for _, e := range f.enrollments {
		if e.EventID == eventID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) Create(ctx context.Context, e *model.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.enrollments {
		if existing.EventID == e.EventID && existing.PersonID == e.PersonID {
			return model.ErrConflict
		}
	}
	f.nextID++
	e.ID = f.nextID
	e.CreatedAt = time.Now()
	copied := *e
	f.enrollments = append(f.enrollments, &copied)
	return nil
}

func sameRef(a, b *int64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}
