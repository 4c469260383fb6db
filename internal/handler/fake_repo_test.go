package handler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/contacts-hub/internal/dto"
	"github.com/octobees/contacts-hub/internal/entity"
	"github.com/octobees/contacts-hub/internal/repository"
)

// fakeRepo is a minimal in-memory repository.ContactsRepository. Transactions
// are not isolated; err, when set, fails every contact insert.
type fakeRepo struct {
	mu          sync.Mutex
	companies   map[string]uuid.UUID
	departments map[string]uuid.UUID
	contacts    map[uuid.UUID]entity.Contact
	order       []uuid.UUID
	err         error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		companies:   map[string]uuid.UUID{},
		departments: map[string]uuid.UUID{},
		contacts:    map[uuid.UUID]entity.Contact{},
	}
}

func (f *fakeRepo) ResolveCompany(ctx context.Context, name string, attrs *entity.CompanyAttributes) (uuid.UUID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return resolveName(f.companies, name)
}

func (f *fakeRepo) ResolveDepartment(ctx context.Context, name string) (uuid.UUID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return resolveName(f.departments, name)
}

func resolveName(names map[string]uuid.UUID, name string) (uuid.UUID, bool, error) {
	if id, ok := names[name]; ok {
		return id, false, nil
	}
	id := uuid.New()
	names[name] = id
	return id, true, nil
}

func (f *fakeRepo) FindCompanyIDFold(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return uuid.Nil, false, nil
}

func (f *fakeRepo) FindDepartmentIDFold(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return uuid.Nil, false, nil
}

func (f *fakeRepo) InsertContact(ctx context.Context, contact *entity.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	contact.ID = uuid.New()
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = contact.CreatedAt
	f.contacts[contact.ID] = *contact
	f.order = append(f.order, contact.ID)
	return nil
}

func (f *fakeRepo) InsertEmail(ctx context.Context, email *entity.EmailAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.contacts[email.ContactID]
	c.Emails = append(c.Emails, *email)
	f.contacts[email.ContactID] = c
	return nil
}

func (f *fakeRepo) InsertPhone(ctx context.Context, phone *entity.PhoneNumber) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.contacts[phone.ContactID]
	c.Phones = append(c.Phones, *phone)
	f.contacts[phone.ContactID] = c
	return nil
}

func (f *fakeRepo) WithinTx(ctx context.Context, fn func(store repository.ContactStore) error) error {
	return fn(f)
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contacts[id]
	if !ok {
		return nil, repository.ErrContactNotFound
	}
	return &c, nil
}

func (f *fakeRepo) List(ctx context.Context, filter dto.ContactFilter) ([]entity.Contact, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Contact
	for _, id := range f.order {
		c, ok := f.contacts[id]
		if !ok {
			continue
		}
		if filter.Search != "" && (c.FirstName == nil || !strings.Contains(strings.ToLower(*c.FirstName), strings.ToLower(filter.Search))) {
			continue
		}
		out = append(out, c)
	}
	total := len(out)
	start := (filter.Page - 1) * filter.PerPage
	if start > total {
		start = total
	}
	end := start + filter.PerPage
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (f *fakeRepo) Update(ctx context.Context, contact *entity.Contact) (*entity.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.contacts[contact.ID]; !ok {
		return nil, repository.ErrContactNotFound
	}
	f.contacts[contact.ID] = *contact
	out := *contact
	return &out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.contacts[id]; !ok {
		return repository.ErrContactNotFound
	}
	delete(f.contacts, id)
	return nil
}

var errFakeDown = errors.New("database unavailable")
