package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/contacts-hub/internal/dto"
	"github.com/octobees/contacts-hub/internal/entity"
	"github.com/octobees/contacts-hub/internal/repository"
)

// memState is the in-memory equivalent of the contacts schema.
type memState struct {
	companies    map[string]uuid.UUID
	companyAttrs map[uuid.UUID]entity.CompanyAttributes
	departments  map[string]uuid.UUID
	contacts     []entity.Contact
	emails       []entity.EmailAddress
	phones       []entity.PhoneNumber
}

func newMemState() *memState {
	return &memState{
		companies:    map[string]uuid.UUID{},
		companyAttrs: map[uuid.UUID]entity.CompanyAttributes{},
		departments:  map[string]uuid.UUID{},
	}
}

func (s *memState) clone() *memState {
	out := newMemState()
	for k, v := range s.companies {
		out.companies[k] = v
	}
	for k, v := range s.companyAttrs {
		out.companyAttrs[k] = v
	}
	for k, v := range s.departments {
		out.departments[k] = v
	}
	out.contacts = append(out.contacts, s.contacts...)
	out.emails = append(out.emails, s.emails...)
	out.phones = append(out.phones, s.phones...)
	return out
}

// memStore implements repository.ContactStore over a memState. fail, when
// set, is consulted before every write and may inject an error.
type memStore struct {
	st   *memState
	fail func(op string, arg any) error
}

func (m *memStore) check(op string, arg any) error {
	if m.fail == nil {
		return nil
	}
	return m.fail(op, arg)
}

func (m *memStore) ResolveCompany(ctx context.Context, name string, attrs *entity.CompanyAttributes) (uuid.UUID, bool, error) {
	if err := m.check("resolve_company", name); err != nil {
		return uuid.Nil, false, err
	}
	if id, ok := m.st.companies[name]; ok {
		return id, false, nil
	}
	id := uuid.New()
	m.st.companies[name] = id
	if attrs != nil {
		m.st.companyAttrs[id] = *attrs
	}
	return id, true, nil
}

func (m *memStore) ResolveDepartment(ctx context.Context, name string) (uuid.UUID, bool, error) {
	if err := m.check("resolve_department", name); err != nil {
		return uuid.Nil, false, err
	}
	if id, ok := m.st.departments[name]; ok {
		return id, false, nil
	}
	id := uuid.New()
	m.st.departments[name] = id
	return id, true, nil
}

func (m *memStore) FindCompanyIDFold(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return findFold(m.st.companies, name)
}

func (m *memStore) FindDepartmentIDFold(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return findFold(m.st.departments, name)
}

func findFold(names map[string]uuid.UUID, name string) (uuid.UUID, bool, error) {
	for existing, id := range names {
		if strings.EqualFold(existing, name) {
			return id, true, nil
		}
	}
	return uuid.Nil, false, nil
}

func (m *memStore) InsertContact(ctx context.Context, contact *entity.Contact) error {
	if err := m.check("insert_contact", contact); err != nil {
		return err
	}
	contact.ID = uuid.New()
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = contact.CreatedAt
	stored := *contact
	stored.Emails, stored.Phones, stored.Company = nil, nil, nil
	m.st.contacts = append(m.st.contacts, stored)
	return nil
}

func (m *memStore) InsertEmail(ctx context.Context, email *entity.EmailAddress) error {
	if err := m.check("insert_email", email); err != nil {
		return err
	}
	email.ID = uuid.New()
	email.CreatedAt = time.Now()
	m.st.emails = append(m.st.emails, *email)
	return nil
}

func (m *memStore) InsertPhone(ctx context.Context, phone *entity.PhoneNumber) error {
	if err := m.check("insert_phone", phone); err != nil {
		return err
	}
	phone.ID = uuid.New()
	phone.CreatedAt = time.Now()
	m.st.phones = append(m.st.phones, *phone)
	return nil
}

// memRepo implements repository.ContactsRepository. Transactions are
// serialized and applied only when fn succeeds.
type memRepo struct {
	mu   sync.Mutex
	st   *memState
	fail func(op string, arg any) error
}

func newMemRepo() *memRepo {
	return &memRepo{st: newMemState()}
}

var _ repository.ContactsRepository = (*memRepo)(nil)

func (r *memRepo) store() *memStore {
	return &memStore{st: r.st, fail: r.fail}
}

func (r *memRepo) ResolveCompany(ctx context.Context, name string, attrs *entity.CompanyAttributes) (uuid.UUID, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store().ResolveCompany(ctx, name, attrs)
}

func (r *memRepo) ResolveDepartment(ctx context.Context, name string) (uuid.UUID, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store().ResolveDepartment(ctx, name)
}

func (r *memRepo) FindCompanyIDFold(ctx context.Context, name string) (uuid.UUID, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store().FindCompanyIDFold(ctx, name)
}

func (r *memRepo) FindDepartmentIDFold(ctx context.Context, name string) (uuid.UUID, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store().FindDepartmentIDFold(ctx, name)
}

func (r *memRepo) InsertContact(ctx context.Context, contact *entity.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store().InsertContact(ctx, contact)
}

func (r *memRepo) InsertEmail(ctx context.Context, email *entity.EmailAddress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store().InsertEmail(ctx, email)
}

func (r *memRepo) InsertPhone(ctx context.Context, phone *entity.PhoneNumber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store().InsertPhone(ctx, phone)
}

func (r *memRepo) WithinTx(ctx context.Context, fn func(store repository.ContactStore) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := r.st.clone()
	if err := fn(&memStore{st: tx, fail: r.fail}); err != nil {
		return err
	}
	r.st = tx
	return nil
}

func (r *memRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.st.contacts {
		if c.ID == id {
			out := r.hydrate(c)
			return &out, nil
		}
	}
	return nil, repository.ErrContactNotFound
}

func (r *memRepo) List(ctx context.Context, filter dto.ContactFilter) ([]entity.Contact, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []entity.Contact
	for _, c := range r.st.contacts {
		if filter.Search == "" || matchesSearch(c, filter.Search) {
			matched = append(matched, c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	start := (filter.Page - 1) * filter.PerPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PerPage
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]entity.Contact, 0, end-start)
	for _, c := range matched[start:end] {
		page = append(page, r.hydrate(c))
	}
	return page, len(matched), nil
}

func matchesSearch(c entity.Contact, search string) bool {
	search = strings.ToLower(search)
	for _, v := range []*string{c.FirstName, c.LastName, c.Title, c.PersonLinkedInURL} {
		if v != nil && strings.Contains(strings.ToLower(*v), search) {
			return true
		}
	}
	return false
}

func (r *memRepo) Update(ctx context.Context, contact *entity.Contact) (*entity.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.st.contacts {
		if c.ID == contact.ID {
			stored := *contact
			stored.Emails, stored.Phones, stored.Company = nil, nil, nil
			stored.UpdatedAt = time.Now()
			r.st.contacts[i] = stored
			out := r.hydrate(stored)
			return &out, nil
		}
	}
	return nil, repository.ErrContactNotFound
}

func (r *memRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.st.contacts {
		if c.ID == id {
			r.st.contacts = append(r.st.contacts[:i], r.st.contacts[i+1:]...)
			return nil
		}
	}
	return repository.ErrContactNotFound
}

func (r *memRepo) hydrate(c entity.Contact) entity.Contact {
	c.Emails = r.emailsOf(c.ID)
	c.Phones = r.phonesOf(c.ID)
	if c.CompanyID != nil {
		for name, id := range r.st.companies {
			if id == *c.CompanyID {
				c.Company = &entity.Company{ID: id, Name: name, CompanyAttributes: r.st.companyAttrs[id]}
			}
		}
	}
	if c.DepartmentID != nil {
		for name, id := range r.st.departments {
			if id == *c.DepartmentID {
				n := name
				c.DepartmentName = &n
			}
		}
	}
	return c
}

func (r *memRepo) emailsOf(id uuid.UUID) []entity.EmailAddress {
	var out []entity.EmailAddress
	for _, e := range r.st.emails {
		if e.ContactID == id {
			out = append(out, e)
		}
	}
	return out
}

func (r *memRepo) phonesOf(id uuid.UUID) []entity.PhoneNumber {
	var out []entity.PhoneNumber
	for _, p := range r.st.phones {
		if p.ContactID == id {
			out = append(out, p)
		}
	}
	return out
}

// snapshot returns the committed state for assertions.
func (r *memRepo) snapshot() *memState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.clone()
}
