package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/octobees/contacts-hub/internal/entity"
	"github.com/octobees/contacts-hub/internal/mapping"
	"github.com/octobees/contacts-hub/internal/repository"
)

// importRow is one row of one file together with that file's mapping.
type importRow struct {
	fileIndex int
	rowIndex  int
	row       mapping.Row
	columns   mapping.Compiled
}

// draft is a transformed row ready to be persisted.
type draft struct {
	contact        *entity.Contact
	emails         []entity.EmailAddress
	phones         []entity.PhoneNumber
	companyName    string
	companyAttrs   *entity.CompanyAttributes
	// companyAttrErr is the first company attribute that failed to parse. It
	// fails the row only if the company has to be created.
	companyAttrErr error
	departmentName string
}

// rowStages runs a row through transform, assemble and persist. Each stage may
// fail the row; nothing is written unless persist commits.
type rowStages struct {
	repo     repository.ContactsRepository
	resolver *EntityResolver
	writer   *ContactWriter
}

func (s *rowStages) transform(item importRow) mapping.Payload {
	return mapping.Transform(item.row, item.columns)
}

// assemble turns a payload into typed entities. owner is used when the row
// does not carry an owner_id of its own.
func (s *rowStages) assemble(p mapping.Payload, owner uuid.UUID) (*draft, error) {
	contact := &entity.Contact{}

	custom := make(map[string]any, len(p.CustomFields))
	for name, value := range p.ContactFields {
		err := contact.SetField(name, value)
		if errors.Is(err, entity.ErrUnknownField) {
			custom[name] = value
			continue
		}
		if err != nil {
			return nil, err
		}
	}
	for name, value := range p.CustomFields {
		custom[name] = value
	}

	if contact.OwnerID == nil && owner != uuid.Nil {
		id := owner
		contact.OwnerID = &id
	}

	raw, err := entity.EncodeCustomFields(custom)
	if err != nil {
		return nil, err
	}
	contact.RawCustomFields = raw
	if len(custom) > 0 {
		contact.CustomFields = custom
	}

	d := &draft{
		contact:        contact,
		companyName:    p.CompanyName,
		departmentName: p.DepartmentName,
	}

	if p.CompanyAttributes != nil && strings.TrimSpace(p.CompanyName) != "" {
		attrs := &entity.CompanyAttributes{}
		for _, name := range sortedKeys(p.CompanyAttributes) {
			if err := attrs.Set(name, p.CompanyAttributes[name]); err != nil && d.companyAttrErr == nil {
				d.companyAttrErr = err
			}
		}
		d.companyAttrs = attrs
	}

	for _, e := range p.Emails {
		d.emails = append(d.emails, entity.EmailAddress{Email: e.Value, Type: e.Type})
	}
	for _, ph := range p.Phones {
		d.phones = append(d.phones, entity.PhoneNumber{Phone: ph.Value, Type: ph.Type})
	}
	return d, nil
}

// persist resolves organizations and writes the contact inside one
// transaction. Attribute errors only matter for a company this row creates;
// returning one rolls the insert back.
func (s *rowStages) persist(ctx context.Context, d *draft) error {
	return s.repo.WithinTx(ctx, func(store repository.ContactStore) error {
		companyID, created, err := s.resolver.ResolveCompany(ctx, store, d.companyName, d.companyAttrs)
		if err != nil {
			return err
		}
		if created && d.companyAttrErr != nil {
			return d.companyAttrErr
		}
		departmentID, err := s.resolver.ResolveDepartment(ctx, store, d.departmentName)
		if err != nil {
			return err
		}
		d.contact.CompanyID = companyID
		d.contact.DepartmentID = departmentID
		return s.writer.Write(ctx, store, d.contact, d.emails, d.phones)
	})
}

func (s *rowStages) run(ctx context.Context, item importRow, owner uuid.UUID) error {
	d, err := s.assemble(s.transform(item), owner)
	if err != nil {
		return err
	}
	return s.persist(ctx, d)
}

// runChunk processes rows with at most workers in flight and returns one
// error slot per row, in input order.
func (s *rowStages) runChunk(ctx context.Context, rows []importRow, owner uuid.UUID, workers int) []error {
	outcomes := make([]error, len(rows))
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range rows {
		i := i
		g.Go(func() error {
			outcomes[i] = s.runSafely(ctx, rows[i], owner)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (s *rowStages) runSafely(ctx context.Context, item importRow, owner uuid.UUID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()
	return s.run(ctx, item, owner)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
