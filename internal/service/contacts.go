package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/octobees/contacts-hub/internal/dto"
	"github.com/octobees/contacts-hub/internal/entity"
	"github.com/octobees/contacts-hub/internal/mapping"
	"github.com/octobees/contacts-hub/internal/repository"
)

const (
	defaultContactsPerPage = 10
	maxContactsPerPage     = 100
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// canModify reports whether the actor owns contact or holds a managing role.
func (a Actor) canModify(contact *entity.Contact) bool {
	if a.Role == "admin" || a.Role == "manager" {
		return true
	}
	return contact.OwnerID != nil && *contact.OwnerID == a.ID
}

// ContactsService exposes read/write operations for single contacts.
type ContactsService struct {
	repo     repository.ContactsRepository
	resolver *EntityResolver
	writer   *ContactWriter
	logger   zerolog.Logger
}

// NewContactsService creates a new instance of ContactsService.
func NewContactsService(repo repository.ContactsRepository, resolver *EntityResolver, writer *ContactWriter, logger zerolog.Logger) *ContactsService {
	return &ContactsService{
		repo:     repo,
		resolver: resolver,
		writer:   writer,
		logger:   logger.With().Str("component", "contacts").Logger(),
	}
}

// Fields returns the catalog of canonical mapping targets.
func (s *ContactsService) Fields() []mapping.Field {
	return mapping.Catalog()
}

// Create stores one contact with its organizations, emails and phones.
func (s *ContactsService) Create(ctx context.Context, actor Actor, req dto.ContactRequest) (*entity.Contact, error) {
	if err := dto.Validate(req); err != nil {
		return nil, ValidationError{Message: err.Error()}
	}

	contact := &entity.Contact{}
	if err := applyFields(contact, req.Fields); err != nil {
		return nil, err
	}
	if contact.OwnerID == nil && actor.ID != uuid.Nil {
		owner := actor.ID
		contact.OwnerID = &owner
	}
	if err := setCustomFields(contact, req.CustomFields); err != nil {
		return nil, err
	}

	emails, err := emailsFromInput(req.Emails)
	if err != nil {
		return nil, err
	}
	phones := make([]entity.PhoneNumber, 0, len(req.Phones))
	for _, p := range req.Phones {
		phones = append(phones, entity.PhoneNumber{Phone: p.Phone, Type: p.Type})
	}

	var companyName, departmentName string
	if req.CompanyName != nil {
		companyName = *req.CompanyName
	}
	if req.Department != nil {
		departmentName = *req.Department
	}

	err = s.repo.WithinTx(ctx, func(store repository.ContactStore) error {
		companyID, _, err := s.resolver.ResolveCompany(ctx, store, companyName, nil)
		if err != nil {
			return err
		}
		departmentID, err := s.resolver.ResolveDepartment(ctx, store, departmentName)
		if err != nil {
			return err
		}
		contact.CompanyID = companyID
		contact.DepartmentID = departmentID
		return s.writer.Write(ctx, store, contact, emails, phones)
	})
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	return s.Get(ctx, contact.ID)
}

// Get returns a contact with custom fields decoded.
func (s *ContactsService) Get(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.decodeCustomFields(contact)
	return contact, nil
}

// List returns one page of contacts respecting pagination defaults.
func (s *ContactsService) List(ctx context.Context, filter dto.ContactFilter) (dto.ContactList, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = defaultContactsPerPage
	}
	if filter.PerPage > maxContactsPerPage {
		filter.PerPage = maxContactsPerPage
	}

	contacts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ContactList{}, err
	}
	for i := range contacts {
		s.decodeCustomFields(&contacts[i])
	}
	if contacts == nil {
		contacts = []entity.Contact{}
	}

	return dto.ContactList{
		Contacts: contacts,
		Pagination: dto.Pagination{
			CurrentPage: filter.Page,
			PerPage:     filter.PerPage,
			Total:       total,
			TotalPages:  int(math.Ceil(float64(total) / float64(filter.PerPage))),
		},
	}, nil
}

// Update patches the fields present in req. Custom fields are merged into the
// stored ones; a null value removes a key.
func (s *ContactsService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.ContactRequest) (*entity.Contact, error) {
	if err := dto.Validate(req); err != nil {
		return nil, ValidationError{Message: err.Error()}
	}

	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canModify(contact) {
		return nil, ErrForbidden
	}

	if err := applyFields(contact, req.Fields); err != nil {
		return nil, err
	}

	if req.CustomFields != nil {
		merged, decodeErr := entity.DecodeCustomFields(contact.RawCustomFields)
		if decodeErr != nil {
			s.logger.Warn().Str("contact_id", id.String()).Err(decodeErr).Msg("replacing malformed custom_fields")
		}
		for k, v := range req.CustomFields {
			if v == nil {
				delete(merged, k)
				continue
			}
			merged[k] = v
		}
		if err := setCustomFields(contact, merged); err != nil {
			return nil, err
		}
	}

	if req.CompanyName != nil {
		contact.CompanyID, _, err = s.resolver.ResolveCompany(ctx, s.repo, *req.CompanyName, nil)
		if err != nil {
			return nil, fmt.Errorf("update contact: %w", err)
		}
	}
	if req.Department != nil {
		contact.DepartmentID, err = s.resolver.ResolveDepartment(ctx, s.repo, *req.Department)
		if err != nil {
			return nil, fmt.Errorf("update contact: %w", err)
		}
	}

	updated, err := s.repo.Update(ctx, contact)
	if err != nil {
		return nil, err
	}
	s.decodeCustomFields(updated)
	return updated, nil
}

// Delete removes a contact owned by the actor, or any contact for managers.
func (s *ContactsService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.canModify(contact) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *ContactsService) decodeCustomFields(contact *entity.Contact) {
	fields, err := entity.DecodeCustomFields(contact.RawCustomFields)
	if err != nil {
		s.logger.Warn().Str("contact_id", contact.ID.String()).Err(err).Msg("malformed custom_fields")
	}
	contact.CustomFields = fields
}

func applyFields(contact *entity.Contact, fields map[string]string) error {
	for name, value := range fields {
		if err := contact.SetField(name, value); err != nil {
			if errors.Is(err, entity.ErrUnknownField) {
				continue
			}
			return ValidationError{Message: err.Error()}
		}
	}
	return nil
}

func setCustomFields(contact *entity.Contact, fields map[string]any) error {
	raw, err := entity.EncodeCustomFields(fields)
	if err != nil {
		return ValidationError{Message: err.Error()}
	}
	contact.RawCustomFields = raw
	contact.CustomFields = fields
	return nil
}

func emailsFromInput(inputs []dto.EmailInput) ([]entity.EmailAddress, error) {
	emails := make([]entity.EmailAddress, 0, len(inputs))
	for _, in := range inputs {
		email := entity.EmailAddress{
			Email:          in.Email,
			Type:           in.Type,
			Status:         in.Status,
			Source:         in.Source,
			Confidence:     in.Confidence,
			CatchAllStatus: in.CatchAllStatus,
			IsPrimary:      in.IsPrimary,
			Unsubscribe:    in.Unsubscribe,
		}
		if in.LastVerifiedAt != nil && *in.LastVerifiedAt != "" {
			ts, err := entity.ParseTimestamp(*in.LastVerifiedAt)
			if err != nil {
				return nil, ValidationError{Message: fmt.Sprintf("invalid last_verified_at value %q", *in.LastVerifiedAt)}
			}
			email.LastVerifiedAt = &ts
		}
		emails = append(emails, email)
	}
	return emails, nil
}
