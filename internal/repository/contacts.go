package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/contacts-hub/internal/dto"
	"github.com/octobees/contacts-hub/internal/entity"
)

// ErrContactNotFound is returned when no contact matches the lookup criteria.
var ErrContactNotFound = errors.New("contact not found")

// ContactStore is the set of writes an import or a direct create performs for
// one contact. It is implemented both on the pool and on a transaction.
type ContactStore interface {
	ResolveCompany(ctx context.Context, name string, attrs *entity.CompanyAttributes) (uuid.UUID, bool, error)
	ResolveDepartment(ctx context.Context, name string) (uuid.UUID, bool, error)
	FindCompanyIDFold(ctx context.Context, name string) (uuid.UUID, bool, error)
	FindDepartmentIDFold(ctx context.Context, name string) (uuid.UUID, bool, error)
	InsertContact(ctx context.Context, contact *entity.Contact) error
	InsertEmail(ctx context.Context, email *entity.EmailAddress) error
	InsertPhone(ctx context.Context, phone *entity.PhoneNumber) error
}

// ContactsRepository describes persistence operations for contacts.
type ContactsRepository interface {
	ContactStore
	// WithinTx runs fn in a transaction that commits only when fn returns nil.
	WithinTx(ctx context.Context, fn func(store ContactStore) error) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error)
	List(ctx context.Context, filter dto.ContactFilter) ([]entity.Contact, int, error)
	Update(ctx context.Context, contact *entity.Contact) (*entity.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const contactColumns = `c.id, c.first_name, c.last_name, c.title, c.seniority, c.stage, c.lists,
            c.last_contacted, c.person_linkedin_url, c.contact_owner, c.owner_id,
            c.address, c.city, c.state, c.country, c.postal_code,
            c.company_id, c.department_id, c.custom_fields, c.created_at, c.updated_at`

const companyColumns = `co.name, co.website, co.linkedin_url, co.facebook_url, co.twitter_url,
            co.industry, co.num_employees, co.annual_revenue, co.total_funding,
            co.latest_funding, co.latest_funding_amount, co.last_raised_at,
            co.address, co.city, co.state, co.country, co.phone, co.keywords,
            co.seo_description, co.subsidiary_of, co.created_at, co.updated_at`

const contactSelect = `
        SELECT ` + contactColumns + `,
            ` + companyColumns + `,
            d.name
        FROM contacts c
        LEFT JOIN companies co ON co.id = c.company_id
        LEFT JOIN departments d ON d.id = c.department_id
`

// pgxContactStore implements ContactStore on top of a pool or a transaction.
type pgxContactStore struct {
	q queryer
}

// PGXContactsRepository implements ContactsRepository using pgx.
type PGXContactsRepository struct {
	pgxContactStore
	pool pgxPool
}

// NewPGXContactsRepository wires a pgx backed repository.
func NewPGXContactsRepository(pool *pgxpool.Pool) *PGXContactsRepository {
	return newPGXContactsRepository(pool)
}

func newPGXContactsRepository(pool pgxPool) *PGXContactsRepository {
	return &PGXContactsRepository{pgxContactStore: pgxContactStore{q: pool}, pool: pool}
}

// WithinTx runs fn against a transaction-bound store.
func (r *PGXContactsRepository) WithinTx(ctx context.Context, fn func(store ContactStore) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("start contact tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgxContactStore{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit contact tx: %w", err)
	}
	return nil
}

// InsertContact writes the contact row and fills its generated columns.
func (s *pgxContactStore) InsertContact(ctx context.Context, contact *entity.Contact) error {
	if contact == nil {
		return fmt.Errorf("contact payload is nil")
	}

	row := s.q.QueryRow(ctx, `
        INSERT INTO contacts (
            first_name, last_name, title, seniority, stage, lists, last_contacted,
            person_linkedin_url, contact_owner, owner_id, address, city, state,
            country, postal_code, company_id, department_id, custom_fields
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
        RETURNING id, created_at, updated_at
    `,
		contact.FirstName,
		contact.LastName,
		contact.Title,
		contact.Seniority,
		contact.Stage,
		contact.Lists,
		contact.LastContacted,
		contact.PersonLinkedInURL,
		contact.ContactOwner,
		contact.OwnerID,
		contact.Address,
		contact.City,
		contact.State,
		contact.Country,
		contact.PostalCode,
		contact.CompanyID,
		contact.DepartmentID,
		contact.RawCustomFields,
	)

	if err := row.Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt); err != nil {
		return mapWriteError("insert contact", err)
	}
	return nil
}

// InsertEmail writes one email row for an existing contact.
func (s *pgxContactStore) InsertEmail(ctx context.Context, email *entity.EmailAddress) error {
	row := s.q.QueryRow(ctx, `
        INSERT INTO emails (
            contact_id, email, type, status, source, confidence, catch_all_status,
            last_verified_at, is_primary, unsubscribe
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at
    `,
		email.ContactID,
		email.Email,
		email.Type,
		email.Status,
		email.Source,
		email.Confidence,
		email.CatchAllStatus,
		email.LastVerifiedAt,
		email.IsPrimary,
		email.Unsubscribe,
	)

	if err := row.Scan(&email.ID, &email.CreatedAt); err != nil {
		return fmt.Errorf("insert email: %w", err)
	}
	return nil
}

// InsertPhone writes one phone row for an existing contact.
func (s *pgxContactStore) InsertPhone(ctx context.Context, phone *entity.PhoneNumber) error {
	row := s.q.QueryRow(ctx, `
        INSERT INTO phones (contact_id, phone, type, e164)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `, phone.ContactID, phone.Phone, phone.Type, phone.E164)

	if err := row.Scan(&phone.ID, &phone.CreatedAt); err != nil {
		return fmt.Errorf("insert phone: %w", err)
	}
	return nil
}

// FindByID retrieves a contact with its company, department, emails and phones.
func (r *PGXContactsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error) {
	row := r.pool.QueryRow(ctx, contactSelect+` WHERE c.id = $1`, id)

	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("query contact by id: %w", err)
	}

	contacts := []entity.Contact{*contact}
	if err := r.attachChildren(ctx, contacts); err != nil {
		return nil, err
	}
	return &contacts[0], nil
}

// List returns one page of contacts, newest first, and the total number of
// contacts matching the filter.
func (r *PGXContactsRepository) List(ctx context.Context, filter dto.ContactFilter) ([]entity.Contact, int, error) {
	var (
		where string
		args  []any
	)
	if search := strings.TrimSpace(filter.Search); search != "" {
		where = ` WHERE (c.first_name ILIKE $1 OR c.last_name ILIKE $1 OR c.title ILIKE $1 OR c.person_linkedin_url ILIKE $1)`
		args = append(args, fmt.Sprintf("%%%s%%", search))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts c`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	page, perPage := filter.Page, filter.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	idx := len(args) + 1
	query := contactSelect + where + fmt.Sprintf(` ORDER BY c.created_at DESC, c.id LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]entity.Contact, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan contact row: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contacts: %w", err)
	}
	rows.Close()

	if err := r.attachChildren(ctx, contacts); err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// Update rewrites the mutable columns of an existing contact.
func (r *PGXContactsRepository) Update(ctx context.Context, contact *entity.Contact) (*entity.Contact, error) {
	cmd, err := r.pool.Exec(ctx, `
        UPDATE contacts SET
            first_name = $1, last_name = $2, title = $3, seniority = $4, stage = $5,
            lists = $6, last_contacted = $7, person_linkedin_url = $8, contact_owner = $9,
            owner_id = $10, address = $11, city = $12, state = $13, country = $14,
            postal_code = $15, company_id = $16, department_id = $17, custom_fields = $18,
            updated_at = NOW()
        WHERE id = $19
    `,
		contact.FirstName,
		contact.LastName,
		contact.Title,
		contact.Seniority,
		contact.Stage,
		contact.Lists,
		contact.LastContacted,
		contact.PersonLinkedInURL,
		contact.ContactOwner,
		contact.OwnerID,
		contact.Address,
		contact.City,
		contact.State,
		contact.Country,
		contact.PostalCode,
		contact.CompanyID,
		contact.DepartmentID,
		contact.RawCustomFields,
		contact.ID,
	)
	if err != nil {
		return nil, mapWriteError("update contact", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrContactNotFound
	}
	return r.FindByID(ctx, contact.ID)
}

// Delete removes a contact; its emails and phones cascade.
func (r *PGXContactsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *PGXContactsRepository) attachChildren(ctx context.Context, contacts []entity.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	ids := make([]string, len(contacts))
	byID := make(map[uuid.UUID]int, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID.String()
		byID[c.ID] = i
	}

	emailRows, err := r.pool.Query(ctx, `
        SELECT id, contact_id, email, type, status, source, confidence, catch_all_status,
            last_verified_at, is_primary, unsubscribe, created_at
        FROM emails
        WHERE contact_id = ANY($1::uuid[])
        ORDER BY created_at, id
    `, ids)
	if err != nil {
		return fmt.Errorf("list contact emails: %w", err)
	}
	for emailRows.Next() {
		var e entity.EmailAddress
		if err := emailRows.Scan(&e.ID, &e.ContactID, &e.Email, &e.Type, &e.Status, &e.Source, &e.Confidence,
			&e.CatchAllStatus, &e.LastVerifiedAt, &e.IsPrimary, &e.Unsubscribe, &e.CreatedAt); err != nil {
			emailRows.Close()
			return fmt.Errorf("scan email row: %w", err)
		}
		if i, ok := byID[e.ContactID]; ok {
			contacts[i].Emails = append(contacts[i].Emails, e)
		}
	}
	emailRows.Close()
	if err := emailRows.Err(); err != nil {
		return fmt.Errorf("iterate emails: %w", err)
	}

	phoneRows, err := r.pool.Query(ctx, `
        SELECT id, contact_id, phone, type, e164, created_at
        FROM phones
        WHERE contact_id = ANY($1::uuid[])
        ORDER BY created_at, id
    `, ids)
	if err != nil {
		return fmt.Errorf("list contact phones: %w", err)
	}
	for phoneRows.Next() {
		var p entity.PhoneNumber
		if err := phoneRows.Scan(&p.ID, &p.ContactID, &p.Phone, &p.Type, &p.E164, &p.CreatedAt); err != nil {
			phoneRows.Close()
			return fmt.Errorf("scan phone row: %w", err)
		}
		if i, ok := byID[p.ContactID]; ok {
			contacts[i].Phones = append(contacts[i].Phones, p)
		}
	}
	phoneRows.Close()
	if err := phoneRows.Err(); err != nil {
		return fmt.Errorf("iterate phones: %w", err)
	}
	return nil
}

func scanContact(row pgx.Row) (*entity.Contact, error) {
	var (
		c                entity.Contact
		companyName      *string
		attrs            entity.CompanyAttributes
		companyCreatedAt *time.Time
		companyUpdatedAt *time.Time
	)

	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Title,
		&c.Seniority,
		&c.Stage,
		&c.Lists,
		&c.LastContacted,
		&c.PersonLinkedInURL,
		&c.ContactOwner,
		&c.OwnerID,
		&c.Address,
		&c.City,
		&c.State,
		&c.Country,
		&c.PostalCode,
		&c.CompanyID,
		&c.DepartmentID,
		&c.RawCustomFields,
		&c.CreatedAt,
		&c.UpdatedAt,
		&companyName,
		&attrs.Website,
		&attrs.LinkedInURL,
		&attrs.FacebookURL,
		&attrs.TwitterURL,
		&attrs.Industry,
		&attrs.NumEmployees,
		&attrs.AnnualRevenue,
		&attrs.TotalFunding,
		&attrs.LatestFunding,
		&attrs.LatestFundingAmount,
		&attrs.LastRaisedAt,
		&attrs.Address,
		&attrs.City,
		&attrs.State,
		&attrs.Country,
		&attrs.Phone,
		&attrs.Keywords,
		&attrs.SEODescription,
		&attrs.SubsidiaryOf,
		&companyCreatedAt,
		&companyUpdatedAt,
		&c.DepartmentName,
	)
	if err != nil {
		return nil, err
	}

	if c.CompanyID != nil && companyName != nil {
		company := &entity.Company{
			ID:                *c.CompanyID,
			Name:              *companyName,
			CompanyAttributes: attrs,
		}
		if companyCreatedAt != nil {
			company.CreatedAt = *companyCreatedAt
		}
		if companyUpdatedAt != nil {
			company.UpdatedAt = *companyUpdatedAt
		}
		c.Company = company
	}
	return &c, nil
}
