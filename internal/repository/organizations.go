package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/octobees/contacts-hub/internal/entity"
)

// resolveAttempts bounds the insert-or-fetch loop. An attempt comes back empty
// only when a concurrent writer inserted the same name after our snapshot was
// taken, so a retry sees the committed row.
const resolveAttempts = 3

const resolveCompanySQL = `
    WITH ins AS (
        INSERT INTO companies (
            name, website, linkedin_url, facebook_url, twitter_url, industry,
            num_employees, annual_revenue, total_funding, latest_funding,
            latest_funding_amount, last_raised_at, address, city, state, country,
            phone, keywords, seo_description, subsidiary_of
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
        ON CONFLICT (name) DO NOTHING
        RETURNING id, TRUE AS created
    )
    SELECT id, created FROM ins
    UNION ALL
    SELECT id, FALSE FROM companies WHERE name = $1
    LIMIT 1
`

const resolveDepartmentSQL = `
    WITH ins AS (
        INSERT INTO departments (name)
        VALUES ($1)
        ON CONFLICT (name) DO NOTHING
        RETURNING id, TRUE AS created
    )
    SELECT id, created FROM ins
    UNION ALL
    SELECT id, FALSE FROM departments WHERE name = $1
    LIMIT 1
`

// ResolveCompany returns the id of the company called name, inserting it with
// attrs when it does not exist yet. created reports whether this call inserted
// the row. Attributes of an existing company are left untouched.
func (s *pgxContactStore) ResolveCompany(ctx context.Context, name string, attrs *entity.CompanyAttributes) (uuid.UUID, bool, error) {
	if attrs == nil {
		attrs = &entity.CompanyAttributes{}
	}
	args := []any{
		name,
		attrs.Website,
		attrs.LinkedInURL,
		attrs.FacebookURL,
		attrs.TwitterURL,
		attrs.Industry,
		attrs.NumEmployees,
		attrs.AnnualRevenue,
		attrs.TotalFunding,
		attrs.LatestFunding,
		attrs.LatestFundingAmount,
		attrs.LastRaisedAt,
		attrs.Address,
		attrs.City,
		attrs.State,
		attrs.Country,
		attrs.Phone,
		attrs.Keywords,
		attrs.SEODescription,
		attrs.SubsidiaryOf,
	}
	return s.insertOrFetch(ctx, "company", name, resolveCompanySQL, args...)
}

// ResolveDepartment returns the id of the department called name, inserting it
// when missing.
func (s *pgxContactStore) ResolveDepartment(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return s.insertOrFetch(ctx, "department", name, resolveDepartmentSQL, name)
}

func (s *pgxContactStore) insertOrFetch(ctx context.Context, kind, name, query string, args ...any) (uuid.UUID, bool, error) {
	for attempt := 0; attempt < resolveAttempts; attempt++ {
		var (
			id      uuid.UUID
			created bool
		)
		err := s.q.QueryRow(ctx, query, args...).Scan(&id, &created)
		if err == nil {
			return id, created, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, fmt.Errorf("resolve %s %q: %w", kind, name, err)
		}
	}
	return uuid.Nil, false, fmt.Errorf("resolve %s %q: no row after %d attempts", kind, name, resolveAttempts)
}

// FindCompanyIDFold looks a company up by case-insensitive name. The oldest
// match wins when several rows differ only in case.
func (s *pgxContactStore) FindCompanyIDFold(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return s.findFold(ctx, "company", name, `SELECT id FROM companies WHERE lower(name) = lower($1) ORDER BY created_at LIMIT 1`)
}

// FindDepartmentIDFold is FindCompanyIDFold for departments.
func (s *pgxContactStore) FindDepartmentIDFold(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return s.findFold(ctx, "department", name, `SELECT id FROM departments WHERE lower(name) = lower($1) ORDER BY created_at LIMIT 1`)
}

func (s *pgxContactStore) findFold(ctx context.Context, kind, name, query string) (uuid.UUID, bool, error) {
	var id uuid.UUID
	if err := s.q.QueryRow(ctx, query, name).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("lookup %s %q: %w", kind, name, err)
	}
	return id, true, nil
}
