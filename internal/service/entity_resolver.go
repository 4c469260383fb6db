package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/contacts-hub/internal/config"
	"github.com/octobees/contacts-hub/internal/entity"
	"github.com/octobees/contacts-hub/internal/metrics"
	"github.com/octobees/contacts-hub/internal/repository"
)

// EntityResolver maps company and department names to row ids, creating the
// rows on first sight.
type EntityResolver struct {
	matching string
}

// NewEntityResolver builds a resolver for the given name matching mode.
func NewEntityResolver(matching string) *EntityResolver {
	if matching != config.OrgMatchingNormalized {
		matching = config.OrgMatchingExact
	}
	return &EntityResolver{matching: matching}
}

// ResolveCompany returns nil for a blank name. attrs are only written when the
// company is created by this call, which created reports.
func (r *EntityResolver) ResolveCompany(ctx context.Context, store repository.ContactStore, name string, attrs *entity.CompanyAttributes) (*uuid.UUID, bool, error) {
	name, ok := r.prepare(name)
	if !ok {
		return nil, false, nil
	}

	if r.matching == config.OrgMatchingNormalized {
		id, found, err := store.FindCompanyIDFold(ctx, name)
		if err != nil {
			return nil, false, err
		}
		if found {
			metrics.OrgResolutionsTotal.WithLabelValues("company", metrics.OutcomeMatched).Inc()
			return &id, false, nil
		}
	}

	id, created, err := store.ResolveCompany(ctx, name, attrs)
	if err != nil {
		return nil, false, err
	}
	observeResolution("company", created)
	return &id, created, nil
}

// ResolveDepartment returns nil for a blank name.
func (r *EntityResolver) ResolveDepartment(ctx context.Context, store repository.ContactStore, name string) (*uuid.UUID, error) {
	name, ok := r.prepare(name)
	if !ok {
		return nil, nil
	}

	if r.matching == config.OrgMatchingNormalized {
		id, found, err := store.FindDepartmentIDFold(ctx, name)
		if err != nil {
			return nil, err
		}
		if found {
			metrics.OrgResolutionsTotal.WithLabelValues("department", metrics.OutcomeMatched).Inc()
			return &id, nil
		}
	}

	id, created, err := store.ResolveDepartment(ctx, name)
	if err != nil {
		return nil, err
	}
	observeResolution("department", created)
	return &id, nil
}

func (r *EntityResolver) prepare(name string) (string, bool) {
	if strings.TrimSpace(name) == "" {
		return "", false
	}
	if r.matching == config.OrgMatchingNormalized {
		return normalizeOrgName(name), true
	}
	return name, true
}

func observeResolution(kind string, created bool) {
	outcome := metrics.OutcomeMatched
	if created {
		outcome = metrics.OutcomeCreated
	}
	metrics.OrgResolutionsTotal.WithLabelValues(kind, outcome).Inc()
}
