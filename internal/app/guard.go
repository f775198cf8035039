package app

import (
	"context"
	"errors"

	"github.com/plenno/plenno/internal/domain"
)

// DuplicateGuard is the fast-path duplicate pre-check on the normalized
// tax ID. It is a user-experience optimization: the store's unique
// constraint remains the actual correctness guarantee against the
// check-then-act race between concurrent onboardings.
type DuplicateGuard struct {
	repo domain.TenantRepository
}

// NewDuplicateGuard creates a guard over the given repository.
func NewDuplicateGuard(repo domain.TenantRepository) *DuplicateGuard {
	return &DuplicateGuard{repo: repo}
}

// Find returns the tenant holding the given normalized tax ID, if any.
// Store failures propagate; treating them as "not found" would let
// duplicate tenants through.
func (g *DuplicateGuard) Find(ctx context.Context, taxID string) (domain.Tenant, bool, error) {
	tenant, err := g.repo.FindByTaxID(ctx, taxID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return domain.Tenant{}, false, nil
		}
		return domain.Tenant{}, false, err
	}
	return tenant, true, nil
}

// Exists reports whether any tenant holds the given normalized tax ID.
func (g *DuplicateGuard) Exists(ctx context.Context, taxID string) (bool, error) {
	_, found, err := g.Find(ctx, taxID)
	return found, err
}
