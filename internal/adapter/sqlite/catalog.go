package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plenno/plenno/internal/domain"
)

// PlanCatalog implements domain.PlanCatalog over the migration-seeded
// plans table.
type PlanCatalog struct {
	db *sql.DB
}

// NewPlanCatalog wraps a connection that has already been migrated.
func NewPlanCatalog(db *sql.DB) *PlanCatalog {
	return &PlanCatalog{db: db}
}

func (c *PlanCatalog) GetPlan(ctx context.Context, id string) (domain.Plan, error) {
	var p domain.Plan
	err := c.db.QueryRowContext(ctx,
		`SELECT id, name, price FROM plans WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Price)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Plan{}, domain.ErrPlanNotFound
		}
		return domain.Plan{}, fmt.Errorf("querying plan: %w", err)
	}
	return p, nil
}

// ModuleCatalog implements domain.ModuleCatalog over the modules table.
type ModuleCatalog struct {
	db *sql.DB
}

// NewModuleCatalog wraps a connection that has already been migrated.
func NewModuleCatalog(db *sql.DB) *ModuleCatalog {
	return &ModuleCatalog{db: db}
}

// ResolveNames maps module IDs to their display names. IDs without a
// catalog entry come back unchanged, so unknown modules never block the
// caller.
func (c *ModuleCatalog) ResolveNames(ctx context.Context, ids []string) ([]string, error) {
	names := make([]string, len(ids))
	for i, id := range ids {
		var name string
		err := c.db.QueryRowContext(ctx,
			`SELECT name FROM modules WHERE id = ?`, id,
		).Scan(&name)
		switch {
		case err == sql.ErrNoRows:
			names[i] = id
		case err != nil:
			return nil, fmt.Errorf("querying module %q: %w", id, err)
		default:
			names[i] = name
		}
	}
	return names, nil
}
