package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plenno/plenno/internal/domain"
)

// TenantService handles the lifecycle of tenants after onboarding.
type TenantService struct {
	repo      domain.TenantRepository
	publisher domain.EventPublisher
	validator domain.TransitionValidator
	log       *slog.Logger
}

// NewTenantService creates a service with the given adapters.
func NewTenantService(repo domain.TenantRepository, publisher domain.EventPublisher, validator domain.TransitionValidator) *TenantService {
	return &TenantService{
		repo:      repo,
		publisher: publisher,
		validator: validator,
		log:       slog.Default(),
	}
}

// GetByID returns a tenant by its unique identifier.
func (s *TenantService) GetByID(ctx context.Context, id string) (domain.Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns tenants matching the given filter.
func (s *TenantService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Tenant, error) {
	return s.repo.List(ctx, filter)
}

// Transition applies a lifecycle event to a tenant, changing its state.
func (s *TenantService) Transition(ctx context.Context, id string, event domain.Event) (domain.Tenant, error) {
	tenant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Tenant{}, err
	}

	newStatus, err := s.validator.Apply(ctx, tenant.Status, event)
	if err != nil {
		return domain.Tenant{}, err
	}

	tenant.Status = newStatus
	if newStatus == domain.StatusActive {
		// Activation means contract and first payment cleared.
		tenant.PendingReason = domain.PendingNone
	}

	if err := s.repo.Update(ctx, tenant); err != nil {
		return domain.Tenant{}, fmt.Errorf("updating tenant: %w", err)
	}

	// The transition is committed at this point; a publish failure is
	// only logged, the event stream is not part of the transition contract.
	if err := s.publisher.Publish(ctx, event, tenant); err != nil {
		s.log.WarnContext(ctx, "publishing lifecycle event failed",
			"tenant_id", tenant.ID, "event", string(event), "error", err)
	}

	return tenant, nil
}
