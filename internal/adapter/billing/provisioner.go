package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/plenno/plenno/internal/domain"
)

var _ domain.SubscriptionProvisioner = (*Provisioner)(nil)

// Provisioner creates subscriptions for newly onboarded tenants. The
// current implementation registers them locally; subscriptions start
// inactive and are activated once the pro-rata payment clears.
type Provisioner struct {
	now func() time.Time
	log *slog.Logger
}

// New creates a provisioner. now defaults to time.Now.
func New(now func() time.Time, logger *slog.Logger) *Provisioner {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{now: now, log: logger}
}

// Provision registers a subscription for the tenant on the given plan.
func (p *Provisioner) Provision(ctx context.Context, tenantID, planID string) (domain.Subscription, error) {
	today := p.now().UTC()
	sub := domain.Subscription{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		PlanID:      planID,
		ExternalID:  fmt.Sprintf("sub_%s", uuid.NewString()),
		Status:      domain.SubscriptionInactive,
		PeriodStart: today,
		PeriodEnd:   domain.EndOfMonth(today),
	}

	p.log.InfoContext(ctx, "subscription provisioned",
		"tenant_id", tenantID, "plan", planID, "subscription_id", sub.ID)

	return sub, nil
}
