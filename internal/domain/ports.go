package domain

import (
	"context"
	"time"
)

// TenantRepository defines the persistence contract for tenants. The store
// enforces tax-ID uniqueness with a constraint; Create must surface a
// violation of it as a DuplicateTenantError.
type TenantRepository interface {
	Create(ctx context.Context, tenant Tenant) error
	GetByID(ctx context.Context, id string) (Tenant, error)
	FindByTaxID(ctx context.Context, taxID string) (Tenant, error)
	List(ctx context.Context, filter ListFilter) ([]Tenant, error)
	Update(ctx context.Context, tenant Tenant) error
}

// ListFilter holds optional criteria for listing tenants.
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

// PlanCatalog resolves a plan ID to its name and monthly price.
type PlanCatalog interface {
	GetPlan(ctx context.Context, id string) (Plan, error)
}

// ModuleCatalog resolves module IDs to display names. IDs with no catalog
// entry come back as the raw ID rather than an error, so an unknown module
// never blocks a notification.
type ModuleCatalog interface {
	ResolveNames(ctx context.Context, ids []string) ([]string, error)
}

// SubscriptionProvisioner creates a billing subscription for a tenant and
// plan. The subscription it returns stays inactive until payment clears.
type SubscriptionProvisioner interface {
	Provision(ctx context.Context, tenantID, planID string) (Subscription, error)
}

// FinancialLedger creates financial titles. The orchestrator only ever
// calls it once per onboarding, for the pro-rata title.
type FinancialLedger interface {
	CreateProRataTitle(ctx context.Context, tenantID string, dueDate time.Time, value float64) (FinancialTitle, error)
}

// OnboardingLinks are the three links bundled into the onboarding message.
type OnboardingLinks struct {
	Contract string
	Confirm  string
	Payment  string
}

// OnboardingMessage is the single consolidated notification sent at the
// end of the saga.
type OnboardingMessage struct {
	TenantID       string
	RecipientName  string
	RecipientEmail string
	Links          OnboardingLinks
	ProRataValue   float64
	ModuleNames    []string
}

// NotificationDispatcher sends the onboarding message. Provider failures
// should surface as a NotificationProviderError where the provider gives
// enough shape to classify them.
type NotificationDispatcher interface {
	SendOnboarding(ctx context.Context, msg OnboardingMessage) error
}

// EventPublisher defines the contract for emitting domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event, tenant Tenant) error
}

// TransitionValidator checks lifecycle state changes.
type TransitionValidator interface {
	Apply(ctx context.Context, current Status, event Event) (Status, error)
}
