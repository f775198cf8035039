package domain

import "time"

// Plan is a subscription plan resolved from the plan catalog.
type Plan struct {
	ID    string
	Name  string
	Price float64
}

// Module is an optional product module a tenant can enable.
type Module struct {
	ID   string
	Name string
}

// TitleType distinguishes the one-off pro-rata invoice from the recurring
// monthly one.
type TitleType string

const (
	TitleProRata     TitleType = "pro_rata"
	TitleMensalidade TitleType = "mensalidade"
)

// TitleStatus is the payment state of a financial title. The orchestrator
// only ever creates pending titles; downstream billing owns the rest.
type TitleStatus string

const (
	TitlePending TitleStatus = "pending"
	TitleOverdue TitleStatus = "overdue"
	TitlePaid    TitleStatus = "paid"
)

// FinancialTitle is a receivable attached to a tenant. Value is stored
// with two-decimal precision.
type FinancialTitle struct {
	ID             string
	TenantID       string
	Type           TitleType
	Value          float64
	DueDate        time.Time
	Status         TitleStatus
	ReferenceMonth string
	CreatedAt      time.Time
}

// SubscriptionStatus is the billing provider's view of a subscription.
type SubscriptionStatus string

const (
	// SubscriptionInactive is the initial state; the subscription only
	// activates once the first payment clears.
	SubscriptionInactive SubscriptionStatus = "inactive"
	SubscriptionActive   SubscriptionStatus = "active"
)

// Subscription is a billing subscription created during onboarding and
// owned thereafter by the billing subsystem.
type Subscription struct {
	ID          string
	TenantID    string
	PlanID      string
	ExternalID  string
	Status      SubscriptionStatus
	PeriodStart time.Time
	PeriodEnd   time.Time
}
