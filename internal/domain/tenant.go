package domain

import "time"

// Status represents the lifecycle state of a tenant.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusCanceled  Status = "canceled"
)

// PendingReason explains why a tenant is still in the pending state.
type PendingReason string

const (
	PendingContractSignature PendingReason = "contract_signature"
	PendingProRataPayment    PendingReason = "pro_rata_payment"
	PendingNone              PendingReason = ""
)

// Event represents an action that triggers a state transition.
type Event string

const (
	EventActivate   Event = "activate"
	EventSuspend    Event = "suspend"
	EventReactivate Event = "reactivate"
	EventDeactivate Event = "deactivate"
	EventCancel     Event = "cancel"

	// EventOnboarded is published when the onboarding saga finishes.
	// It is not a state transition; the tenant stays pending until the
	// contract is signed and the first invoice is paid.
	EventOnboarded Event = "onboarded"
)

// Transition defines a valid state change: an event moves a tenant from Src to Dst.
type Transition struct {
	Event Event
	Src   Status
	Dst   Status
}

// Transitions defines all valid state changes in the tenant lifecycle.
// This is domain knowledge consumed by the FSM adapter.
var Transitions = []Transition{
	{Event: EventActivate, Src: StatusPending, Dst: StatusActive},
	{Event: EventSuspend, Src: StatusActive, Dst: StatusSuspended},
	{Event: EventReactivate, Src: StatusSuspended, Dst: StatusActive},
	{Event: EventReactivate, Src: StatusInactive, Dst: StatusActive},
	{Event: EventDeactivate, Src: StatusActive, Dst: StatusInactive},
	{Event: EventCancel, Src: StatusPending, Dst: StatusCanceled},
	{Event: EventCancel, Src: StatusActive, Dst: StatusCanceled},
	{Event: EventCancel, Src: StatusSuspended, Dst: StatusCanceled},
	{Event: EventCancel, Src: StatusInactive, Dst: StatusCanceled},
}

// Address is an optional postal address attached to a tenant.
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
}

// Tenant is the core domain entity representing an onboarded organization.
// TaxID is always stored normalized (digits only).
type Tenant struct {
	ID            string
	LegalName     string
	TradeName     string
	TaxID         string
	PlanID        string
	Status        Status
	PendingReason PendingReason
	Email         string
	Phone         string
	AdminName     string
	AdminEmail    string
	Address       *Address
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTenant creates a tenant in the initial pending state, waiting for
// the contract signature.
func NewTenant(id string, in NormalizedInput) Tenant {
	now := time.Now().UTC()
	return Tenant{
		ID:            id,
		LegalName:     in.LegalName,
		TradeName:     in.TradeName,
		TaxID:         in.TaxID,
		PlanID:        in.PlanID,
		Status:        StatusPending,
		PendingReason: PendingContractSignature,
		Email:         in.Email,
		Phone:         in.Phone,
		AdminName:     in.AdminName,
		AdminEmail:    in.AdminEmail,
		Address:       in.Address,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
