package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrPlanNotFound   = errors.New("plan not found")
)

// InvalidInputError is returned when a creation request fails validation.
// Fatal: nothing is created.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// DuplicateTenantError is returned when a tenant with the same normalized
// tax ID already exists, either from the pre-check or from the store's
// unique constraint. It carries the conflicting tenant so the caller can
// disambiguate.
type DuplicateTenantError struct {
	TenantID  string
	LegalName string
	TaxID     string
}

func (e *DuplicateTenantError) Error() string {
	return fmt.Sprintf("tenant with tax ID %s already exists (%s, id %s)", e.TaxID, e.LegalName, e.TenantID)
}

// StoreUnavailableError wraps a tenant-store failure. Fatal at any step
// that touches the store; never silently treated as "not found".
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("tenant store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// NotificationProviderError is the mail provider's error shape, produced
// by the notification adapter so the classifier can inspect the status
// and detail without knowing the provider.
type NotificationProviderError struct {
	StatusCode int
	Detail     string
}

func (e *NotificationProviderError) Error() string {
	return fmt.Sprintf("notification provider returned %d: %s", e.StatusCode, e.Detail)
}

// TransitionError is returned when a state transition is not allowed.
type TransitionError struct {
	Event   Event
	Current Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from state %q", e.Event, e.Current)
}

// WarningKind identifies a non-fatal onboarding failure.
type WarningKind string

const (
	WarnSubscriptionProvisioningFailed WarningKind = "subscription_provisioning_failed"
	WarnFinancialTitleCreationFailed   WarningKind = "financial_title_creation_failed"
	WarnProviderDeliveryIssue          WarningKind = "provider_delivery_issue"
	WarnNotificationFailed             WarningKind = "notification_failed"
)

// Warning records a best-effort saga step that failed. A tenant returned
// with warnings has been created successfully and needs manual follow-up,
// never a retry of the whole operation.
type Warning struct {
	Kind   WarningKind
	Detail string
	// Domain is the recipient email domain, set only for delivery issues.
	Domain string
}
