package app

import (
	"errors"
	"strings"

	"github.com/plenno/plenno/internal/domain"
)

// ErrorKind is the closed taxonomy every raw collaborator failure maps into.
type ErrorKind string

const (
	KindInvalidInput                   ErrorKind = "invalid_input"
	KindDuplicateTenant                ErrorKind = "duplicate_tenant"
	KindStoreUnavailable               ErrorKind = "store_unavailable"
	KindSubscriptionProvisioningFailed ErrorKind = "subscription_provisioning_failed"
	KindFinancialTitleCreationFailed   ErrorKind = "financial_title_creation_failed"
	KindProviderDeliveryIssue          ErrorKind = "provider_delivery_issue"
	KindNotificationFailed             ErrorKind = "notification_failed"
)

// ClassifyContext tells the classifier which saga step produced the error
// and, for notification failures, who the recipient was.
type ClassifyContext struct {
	Step           string
	RecipientEmail string
}

// Classifier maps raw collaborator errors into the taxonomy. It never
// re-throws; callers always get a classified kind and decide fatal vs
// warning themselves.
type Classifier struct {
	problemDomains map[string]struct{}
}

// NewClassifier builds a classifier. problemDomains lists recipient email
// domains known to bounce transactional mail (e.g. consumer providers);
// failures for those recipients classify as delivery issues instead of
// generic notification failures.
func NewClassifier(problemDomains []string) *Classifier {
	set := make(map[string]struct{}, len(problemDomains))
	for _, d := range problemDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			set[d] = struct{}{}
		}
	}
	return &Classifier{problemDomains: set}
}

// Classify returns the taxonomy kind for a raw error.
func (c *Classifier) Classify(err error, cctx ClassifyContext) ErrorKind {
	var invalid *domain.InvalidInputError
	if errors.As(err, &invalid) {
		return KindInvalidInput
	}

	var dup *domain.DuplicateTenantError
	if errors.As(err, &dup) {
		return KindDuplicateTenant
	}

	var store *domain.StoreUnavailableError
	if errors.As(err, &store) {
		return KindStoreUnavailable
	}

	switch cctx.Step {
	case StepProvisionSubscription:
		return KindSubscriptionProvisioningFailed
	case StepCreateProRataTitle:
		return KindFinancialTitleCreationFailed
	case StepSendNotification:
		// A failure for a recipient on a known-problematic domain is a
		// delivery issue; anything else is a generic notification failure,
		// whatever shape the provider error took.
		if _, bad := c.problemDomains[emailDomain(cctx.RecipientEmail)]; bad {
			return KindProviderDeliveryIssue
		}
		return KindNotificationFailed
	}

	// Unknown step: classify as the generic notification failure, the same
	// default Warning falls back to.
	return KindNotificationFailed
}

// Warning turns a best-effort step failure into the warning attached to
// the successful onboarding result.
func (c *Classifier) Warning(err error, cctx ClassifyContext) domain.Warning {
	kind := c.Classify(err, cctx)

	w := domain.Warning{Detail: err.Error()}
	switch kind {
	case KindSubscriptionProvisioningFailed:
		w.Kind = domain.WarnSubscriptionProvisioningFailed
	case KindFinancialTitleCreationFailed:
		w.Kind = domain.WarnFinancialTitleCreationFailed
	case KindProviderDeliveryIssue:
		w.Kind = domain.WarnProviderDeliveryIssue
		w.Domain = emailDomain(cctx.RecipientEmail)
	default:
		w.Kind = domain.WarnNotificationFailed
	}
	return w
}

func emailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
