package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/plenno/plenno/internal/domain"
)

// Compile-time checks: both dispatchers implement the domain port.
var (
	_ domain.NotificationDispatcher = (*Dispatcher)(nil)
	_ domain.NotificationDispatcher = (*LogDispatcher)(nil)
)

// sendRequest is the payload posted to the mail provider. The onboarding
// content goes out as a single consolidated message: welcome, links,
// first-invoice amount and enabled modules together.
type sendRequest struct {
	To           string   `json:"to"`
	Name         string   `json:"name"`
	Template     string   `json:"template"`
	TenantID     string   `json:"tenant_id"`
	ContractLink string   `json:"contract_link"`
	ConfirmLink  string   `json:"confirm_link"`
	PaymentLink  string   `json:"payment_link"`
	ProRataValue float64  `json:"pro_rata_value"`
	Modules      []string `json:"modules"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

// Dispatcher sends onboarding mail through an HTTP mail provider.
type Dispatcher struct {
	client *resty.Client
	from   string
	log    *slog.Logger
}

// New creates a dispatcher for the provider at baseURL.
func New(baseURL, apiKey, from string, logger *slog.Logger) *Dispatcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(apiKey)

	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{client: client, from: from, log: logger}
}

// SendOnboarding posts the consolidated onboarding message. A non-2xx
// provider response comes back as a NotificationProviderError carrying
// the status code and the provider's own error detail.
func (d *Dispatcher) SendOnboarding(ctx context.Context, msg domain.OnboardingMessage) error {
	req := sendRequest{
		To:           msg.RecipientEmail,
		Name:         msg.RecipientName,
		Template:     "tenant_onboarding",
		TenantID:     msg.TenantID,
		ContractLink: msg.Links.Contract,
		ConfirmLink:  msg.Links.Confirm,
		PaymentLink:  msg.Links.Payment,
		ProRataValue: msg.ProRataValue,
		Modules:      msg.ModuleNames,
	}

	var body sendResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("X-Mail-From", d.from).
		SetBody(req).
		SetResult(&body).
		SetError(&body).
		Post("/v1/messages")
	if err != nil {
		return fmt.Errorf("calling mail provider: %w", err)
	}

	if resp.IsError() {
		detail := body.Error
		if detail == "" {
			detail = resp.Status()
		}
		return &domain.NotificationProviderError{
			StatusCode: resp.StatusCode(),
			Detail:     detail,
		}
	}

	d.log.InfoContext(ctx, "onboarding mail sent",
		"tenant_id", msg.TenantID, "to", msg.RecipientEmail, "message_id", body.MessageID)
	return nil
}

// LogDispatcher writes the onboarding message to the log instead of
// sending it. Used when no mail provider is configured, so local runs
// still show what would have gone out.
type LogDispatcher struct {
	log *slog.Logger
}

// NewLogDispatcher creates a log-only dispatcher.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{log: logger}
}

func (d *LogDispatcher) SendOnboarding(ctx context.Context, msg domain.OnboardingMessage) error {
	d.log.InfoContext(ctx, "onboarding mail (log only)",
		"tenant_id", msg.TenantID,
		"to", msg.RecipientEmail,
		"contract_link", msg.Links.Contract,
		"confirm_link", msg.Links.Confirm,
		"payment_link", msg.Links.Payment,
		"pro_rata_value", msg.ProRataValue,
		"modules", msg.ModuleNames,
	)
	return nil
}
