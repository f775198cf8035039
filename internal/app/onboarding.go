package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/plenno/plenno/internal/domain"
)

// SagaState tracks the progress of a single onboarding attempt. The state
// is data owned by the saga runner, not reconstructed from anywhere else.
type SagaState string

const (
	StateValidating        SagaState = "validating"
	StateDuplicateChecking SagaState = "duplicate_checking"
	StateCreating          SagaState = "creating"
	StatePostCreation      SagaState = "post_creation"
	StateCompleted         SagaState = "completed"
	StateFailed            SagaState = "failed"
)

// Saga step names, shared with the classifier.
const (
	StepValidate              = "validate"
	StepDuplicateCheck        = "duplicate_check"
	StepCreateTenant          = "create_tenant"
	StepProvisionSubscription = "provision_subscription"
	StepCreateProRataTitle    = "create_pro_rata_title"
	StepSendNotification      = "send_notification"
)

// OnboardingResult is what a successful saga returns: the created tenant
// plus zero or more warnings from best-effort steps. A non-empty warning
// list means "succeeded, needs follow-up", never failure.
type OnboardingResult struct {
	Tenant   domain.Tenant
	Warnings []domain.Warning
}

// Collaborators groups the external dependencies of the orchestrator.
type Collaborators struct {
	Repo      domain.TenantRepository
	Plans     domain.PlanCatalog
	Modules   domain.ModuleCatalog
	Billing   domain.SubscriptionProvisioner
	Ledger    domain.FinancialLedger
	Notifier  domain.NotificationDispatcher
	Publisher domain.EventPublisher
}

// OrchestratorConfig holds the non-collaborator knobs.
type OrchestratorConfig struct {
	// PortalBaseURL is the prefix for the contract, confirmation and
	// payment links in the onboarding message.
	PortalBaseURL string
	// Now supplies the proration date; defaults to time.Now. Proration
	// uses the submission date, not a separate billing effective date.
	Now func() time.Time
	// Logger receives a structured event at every step boundary.
	Logger *slog.Logger
}

// Orchestrator runs the onboarding saga: validate, check duplicates,
// create the tenant, then the best-effort tail (subscription, pro-rata
// title, notification). Once the tenant row exists the saga can no longer
// fail as a whole; post-creation failures downgrade the outcome to
// warnings instead, because reporting failure while a live tenant sits in
// the store would be worse.
type Orchestrator struct {
	deps       Collaborators
	guard      *DuplicateGuard
	classifier *Classifier
	portalURL  string
	now        func() time.Time
	log        *slog.Logger
}

// NewOrchestrator creates an orchestrator with the given collaborators.
func NewOrchestrator(deps Collaborators, classifier *Classifier, cfg OrchestratorConfig) *Orchestrator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		deps:       deps,
		guard:      NewDuplicateGuard(deps.Repo),
		classifier: classifier,
		portalURL:  cfg.PortalBaseURL,
		now:        now,
		log:        log,
	}
}

// sagaStep is one entry of the ordered step list. Adding or removing a
// best-effort step means editing this list, not the control flow.
type sagaStep struct {
	name  string
	state SagaState
	fatal bool
	run   func(ctx context.Context, sr *sagaRun) error
}

// sagaRun carries the mutable state of one onboarding attempt between steps.
type sagaRun struct {
	req         domain.CreationRequest
	input       domain.NormalizedInput
	plan        domain.Plan
	tenant      domain.Tenant
	today       time.Time
	proRata     float64
	moduleNames []string
	warnings    []domain.Warning
	state       SagaState
}

// Run executes the saga for one creation request. It returns either a
// fatal error (nothing created, or a duplicate surfaced by the store
// constraint) or the created tenant with accumulated warnings.
//
// Run does not deduplicate retries: a second invocation with the same tax
// ID fails at the duplicate check.
func (o *Orchestrator) Run(ctx context.Context, req domain.CreationRequest) (OnboardingResult, error) {
	sr := &sagaRun{req: req, today: o.now().UTC()}

	for _, step := range o.steps() {
		sr.state = step.state
		start := time.Now()
		err := step.run(ctx, sr)
		elapsed := time.Since(start)

		if err == nil {
			o.log.InfoContext(ctx, "onboarding step completed",
				"step", step.name, "state", sr.state, "duration", elapsed)
			continue
		}

		if step.fatal {
			sr.state = StateFailed
			o.log.WarnContext(ctx, "onboarding failed",
				"step", step.name, "duration", elapsed, "error", err)
			return OnboardingResult{}, err
		}

		warning := o.classifier.Warning(err, ClassifyContext{
			Step:           step.name,
			RecipientEmail: sr.input.AdminEmail,
		})
		sr.warnings = append(sr.warnings, warning)
		o.log.WarnContext(ctx, "onboarding step degraded",
			"step", step.name, "warning", string(warning.Kind),
			"duration", elapsed, "error", err)
	}

	sr.state = StateCompleted
	o.publishOnboarded(ctx, sr.tenant)

	return OnboardingResult{Tenant: sr.tenant, Warnings: sr.warnings}, nil
}

func (o *Orchestrator) steps() []sagaStep {
	return []sagaStep{
		{name: StepValidate, state: StateValidating, fatal: true, run: o.validate},
		{name: StepDuplicateCheck, state: StateDuplicateChecking, fatal: true, run: o.checkDuplicate},
		{name: StepCreateTenant, state: StateCreating, fatal: true, run: o.createTenant},
		{name: StepProvisionSubscription, state: StatePostCreation, run: o.provisionSubscription},
		{name: StepCreateProRataTitle, state: StatePostCreation, run: o.createProRataTitle},
		{name: StepSendNotification, state: StatePostCreation, run: o.sendNotification},
	}
}

// validate normalizes the request and resolves the plan, so the price is
// known before anything is created.
func (o *Orchestrator) validate(ctx context.Context, sr *sagaRun) error {
	input, err := sr.req.Normalize()
	if err != nil {
		return err
	}
	sr.input = input

	plan, err := o.deps.Plans.GetPlan(ctx, input.PlanID)
	if err != nil {
		if errors.Is(err, domain.ErrPlanNotFound) {
			return &domain.InvalidInputError{Field: "plan", Reason: fmt.Sprintf("%q is not a known plan", input.PlanID)}
		}
		return &domain.StoreUnavailableError{Op: "plan lookup", Err: err}
	}
	sr.plan = plan
	return nil
}

func (o *Orchestrator) checkDuplicate(ctx context.Context, sr *sagaRun) error {
	existing, found, err := o.guard.Find(ctx, sr.input.TaxID)
	if err != nil {
		return &domain.StoreUnavailableError{Op: "duplicate check", Err: err}
	}
	if found {
		return &domain.DuplicateTenantError{
			TenantID:  existing.ID,
			LegalName: existing.LegalName,
			TaxID:     sr.input.TaxID,
		}
	}
	return nil
}

func (o *Orchestrator) createTenant(ctx context.Context, sr *sagaRun) error {
	tenant := domain.NewTenant(uuid.NewString(), sr.input)

	if err := o.deps.Repo.Create(ctx, tenant); err != nil {
		// Two concurrent onboardings can both pass the pre-check; the
		// store constraint catches the loser here.
		var dup *domain.DuplicateTenantError
		if errors.As(err, &dup) {
			return dup
		}
		return &domain.StoreUnavailableError{Op: "create tenant", Err: err}
	}

	sr.tenant = tenant
	return nil
}

func (o *Orchestrator) provisionSubscription(ctx context.Context, sr *sagaRun) error {
	_, err := o.deps.Billing.Provision(ctx, sr.tenant.ID, sr.plan.ID)
	return err
}

// createProRataTitle computes the prorated first-invoice amount and
// records it in the ledger. The amount is computed before the ledger call
// so the notification still carries it if the ledger is down.
func (o *Orchestrator) createProRataTitle(ctx context.Context, sr *sagaRun) error {
	sr.proRata = domain.ProRata(sr.plan.Price, sr.today)

	_, err := o.deps.Ledger.CreateProRataTitle(ctx, sr.tenant.ID, domain.EndOfMonth(sr.today), sr.proRata)
	return err
}

func (o *Orchestrator) sendNotification(ctx context.Context, sr *sagaRun) error {
	names, err := o.deps.Modules.ResolveNames(ctx, sr.input.ModuleIDs)
	if err != nil {
		// Unresolved modules go out as raw identifiers rather than
		// blocking the send.
		o.log.WarnContext(ctx, "module name resolution failed, sending raw identifiers", "error", err)
		names = sr.input.ModuleIDs
	}
	sr.moduleNames = names

	return o.deps.Notifier.SendOnboarding(ctx, domain.OnboardingMessage{
		TenantID:       sr.tenant.ID,
		RecipientName:  sr.input.AdminName,
		RecipientEmail: sr.input.AdminEmail,
		Links:          o.links(sr.tenant.ID),
		ProRataValue:   sr.proRata,
		ModuleNames:    names,
	})
}

func (o *Orchestrator) links(tenantID string) domain.OnboardingLinks {
	return domain.OnboardingLinks{
		Contract: fmt.Sprintf("%s/onboarding/%s/contract", o.portalURL, tenantID),
		Confirm:  fmt.Sprintf("%s/onboarding/%s/confirm", o.portalURL, tenantID),
		Payment:  fmt.Sprintf("%s/onboarding/%s/payment", o.portalURL, tenantID),
	}
}

// publishOnboarded emits the completion event. Publish failures are only
// logged; the caller already has the full result and the event stream is
// not part of the onboarding contract.
func (o *Orchestrator) publishOnboarded(ctx context.Context, tenant domain.Tenant) {
	if o.deps.Publisher == nil {
		return
	}
	if err := o.deps.Publisher.Publish(ctx, domain.EventOnboarded, tenant); err != nil {
		o.log.WarnContext(ctx, "publishing onboarded event failed",
			"tenant_id", tenant.ID, "error", err)
	}
}
