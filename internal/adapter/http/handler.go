package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/plenno/plenno/internal/app"
	"github.com/plenno/plenno/internal/domain"
)

// TenantResponse is the API representation of a tenant.
type TenantResponse struct {
	ID            string           `json:"id" doc:"Unique identifier"`
	LegalName     string           `json:"legal_name" doc:"Registered company name"`
	TradeName     string           `json:"trade_name,omitempty" doc:"Trade name"`
	TaxID         string           `json:"tax_id" doc:"Normalized 14-digit tax ID"`
	Plan          string           `json:"plan" doc:"Subscription plan"`
	Status        string           `json:"status" doc:"Lifecycle state"`
	PendingReason string           `json:"pending_reason,omitempty" doc:"Why the tenant is still pending"`
	AdminName     string           `json:"admin_name" doc:"Administrator name"`
	AdminEmail    string           `json:"admin_email" doc:"Administrator email"`
	Address       *AddressResponse `json:"address,omitempty" doc:"Postal address"`
	CreatedAt     string           `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt     string           `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

// AddressResponse is the API representation of a postal address.
type AddressResponse struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// WarningResponse describes a best-effort onboarding step that failed.
type WarningResponse struct {
	Kind   string `json:"kind" doc:"Warning category"`
	Detail string `json:"detail" doc:"Raw failure detail for manual follow-up"`
	Domain string `json:"domain,omitempty" doc:"Recipient email domain, for delivery issues"`
}

func toTenantResponse(t domain.Tenant) TenantResponse {
	resp := TenantResponse{
		ID:            t.ID,
		LegalName:     t.LegalName,
		TradeName:     t.TradeName,
		TaxID:         t.TaxID,
		Plan:          t.PlanID,
		Status:        string(t.Status),
		PendingReason: string(t.PendingReason),
		AdminName:     t.AdminName,
		AdminEmail:    t.AdminEmail,
		CreatedAt:     t.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:     t.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if t.Address != nil {
		resp.Address = &AddressResponse{
			Street:     t.Address.Street,
			City:       t.Address.City,
			State:      t.Address.State,
			PostalCode: t.Address.PostalCode,
		}
	}
	return resp
}

func toWarningResponses(warnings []domain.Warning) []WarningResponse {
	out := make([]WarningResponse, len(warnings))
	for i, w := range warnings {
		out[i] = WarningResponse{Kind: string(w.Kind), Detail: w.Detail, Domain: w.Domain}
	}
	return out
}

// --- Onboard Tenant ---

type AddressInput struct {
	Street     string `json:"street,omitempty" maxLength:"255"`
	City       string `json:"city,omitempty" maxLength:"100"`
	State      string `json:"state,omitempty" maxLength:"2"`
	PostalCode string `json:"postal_code,omitempty" maxLength:"20"`
}

type OnboardTenantInput struct {
	Body struct {
		LegalName  string        `json:"legal_name" minLength:"1" maxLength:"255" doc:"Registered company name"`
		TradeName  string        `json:"trade_name,omitempty" maxLength:"255" doc:"Trade name"`
		TaxID      string        `json:"tax_id" minLength:"14" maxLength:"20" doc:"Tax ID, punctuation allowed"`
		Email      string        `json:"email" format:"email" doc:"Company contact email"`
		Phone      string        `json:"phone,omitempty" maxLength:"30" doc:"Company phone"`
		Plan       string        `json:"plan" minLength:"1" doc:"Subscription plan ID"`
		AdminName  string        `json:"admin_name" minLength:"1" maxLength:"255" doc:"Administrator name"`
		AdminEmail string        `json:"admin_email" format:"email" doc:"Administrator email"`
		Modules    []string      `json:"modules,omitempty" doc:"Module IDs to enable"`
		Address    *AddressInput `json:"address,omitempty" doc:"Postal address"`
	}
}

type OnboardTenantOutput struct {
	Body struct {
		Tenant   TenantResponse    `json:"tenant"`
		Warnings []WarningResponse `json:"warnings" doc:"Non-fatal setup failures needing follow-up"`
	}
}

// --- Get Tenant ---

type GetTenantInput struct {
	ID string `path:"id" doc:"Tenant ID"`
}

type GetTenantOutput struct {
	Body TenantResponse
}

// --- List Tenants ---

type ListTenantsInput struct {
	Status string `query:"status" required:"false" doc:"Filter by status"`
	Limit  int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListTenantsOutput struct {
	Body []TenantResponse
}

// --- Transition ---

type TransitionInput struct {
	ID   string `path:"id" doc:"Tenant ID"`
	Body struct {
		Event string `json:"event" doc:"Lifecycle event to trigger" enum:"activate,suspend,reactivate,deactivate,cancel"`
	}
}

type TransitionOutput struct {
	Body TenantResponse
}

// Register adds all tenant API routes to the Huma API.
func Register(api huma.API, orch *app.Orchestrator, svc *app.TenantService) {
	huma.Register(api, huma.Operation{
		OperationID:   "onboard-tenant",
		Method:        http.MethodPost,
		Path:          "/api/v1/tenants",
		Summary:       "Onboard a new tenant",
		Description:   "Runs the full onboarding: validation, duplicate check, creation, subscription, pro-rata invoice and notification. Warnings report best-effort steps that failed; the tenant was still created.",
		Tags:          []string{"Tenants"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *OnboardTenantInput) (*OnboardTenantOutput, error) {
		req := domain.CreationRequest{
			LegalName:  input.Body.LegalName,
			TradeName:  input.Body.TradeName,
			TaxID:      input.Body.TaxID,
			Email:      input.Body.Email,
			Phone:      input.Body.Phone,
			PlanID:     input.Body.Plan,
			AdminName:  input.Body.AdminName,
			AdminEmail: input.Body.AdminEmail,
			ModuleIDs:  input.Body.Modules,
		}
		if a := input.Body.Address; a != nil {
			req.Address = &domain.Address{
				Street:     a.Street,
				City:       a.City,
				State:      a.State,
				PostalCode: a.PostalCode,
			}
		}

		result, err := orch.Run(ctx, req)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &OnboardTenantOutput{}
		out.Body.Tenant = toTenantResponse(result.Tenant)
		out.Body.Warnings = toWarningResponses(result.Warnings)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenants/{id}",
		Summary:     "Get a tenant by ID",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *GetTenantInput) (*GetTenantOutput, error) {
		tenant, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetTenantOutput{Body: toTenantResponse(tenant)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tenants",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenants",
		Summary:     "List tenants",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *ListTenantsInput) (*ListTenantsOutput, error) {
		filter := domain.ListFilter{
			Limit:  input.Limit,
			Offset: input.Offset,
		}
		if input.Status != "" {
			s := domain.Status(input.Status)
			filter.Status = &s
		}

		tenants, err := svc.List(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]TenantResponse, len(tenants))
		for i, t := range tenants {
			resp[i] = toTenantResponse(t)
		}
		return &ListTenantsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-tenant",
		Method:      http.MethodPost,
		Path:        "/api/v1/tenants/{id}/events",
		Summary:     "Trigger a lifecycle event",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *TransitionInput) (*TransitionOutput, error) {
		tenant, err := svc.Transition(ctx, input.ID, domain.Event(input.Body.Event))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &TransitionOutput{Body: toTenantResponse(tenant)}, nil
	})
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrTenantNotFound) {
		return huma.Error404NotFound("tenant not found")
	}

	var invalid *domain.InvalidInputError
	if errors.As(err, &invalid) {
		return huma.Error422UnprocessableEntity(invalid.Error())
	}

	var dup *domain.DuplicateTenantError
	if errors.As(err, &dup) {
		return huma.Error409Conflict(dup.Error())
	}

	var store *domain.StoreUnavailableError
	if errors.As(err, &store) {
		return huma.Error503ServiceUnavailable("tenant store unavailable")
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
