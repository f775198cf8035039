package domain_test

import (
	"errors"
	"testing"

	"github.com/plenno/plenno/internal/domain"
)

func validRequest() domain.CreationRequest {
	return domain.CreationRequest{
		LegalName:  "ACME Ltda",
		TradeName:  "ACME",
		TaxID:      "11.222.333/0001-81",
		Email:      "contato@acme.com.br",
		Phone:      "+55 11 99999-0000",
		PlanID:     "professional",
		AdminName:  "Ana Souza",
		AdminEmail: "ana@acme.com.br",
		ModuleIDs:  []string{"crm", "financeiro"},
	}
}

func TestNormalize_Success(t *testing.T) {
	in, err := validRequest().Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if in.TaxID != "11222333000181" {
		t.Errorf("TaxID = %q, want %q", in.TaxID, "11222333000181")
	}
	if in.LegalName != "ACME Ltda" {
		t.Errorf("LegalName = %q, want %q", in.LegalName, "ACME Ltda")
	}
	if len(in.ModuleIDs) != 2 {
		t.Errorf("ModuleIDs = %v, want 2 entries", in.ModuleIDs)
	}
}

func TestNormalize_MissingRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.CreationRequest)
		field  string
	}{
		{"legal name", func(r *domain.CreationRequest) { r.LegalName = "" }, "legal_name"},
		{"tax id", func(r *domain.CreationRequest) { r.TaxID = "" }, "tax_id"},
		{"email", func(r *domain.CreationRequest) { r.Email = "" }, "email"},
		{"plan", func(r *domain.CreationRequest) { r.PlanID = "" }, "plan"},
		{"admin name", func(r *domain.CreationRequest) { r.AdminName = "" }, "admin_name"},
		{"admin email", func(r *domain.CreationRequest) { r.AdminEmail = "" }, "admin_email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			_, err := req.Normalize()
			var invalid *domain.InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
			if invalid.Field != tc.field {
				t.Errorf("Field = %q, want %q", invalid.Field, tc.field)
			}
		})
	}
}

func TestNormalize_BadTaxID(t *testing.T) {
	req := validRequest()
	req.TaxID = "11.222.333/0001"

	_, err := req.Normalize()
	var invalid *domain.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if invalid.Field != "tax_id" {
		t.Errorf("Field = %q, want %q", invalid.Field, "tax_id")
	}
}

func TestNormalize_BadChecksum(t *testing.T) {
	req := validRequest()
	req.TaxID = "11.222.333/0001-82"

	_, err := req.Normalize()
	var invalid *domain.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if invalid.Reason != "check digits do not match" {
		t.Errorf("Reason = %q, want checksum failure", invalid.Reason)
	}
}
