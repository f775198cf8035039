package domain

// CreationRequest is the caller-supplied input for onboarding a tenant.
// The tax ID arrives raw, in whatever format the form captured it.
type CreationRequest struct {
	LegalName  string
	TradeName  string
	TaxID      string
	Email      string
	Phone      string
	PlanID     string
	AdminName  string
	AdminEmail string
	ModuleIDs  []string
	Address    *Address
}

// NormalizedInput is a CreationRequest whose required fields have been
// checked and whose tax ID has been normalized and checksum-validated.
type NormalizedInput struct {
	LegalName  string
	TradeName  string
	TaxID      string
	Email      string
	Phone      string
	PlanID     string
	AdminName  string
	AdminEmail string
	ModuleIDs  []string
	Address    *Address
}

// Normalize validates required fields and the tax ID checksum, returning
// the normalized input or an InvalidInputError naming the offending field.
func (r CreationRequest) Normalize() (NormalizedInput, error) {
	required := []struct {
		field string
		value string
	}{
		{"legal_name", r.LegalName},
		{"tax_id", r.TaxID},
		{"email", r.Email},
		{"plan", r.PlanID},
		{"admin_name", r.AdminName},
		{"admin_email", r.AdminEmail},
	}
	for _, f := range required {
		if f.value == "" {
			return NormalizedInput{}, &InvalidInputError{Field: f.field, Reason: "is required"}
		}
	}

	taxID := NormalizeTaxID(r.TaxID)
	if len(taxID) != 14 {
		return NormalizedInput{}, &InvalidInputError{Field: "tax_id", Reason: "must contain exactly 14 digits"}
	}
	if !ValidTaxID(taxID) {
		return NormalizedInput{}, &InvalidInputError{Field: "tax_id", Reason: "check digits do not match"}
	}

	return NormalizedInput{
		LegalName:  r.LegalName,
		TradeName:  r.TradeName,
		TaxID:      taxID,
		Email:      r.Email,
		Phone:      r.Phone,
		PlanID:     r.PlanID,
		AdminName:  r.AdminName,
		AdminEmail: r.AdminEmail,
		ModuleIDs:  r.ModuleIDs,
		Address:    r.Address,
	}, nil
}
