package directory

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/shared"
)

// BusinessProfile is the issuing party of a tenant's documents. One tenant
// owns exactly one profile; its fields are copied into document snapshots at
// issuance, so later edits here never affect already issued documents.
type BusinessProfile struct {
	shared.TenantAggregateRoot
	LegalName           string `json:"legal_name"`
	TradeName           string `json:"trade_name,omitempty"`
	TaxID               string `json:"tax_id"`
	Email               string `json:"email"`
	EmailVerified       bool   `json:"email_verified"`
	Phone               string `json:"phone,omitempty"`
	AddressLine1        string `json:"address_line1"`
	AddressLine2        string `json:"address_line2,omitempty"`
	City                string `json:"city"`
	Region              string `json:"region,omitempty"`
	PostalCode          string `json:"postal_code,omitempty"`
	Country             string `json:"country"`
	Jurisdiction        string `json:"jurisdiction"` // drives retention policy lookup
	PaymentTermsDays    int    `json:"payment_terms_days"`
	PaymentInstructions string `json:"payment_instructions,omitempty"`
}

// NewBusinessProfile creates a business profile for a tenant
func NewBusinessProfile(tenantID uuid.UUID, legalName, taxID, email, country string) (*BusinessProfile, error) {
	if err := validateName(legalName, "INVALID_LEGAL_NAME", "Legal name"); err != nil {
		return nil, err
	}
	if err := validateTaxID(taxID); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateCountry(country); err != nil {
		return nil, err
	}

	profile := &BusinessProfile{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		LegalName:           legalName,
		TaxID:               taxID,
		Email:               strings.ToLower(email),
		Country:             strings.ToUpper(country),
		Jurisdiction:        strings.ToUpper(country),
		PaymentTermsDays:    30,
	}

	profile.AddDomainEvent(NewBusinessProfileCreatedEvent(profile))

	return profile, nil
}

// DisplayName returns the trade name when set, otherwise the legal name
func (b *BusinessProfile) DisplayName() string {
	if b.TradeName != "" {
		return b.TradeName
	}
	return b.LegalName
}

// Update updates the profile's identifying information
func (b *BusinessProfile) Update(legalName, tradeName, taxID string) error {
	if err := validateName(legalName, "INVALID_LEGAL_NAME", "Legal name"); err != nil {
		return err
	}
	if tradeName != "" && len(tradeName) > 200 {
		return shared.NewDomainError("INVALID_TRADE_NAME", "Trade name cannot exceed 200 characters")
	}
	if err := validateTaxID(taxID); err != nil {
		return err
	}

	b.LegalName = legalName
	b.TradeName = tradeName
	b.TaxID = taxID
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBusinessProfileUpdatedEvent(b))

	return nil
}

// SetContact updates email and phone. Changing the email resets the
// verified flag until the new address is confirmed.
func (b *BusinessProfile) SetContact(email, phone string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}

	normalized := strings.ToLower(email)
	if normalized != b.Email {
		b.EmailVerified = false
	}
	b.Email = normalized
	b.Phone = phone
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// MarkEmailVerified records a completed email verification
func (b *BusinessProfile) MarkEmailVerified() {
	b.EmailVerified = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// SetAddress updates the postal address
func (b *BusinessProfile) SetAddress(line1, line2, city, region, postalCode, country string) error {
	if line1 == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Address line 1 cannot be empty")
	}
	if len(line1) > 200 || len(line2) > 200 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address lines cannot exceed 200 characters")
	}
	if city == "" || len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City must be between 1 and 100 characters")
	}
	if err := validateCountry(country); err != nil {
		return err
	}

	b.AddressLine1 = line1
	b.AddressLine2 = line2
	b.City = city
	b.Region = region
	b.PostalCode = postalCode
	b.Country = strings.ToUpper(country)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetJurisdiction overrides the retention jurisdiction independently of the
// postal country (e.g. a branch invoicing under a parent's registration).
func (b *BusinessProfile) SetJurisdiction(jurisdiction string) error {
	if err := validateCountry(jurisdiction); err != nil {
		return shared.NewDomainError("INVALID_JURISDICTION", "Jurisdiction must be a two-letter country code")
	}

	b.Jurisdiction = strings.ToUpper(jurisdiction)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetPaymentTerms updates default payment terms applied to new documents
func (b *BusinessProfile) SetPaymentTerms(days int, instructions string) error {
	if days < 0 || days > 365 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms must be between 0 and 365 days")
	}
	if len(instructions) > 1000 {
		return shared.NewDomainError("INVALID_PAYMENT_INSTRUCTIONS", "Payment instructions cannot exceed 1000 characters")
	}

	b.PaymentTermsDays = days
	b.PaymentInstructions = instructions
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// FullAddress returns the formatted postal address
func (b *BusinessProfile) FullAddress() string {
	parts := []string{}
	for _, p := range []string{b.AddressLine1, b.AddressLine2, b.City, b.Region, b.PostalCode, b.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Validation functions

func validateName(name, code, label string) error {
	if name == "" {
		return shared.NewDomainError(code, label+" cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(code, label+" cannot exceed 200 characters")
	}
	return nil
}

func validateTaxID(taxID string) error {
	if taxID == "" {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot be empty")
	}
	if len(taxID) > 50 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}
	return nil
}

func validateCountry(country string) error {
	if len(country) != 2 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country must be a two-letter ISO code")
	}
	for _, r := range country {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
			return shared.NewDomainError("INVALID_COUNTRY", "Country must be a two-letter ISO code")
		}
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
