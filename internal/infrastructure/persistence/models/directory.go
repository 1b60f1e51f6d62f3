package models

import (
	"github.com/invoicemonk/backend/internal/domain/directory"
)

// BusinessProfileModel is the persistence model for the issuing business
// profile. One row per tenant.
type BusinessProfileModel struct {
	TenantAggregateModel
	LegalName           string `gorm:"type:varchar(200);not null"`
	TradeName           string `gorm:"type:varchar(200)"`
	TaxID               string `gorm:"type:varchar(50);not null"`
	Email               string `gorm:"type:varchar(200);not null"`
	EmailVerified       bool   `gorm:"not null;default:false"`
	Phone               string `gorm:"type:varchar(50)"`
	AddressLine1        string `gorm:"type:varchar(200)"`
	AddressLine2        string `gorm:"type:varchar(200)"`
	City                string `gorm:"type:varchar(100)"`
	Region              string `gorm:"type:varchar(100)"`
	PostalCode          string `gorm:"type:varchar(20)"`
	Country             string `gorm:"type:varchar(2)"`
	Jurisdiction        string `gorm:"type:varchar(2);index"`
	PaymentTermsDays    int    `gorm:"not null;default:30"`
	PaymentInstructions string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (BusinessProfileModel) TableName() string {
	return "business_profiles"
}

// ToDomain converts the persistence model to a domain BusinessProfile.
func (m *BusinessProfileModel) ToDomain() *directory.BusinessProfile {
	p := &directory.BusinessProfile{
		LegalName:           m.LegalName,
		TradeName:           m.TradeName,
		TaxID:               m.TaxID,
		Email:               m.Email,
		EmailVerified:       m.EmailVerified,
		Phone:               m.Phone,
		AddressLine1:        m.AddressLine1,
		AddressLine2:        m.AddressLine2,
		City:                m.City,
		Region:              m.Region,
		PostalCode:          m.PostalCode,
		Country:             m.Country,
		Jurisdiction:        m.Jurisdiction,
		PaymentTermsDays:    m.PaymentTermsDays,
		PaymentInstructions: m.PaymentInstructions,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain BusinessProfile.
func (m *BusinessProfileModel) FromDomain(p *directory.BusinessProfile) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.LegalName = p.LegalName
	m.TradeName = p.TradeName
	m.TaxID = p.TaxID
	m.Email = p.Email
	m.EmailVerified = p.EmailVerified
	m.Phone = p.Phone
	m.AddressLine1 = p.AddressLine1
	m.AddressLine2 = p.AddressLine2
	m.City = p.City
	m.Region = p.Region
	m.PostalCode = p.PostalCode
	m.Country = p.Country
	m.Jurisdiction = p.Jurisdiction
	m.PaymentTermsDays = p.PaymentTermsDays
	m.PaymentInstructions = p.PaymentInstructions
}

// BusinessProfileModelFromDomain creates a new persistence model from a domain BusinessProfile.
func BusinessProfileModelFromDomain(p *directory.BusinessProfile) *BusinessProfileModel {
	m := &BusinessProfileModel{}
	m.FromDomain(p)
	return m
}

// ClientModel is the persistence model for a directory client.
type ClientModel struct {
	TenantAggregateModel
	Name         string                 `gorm:"type:varchar(200);not null"`
	Email        string                 `gorm:"type:varchar(200);index"`
	TaxID        string                 `gorm:"type:varchar(50)"`
	Phone        string                 `gorm:"type:varchar(50)"`
	AddressLine1 string                 `gorm:"type:varchar(200)"`
	AddressLine2 string                 `gorm:"type:varchar(200)"`
	City         string                 `gorm:"type:varchar(100)"`
	Region       string                 `gorm:"type:varchar(100)"`
	PostalCode   string                 `gorm:"type:varchar(20)"`
	Country      string                 `gorm:"type:varchar(2)"`
	Notes        string                 `gorm:"type:text"`
	Status       directory.ClientStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client.
func (m *ClientModel) ToDomain() *directory.Client {
	c := &directory.Client{
		Name:         m.Name,
		Email:        m.Email,
		TaxID:        m.TaxID,
		Phone:        m.Phone,
		AddressLine1: m.AddressLine1,
		AddressLine2: m.AddressLine2,
		City:         m.City,
		Region:       m.Region,
		PostalCode:   m.PostalCode,
		Country:      m.Country,
		Notes:        m.Notes,
		Status:       m.Status,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Client.
func (m *ClientModel) FromDomain(c *directory.Client) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.TaxID = c.TaxID
	m.Phone = c.Phone
	m.AddressLine1 = c.AddressLine1
	m.AddressLine2 = c.AddressLine2
	m.City = c.City
	m.Region = c.Region
	m.PostalCode = c.PostalCode
	m.Country = c.Country
	m.Notes = c.Notes
	m.Status = c.Status
}

// ClientModelFromDomain creates a new persistence model from a domain Client.
func ClientModelFromDomain(c *directory.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}
