package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Company is an organization shared by many contacts, keyed by its name.
type Company struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	CompanyAttributes
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyAttributes are the optional columns written when a company is first
// created. They are never updated by an import afterwards.
type CompanyAttributes struct {
	Website             *string             `json:"website,omitempty"`
	LinkedInURL         *string             `json:"linkedin_url,omitempty"`
	FacebookURL         *string             `json:"facebook_url,omitempty"`
	TwitterURL          *string             `json:"twitter_url,omitempty"`
	Industry            *string             `json:"industry,omitempty"`
	NumEmployees        *int                `json:"num_employees,omitempty"`
	AnnualRevenue       decimal.NullDecimal `json:"annual_revenue"`
	TotalFunding        decimal.NullDecimal `json:"total_funding"`
	LatestFunding       *string             `json:"latest_funding,omitempty"`
	LatestFundingAmount decimal.NullDecimal `json:"latest_funding_amount"`
	LastRaisedAt        *time.Time          `json:"last_raised_at,omitempty"`
	Address             *string             `json:"address,omitempty"`
	City                *string             `json:"city,omitempty"`
	State               *string             `json:"state,omitempty"`
	Country             *string             `json:"country,omitempty"`
	Phone               *string             `json:"phone,omitempty"`
	Keywords            *string             `json:"keywords,omitempty"`
	SEODescription      *string             `json:"seo_description,omitempty"`
	SubsidiaryOf        *string             `json:"subsidiary_of,omitempty"`
}

// Department groups contacts by organizational unit, keyed by its name.
type Department struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
