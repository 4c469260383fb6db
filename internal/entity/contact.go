package entity

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a person record owned by a user.
type Contact struct {
	ID                uuid.UUID      `json:"id"`
	FirstName         *string        `json:"first_name"`
	LastName          *string        `json:"last_name"`
	Title             *string        `json:"title"`
	Seniority         *string        `json:"seniority"`
	Stage             *string        `json:"stage"`
	Lists             *string        `json:"lists"`
	LastContacted     *time.Time     `json:"last_contacted"`
	PersonLinkedInURL *string        `json:"person_linkedin_url"`
	ContactOwner      *string        `json:"contact_owner"`
	OwnerID           *uuid.UUID     `json:"owner_id"`
	Address           *string        `json:"address"`
	City              *string        `json:"city"`
	State             *string        `json:"state"`
	Country           *string        `json:"country"`
	PostalCode        *string        `json:"postal_code"`
	CompanyID         *uuid.UUID     `json:"company_id"`
	DepartmentID      *uuid.UUID     `json:"department_id"`
	CustomFields      map[string]any `json:"custom_fields"`
	// RawCustomFields is the stored JSON text of CustomFields, nil when empty.
	RawCustomFields *string `json:"-"`

	Company        *Company       `json:"company,omitempty"`
	DepartmentName *string        `json:"department,omitempty"`
	Emails         []EmailAddress `json:"emails,omitempty"`
	Phones         []PhoneNumber  `json:"phones,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Email types produced by imports.
const (
	EmailTypePrimary   = "primary"
	EmailTypeSecondary = "secondary"
	EmailTypeTertiary  = "tertiary"
	EmailTypePersonal  = "personal"

	PhoneTypeWork = "work"
)

// EmailAddress belongs to exactly one contact.
type EmailAddress struct {
	ID             uuid.UUID  `json:"id"`
	ContactID      uuid.UUID  `json:"contact_id"`
	Email          string     `json:"email"`
	Type           string     `json:"type"`
	Status         *string    `json:"status,omitempty"`
	Source         *string    `json:"source,omitempty"`
	Confidence     *float64   `json:"confidence,omitempty"`
	CatchAllStatus *string    `json:"catch_all_status,omitempty"`
	LastVerifiedAt *time.Time `json:"last_verified_at,omitempty"`
	IsPrimary      bool       `json:"is_primary"`
	Unsubscribe    bool       `json:"unsubscribe"`
	CreatedAt      time.Time  `json:"created_at"`
}

// PhoneNumber belongs to exactly one contact. Phone keeps the number as it was
// supplied; E164 holds the normalized form when the number could be parsed.
type PhoneNumber struct {
	ID        uuid.UUID `json:"id"`
	ContactID uuid.UUID `json:"contact_id"`
	Phone     string    `json:"phone"`
	Type      string    `json:"type"`
	E164      *string   `json:"e164,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
