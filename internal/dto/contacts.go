package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/octobees/contacts-hub/internal/entity"
	"github.com/octobees/contacts-hub/internal/mapping"
)

// ContactFilter contains query parameters for the contact listing endpoint.
type ContactFilter struct {
	Search  string
	Page    int
	PerPage int
}

// Pagination describes the page returned by a listing endpoint.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	TotalPages  int `json:"total_pages"`
}

// ContactList is a page of contacts.
type ContactList struct {
	Contacts   []entity.Contact `json:"contacts"`
	Pagination Pagination       `json:"pagination"`
}

// EmailInput is an email supplied directly by the caller on create.
type EmailInput struct {
	Email          string   `json:"email" validate:"required,max=320"`
	Type           string   `json:"type" validate:"max=32"`
	Status         *string  `json:"status"`
	Source         *string  `json:"source"`
	Confidence     *float64 `json:"confidence" validate:"omitempty,gte=0,lte=100"`
	CatchAllStatus *string  `json:"catch_all_status"`
	LastVerifiedAt *string  `json:"last_verified_at"`
	IsPrimary      bool     `json:"is_primary"`
	Unsubscribe    bool     `json:"unsubscribe"`
}

// PhoneInput is a phone number supplied directly by the caller on create.
type PhoneInput struct {
	Phone string `json:"phone" validate:"required,max=64"`
	Type  string `json:"type" validate:"max=32"`
}

// ContactRequest is the body of the create and update endpoints.
//
// Canonical contact columns land in Fields, keyed by column name and only when
// present in the body. Keys that are neither canonical columns nor one of the
// reserved keys below are collected into CustomFields together with the
// explicit custom_fields object.
type ContactRequest struct {
	Fields       map[string]string
	CompanyName  *string
	Department   *string
	Emails       []EmailInput `validate:"dive"`
	Phones       []PhoneInput `validate:"dive"`
	CustomFields map[string]any
}

// UnmarshalJSON splits the body into canonical fields and custom fields.
func (r *ContactRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := ContactRequest{Fields: map[string]string{}}
	for key, value := range raw {
		switch {
		case key == "emails":
			if err := decodeOptional(value, &out.Emails); err != nil {
				return fmt.Errorf("emails: %w", err)
			}
		case key == "phones":
			if err := decodeOptional(value, &out.Phones); err != nil {
				return fmt.Errorf("phones: %w", err)
			}
		case key == "custom_fields":
			var custom map[string]any
			if err := decodeOptional(value, &custom); err != nil {
				return fmt.Errorf("custom_fields: %w", err)
			}
			for k, v := range custom {
				out.setCustom(k, v)
			}
		case key == "company_name":
			s, err := decodeScalar(value)
			if err != nil {
				return fmt.Errorf("company_name: %w", err)
			}
			out.CompanyName = &s
		case key == "department":
			s, err := decodeScalar(value)
			if err != nil {
				return fmt.Errorf("department: %w", err)
			}
			out.Department = &s
		case entity.IsContactColumn(key):
			s, err := decodeScalar(value)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			out.Fields[key] = s
		default:
			var v any
			if err := json.Unmarshal(value, &v); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			// Explicit custom_fields entries win over loose keys.
			if _, exists := out.CustomFields[key]; !exists {
				out.setCustom(key, v)
			}
		}
	}

	*r = out
	return nil
}

func (r *ContactRequest) setCustom(key string, value any) {
	if r.CustomFields == nil {
		r.CustomFields = map[string]any{}
	}
	r.CustomFields[key] = value
}

func decodeOptional(data json.RawMessage, dest any) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	return json.Unmarshal(data, dest)
}

func decodeScalar(data json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", err
	}
	switch v.(type) {
	case map[string]any, []any:
		return "", fmt.Errorf("expected a scalar value")
	}
	return mapping.CellString(v), nil
}
