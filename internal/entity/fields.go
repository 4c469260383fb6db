package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrUnknownField is returned when a name is not a canonical column.
var ErrUnknownField = errors.New("unknown field")

// ContactColumns lists the canonical contact columns a mapping may assign.
var ContactColumns = []string{
	"first_name",
	"last_name",
	"title",
	"seniority",
	"stage",
	"lists",
	"last_contacted",
	"person_linkedin_url",
	"contact_owner",
	"owner_id",
	"address",
	"city",
	"state",
	"country",
	"postal_code",
}

var contactColumnSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ContactColumns))
	for _, c := range ContactColumns {
		set[c] = struct{}{}
	}
	return set
}()

// IsContactColumn reports whether name is a canonical contact column.
func IsContactColumn(name string) bool {
	_, ok := contactColumnSet[name]
	return ok
}

// SetField assigns a canonical contact column from its text form. Empty
// values clear the column.
func (c *Contact) SetField(name, value string) error {
	switch name {
	case "first_name":
		c.FirstName = optional(value)
	case "last_name":
		c.LastName = optional(value)
	case "title":
		c.Title = optional(value)
	case "seniority":
		c.Seniority = optional(value)
	case "stage":
		c.Stage = optional(value)
	case "lists":
		c.Lists = optional(value)
	case "person_linkedin_url":
		c.PersonLinkedInURL = optional(value)
	case "contact_owner":
		c.ContactOwner = optional(value)
	case "address":
		c.Address = optional(value)
	case "city":
		c.City = optional(value)
	case "state":
		c.State = optional(value)
	case "country":
		c.Country = optional(value)
	case "postal_code":
		c.PostalCode = optional(value)
	case "last_contacted":
		ts, err := parseOptionalTime(value)
		if err != nil {
			return fmt.Errorf("invalid last_contacted value %q", value)
		}
		c.LastContacted = ts
	case "owner_id":
		if strings.TrimSpace(value) == "" {
			c.OwnerID = nil
			return nil
		}
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid owner_id value %q", value)
		}
		c.OwnerID = &id
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}

// EncodeCustomFields serializes custom fields for storage; an empty map is
// stored as NULL.
func EncodeCustomFields(fields map[string]any) (*string, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode custom fields: %w", err)
	}
	s := string(b)
	return &s, nil
}

// DecodeCustomFields parses stored custom fields. A NULL or blank value yields
// an empty map; malformed JSON yields an empty map and the parse error.
func DecodeCustomFields(raw *string) (map[string]any, error) {
	out := map[string]any{}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(*raw), &out); err != nil {
		return map[string]any{}, fmt.Errorf("decode custom fields: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// Set assigns a company attribute from its text form. Names are the suffix of
// a company_* mapping token.
func (a *CompanyAttributes) Set(name, value string) error {
	var err error
	switch name {
	case "website":
		a.Website = optional(value)
	case "linkedin_url":
		a.LinkedInURL = optional(value)
	case "facebook_url":
		a.FacebookURL = optional(value)
	case "twitter_url":
		a.TwitterURL = optional(value)
	case "industry":
		a.Industry = optional(value)
	case "latest_funding":
		a.LatestFunding = optional(value)
	case "address":
		a.Address = optional(value)
	case "city":
		a.City = optional(value)
	case "state":
		a.State = optional(value)
	case "country":
		a.Country = optional(value)
	case "phone":
		a.Phone = optional(value)
	case "keywords":
		a.Keywords = optional(value)
	case "seo_description":
		a.SEODescription = optional(value)
	case "subsidiary_of":
		a.SubsidiaryOf = optional(value)
	case "num_employees":
		a.NumEmployees, err = parseOptionalInt(value)
	case "annual_revenue":
		a.AnnualRevenue, err = parseAmount(value)
	case "total_funding":
		a.TotalFunding, err = parseAmount(value)
	case "latest_funding_amount":
		a.LatestFundingAmount, err = parseAmount(value)
	case "last_raised_at":
		a.LastRaisedAt, err = parseOptionalTime(value)
	default:
		return fmt.Errorf("unknown company attribute %q", name)
	}
	if err != nil {
		return fmt.Errorf("invalid company %s value %q", name, value)
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
}

// ParseTimestamp accepts the date formats commonly found in CRM exports.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

func parseOptionalTime(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	ts, err := ParseTimestamp(value)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func parseOptionalInt(value string) (*int, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func parseAmount(value string) (decimal.NullDecimal, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "$")
	value = strings.ReplaceAll(value, ",", "")
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
