// Package mapping turns user supplied column mappings into typed directives and
// applies them to raw spreadsheet rows.
//
// A mapping pairs each source column with a canonical field token. Tokens are
// classified once per file by Classify; Transform then folds every row of the
// file into a Payload without touching storage.
package mapping

import "strings"

// IgnoreToken marks a source column that must not be imported.
const IgnoreToken = "-- Ignore --"

const (
	customFieldPrefix = "custom_fields."
	companyPrefix     = "company_"
	emailSuffix       = "_email"
	phoneSuffix       = "_phone"
)

// Kind enumerates what a source column carries.
type Kind int

const (
	KindIgnore Kind = iota
	KindContactField
	KindCustomField
	KindEmail
	KindPhone
	KindCompanyName
	KindCompanyAttribute
	KindDepartmentName
)

func (k Kind) String() string {
	switch k {
	case KindContactField:
		return "contact_field"
	case KindCustomField:
		return "custom_field"
	case KindEmail:
		return "email"
	case KindPhone:
		return "phone"
	case KindCompanyName:
		return "company_name"
	case KindCompanyAttribute:
		return "company_attribute"
	case KindDepartmentName:
		return "department_name"
	default:
		return "ignore"
	}
}

// Directive is the classified meaning of one source column.
//
// Name holds the contact column, custom field key, email type, phone type or
// company attribute depending on Kind. It is empty for Ignore, CompanyName and
// DepartmentName.
type Directive struct {
	Kind Kind
	Name string
}

// contactAddressAliases maps the personal address tokens onto contact columns.
var contactAddressAliases = map[string]string{
	"contact_address":     "address",
	"contact_city":        "city",
	"contact_state":       "state",
	"contact_country":     "country",
	"contact_postal_code": "postal_code",
}

// Classify resolves a mapping token into a Directive. Rules are evaluated in
// order and the first match wins; several rules share prefixes or suffixes, so
// reordering them changes the outcome (company_phone is a phone, not a company
// attribute). Unknown tokens fall through to a direct contact field.
func Classify(token string) Directive {
	switch {
	case token == "" || token == IgnoreToken:
		return Directive{Kind: KindIgnore}
	case strings.HasPrefix(token, customFieldPrefix):
		return Directive{Kind: KindCustomField, Name: strings.TrimPrefix(token, customFieldPrefix)}
	case token == "email":
		return Directive{Kind: KindEmail, Name: "primary"}
	case token == "secondary_email", token == "tertiary_email":
		return Directive{Kind: KindEmail, Name: strings.TrimSuffix(token, emailSuffix)}
	case strings.HasSuffix(token, phoneSuffix):
		return Directive{Kind: KindPhone, Name: strings.TrimSuffix(token, phoneSuffix)}
	case token == "company_name":
		return Directive{Kind: KindCompanyName}
	case token == "department":
		return Directive{Kind: KindDepartmentName}
	case token == "personal_email":
		return Directive{Kind: KindEmail, Name: "personal"}
	}

	if column, ok := contactAddressAliases[token]; ok {
		return Directive{Kind: KindContactField, Name: column}
	}
	if strings.HasPrefix(token, companyPrefix) {
		return Directive{Kind: KindCompanyAttribute, Name: strings.TrimPrefix(token, companyPrefix)}
	}
	return Directive{Kind: KindContactField, Name: token}
}
