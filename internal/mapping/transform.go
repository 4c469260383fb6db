package mapping

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Row is one spreadsheet row keyed by source column name.
type Row map[string]any

// Email is an address collected from a mapped column.
type Email struct {
	Value string
	Type  string
}

// Phone is a number collected from a mapped column.
type Phone struct {
	Value string
	Type  string
}

// Payload is everything one row contributes to the contact model.
type Payload struct {
	ContactFields     map[string]string
	CustomFields      map[string]any
	Emails            []Email
	Phones            []Phone
	CompanyName       string
	DepartmentName    string
	CompanyAttributes map[string]string // nil unless a company attribute column matched
}

// Transform folds a row into a Payload using the file's compiled mapping. It
// performs no I/O. Cells missing from the row are skipped, and so are cells
// holding JSON null. Email and phone cells that are empty or whitespace-only
// are dropped as well rather than stored as empty child rows; every other
// directive keeps an empty string value.
func Transform(row Row, cols Compiled) Payload {
	p := Payload{
		ContactFields: map[string]string{},
		CustomFields:  map[string]any{},
	}

	for _, col := range cols {
		raw, ok := row[col.Source]
		if !ok || raw == nil {
			continue
		}

		d := col.Directive
		switch d.Kind {
		case KindCustomField:
			p.CustomFields[d.Name] = raw
		case KindEmail:
			if value := CellString(raw); strings.TrimSpace(value) != "" {
				p.Emails = append(p.Emails, Email{Value: value, Type: d.Name})
			}
		case KindPhone:
			if value := CellString(raw); strings.TrimSpace(value) != "" {
				p.Phones = append(p.Phones, Phone{Value: value, Type: d.Name})
			}
		case KindCompanyName:
			p.CompanyName = CellString(raw)
		case KindDepartmentName:
			p.DepartmentName = CellString(raw)
		case KindCompanyAttribute:
			if p.CompanyAttributes == nil {
				p.CompanyAttributes = map[string]string{}
			}
			p.CompanyAttributes[d.Name] = CellString(raw)
		case KindContactField:
			p.ContactFields[d.Name] = CellString(raw)
		}
	}

	return p
}

// CellString renders a decoded JSON cell as text.
func CellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
