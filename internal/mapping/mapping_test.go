package mapping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := map[string]Directive{
		"custom_fields.birthday":    {Kind: KindCustomField, Name: "birthday"},
		"custom_fields.email":       {Kind: KindCustomField, Name: "email"},
		"email":                     {Kind: KindEmail, Name: "primary"},
		"secondary_email":           {Kind: KindEmail, Name: "secondary"},
		"tertiary_email":            {Kind: KindEmail, Name: "tertiary"},
		"personal_email":            {Kind: KindEmail, Name: "personal"},
		"work_phone":                {Kind: KindPhone, Name: "work"},
		"mobile_phone":              {Kind: KindPhone, Name: "mobile"},
		"company_phone":             {Kind: KindPhone, Name: "company"},
		"company_name":              {Kind: KindCompanyName},
		"department":                {Kind: KindDepartmentName},
		"contact_address":           {Kind: KindContactField, Name: "address"},
		"contact_city":              {Kind: KindContactField, Name: "city"},
		"contact_state":             {Kind: KindContactField, Name: "state"},
		"contact_country":           {Kind: KindContactField, Name: "country"},
		"contact_postal_code":       {Kind: KindContactField, Name: "postal_code"},
		"company_industry":          {Kind: KindCompanyAttribute, Name: "industry"},
		"company_num_employees":     {Kind: KindCompanyAttribute, Name: "num_employees"},
		"first_name":                {Kind: KindContactField, Name: "first_name"},
		"email_status":              {Kind: KindContactField, Name: "email_status"},
		"secondary_email_source":    {Kind: KindContactField, Name: "secondary_email_source"},
		"totally_unknown":           {Kind: KindContactField, Name: "totally_unknown"},
		IgnoreToken:                 {Kind: KindIgnore},
		"":                          {Kind: KindIgnore},
	}

	for token, want := range tests {
		t.Run(token, func(t *testing.T) {
			assert.Equal(t, want, Classify(token))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "company_attribute", KindCompanyAttribute.String())
	assert.Equal(t, "ignore", Kind(99).String())
}

func TestMapping_UnmarshalPreservesOrder(t *testing.T) {
	var m Mapping
	err := json.Unmarshal([]byte(`{"Z":"email","A":"secondary_email","M":null,"Z":"personal_email"}`), &m)
	require.NoError(t, err)

	assert.Equal(t, Mapping{
		{Source: "Z", Token: "personal_email"},
		{Source: "A", Token: "secondary_email"},
		{Source: "M", Token: ""},
	}, m)

	encoded, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Z":"personal_email","A":"secondary_email","M":""}`, string(encoded))
}

func TestMapping_UnmarshalRejectsNonObjects(t *testing.T) {
	var m Mapping
	assert.Error(t, json.Unmarshal([]byte(`["email"]`), &m))
	assert.Error(t, json.Unmarshal([]byte(`{"A": 3}`), &m))

	var holder struct {
		Mapping Mapping `json:"mapping"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"mapping": null}`), &holder))
	assert.Nil(t, holder.Mapping)
}

func TestCompileDropsIgnored(t *testing.T) {
	compiled := Mapping{
		{Source: "First", Token: "first_name"},
		{Source: "Notes", Token: IgnoreToken},
		{Source: "Blank", Token: ""},
	}.Compile()

	require.Len(t, compiled, 1)
	assert.Equal(t, "First", compiled[0].Source)
	assert.Equal(t, Directive{Kind: KindContactField, Name: "first_name"}, compiled[0].Directive)
}

func TestTransform(t *testing.T) {
	mapping := Mapping{
		{Source: "First", Token: "first_name"},
		{Source: "Last", Token: "last_name"},
		{Source: "CompanyCol", Token: "company_name"},
		{Source: "E1", Token: "email"},
		{Source: "E2", Token: "secondary_email"},
		{Source: "Personal", Token: "personal_email"},
		{Source: "Work", Token: "work_phone"},
		{Source: "Birthday", Token: "custom_fields.birthday"},
		{Source: "Score", Token: "custom_fields.score"},
		{Source: "Dept", Token: "department"},
		{Source: "Industry", Token: "company_industry"},
		{Source: "City", Token: "contact_city"},
		{Source: "Skip", Token: IgnoreToken},
	}.Compile()

	row := Row{
		"First":      "Ada",
		"Last":       "Lovelace",
		"CompanyCol": "Acme Corp",
		"E1":         "ada@acme.com",
		"E2":         "ada@lovelace.dev",
		"Personal":   "   ",
		"Work":       float64(14155550100),
		"Birthday":   "1815-12-10",
		"Score":      float64(42),
		"Dept":       "Engineering",
		"Industry":   "Computing",
		"City":       "London",
		"Skip":       "ignored",
	}

	p := Transform(row, mapping)

	assert.Equal(t, map[string]string{"first_name": "Ada", "last_name": "Lovelace", "city": "London"}, p.ContactFields)
	assert.Equal(t, map[string]any{"birthday": "1815-12-10", "score": float64(42)}, p.CustomFields)
	assert.Equal(t, []Email{{Value: "ada@acme.com", Type: "primary"}, {Value: "ada@lovelace.dev", Type: "secondary"}}, p.Emails)
	assert.Equal(t, []Phone{{Value: "14155550100", Type: "work"}}, p.Phones)
	assert.Equal(t, "Acme Corp", p.CompanyName)
	assert.Equal(t, "Engineering", p.DepartmentName)
	assert.Equal(t, map[string]string{"industry": "Computing"}, p.CompanyAttributes)
}

func TestTransform_AbsentAndNullCells(t *testing.T) {
	mapping := Mapping{
		{Source: "First", Token: "first_name"},
		{Source: "E1", Token: "email"},
		{Source: "Phone", Token: "mobile_phone"},
	}.Compile()

	p := Transform(Row{"First": "Ada", "Phone": nil}, mapping)

	assert.Equal(t, map[string]string{"first_name": "Ada"}, p.ContactFields)
	assert.Empty(t, p.Emails)
	assert.Empty(t, p.Phones)
	assert.Empty(t, p.CustomFields)
	assert.Nil(t, p.CompanyAttributes)
	assert.Empty(t, p.CompanyName)
}

func TestTransform_BlankChildCellsAreDropped(t *testing.T) {
	mapping := Mapping{
		{Source: "E1", Token: "email"},
		{Source: "E2", Token: "secondary_email"},
		{Source: "Phone", Token: "work_phone"},
		{Source: "Title", Token: "title"},
	}.Compile()

	p := Transform(Row{"E1": "", "E2": "   ", "Phone": " ", "Title": ""}, mapping)

	assert.Empty(t, p.Emails)
	assert.Empty(t, p.Phones)
	assert.Equal(t, map[string]string{"title": ""}, p.ContactFields)
}

func TestTransform_LastColumnWins(t *testing.T) {
	mapping := Mapping{
		{Source: "A", Token: "title"},
		{Source: "B", Token: "title"},
	}.Compile()

	p := Transform(Row{"A": "Engineer", "B": "Countess"}, mapping)
	assert.Equal(t, "Countess", p.ContactFields["title"])
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "abc", CellString("abc"))
	assert.Equal(t, "3.5", CellString(3.5))
	assert.Equal(t, "12", CellString(json.Number("12")))
	assert.Equal(t, "true", CellString(true))
	assert.Equal(t, "7", CellString(int64(7)))
	assert.Equal(t, `["a","b"]`, CellString([]any{"a", "b"}))
}

func TestCatalogReturnsCopy(t *testing.T) {
	fields := Catalog()
	require.NotEmpty(t, fields)
	assert.Equal(t, Field{Value: "first_name", Label: "First Name", Group: "Contact"}, fields[0])

	fields[0].Label = "changed"
	assert.Equal(t, "First Name", Catalog()[0].Label)
}
