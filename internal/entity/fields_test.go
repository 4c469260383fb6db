package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactSetField(t *testing.T) {
	var c Contact
	owner := uuid.New()

	require.NoError(t, c.SetField("first_name", "Ada"))
	require.NoError(t, c.SetField("postal_code", "N1 9GU"))
	require.NoError(t, c.SetField("owner_id", owner.String()))
	require.NoError(t, c.SetField("last_contacted", "2024-03-01"))
	require.NoError(t, c.SetField("title", ""))

	require.NotNil(t, c.FirstName)
	assert.Equal(t, "Ada", *c.FirstName)
	assert.Equal(t, "N1 9GU", *c.PostalCode)
	assert.Equal(t, owner, *c.OwnerID)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *c.LastContacted)
	assert.Nil(t, c.Title)

	err := c.SetField("favourite_colour", "blue")
	assert.True(t, errors.Is(err, ErrUnknownField))

	assert.ErrorContains(t, c.SetField("owner_id", "not-a-uuid"), "invalid owner_id")
	assert.ErrorContains(t, c.SetField("last_contacted", "yesterday"), "invalid last_contacted")
}

func TestIsContactColumn(t *testing.T) {
	assert.True(t, IsContactColumn("first_name"))
	assert.True(t, IsContactColumn("postal_code"))
	assert.False(t, IsContactColumn("company_id"))
	assert.False(t, IsContactColumn("email_status"))
}

func TestCustomFieldsRoundTrip(t *testing.T) {
	raw, err := EncodeCustomFields(map[string]any{"foo": "bar"})
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.JSONEq(t, `{"foo":"bar"}`, *raw)

	decoded, err := DecodeCustomFields(raw)
	require.NoError(t, err)
	assert.Equal(t, "bar", decoded["foo"])

	empty, err := EncodeCustomFields(map[string]any{})
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestDecodeCustomFields_Malformed(t *testing.T) {
	bad := "{not json"
	decoded, err := DecodeCustomFields(&bad)
	assert.Error(t, err)
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)

	null := "null"
	decoded, err = DecodeCustomFields(&null)
	assert.NoError(t, err)
	assert.Empty(t, decoded)

	decoded, err = DecodeCustomFields(nil)
	assert.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestCompanyAttributesSet(t *testing.T) {
	var a CompanyAttributes

	require.NoError(t, a.Set("industry", "Computing"))
	require.NoError(t, a.Set("num_employees", "1,200"))
	require.NoError(t, a.Set("annual_revenue", "$2,500,000.50"))
	require.NoError(t, a.Set("last_raised_at", "2023-06-30"))
	require.NoError(t, a.Set("total_funding", ""))

	assert.Equal(t, "Computing", *a.Industry)
	assert.Equal(t, 1200, *a.NumEmployees)
	assert.True(t, a.AnnualRevenue.Valid)
	assert.Equal(t, "2500000.5", a.AnnualRevenue.Decimal.String())
	assert.False(t, a.TotalFunding.Valid)
	assert.Equal(t, 2023, a.LastRaisedAt.Year())

	assert.ErrorContains(t, a.Set("num_employees", "lots"), "invalid company num_employees")
	assert.ErrorContains(t, a.Set("mascot", "owl"), `unknown company attribute "mascot"`)
}

func TestParseTimestamp(t *testing.T) {
	for _, input := range []string{"2024-01-02T03:04:05Z", "2024-01-02 03:04:05", "2024-01-02", "01/02/2024", "1/2/2024"} {
		_, err := ParseTimestamp(input)
		assert.NoError(t, err, input)
	}
	_, err := ParseTimestamp("02.01.2024")
	assert.Error(t, err)
}
