package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("x"))
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("0190a6be-7d51-7d3a-9a1c-0242ac120002"))
	assert.True(t, IsValidUUID("0190A6BE-7D51-7D3A-9A1C-0242AC120002"))
	assert.False(t, IsValidUUID("0190a6be-7d51-4d3a-9a1c-0242ac120002")) // v4
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2026-03-02")
	assert.True(t, ok)
	assert.Equal(t, 2026, date.Year())

	_, ok = IsValidDate("02-03-2026")
	assert.False(t, ok)
	_, ok = IsValidDate("2026-02-30")
	assert.False(t, ok)
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "start_date", Message: "start_date is required"},
		{Field: "units", Message: "units must be positive"},
	}

	assert.Equal(t, "start_date: start_date is required; units: units must be positive", errs.Error())
	assert.Equal(t, map[string]string{
		"start_date": "start_date is required",
		"units":      "units must be positive",
	}, errs.ToMap())
}
