package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	expected := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		value       string
		expectError bool
	}{
		{name: "yyyy-mm-dd", value: "2024-03-05"},
		{name: "data e hora", value: "2024-03-05 18:45:00"},
		{name: "RFC3339", value: "2024-03-05T10:00:00Z"},
		{name: "mm/dd/yyyy", value: "03/05/2024"},
		{name: "espaços nas bordas", value: "  2024-03-05 "},
		{name: "vazio", value: "", expectError: true},
		{name: "formato desconhecido", value: "5 de março", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseDate(tt.value)

			if tt.expectError {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, expected, date)
		})
	}
}

func TestParseOptionalDate(t *testing.T) {
	date, err := ParseOptionalDate(" ")
	assert.NoError(t, err)
	assert.Nil(t, date)

	date, err = ParseOptionalDate("2023-07-01")
	assert.NoError(t, err)
	if assert.NotNil(t, date) {
		assert.Equal(t, time.July, date.Month())
	}

	_, err = ParseOptionalDate("31/31/2023")
	assert.Error(t, err)
}
