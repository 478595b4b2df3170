package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "Valid date",
			input:    "2024-01-15",
			expected: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Surrounding spaces",
			input:    " 2024-01-12 ",
			expected: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "RFC 3339 timestamp",
			input:    "2024-01-15T09:30:00-06:00",
			expected: time.Date(2024, 1, 15, 15, 30, 0, 0, time.UTC),
		},
		{
			name:    "Invalid format",
			input:   "15-01-2024",
			wantErr: true,
		},
		{
			name:    "Invalid day",
			input:   "2024-01-32",
			wantErr: true,
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
			} else {
				assert.NoError(t, err)
				assert.True(t, tt.expected.Equal(got), "got %v", got)
			}
		})
	}
}

func TestParseDateIn(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	got, err := ParseDateIn("2024-01-12", loc)
	assert.NoError(t, err)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, time.Friday, got.Weekday())
	assert.Equal(t, 0, got.Hour())
}
