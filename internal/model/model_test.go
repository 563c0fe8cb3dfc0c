package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantYear  int
		wantMonth time.Month
		wantDay   int
		wantErr   bool
	}{
		{
			name:      "plain ISO date",
			input:     "2025-06-15",
			wantYear:  2025,
			wantMonth: time.June,
			wantDay:   15,
		},
		{
			name:      "first of january",
			input:     "2024-01-01",
			wantYear:  2024,
			wantMonth: time.January,
			wantDay:   1,
		},
		{
			name:    "garbage",
			input:   "15/06/2025",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantYear, got.Year())
			assert.Equal(t, tt.wantMonth, got.Month())
			assert.Equal(t, tt.wantDay, got.Day())
		})
	}
}

func TestParseDate_TimezoneIndependent(t *testing.T) {
	// Parsing a calendar date must never shift the day, whatever TZ the
	// process runs in.
	original := time.Local
	defer func() { time.Local = original }()

	for _, zone := range []string{"Pacific/Auckland", "America/Los_Angeles", "UTC"} {
		loc, err := time.LoadLocation(zone)
		require.NoError(t, err)
		time.Local = loc

		got, err := ParseDate("2025-06-15")
		require.NoError(t, err)
		assert.Equal(t, time.June, got.Month(), "zone %s", zone)
		assert.Equal(t, 15, got.Day(), "zone %s", zone)
	}
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Jun 2025", MonthLabel(2025, time.June))
	assert.Equal(t, "Dec 2023", MonthLabel(2023, time.December))
	// Same month in different years renders distinct labels.
	assert.NotEqual(t, MonthLabel(2023, time.December), MonthLabel(2024, time.December))
}

func TestMonthlyBucket_Key(t *testing.T) {
	dec23 := MonthlyBucket{Year: 2023, Month: time.December}
	jan24 := MonthlyBucket{Year: 2024, Month: time.January}
	dec24 := MonthlyBucket{Year: 2024, Month: time.December}

	assert.Less(t, dec23.Key(), jan24.Key())
	assert.Less(t, jan24.Key(), dec24.Key())
	assert.NotEqual(t, dec23.Key(), dec24.Key())
}

func TestTransaction_Validate(t *testing.T) {
	valid := Transaction{
		ID:          "t1",
		Description: "Starbucks",
		Date:        NewDate(2025, time.June, 15),
		Amount:      -45.23,
	}
	assert.NoError(t, valid.Validate())

	missingID := valid
	missingID.ID = ""
	assert.Error(t, missingID.Validate())

	missingDesc := valid
	missingDesc.Description = ""
	assert.Error(t, missingDesc.Validate())

	missingDate := valid
	missingDate.Date = time.Time{}
	assert.Error(t, missingDate.Validate())
}
