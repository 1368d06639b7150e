package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePledgeStatus(t *testing.T) {
	tests := []struct {
		input       string
		expected    PledgeStatus
		expectError bool
	}{
		{input: "Active donor", expected: PledgeStatusActive},
		{input: " pledged ", expected: PledgeStatusPledged},
		{input: "Payment failure", expected: PledgeStatusLapsed},
		{input: "Churned donor", expected: PledgeStatusCancelled},
		{input: "one-time", expected: PledgeStatusOneTime},
		{input: "paused", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePledgeStatus(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCadence_AnnualMultiplier(t *testing.T) {
	assert.Equal(t, int64(4), CadenceQuarterly.AnnualMultiplier().IntPart())
	assert.Equal(t, int64(12), CadenceMonthly.AnnualMultiplier().IntPart())
	assert.Equal(t, int64(1), CadenceOneTime.AnnualMultiplier().IntPart())
}

func TestPledge_ActiveOn(t *testing.T) {
	ended := date(2023, time.October, 1)

	tests := []struct {
		name     string
		pledge   Pledge
		on       time.Time
		expected bool
	}{
		{name: "ativo já iniciado", pledge: Pledge{Status: PledgeStatusActive, StartDate: date(2023, time.January, 1)}, on: date(2023, time.July, 1), expected: true},
		{name: "ativo ainda não iniciado", pledge: Pledge{Status: PledgeStatusActive, StartDate: date(2023, time.August, 1)}, on: date(2023, time.July, 1), expected: false},
		{name: "encerrado depois da data", pledge: Pledge{Status: PledgeStatusLapsed, StartDate: date(2023, time.January, 1), EndedAt: &ended}, on: date(2023, time.July, 1), expected: true},
		{name: "encerrado na própria data", pledge: Pledge{Status: PledgeStatusLapsed, StartDate: date(2023, time.January, 1), EndedAt: &ended}, on: date(2023, time.October, 1), expected: true},
		{name: "encerrado antes da data", pledge: Pledge{Status: PledgeStatusCancelled, StartDate: date(2023, time.January, 1), EndedAt: &ended}, on: date(2023, time.November, 1), expected: false},
		{name: "encerrado sem data", pledge: Pledge{Status: PledgeStatusLapsed, StartDate: date(2023, time.January, 1)}, on: date(2023, time.July, 1), expected: false},
		{name: "pledged", pledge: Pledge{Status: PledgeStatusPledged, StartDate: date(2023, time.January, 1)}, on: date(2023, time.July, 1), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.pledge.ActiveOn(tt.on))
		})
	}
}

func TestPledge_TerminatedWithin(t *testing.T) {
	ended := date(2023, time.October, 1)
	fy := Period{Kind: PeriodFiscalYear, Start: date(2023, time.July, 1), End: date(2024, time.June, 30)}

	assert.True(t, Pledge{Status: PledgeStatusLapsed, EndedAt: &ended}.TerminatedWithin(fy))
	assert.False(t, Pledge{Status: PledgeStatusActive, EndedAt: &ended}.TerminatedWithin(fy))
	assert.False(t, Pledge{Status: PledgeStatusCancelled}.TerminatedWithin(fy))
}
