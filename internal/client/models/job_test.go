package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddubrovin/jobtrack/internal/common"
)

func validJob() JobRecord {
	return JobRecord{
		Company:   "Acme",
		Position:  "Go Engineer",
		DateFound: "2024-01-15",
	}
}

func TestJobRecord_Validate(t *testing.T) {
	j := validJob()
	require.NoError(t, j.Validate())

	tests := []struct {
		name   string
		mutate func(*JobRecord)
	}{
		{"empty company", func(j *JobRecord) { j.Company = "" }},
		{"blank company", func(j *JobRecord) { j.Company = "   " }},
		{"empty position", func(j *JobRecord) { j.Position = "" }},
		{"empty date found", func(j *JobRecord) { j.DateFound = "" }},
		{"unknown status", func(j *JobRecord) { j.Status = "ghosted" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := validJob()
			tt.mutate(&j)
			err := j.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestJobRecord_Normalize_NotApplied(t *testing.T) {
	// a provided applied date on a not-applied record is discarded before
	// the insert request is sent
	date := "2024-01-01"
	j := validJob()
	j.Applied = false
	j.AppliedDate = &date
	j.Status = StatusInterview

	j.Normalize()

	assert.Nil(t, j.AppliedDate)
	assert.Equal(t, StatusNotApplied, j.Status)
}

func TestJobRecord_Normalize_AppliedKeepsFields(t *testing.T) {
	date := "2024-02-02"
	j := validJob()
	j.Applied = true
	j.AppliedDate = &date
	j.Status = StatusPending

	j.Normalize()

	require.NotNil(t, j.AppliedDate)
	assert.Equal(t, date, *j.AppliedDate)
	assert.Equal(t, StatusPending, j.Status)
}

func TestJobRecord_Normalize_DefaultsEmptyStatus(t *testing.T) {
	j := validJob()
	j.Applied = true
	j.Status = ""

	j.Normalize()

	assert.Equal(t, StatusNotApplied, j.Status)
}

func TestJobRecord_EffectiveStatus(t *testing.T) {
	j := validJob()
	assert.Equal(t, StatusNotApplied, j.EffectiveStatus())

	j.Status = StatusOffer
	assert.Equal(t, StatusOffer, j.EffectiveStatus())
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Status("").Valid())
	assert.False(t, Status("ghosted").Valid())
}
