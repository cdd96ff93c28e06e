// Package models defines the records the client tracks: job opportunities
// and their file attachments.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/ddubrovin/jobtrack/internal/common"
)

// Status classifies how far a job application has progressed.
type Status string

const (
	StatusNotApplied Status = "not_applied"
	StatusPending    Status = "pending"
	StatusInterview  Status = "interview"
	StatusOffer      Status = "offer"
	StatusRejected   Status = "rejected"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusNotApplied, StatusPending, StatusInterview, StatusOffer, StatusRejected}

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusNotApplied, StatusPending, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// JobRecord is one tracked job opportunity. ID and CreatedAt are assigned
// by the table store on insert; DateFound and AppliedDate are ISO-8601
// calendar dates (YYYY-MM-DD), which compare chronologically as plain strings.
type JobRecord struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	SourceURL   string    `json:"source_url,omitempty"`
	DateFound   string    `json:"date_found"`
	Description string    `json:"description,omitempty"`
	Applied     bool      `json:"applied"`
	AppliedDate *string   `json:"applied_date"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the required fields before any network call is made.
// It returns an error wrapping common.ErrValidation naming the first
// missing field, or nil.
func (j *JobRecord) Validate() error {
	if strings.TrimSpace(j.Company) == "" {
		return fmt.Errorf("%w: company is required", common.ErrValidation)
	}
	if strings.TrimSpace(j.Position) == "" {
		return fmt.Errorf("%w: position is required", common.ErrValidation)
	}
	if strings.TrimSpace(j.DateFound) == "" {
		return fmt.Errorf("%w: date found is required", common.ErrValidation)
	}
	if j.Status != "" && !j.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrValidation, j.Status)
	}
	return nil
}

// Normalize enforces the applied invariant at write time: a record that was
// not applied to cannot carry an applied date or a non-initial status.
// The invariant is deliberately not delegated to the store.
func (j *JobRecord) Normalize() {
	if !j.Applied {
		j.AppliedDate = nil
		j.Status = StatusNotApplied
	}
	if j.Status == "" {
		j.Status = StatusNotApplied
	}
}

// EffectiveStatus returns the record status, defaulting to not_applied
// for records that predate the status column.
func (j *JobRecord) EffectiveStatus() Status {
	if j.Status == "" {
		return StatusNotApplied
	}
	return j.Status
}
