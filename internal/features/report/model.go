package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarobidyBryan/signalement/internal/features/status"
	"github.com/sarobidyBryan/signalement/internal/features/user"
)

// Report is a citizen-filed road or infrastructure report.
type Report struct {
	ID          int                 `json:"id"`
	User        user.User           `json:"user"`
	ReportDate  *time.Time          `json:"report_date,omitempty"`
	Area        decimal.NullDecimal `json:"area"`
	Longitude   decimal.NullDecimal `json:"longitude"`
	Latitude    decimal.NullDecimal `json:"latitude"`
	Description string              `json:"description"`
	Status      status.Status       `json:"status"`
	FirebaseID  string              `json:"firebase_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (r *Report) SyncID() int { return r.ID }

func (r *Report) ExternalID() string { return r.FirebaseID }

// StatusHistory is one row of the reports_status audit trail.
type StatusHistory struct {
	ID               int       `json:"id"`
	ReportID         int       `json:"report_id"`
	StatusID         int       `json:"status_id"`
	RegistrationDate time.Time `json:"registration_date"`
}
