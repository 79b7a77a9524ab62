package assignation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarobidyBryan/signalement/internal/features/company"
)

// Assignation links a report to the company contracted to treat it.
type Assignation struct {
	ID         int                 `json:"id"`
	ReportID   int                 `json:"report_id"`
	Company    company.Company     `json:"company"`
	Budget     decimal.NullDecimal `json:"budget"`
	StartDate  *time.Time          `json:"start_date,omitempty"`
	Deadline   *time.Time          `json:"deadline,omitempty"`
	FirebaseID string              `json:"firebase_id,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Progress is one treated-area increment recorded against an assignation.
type Progress struct {
	ID               int                 `json:"id"`
	AssignationID    int                 `json:"assignation_id"`
	TreatedArea      decimal.NullDecimal `json:"treated_area"`
	Comment          string              `json:"comment,omitempty"`
	RegistrationDate *time.Time          `json:"registration_date,omitempty"`
	FirebaseID       string              `json:"firebase_id,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}
