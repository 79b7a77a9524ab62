package status

import (
	"time"
)

// Status is a report lifecycle state (reference data, seeded upstream).
type Status struct {
	ID         int       `json:"id"`
	StatusCode string    `json:"status_code"`
	Label      string    `json:"label"`
	FirebaseID string    `json:"firebase_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *Status) SyncID() int { return s.ID }

func (s *Status) ExternalID() string { return s.FirebaseID }
