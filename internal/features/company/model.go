package company

import (
	"time"
)

// Company is an entity assigned to treat reports.
type Company struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	FirebaseID string    `json:"firebase_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Company) SyncID() int { return c.ID }

func (c *Company) ExternalID() string { return c.FirebaseID }
