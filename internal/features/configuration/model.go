package configuration

import (
	"time"
)

// Configuration is one typed key/value application setting.
type Configuration struct {
	ID         int       `json:"id"`
	Key        string    `json:"key"`
	Value      string    `json:"value"`
	Type       string    `json:"type"`
	FirebaseID string    `json:"firebase_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Configuration) SyncID() int { return c.ID }

func (c *Configuration) ExternalID() string { return c.FirebaseID }
