package sync

import (
	"time"
)

// Target collections mirror the relational table names.
const (
	TableConfigurations = "configurations"
	TableCompanies      = "companies"
	TableStatus         = "status"
	TableUsers          = "users"
	TableReports        = "reports"
)

// EntityResult is the outcome of one sync pass over a single entity type.
type EntityResult struct {
	Table        string    `json:"table"`
	Total        int       `json:"total_modified"`
	Synced       int       `json:"synced"`
	Created      int       `json:"created"`
	Updated      int       `json:"updated"`
	AuthCreated  int       `json:"auth_created,omitempty"`
	AuthExisting int       `json:"auth_existing,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Summary aggregates the per-entity results of one directional run. A pass
// that fails wholesale surfaces through Success/Error rather than a bare
// error return, so callers always get a result object.
type Summary struct {
	Success   bool                    `json:"success"`
	Error     string                  `json:"error,omitempty"`
	Results   map[string]EntityResult `json:"results"`
	Timestamp time.Time               `json:"timestamp"`
}

// BidirectionalResult pairs a push run with the pull run that followed it.
type BidirectionalResult struct {
	Push    Summary `json:"postgres_to_mongo"`
	Pull    Summary `json:"mongo_to_postgres"`
	Success bool    `json:"success"`
}
