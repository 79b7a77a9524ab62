package synclog

import (
	"time"
)

// Sync directions recorded with every audit entry.
const (
	SyncTypePush = "POSTGRES_TO_MONGO"
	SyncTypePull = "MONGO_TO_POSTGRES"
)

// SyncLog is one append-only audit entry. The most recent entry for a
// (table, sync type) pair is also the incremental watermark for that pair.
type SyncLog struct {
	ID            int       `json:"id"`
	SyncDate      time.Time `json:"sync_date"`
	TableName     string    `json:"table_name"`
	RecordsSynced int       `json:"records_synced"`
	SyncType      string    `json:"sync_type"`
}
