package synclog

import (
	"context"
	"database/sql"
	"time"

	"github.com/sarobidyBryan/signalement/internal/database"
)

// epochFloor guarantees the very first pass for a pair is a full sync.
var epochFloor = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

type SyncLogRepository interface {
	// LastSyncDate returns the watermark for a (table, sync type) pair,
	// falling back to the epoch floor when the pair has never synced.
	LastSyncDate(ctx context.Context, tableName, syncType string) (time.Time, error)
	// LogSync appends an audit entry; at becomes the new watermark.
	LogSync(ctx context.Context, tableName, syncType string, recordsSynced int, at time.Time) error
	List(ctx context.Context) ([]SyncLog, error)
}

type SyncLogRepositoryImpl struct {
	db *sql.DB
}

func NewSyncLogRepository(pg *database.PostgresDB) SyncLogRepository {
	return &SyncLogRepositoryImpl{db: pg.DB}
}

func (r *SyncLogRepositoryImpl) LastSyncDate(ctx context.Context, tableName, syncType string) (time.Time, error) {
	var last sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(sync_date) FROM synchronization_logs WHERE table_name = $1 AND sync_type = $2`,
		tableName, syncType,
	).Scan(&last)
	if err != nil {
		return time.Time{}, err
	}

	if !last.Valid {
		return epochFloor, nil
	}
	return last.Time, nil
}

func (r *SyncLogRepositoryImpl) LogSync(ctx context.Context, tableName, syncType string, recordsSynced int, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO synchronization_logs (sync_date, table_name, records_synced, sync_type) VALUES ($1, $2, $3, $4)`,
		at, tableName, recordsSynced, syncType,
	)
	return err
}

func (r *SyncLogRepositoryImpl) List(ctx context.Context) ([]SyncLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sync_date, table_name, records_synced, sync_type FROM synchronization_logs ORDER BY sync_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []SyncLog
	for rows.Next() {
		var l SyncLog
		if err := rows.Scan(&l.ID, &l.SyncDate, &l.TableName, &l.RecordsSynced, &l.SyncType); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
