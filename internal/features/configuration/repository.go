package configuration

import (
	"context"
	"database/sql"
	"time"

	"github.com/sarobidyBryan/signalement/internal/database"
)

type ConfigurationRepository interface {
	FindModifiedSince(ctx context.Context, since time.Time) ([]Configuration, error)
	GetByKey(ctx context.Context, key string) (*Configuration, error)
	UpdateFirebaseID(ctx context.Context, id int, firebaseID string) error
}

type ConfigurationRepositoryImpl struct {
	db *sql.DB
}

func NewConfigurationRepository(pg *database.PostgresDB) ConfigurationRepository {
	return &ConfigurationRepositoryImpl{db: pg.DB}
}

const configurationSelect = `SELECT id, key, value, type, firebase_id, created_at, updated_at FROM configurations`

func (r *ConfigurationRepositoryImpl) FindModifiedSince(ctx context.Context, since time.Time) ([]Configuration, error) {
	rows, err := r.db.QueryContext(ctx,
		configurationSelect+` WHERE created_at > $1 OR updated_at > $1 ORDER BY id`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []Configuration
	for rows.Next() {
		var c Configuration
		var firebaseID sql.NullString
		if err := rows.Scan(&c.ID, &c.Key, &c.Value, &c.Type, &firebaseID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.FirebaseID = firebaseID.String
		configs = append(configs, c)
	}

	return configs, rows.Err()
}

func (r *ConfigurationRepositoryImpl) GetByKey(ctx context.Context, key string) (*Configuration, error) {
	var c Configuration
	var firebaseID sql.NullString
	err := r.db.QueryRowContext(ctx, configurationSelect+` WHERE key = $1`, key).
		Scan(&c.ID, &c.Key, &c.Value, &c.Type, &firebaseID, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.FirebaseID = firebaseID.String
	return &c, nil
}

func (r *ConfigurationRepositoryImpl) UpdateFirebaseID(ctx context.Context, id int, firebaseID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE configurations SET firebase_id = $1 WHERE id = $2`, firebaseID, id)
	return err
}
