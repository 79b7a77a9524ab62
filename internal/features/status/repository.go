package status

import (
	"context"
	"database/sql"

	"github.com/sarobidyBryan/signalement/internal/database"
)

type StatusRepository interface {
	GetAll(ctx context.Context) ([]Status, error)
	GetByID(ctx context.Context, id int) (*Status, error)
	GetByCode(ctx context.Context, code string) (*Status, error)
}

type StatusRepositoryImpl struct {
	db *sql.DB
}

func NewStatusRepository(pg *database.PostgresDB) StatusRepository {
	return &StatusRepositoryImpl{db: pg.DB}
}

const statusSelect = `SELECT id, status_code, label, firebase_id, created_at, updated_at FROM status`

func (r *StatusRepositoryImpl) GetAll(ctx context.Context) ([]Status, error) {
	rows, err := r.db.QueryContext(ctx, statusSelect+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []Status
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *s)
	}

	return statuses, rows.Err()
}

func (r *StatusRepositoryImpl) GetByID(ctx context.Context, id int) (*Status, error) {
	s, err := scanStatus(r.db.QueryRowContext(ctx, statusSelect+` WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *StatusRepositoryImpl) GetByCode(ctx context.Context, code string) (*Status, error) {
	s, err := scanStatus(r.db.QueryRowContext(ctx, statusSelect+` WHERE status_code = $1`, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStatus(row rowScanner) (*Status, error) {
	var s Status
	var firebaseID sql.NullString
	if err := row.Scan(&s.ID, &s.StatusCode, &s.Label, &firebaseID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.FirebaseID = firebaseID.String
	return &s, nil
}
