package company

import (
	"context"
	"database/sql"
	"time"

	"github.com/sarobidyBryan/signalement/internal/database"
)

type CompanyRepository interface {
	FindModifiedSince(ctx context.Context, since time.Time) ([]Company, error)
	GetByID(ctx context.Context, id int) (*Company, error)
	UpdateFirebaseID(ctx context.Context, id int, firebaseID string) error
}

type CompanyRepositoryImpl struct {
	db *sql.DB
}

func NewCompanyRepository(pg *database.PostgresDB) CompanyRepository {
	return &CompanyRepositoryImpl{db: pg.DB}
}

const companySelect = `SELECT id, name, email, firebase_id, created_at, updated_at FROM companies`

func (r *CompanyRepositoryImpl) FindModifiedSince(ctx context.Context, since time.Time) ([]Company, error) {
	rows, err := r.db.QueryContext(ctx,
		companySelect+` WHERE created_at > $1 OR updated_at > $1 ORDER BY id`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		var firebaseID sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &firebaseID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.FirebaseID = firebaseID.String
		companies = append(companies, c)
	}

	return companies, rows.Err()
}

func (r *CompanyRepositoryImpl) GetByID(ctx context.Context, id int) (*Company, error) {
	var c Company
	var firebaseID sql.NullString
	err := r.db.QueryRowContext(ctx, companySelect+` WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Email, &firebaseID, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.FirebaseID = firebaseID.String
	return &c, nil
}

func (r *CompanyRepositoryImpl) UpdateFirebaseID(ctx context.Context, id int, firebaseID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE companies SET firebase_id = $1 WHERE id = $2`, firebaseID, id)
	return err
}
