package report

import (
	"context"
	"database/sql"
	"time"

	"github.com/sarobidyBryan/signalement/internal/database"
)

type ReportRepository interface {
	FindModifiedSince(ctx context.Context, since time.Time) ([]Report, error)
	GetByID(ctx context.Context, id int) (*Report, error)
	GetByFirebaseID(ctx context.Context, firebaseID string) (*Report, error)
	Create(ctx context.Context, r *Report) error
	Update(ctx context.Context, r *Report) error
	UpdateFirebaseID(ctx context.Context, id int, firebaseID string) error
	RecordStatusHistory(ctx context.Context, reportID, statusID int, at time.Time) error
}

type ReportRepositoryImpl struct {
	db *sql.DB
}

func NewReportRepository(pg *database.PostgresDB) ReportRepository {
	return &ReportRepositoryImpl{db: pg.DB}
}

const reportSelect = `
	SELECT rp.id, rp.report_date, rp.area, rp.longitude, rp.latitude, rp.description,
	       rp.firebase_id, rp.created_at, rp.updated_at,
	       u.id, u.name, u.email, u.password, u.firebase_uid, u.created_at, u.updated_at,
	       r.id, r.role_code, r.label,
	       ust.id, ust.status_code, ust.label,
	       s.id, s.status_code, s.label, s.firebase_id, s.created_at, s.updated_at
	FROM reports rp
	JOIN users u ON u.id = rp.user_id
	JOIN roles r ON r.id = u.role_id
	JOIN user_status_types ust ON ust.id = u.user_status_type_id
	JOIN status s ON s.id = rp.status_id`

func (r *ReportRepositoryImpl) FindModifiedSince(ctx context.Context, since time.Time) ([]Report, error) {
	rows, err := r.db.QueryContext(ctx,
		reportSelect+` WHERE rp.created_at > $1 OR rp.updated_at > $1 ORDER BY rp.id`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}

	return reports, rows.Err()
}

func (r *ReportRepositoryImpl) GetByID(ctx context.Context, id int) (*Report, error) {
	rep, err := scanReport(r.db.QueryRowContext(ctx, reportSelect+` WHERE rp.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rep, err
}

func (r *ReportRepositoryImpl) GetByFirebaseID(ctx context.Context, firebaseID string) (*Report, error) {
	rep, err := scanReport(r.db.QueryRowContext(ctx, reportSelect+` WHERE rp.firebase_id = $1`, firebaseID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rep, err
}

func (r *ReportRepositoryImpl) Create(ctx context.Context, rep *Report) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO reports (user_id, status_id, report_date, area, longitude, latitude, description, firebase_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NOW(), NOW())
		RETURNING id`,
		rep.User.ID, rep.Status.ID, rep.ReportDate,
		rep.Area, rep.Longitude, rep.Latitude,
		rep.Description, rep.FirebaseID,
	).Scan(&rep.ID)
}

func (r *ReportRepositoryImpl) Update(ctx context.Context, rep *Report) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET status_id = $1, report_date = $2, area = $3, longitude = $4, latitude = $5,
		    description = $6, firebase_id = NULLIF($7, ''), updated_at = NOW()
		WHERE id = $8`,
		rep.Status.ID, rep.ReportDate,
		rep.Area, rep.Longitude, rep.Latitude,
		rep.Description, rep.FirebaseID, rep.ID)
	return err
}

func (r *ReportRepositoryImpl) UpdateFirebaseID(ctx context.Context, id int, firebaseID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reports SET firebase_id = $1 WHERE id = $2`, firebaseID, id)
	return err
}

func (r *ReportRepositoryImpl) RecordStatusHistory(ctx context.Context, reportID, statusID int, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports_status (report_id, status_id, registration_date)
		VALUES ($1, $2, $3)`, reportID, statusID, at)
	return err
}
