package assignation

import (
	"context"
	"database/sql"

	"github.com/sarobidyBryan/signalement/internal/database"
)

type AssignationRepository interface {
	FindByReportID(ctx context.Context, reportID int) ([]Assignation, error)
	FindProgressByAssignationID(ctx context.Context, assignationID int) ([]Progress, error)
}

type AssignationRepositoryImpl struct {
	db *sql.DB
}

func NewAssignationRepository(pg *database.PostgresDB) AssignationRepository {
	return &AssignationRepositoryImpl{db: pg.DB}
}

func (r *AssignationRepositoryImpl) FindByReportID(ctx context.Context, reportID int) ([]Assignation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.report_id, a.budget, a.start_date, a.deadline, a.firebase_id,
		       a.created_at, a.updated_at,
		       c.id, c.name, c.email, c.firebase_id, c.created_at, c.updated_at
		FROM reports_assignation a
		JOIN companies c ON c.id = a.company_id
		WHERE a.report_id = $1
		ORDER BY a.id`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignations []Assignation
	for rows.Next() {
		var a Assignation
		var startDate, deadline sql.NullTime
		var firebaseID, companyFirebaseID sql.NullString
		err := rows.Scan(
			&a.ID, &a.ReportID, &a.Budget, &startDate, &deadline, &firebaseID,
			&a.CreatedAt, &a.UpdatedAt,
			&a.Company.ID, &a.Company.Name, &a.Company.Email, &companyFirebaseID,
			&a.Company.CreatedAt, &a.Company.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if startDate.Valid {
			t := startDate.Time
			a.StartDate = &t
		}
		if deadline.Valid {
			t := deadline.Time
			a.Deadline = &t
		}
		a.FirebaseID = firebaseID.String
		a.Company.FirebaseID = companyFirebaseID.String
		assignations = append(assignations, a)
	}

	return assignations, rows.Err()
}

func (r *AssignationRepositoryImpl) FindProgressByAssignationID(ctx context.Context, assignationID int) ([]Progress, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, reports_assignation_id, treated_area, comment, registration_date,
		       firebase_id, created_at, updated_at
		FROM reports_assignation_progress
		WHERE reports_assignation_id = $1
		ORDER BY id`, assignationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Progress
	for rows.Next() {
		var p Progress
		var registrationDate sql.NullTime
		var comment, firebaseID sql.NullString
		err := rows.Scan(
			&p.ID, &p.AssignationID, &p.TreatedArea, &comment, &registrationDate,
			&firebaseID, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if registrationDate.Valid {
			t := registrationDate.Time
			p.RegistrationDate = &t
		}
		p.Comment = comment.String
		p.FirebaseID = firebaseID.String
		items = append(items, p)
	}

	return items, rows.Err()
}
