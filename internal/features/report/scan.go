package report

import (
	"database/sql"

	"github.com/sarobidyBryan/signalement/internal/features/user"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*Report, error) {
	var rep Report
	var role user.Role
	var statusType user.UserStatusType
	var reportDate sql.NullTime
	var description, firebaseID, userFirebaseUID, statusFirebaseID sql.NullString

	err := row.Scan(
		&rep.ID, &reportDate, &rep.Area, &rep.Longitude, &rep.Latitude, &description,
		&firebaseID, &rep.CreatedAt, &rep.UpdatedAt,
		&rep.User.ID, &rep.User.Name, &rep.User.Email, &rep.User.Password, &userFirebaseUID,
		&rep.User.CreatedAt, &rep.User.UpdatedAt,
		&role.ID, &role.RoleCode, &role.Label,
		&statusType.ID, &statusType.StatusCode, &statusType.Label,
		&rep.Status.ID, &rep.Status.StatusCode, &rep.Status.Label, &statusFirebaseID,
		&rep.Status.CreatedAt, &rep.Status.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rep.User.Role = &role
	rep.User.UserStatusType = &statusType

	if reportDate.Valid {
		t := reportDate.Time
		rep.ReportDate = &t
	}
	rep.Description = description.String
	rep.FirebaseID = firebaseID.String
	rep.User.FirebaseUID = userFirebaseUID.String
	rep.Status.FirebaseID = statusFirebaseID.String

	return &rep, nil
}
