package user

import (
	"context"
	"database/sql"
	"time"

	"github.com/sarobidyBryan/signalement/internal/database"
)

type UserRepository interface {
	FindModifiedSince(ctx context.Context, since time.Time) ([]User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByFirebaseUID(ctx context.Context, uid string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	UpdateFirebaseUID(ctx context.Context, id int, uid string) error

	GetRoleByID(ctx context.Context, id int) (*Role, error)
	GetRoleByCode(ctx context.Context, code string) (*Role, error)
	GetUserStatusTypeByID(ctx context.Context, id int) (*UserStatusType, error)
	GetUserStatusTypeByCode(ctx context.Context, code string) (*UserStatusType, error)
}

type UserRepositoryImpl struct {
	db *sql.DB
}

func NewUserRepository(pg *database.PostgresDB) UserRepository {
	return &UserRepositoryImpl{db: pg.DB}
}

const userSelect = `
	SELECT u.id, u.name, u.email, u.password, u.firebase_uid, u.created_at, u.updated_at,
	       r.id, r.role_code, r.label,
	       t.id, t.status_code, t.label
	FROM users u
	JOIN roles r ON r.id = u.role_id
	JOIN user_status_types t ON t.id = u.user_status_type_id`

func (r *UserRepositoryImpl) FindModifiedSince(ctx context.Context, since time.Time) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		userSelect+` WHERE u.created_at > $1 OR u.updated_at > $1 ORDER BY u.id`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}

	return users, rows.Err()
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id int) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE u.id = $1`, id))
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE u.email = $1`, email))
}

func (r *UserRepositoryImpl) GetByFirebaseUID(ctx context.Context, uid string) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE u.firebase_uid = $1`, uid))
}

func (r *UserRepositoryImpl) Create(ctx context.Context, u *User) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password, firebase_uid, role_id, user_status_type_id, created_at, updated_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8) RETURNING id`,
		u.Name, u.Email, u.Password, u.FirebaseUID, u.Role.ID, u.UserStatusType.ID, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
}

func (r *UserRepositoryImpl) Update(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $1, email = $2, firebase_uid = NULLIF($3, ''), role_id = $4, user_status_type_id = $5, updated_at = $6
		 WHERE id = $7`,
		u.Name, u.Email, u.FirebaseUID, u.Role.ID, u.UserStatusType.ID, u.UpdatedAt, u.ID)
	return err
}

func (r *UserRepositoryImpl) UpdateFirebaseUID(ctx context.Context, id int, uid string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET firebase_uid = $1 WHERE id = $2`, uid, id)
	return err
}

func (r *UserRepositoryImpl) GetRoleByID(ctx context.Context, id int) (*Role, error) {
	return scanRole(r.db.QueryRowContext(ctx,
		`SELECT id, role_code, label FROM roles WHERE id = $1`, id))
}

func (r *UserRepositoryImpl) GetRoleByCode(ctx context.Context, code string) (*Role, error) {
	return scanRole(r.db.QueryRowContext(ctx,
		`SELECT id, role_code, label FROM roles WHERE role_code = $1`, code))
}

func (r *UserRepositoryImpl) GetUserStatusTypeByID(ctx context.Context, id int) (*UserStatusType, error) {
	return scanUserStatusType(r.db.QueryRowContext(ctx,
		`SELECT id, status_code, label FROM user_status_types WHERE id = $1`, id))
}

func (r *UserRepositoryImpl) GetUserStatusTypeByCode(ctx context.Context, code string) (*UserStatusType, error) {
	return scanUserStatusType(r.db.QueryRowContext(ctx,
		`SELECT id, status_code, label FROM user_status_types WHERE status_code = $1`, code))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var role Role
	var statusType UserStatusType
	var firebaseUID sql.NullString

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &firebaseUID, &u.CreatedAt, &u.UpdatedAt,
		&role.ID, &role.RoleCode, &role.Label,
		&statusType.ID, &statusType.StatusCode, &statusType.Label,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.FirebaseUID = firebaseUID.String
	u.Role = &role
	u.UserStatusType = &statusType
	return &u, nil
}

func scanRole(row rowScanner) (*Role, error) {
	var role Role
	err := row.Scan(&role.ID, &role.RoleCode, &role.Label)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func scanUserStatusType(row rowScanner) (*UserStatusType, error) {
	var st UserStatusType
	err := row.Scan(&st.ID, &st.StatusCode, &st.Label)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}
