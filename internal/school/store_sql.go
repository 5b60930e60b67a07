package school

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/edukita/schoolhub/internal/rbac"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const userCols = `id,name,username,password_hash,role,nis,major,grade,class,subject,email,phone,avatar,created_at,updated_at`

func (s *SQLStore) Create(ctx context.Context, u User) (User, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userCols+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		u.ID, u.Name, u.Username, u.PasswordHash, u.Role.String(),
		u.NIS, u.Major, u.Grade, u.Class, u.Subject, u.Email, u.Phone, u.Avatar,
		u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrExists
		}
		return User{}, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.PasswordHash, &role,
		&u.NIS, &u.Major, &u.Grade, &u.Class, &u.Subject, &u.Email, &u.Phone, &u.Avatar,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.Role, _ = rbac.ParseRole(role)
	return u, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (s *SQLStore) GetByUsername(ctx context.Context, username string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE username=$1`, username))
}

func (s *SQLStore) ListByRole(ctx context.Context, role rbac.Role) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userCols+` FROM users WHERE role=$1 ORDER BY created_at DESC`, role.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLStore) Update(ctx context.Context, id string, upd UserUpdate, newHash string) (User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&u.Name, upd.Name)
	apply(&u.Username, upd.Username)
	apply(&u.NIS, upd.NIS)
	apply(&u.Major, upd.Major)
	apply(&u.Grade, upd.Grade)
	apply(&u.Class, upd.Class)
	apply(&u.Subject, upd.Subject)
	apply(&u.Email, upd.Email)
	apply(&u.Phone, upd.Phone)
	apply(&u.Avatar, upd.Avatar)
	if newHash != "" {
		u.PasswordHash = newHash
	}
	u.UpdatedAt = time.Now().Unix()
	_, err = s.db.ExecContext(ctx,
		`UPDATE users SET name=$1,username=$2,password_hash=$3,nis=$4,major=$5,grade=$6,class=$7,subject=$8,email=$9,phone=$10,avatar=$11,updated_at=$12 WHERE id=$13`,
		u.Name, u.Username, u.PasswordHash, u.NIS, u.Major, u.Grade, u.Class, u.Subject,
		u.Email, u.Phone, u.Avatar, u.UpdatedAt, id)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrExists
		}
		return User{}, err
	}
	return u, nil
}

func (s *SQLStore) UpdateRole(ctx context.Context, id string, role rbac.Role) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET role=$1, updated_at=$2 WHERE id=$3`,
		role.String(), time.Now().Unix(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
