package school

import (
	"context"
	"errors"

	"github.com/edukita/schoolhub/internal/rbac"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

// User is an account record. Student attributes (NIS, Major, Grade, Class)
// and the teacher attribute (Subject) are populated per role and empty
// otherwise. PasswordHash never leaves the package through JSON.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         rbac.Role `json:"role"`
	NIS          string    `json:"nis,omitempty"`
	Major        string    `json:"major,omitempty"`
	Grade        string    `json:"grade,omitempty"`
	Class        string    `json:"class,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    int64     `json:"createdAt"`
	UpdatedAt    int64     `json:"updatedAt"`
}

// Public is the sanitized shape embedded in populated responses: no
// credential hash and no login handle.
type Public struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Role    rbac.Role `json:"role,omitempty"`
	NIS     string    `json:"nis,omitempty"`
	Major   string    `json:"major,omitempty"`
	Grade   string    `json:"grade,omitempty"`
	Class   string    `json:"class,omitempty"`
	Subject string    `json:"subject,omitempty"`
	Avatar  string    `json:"avatar,omitempty"`
}

func (u User) Public() Public {
	return Public{
		ID:      u.ID,
		Name:    u.Name,
		Role:    u.Role,
		NIS:     u.NIS,
		Major:   u.Major,
		Grade:   u.Grade,
		Class:   u.Class,
		Subject: u.Subject,
		Avatar:  u.Avatar,
	}
}

// UserUpdate carries a partial update; nil fields are untouched. Role is
// intentionally absent: role changes go through UpdateRole, an admin action.
type UserUpdate struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Username *string `json:"username" validate:"omitempty,min=1"`
	Password *string `json:"password" validate:"omitempty,min=4"`
	NIS      *string `json:"nis"`
	Major    *string `json:"major"`
	Grade    *string `json:"grade"`
	Class    *string `json:"class"`
	Subject  *string `json:"subject"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
}

// Store is the account collection.
type Store interface {
	Create(ctx context.Context, u User) (User, error)
	Get(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	ListByRole(ctx context.Context, role rbac.Role) ([]User, error)
	Update(ctx context.Context, id string, upd UserUpdate, newHash string) (User, error)
	UpdateRole(ctx context.Context, id string, role rbac.Role) error
	Delete(ctx context.Context, id string) error
}
