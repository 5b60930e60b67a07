package school

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/edukita/schoolhub/internal/exam"
	"github.com/edukita/schoolhub/internal/rbac"
	"github.com/edukita/schoolhub/internal/records"
)

const paymentsCollection = "payments"

// Service owns account lifecycle, including the cross-collection cascades
// that deleting an account implies. Cascades are explicit ordered writes,
// not transactions; a crash mid-cascade leaves orphans, never a dangling
// account reference.
type Service struct {
	users      Store
	exams      exam.Store
	recs       records.Store
	bcryptCost int
}

func NewService(users Store, exams exam.Store, recs records.Store, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{users: users, exams: exams, recs: recs, bcryptCost: bcryptCost}
}

func (s *Service) Users() Store { return s.users }

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	return string(b), err
}

// CheckPassword verifies a login attempt against the stored hash.
func CheckPassword(u User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
	NIS      string `json:"nis"`
	Major    string `json:"major"`
	Grade    string `json:"grade"`
	Class    string `json:"class"`
	Subject  string `json:"subject"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
}

func (s *Service) CreateUser(ctx context.Context, in NewUser, role rbac.Role) (User, error) {
	hash, err := s.hash(in.Password)
	if err != nil {
		return User{}, err
	}
	now := time.Now().Unix()
	u := User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Username:     in.Username,
		PasswordHash: hash,
		Role:         role,
		NIS:          in.NIS,
		Major:        in.Major,
		Grade:        in.Grade,
		Class:        in.Class,
		Subject:      in.Subject,
		Email:        in.Email,
		Phone:        in.Phone,
		Avatar:       in.Avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.users.Create(ctx, u)
}

func (s *Service) UpdateUser(ctx context.Context, id string, upd UserUpdate) (User, error) {
	var newHash string
	if upd.Password != nil && *upd.Password != "" {
		h, err := s.hash(*upd.Password)
		if err != nil {
			return User{}, err
		}
		newHash = h
	}
	return s.users.Update(ctx, id, upd, newHash)
}

// BulkCreate persists rows sequentially and reports how many were saved.
// A failure partway through leaves the earlier rows persisted; the count
// reflects progress, not all-or-nothing.
func (s *Service) BulkCreate(ctx context.Context, rows []NewUser, role rbac.Role) (int, error) {
	for i, row := range rows {
		if _, err := s.CreateUser(ctx, row, role); err != nil {
			return i, err
		}
	}
	return len(rows), nil
}

// DeleteStudent cascades: the student's payments, then their answers, then
// the account itself.
func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.recs.DeleteBy(ctx, paymentsCollection, "user", u.ID); err != nil {
		return err
	}
	if _, err := s.exams.DeleteAnswersByUser(ctx, u.ID); err != nil {
		return err
	}
	return s.users.Delete(ctx, u.ID)
}

// DeleteAllStudents runs the per-student cascade for every student account
// and returns how many accounts were removed.
func (s *Service) DeleteAllStudents(ctx context.Context) (int, error) {
	students, err := s.users.ListByRole(ctx, rbac.RoleStudent)
	if err != nil {
		return 0, err
	}
	for i, u := range students {
		if err := s.DeleteStudent(ctx, u.ID); err != nil {
			return i, err
		}
	}
	return len(students), nil
}

// DeleteTeacher cascades through everything the teacher authored: answers
// to their exams first, then the exams, then those exams' questions, then
// the account.
func (s *Service) DeleteTeacher(ctx context.Context, id string) error {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}
	owned, err := s.exams.ListExamsByOwner(ctx, u.ID)
	if err != nil {
		return err
	}
	for _, e := range owned {
		if _, err := s.exams.DeleteAnswersByExam(ctx, e.ID); err != nil {
			return err
		}
	}
	for _, e := range owned {
		if err := s.exams.DeleteExam(ctx, e.ID); err != nil && err != exam.ErrNotFound {
			return err
		}
	}
	for _, e := range owned {
		if _, err := s.exams.DeleteQuestionsByExam(ctx, e.ID); err != nil {
			return err
		}
	}
	return s.users.Delete(ctx, u.ID)
}

// DeleteAllTeachers wipes the entire exam domain (every exam, question and
// answer, orphans included) and then removes every teacher account,
// returning how many were removed.
func (s *Service) DeleteAllTeachers(ctx context.Context) (int, error) {
	teachers, err := s.users.ListByRole(ctx, rbac.RoleTeacher)
	if err != nil {
		return 0, err
	}
	if err := s.exams.DeleteAllExamData(ctx); err != nil {
		return 0, err
	}
	for i, u := range teachers {
		if err := s.users.Delete(ctx, u.ID); err != nil {
			return i, err
		}
	}
	return len(teachers), nil
}

// IdentityByID satisfies auth.IdentitySource.
func (s *Service) IdentityByID(ctx context.Context, id string) (rbac.Identity, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return rbac.Identity{}, err
	}
	return rbac.Identity{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// RoleByUsername satisfies rbac.RoleLookup.
func (s *Service) RoleByUsername(ctx context.Context, username string) (rbac.Role, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return u.Role, nil
}
