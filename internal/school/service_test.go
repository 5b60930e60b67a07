package school_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukita/schoolhub/internal/exam"
	"github.com/edukita/schoolhub/internal/rbac"
	"github.com/edukita/schoolhub/internal/records"
	"github.com/edukita/schoolhub/internal/school"
)

func newTestService(t *testing.T) (*school.Service, exam.Store, records.Store) {
	t.Helper()
	examStore := exam.NewMemoryStore()
	recStore := records.NewMemoryStore()
	svc := school.NewService(school.NewMemoryStore(), examStore, recStore, 4)
	return svc, examStore, recStore
}

func mustCreate(t *testing.T, svc *school.Service, in school.NewUser, role rbac.Role) school.User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), in, role)
	require.NoError(t, err)
	return u
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	u := mustCreate(t, svc, school.NewUser{Name: "Ani", Username: "ani", Password: "secret1"}, rbac.RoleStudent)

	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "secret1", u.PasswordHash)
	require.True(t, school.CheckPassword(u, "secret1"))
	require.False(t, school.CheckPassword(u, "wrong"))
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustCreate(t, svc, school.NewUser{Name: "Ani", Username: "ani", Password: "secret1"}, rbac.RoleStudent)
	_, err := svc.CreateUser(context.Background(),
		school.NewUser{Name: "Other", Username: "ani", Password: "secret2"}, rbac.RoleStudent)
	require.ErrorIs(t, err, school.ErrExists)
}

func TestUpdateUserRehashesOnNewPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	u := mustCreate(t, svc, school.NewUser{Name: "Ani", Username: "ani", Password: "secret1"}, rbac.RoleStudent)

	pw := "newpass"
	updated, err := svc.UpdateUser(context.Background(), u.ID, school.UserUpdate{Password: &pw})
	require.NoError(t, err)
	require.True(t, school.CheckPassword(updated, "newpass"))
	require.False(t, school.CheckPassword(updated, "secret1"))

	name := "Ani B"
	updated, err = svc.UpdateUser(context.Background(), u.ID, school.UserUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Ani B", updated.Name)
	require.True(t, school.CheckPassword(updated, "newpass"), "hash must survive non-password updates")
}

func TestDeleteStudentCascades(t *testing.T) {
	svc, examStore, recStore := newTestService(t)
	ctx := context.Background()
	u := mustCreate(t, svc, school.NewUser{Name: "Ani", Username: "ani", Password: "secret1"}, rbac.RoleStudent)

	_, err := recStore.Create(ctx, "payments", map[string]any{"user": u.ID, "amount": 100})
	require.NoError(t, err)
	_, err = examStore.CreateAnswer(ctx, exam.Answer{ID: "a1", UserID: u.ID, ExamID: "e1"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStudent(ctx, u.ID))

	_, err = svc.Users().Get(ctx, u.ID)
	require.ErrorIs(t, err, school.ErrNotFound)
	payments, err := recStore.ListBy(ctx, "payments", "user", u.ID)
	require.NoError(t, err)
	require.Empty(t, payments)
	answers, err := examStore.ListAnswersByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, answers)
}

func TestDeleteAllStudentsLeavesTeachers(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, school.NewUser{Name: "S1", Username: "s1", Password: "pass1"}, rbac.RoleStudent)
	mustCreate(t, svc, school.NewUser{Name: "S2", Username: "s2", Password: "pass2"}, rbac.RoleStudent)
	teacher := mustCreate(t, svc, school.NewUser{Name: "T", Username: "t1", Password: "pass3"}, rbac.RoleTeacher)

	n, err := svc.DeleteAllStudents(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	students, err := svc.Users().ListByRole(ctx, rbac.RoleStudent)
	require.NoError(t, err)
	require.Empty(t, students)
	_, err = svc.Users().Get(ctx, teacher.ID)
	require.NoError(t, err)
}

func TestDeleteTeacherCascadesOwnedExams(t *testing.T) {
	svc, examStore, _ := newTestService(t)
	ctx := context.Background()
	teacher := mustCreate(t, svc, school.NewUser{Name: "T", Username: "t1", Password: "pass1"}, rbac.RoleTeacher)

	examSvc := exam.NewService(examStore, nil)
	e, created, err := examSvc.CreateExam(ctx, exam.Exam{Name: "uts", Subject: "math", Grade: "X"}, teacher.ID)
	require.NoError(t, err)
	require.True(t, created)
	_, err = examSvc.AddQuestion(ctx, exam.Question{ExamID: e.ID, Prompt: "q", Type: exam.TypeEssay})
	require.NoError(t, err)
	_, err = examStore.CreateAnswer(ctx, exam.Answer{ID: "a1", UserID: "s1", ExamID: e.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTeacher(ctx, teacher.ID))

	_, err = svc.Users().Get(ctx, teacher.ID)
	require.ErrorIs(t, err, school.ErrNotFound)
	_, err = examStore.GetExam(ctx, e.ID)
	require.ErrorIs(t, err, exam.ErrNotFound)
	qs, err := examStore.ListQuestionsByExam(ctx, e.ID)
	require.NoError(t, err)
	require.Empty(t, qs)
	answers, err := examStore.ListAnswers(ctx)
	require.NoError(t, err)
	require.Empty(t, answers)
}

func TestDeleteAllTeachersWipesExamDomain(t *testing.T) {
	svc, examStore, _ := newTestService(t)
	ctx := context.Background()
	t1 := mustCreate(t, svc, school.NewUser{Name: "T1", Username: "t1", Password: "pass1"}, rbac.RoleTeacher)
	mustCreate(t, svc, school.NewUser{Name: "T2", Username: "t2", Password: "pass2"}, rbac.RoleTeacher)
	student := mustCreate(t, svc, school.NewUser{Name: "S", Username: "s1", Password: "pass3"}, rbac.RoleStudent)

	examSvc := exam.NewService(examStore, nil)
	e, created, err := examSvc.CreateExam(ctx, exam.Exam{Name: "uts", Subject: "math", Grade: "X"}, t1.ID)
	require.NoError(t, err)
	require.True(t, created)
	_, err = examSvc.AddQuestion(ctx, exam.Question{ExamID: e.ID, Prompt: "q", Type: exam.TypeEssay})
	require.NoError(t, err)
	// orphan question referencing no live exam, wiped all the same
	_, err = examStore.CreateQuestion(ctx, exam.Question{ID: "orphan-q", ExamID: "gone"})
	require.NoError(t, err)
	_, err = examStore.CreateAnswer(ctx, exam.Answer{ID: "a1", UserID: student.ID, ExamID: e.ID})
	require.NoError(t, err)

	n, err := svc.DeleteAllTeachers(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	teachers, err := svc.Users().ListByRole(ctx, rbac.RoleTeacher)
	require.NoError(t, err)
	require.Empty(t, teachers)
	_, err = svc.Users().Get(ctx, student.ID)
	require.NoError(t, err)

	exams, err := examStore.ListExams(ctx)
	require.NoError(t, err)
	require.Empty(t, exams)
	_, err = examStore.GetQuestion(ctx, "orphan-q")
	require.ErrorIs(t, err, exam.ErrNotFound)
	answers, err := examStore.ListAnswers(ctx)
	require.NoError(t, err)
	require.Empty(t, answers)
}

func TestUpdateUserRejectsTakenUsername(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustCreate(t, svc, school.NewUser{Name: "Ani", Username: "ani", Password: "pass1"}, rbac.RoleStudent)
	budi := mustCreate(t, svc, school.NewUser{Name: "Budi", Username: "budi", Password: "pass2"}, rbac.RoleStudent)

	taken := "ani"
	_, err := svc.UpdateUser(context.Background(), budi.ID, school.UserUpdate{Username: &taken})
	require.ErrorIs(t, err, school.ErrExists)

	// renaming to your own current handle stays legal
	same := "budi"
	_, err = svc.UpdateUser(context.Background(), budi.ID, school.UserUpdate{Username: &same})
	require.NoError(t, err)
}

func TestBulkCreateStopsAtFirstFailure(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, school.NewUser{Name: "Taken", Username: "dup", Password: "pass1"}, rbac.RoleStudent)

	rows := []school.NewUser{
		{Name: "A", Username: "a", Password: "pass1"},
		{Name: "B", Username: "dup", Password: "pass2"},
		{Name: "C", Username: "c", Password: "pass3"},
	}
	n, err := svc.BulkCreate(ctx, rows, rbac.RoleStudent)
	require.Error(t, err)
	require.Equal(t, 1, n)

	_, err = svc.Users().GetByUsername(ctx, "a")
	require.NoError(t, err)
	_, err = svc.Users().GetByUsername(ctx, "c")
	require.ErrorIs(t, err, school.ErrNotFound)
}

func TestPublicOmitsCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	u := mustCreate(t, svc, school.NewUser{
		Name: "Ani", Username: "ani", Password: "secret1",
		NIS: "123", Grade: "X", Class: "X-1",
	}, rbac.RoleStudent)

	p := u.Public()
	require.Equal(t, u.ID, p.ID)
	require.Equal(t, "123", p.NIS)
}
