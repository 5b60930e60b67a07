package exam_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukita/schoolhub/internal/exam"
)

func seedExam(t *testing.T, svc *exam.Service, nQuestions int) exam.Exam {
	t.Helper()
	e, created, err := svc.CreateExam(context.Background(), exam.Exam{
		Name:    "math midterm",
		Subject: "math",
		Grade:   "X",
	}, "teacher-1")
	require.NoError(t, err)
	require.True(t, created)
	for i := 0; i < nQuestions; i++ {
		var opts exam.OptionMap
		opts.Set("A", "alpha")
		opts.Set("B", "beta")
		opts.Set("C", "gamma")
		_, err := svc.AddQuestion(context.Background(), exam.Question{
			ExamID:  e.ID,
			Prompt:  "q",
			Type:    exam.TypeChoice,
			Options: opts,
			Answer:  "B",
		})
		require.NoError(t, err)
	}
	out, err := svc.Store().GetExam(context.Background(), e.ID)
	require.NoError(t, err)
	return out
}

func TestStartSessionIsAPermutation(t *testing.T) {
	svc := exam.NewService(exam.NewMemoryStore(), nil)
	e := seedExam(t, svc, 12)

	_, qs, err := svc.StartSession(context.Background(), e.ID)
	require.NoError(t, err)
	require.Len(t, qs, 12)

	seen := map[string]bool{}
	for _, q := range qs {
		seen[q.ID] = true
	}
	for _, id := range e.Questions {
		require.True(t, seen[id], "question %s missing from session", id)
	}

	// canonical stored order must survive the shuffle
	after, err := svc.Store().GetExam(context.Background(), e.ID)
	require.NoError(t, err)
	require.Equal(t, e.Questions, after.Questions)
}

func TestStartSessionSmallInputsUnchanged(t *testing.T) {
	svc := exam.NewService(exam.NewMemoryStore(), nil)

	e := seedExam(t, svc, 1)
	_, qs, err := svc.StartSession(context.Background(), e.ID)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	require.Equal(t, e.Questions[0], qs[0].ID)

	empty, created, err := svc.CreateExam(context.Background(), exam.Exam{Name: "empty", Subject: "x", Grade: "X"}, "t")
	require.NoError(t, err)
	require.True(t, created)
	_, qs, err = svc.StartSession(context.Background(), empty.ID)
	require.NoError(t, err)
	require.Empty(t, qs)
}

func TestStartSessionPreservesOptionAssociations(t *testing.T) {
	svc := exam.NewService(exam.NewMemoryStore(), nil)
	e := seedExam(t, svc, 6)

	_, qs, err := svc.StartSession(context.Background(), e.ID)
	require.NoError(t, err)
	for _, q := range qs {
		require.Equal(t, 3, q.Options.Len())
		v, ok := q.Options.Get("A")
		require.True(t, ok)
		require.Equal(t, "alpha", v)
		v, ok = q.Options.Get("B")
		require.True(t, ok)
		require.Equal(t, "beta", v)
		v, ok = q.Options.Get("C")
		require.True(t, ok)
		require.Equal(t, "gamma", v)
		require.Equal(t, "B", q.Answer)
	}
}

func TestStartSessionMissingExam(t *testing.T) {
	svc := exam.NewService(exam.NewMemoryStore(), nil)
	_, _, err := svc.StartSession(context.Background(), "nope")
	require.ErrorIs(t, err, exam.ErrNotFound)
}
