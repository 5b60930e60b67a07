package exam_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukita/schoolhub/internal/exam"
)

func TestCreateExamSoftDuplicateName(t *testing.T) {
	svc := exam.NewService(exam.NewMemoryStore(), nil)
	ctx := context.Background()

	first, created, err := svc.CreateExam(ctx, exam.Exam{Name: "uts", Subject: "math", Grade: "X"}, "t1")
	require.NoError(t, err)
	require.True(t, created)
	require.NotEmpty(t, first.ID)

	_, created, err = svc.CreateExam(ctx, exam.Exam{Name: "uts", Subject: "bio", Grade: "XI"}, "t2")
	require.NoError(t, err)
	require.False(t, created)

	all, err := svc.Store().ListExams(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestPresenceLogIdempotent(t *testing.T) {
	svc := exam.NewService(exam.NewMemoryStore(), nil)
	ctx := context.Background()
	e := seedExam(t, svc, 0)

	require.NoError(t, svc.LogEntry(ctx, e.ID, "s1"))
	require.NoError(t, svc.LogEntry(ctx, e.ID, "s2"))
	require.NoError(t, svc.LogEntry(ctx, e.ID, "s1")) // re-entry

	got, err := svc.Store().GetExam(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"s2", "s1"}, got.Log)

	require.NoError(t, svc.RemoveLogEntry(ctx, e.ID, "s2"))
	got, err = svc.Store().GetExam(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"s1"}, got.Log)

	// removing an absent user is a no-op
	require.NoError(t, svc.RemoveLogEntry(ctx, e.ID, "ghost"))
}

func TestDeleteExamCascades(t *testing.T) {
	svc := exam.NewService(exam.NewMemoryStore(), nil)
	ctx := context.Background()
	e := seedExam(t, svc, 3)

	_, err := svc.SubmitAnswer(ctx, exam.Answer{UserID: "s1", ExamID: e.ID, ScorePg: 50}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExam(ctx, e.ID))

	_, err = svc.Store().GetExam(ctx, e.ID)
	require.ErrorIs(t, err, exam.ErrNotFound)
	qs, err := svc.Store().ListQuestionsByExam(ctx, e.ID)
	require.NoError(t, err)
	require.Empty(t, qs)
	answers, err := svc.Store().ListAnswersByUser(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, answers)

	require.ErrorIs(t, svc.DeleteExam(ctx, e.ID), exam.ErrNotFound)
}

func TestBulkImportReplacesQuestionList(t *testing.T) {
	svc := exam.NewService(exam.NewMemoryStore(), nil)
	ctx := context.Background()
	e := seedExam(t, svc, 2)
	before, err := svc.Store().GetExam(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, before.Questions, 2)

	rows := []exam.QuestionRow{
		{Prompt: "1+1?", Type: exam.TypeChoice, Answer: "A"},
		{Prompt: "2+2?", Type: exam.TypeChoice, Answer: "B"},
		{Prompt: "essay one", Type: exam.TypeEssay},
	}
	n, err := svc.BulkImport(ctx, e.ID, rows)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	after, err := svc.Store().GetExam(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, after.Questions, 3)
	for _, old := range before.Questions {
		require.NotContains(t, after.Questions, old)
	}

	// prior question documents stay behind as orphans
	for _, old := range before.Questions {
		_, err := svc.Store().GetQuestion(ctx, old)
		require.NoError(t, err)
	}
}

func TestClearQuestionsEmptiesListOnly(t *testing.T) {
	svc := exam.NewService(exam.NewMemoryStore(), nil)
	ctx := context.Background()
	e := seedExam(t, svc, 2)

	require.NoError(t, svc.ClearQuestions(ctx, e.ID))

	after, err := svc.Store().GetExam(ctx, e.ID)
	require.NoError(t, err)
	require.Empty(t, after.Questions)
	for _, id := range e.Questions {
		_, err := svc.Store().GetQuestion(ctx, id)
		require.NoError(t, err)
	}
}

func TestDetailSkipsMissingQuestions(t *testing.T) {
	store := exam.NewMemoryStore()
	svc := exam.NewService(store, nil)
	ctx := context.Background()
	e := seedExam(t, svc, 2)

	// dangle one id in the list
	require.NoError(t, store.SetQuestionList(ctx, e.ID, append(e.Questions, "missing-id")))

	_, qs, err := svc.Detail(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, qs, 2)
}

func TestSubmitAnswerNormalizesEssayScore(t *testing.T) {
	svc := exam.NewService(exam.NewMemoryStore(), nil)
	ctx := context.Background()
	e := seedExam(t, svc, 0)

	a, err := svc.SubmitAnswer(ctx, exam.Answer{UserID: "s1", ExamID: e.ID, ScorePg: 80},
		json.RawMessage(`"abc"`))
	require.NoError(t, err)
	require.Zero(t, a.ScoreEssay)
	require.Equal(t, 80.0, a.FinalScore)

	a, err = svc.SubmitAnswer(ctx, exam.Answer{UserID: "s2", ExamID: e.ID, ScorePg: 70},
		json.RawMessage(`20`))
	require.NoError(t, err)
	require.Equal(t, 20.0, a.ScoreEssay)
	require.Equal(t, 90.0, a.FinalScore)
}

func TestNormalizeEssay(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{`15`, 15},
		{`15.5`, 15.5},
		{`"20"`, 20},
		{`"abc"`, 0},
		{`null`, 0},
		{`""`, 0},
		{``, 0},
		{`{"x":1}`, 0},
	}
	for _, c := range cases {
		got := exam.NormalizeEssay(json.RawMessage(c.raw))
		require.Equal(t, c.want, got, "raw=%q", c.raw)
	}
}

func TestResetUserClearsLogAndAnswer(t *testing.T) {
	svc := exam.NewService(exam.NewMemoryStore(), nil)
	ctx := context.Background()
	e := seedExam(t, svc, 0)

	require.NoError(t, svc.LogEntry(ctx, e.ID, "s1"))
	_, err := svc.SubmitAnswer(ctx, exam.Answer{UserID: "s1", ExamID: e.ID, ScorePg: 40}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.ResetUser(ctx, e.ID, "s1"))

	got, err := svc.Store().GetExam(ctx, e.ID)
	require.NoError(t, err)
	require.Empty(t, got.Log)
	answers, err := svc.Store().ListAnswersByUser(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, answers)

	// resetting a user with no answer record still succeeds
	require.NoError(t, svc.ResetUser(ctx, e.ID, "s1"))
}

func TestAddQuestionAppendsToList(t *testing.T) {
	svc := exam.NewService(exam.NewMemoryStore(), nil)
	ctx := context.Background()
	e := seedExam(t, svc, 1)

	q, err := svc.AddQuestion(ctx, exam.Question{ExamID: e.ID, Prompt: "new", Type: exam.TypeEssay})
	require.NoError(t, err)

	after, err := svc.Store().GetExam(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, after.Questions, 2)
	require.Equal(t, q.ID, after.Questions[1])

	_, err = svc.AddQuestion(ctx, exam.Question{ExamID: "nope", Prompt: "x", Type: exam.TypeEssay})
	require.ErrorIs(t, err, exam.ErrNotFound)
}
