package exam

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Store is the durable collection layer for exams, questions and answers.
// It deals in single-collection reads and writes only; multi-step semantics
// (cascades, list replacement, presence-log editing) live in Service.
type Store interface {
	// DeleteAllExamData wipes every exam, question and answer, orphans
	// included. Backs the delete-all-teachers cascade.
	DeleteAllExamData(ctx context.Context) error

	CreateExam(ctx context.Context, e Exam) (Exam, error)
	GetExam(ctx context.Context, id string) (Exam, error)
	GetExamByName(ctx context.Context, name string) (Exam, error)
	ListExams(ctx context.Context) ([]Exam, error)
	ListExamsByOwner(ctx context.Context, userID string) ([]Exam, error)
	ListExamsByGrade(ctx context.Context, grade string) ([]Exam, error)
	UpdateExam(ctx context.Context, id string, upd ExamUpdate) (Exam, error)
	DeleteExam(ctx context.Context, id string) error
	SetQuestionList(ctx context.Context, examID string, ids []string) error
	SetPresenceLog(ctx context.Context, examID string, log []string) error

	CreateQuestion(ctx context.Context, q Question) (Question, error)
	GetQuestion(ctx context.Context, id string) (Question, error)
	ListQuestionsByExam(ctx context.Context, examID string) ([]Question, error)
	UpdateQuestion(ctx context.Context, id string, upd QuestionUpdate) (Question, error)
	DeleteQuestionsByExam(ctx context.Context, examID string) (int64, error)

	CreateAnswer(ctx context.Context, a Answer) (Answer, error)
	ListAnswers(ctx context.Context) ([]Answer, error)
	ListAnswersByUser(ctx context.Context, userID string) ([]Answer, error)
	DeleteAnswersByExam(ctx context.Context, examID string) (int64, error)
	DeleteAnswersByUser(ctx context.Context, userID string) (int64, error)
	DeleteAnswerByUserExam(ctx context.Context, userID, examID string) error
}
