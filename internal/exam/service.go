package exam

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EventRecorder receives best-effort audit events for exam activity.
type EventRecorder interface {
	Record(ctx context.Context, typ, key string, data any)
}

type Service struct {
	store  Store
	events EventRecorder
}

func NewService(store Store, events EventRecorder) *Service {
	return &Service{store: store, events: events}
}

func (s *Service) Store() Store { return s.store }

func (s *Service) record(ctx context.Context, typ, key string, data any) {
	if s.events != nil {
		s.events.Record(ctx, typ, key, data)
	}
}

// CreateExam persists a new exam owned by creator. A duplicate name is a
// soft rejection: created=false and no record is written.
func (s *Service) CreateExam(ctx context.Context, e Exam, creatorID string) (Exam, bool, error) {
	if _, err := s.store.GetExamByName(ctx, e.Name); err == nil {
		return Exam{}, false, nil
	} else if err != ErrNotFound {
		return Exam{}, false, err
	}
	now := time.Now().Unix()
	e.ID = uuid.NewString()
	e.UserID = creatorID
	e.Questions = []string{}
	e.Log = []string{}
	e.CreatedAt = now
	e.UpdatedAt = now
	out, err := s.store.CreateExam(ctx, e)
	return out, err == nil, err
}

// DeleteExam cascades: exam row first, then its questions, then answers
// referencing it. A crash mid-cascade leaves orphans (queryable by exam id),
// never a dangling exam reference.
func (s *Service) DeleteExam(ctx context.Context, examID string) error {
	if _, err := s.store.GetExam(ctx, examID); err != nil {
		return err
	}
	if err := s.store.DeleteExam(ctx, examID); err != nil {
		return err
	}
	if _, err := s.store.DeleteQuestionsByExam(ctx, examID); err != nil {
		return err
	}
	_, err := s.store.DeleteAnswersByExam(ctx, examID)
	return err
}

// Detail returns the exam with its question list resolved in canonical order.
// Ids whose documents no longer exist are skipped.
func (s *Service) Detail(ctx context.Context, examID string) (Exam, []Question, error) {
	e, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return Exam{}, nil, err
	}
	qs := make([]Question, 0, len(e.Questions))
	for _, id := range e.Questions {
		q, err := s.store.GetQuestion(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return Exam{}, nil, err
		}
		qs = append(qs, q)
	}
	return e, qs, nil
}

// AddQuestion creates a question and appends its id to the owning exam's
// question list. The two writes are not atomic; a crash in between leaves
// the question document unreferenced.
func (s *Service) AddQuestion(ctx context.Context, q Question) (Question, error) {
	e, err := s.store.GetExam(ctx, q.ExamID)
	if err != nil {
		return Question{}, err
	}
	q.ID = uuid.NewString()
	q.CreatedAt = time.Now().Unix()
	out, err := s.store.CreateQuestion(ctx, q)
	if err != nil {
		return Question{}, err
	}
	if err := s.store.SetQuestionList(ctx, e.ID, append(e.Questions, out.ID)); err != nil {
		return Question{}, err
	}
	return out, nil
}

// BulkImport turns each row into a question document and then REPLACES the
// exam's question list with the new ids. Prior questions stay on disk as
// orphans; that is the documented behavior, not a bug. Rows are processed
// sequentially; on failure the count of rows persisted so far is returned
// and the exam's list is left untouched.
func (s *Service) BulkImport(ctx context.Context, examID string, rows []QuestionRow) (int, error) {
	e, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(rows))
	for i, row := range rows {
		q := Question{
			ID:        uuid.NewString(),
			ExamID:    e.ID,
			Prompt:    row.Prompt,
			Audio:     row.Audio,
			Image:     row.Image,
			Type:      row.Type,
			Options:   row.Options,
			Answer:    row.Answer,
			CreatedAt: time.Now().Unix(),
		}
		if _, err := s.store.CreateQuestion(ctx, q); err != nil {
			return i, err
		}
		ids = append(ids, q.ID)
	}
	if err := s.store.SetQuestionList(ctx, e.ID, ids); err != nil {
		return len(ids), err
	}
	return len(ids), nil
}

// ClearQuestions empties the exam's question-list field only. The question
// documents remain on disk as orphans, queryable by exam id.
func (s *Service) ClearQuestions(ctx context.Context, examID string) error {
	if _, err := s.store.GetExam(ctx, examID); err != nil {
		return err
	}
	return s.store.SetQuestionList(ctx, examID, []string{})
}

// LogEntry records that userID entered the exam. Re-entry is idempotent:
// an existing occurrence is removed before the new one is appended, so the
// log holds at most one entry per user, most recent last.
func (s *Service) LogEntry(ctx context.Context, examID, userID string) error {
	e, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return err
	}
	log := removeEntry(e.Log, userID)
	log = append(log, userID)
	if err := s.store.SetPresenceLog(ctx, examID, log); err != nil {
		return err
	}
	s.record(ctx, "exam.entered", examID, map[string]string{"user": userID})
	return nil
}

// RemoveLogEntry removes userID from the presence log without touching any
// answer records.
func (s *Service) RemoveLogEntry(ctx context.Context, examID, userID string) error {
	e, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return err
	}
	return s.store.SetPresenceLog(ctx, examID, removeEntry(e.Log, userID))
}

// ResetUser removes the presence-log entry AND deletes that user's answer
// for the exam, returning the (exam, user) pair to the not-entered state so
// the student can retake.
func (s *Service) ResetUser(ctx context.Context, examID, userID string) error {
	if err := s.RemoveLogEntry(ctx, examID, userID); err != nil {
		return err
	}
	if err := s.store.DeleteAnswerByUserExam(ctx, userID, examID); err != nil && err != ErrNotFound {
		return err
	}
	s.record(ctx, "exam.reset", examID, map[string]string{"user": userID})
	return nil
}

func removeEntry(log []string, userID string) []string {
	out := make([]string, 0, len(log))
	for _, u := range log {
		if u != userID {
			out = append(out, u)
		}
	}
	return out
}

// SubmitAnswer normalizes the essay score (anything non-numeric becomes 0),
// computes the final score and persists one answer record. Nothing here
// prevents a second submission for the same (user, exam); readers treat the
// result set as a list.
func (s *Service) SubmitAnswer(ctx context.Context, a Answer, essayRaw json.RawMessage) (Answer, error) {
	if _, err := s.store.GetExam(ctx, a.ExamID); err != nil {
		return Answer{}, err
	}
	a.ID = uuid.NewString()
	a.ScoreEssay = NormalizeEssay(essayRaw)
	a.FinalScore = a.ScorePg + a.ScoreEssay
	a.CreatedAt = time.Now().Unix()
	out, err := s.store.CreateAnswer(ctx, a)
	if err != nil {
		return Answer{}, err
	}
	s.record(ctx, "answer.submitted", a.ExamID, map[string]any{"user": a.UserID, "finalScore": a.FinalScore})
	return out, nil
}

// NormalizeEssay accepts the raw JSON value supplied for the essay score and
// returns it as a number, or 0 when it is not one. "20" counts as numeric;
// "abc", null and absence do not.
func NormalizeEssay(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if f, err := strconv.ParseFloat(str, 64); err == nil {
			return f
		}
	}
	return 0
}
