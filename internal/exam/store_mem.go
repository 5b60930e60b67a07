package exam

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memoryStore is the in-memory twin of SQLStore, used in tests and as a
// zero-dependency dev fallback.
type memoryStore struct {
	mu      sync.RWMutex
	seq     int64
	exams   map[string]Exam
	questns map[string]Question
	answers map[string]Answer
	order   map[string]int64 // insertion order, disambiguates equal timestamps
}

func NewMemoryStore() Store {
	return &memoryStore{
		exams:   map[string]Exam{},
		questns: map[string]Question{},
		answers: map[string]Answer{},
		order:   map[string]int64{},
	}
}

func (m *memoryStore) next() int64 {
	m.seq++
	return m.seq
}

func (m *memoryStore) DeleteAllExamData(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exams = map[string]Exam{}
	m.questns = map[string]Question{}
	m.answers = map[string]Answer{}
	return nil
}

func (m *memoryStore) CreateExam(ctx context.Context, e Exam) (Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	m.exams[e.ID] = e
	m.order[e.ID] = m.next()
	return e, nil
}

func (m *memoryStore) GetExam(ctx context.Context, id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrNotFound
	}
	return e, nil
}

func (m *memoryStore) GetExamByName(ctx context.Context, name string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.exams {
		if e.Name == name {
			return e, nil
		}
	}
	return Exam{}, ErrNotFound
}

func (m *memoryStore) listExams(filter func(Exam) bool) []Exam {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Exam{}
	for _, e := range m.exams {
		if filter(e) {
			out = append(out, e)
		}
	}
	// newest-first
	sort.Slice(out, func(i, j int) bool {
		return m.order[out[i].ID] > m.order[out[j].ID]
	})
	return out
}

func (m *memoryStore) ListExams(ctx context.Context) ([]Exam, error) {
	return m.listExams(func(Exam) bool { return true }), nil
}

func (m *memoryStore) ListExamsByOwner(ctx context.Context, userID string) ([]Exam, error) {
	return m.listExams(func(e Exam) bool { return e.UserID == userID }), nil
}

func (m *memoryStore) ListExamsByGrade(ctx context.Context, grade string) ([]Exam, error) {
	return m.listExams(func(e Exam) bool { return e.Grade == grade }), nil
}

func (m *memoryStore) UpdateExam(ctx context.Context, id string, upd ExamUpdate) (Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrNotFound
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&e.Name, upd.Name)
	apply(&e.Subject, upd.Subject)
	apply(&e.Grade, upd.Grade)
	apply(&e.Durations, upd.Durations)
	apply(&e.Choice, upd.Choice)
	apply(&e.Passing, upd.Passing)
	apply(&e.TokenIn, upd.TokenIn)
	apply(&e.TokenOut, upd.TokenOut)
	e.UpdatedAt = time.Now().Unix()
	m.exams[id] = e
	return e, nil
}

func (m *memoryStore) DeleteExam(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[id]; !ok {
		return ErrNotFound
	}
	delete(m.exams, id)
	return nil
}

func (m *memoryStore) SetQuestionList(ctx context.Context, examID string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exams[examID]
	if !ok {
		return ErrNotFound
	}
	if ids == nil {
		ids = []string{}
	}
	e.Questions = ids
	e.UpdatedAt = time.Now().Unix()
	m.exams[examID] = e
	return nil
}

func (m *memoryStore) SetPresenceLog(ctx context.Context, examID string, log []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exams[examID]
	if !ok {
		return ErrNotFound
	}
	if log == nil {
		log = []string{}
	}
	e.Log = log
	e.UpdatedAt = time.Now().Unix()
	m.exams[examID] = e
	return nil
}

func (m *memoryStore) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questns[q.ID] = q
	m.order[q.ID] = m.next()
	return q, nil
}

func (m *memoryStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questns[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func (m *memoryStore) ListQuestionsByExam(ctx context.Context, examID string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Question{}
	for _, q := range m.questns {
		if q.ExamID == examID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[out[i].ID] < m.order[out[j].ID]
	})
	return out, nil
}

func (m *memoryStore) UpdateQuestion(ctx context.Context, id string, upd QuestionUpdate) (Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questns[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	if upd.Prompt != nil {
		q.Prompt = *upd.Prompt
	}
	if upd.Audio != nil {
		q.Audio = *upd.Audio
	}
	if upd.Image != nil {
		q.Image = *upd.Image
	}
	if upd.Type != nil {
		q.Type = *upd.Type
	}
	if upd.Options != nil {
		q.Options = *upd.Options
	}
	if upd.Answer != nil {
		q.Answer = *upd.Answer
	}
	m.questns[id] = q
	return q, nil
}

func (m *memoryStore) DeleteQuestionsByExam(ctx context.Context, examID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, q := range m.questns {
		if q.ExamID == examID {
			delete(m.questns, id)
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) CreateAnswer(ctx context.Context, a Answer) (Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[a.ID] = a
	m.order[a.ID] = m.next()
	return a, nil
}

func (m *memoryStore) listAnswers(filter func(Answer) bool) []Answer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Answer{}
	for _, a := range m.answers {
		if filter(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[out[i].ID] > m.order[out[j].ID]
	})
	return out
}

func (m *memoryStore) ListAnswers(ctx context.Context) ([]Answer, error) {
	return m.listAnswers(func(Answer) bool { return true }), nil
}

func (m *memoryStore) ListAnswersByUser(ctx context.Context, userID string) ([]Answer, error) {
	return m.listAnswers(func(a Answer) bool { return a.UserID == userID }), nil
}

func (m *memoryStore) DeleteAnswersByExam(ctx context.Context, examID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, a := range m.answers {
		if a.ExamID == examID {
			delete(m.answers, id)
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) DeleteAnswersByUser(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, a := range m.answers {
		if a.UserID == userID {
			delete(m.answers, id)
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) DeleteAnswerByUserExam(ctx context.Context, userID, examID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for id, a := range m.answers {
		if a.UserID == userID && a.ExamID == examID {
			delete(m.answers, id)
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
