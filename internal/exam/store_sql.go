package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SQLStore persists exams, questions and answers over database/sql. Works
// against both the sqlite and pgx drivers; list-valued fields are stored as
// JSON columns.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) DeleteAllExamData(ctx context.Context) error {
	for _, table := range []string{"exams", "questions", "answers"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}
	return nil
}

const examCols = `id,user_id,name,subject,grade,durations,choice,passing,token_in,token_out,questions_json,log_json,created_at,updated_at`

func (s *SQLStore) CreateExam(ctx context.Context, e Exam) (Exam, error) {
	qj, err := json.Marshal(e.Questions)
	if err != nil {
		return Exam{}, err
	}
	lj, err := json.Marshal(e.Log)
	if err != nil {
		return Exam{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO exams (`+examCols+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		e.ID, e.UserID, e.Name, e.Subject, e.Grade, e.Durations, e.Choice, e.Passing,
		e.TokenIn, e.TokenOut, string(qj), string(lj), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return Exam{}, err
	}
	return e, nil
}

func scanExam(row interface{ Scan(...any) error }) (Exam, error) {
	var e Exam
	var qj, lj string
	err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.Subject, &e.Grade, &e.Durations,
		&e.Choice, &e.Passing, &e.TokenIn, &e.TokenOut, &qj, &lj, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Exam{}, ErrNotFound
	}
	if err != nil {
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(qj), &e.Questions); err != nil {
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(lj), &e.Log); err != nil {
		return Exam{}, err
	}
	if e.Questions == nil {
		e.Questions = []string{}
	}
	if e.Log == nil {
		e.Log = []string{}
	}
	return e, nil
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	return scanExam(s.db.QueryRowContext(ctx, `SELECT `+examCols+` FROM exams WHERE id=$1`, id))
}

func (s *SQLStore) GetExamByName(ctx context.Context, name string) (Exam, error) {
	return scanExam(s.db.QueryRowContext(ctx, `SELECT `+examCols+` FROM exams WHERE name=$1`, name))
}

func (s *SQLStore) listExams(ctx context.Context, query string, args ...any) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Exam{}
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListExams(ctx context.Context) ([]Exam, error) {
	return s.listExams(ctx, `SELECT `+examCols+` FROM exams ORDER BY created_at DESC`)
}

func (s *SQLStore) ListExamsByOwner(ctx context.Context, userID string) ([]Exam, error) {
	return s.listExams(ctx, `SELECT `+examCols+` FROM exams WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (s *SQLStore) ListExamsByGrade(ctx context.Context, grade string) ([]Exam, error) {
	return s.listExams(ctx, `SELECT `+examCols+` FROM exams WHERE grade=$1 ORDER BY created_at DESC`, grade)
}

func (s *SQLStore) UpdateExam(ctx context.Context, id string, upd ExamUpdate) (Exam, error) {
	e, err := s.GetExam(ctx, id)
	if err != nil {
		return Exam{}, err
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
	_, err = s.db.ExecContext(ctx,
		`UPDATE exams SET name=$1,subject=$2,grade=$3,durations=$4,choice=$5,passing=$6,token_in=$7,token_out=$8,updated_at=$9 WHERE id=$10`,
		e.Name, e.Subject, e.Grade, e.Durations, e.Choice, e.Passing, e.TokenIn, e.TokenOut, e.UpdatedAt, id)
	if err != nil {
		return Exam{}, err
	}
	return e, nil
}

func (s *SQLStore) DeleteExam(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM exams WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) SetQuestionList(ctx context.Context, examID string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	buf, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE exams SET questions_json=$1, updated_at=$2 WHERE id=$3`,
		string(buf), time.Now().Unix(), examID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) SetPresenceLog(ctx context.Context, examID string, log []string) error {
	if log == nil {
		log = []string{}
	}
	buf, err := json.Marshal(log)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE exams SET log_json=$1, updated_at=$2 WHERE id=$3`,
		string(buf), time.Now().Unix(), examID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const questionCols = `id,exam_id,question,audio,image,type,options_json,answer,created_at`

func (s *SQLStore) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	oj, err := json.Marshal(q.Options)
	if err != nil {
		return Question{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO questions (`+questionCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		q.ID, q.ExamID, q.Prompt, q.Audio, q.Image, string(q.Type), string(oj), q.Answer, q.CreatedAt)
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

func scanQuestion(row interface{ Scan(...any) error }) (Question, error) {
	var q Question
	var typ, oj string
	err := row.Scan(&q.ID, &q.ExamID, &q.Prompt, &q.Audio, &q.Image, &typ, &oj, &q.Answer, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	if err != nil {
		return Question{}, err
	}
	q.Type = QuestionType(typ)
	if err := json.Unmarshal([]byte(oj), &q.Options); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	return scanQuestion(s.db.QueryRowContext(ctx, `SELECT `+questionCols+` FROM questions WHERE id=$1`, id))
}

func (s *SQLStore) ListQuestionsByExam(ctx context.Context, examID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+questionCols+` FROM questions WHERE exam_id=$1 ORDER BY created_at`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpdateQuestion(ctx context.Context, id string, upd QuestionUpdate) (Question, error) {
	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return Question{}, err
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
	oj, err := json.Marshal(q.Options)
	if err != nil {
		return Question{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE questions SET question=$1,audio=$2,image=$3,type=$4,options_json=$5,answer=$6 WHERE id=$7`,
		q.Prompt, q.Audio, q.Image, string(q.Type), string(oj), q.Answer, id)
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) DeleteQuestionsByExam(ctx context.Context, examID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE exam_id=$1`, examID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const answerCols = `id,user_id,exam_id,answer_json,correct,wrong,score_pg,score_essay,final_score,created_at`

func (s *SQLStore) CreateAnswer(ctx context.Context, a Answer) (Answer, error) {
	aj, err := json.Marshal(a.Items)
	if err != nil {
		return Answer{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO answers (`+answerCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.UserID, a.ExamID, string(aj), a.Correct, a.Wrong, a.ScorePg, a.ScoreEssay, a.FinalScore, a.CreatedAt)
	if err != nil {
		return Answer{}, err
	}
	return a, nil
}

func scanAnswer(row interface{ Scan(...any) error }) (Answer, error) {
	var a Answer
	var aj string
	err := row.Scan(&a.ID, &a.UserID, &a.ExamID, &aj, &a.Correct, &a.Wrong,
		&a.ScorePg, &a.ScoreEssay, &a.FinalScore, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Answer{}, ErrNotFound
	}
	if err != nil {
		return Answer{}, err
	}
	if err := json.Unmarshal([]byte(aj), &a.Items); err != nil {
		return Answer{}, err
	}
	return a, nil
}

func (s *SQLStore) listAnswers(ctx context.Context, query string, args ...any) ([]Answer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListAnswers(ctx context.Context) ([]Answer, error) {
	return s.listAnswers(ctx, `SELECT `+answerCols+` FROM answers ORDER BY created_at DESC`)
}

func (s *SQLStore) ListAnswersByUser(ctx context.Context, userID string) ([]Answer, error) {
	return s.listAnswers(ctx, `SELECT `+answerCols+` FROM answers WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (s *SQLStore) DeleteAnswersByExam(ctx context.Context, examID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE exam_id=$1`, examID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLStore) DeleteAnswersByUser(ctx context.Context, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE user_id=$1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLStore) DeleteAnswerByUserExam(ctx context.Context, userID, examID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE user_id=$1 AND exam_id=$2`, userID, examID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
