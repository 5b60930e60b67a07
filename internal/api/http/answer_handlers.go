package http

import (
	"encoding/json"
	"net/http"

	"github.com/edukita/schoolhub/internal/exam"
	"github.com/edukita/schoolhub/internal/rbac"
)

// examRef is the slim exam shape embedded in answer listings: no tokens, no
// presence log, no question list, author by name only.
type examRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Grade   string `json:"grade"`
	Author  string `json:"user,omitempty"`
}

// answerView replaces the user and exam ids with populated shapes. Outer
// fields shadow the embedded Answer's "user" and "exam" keys; a reference
// whose document is gone falls back to the raw id.
type answerView struct {
	exam.Answer
	Student any `json:"user"`
	Exam    any `json:"exam"`
}

func (a *API) populateAnswer(r *http.Request, ans exam.Answer) answerView {
	out := answerView{Answer: ans, Student: ans.UserID, Exam: ans.ExamID}
	if u, err := a.School.Users().Get(r.Context(), ans.UserID); err == nil {
		out.Student = u.Public()
	}
	if e, err := a.Exams.Store().GetExam(r.Context(), ans.ExamID); err == nil {
		ref := examRef{ID: e.ID, Name: e.Name, Subject: e.Subject, Grade: e.Grade}
		if owner, err := a.School.Users().Get(r.Context(), e.UserID); err == nil {
			ref.Author = owner.Name
		}
		out.Exam = ref
	}
	return out
}

func (a *API) saveAnswerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExamID     string            `json:"exam" validate:"required"`
			Items      []exam.AnswerItem `json:"answer"`
			Correct    int               `json:"correct"`
			Wrong      int               `json:"wrong"`
			ScorePg    float64           `json:"scorePg"`
			ScoreEssay json.RawMessage   `json:"scoreEssay"`
		}
		if err := decodeValid(r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		id, _ := rbac.IdentityFromContext(r.Context())
		ans, err := a.Exams.SubmitAnswer(r.Context(), exam.Answer{
			UserID:  id.ID,
			ExamID:  req.ExamID,
			Items:   req.Items,
			Correct: req.Correct,
			Wrong:   req.Wrong,
			ScorePg: req.ScorePg,
		}, req.ScoreEssay)
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "answer saved", "answer": ans})
	}
}

func (a *API) listAnswersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		answers, err := a.Exams.Store().ListAnswers(r.Context())
		if err != nil {
			serverError(w, err)
			return
		}
		out := make([]answerView, 0, len(answers))
		for _, ans := range answers {
			out = append(out, a.populateAnswer(r, ans))
		}
		writeJSON(w, http.StatusOK, map[string]any{"total": len(out), "answers": out})
	}
}

// myAnswersHandler lists the caller's own submissions with the per-question
// selections stripped, so a student cannot recover the key sheet from their
// history.
func (a *API) myAnswersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := rbac.IdentityFromContext(r.Context())
		answers, err := a.Exams.Store().ListAnswersByUser(r.Context(), id.ID)
		if err != nil {
			serverError(w, err)
			return
		}
		out := make([]answerView, 0, len(answers))
		for _, ans := range answers {
			ans.Items = nil
			out = append(out, a.populateAnswer(r, ans))
		}
		writeJSON(w, http.StatusOK, map[string]any{"total": len(out), "answers": out})
	}
}
