package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edukita/schoolhub/internal/exam"
	"github.com/edukita/schoolhub/internal/rbac"
)

// examWithOwner replaces the owner id with the sanitized account shape.
// The outer field shadows the embedded Exam's "user" key; when the owner
// account is gone the raw id is kept so the reference stays visible.
type examWithOwner struct {
	exam.Exam
	Owner any `json:"user"`
}

func (a *API) withOwner(r *http.Request, e exam.Exam) examWithOwner {
	out := examWithOwner{Exam: e, Owner: e.UserID}
	if u, err := a.School.Users().Get(r.Context(), e.UserID); err == nil {
		out.Owner = u.Public()
	}
	return out
}

func (a *API) createExamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name      string `json:"name" validate:"required"`
			Subject   string `json:"subject" validate:"required"`
			Grade     string `json:"grade" validate:"required"`
			Durations string `json:"durations"`
			Choice    string `json:"choice"`
			Passing   string `json:"passing"`
			TokenIn   string `json:"tokenIn"`
			TokenOut  string `json:"tokenOut"`
		}
		if err := decodeValid(r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		id, _ := rbac.IdentityFromContext(r.Context())
		e, created, err := a.Exams.CreateExam(r.Context(), exam.Exam{
			Name:      req.Name,
			Subject:   req.Subject,
			Grade:     req.Grade,
			Durations: req.Durations,
			Choice:    req.Choice,
			Passing:   req.Passing,
			TokenIn:   req.TokenIn,
			TokenOut:  req.TokenOut,
		}, id.ID)
		if err != nil {
			serverError(w, err)
			return
		}
		if !created {
			message(w, http.StatusOK, "exam name already used")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "exam created", "exam": e})
	}
}

func (a *API) listExamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exams, err := a.Exams.Store().ListExams(r.Context())
		if err != nil {
			serverError(w, err)
			return
		}
		out := make([]examWithOwner, 0, len(exams))
		for _, e := range exams {
			out = append(out, a.withOwner(r, e))
		}
		writeJSON(w, http.StatusOK, map[string]any{"total": len(out), "exams": out})
	}
}

func (a *API) myExamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := rbac.IdentityFromContext(r.Context())
		exams, err := a.Exams.Store().ListExamsByOwner(r.Context(), id.ID)
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"total": len(exams), "exams": exams})
	}
}

// examsByGradeHandler serves the student's exam list. The requested grade
// must match the caller's own grade; a mismatch or an empty list both come
// back as the not-yet-available sentinel.
func (a *API) examsByGradeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grade := chi.URLParam(r, "grade")
		id, _ := rbac.IdentityFromContext(r.Context())
		u, err := a.School.Users().Get(r.Context(), id.ID)
		if err != nil {
			serverError(w, err)
			return
		}
		if u.Grade != grade {
			message(w, http.StatusOK, "exam not yet available")
			return
		}
		exams, err := a.Exams.Store().ListExamsByGrade(r.Context(), grade)
		if err != nil {
			serverError(w, err)
			return
		}
		if len(exams) == 0 {
			message(w, http.StatusOK, "exam not yet available")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"total": len(exams), "exams": exams})
	}
}

func (a *API) updateExamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exam.ExamUpdate
		if err := decodeValid(r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		e, err := a.Exams.Store().UpdateExam(r.Context(), chi.URLParam(r, "id"), req)
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "exam updated", "exam": e})
	}
}

func (a *API) deleteExamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := a.Exams.DeleteExam(r.Context(), chi.URLParam(r, "id"))
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		message(w, http.StatusOK, "exam deleted")
	}
}

// examDetailHandler returns the exam with its question list resolved in
// canonical stored order, owner populated.
func (a *API) examDetailHandler() http.HandlerFunc {
	type response struct {
		examWithOwner
		Questions []exam.Question `json:"questions"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		e, qs, err := a.Exams.Detail(r.Context(), chi.URLParam(r, "id"))
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, response{examWithOwner: a.withOwner(r, e), Questions: qs})
	}
}
