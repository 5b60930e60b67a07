package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edukita/schoolhub/internal/audit"
	"github.com/edukita/schoolhub/internal/exam"
	"github.com/edukita/schoolhub/internal/rbac"
)

// startExamHandler hands the student their randomized view of the exam.
// Answer keys are stripped; scoring data never reaches the session payload.
func (a *API) startExamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, qs, err := a.Exams.StartSession(r.Context(), chi.URLParam(r, "id"))
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		for i := range qs {
			qs[i].Answer = ""
		}
		writeJSON(w, http.StatusOK, map[string]any{"exam": e, "questions": qs})
	}
}

func (a *API) logEntryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			User string `json:"user"`
		}
		_ = decodeValid(r, &req)
		if req.User == "" {
			id, _ := rbac.IdentityFromContext(r.Context())
			req.User = id.ID
		}
		err := a.Exams.LogEntry(r.Context(), chi.URLParam(r, "id"), req.User)
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		message(w, http.StatusOK, "user logged")
	}
}

func (a *API) removeLogEntryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := a.Exams.RemoveLogEntry(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "user"))
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		message(w, http.StatusOK, "user removed from log")
	}
}

// examActivityHandler lists recorded activity (entries, submissions, resets)
// for one exam, newest-first.
func (a *API) examActivityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		events := []audit.Event{}
		if a.Activity != nil {
			var err error
			events, err = a.Activity.Recent(r.Context(), chi.URLParam(r, "id"), limit)
			if err != nil {
				serverError(w, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"total": len(events), "events": events})
	}
}

func (a *API) resetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := a.Exams.ResetUser(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "user"))
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		message(w, http.StatusOK, "user reset for exam")
	}
}
