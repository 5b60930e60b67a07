package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edukita/schoolhub/internal/exam"
)

func (a *API) createQuestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExamID  string            `json:"examId" validate:"required"`
			Prompt  string            `json:"question" validate:"required"`
			Audio   string            `json:"audio"`
			Image   string            `json:"img"`
			Type    exam.QuestionType `json:"type" validate:"required"`
			Options exam.OptionMap    `json:"options"`
			Answer  string            `json:"answer"`
		}
		if err := decodeValid(r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		if !req.Type.Valid() {
			badRequest(w, "type must be pg or essay")
			return
		}
		q, err := a.Exams.AddQuestion(r.Context(), exam.Question{
			ExamID:  req.ExamID,
			Prompt:  req.Prompt,
			Audio:   req.Audio,
			Image:   req.Image,
			Type:    req.Type,
			Options: req.Options,
			Answer:  req.Answer,
		})
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "question created", "question": q})
	}
}

// uploadQuestionsHandler ingests a CSV question upload and replaces the
// exam's question list with the imported set.
func (a *API) uploadQuestionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("file")
		if err != nil {
			badRequest(w, "file required")
			return
		}
		defer f.Close()
		rows, err := exam.ParseQuestionCSV(f)
		if err != nil {
			badRequest(w, "bad csv: "+err.Error())
			return
		}
		n, err := a.Exams.BulkImport(r.Context(), chi.URLParam(r, "id"), rows)
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			message(w, http.StatusInternalServerError,
				fmt.Sprintf("%d questions saved before failure: %v", n, err))
			return
		}
		message(w, http.StatusOK, fmt.Sprintf("%d questions saved", n))
	}
}

func (a *API) listQuestionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, qs, err := a.Exams.Detail(r.Context(), chi.URLParam(r, "id"))
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"total": len(qs), "questions": qs})
	}
}

func (a *API) getQuestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := a.Exams.Store().GetQuestion(r.Context(), chi.URLParam(r, "id"))
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func (a *API) updateQuestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exam.QuestionUpdate
		if err := decodeValid(r, &req); err != nil {
			badRequest(w, err.Error())
			return
		}
		if req.Type != nil && !req.Type.Valid() {
			badRequest(w, "type must be pg or essay")
			return
		}
		q, err := a.Exams.Store().UpdateQuestion(r.Context(), chi.URLParam(r, "id"), req)
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "question updated", "question": q})
	}
}

func (a *API) clearQuestionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := a.Exams.ClearQuestions(r.Context(), chi.URLParam(r, "id"))
		if err == exam.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		message(w, http.StatusOK, "all questions removed from exam")
	}
}
