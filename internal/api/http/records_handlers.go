package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edukita/schoolhub/internal/records"
)

// mountRecordCRUD wires the standard resource surface over one collection:
// admin-gated writes, authenticated reads.
func (a *API) mountRecordCRUD(r chi.Router, collection string, authed, admin func(http.Handler) http.Handler) {
	r.With(authed, admin).Post("/create", a.createRecordHandler(collection))
	r.With(authed).Get("/get-all", a.listRecordsHandler(collection))
	r.With(authed).Get("/{id}", a.getRecordHandler(collection))
	r.With(authed, admin).Put("/update/{id}", a.updateRecordHandler(collection))
	r.With(authed, admin).Delete("/delete/{id}", a.deleteRecordHandler(collection))
}

func decodeDoc(r *http.Request) (map[string]any, error) {
	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		return nil, err
	}
	delete(doc, "id")
	delete(doc, "createdAt")
	delete(doc, "updatedAt")
	return doc, nil
}

func (a *API) createRecordHandler(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := decodeDoc(r)
		if err != nil {
			badRequest(w, "invalid body")
			return
		}
		rec, err := a.Records.Create(r.Context(), collection, doc)
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "data saved", "data": rec.JSON()})
	}
}

func (a *API) listRecordsHandler(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := a.Records.List(r.Context(), collection)
		if err != nil {
			serverError(w, err)
			return
		}
		out := make([]map[string]any, 0, len(recs))
		for _, rec := range recs {
			out = append(out, rec.JSON())
		}
		writeJSON(w, http.StatusOK, map[string]any{"total": len(out), "data": out})
	}
}

func (a *API) listRecordsByHandler(collection, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := a.Records.ListBy(r.Context(), collection, field, chi.URLParam(r, "id"))
		if err != nil {
			serverError(w, err)
			return
		}
		out := make([]map[string]any, 0, len(recs))
		for _, rec := range recs {
			out = append(out, rec.JSON())
		}
		writeJSON(w, http.StatusOK, map[string]any{"total": len(out), "data": out})
	}
}

func (a *API) getRecordHandler(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := a.Records.Get(r.Context(), collection, chi.URLParam(r, "id"))
		if err == records.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec.JSON())
	}
}

func (a *API) updateRecordHandler(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := decodeDoc(r)
		if err != nil {
			badRequest(w, "invalid body")
			return
		}
		rec, err := a.Records.Update(r.Context(), collection, chi.URLParam(r, "id"), doc)
		if err == records.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "data updated", "data": rec.JSON()})
	}
}

func (a *API) deleteRecordHandler(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := a.Records.Delete(r.Context(), collection, chi.URLParam(r, "id"))
		if err == records.ErrNotFound {
			notFound(w)
			return
		}
		if err != nil {
			serverError(w, err)
			return
		}
		message(w, http.StatusOK, "data deleted")
	}
}
