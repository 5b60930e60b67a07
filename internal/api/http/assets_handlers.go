package http

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// uploadAssetHandler stores one multipart file and returns the public URL
// clients embed in question images, audio and avatars.
func (a *API) uploadAssetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			badRequest(w, "file required")
			return
		}
		defer f.Close()
		key := uuid.NewString() + path.Ext(hdr.Filename)
		if _, err := a.Blobs.Put(key, f); err != nil {
			serverError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{
			"message": "file uploaded",
			"key":     key,
			"url":     a.Blobs.URL(key),
		})
	}
}

func (a *API) getAssetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if key == "" || strings.Contains(key, "..") {
			notFound(w)
			return
		}
		rc, err := a.Blobs.Get(key)
		if err != nil {
			notFound(w)
			return
		}
		defer rc.Close()
		_, _ = io.Copy(w, rc)
	}
}
