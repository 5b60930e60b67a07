package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Every response on this surface is JSON; failures carry a human-readable
// {"message": ...} envelope, successes either a payload or a message with
// optional payload fields.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func message(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

func notFound(w http.ResponseWriter) {
	message(w, http.StatusNotFound, "data not found")
}

func badRequest(w http.ResponseWriter, msg string) {
	message(w, http.StatusBadRequest, msg)
}

func serverError(w http.ResponseWriter, err error) {
	message(w, http.StatusInternalServerError, err.Error())
}

// decodeValid decodes a JSON body and runs struct validation on it.
func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}
