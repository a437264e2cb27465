package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"fiestas-server/api"
	services "fiestas-server/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("Error encoding response:", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeServiceError maps service sentinels to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrEventNotFound), errors.Is(err, services.ErrPhotoNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrNoFiles),
		errors.Is(err, services.ErrTooManyFiles):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, api.ErrDataSourceUnavailable):
		log.Println("Data source unavailable:", err)
		writeError(w, http.StatusServiceUnavailable, "event data is temporarily unavailable")
	default:
		log.Println("Internal error:", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
