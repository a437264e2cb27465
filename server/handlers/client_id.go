package handlers

import (
	"context"
	"net/http"

	"fiestas-server/models"

	"github.com/google/uuid"
)

const CLIENT_ID_HEADER = "X-Client-ID"

type clientIDKey struct{}

// WithClientID makes sure every request carries an anonymous client id. A
// missing or malformed header gets a fresh UUID, echoed back in the response.
func WithClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CLIENT_ID_HEADER)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set(CLIENT_ID_HEADER, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientIDKey{}, id)))
	})
}

// ClientID returns the id set by WithClientID, or the raw header when the
// middleware did not run.
func ClientID(r *http.Request) string {
	if id, ok := r.Context().Value(clientIDKey{}).(string); ok {
		return id
	}
	return r.Header.Get(CLIENT_ID_HEADER)
}

// ConsentLookup resolves the consent that gates analytics for a client.
type ConsentLookup interface {
	Effective(clientID string) models.Consent
}
