package handlers

import (
	"net/http"

	"fiestas-server/models"
	services "fiestas-server/service"
)

type ConsentResponse struct {
	Consent  models.Consent `json:"consent"`
	Answered bool           `json:"answered"`
}

type ConsentHandler struct {
	consentService *services.ConsentService
}

func NewConsentHandler(consentService *services.ConsentService) *ConsentHandler {
	return &ConsentHandler{consentService: consentService}
}

func (h *ConsentHandler) GetConsent(w http.ResponseWriter, r *http.Request) {
	c, found, err := h.consentService.Get(ClientID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ConsentResponse{Consent: c, Answered: found})
}

// SetConsent handles PUT /v1/consent with a custom selection.
func (h *ConsentHandler) SetConsent(w http.ResponseWriter, r *http.Request) {
	var req models.Consent
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.respond(w)(h.consentService.SetCustom(ClientID(r), req))
}

func (h *ConsentHandler) AcceptAll(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.consentService.AcceptAll(ClientID(r)))
}

func (h *ConsentHandler) AcceptNecessary(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.consentService.AcceptNecessary(ClientID(r)))
}

func (h *ConsentHandler) ResetConsent(w http.ResponseWriter, r *http.Request) {
	if err := h.consentService.Reset(ClientID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ConsentHandler) respond(w http.ResponseWriter) func(models.Consent, error) {
	return func(c models.Consent, err error) {
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ConsentResponse{Consent: c, Answered: true})
	}
}
