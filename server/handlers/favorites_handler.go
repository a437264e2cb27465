package handlers

import (
	"net/http"

	"fiestas-server/analytics"
	services "fiestas-server/service"

	"github.com/gorilla/mux"
)

type FavoritesResponse struct {
	Favorites []string `json:"favorites"`
}

type ToggleResponse struct {
	Added     bool     `json:"added"`
	Favorites []string `json:"favorites"`
}

type FavoritesHandler struct {
	favoritesService *services.FavoritesService
	eventService     *services.EventService
	tracker          *analytics.Tracker
	consents         ConsentLookup
}

func NewFavoritesHandler(
	favoritesService *services.FavoritesService,
	eventService *services.EventService,
	tracker *analytics.Tracker,
	consents ConsentLookup) *FavoritesHandler {

	return &FavoritesHandler{
		favoritesService: favoritesService,
		eventService:     eventService,
		tracker:          tracker,
		consents:         consents,
	}
}

func (h *FavoritesHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.favoritesService.Favorites(ClientID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FavoritesResponse{Favorites: favs})
}

func (h *FavoritesHandler) ReplaceFavorites(w http.ResponseWriter, r *http.Request) {
	var req FavoritesResponse
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	favs, err := h.favoritesService.Replace(ClientID(r), req.Favorites)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FavoritesResponse{Favorites: favs})
}

func (h *FavoritesHandler) ClearFavorites(w http.ResponseWriter, r *http.Request) {
	if err := h.favoritesService.Clear(ClientID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFavorite handles POST /v1/favorites/{id}/toggle for a known event.
func (h *FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ev, err := h.eventService.GetEvent(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	clientID := ClientID(r)
	added, favs, err := h.favoritesService.Toggle(clientID, ev.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.tracker.TrackFavorite(r.Context(), h.consents.Effective(clientID), clientID, *ev, added, len(favs))
	writeJSON(w, http.StatusOK, ToggleResponse{Added: added, Favorites: favs})
}
