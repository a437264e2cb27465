package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"fiestas-server/analytics"
	"fiestas-server/models"
	services "fiestas-server/service"

	"github.com/gorilla/mux"
)

const (
	PHOTOS_FORM_FIELD = "photos"
	// multipart overhead allowed on top of the file limits
	MULTIPART_SLACK_BYTES = 1 << 20
)

type PhotosResponse struct {
	Photos []models.Photo `json:"photos"`
}

type UploadResponse struct {
	Results  []models.UploadResult `json:"results"`
	Uploaded int                   `json:"uploaded"`
}

type PhotoHandler struct {
	photoService *services.PhotoService
	limits       services.PhotoLimits
	tracker      *analytics.Tracker
	consents     ConsentLookup
}

func NewPhotoHandler(
	photoService *services.PhotoService,
	limits services.PhotoLimits,
	tracker *analytics.Tracker,
	consents ConsentLookup) *PhotoHandler {

	return &PhotoHandler{photoService: photoService, limits: limits, tracker: tracker, consents: consents}
}

func (h *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.photoService.ListPhotos(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PhotosResponse{Photos: photos})
}

// UploadPhotos handles a multipart batch in the "photos" field.
func (h *PhotoHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	maxBody := int64(h.limits.MaxFiles)*h.limits.MaxFileBytes + MULTIPART_SLACK_BYTES
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(maxBody); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[PHOTOS_FORM_FIELD]
	if len(headers) > h.limits.MaxFiles {
		writeServiceError(w, fmt.Errorf("%w: %d files, at most %d per upload", services.ErrTooManyFiles, len(headers), h.limits.MaxFiles))
		return
	}
	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			log.Printf("Error reading upload %s: %v", fh.Filename, err)
			writeError(w, http.StatusBadRequest, "Could not read "+fh.Filename)
			return
		}
		files = append(files, services.UploadFile{Name: fh.Filename, Data: data})
	}

	eventID := mux.Vars(r)["id"]
	results, err := h.photoService.UploadPhotos(r.Context(), eventID, files)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	uploaded := 0
	for _, res := range results {
		if res.Success {
			uploaded++
		}
	}
	clientID := ClientID(r)
	h.tracker.Track(r.Context(), h.consents.Effective(clientID), analytics.Event{
		Name:     analytics.EVENT_PHOTO_UPLOAD,
		ClientID: clientID,
		Params:   map[string]interface{}{"event_id": eventID, "uploaded": uploaded, "files": len(files)},
	})

	status := http.StatusCreated
	if uploaded == 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, UploadResponse{Results: results, Uploaded: uploaded})
}

func (h *PhotoHandler) ReportPhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.photoService.ReportPhoto(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.photoService.DeletePhoto(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
