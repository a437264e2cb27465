package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"sort"
	"time"

	"fiestas-server/imaging"
	"fiestas-server/models"
	"fiestas-server/storage"

	"github.com/google/uuid"
)

const (
	ORIGINAL_PREFIX    = "original"
	THUMBNAIL_PREFIX   = "thumbnails"
	ANONYMOUS_UPLOADER = "anonymous"
)

// PhotoRepository stores photo metadata rows.
type PhotoRepository interface {
	InsertPhoto(ctx context.Context, p *models.Photo) error
	GetPhoto(ctx context.Context, id string) (*models.Photo, error)
	ListPhotosByEvent(ctx context.Context, eventID string) ([]models.Photo, error)
	MarkReported(ctx context.Context, id string) error
	DeletePhoto(ctx context.Context, id string) error
}

// EventLookup checks that an upload targets a known event.
type EventLookup interface {
	GetEvent(id string) (*models.Event, error)
}

type UploadFile struct {
	Name string
	Data []byte
}

type PhotoLimits struct {
	MaxFiles     int
	MaxFileBytes int64
}

// PhotoService runs the upload pipeline: validate, compress, store the
// original and a thumbnail, then persist the metadata row.
type PhotoService struct {
	events     EventLookup
	repo       PhotoRepository
	store      storage.ObjectStore
	compressor *imaging.Compressor
	limits     PhotoLimits
	now        func() time.Time
}

func NewPhotoService(
	events EventLookup,
	repo PhotoRepository,
	store storage.ObjectStore,
	compressor *imaging.Compressor,
	limits PhotoLimits) *PhotoService {

	return &PhotoService{
		events:     events,
		repo:       repo,
		store:      store,
		compressor: compressor,
		limits:     limits,
		now:        time.Now,
	}
}

func (ps *PhotoService) SetNowFunc(now func() time.Time) {
	ps.now = now
}

// UploadPhotos processes a batch. The batch fails as a whole when it is empty,
// too large or aimed at an unknown event; otherwise every file gets its own result.
func (ps *PhotoService) UploadPhotos(ctx context.Context, eventID string, files []UploadFile) ([]models.UploadResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > ps.limits.MaxFiles {
		return nil, fmt.Errorf("%w: %d files, at most %d per upload", ErrTooManyFiles, len(files), ps.limits.MaxFiles)
	}
	if _, err := ps.events.GetEvent(eventID); err != nil {
		return nil, err
	}

	results := make([]models.UploadResult, 0, len(files))
	succeeded := 0
	for _, f := range files {
		photo, err := ps.uploadOne(ctx, eventID, f)
		if err != nil {
			log.Printf("[PhotoService] Upload of %q for event %s failed: %v", f.Name, eventID, err)
			results = append(results, models.UploadResult{File: f.Name, Error: err.Error()})
			continue
		}
		succeeded++
		results = append(results, models.UploadResult{File: f.Name, Success: true, Photo: photo})
	}
	log.Printf("[PhotoService] Event %s: %d of %d photos uploaded", eventID, succeeded, len(files))
	return results, nil
}

func (ps *PhotoService) uploadOne(ctx context.Context, eventID string, f UploadFile) (*models.Photo, error) {
	if _, err := imaging.Validate(f.Data, ps.limits.MaxFileBytes); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	compressed, err := ps.compressor.Compress(f.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	id := uuid.New().String()
	name := id + imaging.OUTPUT_EXTENSION
	originalPath := path.Join(ORIGINAL_PREFIX, name)
	if err := ps.store.Put(ctx, originalPath, compressed, imaging.OUTPUT_CONTENT_TYPE); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	uploaded := []string{originalPath}

	var thumbnailURL *string
	thumbnailPath := path.Join(THUMBNAIL_PREFIX, name)
	if thumb, err := ps.compressor.Thumbnail(f.Data); err != nil {
		log.Printf("[PhotoService] Thumbnail of %q skipped: %v", f.Name, err)
	} else if err := ps.store.Put(ctx, thumbnailPath, thumb, imaging.OUTPUT_CONTENT_TYPE); err != nil {
		log.Printf("[PhotoService] Thumbnail upload of %q skipped: %v", f.Name, err)
	} else {
		url := ps.store.PublicURL(thumbnailPath)
		thumbnailURL = &url
		uploaded = append(uploaded, thumbnailPath)
	}

	metadata, err := json.Marshal(models.PhotoMetadata{
		OriginalName: f.Name,
		FileSize:     int64(len(f.Data)),
		Compressed:   true,
	})
	if err != nil {
		ps.cleanup(uploaded)
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	now := ps.now()
	photo := &models.Photo{
		ID:                id,
		EventID:           eventID,
		ImageURL:          ps.store.PublicURL(originalPath),
		ImageThumbnailURL: thumbnailURL,
		UploadedBy:        ANONYMOUS_UPLOADER,
		UploadedAt:        now,
		IsApproved:        true,
		Metadata:          string(metadata),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := ps.repo.InsertPhoto(ctx, photo); err != nil {
		ps.cleanup(uploaded)
		return nil, fmt.Errorf("%w: saving metadata: %v", ErrUploadFailed, err)
	}
	return photo, nil
}

func (ps *PhotoService) cleanup(objectPaths []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ps.store.Remove(ctx, objectPaths...); err != nil {
		log.Printf("[PhotoService] Failed to clean up %v: %v", objectPaths, err)
	}
}

// ListPhotos returns the event's visible photos, newest first.
func (ps *PhotoService) ListPhotos(ctx context.Context, eventID string) ([]models.Photo, error) {
	all, err := ps.repo.ListPhotosByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Photo, 0, len(all))
	for _, p := range all {
		if p.Visible() {
			visible = append(visible, p)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].UploadedAt.After(visible[j].UploadedAt)
	})
	return visible, nil
}

func (ps *PhotoService) ReportPhoto(ctx context.Context, id string) error {
	if _, err := ps.getPhoto(ctx, id); err != nil {
		return err
	}
	if err := ps.repo.MarkReported(ctx, id); err != nil {
		return err
	}
	log.Printf("[PhotoService] Photo %s reported", id)
	return nil
}

// DeletePhoto removes the stored objects and then the metadata row.
func (ps *PhotoService) DeletePhoto(ctx context.Context, id string) error {
	p, err := ps.getPhoto(ctx, id)
	if err != nil {
		return err
	}

	paths := []string{path.Join(ORIGINAL_PREFIX, path.Base(p.ImageURL))}
	if p.ImageThumbnailURL != nil {
		paths = append(paths, path.Join(THUMBNAIL_PREFIX, path.Base(*p.ImageThumbnailURL)))
	}
	if err := ps.store.Remove(ctx, paths...); err != nil {
		log.Printf("[PhotoService] Failed to remove objects of photo %s: %v", id, err)
	}
	return ps.repo.DeletePhoto(ctx, id)
}

func (ps *PhotoService) getPhoto(ctx context.Context, id string) (*models.Photo, error) {
	p, err := ps.repo.GetPhoto(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPhotoNotFound, id)
	}
	return p, nil
}
