package models

import "time"

// Photo is the metadata row of an uploaded event photo.
type Photo struct {
	ID                string    `json:"id"`
	EventID           string    `json:"event_id"`
	ImageURL          string    `json:"image_url"`
	ImageThumbnailURL *string   `json:"image_thumbnail_url"`
	UploadedBy        string    `json:"uploaded_by"`
	UploadedAt        time.Time `json:"uploaded_at"`
	Caption           *string   `json:"caption"`
	IsApproved        bool      `json:"is_approved"`
	IsReported        bool      `json:"is_reported"`
	Metadata          string    `json:"metadata"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Visible reports whether the photo may be listed publicly.
func (p Photo) Visible() bool {
	return p.IsApproved && !p.IsReported
}

// PhotoMetadata is serialized into Photo.Metadata.
type PhotoMetadata struct {
	OriginalName string `json:"original_name"`
	FileSize     int64  `json:"file_size"`
	Compressed   bool   `json:"compressed"`
}

// UploadResult reports the outcome of one file of an upload batch.
type UploadResult struct {
	File    string `json:"file"`
	Success bool   `json:"success"`
	Photo   *Photo `json:"photo,omitempty"`
	Error   string `json:"error,omitempty"`
}
