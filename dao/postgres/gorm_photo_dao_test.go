package postgres

import (
	"testing"
	"time"

	"fiestas-server/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoRecord_TableName(t *testing.T) {
	assert.Equal(t, "event_photos", PhotoRecord{}.TableName())
}

func TestPhotoRecord_BeforeCreateAssignsUUID(t *testing.T) {
	rec := &PhotoRecord{EventID: "fp001"}
	require.NoError(t, rec.BeforeCreate(nil))

	_, err := uuid.Parse(rec.ID)
	assert.NoError(t, err)

	kept := &PhotoRecord{ID: "existing"}
	require.NoError(t, kept.BeforeCreate(nil))
	assert.Equal(t, "existing", kept.ID)
}

func TestPhotoRecord_ModelConversionKeepsEveryField(t *testing.T) {
	thumb := "/media/thumbnails/a.jpg"
	caption := "Mascletà"
	at := time.Date(2025, time.August, 30, 14, 0, 0, 0, time.UTC)
	photo := &models.Photo{
		ID:                "a",
		EventID:           "fp010",
		ImageURL:          "/media/original/a.jpg",
		ImageThumbnailURL: &thumb,
		UploadedBy:        "anonymous",
		UploadedAt:        at,
		Caption:           &caption,
		IsApproved:        true,
		Metadata:          `{"original_name":"a.png"}`,
		CreatedAt:         at,
		UpdatedAt:         at,
	}

	assert.Equal(t, *photo, toModel(toRecord(photo)))
}
