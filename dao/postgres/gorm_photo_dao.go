package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fiestas-server/models"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PhotoRecord is the event_photos row.
type PhotoRecord struct {
	ID                string    `gorm:"type:varchar(64);primaryKey"`
	EventID           string    `gorm:"type:varchar(64);index;not null"`
	ImageURL          string    `gorm:"type:text;not null"`
	ImageThumbnailURL *string   `gorm:"type:text"`
	UploadedBy        string    `gorm:"type:varchar(64);not null"`
	UploadedAt        time.Time `gorm:"index"`
	Caption           *string   `gorm:"type:text"`
	IsApproved        bool      `gorm:"not null"`
	IsReported        bool      `gorm:"not null"`
	Metadata          string    `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (PhotoRecord) TableName() string {
	return "event_photos"
}

func (r *PhotoRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// GormPhotoDAO stores photo metadata in Postgres.
type GormPhotoDAO struct {
	db *gorm.DB
}

func NewGormPhotoDAO(db *gorm.DB) *GormPhotoDAO {
	return &GormPhotoDAO{db: db}
}

// OpenPhotoDAO connects to Postgres and migrates the event_photos table.
func OpenPhotoDAO(dsn string) (*GormPhotoDAO, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&PhotoRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate event_photos: %w", err)
	}
	log.Println("[GormPhotoDAO] Connected to Postgres")
	return NewGormPhotoDAO(db), nil
}

func (dao *GormPhotoDAO) InsertPhoto(ctx context.Context, p *models.Photo) error {
	rec := toRecord(p)
	if err := dao.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to insert photo: %w", err)
	}
	p.ID = rec.ID
	return nil
}

// GetPhoto returns nil, nil when the row does not exist.
func (dao *GormPhotoDAO) GetPhoto(ctx context.Context, id string) (*models.Photo, error) {
	var rec PhotoRecord
	err := dao.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo %s: %w", id, err)
	}
	p := toModel(rec)
	return &p, nil
}

func (dao *GormPhotoDAO) ListPhotosByEvent(ctx context.Context, eventID string) ([]models.Photo, error) {
	var recs []PhotoRecord
	err := dao.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("uploaded_at desc").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photos for event %s: %w", eventID, err)
	}
	photos := make([]models.Photo, 0, len(recs))
	for _, rec := range recs {
		photos = append(photos, toModel(rec))
	}
	return photos, nil
}

func (dao *GormPhotoDAO) MarkReported(ctx context.Context, id string) error {
	result := dao.db.WithContext(ctx).
		Model(&PhotoRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_reported": true, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to report photo %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("photo %s not found", id)
	}
	return nil
}

func (dao *GormPhotoDAO) DeletePhoto(ctx context.Context, id string) error {
	if err := dao.db.WithContext(ctx).Delete(&PhotoRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete photo %s: %w", id, err)
	}
	return nil
}

func toRecord(p *models.Photo) PhotoRecord {
	return PhotoRecord{
		ID:                p.ID,
		EventID:           p.EventID,
		ImageURL:          p.ImageURL,
		ImageThumbnailURL: p.ImageThumbnailURL,
		UploadedBy:        p.UploadedBy,
		UploadedAt:        p.UploadedAt,
		Caption:           p.Caption,
		IsApproved:        p.IsApproved,
		IsReported:        p.IsReported,
		Metadata:          p.Metadata,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toModel(rec PhotoRecord) models.Photo {
	return models.Photo{
		ID:                rec.ID,
		EventID:           rec.EventID,
		ImageURL:          rec.ImageURL,
		ImageThumbnailURL: rec.ImageThumbnailURL,
		UploadedBy:        rec.UploadedBy,
		UploadedAt:        rec.UploadedAt,
		Caption:           rec.Caption,
		IsApproved:        rec.IsApproved,
		IsReported:        rec.IsReported,
		Metadata:          rec.Metadata,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}
