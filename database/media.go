package database

import (
	"errors"
	"fmt"

	"github.com/govdbot/govfuni/models"

	"gorm.io/gorm"
)

// GetMedia returns the cached media with its formats, or nil when
// nothing is stored. id matches either the content id or the
// display id taken from the url.
func GetMedia(
	extractorCodeName string,
	id string,
) (*models.Media, error) {
	var media models.Media

	err := DB.
		Where("extractor_code_name = ?", extractorCodeName).
		Where("content_id = ? OR display_id = ?", id, id).
		Preload("Formats").
		First(&media).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stored media: %w", err)
	}
	models.SortFormats(media.Formats)
	return &media, nil
}

func StoreMedia(media *models.Media) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		formats := media.Formats
		media.Formats = nil
		defer func() { media.Formats = formats }()

		if err := tx.Where(models.Media{
			ExtractorCodeName: media.ExtractorCodeName,
			ContentID:         media.ContentID,
		}).FirstOrCreate(media).Error; err != nil {
			return fmt.Errorf("failed to get or create media: %w", err)
		}
		for _, format := range formats {
			format.MediaID = media.ID
			if err := tx.Where(models.MediaFormat{
				MediaID:  format.MediaID,
				FormatID: format.FormatID,
				URL:      format.URL,
			}).FirstOrCreate(format).Error; err != nil {
				return fmt.Errorf("failed to get or create format: %w", err)
			}
		}
		return nil
	})
}
