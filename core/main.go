package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/govdbot/govfuni/config"
	"github.com/govdbot/govfuni/database"
	extractors "github.com/govdbot/govfuni/ext"
	"github.com/govdbot/govfuni/ext/funimation"
	"github.com/govdbot/govfuni/models"
	"github.com/govdbot/govfuni/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Extract resolves every media of url. When caching is enabled the
// stored result is returned if present, otherwise the new one is
// stored.
func Extract(ctx context.Context, url string) ([]*models.Media, error) {
	requestID := uuid.NewString()
	log := zap.S().With("request_id", requestID)

	dlCtx, err := extractors.CtxByURL(ctx, url)
	if err != nil {
		return nil, err
	}
	extractor := dlCtx.Extractor
	if cfg := config.GetExtractorConfig(extractor.CodeName); cfg != nil && cfg.IsDisabled {
		return nil, util.ErrExtractorDisabled
	}
	log.Debugf("matched %s: %s", extractor.CodeName, dlCtx.MatchedContentID)

	if config.Env.Caching {
		if media := getCachedMedia(dlCtx); media != nil {
			log.Debugf("serving %s from cache", dlCtx.MatchedContentID)
			return []*models.Media{media}, nil
		}
	}

	response, err := extractor.Run(dlCtx)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, util.ErrTimeout
	}
	if err != nil {
		log.Debugf("extraction failed: %v", err)
		return nil, err
	}
	if len(response.MediaList) == 0 {
		return nil, util.ErrUnavailable
	}
	for _, media := range response.MediaList {
		models.SortFormats(media.Formats)
	}
	log.Infof(
		"extracted %d media from %s",
		len(response.MediaList), extractor.Name,
	)

	if config.Env.Caching {
		for _, media := range response.MediaList {
			if err := database.StoreMedia(media); err != nil {
				log.Warnf("failed to cache %s: %v", media.ContentID, err)
			}
		}
	}
	return response.MediaList, nil
}

func getCachedMedia(dlCtx *models.DownloadContext) *models.Media {
	if database.DB == nil {
		return nil
	}
	media, err := database.GetMedia(
		dlCtx.Extractor.CodeName,
		dlCtx.MatchedContentID,
	)
	if err != nil {
		zap.S().Warnf("failed to read cache: %v", err)
		return nil
	}
	if media == nil || len(media.Formats) == 0 {
		return nil
	}
	return media
}

// ErrorMessage turns an extraction error into the line shown to
// the user. Known errors keep their own message, anything else is
// reduced to its innermost cause.
func ErrorMessage(err error) string {
	var resolutionErr *funimation.ResolutionError
	if errors.As(err, &resolutionErr) {
		return resolutionErr.Error()
	}
	var utilErr *util.Error
	if errors.As(err, &utilErr) {
		return fmt.Sprintf("error occurred when extracting: %s", utilErr.Error())
	}
	return fmt.Sprintf(
		"error occurred when extracting: %s",
		util.GetLastError(err).Error(),
	)
}
