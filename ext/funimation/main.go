package funimation

import (
	"context"
	"fmt"
	"regexp"

	"github.com/govdbot/govfuni/config"
	"github.com/govdbot/govfuni/enums"
	"github.com/govdbot/govfuni/models"
	"github.com/govdbot/govfuni/util"
	"github.com/govdbot/govfuni/util/networking"

	"go.uber.org/zap"
)

var Extractor = &models.Extractor{
	Name:       "Funimation",
	CodeName:   "funimation",
	Type:       enums.ExtractorTypeSingle,
	Category:   enums.ExtractorCategoryStreaming,
	URLPattern: regexp.MustCompile(`https?://(?:www\.)?funimation\.com/shows/[^/]+/videos/(?:official|promotional)/(?P<id>[^/?#&]+)`),
	Host:       []string{"funimation"},

	Run: func(ctx *models.DownloadContext) (*models.ExtractorResponse, error) {
		media, err := GetEpisode(ctx)
		if err != nil {
			return nil, err
		}
		return &models.ExtractorResponse{
			MediaList: []*models.Media{media},
		}, nil
	},
}

func GetEpisode(ctx *models.DownloadContext) (*models.Media, error) {
	reqCtx := ctx.Context
	if reqCtx == nil {
		reqCtx = context.Background()
	}
	displayID := ctx.MatchedContentID
	contentURL := ctx.MatchedContentURL

	client, err := getClient(reqCtx, ctx.Extractor)
	if err != nil {
		return nil, err
	}
	cookies := util.GetExtractorCookies(ctx.Extractor)

	attempts, err := FetchAttempts(reqCtx, client, contentURL, displayID, cookies)
	if err != nil {
		return nil, err
	}

	resolver := NewResolver(ctx.Extractor.Name, displayID)
	resolver.Client = client
	resolver.Cookies = cookies

	formats, err := resolver.Resolve(reqCtx, attempts)
	if err != nil {
		return nil, err
	}

	// metadata comes from the last page fetched, like the item
	last := attempts[len(attempts)-1]
	item := last.Item

	contentID := item.ItemID
	if contentID == "" {
		contentID = displayID
	}
	media := ctx.Extractor.NewMedia(contentID, contentURL)
	media.DisplayID = displayID
	media.SetTitle(BuildTitle(item))

	var description, thumbnail string
	if last.Metadata != nil {
		description = last.Metadata.Description
		thumbnail = last.Metadata.Thumbnail
	}
	if description == "" {
		description = item.Description
	}
	if thumbnail == "" {
		thumbnail = item.PosterURL
	}
	media.SetDescription(description)
	media.SetThumbnail(thumbnail)

	for _, format := range formats {
		media.AddFormat(format)
	}
	return media, nil
}

// getClient logs in with a fresh session when credentials are
// configured, otherwise the shared extractor client is used.
func getClient(
	ctx context.Context,
	extractor *models.Extractor,
) (models.HTTPClient, error) {
	email := config.Env.FunimationEmail
	password := config.Env.FunimationPassword
	if email == "" || password == "" {
		return networking.GetExtractorHTTPClient(extractor), nil
	}
	client, err := networking.NewSessionClient(extractor)
	if err != nil {
		return nil, err
	}
	zap.S().Debugf("logging in as %s", email)
	if err := Login(ctx, client, email, password); err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	return client, nil
}
