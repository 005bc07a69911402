package funimation

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/govdbot/govfuni/enums"
	"github.com/govdbot/govfuni/models"
	"github.com/govdbot/govfuni/util"
	"github.com/govdbot/govfuni/util/parser"

	"github.com/guregu/null/v6"
	"go.uber.org/zap"
)

var qualityRegex = regexp.MustCompile(`(?P<height>\d+)-(?P<tbr>\d+)[Kk]`)

// Resolver merges the stream descriptors of every attempt into one
// ranked list of formats. It does no I/O of its own; manifests are
// expanded through ExpandManifest.
type Resolver struct {
	Name           string
	ContentID      string
	ExpandManifest parser.ManifestExpander

	// passed through to ExpandManifest
	Client  models.HTTPClient
	Cookies []*http.Cookie
}

func NewResolver(name string, contentID string) *Resolver {
	return &Resolver{
		Name:           name,
		ContentID:      contentID,
		ExpandManifest: parser.ExpandManifest,
	}
}

func (resolver *Resolver) Resolve(
	ctx context.Context,
	attempts []*Attempt,
) ([]*models.MediaFormat, error) {
	var formats []*models.MediaFormat
	var errs []string
	messages := make(ErrorMessages)

	for _, attempt := range attempts {
		if attempt == nil {
			continue
		}
		messages.Merge(attempt.ErrorMessages)
		if attempt.Item == nil {
			continue
		}
		for _, video := range attempt.Item.VideoSet {
			for _, descriptor := range video.Descriptors() {
				if !hasValidScheme(descriptor.RawURL) {
					errs = append(errs, descriptor.RawURL)
					continue
				}
				formats = append(formats, resolver.resolveDescriptor(ctx, descriptor)...)
			}
		}
	}

	formats = models.DedupeFormats(formats)
	if len(formats) == 0 {
		if len(errs) > 0 {
			return nil, resolver.newResolutionError(errs[0], messages)
		}
		return nil, ErrNoFormatsFound
	}
	models.SortFormats(formats)

	zap.S().Debugf(
		"[%s] resolved %d formats from %d attempts",
		resolver.ContentID, len(formats), len(attempts),
	)
	return formats, nil
}

func (resolver *Resolver) resolveDescriptor(
	ctx context.Context,
	descriptor *Descriptor,
) []*models.MediaFormat {
	formatURL := descriptor.RawURL + descriptor.AuthToken

	switch ext := util.DetermineExt(descriptor.RawURL); ext {
	case "m3u8":
		return resolver.expand(ctx, formatURL, descriptor, enums.MediaProtocolHLS)
	case "mpd":
		return resolver.expand(ctx, formatURL, descriptor, enums.MediaProtocolDASH)
	default:
		return []*models.MediaFormat{
			directFormat(formatURL, ext, descriptor),
		}
	}
}

func (resolver *Resolver) expand(
	ctx context.Context,
	manifestURL string,
	descriptor *Descriptor,
	protocol enums.MediaProtocol,
) []*models.MediaFormat {
	if resolver.ExpandManifest == nil {
		return nil
	}
	return resolver.ExpandManifest(ctx, manifestURL, &parser.ManifestOptions{
		ContentID:  resolver.ContentID,
		Container:  "mp4",
		Protocol:   protocol,
		Preference: descriptor.Preference,
		IDPrefix:   descriptor.FormatID,
		Language:   descriptor.Language,
		Client:     resolver.Client,
		Cookies:    resolver.Cookies,
	})
}

func (resolver *Resolver) newResolutionError(
	code string,
	messages ErrorMessages,
) *ResolutionError {
	message := util.CleanHTML(messages.Lookup(code))
	if message == "" {
		message = code
	}
	return &ResolutionError{
		Extractor: resolver.Name,
		Code:      code,
		Message:   message,
	}
}

func directFormat(
	formatURL string,
	ext string,
	descriptor *Descriptor,
) *models.MediaFormat {
	formatID := descriptor.FormatID
	if formatID == "" {
		formatID = string(descriptor.Tier)
	}
	if ext == "" {
		ext = "mp4"
	}
	format := &models.MediaFormat{
		FormatID:   formatID,
		URL:        formatURL,
		Type:       enums.MediaTypeVideo,
		Protocol:   enums.MediaProtocolHTTPS,
		Container:  ext,
		Preference: descriptor.Preference,
		Language:   descriptor.Language,
	}
	format.Height, format.Bitrate = parseQuality(descriptor.RawURL)
	return format
}

// parseQuality reads "<height>-<kbps>k" from a stream url.
func parseQuality(rawURL string) (null.Int, null.Int) {
	matches := qualityRegex.FindStringSubmatch(rawURL)
	if matches == nil {
		return null.Int{}, null.Int{}
	}
	height, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return null.Int{}, null.Int{}
	}
	bitrate, err := strconv.ParseInt(matches[2], 10, 64)
	if err != nil {
		return null.Int{}, null.Int{}
	}
	return null.IntFrom(height), null.IntFrom(bitrate)
}

func hasValidScheme(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http") || strings.HasPrefix(rawURL, "//")
}

// Descriptors lists the tiers of the video that carry a url, in
// tier order. A video without auth token yields nothing.
func (video *Video) Descriptors() []*Descriptor {
	if video == nil || video.AuthToken == "" {
		return nil
	}
	authToken := video.AuthToken
	if !strings.HasPrefix(authToken, "?") {
		authToken = "?" + authToken
	}
	descriptors := make([]*Descriptor, 0, len(enums.QualityTiers))
	for _, tier := range enums.QualityTiers {
		rawURL := video.URLs[tier]
		if rawURL == "" {
			continue
		}
		descriptors = append(descriptors, &Descriptor{
			Tier:       tier,
			RawURL:     rawURL,
			AuthToken:  authToken,
			Preference: video.Preference(),
			FormatID:   video.FormatID(),
			Language:   video.LanguageMode,
		})
	}
	return descriptors
}

func (video *Video) Preference() int {
	if video.LanguageMode == enums.LanguageModeDub {
		return 1
	}
	return 0
}

func (video *Video) FormatID() string {
	if video.FunimationID != "" {
		return video.FunimationID
	}
	return video.VideoID
}
