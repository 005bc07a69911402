package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/govdbot/govfuni/enums"
	"github.com/govdbot/govfuni/models"
	"github.com/govdbot/govfuni/util/networking"

	"github.com/guregu/null/v6"
	"go.uber.org/zap"
)

const maxManifestSize = 16 * 1024 * 1024

// ManifestOptions describes how formats expanded from a manifest
// are labelled.
type ManifestOptions struct {
	ContentID  string              // used in log lines only
	Container  string              // e.g. "mp4"
	Protocol   enums.MediaProtocol // m3u8_native or dash
	Preference int
	IDPrefix   string // format ids become <prefix>-<kbps> unless the parser named them
	Language   enums.LanguageMode
	Cookies    []*http.Cookie
	Client     models.HTTPClient
}

// ManifestExpander turns an adaptive manifest url into formats.
// Implementations must fail soft and return nil on any error.
type ManifestExpander func(ctx context.Context, manifestURL string, opts *ManifestOptions) []*models.MediaFormat

// ExpandManifest fetches and parses an HLS or DASH manifest. Any
// failure is logged and yields no formats.
func ExpandManifest(
	ctx context.Context,
	manifestURL string,
	opts *ManifestOptions,
) []*models.MediaFormat {
	if opts == nil {
		opts = &ManifestOptions{}
	}
	content, err := fetchContentWithContext(ctx, opts.Client, manifestURL, opts.Cookies)
	if err != nil {
		zap.S().Debugf("[%s] failed to download manifest: %v", opts.ContentID, err)
		return nil
	}
	formats, err := ParseManifest(content, manifestURL, opts)
	if err != nil {
		zap.S().Debugf("[%s] failed to parse manifest: %v", opts.ContentID, err)
		return nil
	}
	return formats
}

// ParseManifest parses manifest content according to opts.Protocol
// and labels the resulting formats.
func ParseManifest(
	content []byte,
	manifestURL string,
	opts *ManifestOptions,
) ([]*models.MediaFormat, error) {
	var formats []*models.MediaFormat
	var err error

	switch opts.Protocol {
	case enums.MediaProtocolDASH:
		formats, err = ParseMPDContent(content, manifestURL)
	default:
		formats, err = ParseM3U8Content(content, manifestURL)
	}
	if err != nil {
		return nil, err
	}
	applyManifestOptions(formats, opts)
	return formats, nil
}

func applyManifestOptions(formats []*models.MediaFormat, opts *ManifestOptions) {
	protocol := opts.Protocol
	if protocol == "" {
		protocol = enums.MediaProtocolHLS
	}
	prefix := opts.IDPrefix
	if prefix == "" {
		prefix = defaultIDPrefix(protocol)
	}
	for i, format := range formats {
		format.Protocol = protocol
		format.Preference = opts.Preference
		format.Language = opts.Language
		if format.Container == "" {
			format.Container = opts.Container
		}
		if format.Type == "" {
			format.Type = enums.MediaTypeVideo
		}
		switch {
		case format.FormatID != "":
			format.FormatID = prefix + "-" + format.FormatID
		case format.Bitrate.Valid:
			format.FormatID = fmt.Sprintf("%s-%d", prefix, format.Bitrate.Int64)
		case len(formats) > 1:
			format.FormatID = fmt.Sprintf("%s-%d", prefix, i)
		default:
			format.FormatID = prefix
		}
	}
}

func defaultIDPrefix(protocol enums.MediaProtocol) string {
	if protocol == enums.MediaProtocolDASH {
		return "dash"
	}
	return "hls"
}

// kbps converts a bandwidth in bit/s into a kbit/s null.Int.
func kbps(bandwidth uint64) null.Int {
	if bandwidth == 0 {
		return null.Int{}
	}
	return null.IntFrom(int64(bandwidth / 1000))
}

func positive(value int64) null.Int {
	if value <= 0 {
		return null.Int{}
	}
	return null.IntFrom(value)
}

func getVideoCodec(codecs string) enums.MediaCodec {
	codecs = strings.ToLower(codecs)
	switch {
	case strings.Contains(codecs, "avc") || strings.Contains(codecs, "h264"):
		return enums.MediaCodecAVC
	case strings.Contains(codecs, "hvc") || strings.Contains(codecs, "h265") || strings.Contains(codecs, "hev1"):
		return enums.MediaCodecHEVC
	case strings.Contains(codecs, "av01"):
		return enums.MediaCodecAV1
	case strings.Contains(codecs, "vp9"):
		return enums.MediaCodecVP9
	case strings.Contains(codecs, "vp8"):
		return enums.MediaCodecVP8
	default:
		return ""
	}
}

func getAudioCodec(codecs string) enums.MediaCodec {
	codecs = strings.ToLower(codecs)
	switch {
	case strings.Contains(codecs, "mp4a"):
		return enums.MediaCodecAAC
	case strings.Contains(codecs, "opus"):
		return enums.MediaCodecOpus
	case strings.Contains(codecs, "mp3"):
		return enums.MediaCodecMP3
	case strings.Contains(codecs, "flac"):
		return enums.MediaCodecFLAC
	case strings.Contains(codecs, "vorbis"):
		return enums.MediaCodecVorbis
	default:
		return ""
	}
}

func resolveURL(base *url.URL, uri string) string {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri
	}
	ref, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	return base.ResolveReference(ref).String()
}

// fetches content with context support
func fetchContentWithContext(
	ctx context.Context,
	client models.HTTPClient,
	url string,
	cookies []*http.Cookie,
) ([]byte, error) {
	if client == nil {
		client = networking.GetDefaultHTTPClient()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status code: %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
}
