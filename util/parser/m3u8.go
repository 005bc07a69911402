package parser

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/govdbot/govfuni/enums"
	"github.com/govdbot/govfuni/models"

	"github.com/grafov/m3u8"
	"github.com/pkg/errors"
)

func ParseM3U8Content(
	content []byte,
	baseURL string,
) ([]*models.MediaFormat, error) {
	baseURLObj, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	buf := bytes.NewBuffer(content)
	playlist, listType, err := m3u8.DecodeFrom(buf, true)
	if err != nil {
		return nil, fmt.Errorf("failed parsing m3u8: %w", err)
	}

	switch listType {
	case m3u8.MASTER:
		return parseMasterPlaylist(
			playlist.(*m3u8.MasterPlaylist),
			baseURLObj,
		), nil
	case m3u8.MEDIA:
		return parseMediaPlaylist(
			playlist.(*m3u8.MediaPlaylist),
			baseURLObj,
		), nil
	}

	return nil, errors.New("unsupported m3u8 playlist type")
}

// Variant playlists are not fetched: each variant becomes one format
// pointing at its own media playlist.
func parseMasterPlaylist(
	playlist *m3u8.MasterPlaylist,
	baseURL *url.URL,
) []*models.MediaFormat {
	formats := make([]*models.MediaFormat, 0, len(playlist.Variants)*2)

	seenAlternatives := make(map[string]bool)
	for _, variant := range playlist.Variants {
		if variant == nil || variant.URI == "" {
			continue
		}
		for _, alt := range variant.Alternatives {
			if alt == nil || seenAlternatives[alt.GroupId+alt.URI] {
				continue
			}
			seenAlternatives[alt.GroupId+alt.URI] = true
			format := parseAlternative(
				playlist.Variants,
				alt, baseURL,
			)
			if format == nil {
				continue
			}
			formats = append(formats, format)
		}
		width, height := getResolution(variant.Resolution)
		mediaType, videoCodec, audioCodec := parseVariantType(variant)
		if variant.Audio != "" {
			audioCodec = ""
		}
		formats = append(formats, &models.MediaFormat{
			Type:       mediaType,
			VideoCodec: videoCodec,
			AudioCodec: audioCodec,
			Bitrate:    kbps(uint64(variant.Bandwidth)),
			Width:      width,
			Height:     positive(height),
			URL:        resolveURL(baseURL, variant.URI),
		})
	}
	return formats
}

func parseMediaPlaylist(
	playlist *m3u8.MediaPlaylist,
	baseURL *url.URL,
) []*models.MediaFormat {
	segments := make([]string, 0, len(playlist.Segments))

	var totalDuration float64
	var initSegment string
	if playlist.Map != nil && playlist.Map.URI != "" {
		initSegment = resolveURL(baseURL, playlist.Map.URI)
	}
	for _, segment := range playlist.Segments {
		if segment == nil || segment.URI == "" {
			continue
		}
		segments = append(segments, resolveURL(baseURL, segment.URI))
		totalDuration += segment.Duration
		if segment.Limit > 0 {
			// byterange not supported
			break
		}
	}
	format := &models.MediaFormat{
		Duration:    int64(totalDuration),
		URL:         baseURL.String(),
		Segments:    segments,
		InitSegment: initSegment,
	}
	return []*models.MediaFormat{format}
}

func parseAlternative(
	variants []*m3u8.Variant,
	alternative *m3u8.Alternative,
	baseURL *url.URL,
) *models.MediaFormat {
	if alternative == nil || alternative.URI == "" {
		return nil
	}
	if alternative.Type != "AUDIO" {
		return nil
	}
	formatID := "audio-" + alternative.GroupId
	if alternative.Language != "" {
		formatID += "-" + alternative.Language
	}
	return &models.MediaFormat{
		FormatID:   formatID,
		Type:       enums.MediaTypeAudio,
		AudioCodec: getAudioAlternativeCodec(variants, alternative),
		URL:        resolveURL(baseURL, alternative.URI),
	}
}

func getAudioAlternativeCodec(
	variants []*m3u8.Variant,
	alt *m3u8.Alternative,
) enums.MediaCodec {
	for _, variant := range variants {
		if variant == nil || variant.URI == "" {
			continue
		}
		if variant.Audio != alt.GroupId {
			continue
		}
		audioCodec := getAudioCodec(variant.Codecs)
		if audioCodec != "" {
			return audioCodec
		}
	}
	return ""
}

func getResolution(
	resolution string,
) (int64, int64) {
	var width, height int
	if _, err := fmt.Sscanf(resolution, "%dx%d", &width, &height); err == nil {
		return int64(width), int64(height)
	}
	return 0, 0
}

func parseVariantType(
	variant *m3u8.Variant,
) (enums.MediaType, enums.MediaCodec, enums.MediaCodec) {
	videoCodec := getVideoCodec(variant.Codecs)
	audioCodec := getAudioCodec(variant.Codecs)

	switch {
	case videoCodec != "" || variant.Resolution != "":
		return enums.MediaTypeVideo, videoCodec, audioCodec
	case audioCodec != "":
		return enums.MediaTypeAudio, videoCodec, audioCodec
	}
	return enums.MediaTypeVideo, videoCodec, audioCodec
}
