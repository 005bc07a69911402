package parser

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/govdbot/govfuni/enums"
	"github.com/govdbot/govfuni/models"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/unki2aut/go-mpd"
	xsd "github.com/unki2aut/go-xsd-types"
)

// matches $Identifier$ and $Identifier%0Nd$
var templateIdentifierRE = regexp.MustCompile(`\$(RepresentationID|Number|Time|Bandwidth)(?:%0(\d+)d)?\$`)

// used when a template has no duration
const defaultSegmentSeconds = 10.0

// ParseMPDContent lists the representations of the first period of
// a DASH manifest, in document order. Representations without id or
// bandwidth are skipped. Format ids are left empty so the caller can
// label them.
func ParseMPDContent(content []byte, manifestURL string) ([]*models.MediaFormat, error) {
	base, err := url.Parse(manifestURL)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest url %q: %w", manifestURL, err)
	}
	doc := &mpd.MPD{}
	if err := doc.Decode(content); err != nil {
		return nil, fmt.Errorf("failed parsing mpd: %w", err)
	}
	if len(doc.Period) == 0 || doc.Period[0] == nil {
		return nil, errors.New("no periods found in mpd")
	}
	period := doc.Period[0]
	base = withBaseURL(withBaseURL(base, doc.BaseURL), period.BaseURL)
	duration := durationSeconds(doc.MediaPresentationDuration)

	var formats []*models.MediaFormat
	for _, set := range period.AdaptationSets {
		if set == nil {
			continue
		}
		setBase := withBaseURL(base, set.BaseURL)
		for _, representation := range set.Representations {
			if representation.ID == nil || representation.Bandwidth == nil {
				continue
			}
			formats = append(formats, representationFormat(
				set, representation,
				setBase, manifestURL, duration,
			))
		}
	}
	if len(formats) == 0 {
		return nil, errors.New("no representations found in mpd")
	}
	return formats, nil
}

func representationFormat(
	set *mpd.AdaptationSet,
	representation mpd.Representation,
	base *url.URL,
	manifestURL string,
	duration int64,
) *models.MediaFormat {
	codecs := lo.FromPtr(representation.Codecs)
	if codecs == "" {
		codecs = lo.FromPtr(set.Codecs)
	}
	representationBase := withBaseURL(base, representation.BaseURL)

	format := &models.MediaFormat{
		Type:       representationType(set, codecs),
		VideoCodec: getVideoCodec(codecs),
		AudioCodec: getAudioCodec(codecs),
		Bitrate:    kbps(*representation.Bandwidth),
		URL:        representationBase.String(),
		Duration:   duration,
	}
	if representation.Width != nil {
		format.Width = int64(*representation.Width)
	}
	if representation.Height != nil {
		format.Height = positive(int64(*representation.Height))
	}

	template := representation.SegmentTemplate
	if template == nil {
		template = set.SegmentTemplate
	}
	if template != nil {
		format.InitSegment, format.Segments = expandTemplate(
			template, representation,
			representationBase, duration,
		)
		// segmented representations share the manifest url,
		// the fragment keeps their urls distinct
		if len(representation.BaseURL) == 0 {
			format.URL = manifestURL + "#" + *representation.ID
		}
	}
	return format
}

func representationType(set *mpd.AdaptationSet, codecs string) enums.MediaType {
	mimeType := strings.ToLower(set.MimeType)
	contentType := strings.ToLower(lo.FromPtr(set.ContentType))
	switch {
	case strings.HasPrefix(mimeType, "video/"), contentType == "video", getVideoCodec(codecs) != "":
		return enums.MediaTypeVideo
	case strings.HasPrefix(mimeType, "audio/"), contentType == "audio", getAudioCodec(codecs) != "":
		return enums.MediaTypeAudio
	}
	return ""
}

func expandTemplate(
	template *mpd.SegmentTemplate,
	representation mpd.Representation,
	base *url.URL,
	duration int64,
) (string, []string) {
	var initSegment string
	if template.Initialization != nil {
		initSegment = resolveURL(base, fillTemplate(*template.Initialization, representation, 0, 0))
	}
	if template.Media == nil {
		return initSegment, nil
	}

	number := uint64(1)
	if template.StartNumber != nil {
		number = *template.StartNumber
	}
	var segments []string
	add := func(time uint64) {
		segments = append(segments, resolveURL(base, fillTemplate(*template.Media, representation, number, time)))
		number++
	}

	if template.SegmentTimeline != nil {
		var time uint64
		for _, s := range template.SegmentTimeline.S {
			if s.T != nil {
				time = *s.T
			}
			var repeat int64
			if s.R != nil {
				repeat = *s.R
			}
			for range repeat + 1 {
				add(time)
				time += s.D
			}
		}
		return initSegment, segments
	}

	for range segmentCount(template, duration) {
		add(0)
	}
	return initSegment, segments
}

func segmentCount(template *mpd.SegmentTemplate, duration int64) int {
	seconds := defaultSegmentSeconds
	if template.Duration != nil {
		timescale := 1.0
		if template.Timescale != nil && *template.Timescale > 0 {
			timescale = float64(*template.Timescale)
		}
		seconds = float64(*template.Duration) / timescale
	}
	if duration <= 0 || seconds <= 0 {
		return 1
	}
	return int(math.Ceil(float64(duration) / seconds))
}

func fillTemplate(
	template string,
	representation mpd.Representation,
	number uint64,
	time uint64,
) string {
	return templateIdentifierRE.ReplaceAllStringFunc(template, func(match string) string {
		parts := templateIdentifierRE.FindStringSubmatch(match)
		width, _ := strconv.Atoi(parts[2])

		var value uint64
		switch parts[1] {
		case "RepresentationID":
			return lo.FromPtr(representation.ID)
		case "Bandwidth":
			value = lo.FromPtr(representation.Bandwidth)
		case "Number":
			value = number
		case "Time":
			value = time
		}
		return fmt.Sprintf("%0*d", width, value)
	})
}

func durationSeconds(duration *xsd.Duration) int64 {
	if duration == nil {
		return 0
	}
	total := float64(duration.Days)*86400 +
		float64(duration.Hours)*3600 +
		float64(duration.Minutes)*60 +
		float64(duration.Seconds)
	return int64(total)
}

func withBaseURL(base *url.URL, baseURLs []*mpd.BaseURL) *url.URL {
	if len(baseURLs) == 0 || baseURLs[0] == nil || baseURLs[0].Value == "" {
		return base
	}
	ref, err := url.Parse(baseURLs[0].Value)
	if err != nil {
		return base
	}
	return base.ResolveReference(ref)
}
