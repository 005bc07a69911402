package models

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/govdbot/govfuni/enums"

	"github.com/guregu/null/v6"
	"github.com/guregu/null/v6/zero"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type Media struct {
	ID                uint           `json:"-"`
	ContentID         string         `gorm:"not null;index" json:"content_id"`
	DisplayID         string         `gorm:"index" json:"display_id"`
	ContentURL        string         `gorm:"not null" json:"content_url"`
	ExtractorCodeName string         `gorm:"not null;index" json:"extractor_code_name"`
	Title             zero.String    `json:"title"`
	Description       zero.String    `json:"description"`
	Thumbnail         zero.String    `json:"thumbnail"`
	CreatedAt         time.Time      `json:"-"`
	UpdatedAt         time.Time      `json:"-"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Formats []*MediaFormat `gorm:"foreignKey:MediaID" json:"formats"`
}

type MediaFormat struct {
	ID          uint                `json:"-"`
	MediaID     uint                `gorm:"index:idx_media_format,priority:1;not null" json:"-"`
	FormatID    string              `gorm:"not null;index" json:"format_id"`
	URL         string              `gorm:"not null" json:"url"`
	Type        enums.MediaType     `json:"type"`
	Protocol    enums.MediaProtocol `gorm:"not null" json:"protocol"`
	Container   string              `json:"ext"`
	Language    enums.LanguageMode  `json:"language"`
	Preference  int                 `json:"preference"`
	VideoCodec  enums.MediaCodec    `json:"video_codec"`
	AudioCodec  enums.MediaCodec    `json:"audio_codec"`
	Width       int64               `json:"width"`
	Height      null.Int            `json:"height"`
	Bitrate     null.Int            `json:"bitrate"` // kbit/s
	Duration    int64               `json:"duration"`
	Segments    []string            `gorm:"-" json:"segments,omitempty"`
	InitSegment string              `gorm:"-" json:"init_segment,omitempty"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (media *Media) SetTitle(title string) {
	if len(title) == 0 {
		return
	}
	media.Title = zero.StringFrom(title)
}

func (media *Media) SetDescription(description string) {
	if len(description) == 0 {
		return
	}
	media.Description = zero.StringFrom(description)
}

func (media *Media) SetThumbnail(thumbnail string) {
	if len(thumbnail) == 0 {
		return
	}
	media.Thumbnail = zero.StringFrom(thumbnail)
}

func (media *Media) AddFormat(format *MediaFormat) {
	media.Formats = append(media.Formats, format)
}

// GetFormat returns the most preferred format with id formatID.
// Several tiers of one video share their id.
func (media *Media) GetFormat(formatID string) *MediaFormat {
	for i := len(media.Formats) - 1; i >= 0; i-- {
		if media.Formats[i].FormatID == formatID {
			return media.Formats[i]
		}
	}
	return nil
}

// GetBestFormat returns the most preferred format, assuming
// Formats is already sorted with SortFormats.
func (media *Media) GetBestFormat() *MediaFormat {
	if len(media.Formats) == 0 {
		return nil
	}
	return media.Formats[len(media.Formats)-1]
}

// QualityLabel returns a human-readable quality label
func (format *MediaFormat) QualityLabel() string {
	if format.Height.Valid {
		return fmt.Sprintf("%dp", format.Height.Int64)
	}
	if format.Bitrate.Valid {
		return fmt.Sprintf("%dk", format.Bitrate.Int64)
	}
	return "unknown"
}

func (format *MediaFormat) IsManifest() bool {
	return format.Protocol == enums.MediaProtocolHLS ||
		format.Protocol == enums.MediaProtocolDASH
}

// DedupeFormats drops formats with an empty URL and every
// format whose URL was already seen. The first occurrence wins.
func DedupeFormats(formats []*MediaFormat) []*MediaFormat {
	formats = lo.Filter(formats, func(format *MediaFormat, _ int) bool {
		return format != nil && format.URL != ""
	})
	return lo.UniqBy(formats, func(format *MediaFormat) string {
		return format.URL
	})
}

// SortFormats orders formats from least to most preferred.
func SortFormats(formats []*MediaFormat) {
	slices.SortFunc(formats, CompareFormats)
}

// CompareFormats is a total order over formats: preference, then
// height, then bitrate, then protocol, with format id and url as
// final tie-breaks. Missing height or bitrate sorts first.
func CompareFormats(a, b *MediaFormat) int {
	if c := cmp.Compare(a.Preference, b.Preference); c != 0 {
		return c
	}
	if c := compareNullInt(a.Height, b.Height); c != 0 {
		return c
	}
	if c := compareNullInt(a.Bitrate, b.Bitrate); c != 0 {
		return c
	}
	if c := cmp.Compare(getProtocolPriority(a.Protocol), getProtocolPriority(b.Protocol)); c != 0 {
		return c
	}
	if c := strings.Compare(a.FormatID, b.FormatID); c != 0 {
		return c
	}
	return strings.Compare(a.URL, b.URL)
}

func compareNullInt(a, b null.Int) int {
	switch {
	case a.Valid && b.Valid:
		return cmp.Compare(a.Int64, b.Int64)
	case a.Valid:
		return 1
	case b.Valid:
		return -1
	}
	return 0
}

func getProtocolPriority(protocol enums.MediaProtocol) int {
	protocolPriority := map[enums.MediaProtocol]int{
		enums.MediaProtocolDASH:  1,
		enums.MediaProtocolHLS:   2,
		enums.MediaProtocolHTTPS: 3,
	}
	return protocolPriority[protocol]
}
