package funimation

import "github.com/govdbot/govfuni/enums"

// Attempt is what one fetch of the episode page yields.
type Attempt struct {
	Label         string
	Item          *Item
	ErrorMessages ErrorMessages
	Metadata      *PageMetadata
}

type PageMetadata struct {
	Description string
	Thumbnail   string
}

type Item struct {
	ItemAK      string
	ItemID      string
	Title       string
	Artist      string
	Description string
	PosterURL   string
	VideoSet    []*Video
}

type Video struct {
	AuthToken    string
	FunimationID string
	VideoID      string
	LanguageMode enums.LanguageMode
	URLs         map[enums.QualityTier]string
}

// Descriptor is one quality tier of a video, before resolution.
type Descriptor struct {
	Tier       enums.QualityTier
	RawURL     string
	AuthToken  string // always starts with "?"
	Preference int
	FormatID   string
	Language   enums.LanguageMode
}

// ErrorMessage is an entry of the videoErrorMessages page object.
type ErrorMessage struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Content     string `json:"content"`
}
