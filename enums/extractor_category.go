package enums

type ExtractorCategory string

const (
	ExtractorCategorySocial    ExtractorCategory = "social"
	ExtractorCategoryStreaming ExtractorCategory = "streaming"
	ExtractorCategoryMusic     ExtractorCategory = "music"
)
