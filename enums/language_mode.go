package enums

type LanguageMode string

const (
	LanguageModeSub LanguageMode = "sub"
	LanguageModeDub LanguageMode = "dub"
)
