package enums

type QualityTier string

const (
	QualityTierSD     QualityTier = "sd"
	QualityTierHD     QualityTier = "hd"
	QualityTierHD1080 QualityTier = "hd1080"
)

// QualityTiers lists the tiers in the order they are scanned.
var QualityTiers = []QualityTier{
	QualityTierSD,
	QualityTierHD,
	QualityTierHD1080,
}
