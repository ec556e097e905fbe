package domain

import "math"

// ColorTier is the severity bucket used to colour a lot by occupancy.
type ColorTier string

const (
	TierNone    ColorTier = "none"
	TierLimited ColorTier = "limited"
	TierMedium  ColorTier = "medium"
	TierHighest ColorTier = "highest"
)

var tierHex = map[ColorTier]string{
	TierNone:    "#5C5C5C", // grey
	TierLimited: "#7F0304",
	TierMedium:  "#1DAA8C", // teal
	TierHighest: "#006A39", // dark green
}

// Hex returns the display colour of the tier.
func (t ColorTier) Hex() string {
	if h, ok := tierHex[t]; ok {
		return h
	}
	return tierHex[TierNone]
}

// ColorForRatio buckets floor(p*100). Exactly 100 falls through to TierNone.
func ColorForRatio(p float64) ColorTier {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return TierNone
	}
	n := math.Floor(p * 100)
	switch {
	case n >= 85 && n <= 99:
		return TierLimited
	case n >= 40 && n <= 84:
		return TierMedium
	case n >= 1 && n <= 39:
		return TierHighest
	default:
		return TierNone
	}
}
