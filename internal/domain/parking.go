package domain

import "encoding/json"

// LotState is the coarse occupancy bucket reported for a lot.
type LotState string

const (
	StateMany   LotState = "many"
	StateFew    LotState = "few"
	StateFull   LotState = "full"
	StateClosed LotState = "closed"
	StateNoData LotState = "nodata"
)

// ParseLotState maps the raw API tag onto a LotState. Anything outside the
// four known tags, including an absent value, is StateNoData.
func ParseLotState(raw string) LotState {
	switch raw {
	case "many":
		return StateMany
	case "few":
		return StateFew
	case "full":
		return StateFull
	case "closed":
		return StateClosed
	default:
		return StateNoData
	}
}

// FreeUnknown is the free-space sentinel for lots without usable data.
const FreeUnknown = -1

type ParkingLot struct {
	Name  string
	Count int
	Free  int
	State LotState
	Lat   *float64
	Lon   *float64

	// Distance and IsFavorite are filled in by callers, never by the fetch.
	Distance   *float64
	IsFavorite bool
}

// OccupiedRatio is the share of occupied spaces, 0 when it cannot be known.
func (p ParkingLot) OccupiedRatio() float64 {
	if p.Count <= 0 || p.Free < 0 {
		return 0
	}
	return 1 - float64(p.Free)/float64(p.Count)
}

type CityMetadata struct {
	APIVersion string
	Cities     map[string]string // city id -> display name
}

type Notification struct {
	ID      int
	Title   string
	Text    string
	Display bool
}

// ForecastPayload is the timespan response body, passed through undecoded.
type ForecastPayload = json.RawMessage
