package app

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"parkendd/internal/domain"
)

/********** per-field decode **********/

// fieldStatus tags how a single JSON field decoded. Resolution rules work on
// the tag, never on zero values.
type fieldStatus int

const (
	fieldOK fieldStatus = iota
	fieldMissing
	fieldEmpty // present but the empty string
	fieldMalformed
)

type field[T any] struct {
	Value  T
	Status fieldStatus
}

func (f field[T]) ok() bool { return f.Status == fieldOK }

// or returns the decoded value, or def for any other status.
func (f field[T]) or(def T) T {
	if f.ok() {
		return f.Value
	}
	return def
}

func isAbsent(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func decodeString(raw json.RawMessage) field[string] {
	if isAbsent(raw) {
		return field[string]{Status: fieldMissing}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return field[string]{Status: fieldMalformed}
	}
	if s == "" {
		return field[string]{Status: fieldEmpty}
	}
	return field[string]{Value: s}
}

// decodeInt accepts JSON numbers (truncated) and numeric strings.
func decodeInt(raw json.RawMessage) field[int] {
	if isAbsent(raw) {
		return field[int]{Status: fieldMissing}
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return intFromText(n.String())
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return field[int]{Status: fieldMalformed}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return field[int]{Status: fieldEmpty}
	}
	return intFromText(s)
}

func intFromText(s string) field[int] {
	if i, err := strconv.Atoi(s); err == nil {
		return field[int]{Value: i}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return field[int]{Status: fieldMalformed}
	}
	return field[int]{Value: int(f)}
}

// decodeFloat accepts JSON numbers and numeric strings.
func decodeFloat(raw json.RawMessage) field[float64] {
	if isAbsent(raw) {
		return field[float64]{Status: fieldMissing}
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return field[float64]{Value: f}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return field[float64]{Status: fieldMalformed}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return field[float64]{Status: fieldEmpty}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return field[float64]{Status: fieldMalformed}
	}
	return field[float64]{Value: f}
}

// decodeBool accepts booleans, non-zero numbers and "true"/"yes"/"1".
func decodeBool(raw json.RawMessage) field[bool] {
	if isAbsent(raw) {
		return field[bool]{Status: fieldMissing}
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return field[bool]{Value: b}
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return field[bool]{Value: f != 0}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return field[bool]{Status: fieldMalformed}
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return field[bool]{Value: true}
	case "":
		return field[bool]{Status: fieldEmpty}
	default:
		return field[bool]{Value: false}
	}
}

// decodeArray returns the elements of a JSON array, nil for anything else.
func decodeArray(raw json.RawMessage) []json.RawMessage {
	var out []json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func ptrFloat(f field[float64]) *float64 {
	if !f.ok() {
		return nil
	}
	v := f.Value
	return &v
}

/********** wire shapes **********/

type wireMetadata struct {
	APIVersion json.RawMessage `json:"api_version"`
	Cities     json.RawMessage `json:"cities"`
}

type wireSection struct {
	Lots json.RawMessage `json:"lots"`
}

type wireLot struct {
	Name  json.RawMessage `json:"name"`
	Count json.RawMessage `json:"count"`
	Free  json.RawMessage `json:"free"`
	State json.RawMessage `json:"state"`
	Lat   json.RawMessage `json:"lat"`
	Lon   json.RawMessage `json:"lon"`
}

type wireNotification struct {
	Display json.RawMessage `json:"display"`
	ID      json.RawMessage `json:"id"`
	Title   json.RawMessage `json:"notificationTitle"`
	Text    json.RawMessage `json:"notificationText"`
}

/********** mappers **********/

// mapMetadata returns the reported version and the string-valued city entries.
// A payload that is not an object yields a missing version.
func mapMetadata(raw json.RawMessage) (field[string], map[string]string) {
	cities := map[string]string{}
	var w wireMetadata
	if err := json.Unmarshal(raw, &w); err != nil {
		return field[string]{Status: fieldMalformed}, cities
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(w.Cities, &entries); err == nil {
		for id, v := range entries {
			if name := decodeString(v); name.ok() {
				cities[id] = name.Value
			}
		}
	}
	return decodeString(w.APIVersion), cities
}

// mapLot resolves one lot entry. Free is 0 unless it decodes; an unknown
// state forces it to FreeUnknown.
func mapLot(raw json.RawMessage) domain.ParkingLot {
	var w wireLot
	_ = json.Unmarshal(raw, &w) // non-objects resolve like an empty entry

	free := decodeInt(w.Free).or(0)
	state := domain.ParseLotState(decodeString(w.State).or(""))
	if state == domain.StateNoData {
		free = domain.FreeUnknown
	}
	return domain.ParkingLot{
		Name:  decodeString(w.Name).or(""),
		Count: decodeInt(w.Count).or(0),
		Free:  free,
		State: state,
		Lat:   ptrFloat(decodeFloat(w.Lat)),
		Lon:   ptrFloat(decodeFloat(w.Lon)),
	}
}

// mapLots flattens sections in payload order. The second result is the number
// of lots dropped because skipNoData was set.
func mapLots(raw json.RawMessage, skipNoData bool) ([]domain.ParkingLot, int) {
	lots := make([]domain.ParkingLot, 0)
	skipped := 0
	for _, sec := range decodeArray(raw) {
		var w wireSection
		if err := json.Unmarshal(sec, &w); err != nil {
			continue
		}
		for _, l := range decodeArray(w.Lots) {
			lot := mapLot(l)
			if lot.State == domain.StateNoData && skipNoData {
				skipped++
				continue
			}
			lots = append(lots, lot)
		}
	}
	return lots, skipped
}

func mapNotification(raw json.RawMessage) domain.Notification {
	var w wireNotification
	_ = json.Unmarshal(raw, &w)
	return domain.Notification{
		ID:      decodeInt(w.ID).or(0),
		Title:   decodeString(w.Title).or(""),
		Text:    decodeString(w.Text).or(""),
		Display: decodeBool(w.Display).or(false),
	}
}
