// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"parkendd/internal/adapters/parkendd"
	"parkendd/internal/app"
	"parkendd/internal/domain"
)

type Handlers struct{ S *app.Service }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type lotView struct {
	Name          string   `json:"name"`
	Count         int      `json:"count"`
	Free          int      `json:"free"`
	State         string   `json:"state"`
	Lat           *float64 `json:"lat,omitempty"`
	Lon           *float64 `json:"lon,omitempty"`
	OccupiedRatio float64  `json:"occupied_ratio"`
	Tier          string   `json:"tier"`
	Color         string   `json:"color"`
}

type citiesView struct {
	APIVersion string            `json:"api_version"`
	Cities     map[string]string `json:"cities"`
}

type notificationView struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type preferenceView struct {
	SkipNoDataLots bool `json:"skip_nodata_lots"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/cities", h.getCities)
	s.mux.Get("/v1/lots", h.listLots)
	s.mux.Get("/v1/lots/{id}/timespan", h.getTimespan)
	s.mux.Get("/v1/notification", h.getNotification)
	s.mux.Get("/v1/preferences/skip-nodata", h.getSkipNoData)
	s.mux.Put("/v1/preferences/skip-nodata", h.putSkipNoData)
}

// upstream fetches run to completion even if the caller goes away
func detached(r *http.Request) context.Context { return context.WithoutCancel(r.Context()) }

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeFetchError maps the failure kinds onto gateway statuses.
func writeFetchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrIncompatibleAPI):
		writeProblem(w, http.StatusServiceUnavailable, "Incompatible API", "upstream api version is not supported")
	case errors.Is(err, domain.ErrServer):
		writeProblem(w, http.StatusBadGateway, "Upstream Server Error", "upstream returned an unreadable response")
	default:
		writeProblem(w, http.StatusBadGateway, "Upstream Request Failed", "upstream request failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) getCities(w http.ResponseWriter, r *http.Request) {
	md, err := h.S.Metadata(detached(r))
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeJSON(w, r, citiesView{APIVersion: md.APIVersion, Cities: md.Cities})
}

func (h *Handlers) listLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.S.ParkingLots(detached(r))
	if err != nil {
		writeFetchError(w, err)
		return
	}
	out := make([]lotView, 0, len(lots))
	for _, l := range lots {
		ratio := l.OccupiedRatio()
		tier := domain.ColorForRatio(ratio)
		out = append(out, lotView{
			Name:          l.Name,
			Count:         l.Count,
			Free:          l.Free,
			State:         string(l.State),
			Lat:           l.Lat,
			Lon:           l.Lon,
			OccupiedRatio: ratio,
			Tier:          string(tier),
			Color:         tier.Hex(),
		})
	}
	writeJSON(w, r, out)
}

func (h *Handlers) getTimespan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	from, err := time.ParseInLocation(parkendd.TimespanLayout, r.URL.Query().Get("from"), time.Local)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid from", "from must look like 2006-01-02T15:04:05")
		return
	}
	to, err := time.ParseInLocation(parkendd.TimespanLayout, r.URL.Query().Get("to"), time.Local)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid to", "to must look like 2006-01-02T15:04:05")
		return
	}
	payload := h.S.Forecast(detached(r), id, from, to)
	if payload == nil {
		// the forecast fetch reports completion only
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		log.Error().Err(err).Msg("failed to write timespan body")
	}
}

func (h *Handlers) getNotification(w http.ResponseWriter, r *http.Request) {
	n, ok := h.S.Notification(detached(r))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(notificationView{ID: n.ID, Title: n.Title, Text: n.Text}); err != nil {
		log.Error().Err(err).Msg("failed to write notification body")
	}
}

func (h *Handlers) getSkipNoData(w http.ResponseWriter, r *http.Request) {
	skip, err := h.S.SkipNoDataLots(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("read skip-nodata preference failed")
		writeProblem(w, http.StatusInternalServerError, "State Unavailable", "could not read preference")
		return
	}
	writeJSON(w, r, preferenceView{SkipNoDataLots: skip})
}

func (h *Handlers) putSkipNoData(w http.ResponseWriter, r *http.Request) {
	var in preferenceView
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", `expected {"skip_nodata_lots": bool}`)
		return
	}
	if err := h.S.SetSkipNoDataLots(r.Context(), in.SkipNoDataLots); err != nil {
		log.Error().Err(err).Msg("write skip-nodata preference failed")
		writeProblem(w, http.StatusInternalServerError, "State Unavailable", "could not store preference")
		return
	}
	log.Info().Bool("skip_nodata_lots", in.SkipNoDataLots).Msg("preference updated")
	writeJSON(w, r, in)
}
