package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpserver "parkendd/internal/adapters/http_server"
	"parkendd/internal/adapters/parkendd"
	"parkendd/internal/app"
	"parkendd/internal/storage/memory"
)

// upstream fakes the parking API; version is what "/" reports.
func upstream(t *testing.T, version string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"api_version":"` + version + `","cities":{"Dresden":"Dresden"}}`))
	})
	mux.HandleFunc("/Dresden", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lots":[
			{"name":"Altmarkt","count":100,"free":"10","state":"few","lat":51.05,"lon":13.73},
			{"name":"Kaufhaus","count":100,"free":"","state":"weird"}
		]}]`))
	})
	mux.HandleFunc("/Dresden/altmarkt/timespan", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"from":"` + r.URL.Query().Get("from") + `"}`))
	})
	mux.HandleFunc("/notification.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"display":true,"id":42,"notificationTitle":"Hinweis","notificationText":"Test"}`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newRouter(t *testing.T, version string, rps int) http.Handler {
	t.Helper()
	up := upstream(t, version)
	cl, err := parkendd.New(up.URL+"/", up.URL+"/notification.json", nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	svc := app.NewService(cl, memory.NewState(), "Dresden", "1.0")
	srv := httpserver.New(rps)
	srv.MountHandlers(&httpserver.Handlers{S: svc})
	return srv.Mux()
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCities(t *testing.T) {
	h := newRouter(t, "1.0", 0)
	rr := do(h, "GET", "/v1/cities", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Cities map[string]string `json:"cities"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	if out.Cities["Dresden"] != "Dresden" {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}

	// ETag round trip
	req := httptest.NewRequest("GET", "/v1/cities", nil)
	req.Header.Set("If-None-Match", rr.Header().Get("ETag"))
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req)
	if rr2.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rr2.Code)
	}
}

func TestCities_IncompatibleVersion(t *testing.T) {
	rr := do(newRouter(t, "2.0", 0), "GET", "/v1/cities", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestLots_WithTierAndSkip(t *testing.T) {
	h := newRouter(t, "1.0", 0)

	rr := do(h, "GET", "/v1/lots", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var lots []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &lots); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lots) != 2 {
		t.Fatalf("expected 2 lots, got %d", len(lots))
	}
	if lots[0]["tier"] != "limited" || lots[0]["color"] != "#7F0304" {
		t.Fatalf("90%% occupied lot should be limited: %v", lots[0])
	}
	if lots[1]["state"] != "nodata" || lots[1]["free"] != float64(-1) || lots[1]["tier"] != "none" {
		t.Fatalf("unexpected nodata lot %v", lots[1])
	}

	if rr := do(h, "PUT", "/v1/preferences/skip-nodata", `{"skip_nodata_lots":true}`); rr.Code != http.StatusOK {
		t.Fatalf("PUT preference: %d", rr.Code)
	}
	rr = do(h, "GET", "/v1/lots", "")
	_ = json.Unmarshal(rr.Body.Bytes(), &lots)
	if len(lots) != 1 || lots[0]["name"] != "Altmarkt" {
		t.Fatalf("nodata lot should be skipped: %v", lots)
	}
}

func TestTimespan(t *testing.T) {
	h := newRouter(t, "1.0", 0)

	rr := do(h, "GET", "/v1/lots/altmarkt/timespan?from=2015-04-06T00:00:00&to=2015-04-07T00:00:00", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "2015-04-06T00:00:00") {
		t.Fatalf("unexpected response %d %s", rr.Code, rr.Body.String())
	}

	if rr := do(h, "GET", "/v1/lots/altmarkt/timespan?from=yesterday&to=2015-04-07T00:00:00", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	// unknown lot: upstream 404, forecast reports completion only
	if rr := do(h, "GET", "/v1/lots/nope/timespan?from=2015-04-06T00:00:00&to=2015-04-07T00:00:00", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

func TestNotification_OnlyOnce(t *testing.T) {
	h := newRouter(t, "1.0", 0)

	rr := do(h, "GET", "/v1/notification", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"id":42`) {
		t.Fatalf("expected notification, got %d %s", rr.Code, rr.Body.String())
	}
	if rr := do(h, "GET", "/v1/notification", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("second call should be 204, got %d", rr.Code)
	}
}

func TestPreference_BadBody(t *testing.T) {
	rr := do(newRouter(t, "1.0", 0), "PUT", "/v1/preferences/skip-nodata", `nope`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestRateLimit(t *testing.T) {
	h := newRouter(t, "1.0", 1)
	if rr := do(h, "GET", "/healthz", ""); rr.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rr.Code)
	}
	if rr := do(h, "GET", "/healthz", ""); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", rr.Code)
	}
}
