package parkendd_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"parkendd/internal/adapters/parkendd"
	"parkendd/internal/domain"
)

func newClient(t *testing.T, base, notif string) *parkendd.Client {
	t.Helper()
	cl, err := parkendd.New(base, notif, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestClient_GetCityLots_OK(t *testing.T) {
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`[{"lots":[]}]`))
	}))
	defer ts.Close()

	got, err := newClient(t, ts.URL+"/", "").GetCityLots(context.Background(), "Dresden")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if path != "/Dresden" {
		t.Fatalf("unexpected path %q", path)
	}
	if string(got) != `[{"lots":[]}]` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestClient_Classification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"200 with broken JSON is server", 200, `{"api_version":`, domain.ErrServer},
		{"200 with html is server", 200, `<html></html>`, domain.ErrServer},
		{"500 is request", 500, `{"error":"boom"}`, domain.ErrRequest},
		{"404 is request", 404, ``, domain.ErrRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			_, err := newClient(t, ts.URL, "").GetMetadata(context.Background())
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestClient_TransportErrorIsRequest(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close() // nothing listens any more

	_, err := newClient(t, base, "").GetMetadata(context.Background())
	if !errors.Is(err, domain.ErrRequest) {
		t.Fatalf("want ErrRequest, got %v", err)
	}
}

func TestClient_NoRetry(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(503)
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL, "").GetCityLots(context.Background(), "Dresden")
	if err == nil {
		t.Fatalf("expected error for 503")
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly one attempt, got %d", n)
	}
}

func TestClient_GetTimespan_Query(t *testing.T) {
	var gotPath, gotFrom, gotTo string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFrom = r.URL.Query().Get("from")
		gotTo = r.URL.Query().Get("to")
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer ts.Close()

	loc := time.FixedZone("CET", 3600)
	from := time.Date(2015, 4, 6, 8, 30, 0, 0, loc)
	to := from.Add(24 * time.Hour)

	if _, err := newClient(t, ts.URL+"/", "").GetTimespan(context.Background(), "Dresden", "dresdenaltmarkt", from, to); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotPath != "/Dresden/dresdenaltmarkt/timespan" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	// local wall-clock time, no conversion to UTC
	if gotFrom != "2015-04-06T08:30:00" || gotTo != "2015-04-07T08:30:00" {
		t.Fatalf("unexpected bounds from=%q to=%q", gotFrom, gotTo)
	}
}

func TestClient_GetNotification_Unconfigured(t *testing.T) {
	_, err := newClient(t, "http://example.invalid/", "").GetNotification(context.Background())
	if !errors.Is(err, domain.ErrRequest) {
		t.Fatalf("want ErrRequest, got %v", err)
	}
}
