package intelx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leakscout/leakscout/internal/report"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "test-key", Options{
		HTTPClient:        srv.Client(),
		MaxResults:        20,
		PreviewByteBudget: 64,
		PollInterval:      5 * time.Millisecond,
		PollMaxWait:       2 * time.Second,
	})
	return c, srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestResolveDeduplicatesLastWriteWins(t *testing.T) {
	polls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/intelligent/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]string{"id": "sid-1"})
	})
	mux.HandleFunc("/intelligent/search/result", func(w http.ResponseWriter, r *http.Request) {
		polls++
		switch polls {
		case 1:
			writeJSON(w, map[string]any{
				"status": providerStatusSuccess,
				"records": []Record{
					{SystemID: "r1", Name: "first", Bucket: "leaks.public.general"},
					{SystemID: "r2", Name: "second", Bucket: "leaks.private.general"},
				},
			})
		default:
			writeJSON(w, map[string]any{
				"status": providerStatusTerminated,
				"records": []Record{
					// Conflicting fields for r1: the later poll wins.
					{SystemID: "r1", Name: "first-updated", Bucket: "leaks.public.general"},
				},
			})
		}
	})

	c, _ := testClient(t, mux)
	records, session, err := c.Resolve(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if session.Status != StatusComplete {
		t.Fatalf("session status=%s want=COMPLETE", session.Status)
	}
	if session.Polls < 2 {
		t.Fatalf("polls=%d want>=2", session.Polls)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d want=2", len(records))
	}
	if records[0].SystemID != "r1" || records[0].Name != "first-updated" {
		t.Fatalf("dedup result: %+v", records[0])
	}
}

func TestResolveUnauthorizedNoPolling(t *testing.T) {
	polled := false
	mux := http.NewServeMux()
	mux.HandleFunc("/intelligent/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/intelligent/search/result", func(w http.ResponseWriter, r *http.Request) {
		polled = true
	})

	c, _ := testClient(t, mux)
	_, session, err := c.Resolve(context.Background(), "example.com")
	var serr *SearchError
	if !errors.As(err, &serr) || serr.Kind != FailureUnauthorized {
		t.Fatalf("error=%v want Unauthorized SearchError", err)
	}
	if polled {
		t.Fatalf("poll endpoint was hit after an auth failure")
	}
	if session.Status != StatusFailed {
		t.Fatalf("session status=%s want=FAILED", session.Status)
	}
}

func TestResolveTimeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/intelligent/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "sid-slow"})
	})
	mux.HandleFunc("/intelligent/search/result", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": providerStatusPending, "records": []Record{}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "test-key", Options{
		HTTPClient:   srv.Client(),
		PollInterval: 5 * time.Millisecond,
		PollMaxWait:  60 * time.Millisecond,
	})

	_, session, err := c.Resolve(context.Background(), "example.com")
	var serr *SearchError
	if !errors.As(err, &serr) || serr.Kind != FailureTimeout {
		t.Fatalf("error=%v want Timeout SearchError", err)
	}
	if session.Status != StatusTimedOut {
		t.Fatalf("session status=%s want=TIMED_OUT", session.Status)
	}
}

func TestResolveTransientPollErrorRecovers(t *testing.T) {
	polls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/intelligent/search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "sid-flaky"})
	})
	mux.HandleFunc("/intelligent/search/result", func(w http.ResponseWriter, r *http.Request) {
		polls++
		if polls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, map[string]any{
			"status":  providerStatusTerminated,
			"records": []Record{{SystemID: "r1"}},
		})
	})

	c, _ := testClient(t, mux)
	records, _, err := c.Resolve(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records=%d want=1", len(records))
	}
}

func TestFetchPreviewAvailableAndTruncated(t *testing.T) {
	long := strings.Repeat("leaked credential material\n", 20)
	mux := http.NewServeMux()
	mux.HandleFunc("/file/preview", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(long))
	})

	c, _ := testClient(t, mux)
	p := c.FetchPreview(context.Background(), Record{SystemID: "r1", StorageID: "s1", Bucket: "leaks.public.general"})
	if p.Availability != report.PreviewAvailable {
		t.Fatalf("availability=%s want=AVAILABLE", p.Availability)
	}
	if !p.Truncated {
		t.Fatalf("expected truncated preview at the byte budget")
	}
	if len(p.Content) != 64 {
		t.Fatalf("content len=%d want=64", len(p.Content))
	}

	// Content of exactly the budget size may have been cut mid-record and
	// is still marked truncated.
	exact := strings.Repeat("a", 64)
	mux2 := http.NewServeMux()
	mux2.HandleFunc("/file/preview", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(exact))
	})
	c2, _ := testClient(t, mux2)
	p = c2.FetchPreview(context.Background(), Record{SystemID: "r2", StorageID: "s2", Bucket: "leaks.public.general"})
	if p.Availability != report.PreviewAvailable {
		t.Fatalf("availability=%s want=AVAILABLE", p.Availability)
	}
	if !p.Truncated {
		t.Fatalf("exact-budget content not marked truncated")
	}
}

func TestFetchPreviewViewFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/file/preview", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/file/view", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("user:pass dump line"))
	})

	c, _ := testClient(t, mux)
	p := c.FetchPreview(context.Background(), Record{SystemID: "r1"})
	if p.Availability != report.PreviewAvailable {
		t.Fatalf("availability=%s want=AVAILABLE", p.Availability)
	}
	if p.Content != "user:pass dump line" {
		t.Fatalf("content=%q", p.Content)
	}
	if p.Truncated {
		t.Fatalf("short content marked truncated")
	}
}

func TestFetchPreviewUnsupportedContentType(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/file/preview", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0x7f, 0x45, 0x4c, 0x46, 0x00, 0x01})
	})
	mux.HandleFunc("/file/view", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0x00, 0x01})
	})

	c, _ := testClient(t, mux)
	p := c.FetchPreview(context.Background(), Record{SystemID: "r1"})
	if p.Availability != report.PreviewUnsupported {
		t.Fatalf("availability=%s want=UNSUPPORTED", p.Availability)
	}
	if p.Content != "" {
		t.Fatalf("content=%q want empty", p.Content)
	}
}

func TestFetchPreviewUnavailableOnError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/file/preview", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/file/view", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c, _ := testClient(t, mux)
	p := c.FetchPreview(context.Background(), Record{SystemID: "r1"})
	if p.Availability != report.PreviewUnavailable {
		t.Fatalf("availability=%s want=UNAVAILABLE", p.Availability)
	}
}

func TestRecordProjection(t *testing.T) {
	rec := Record{
		SystemID: "abc",
		Name:     "combo_list.txt",
		Bucket:   "leaks.private.general",
		Size:     2048,
		Date:     "2026-02-14 09:30:00",
	}
	meta := rec.Meta()
	if meta.Visibility != report.VisibilityPrivate {
		t.Fatalf("visibility=%s want=PRIVATE", meta.Visibility)
	}
	if meta.Source != "combo_list.txt" {
		t.Fatalf("source=%q", meta.Source)
	}
	if meta.Date.IsZero() {
		t.Fatalf("date failed to parse")
	}

	if (Record{Bucket: "leaks.public.general"}).Visibility() != report.VisibilityPublic {
		t.Fatalf("public bucket not detected")
	}
	if (Record{Bucket: "pastes"}).Visibility() != report.VisibilityUnknown {
		t.Fatalf("unknown bucket not detected")
	}
}
