package ordnet

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sony/gobreaker"

	"codeberg.org/tlinquata/ordkort/internal/testutil"
)

func TestLookupParsesEntry(t *testing.T) {
	var gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(hundPage))
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL)
	data, err := client.Lookup(context.Background(), "hund")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != "hund" {
		t.Errorf("query parameter = %q, want %q", gotQuery, "hund")
	}
	if !strings.Contains(gotAgent, "Chrome") {
		t.Errorf("User-Agent = %q, want a browser user agent", gotAgent)
	}
	if !data.Found {
		t.Fatal("expected entry to be found")
	}
	if data.WordType != "substantiv" {
		t.Errorf("WordType = %q, want %q", data.WordType, "substantiv")
	}
	if data.AudioURL == "" {
		t.Error("expected an audio URL")
	}
}

func TestLookupWordNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="searchColumn">Ingen resultater</div></body></html>`))
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL)
	data, err := client.Lookup(context.Background(), "xyzzy")
	if err != nil {
		t.Fatalf("a miss should not be an error, got: %v", err)
	}
	if data.Found {
		t.Error("expected Found == false")
	}
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL)
	_, err := client.Lookup(context.Background(), "hund")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "unexpected status 500") {
		t.Errorf("error = %v, want it to mention the status code", err)
	}
	if !strings.Contains(err.Error(), `"hund"`) {
		t.Errorf("error = %v, want it to name the word", err)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL)
	ctx := context.Background()

	for i := 0; i < breakerFailureLimit; i++ {
		if _, err := client.Lookup(ctx, "hund"); err == nil {
			t.Fatalf("lookup %d: expected an error", i+1)
		}
	}
	if hits != breakerFailureLimit {
		t.Fatalf("server hits = %d, want %d", hits, breakerFailureLimit)
	}

	// The breaker is open now; further lookups must fail without
	// touching the server.
	_, err := client.Lookup(ctx, "hund")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want %v", err, gobreaker.ErrOpenState)
	}
	if hits != breakerFailureLimit {
		t.Errorf("server hits after open = %d, want %d", hits, breakerFailureLimit)
	}
}

func TestDownloadAudio(t *testing.T) {
	audio := testutil.MP3Data()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mp3/hund.mp3" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))
	defer srv.Close()

	client := NewClientWithURL(srv.URL)
	got, err := client.DownloadAudio(context.Background(), srv.URL+"/mp3/hund.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, audio) {
		t.Errorf("downloaded %d bytes, want %d identical bytes", len(got), len(audio))
	}
}
