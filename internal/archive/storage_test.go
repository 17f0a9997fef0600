package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charapi/charapi/pkg/evaluate"
)

func TestLocalStoragePutGet(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"ein":"530196605"}`)
	if err := s.Put(ctx, "530196605/20260601T000000Z.json", data, "application/json"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "530196605/20260601T000000Z.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("Get = %q, want %q", got, data)
	}

	// Verify file path layout
	expectedPath := filepath.Join(dir, "530196605", "20260601T000000Z.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStorageGetNotFound(t *testing.T) {
	s := NewLocalStorage(t.TempDir())

	if _, err := s.Get(context.Background(), "530196605/nonexistent.json"); err == nil {
		t.Error("expected error for nonexistent report")
	}
}

func TestLocalStorageList(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	ctx := context.Background()

	s.Put(ctx, "530196605/20260601T000000Z.json", []byte(`{}`), "application/json")
	s.Put(ctx, "530196605/20260601T000000Z.md", []byte(`#`), "text/markdown")
	s.Put(ctx, "131624147/20260602T000000Z.json", []byte(`{}`), "application/json")

	keys, err := s.List(ctx, "530196605/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys = %v, want 2 entries", keys)
	}
	for _, k := range keys {
		if !strings.HasPrefix(k, "530196605/") {
			t.Errorf("key %q outside the prefix", k)
		}
	}

	// A prefix with no reports is an empty list, not an error.
	keys, err = s.List(ctx, "999999999/")
	if err != nil || len(keys) != 0 {
		t.Errorf("empty prefix: keys=%v err=%v", keys, err)
	}
}

func TestArchiverRoundTrip(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	a := NewArchiver(s)
	ctx := context.Background()

	result := &evaluate.EvaluationResult{
		EIN:              "530196605",
		OrganizationName: "American National Red Cross",
		Score:            83.3,
		Summary:          "Looks solid.",
		EvaluatedAt:      time.Date(2026, 6, 1, 12, 30, 0, 0, time.UTC),
	}

	prefix, err := a.Archive(ctx, result)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if prefix != "530196605/20260601T123000Z" {
		t.Errorf("prefix = %q", prefix)
	}

	keys, err := a.History(ctx, "53-0196605")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys = %v, want a json and a md report", keys)
	}

	loaded, err := a.Load(ctx, prefix+".json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.OrganizationName != result.OrganizationName || loaded.Score != result.Score {
		t.Errorf("loaded = %+v", loaded)
	}

	md, err := s.Get(ctx, prefix+".md")
	if err != nil {
		t.Fatalf("Get markdown: %v", err)
	}
	if !strings.Contains(string(md), "# American National Red Cross") {
		t.Errorf("markdown report missing header:\n%s", md)
	}
}
