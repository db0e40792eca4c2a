package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lfrguimaraes/outy-back/internal/event"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "events.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	events, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "events.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	events := []*event.Event{
		{Name: "BBB", Date: "2025-11-21", VenueName: "La Java", Price: "15"},
		{Name: "Garçon Sauvage", Date: "2025-11-22"},
	}
	if err := s.Save(events); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("got %d events, want 2", len(loaded))
	}
	if loaded[0].Name != "BBB" || loaded[0].Price != "15" {
		t.Errorf("first event = %+v", loaded[0])
	}
	if loaded[1].Name != "Garçon Sauvage" {
		t.Errorf("second event = %+v", loaded[1])
	}
}

func TestSavePreservesUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	raw := `[{"name":"BBB","date":"2025-11-21","legacyId":"abc-123","nested":{"a":1}}]`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	events, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	events[0].Price = "15"
	if err := s.Save(events); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var decoded []map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if string(decoded[0]["legacyId"]) != `"abc-123"` {
		t.Errorf("legacyId lost: %s", decoded[0]["legacyId"])
	}
	if _, ok := decoded[0]["nested"]; !ok {
		t.Error("nested unknown field lost")
	}
	if string(decoded[0]["price"]) != `"15"` {
		t.Errorf("price not saved: %s", decoded[0]["price"])
	}
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Save(nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "[]" {
		t.Errorf("got %q, want []", got)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "events.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Save([]*event.Event{{Name: "BBB"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
