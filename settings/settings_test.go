package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel_settings.json")

	s := Open(path)
	if got := s.Get(); got != Defaults() {
		t.Errorf("Get() = %+v, want defaults", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("defaults were not persisted: %v", err)
	}
}

func TestOpenCorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel_settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := Open(path)
	if got := s.Get(); got != Defaults() {
		t.Errorf("corrupt file should yield defaults, got %+v", got)
	}
}

func TestSetSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel_settings.json")

	s := Open(path)
	if err := s.SetTitle("X"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}
	if err := s.SetDescription("open a ticket"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	if err := s.SetImage("https://example.com/panel.png"); err != nil {
		t.Fatalf("SetImage: %v", err)
	}

	reloaded := Open(path)
	got := reloaded.Get()
	if got.Title != "X" {
		t.Errorf("Title = %q, want X", got.Title)
	}
	if got.Description != "open a ticket" {
		t.Errorf("Description = %q", got.Description)
	}
	if got.Image != "https://example.com/panel.png" {
		t.Errorf("Image = %q", got.Image)
	}
}

func TestLastWriteWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel_settings.json")

	s := Open(path)
	_ = s.SetTitle("first")
	_ = s.SetTitle("second")

	if got := Open(path).Get().Title; got != "second" {
		t.Errorf("Title = %q, want second", got)
	}
}
