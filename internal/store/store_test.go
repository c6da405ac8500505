package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/valpere/lingo/internal"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)
	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_SaveAndGetInteraction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveInteraction(ctx, internal.Interaction{
		Action:         "Translate",
		Text:           "  Hello world  ",
		TargetLanguage: "French",
		Prompt:         `Translate this text to French: "Hello world"`,
		Response:       "Bonjour le monde",
		Service:        "openai",
		Latency:        1500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("SaveInteraction failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated ID")
	}

	got, found, err := s.GetInteraction(ctx, id)
	if err != nil {
		t.Fatalf("GetInteraction failed: %v", err)
	}
	if !found {
		t.Fatal("expected interaction to be found")
	}
	if got.Text != "Hello world" {
		t.Errorf("expected normalized text, got %q", got.Text)
	}
	if got.Response != "Bonjour le monde" {
		t.Errorf("unexpected response %q", got.Response)
	}
	if got.Latency != 1500*time.Millisecond {
		t.Errorf("unexpected latency %v", got.Latency)
	}
	if got.TargetLevel != "" {
		t.Errorf("expected empty level, got %q", got.TargetLevel)
	}
}

func TestStore_GetInteraction_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, found, err := s.GetInteraction(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected not found")
	}
}

func TestStore_Record_NFC(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// "é" as e + combining acute accent
	if err := s.Record(ctx, internal.Interaction{ID: "nfc", Action: "Correct", Text: "cafe\u0301", Prompt: "p"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, _, err := s.GetInteraction(ctx, "nfc")
	if err != nil {
		t.Fatalf("GetInteraction failed: %v", err)
	}
	if got.Text != "caf\u00e9" {
		t.Errorf("expected NFC text, got %q", got.Text)
	}
}

func TestStore_ListInteractions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		_, err := s.SaveInteraction(ctx, internal.Interaction{
			ID:        id,
			Action:    "Correct",
			Text:      "text " + id,
			Prompt:    "prompt " + id,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveInteraction failed: %v", err)
		}
	}

	all, err := s.ListInteractions(ctx, 0)
	if err != nil {
		t.Fatalf("ListInteractions failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].ID != "c" {
		t.Errorf("expected most recent first, got %q", all[0].ID)
	}

	limited, err := s.ListInteractions(ctx, 2)
	if err != nil {
		t.Fatalf("ListInteractions failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 entries, got %d", len(limited))
	}
}

func TestStore_DeleteAndClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.SaveInteraction(ctx, internal.Interaction{ID: id, Action: "Correct", Text: id, Prompt: id}); err != nil {
			t.Fatalf("SaveInteraction failed: %v", err)
		}
	}

	if err := s.DeleteInteraction(ctx, "a"); err != nil {
		t.Fatalf("DeleteInteraction failed: %v", err)
	}
	if _, found, _ := s.GetInteraction(ctx, "a"); found {
		t.Error("expected entry to be deleted")
	}

	n, err := s.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 cleared, got %d", n)
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entries := []internal.Interaction{
		{Action: "Correct", Text: "a", Prompt: "p", Response: "ok"},
		{Action: "Translate", Text: "b", Prompt: "p", Response: "ok"},
		{Action: "Translate", Text: "c", Prompt: "p", Error: "request failed"},
	}
	for _, e := range entries {
		if _, err := s.SaveInteraction(ctx, e); err != nil {
			t.Fatalf("SaveInteraction failed: %v", err)
		}
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 3 || stats.Succeeded != 2 || stats.Failed != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.ByAction["Translate"] != 2 {
		t.Errorf("expected 2 Translate, got %d", stats.ByAction["Translate"])
	}
}

func TestStore_Record_Concurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writers = 50
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.Record(ctx, internal.Interaction{
				Action: "Correct",
				Text:   fmt.Sprintf("text %d", i),
				Prompt: fmt.Sprintf("prompt %d", i),
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Record failed: %v", err)
		}
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != writers {
		t.Errorf("expected %d stored interactions, got %d", writers, stats.Total)
	}
}
