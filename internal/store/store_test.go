package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
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

func TestStore_New_InvalidPath(t *testing.T) {
	if _, err := New("/nonexistent/path/test.db"); err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_LookupCorrection_Miss(t *testing.T) {
	s := newTestStore(t)

	_, found, err := s.LookupCorrection(context.Background(), "HP", "en", "zh")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found {
		t.Error("expected miss on empty table")
	}
}

func TestStore_UpsertAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.UpsertCorrection(ctx, Correction{
		SourceText:  "HP",
		SourceLang:  "en",
		TargetLang:  "zh",
		Translation: "生命值",
		Category:    "game_term",
		Priority:    10,
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, found, err := s.LookupCorrection(ctx, "HP", "en", "zh")
	if err != nil || !found {
		t.Fatalf("expected hit, found=%v err=%v", found, err)
	}
	if got != "生命值" {
		t.Errorf("expected 生命值, got %q", got)
	}

	// Exact match only: different language pair misses.
	if _, found, _ := s.LookupCorrection(ctx, "HP", "en", "ja"); found {
		t.Error("expected miss for different target language")
	}
	// And no normalization: case matters.
	if _, found, _ := s.LookupCorrection(ctx, "hp", "en", "zh"); found {
		t.Error("expected miss for different casing")
	}
}

func TestStore_UpsertCorrection_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := Correction{SourceText: "Boss", SourceLang: "en", TargetLang: "zh", Translation: "首领", Priority: 1}
	if err := s.UpsertCorrection(ctx, base); err != nil {
		t.Fatal(err)
	}

	first, err := s.ListCorrections(ctx, "", "")
	if err != nil || len(first) != 1 {
		t.Fatalf("expected one row, got %d (err=%v)", len(first), err)
	}

	time.Sleep(10 * time.Millisecond) // make the refreshed timestamp observable

	base.Translation = "魔王"
	base.Priority = 5
	if err := s.UpsertCorrection(ctx, base); err != nil {
		t.Fatal(err)
	}

	rows, err := s.ListCorrections(ctx, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("upsert must keep exactly one row per key, got %d", len(rows))
	}
	if rows[0].Translation != "魔王" || rows[0].Priority != 5 {
		t.Errorf("expected replaced fields, got %+v", rows[0])
	}
	if !rows[0].UpdatedAt.After(first[0].UpdatedAt) {
		t.Error("expected updated_at refreshed on upsert")
	}
}

func TestStore_ListCorrections_OrderAndFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entries := []Correction{
		{SourceText: "Skill", SourceLang: "en", TargetLang: "zh", Translation: "技能", Priority: 1},
		{SourceText: "Boss", SourceLang: "en", TargetLang: "zh", Translation: "首领", Priority: 10},
		{SourceText: "Quest", SourceLang: "en", TargetLang: "ja", Translation: "クエスト", Priority: 5},
	}
	for _, c := range entries {
		if err := s.UpsertCorrection(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListCorrections(ctx, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}
	if all[0].SourceText != "Boss" {
		t.Errorf("expected priority-desc ordering, first row %q", all[0].SourceText)
	}

	zh, err := s.ListCorrections(ctx, "en", "zh")
	if err != nil {
		t.Fatal(err)
	}
	if len(zh) != 2 {
		t.Errorf("expected 2 en→zh rows, got %d", len(zh))
	}
}

func TestStore_DeleteCorrection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpsertCorrection(ctx, Correction{SourceText: "Item", SourceLang: "en", TargetLang: "zh", Translation: "道具"}); err != nil {
		t.Fatal(err)
	}
	rows, _ := s.ListCorrections(ctx, "", "")
	if len(rows) != 1 {
		t.Fatal("setup failed")
	}

	ok, err := s.DeleteCorrection(ctx, rows[0].ID)
	if err != nil || !ok {
		t.Fatalf("expected successful delete, ok=%v err=%v", ok, err)
	}

	ok, err = s.DeleteCorrection(ctx, rows[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected false for already-deleted row")
	}
}

func TestStore_History(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recs := []HistoryRecord{
		{OriginalText: "Hello", TranslatedText: "你好", SourceLang: "en", TargetLang: "zh", Provider: "openai", Model: "gpt-3.5-turbo", Seconds: 0.82},
		{OriginalText: "World", TranslatedText: "世界", SourceLang: "en", TargetLang: "zh", Provider: "ollama", Model: "qwen3:8b", FileName: "items.xlsx", Seconds: 3.4},
	}
	for _, r := range recs {
		if err := s.AppendHistory(ctx, r); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	got, err := s.ListHistory(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	for _, r := range got {
		if r.ID == "" {
			t.Error("expected generated ID")
		}
	}

	limited, err := s.ListHistory(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit respected, got %d", len(limited))
	}
}

func TestStore_Settings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, found, _ := s.GetSetting(ctx, "review_threshold"); found {
		t.Error("expected miss before set")
	}

	if err := s.SetSetting(ctx, "review_threshold", "7"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSetting(ctx, "review_threshold", "8"); err != nil {
		t.Fatal(err)
	}

	v, found, err := s.GetSetting(ctx, "review_threshold")
	if err != nil || !found {
		t.Fatalf("expected hit, err=%v", err)
	}
	if v != "8" {
		t.Errorf("expected latest value 8, got %q", v)
	}
}

func TestStore_SeedDefaultCorrections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SeedDefaultCorrections(ctx); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	got, found, err := s.LookupCorrection(ctx, "HP", "en", "zh")
	if err != nil || !found {
		t.Fatalf("expected seeded HP entry, err=%v", err)
	}
	if got != "生命值" {
		t.Errorf("expected 生命值, got %q", got)
	}

	// Re-seeding must not duplicate rows.
	if err := s.SeedDefaultCorrections(ctx); err != nil {
		t.Fatal(err)
	}
	rows, err := s.ListCorrections(ctx, "en", "zh")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(defaultCorrections) {
		t.Errorf("expected %d rows after re-seed, got %d", len(defaultCorrections), len(rows))
	}
}
