package store

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "kaiseki.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPromptCRUD(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreatePrompt(PromptFields{
		Name:         "イベント提案",
		SystemPrompt: "S",
		UserPrompt:   "U",
		AnalysisType: "event",
	})
	if err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created prompt should have an id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("timestamps should be set")
	}

	got, err := s.GetPrompt(created.ID)
	if err != nil {
		t.Fatalf("GetPrompt: %v", err)
	}
	if got == nil || got.Name != "イベント提案" || got.SystemPrompt != "S" {
		t.Fatalf("unexpected prompt: %+v", got)
	}

	updated, err := s.UpdatePrompt(created.ID, PromptFields{
		Name:         "改訂版",
		SystemPrompt: "S2",
		UserPrompt:   "U2",
		AnalysisType: "custom",
	})
	if err != nil {
		t.Fatalf("UpdatePrompt: %v", err)
	}
	if updated.Name != "改訂版" || updated.UserPrompt != "U2" || updated.AnalysisType != "custom" {
		t.Fatalf("unexpected updated prompt: %+v", updated)
	}

	if err := s.DeletePrompt(created.ID); err != nil {
		t.Fatalf("DeletePrompt: %v", err)
	}
	got, err = s.GetPrompt(created.ID)
	if err != nil {
		t.Fatalf("GetPrompt after delete: %v", err)
	}
	if got != nil {
		t.Fatal("deleted prompt should not resolve")
	}
}

func TestCreatePromptRequiresName(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreatePrompt(PromptFields{Name: "  "}); err != ErrNameRequired {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}

	prompts, err := s.ListPrompts()
	if err != nil {
		t.Fatalf("ListPrompts: %v", err)
	}
	if len(prompts) != 0 {
		t.Fatal("rejected create should not write a row")
	}
}

func TestUpdateUnknownPrompt(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.UpdatePrompt("no-such-id", PromptFields{Name: "x"}); err != ErrPromptNotFound {
		t.Fatalf("expected ErrPromptNotFound, got %v", err)
	}
}

func TestListPromptsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"first", "second", "third"} {
		if _, err := s.CreatePrompt(PromptFields{Name: name, AnalysisType: "custom"}); err != nil {
			t.Fatalf("CreatePrompt(%s): %v", name, err)
		}
	}

	prompts, err := s.ListPrompts()
	if err != nil {
		t.Fatalf("ListPrompts: %v", err)
	}
	if len(prompts) != 3 {
		t.Fatalf("expected 3 prompts, got %d", len(prompts))
	}
	if prompts[0].Name != "third" || prompts[2].Name != "first" {
		t.Fatalf("expected newest-first order, got %s, %s, %s",
			prompts[0].Name, prompts[1].Name, prompts[2].Name)
	}
}

func TestDuplicateNameFirstMatchIsNewest(t *testing.T) {
	s := newTestStore(t)

	older, err := s.CreatePrompt(PromptFields{Name: "Weekly Review", AnalysisType: "engagement"})
	if err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}
	newer, err := s.CreatePrompt(PromptFields{Name: "Weekly Review", AnalysisType: "custom"})
	if err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}

	prompts, err := s.ListPrompts()
	if err != nil {
		t.Fatalf("ListPrompts: %v", err)
	}

	var match *Prompt
	for _, p := range prompts {
		if p.Name == "Weekly Review" {
			match = p
			break
		}
	}
	if match == nil {
		t.Fatal("no match found")
	}
	if match.ID != newer.ID {
		t.Fatalf("first match should be the most recently created (%s), got %s (older=%s)",
			newer.ID, match.ID, older.ID)
	}
}

func TestSaveSettings(t *testing.T) {
	s := newTestStore(t)

	p, err := s.CreatePrompt(PromptFields{Name: "default", AnalysisType: "event"})
	if err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}

	st, err := s.SaveSettings(p.ID)
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if st.DefaultPromptID != p.ID {
		t.Fatalf("default prompt id = %q, want %q", st.DefaultPromptID, p.ID)
	}

	// saving again updates the existing row in place
	st2, err := s.SaveSettings("")
	if err != nil {
		t.Fatalf("SaveSettings(clear): %v", err)
	}
	if st2.ID != st.ID {
		t.Fatalf("settings row should be a singleton, got ids %s and %s", st.ID, st2.ID)
	}
	if st2.DefaultPromptID != "" {
		t.Fatalf("default should be cleared, got %q", st2.DefaultPromptID)
	}
}

func TestSaveSettingsRejectsUnknownPrompt(t *testing.T) {
	s := newTestStore(t)

	p, err := s.CreatePrompt(PromptFields{Name: "default", AnalysisType: "event"})
	if err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}
	if _, err := s.SaveSettings(p.ID); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	if _, err := s.SaveSettings("no-such-prompt"); err != ErrPromptNotFound {
		t.Fatalf("expected ErrPromptNotFound, got %v", err)
	}

	// the failed save must not touch the existing row
	st, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if st == nil || st.DefaultPromptID != p.ID {
		t.Fatalf("settings mutated by failed save: %+v", st)
	}
}

func TestGetSettingsBeforeFirstSave(t *testing.T) {
	s := newTestStore(t)

	st, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if st != nil {
		t.Fatalf("expected nil settings before first save, got %+v", st)
	}
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)

	for _, typ := range []string{"event", "event", "moderation"} {
		if _, err := s.CreatePrompt(PromptFields{Name: "p", AnalysisType: typ}); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}
	}

	stats, err := s.GetStats(time.Now())
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalPrompts != 3 {
		t.Errorf("total = %d, want 3", stats.TotalPrompts)
	}
	if stats.TodayPrompts != 3 {
		t.Errorf("today = %d, want 3", stats.TodayPrompts)
	}
	if stats.MonthPrompts != 3 {
		t.Errorf("month = %d, want 3", stats.MonthPrompts)
	}
	if stats.TypeStats["event"] != 2 || stats.TypeStats["moderation"] != 1 {
		t.Errorf("unexpected type stats: %v", stats.TypeStats)
	}
}
