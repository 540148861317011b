package core_test

import (
	"testing"

	"alisa/core"
)

func TestConversation_StartsWithPlaceholderSystemTurn(t *testing.T) {
	c := core.NewConversation()

	turns := c.Turns()
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if turns[0].Role != core.RoleSystem {
		t.Fatalf("expected system turn at index 0, got %q", turns[0].Role)
	}
}

func TestConversation_AppendRejectsEmptyRole(t *testing.T) {
	c := core.NewConversation()

	if err := c.Append(core.Turn{Content: "no role"}); err == nil {
		t.Fatal("expected error for empty role")
	}
	if err := c.Append(core.Turn{Role: core.RoleUser, Content: "hi"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestConversation_HistoryForCompletion_ExcludesSystemPreservesOrder(t *testing.T) {
	c := core.NewConversation()
	want := []core.Turn{
		{Role: core.RoleUser, Content: "one"},
		{Role: core.RoleAssistant, Content: "two"},
		{Role: core.RoleUser, Content: "three"},
	}
	for _, turn := range want {
		if err := c.Append(turn); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got := c.HistoryForCompletion()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Role != want[i].Role || got[i].Content != want[i].Content {
			t.Fatalf("mismatch at %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestConversation_MessagesForPersistence_NeverContainsSystem(t *testing.T) {
	c := core.NewConversation()
	_ = c.Append(core.Turn{Role: core.RoleUser, Content: "hello"})

	for _, turn := range c.MessagesForPersistence() {
		if turn.Role == core.RoleSystem {
			t.Fatalf("system turn leaked into persistence set: %+v", turn)
		}
	}
}

func TestConversation_ReplaceWithLoaded_ReseedsPlaceholder(t *testing.T) {
	c := core.NewConversation()
	_ = c.Append(core.Turn{Role: core.RoleUser, Content: "old"})

	loaded := []core.Turn{
		{Role: core.RoleUser, Content: "a"},
		{Role: core.RoleAssistant, Content: "b"},
	}
	c.ReplaceWithLoaded(loaded)

	turns := c.Turns()
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[0].Role != core.RoleSystem {
		t.Fatalf("expected system turn at index 0, got %q", turns[0].Role)
	}
	if turns[1].Content != "a" || turns[2].Content != "b" {
		t.Fatalf("loaded order not preserved: %+v", turns[1:])
	}
	if c.LastRole() != core.RoleAssistant {
		t.Fatalf("LastRole = %q, want assistant", c.LastRole())
	}
}

func TestWarning_AsWarning(t *testing.T) {
	w := core.Warningf("completion", "API error %d: %s", 500, "server error")

	got, ok := core.AsWarning(w)
	if !ok {
		t.Fatal("expected AsWarning to match")
	}
	if got.Op != "completion" {
		t.Fatalf("Op = %q", got.Op)
	}
	if got.Display() != "⚠️ API error 500: server error" {
		t.Fatalf("Display = %q", got.Display())
	}
}
