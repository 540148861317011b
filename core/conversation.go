package core

import "errors"

// PlaceholderSystemPrompt seeds index 0 of every conversation. It is a
// placeholder only: it is never persisted and never sent to the completion
// endpoint — the caller substitutes the live configured system prompt at the
// moment of each call.
const PlaceholderSystemPrompt = "You are ALISA."

// ErrEmptyRole is returned when a turn with no role is appended.
var ErrEmptyRole = errors.New("conversation: turn role must not be empty")

// Conversation is the ordered in-memory turn list for the active session.
// Insertion order is chronological order. Exactly one system turn sits at
// index 0 at all times.
//
// A Conversation is owned by a single interaction context and is not safe
// for concurrent use.
type Conversation struct {
	turns []Turn
}

// NewConversation returns a conversation seeded with the placeholder system turn.
func NewConversation() *Conversation {
	return &Conversation{
		turns: []Turn{{Role: RoleSystem, Content: PlaceholderSystemPrompt}},
	}
}

// Append adds a turn to the tail. The only validation is a non-empty role.
func (c *Conversation) Append(t Turn) error {
	if t.Role == "" {
		return ErrEmptyRole
	}
	c.turns = append(c.turns, t)
	return nil
}

// ReplaceWithLoaded discards the current sequence, re-inserts a fresh
// placeholder system turn at index 0, and appends turns in the order supplied.
func (c *Conversation) ReplaceWithLoaded(turns []Turn) {
	replaced := make([]Turn, 0, len(turns)+1)
	replaced = append(replaced, Turn{Role: RoleSystem, Content: PlaceholderSystemPrompt})
	replaced = append(replaced, turns...)
	c.turns = replaced
}

// HistoryForCompletion returns the ordered user/assistant turns. The
// placeholder system turn is excluded; the active system prompt is supplied
// separately by the caller at call time.
func (c *Conversation) HistoryForCompletion() []Turn {
	return c.filtered()
}

// MessagesForPersistence returns the ordered user/assistant turns to be saved.
// System turns are never persisted.
func (c *Conversation) MessagesForPersistence() []Turn {
	return c.filtered()
}

func (c *Conversation) filtered() []Turn {
	out := make([]Turn, 0, len(c.turns))
	for _, t := range c.turns {
		if t.Role == RoleUser || t.Role == RoleAssistant {
			out = append(out, t)
		}
	}
	return out
}

// Turns returns a copy of the full sequence, placeholder included.
// Used for display.
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len reports the number of turns including the placeholder.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// LastRole reports the role of the most recent turn.
func (c *Conversation) LastRole() Role {
	return c.turns[len(c.turns)-1].Role
}
