// Package session wires the conversation, configuration, storage, and
// remote services together for one interactive context. Every operation is
// a single blocking round trip, and no failure is allowed to crash the
// conversation: faults surface as warning replies and the session stays
// usable.
package session

import (
	"context"
	"strconv"
	"time"

	"alisa/config"
	"alisa/core"
	"alisa/services/openai/llm"
	"alisa/services/openai/stt"
	"alisa/storage"
)

// Completer produces the assistant's next-turn text from the live system
// prompt and the user/assistant history.
type Completer interface {
	Complete(ctx context.Context, opts llm.Options, systemPrompt string, history []core.Turn) (string, error)
}

// Transcriber decodes raw audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, opts stt.Options, audio []byte, filename string) (string, error)
}

// Synthesizer converts reply text into encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, langCode string) ([]byte, error)
}

// Settings are the live, user-editable values — the sidebar equivalent.
// They feed the resolver on every call, so edits between calls take effect
// on the next call, including retroactively applying an edited system
// prompt to the whole history's next completion.
type Settings struct {
	BaseURL      string          `json:"base_url,omitempty"`
	APIKey       string          `json:"api_key,omitempty"`
	Model        string          `json:"model,omitempty"`
	SystemPrompt string          `json:"system_prompt,omitempty"`
	Language     config.Language `json:"language,omitempty"`
	VoiceOutput  bool            `json:"voice_output,omitempty"`
}

// LoadScope selects which identity a load query filters by.
type LoadScope int

const (
	LoadBySession LoadScope = iota
	LoadByUser
)

// Reply is the outcome of one send interaction.
type Reply struct {
	Text string
	// FromWarning marks replies that carry a warning instead of model
	// output. Warning replies are still appended as assistant turns but are
	// never synthesized to speech.
	FromWarning bool
	// Audio holds encoded speech for the reply when voice output is on and
	// synthesis succeeded.
	Audio []byte
}

// Session is the controller for one conversation context. It owns the
// in-memory turn list exclusively; it is not safe for concurrent use.
type Session struct {
	ID       string
	UserName string
	Settings Settings

	conversation *core.Conversation
	resolver     *config.Resolver
	backend      storage.Backend
	completer    Completer
	transcriber  Transcriber
	synthesizer  Synthesizer
	logger       *core.Logger
}

// Params collects the collaborators for New. Synthesizer may be nil; voice
// output is then reported as unavailable rather than failing.
type Params struct {
	ID          string
	UserName    string
	Settings    Settings
	Resolver    *config.Resolver
	Backend     storage.Backend
	Completer   Completer
	Transcriber Transcriber
	Synthesizer Synthesizer
	Logger      *core.Logger
}

// New creates a session seeded with the placeholder system turn. An empty
// ID defaults to a time-derived value.
func New(p Params) *Session {
	if p.ID == "" {
		p.ID = strconv.FormatInt(time.Now().Unix(), 10)
	}
	if p.Logger == nil {
		p.Logger = core.GetLogger()
	}
	return &Session{
		ID:           p.ID,
		UserName:     p.UserName,
		Settings:     p.Settings,
		conversation: core.NewConversation(),
		resolver:     p.Resolver,
		backend:      p.Backend,
		completer:    p.Completer,
		transcriber:  p.Transcriber,
		synthesizer:  p.Synthesizer,
		logger:       p.Logger.With(map[string]any{"session_id": p.ID}),
	}
}

// Turns returns the full in-memory sequence, placeholder included, for
// display.
func (s *Session) Turns() []core.Turn {
	return s.conversation.Turns()
}

// SendText appends the user's text as a turn and produces the assistant's
// reply. The reply — model output or warning — is appended as the assistant
// turn either way.
func (s *Session) SendText(ctx context.Context, text string) Reply {
	if err := s.conversation.Append(core.Turn{Role: core.RoleUser, Content: s.prefixName(text)}); err != nil {
		return Reply{Text: core.Warningf("session", "invalid turn: %v", err).Display(), FromWarning: true}
	}
	return s.generateReply(ctx)
}

// SendVoice transcribes the audio and, when transcription succeeds, sends
// the decoded text as a user turn. A transcription warning is surfaced
// directly and nothing is appended.
func (s *Session) SendVoice(ctx context.Context, audio []byte, filename string) Reply {
	opts := stt.Options{
		BaseURL: s.resolver.BaseURL(s.Settings.BaseURL),
		APIKey:  s.resolver.APIKey(s.Settings.APIKey),
		Model:   s.resolver.WhisperModel(),
	}
	text, err := s.transcriber.Transcribe(ctx, opts, audio, filename)
	if err != nil {
		return Reply{Text: s.displayWarning(err), FromWarning: true}
	}
	if text == "" {
		return Reply{Text: core.Warningf("transcription", "no text decoded from audio").Display(), FromWarning: true}
	}
	return s.SendText(ctx, text)
}

// generateReply resolves the live configuration, calls the completion
// endpoint once, and appends whatever comes back as the assistant turn.
func (s *Session) generateReply(ctx context.Context) Reply {
	opts := llm.Options{
		BaseURL: s.resolver.BaseURL(s.Settings.BaseURL),
		APIKey:  s.resolver.APIKey(s.Settings.APIKey),
		Model:   s.resolver.Model(s.Settings.Model),
	}
	// The system prompt is recomputed per call; the conversation's stored
	// placeholder is never sent.
	prompt := s.resolver.SystemPrompt(s.Settings.SystemPrompt, s.Settings.Language)

	reply := Reply{}
	text, err := s.completer.Complete(ctx, opts, prompt, s.conversation.HistoryForCompletion())
	if err != nil {
		reply.Text = s.displayWarning(err)
		reply.FromWarning = true
	} else {
		reply.Text = text
	}

	if appendErr := s.conversation.Append(core.Turn{Role: core.RoleAssistant, Content: reply.Text}); appendErr != nil {
		s.logger.Error("failed to append assistant turn", "error", appendErr.Error())
	}

	if s.Settings.VoiceOutput && !reply.FromWarning {
		reply.Audio = s.synthesize(ctx, reply.Text)
	}
	return reply
}

// synthesize best-effort converts the reply to speech. Absent or failing
// synthesis only logs a warning.
func (s *Session) synthesize(ctx context.Context, text string) []byte {
	if s.synthesizer == nil {
		s.logger.Warn("speech synthesis unavailable; skipping voice output")
		return nil
	}
	audio, err := s.synthesizer.Synthesize(ctx, text, s.Settings.Language.TTSCode())
	if err != nil {
		s.logger.Warn("speech synthesis failed", "error", err.Error())
		return nil
	}
	return audio
}

// Save persists the non-system turns under this session's identity. A
// storage failure is reported as a warning and treated as a no-op.
func (s *Session) Save(ctx context.Context) *core.Warning {
	err := s.backend.Save(ctx, s.ID, s.UserName, s.conversation.MessagesForPersistence())
	if err != nil {
		w := core.Warningf("storage.save", "save failed: %v", err)
		s.logger.Warn(w.Message)
		return w
	}
	s.logger.Info("conversation saved", "turns", len(s.conversation.MessagesForPersistence()))
	return nil
}

// Load replaces the in-memory conversation with persisted turns selected by
// scope. Loading never mutates storage. A storage failure is reported as a
// warning and yields an empty conversation.
func (s *Session) Load(ctx context.Context, scope LoadScope) *core.Warning {
	q := storage.Query{}
	switch scope {
	case LoadByUser:
		q.UserName = s.UserName
	default:
		q.SessionID = s.ID
	}

	turns, err := s.backend.Load(ctx, q)
	var warning *core.Warning
	if err != nil {
		warning = core.Warningf("storage.load", "load failed: %v", err)
		s.logger.Warn(warning.Message)
		turns = nil
	}
	s.conversation.ReplaceWithLoaded(turns)
	return warning
}

// prefixName prepends the user's name so the model can address them, the
// same enrichment applied to voice input after transcription.
func (s *Session) prefixName(text string) string {
	if s.UserName == "" {
		return text
	}
	return "My name is " + s.UserName + ". " + text
}

func (s *Session) displayWarning(err error) string {
	if w, ok := core.AsWarning(err); ok {
		return w.Display()
	}
	return core.Warningf("session", "request failed: %v", err).Display()
}
