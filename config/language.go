package config

// Language selects the assistant's reply language and the speech-synthesis
// voice.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageUrdu    Language = "Urdu"
)

const basePrompt = "You are ALISA — a warm, encouraging, Gen Z mentor for students. " +
	"Help with study planning, mental wellness tips, and productivity in simple, friendly language. " +
	"Use short paragraphs and bullet points when helpful. Be supportive without being cheesy. "

// DefaultSystemPrompt returns the built-in system prompt with the
// language-specific reply instruction appended.
func (l Language) DefaultSystemPrompt() string {
	if l == LanguageUrdu {
		return basePrompt + "Reply in Urdu unless the user asks for English. "
	}
	return basePrompt + "Reply in English unless the user asks for Urdu. "
}

// TTSCode maps the language to the speech-synthesis language code.
func (l Language) TTSCode() string {
	if l == LanguageUrdu {
		return "ur"
	}
	return "en"
}
