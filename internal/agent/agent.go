// Package agent implements the three ways ag talks to the model: a single
// text prompt, a single image prompt, and the interactive loop.
package agent

const (
	DefaultSystemPrompt      = "You are a helpful AI assistant."
	DefaultImageSystemPrompt = "You are an assistant skilled at analyzing images."
	DefaultImagePrompt       = "Describe and analyze the contents of this image."
	DefaultWelcome           = "Welcome to the AI assistant! I can answer questions, provide information or help with tasks. Type 'exit' or 'quit' to leave."
	DefaultPromptLabel       = "You"
)

type Mode string

const (
	ModeText        Mode = "text"
	ModeImage       Mode = "image"
	ModeInteractive Mode = "interactive"
)

type Config struct {
	SystemPrompt      string
	ImageSystemPrompt string
	Welcome           string
	PromptLabel       string

	// Stream selects the incremental call; when false the whole answer is
	// fetched at once and printed.
	Stream       bool
	IncludeUsage bool
	Temperature  *float32
	MaxTokens    int
}

// DefaultConfig returns the streaming configuration with the built-in prompts.
func DefaultConfig() *Config {
	return &Config{
		SystemPrompt:      DefaultSystemPrompt,
		ImageSystemPrompt: DefaultImageSystemPrompt,
		Welcome:           DefaultWelcome,
		PromptLabel:       DefaultPromptLabel,
		Stream:            true,
		IncludeUsage:      true,
	}
}

func (c *Config) withDefaults() *Config {
	out := *c
	if out.SystemPrompt == "" {
		out.SystemPrompt = DefaultSystemPrompt
	}
	if out.ImageSystemPrompt == "" {
		out.ImageSystemPrompt = DefaultImageSystemPrompt
	}
	if out.Welcome == "" {
		out.Welcome = DefaultWelcome
	}
	if out.PromptLabel == "" {
		out.PromptLabel = DefaultPromptLabel
	}
	return &out
}
