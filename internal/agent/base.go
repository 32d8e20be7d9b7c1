package agent

import (
	"context"

	"ag/internal/cli"
	"ag/internal/image"
	"ag/internal/llm"
	"ag/internal/logger"
)

type Agent struct {
	llmClient llm.Client
	renderer  *cli.Renderer
	config    *Config
	logger    *logger.Logger
}

func New(client llm.Client, renderer *cli.Renderer, cfg *Config, log *logger.Logger) *Agent {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Agent{
		llmClient: client,
		renderer:  renderer,
		config:    cfg.withDefaults(),
		logger:    log,
	}
}

// RunText sends prompt with the text system prompt and prints the answer.
func (a *Agent) RunText(ctx context.Context, prompt string) (*llm.Result, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: a.config.SystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}
	return a.send(ctx, ModeText, messages)
}

// RunImage asks about the image at source, which is a file path or a data
// URI. A missing file is reported before anything is sent.
func (a *Agent) RunImage(ctx context.Context, prompt, source string) (*llm.Result, error) {
	if prompt == "" {
		prompt = DefaultImagePrompt
	}

	messages, err := image.BuildMessages(prompt, source, a.config.ImageSystemPrompt)
	if err != nil {
		return nil, err
	}
	return a.send(ctx, ModeImage, messages)
}

func (a *Agent) send(ctx context.Context, mode Mode, messages []llm.Message) (*llm.Result, error) {
	execCtx := NewExecutionContext(a.logger, mode)

	req := &llm.ChatRequest{
		Messages:     messages,
		IncludeUsage: a.config.IncludeUsage,
		Temperature:  a.config.Temperature,
		MaxTokens:    a.config.MaxTokens,
	}
	execCtx.LogRequest(a.llmClient, req, a.config.Stream)

	result, err := a.exchange(ctx, req)
	execCtx.LogResult(result, err)
	return result, err
}

func (a *Agent) exchange(ctx context.Context, req *llm.ChatRequest) (*llm.Result, error) {
	a.renderer.Wait()

	if !a.config.Stream {
		resp, err := a.llmClient.Chat(ctx, req)
		if err != nil {
			a.renderer.StopWaiting()
			return nil, err
		}
		return a.renderer.Complete(resp), nil
	}

	reader, err := a.llmClient.ChatStream(ctx, req)
	if err != nil {
		a.renderer.StopWaiting()
		return nil, err
	}
	return a.renderer.Stream(ctx, reader)
}
