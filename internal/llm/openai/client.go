package openai

import (
	"context"
	"errors"

	"ag/internal/config"
	"ag/internal/llm"

	openai "github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a client for an OpenAI-compatible endpoint. The
// configuration is expected to be resolved already; nothing is dialled here.
func NewClient(cfg config.Client) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL

	return &Client{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
	}
}

func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.buildRequest(req, false))
	if err != nil {
		return nil, wrapError("chat", err)
	}

	return convertResponse(resp), nil
}

func (c *Client) Provider() string {
	return "openai"
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) buildRequest(req *llm.ChatRequest, stream bool) openai.ChatCompletionRequest {
	out := openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  convertMessages(req.Messages),
		MaxTokens: req.MaxTokens,
		Stream:    stream,
	}
	if req.Temperature != nil {
		out.Temperature = *req.Temperature
	}
	if stream && req.IncludeUsage {
		out.StreamOptions = &openai.StreamOptions{IncludeUsage: true}
	}
	return out
}

// convertMessages maps provider-neutral messages onto the OpenAI schema.
// Multi-part messages become MultiContent with text and image_url parts.
func convertMessages(msgs []llm.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(msgs))
	for i, msg := range msgs {
		ocMsg := openai.ChatCompletionMessage{
			Role: string(msg.Role),
		}

		if len(msg.Parts) == 0 {
			ocMsg.Content = msg.Content
			result[i] = ocMsg
			continue
		}

		ocMsg.MultiContent = make([]openai.ChatMessagePart, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			switch p.Type {
			case llm.PartImageURL:
				ocMsg.MultiContent = append(ocMsg.MultiContent, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    p.ImageURL,
						Detail: openai.ImageURLDetailAuto,
					},
				})
			default:
				ocMsg.MultiContent = append(ocMsg.MultiContent, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeText,
					Text: p.Text,
				})
			}
		}
		result[i] = ocMsg
	}
	return result
}

func convertResponse(resp openai.ChatCompletionResponse) *llm.ChatResponse {
	result := &llm.ChatResponse{
		Message: llm.Message{Role: llm.RoleAssistant},
	}

	if len(resp.Choices) > 0 {
		msg := resp.Choices[0].Message
		if msg.Role != "" {
			result.Message.Role = llm.Role(msg.Role)
		}
		result.Message.Content = msg.Content
	}

	if resp.Usage.TotalTokens > 0 || resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		result.Usage = convertUsage(resp.Usage)
	}

	return result
}

func convertUsage(u openai.Usage) *llm.Usage {
	return &llm.Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

// wrapError turns go-openai failures into llm.TransportError, keeping the
// HTTP status when the service answered.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	te := &llm.TransportError{Op: op, Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		te.StatusCode = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		te.StatusCode = reqErr.HTTPStatusCode
	}

	return te
}
