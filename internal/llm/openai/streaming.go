package openai

import (
	"context"
	"errors"
	"io"

	"ag/internal/llm"

	openai "github.com/sashabaranov/go-openai"
)

type StreamReader struct {
	stream *openai.ChatCompletionStream
}

func (c *Client) ChatStream(ctx context.Context, req *llm.ChatRequest) (llm.StreamReader, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, c.buildRequest(req, true))
	if err != nil {
		return nil, wrapError("stream", err)
	}

	return &StreamReader{stream: stream}, nil
}

// Recv normalizes one chunk into a Fragment. Chunks without choices, such as
// the usage-only chunk sent when include_usage is set, yield a Fragment with
// empty content rather than an error.
func (s *StreamReader) Recv() (*llm.Fragment, error) {
	resp, err := s.stream.Recv()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, wrapError("recv", err)
	}

	return toFragment(resp), nil
}

func (s *StreamReader) Close() error {
	s.stream.Close()
	return nil
}

func toFragment(resp openai.ChatCompletionStreamResponse) *llm.Fragment {
	fragment := &llm.Fragment{}

	if len(resp.Choices) > 0 {
		fragment.Content = resp.Choices[0].Delta.Content
	}

	if resp.Usage != nil {
		fragment.Usage = convertUsage(*resp.Usage)
	}

	return fragment
}
