package llm

import "context"

type Client interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	ChatStream(ctx context.Context, req *ChatRequest) (StreamReader, error)
	Provider() string
	Model() string
}

type ChatRequest struct {
	Messages []Message
	// IncludeUsage asks the service to attach token accounting to the final
	// stream fragment. Backends that ignore it are tolerated.
	IncludeUsage bool
	Temperature  *float32
	MaxTokens    int
}

type ChatResponse struct {
	Message Message
	Usage   *Usage
}

// StreamReader yields fragments in arrival order. Recv returns io.EOF once
// the stream is exhausted. A reader is single-pass and cannot be restarted.
type StreamReader interface {
	Recv() (*Fragment, error)
	Close() error
}

// Fragment is one incremental unit of a streamed answer. Either field may be
// empty; usage normally arrives on the terminal fragment only.
type Fragment struct {
	Content string
	Usage   *Usage
}
