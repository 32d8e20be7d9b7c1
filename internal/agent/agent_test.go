package agent

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ag/internal/cli"
	"ag/internal/image"
	"ag/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient records requests and answers every stream with the same script.
type stubClient struct {
	requests  []*llm.ChatRequest
	fragments []llm.Fragment
	chatResp  *llm.ChatResponse
	streamErr error
	recvErr   error
}

func (c *stubClient) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	c.requests = append(c.requests, req)
	if c.streamErr != nil {
		return nil, c.streamErr
	}
	return c.chatResp, nil
}

func (c *stubClient) ChatStream(ctx context.Context, req *llm.ChatRequest) (llm.StreamReader, error) {
	c.requests = append(c.requests, req)
	if c.streamErr != nil {
		return nil, c.streamErr
	}
	fragments := make([]llm.Fragment, len(c.fragments))
	copy(fragments, c.fragments)
	return &stubReader{fragments: fragments, err: c.recvErr}, nil
}

func (c *stubClient) Provider() string { return "stub" }
func (c *stubClient) Model() string    { return "stub-model" }

type stubReader struct {
	fragments []llm.Fragment
	err       error
}

func (r *stubReader) Recv() (*llm.Fragment, error) {
	if len(r.fragments) == 0 {
		if r.err != nil {
			return nil, r.err
		}
		return nil, io.EOF
	}
	f := r.fragments[0]
	r.fragments = r.fragments[1:]
	return &f, nil
}

func (r *stubReader) Close() error { return nil }

func helloClient() *stubClient {
	return &stubClient{fragments: []llm.Fragment{
		{Content: "He"},
		{Content: "llo"},
		{Usage: &llm.Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5}},
	}}
}

func newTestAgent(client llm.Client, cfg *Config) (*Agent, *bytes.Buffer, *bytes.Buffer) {
	var out, status bytes.Buffer
	r := cli.NewRenderer(&out, &status)
	r.SetColorMode(false)
	return New(client, r, cfg, nil), &out, &status
}

func TestRunText_EndToEnd(t *testing.T) {
	client := helloClient()
	a, out, _ := newTestAgent(client, nil)

	result, err := a.RunText(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "Hello", result.Content)
	printed := out.String()
	assert.True(t, strings.HasPrefix(printed, "Hello"), "got %q", printed)
	usageLine := strings.TrimSpace(printed[strings.LastIndex(strings.TrimRight(printed, "\n"), "\n"):])
	for _, n := range []string{"3", "2", "5"} {
		assert.Contains(t, usageLine, n)
	}

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.True(t, req.IncludeUsage)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleSystem, Content: DefaultSystemPrompt},
		{Role: llm.RoleUser, Content: "hello"},
	}, req.Messages)
}

func TestRunText_CustomSystemPromptAndOptions(t *testing.T) {
	client := helloClient()
	temp := float32(0.5)
	cfg := DefaultConfig()
	cfg.SystemPrompt = "You are a doctor."
	cfg.Temperature = &temp
	cfg.MaxTokens = 100
	a, _, _ := newTestAgent(client, cfg)

	_, err := a.RunText(context.Background(), "hi")
	require.NoError(t, err)

	req := client.requests[0]
	assert.Equal(t, "You are a doctor.", req.Messages[0].Content)
	assert.Equal(t, &temp, req.Temperature)
	assert.Equal(t, 100, req.MaxTokens)
}

func TestRunText_NonStreaming(t *testing.T) {
	client := &stubClient{chatResp: &llm.ChatResponse{
		Message: llm.Message{Role: llm.RoleAssistant, Content: "Whole answer"},
		Usage:   &llm.Usage{PromptTokens: 1, CompletionTokens: 1, TotalTokens: 2},
	}}
	cfg := DefaultConfig()
	cfg.Stream = false
	a, out, _ := newTestAgent(client, cfg)

	result, err := a.RunText(context.Background(), "hi")
	require.NoError(t, err)

	assert.Equal(t, "Whole answer", result.Content)
	assert.Contains(t, out.String(), "Whole answer\n")
	assert.Contains(t, out.String(), "Total: 2 tokens.")
}

func TestRunText_StreamOpenError(t *testing.T) {
	boom := &llm.TransportError{Op: "stream", StatusCode: 503, Err: errors.New("unavailable")}
	client := &stubClient{streamErr: boom}
	a, out, _ := newTestAgent(client, nil)

	_, err := a.RunText(context.Background(), "hi")

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, out.String())
}

func TestRunText_MidStreamErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	client := &stubClient{
		fragments: []llm.Fragment{{Content: "Par"}},
		recvErr:   boom,
	}
	a, out, _ := newTestAgent(client, nil)

	result, err := a.RunText(context.Background(), "hi")

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "Par", result.Content)
	assert.Equal(t, "Par\n", out.String())
}

func TestRunImage_BuildsImageRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))

	client := helloClient()
	a, _, _ := newTestAgent(client, nil)

	_, err := a.RunImage(context.Background(), "", path)
	require.NoError(t, err)

	require.Len(t, client.requests, 1)
	msgs := client.requests[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, DefaultImageSystemPrompt, msgs[0].Parts[0].Text)
	assert.Equal(t, "data:image/png;base64,aW1n", msgs[1].Parts[0].ImageURL)
	assert.Equal(t, DefaultImagePrompt, msgs[1].Parts[1].Text)
}

func TestRunImage_DataURIUsedVerbatim(t *testing.T) {
	client := helloClient()
	a, _, _ := newTestAgent(client, nil)

	_, err := a.RunImage(context.Background(), "what is it?", "data:image/png;base64,XXXX")
	require.NoError(t, err)

	msgs := client.requests[0].Messages
	assert.Equal(t, "data:image/png;base64,XXXX", msgs[1].Parts[0].ImageURL)
	assert.Equal(t, "what is it?", msgs[1].Parts[1].Text)
}

func TestRunImage_MissingFileSendsNothing(t *testing.T) {
	client := helloClient()
	a, _, _ := newTestAgent(client, nil)

	_, err := a.RunImage(context.Background(), "p", filepath.Join(t.TempDir(), "missing.png"))

	var nf *image.NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Empty(t, client.requests)
}

func TestRunInteractive_ExitAfterOneRequest(t *testing.T) {
	for _, exit := range []string{"exit", "EXIT", "Quit", "  exit  "} {
		t.Run(exit, func(t *testing.T) {
			client := helloClient()
			a, out, status := newTestAgent(client, nil)

			err := a.RunInteractive(context.Background(), strings.NewReader("hi\n"+exit+"\nnever sent\n"))
			require.NoError(t, err)

			require.Len(t, client.requests, 1)
			assert.Equal(t, "hi", client.requests[0].Messages[1].Content)
			assert.Contains(t, out.String(), "Hello")
			assert.True(t, strings.HasPrefix(status.String(), DefaultWelcome+"\n"))
		})
	}
}

func TestRunInteractive_CustomWelcomeAndBlankLines(t *testing.T) {
	client := helloClient()
	cfg := DefaultConfig()
	cfg.Welcome = "Hi, I am your assistant"
	a, _, status := newTestAgent(client, cfg)

	err := a.RunInteractive(context.Background(), strings.NewReader("\n   \nfirst\nsecond\n"))
	require.NoError(t, err)

	require.Len(t, client.requests, 2)
	assert.Equal(t, "first", client.requests[0].Messages[1].Content)
	assert.Equal(t, "second", client.requests[1].Messages[1].Content)
	assert.True(t, strings.HasPrefix(status.String(), "Hi, I am your assistant\n"))
	assert.Contains(t, status.String(), DefaultPromptLabel+": ")
}

func TestRunInteractive_EndOfInput(t *testing.T) {
	client := helloClient()
	a, _, _ := newTestAgent(client, nil)

	require.NoError(t, a.RunInteractive(context.Background(), strings.NewReader("")))
	assert.Empty(t, client.requests)
}

func TestRunInteractive_RequestErrorEndsLoop(t *testing.T) {
	boom := errors.New("down")
	client := &stubClient{streamErr: boom}
	a, _, _ := newTestAgent(client, nil)

	err := a.RunInteractive(context.Background(), strings.NewReader("one\ntwo\n"))

	assert.ErrorIs(t, err, boom)
	assert.Len(t, client.requests, 1)
}

func TestRunInteractive_CancelWhileWaitingForInput(t *testing.T) {
	client := helloClient()
	a, _, _ := newTestAgent(client, nil)

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- a.RunInteractive(ctx, pr) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("RunInteractive did not return after cancel")
	}
	assert.Empty(t, client.requests)
}

func TestRunInteractive_LongLine(t *testing.T) {
	client := helloClient()
	a, _, _ := newTestAgent(client, nil)

	long := strings.Repeat("x", 200*1024)
	err := a.RunInteractive(context.Background(), strings.NewReader(long+"\nexit\n"))
	require.NoError(t, err)

	require.Len(t, client.requests, 1)
	assert.Equal(t, long, client.requests[0].Messages[1].Content)
}

func TestRunInteractive_LastLineWithoutNewline(t *testing.T) {
	client := helloClient()
	a, _, _ := newTestAgent(client, nil)

	require.NoError(t, a.RunInteractive(context.Background(), strings.NewReader("only")))
	require.Len(t, client.requests, 1)
	assert.Equal(t, "only", client.requests[0].Messages[1].Content)
}

func TestRunInteractive_NilReader(t *testing.T) {
	a, _, _ := newTestAgent(helloClient(), nil)
	assert.Error(t, a.RunInteractive(context.Background(), nil))
}

func TestIsExitCommand(t *testing.T) {
	assert.True(t, IsExitCommand("exit"))
	assert.True(t, IsExitCommand("QUIT"))
	assert.True(t, IsExitCommand(" Exit "))
	assert.False(t, IsExitCommand("exit now"))
	assert.False(t, IsExitCommand("bye"))
}

func TestConfigDefaultsFillBlanks(t *testing.T) {
	a := New(helloClient(), cli.NewRenderer(io.Discard, io.Discard), &Config{Stream: true}, nil)

	assert.Equal(t, DefaultSystemPrompt, a.config.SystemPrompt)
	assert.Equal(t, DefaultImageSystemPrompt, a.config.ImageSystemPrompt)
	assert.Equal(t, DefaultWelcome, a.config.Welcome)
	assert.Equal(t, DefaultPromptLabel, a.config.PromptLabel)
}
