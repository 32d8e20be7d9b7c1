package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"ag/internal/llm"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Renderer writes answers to out as they stream in and status output
// (spinner, usage line, banners, errors) to status.
type Renderer struct {
	out       io.Writer
	status    io.Writer
	spin      *spinner.Spinner
	printed   bool // something was written to out for the current answer
	lastDelta string

	dim   *color.Color
	cyan  *color.Color
	green *color.Color
}

func NewRenderer(out, status io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	if status == nil {
		status = os.Stderr
	}

	r := &Renderer{
		out:    out,
		status: status,
		dim:    color.New(color.FgHiBlack),
		cyan:   color.New(color.FgCyan, color.Bold),
		green:  color.New(color.FgGreen),
	}

	if f, ok := status.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.spin = newSpinner(f)
	}

	return r
}

// newSpinner draws on f. The spinner checks f itself, not stdout, before
// drawing, so redirecting stdout keeps it visible.
func newSpinner(f *os.File) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriterFile(f))
	s.Suffix = "  Thinking..."
	_ = s.Color("cyan")
	return s
}

// SetColorMode forces coloured status output on or off.
func (r *Renderer) SetColorMode(enabled bool) {
	for _, c := range []*color.Color{r.dim, r.cyan, r.green} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Emit writes one delta to out immediately. It is the observer handed to
// llm.Aggregate.
func (r *Renderer) Emit(delta string) {
	r.StopWaiting()
	fmt.Fprint(r.out, delta)
	r.printed = true
	r.lastDelta = delta
}

// Stream folds reader into a Result while printing each delta as it arrives,
// then prints the usage line when the service reported one. On a mid-stream
// failure the partial output stays on screen and the error is returned.
func (r *Renderer) Stream(ctx context.Context, reader llm.StreamReader) (*llm.Result, error) {
	r.begin()

	result, err := llm.Aggregate(ctx, reader, r.Emit)
	r.StopWaiting()
	r.endLine()

	if err != nil {
		return result, err
	}

	r.Usage(result.Usage)
	return result, nil
}

// Complete prints a non-streamed answer and its usage line.
func (r *Renderer) Complete(resp *llm.ChatResponse) *llm.Result {
	r.StopWaiting()
	r.begin()

	if resp.Message.Content != "" {
		r.Emit(resp.Message.Content)
	}
	r.endLine()
	r.Usage(resp.Usage)

	return &llm.Result{Content: resp.Message.Content, Usage: resp.Usage}
}

// Wait shows the spinner until the first delta arrives or Stream/Complete
// finishes.
func (r *Renderer) Wait() {
	if r.spin != nil {
		r.spin.Start()
	}
}

// StopWaiting hides the spinner.
func (r *Renderer) StopWaiting() {
	if r.spin != nil {
		r.spin.Stop()
	}
}

func (r *Renderer) begin() {
	r.printed = false
	r.lastDelta = ""
}

func (r *Renderer) endLine() {
	if r.printed && !strings.HasSuffix(r.lastDelta, "\n") {
		fmt.Fprintln(r.out)
	}
}

// Usage prints the token accounting line. Nothing is printed for nil.
func (r *Renderer) Usage(u *llm.Usage) {
	if u == nil {
		return
	}
	fmt.Fprintln(r.out)
	r.dim.Fprintf(r.out, "Prompt: %d tokens, Completion: %d tokens, Total: %d tokens.\n",
		u.PromptTokens, u.CompletionTokens, u.TotalTokens)
}

// Welcome prints the interactive greeting.
func (r *Renderer) Welcome(msg string) {
	r.cyan.Fprintln(r.status, msg)
}

// Prompt prints the label shown before reading a line of user input.
func (r *Renderer) Prompt(label string) {
	r.green.Fprintf(r.status, "%s: ", label)
}

// Info prints a status line such as the image being analysed.
func (r *Renderer) Info(format string, args ...any) {
	r.dim.Fprintf(r.status, format+"\n", args...)
}
