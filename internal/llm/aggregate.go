package llm

import (
	"context"
	"errors"
	"io"
	"strings"
)

// Result is the folded outcome of one streamed exchange.
type Result struct {
	Content string
	Usage   *Usage
}

// EmitFunc observes each non-empty delta as soon as it is received.
type EmitFunc func(delta string)

// Aggregate consumes reader exactly once and concatenates the content deltas
// in arrival order. When emit is non-nil it is called synchronously with
// every non-empty delta before the next fragment is read. The last usage
// record seen wins.
//
// If the stream fails part way, the partial Result is returned together with
// the reader's error unchanged. Deltas already emitted stay emitted.
func Aggregate(ctx context.Context, reader StreamReader, emit EmitFunc) (*Result, error) {
	defer reader.Close()

	var (
		builder strings.Builder
		usage   *Usage
	)

	partial := func() *Result {
		return &Result{Content: builder.String(), Usage: usage}
	}

	for {
		if err := ctx.Err(); err != nil {
			return partial(), err
		}

		fragment, err := reader.Recv()
		if errors.Is(err, io.EOF) {
			return partial(), nil
		}
		if err != nil {
			return partial(), err
		}
		if fragment == nil {
			continue
		}

		if fragment.Content != "" {
			builder.WriteString(fragment.Content)
			if emit != nil {
				emit(fragment.Content)
			}
		}

		if fragment.Usage != nil {
			u := *fragment.Usage
			usage = &u
		}
	}
}

// Collect folds reader without observing deltas.
func Collect(ctx context.Context, reader StreamReader) (*Result, error) {
	return Aggregate(ctx, reader, nil)
}
