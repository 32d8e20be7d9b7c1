package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ag/internal/config"
	"ag/internal/image"
	"ag/internal/llm"

	"github.com/fatih/color"
)

// Process exit codes. Handled failures never exit 0.
const (
	exitOK       = 0
	exitFailure  = 1 // transport and other runtime failures
	exitUsage    = 2 // bad flags or arguments
	exitConfig   = 3 // missing api key, base url or model
	exitNotFound = 4 // image file does not exist
	exitCanceled = 130
)

// usageError marks malformed invocations.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func exitCode(err error) int {
	var (
		ue *usageError
		ce *config.ConfigurationError
		nf *image.NotFoundError
	)

	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue):
		return exitUsage
	case errors.As(err, &ce):
		return exitConfig
	case errors.As(err, &nf):
		return exitNotFound
	case errors.Is(err, context.Canceled):
		return exitCanceled
	default:
		return exitFailure
	}
}

// reportError prints a one-line, human-readable description of err.
func reportError(w io.Writer, err error) {
	var (
		ue *usageError
		ce *config.ConfigurationError
		nf *image.NotFoundError
		te *llm.TransportError
	)

	red := color.New(color.FgRed)
	switch {
	case errors.As(err, &ue):
		red.Fprintf(w, "Usage error: %v (see 'ag --help')\n", err)
	case errors.As(err, &ce):
		red.Fprintf(w, "Configuration error: %v\n", ce)
	case errors.As(err, &nf):
		red.Fprintf(w, "File not found: %s\n", nf.Path)
	case errors.Is(err, context.Canceled):
		red.Fprintln(w, "Interrupted")
	case errors.As(err, &te):
		red.Fprintf(w, "Request error: %v\n", te)
	default:
		red.Fprintf(w, "Error: %v\n", err)
	}
}
