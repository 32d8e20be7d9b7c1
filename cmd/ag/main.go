package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"ag/internal/config"
	"ag/internal/llm"
	"ag/internal/llm/openai"
	"ag/internal/screenshot"
)

// app carries the process collaborators so the command can run against
// fakes in tests.
type app struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	getenv    func(string) string
	newClient func(config.Client) llm.Client
	capture   func(path string) (string, error)
}

func defaultApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
		newClient: func(cfg config.Client) llm.Client {
			return openai.NewClient(cfg)
		},
		capture: screenshot.New().Capture,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	// After the first signal, restore default handling so a second one kills
	// the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	code := run(ctx, os.Args[1:], defaultApp())
	stop()
	os.Exit(code)
}
