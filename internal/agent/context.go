package agent

import (
	"time"

	"ag/internal/llm"
	"ag/internal/logger"
)

// ExecutionContext tracks one request/response exchange for logging
type ExecutionContext struct {
	Logger    *logger.Logger
	Mode      Mode
	StartTime time.Time
}

// NewExecutionContext creates a new execution context for mode
func NewExecutionContext(log *logger.Logger, mode Mode) *ExecutionContext {
	return &ExecutionContext{
		Logger:    log.With("mode", string(mode)),
		Mode:      mode,
		StartTime: time.Now(),
	}
}

// LogRequest logs the outgoing request
func (ctx *ExecutionContext) LogRequest(client llm.Client, req *llm.ChatRequest, stream bool) {
	ctx.Logger.Debug("Sending %d message(s) to %s (model: %s, stream: %t)",
		len(req.Messages), client.Provider(), client.Model(), stream)
}

// LogResult logs the outcome of the exchange
func (ctx *ExecutionContext) LogResult(result *llm.Result, err error) {
	elapsed := time.Since(ctx.StartTime).Round(time.Millisecond)
	if err != nil {
		ctx.Logger.Debug("Request failed after %s: %v", elapsed, err)
		return
	}
	if result.Usage == nil {
		ctx.Logger.Debug("Received %d bytes in %s (no usage reported)", len(result.Content), elapsed)
		return
	}
	ctx.Logger.Debug("Received %d bytes in %s (%d tokens)", len(result.Content), elapsed, result.Usage.TotalTokens)
}
