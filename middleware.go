package orion

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Middleware wraps a Tool with cross-cutting behavior (logging, recovery).
type Middleware func(Tool) Tool

// WithToolLogging returns a middleware that logs start, end, duration, and
// errors of every call.
func WithToolLogging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next Tool) Tool {
		return &loggingTool{toolBase: toolBase{next: next}, logger: logger}
	}
}

// WithRecovery returns a middleware that recovers panics from the wrapped
// tool and returns them as errors. The Registry recovers panics by default;
// use this when that option is disabled or for tools executed outside a
// Registry.
func WithRecovery() Middleware {
	return func(next Tool) Tool {
		return &recoveryTool{toolBase{next: next}}
	}
}

// toolBase delegates the descriptive half of Tool to the wrapped value; used
// by middleware wrappers.
type toolBase struct{ next Tool }

func (b *toolBase) Name() string                         { return b.next.Name() }
func (b *toolBase) Description() string                  { return b.next.Description() }
func (b *toolBase) Parameters() map[string]FieldManifest { return b.next.Parameters() }

type loggingTool struct {
	toolBase
	logger *zap.Logger
}

func (l *loggingTool) Call(ctx context.Context, argsJSON json.RawMessage) (any, error) {
	l.logger.Debug("tool call start", zap.String("tool", l.next.Name()))
	start := time.Now()
	out, err := l.next.Call(ctx, argsJSON)
	dur := time.Since(start)
	if err != nil {
		l.logger.Warn("tool call failed",
			zap.String("tool", l.next.Name()),
			zap.Duration("duration", dur),
			zap.Error(err))
		return nil, err
	}
	l.logger.Debug("tool call done",
		zap.String("tool", l.next.Name()),
		zap.Duration("duration", dur))
	return out, nil
}

type recoveryTool struct{ toolBase }

func (r *recoveryTool) Call(ctx context.Context, argsJSON json.RawMessage) (out any, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = &panicError{p: p}
		}
	}()
	return r.next.Call(ctx, argsJSON)
}

// Use stores the given middlewares and reapplies them from scratch to all
// registered tools (onion order: first middleware is outermost). Tools
// registered after Use also get them. Calling Use again replaces the chain
// and rewraps from the raw tools, so middlewares never stack twice.
func (r *Registry) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = middlewares
	for name, raw := range r.rawTools {
		t := raw
		for i := len(middlewares) - 1; i >= 0; i-- {
			t = middlewares[i](t)
		}
		r.tools[name] = t
	}
}
