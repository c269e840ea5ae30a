package audit

import (
	"context"
	"log/slog"
)

// Async decouples event emission from the request path. Emit enqueues and
// returns immediately; a worker drains the inbox into the wrapped publisher.
// A full inbox drops the event with a log line: audit is observability, never
// backpressure on authorization.
type Async struct {
	inbox  chan Event
	sink   Publisher
	logger *slog.Logger
}

func NewAsync(sink Publisher, logger *slog.Logger, buffer int) *Async {
	if buffer <= 0 {
		buffer = 256
	}
	return &Async{
		inbox:  make(chan Event, buffer),
		sink:   sink,
		logger: logger,
	}
}

func (a *Async) Emit(_ context.Context, event Event) error {
	select {
	case a.inbox <- event:
	default:
		a.logger.Warn("audit inbox full, dropping event", "action", event.Action, "realm", event.Realm)
	}
	return nil
}

// Run drains the inbox until ctx is cancelled. Intended to run under the
// process error group.
func (a *Async) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-a.inbox:
			if err := a.sink.Emit(ctx, event); err != nil {
				a.logger.Warn("audit emit failed", "action", event.Action, "error", err)
			}
		}
	}
}
