package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher captures audit events. Emit is best-effort from the caller's
// perspective: domain flows log emit failures but never fail on them.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// LogPublisher writes events to the structured log. It is the always-on sink;
// Kafka fan-out is layered on top when brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	p.logger.InfoContext(ctx, string(event.Action),
		"log_type", "audit",
		"realm", event.Realm,
		"client_id", event.ClientID,
		"user_id", event.UserID,
		"code_id", event.CodeID,
		"request_id", event.RequestID,
	)
	return nil
}

// Fanout emits to every configured sink, returning the first error after
// attempting all of them.
type Fanout struct {
	sinks []Publisher
}

func NewFanout(sinks ...Publisher) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Emit(ctx context.Context, event Event) error {
	var firstErr error
	for _, sink := range f.sinks {
		if err := sink.Emit(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
