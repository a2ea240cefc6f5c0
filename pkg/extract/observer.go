package extract

import (
	"log/slog"
)

type EventKind string

const (
	EventDocument  EventKind = "document"
	EventField     EventKind = "field"
	EventSkipped   EventKind = "skipped"
	EventFallback  EventKind = "fallback"
	EventTruncated EventKind = "truncated"
)

type Event struct {
	Kind EventKind

	// index of the document within the analyzer result
	Document int

	Field string
	Value string

	Err error
}

type Observer func(Event)

// LogObserver reports events on logger. Skips, fallbacks and truncations
// are logged at warn level, everything else at debug level.
func LogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}

	return func(e Event) {
		attrs := []any{
			"document", e.Document,
		}

		if e.Field != "" {
			attrs = append(attrs, "field", e.Field)
		}

		if e.Value != "" {
			attrs = append(attrs, "value", e.Value)
		}

		if e.Err != nil {
			attrs = append(attrs, "error", e.Err)
		}

		switch e.Kind {
		case EventSkipped, EventFallback, EventTruncated:
			logger.Warn("extract "+string(e.Kind), attrs...)
		default:
			logger.Debug("extract "+string(e.Kind), attrs...)
		}
	}
}
