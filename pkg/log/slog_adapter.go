package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes capture events to an slog.Logger.
// Useful for development when you want to see protocol traffic in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("channel_id", event.ChannelID),
		slog.String("direction", event.Direction.String()),
	}

	if event.Device != "" {
		attrs = append(attrs, slog.String("device", event.Device))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Exchange != nil:
		attrs = append(attrs,
			slog.Uint64("command", uint64(event.Exchange.Command)),
			slog.Uint64("version", uint64(event.Exchange.Version)),
			slog.Int("out_size", event.Exchange.OutSize),
			slog.Int("in_size", event.Exchange.InSize),
			slog.Uint64("result", uint64(event.Exchange.Result)),
		)
		if event.Exchange.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", event.Exchange.Duration))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.Int("code", event.Error.Code),
			slog.String("error", event.Error.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "ec protocol event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
