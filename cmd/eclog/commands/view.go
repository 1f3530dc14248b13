// Package commands implements the eclog CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/echost-protocol/echost-go/pkg/log"
	"github.com/echost-protocol/echost-go/pkg/wire"
)

// Kind identifies the payload variant carried by a capture event.
type Kind uint8

const (
	KindFrame Kind = iota
	KindExchange
	KindError
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFrame:
		return "Frame"
	case KindExchange:
		return "Exchange"
	case KindError:
		return "Error"
	default:
		return "Unknown"
	}
}

// eventKind classifies an event by which payload variant is set.
func eventKind(event log.Event) Kind {
	switch {
	case event.Frame != nil:
		return KindFrame
	case event.Exchange != nil:
		return KindExchange
	case event.Error != nil:
		return KindError
	default:
		return Kind(255)
	}
}

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Kind      *Kind
	Direction *log.Direction
	Device    string
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [chan:id] DIRECTION Kind
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	chanID := shortenChannelID(event.ChannelID)
	dir := event.Direction.String()

	typeLabel := eventKind(event).String()
	if event.Exchange != nil {
		typeLabel = wire.Command(event.Exchange.Command).String()
	}

	fmt.Fprintf(w, "%s [chan:%s] %-3s %s\n", ts, chanID, dir, typeLabel)

	if event.Device != "" {
		fmt.Fprintf(w, "  Device: %s\n", event.Device)
	}

	// Type-specific details
	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Exchange != nil:
		formatExchangeDetails(w, event.Exchange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenChannelID returns the first 8 characters of the channel ID.
func shortenChannelID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatFrameDetails writes frame-specific details.
func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

// formatExchangeDetails writes exchange-specific details.
func formatExchangeDetails(w io.Writer, x *log.ExchangeEvent) {
	fmt.Fprintf(w, "  Command: 0x%04x version %d\n", x.Command, x.Version)
	fmt.Fprintf(w, "  Sizes: out %d, in %d\n", x.OutSize, x.InSize)
	fmt.Fprintf(w, "  Result: %s (%d)\n", wire.Result(x.Result).String(), x.Result)
	if x.Duration != 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(x.Duration))
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *log.ErrorEvent) {
	fmt.Fprintf(w, "  Code: %d\n", err.Code)
	if err.Message != "" {
		fmt.Fprintf(w, "  Message: %s\n", err.Message)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseKindFlag parses an event kind string from a command-line flag
// (case-insensitive).
func ParseKindFlag(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "frame":
		return KindFrame, nil
	case "exchange":
		return KindExchange, nil
	case "error":
		return KindError, nil
	default:
		return 0, fmt.Errorf("invalid kind: %s (must be frame, exchange, or error)", s)
	}
}

// ParseDirectionFlag parses a direction string from a command-line flag
// (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	return parseDirection(s)
}

// parseDirection parses a direction string (case-insensitive).
func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		// Apply filter
		if filter.Kind != nil && eventKind(event) != *filter.Kind {
			continue
		}
		if filter.Direction != nil && event.Direction != *filter.Direction {
			continue
		}
		if filter.Device != "" && event.Device != filter.Device {
			continue
		}

		formatEvent(output, event)
	}

	return nil
}
