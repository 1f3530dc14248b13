package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/echost-protocol/echost-go/pkg/log"
	"github.com/echost-protocol/echost-go/pkg/wire"
)

// Stats holds aggregate statistics about a capture file.
type Stats struct {
	TotalEvents       int
	EventsByKind      map[Kind]int
	EventsByDirection map[log.Direction]int
	EventsByCommand   map[uint16]int
	Channels          map[string]*ChannelStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ChannelStats holds statistics for a single channel.
type ChannelStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Device    string
	Exchanges int
	Failures  int
}

// RunStats analyzes the capture file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByKind:      make(map[Kind]int),
		EventsByDirection: make(map[log.Direction]int),
		EventsByCommand:   make(map[uint16]int),
		Channels:          make(map[string]*ChannelStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByKind[eventKind(event)]++
		stats.EventsByDirection[event.Direction]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track channel stats
		ch, ok := stats.Channels[event.ChannelID]
		if !ok {
			ch = &ChannelStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Channels[event.ChannelID] = ch
		}
		ch.Events++
		if event.Timestamp.After(ch.LastSeen) {
			ch.LastSeen = event.Timestamp
		}
		if event.Device != "" && ch.Device == "" {
			ch.Device = event.Device
		}

		// Count exchanges per command and failures per channel
		if event.Exchange != nil {
			stats.EventsByCommand[event.Exchange.Command]++
			ch.Exchanges++
			if event.Exchange.Result != uint16(wire.ResultSuccess) {
				ch.Failures++
			}
		}

		// Count errors
		if event.Error != nil {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== EC Protocol Capture Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by kind
	fmt.Fprintln(w, "Events by Kind:")
	for _, kind := range []Kind{KindFrame, KindExchange, KindError} {
		if count := stats.EventsByKind[kind]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", kind.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by direction
	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Exchanges by command
	if len(stats.EventsByCommand) > 0 {
		fmt.Fprintln(w, "Exchanges by Command:")
		codes := make([]uint16, 0, len(stats.EventsByCommand))
		for code := range stats.EventsByCommand {
			codes = append(codes, code)
		}
		sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
		for _, code := range codes {
			name := wire.Command(code).String()
			fmt.Fprintf(w, "  0x%04x %-18s %d\n", code, name, stats.EventsByCommand[code])
		}
		fmt.Fprintln(w)
	}

	// Channels
	fmt.Fprintf(w, "Channels: %d\n", len(stats.Channels))
	if len(stats.Channels) > 0 {
		// Sort by first seen time
		type chanInfo struct {
			id    string
			stats *ChannelStats
		}
		chans := make([]chanInfo, 0, len(stats.Channels))
		for id, cs := range stats.Channels {
			chans = append(chans, chanInfo{id, cs})
		}
		sort.Slice(chans, func(i, j int) bool {
			return chans[i].stats.FirstSeen.Before(chans[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, c := range chans {
			duration := c.stats.LastSeen.Sub(c.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenChannelID(c.id), c.stats.Events, duration)
			if c.stats.Device != "" {
				fmt.Fprintf(w, "           Device: %s\n", c.stats.Device)
			}
			if c.stats.Exchanges > 0 {
				fmt.Fprintf(w, "           Exchanges: %d (%d failed)\n", c.stats.Exchanges, c.stats.Failures)
			}
		}
	}

	// Errors
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
