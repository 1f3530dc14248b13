package commands

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/echost-protocol/echost-go/pkg/log"
	"github.com/echost-protocol/echost-go/pkg/wire"
)

func TestRunStats(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: base, ChannelID: "chan-1", Direction: log.DirectionOut, Device: "cros_ec",
			Exchange: &log.ExchangeEvent{Command: uint16(wire.CmdGetVersion)}},
		{Timestamp: base.Add(time.Second), ChannelID: "chan-1", Direction: log.DirectionOut,
			Exchange: &log.ExchangeEvent{Command: uint16(wire.CmdGetVersion)}},
		{Timestamp: base.Add(2 * time.Second), ChannelID: "chan-1", Direction: log.DirectionOut,
			Exchange: &log.ExchangeEvent{Command: uint16(wire.CmdRebootEC), Result: uint16(wire.ResultBusy)}},
		{Timestamp: base.Add(3 * time.Second), ChannelID: "chan-2", Direction: log.DirectionIn,
			Frame: &log.FrameEvent{Size: 9}},
		{Timestamp: base.Add(4 * time.Second), ChannelID: "chan-2", Direction: log.DirectionIn,
			Error: &log.ErrorEvent{Code: -1, Message: "connection reset"}},
	}

	path := createTestCaptureFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	checks := []string{
		"Total Events: 5",
		fmt.Sprintf("  %-12s %d", "Exchange:", 3),
		fmt.Sprintf("  %-12s %d", "Frame:", 1),
		fmt.Sprintf("  %-12s %d", "Error:", 1),
		fmt.Sprintf("  %-12s %d", "OUT:", 3),
		fmt.Sprintf("  %-12s %d", "IN:", 2),
		fmt.Sprintf("  0x%04x %-18s %d", 0x0002, "GET_VERSION", 2),
		fmt.Sprintf("  0x%04x %-18s %d", 0x00d2, "REBOOT_EC", 1),
		"Channels: 2",
		"[chan-1] 3 events",
		"Device: cros_ec",
		"Exchanges: 3 (1 failed)",
		"Errors: 1",
	}
	for _, want := range checks {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestRunStatsEmptyFile(t *testing.T) {
	path := createTestCaptureFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("expected zero totals, got:\n%s", buf.String())
	}
}
