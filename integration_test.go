package echost_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/echost-protocol/echost-go/pkg/device"
	"github.com/echost-protocol/echost-go/pkg/discovery"
	"github.com/echost-protocol/echost-go/pkg/ecsim"
	"github.com/echost-protocol/echost-go/pkg/host"
	eclog "github.com/echost-protocol/echost-go/pkg/log"
	"github.com/echost-protocol/echost-go/pkg/registry"
	"github.com/echost-protocol/echost-go/pkg/report"
	"github.com/echost-protocol/echost-go/pkg/transport"
	"github.com/echost-protocol/echost-go/pkg/wire"
)

// startStack serves a simulated EC over loopback TCP and returns a
// connected client plus the probed device descriptor.
func startStack(t *testing.T, cfg ecsim.Config) (*ecsim.Simulator, *transport.Client, device.Descriptor) {
	t.Helper()

	sim := ecsim.New(cfg)
	server := transport.NewServer(sim)
	if err := server.Start(context.Background(), "tcp", "127.0.0.1:0"); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	t.Cleanup(func() { _ = server.Stop() })

	client, err := transport.Dial("tcp", server.Addr().String(), transport.DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	client.SetDeviceName(device.CanonicalName)

	dev, err := host.Probe(client, device.CanonicalName, 0)
	if err != nil {
		t.Fatalf("Failed to probe: %v", err)
	}
	return sim, client, dev
}

// TestE2E_VersionReport drives the full stack: encoded packets over TCP,
// decoded by the server, answered by the device model, and rendered.
func TestE2E_VersionReport(t *testing.T) {
	cfg := ecsim.DefaultConfig()
	cfg.ROVersion = "kukui_v2.0.1-ro"
	cfg.RWVersion = "kukui_v2.0.2-rw"
	_, client, dev := startStack(t, cfg)

	out, err := report.Version(client, dev)
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if !strings.HasPrefix(out, "RO version:    kukui_v2.0.1-ro\n") {
		t.Errorf("unexpected report:\n%s", out)
	}
	if !strings.Contains(out, "RW version:    kukui_v2.0.2-rw\n") {
		t.Errorf("RW line missing:\n%s", out)
	}
}

// TestE2E_CapabilityRoundTrip exercises the registry surfaces over the
// wire: wake-angle read/write, reboot, and the mux report.
func TestE2E_CapabilityRoundTrip(t *testing.T) {
	sim, client, dev := startStack(t, ecsim.DefaultConfig())

	// Write then read the wake angle through the registry.
	wa, err := registry.Lookup("kb_wake_angle")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if err := wa.Store(client, dev, "135"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	out, err := wa.Show(client, dev)
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if out != "135\n" {
		t.Errorf("wake angle: got %q", out)
	}
	if sim.WakeAngle() != 135 {
		t.Errorf("device angle: got %d", sim.WakeAngle())
	}

	// Reboot reaches the device model.
	if err := registry.Reboot(client, dev, "rw at-shutdown"); err != nil {
		t.Fatalf("Reboot failed: %v", err)
	}
	last := sim.LastReboot()
	if last == nil || last.Cmd != wire.RebootJumpRW || last.Flags != wire.RebootFlagOnAPShutdown {
		t.Errorf("reboot: got %+v", last)
	}

	// The mux report renders both default ports.
	mux, err := registry.Lookup("usbpdmuxinfo")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	out, err = mux.Show(client, dev)
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if !strings.Contains(out, "Port 0:") || !strings.Contains(out, "Port 1:") {
		t.Errorf("mux report:\n%s", out)
	}
}

// TestE2E_FaultAnnotations checks that injected failures surface in the
// report text with the documented annotation format.
func TestE2E_FaultAnnotations(t *testing.T) {
	sim, client, dev := startStack(t, ecsim.DefaultConfig())
	sim.FailResult(wire.CmdGetChipInfo, wire.ResultTimeout)

	out, err := report.Version(client, dev)
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if !strings.Contains(out, "Chip info:     XFER / EC ERROR 0 / 10\n") {
		t.Errorf("annotation missing:\n%s", out)
	}
}

// TestE2E_GuardedCapability checks that primary-EC-only capabilities stay
// hidden behind a non-canonical descriptor even though the link works.
func TestE2E_GuardedCapability(t *testing.T) {
	_, client, _ := startStack(t, ecsim.DefaultConfig())

	dev, err := host.Probe(client, "cros_fp", 0)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	mux, err := registry.Lookup("usbpdmuxinfo")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if _, err := mux.Show(client, dev); !errors.Is(err, host.ErrUnavailable) {
		t.Errorf("error: got %v, want ErrUnavailable", err)
	}
}

// TestE2E_ProtocolCapture captures a session to a CBOR file and reads it
// back with a filtered reader.
func TestE2E_ProtocolCapture(t *testing.T) {
	_, client, dev := startStack(t, ecsim.DefaultConfig())

	path := filepath.Join(t.TempDir(), "session.eclog")
	capture, err := eclog.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	client.SetLogger(capture)

	if _, err := report.FlashInfo(client, dev); err != nil {
		t.Fatalf("FlashInfo failed: %v", err)
	}
	client.SetLogger(nil)
	if err := capture.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	dir := eclog.DirectionOut
	reader, err := eclog.NewFilteredReader(path, eclog.Filter{
		ChannelID: client.ChannelID(),
		Direction: &dir,
	})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var exchanges int
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if event.Device != device.CanonicalName {
			t.Errorf("device: got %q", event.Device)
		}
		if event.Exchange != nil {
			exchanges++
			if event.Exchange.Command != uint16(wire.CmdFlashInfo) {
				t.Errorf("command: got %#x", event.Exchange.Command)
			}
		}
	}
	if exchanges != 1 {
		t.Errorf("exchanges: got %d, want 1", exchanges)
	}
}

// TestE2E_Discovery advertises a bridge via mDNS and finds it by browsing.
func TestE2E_Discovery(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	advertiser := discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{})
	info := &discovery.BridgeInfo{
		InstanceName: "ecsim-e2e",
		Device:       device.CanonicalName,
		Board:        "testboard",
		Port:         9400,
	}
	if err := advertiser.Advertise(ctx, info); err != nil {
		t.Fatalf("Failed to advertise: %v", err)
	}
	defer advertiser.Stop()

	// Give mDNS time to propagate
	time.Sleep(500 * time.Millisecond)

	browser := discovery.NewMDNSBrowser(discovery.BrowserConfig{})
	browseCtx, browseCancel := context.WithTimeout(ctx, 5*time.Second)
	defer browseCancel()

	services, err := browser.Browse(browseCtx)
	if err != nil {
		t.Fatalf("Failed to browse: %v", err)
	}

	for svc := range services {
		if svc.InstanceName != "ecsim-e2e" {
			continue
		}
		if svc.Device != device.CanonicalName {
			t.Errorf("device TXT: got %q", svc.Device)
		}
		if svc.Board != "testboard" {
			t.Errorf("board TXT: got %q", svc.Board)
		}
		if svc.Port != 9400 {
			t.Errorf("port: got %d", svc.Port)
		}
		return
	}
	t.Fatal("bridge endpoint not discovered")
}
