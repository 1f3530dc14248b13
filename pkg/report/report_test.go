package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/echost-protocol/echost-go/pkg/device"
	"github.com/echost-protocol/echost-go/pkg/ecsim"
	"github.com/echost-protocol/echost-go/pkg/host"
	"github.com/echost-protocol/echost-go/pkg/wire"
)

func testSim(t *testing.T) (*ecsim.Simulator, device.Descriptor) {
	t.Helper()
	cfg := ecsim.DefaultConfig()
	cfg.ROVersion = "board_v1.0.1-ro"
	cfg.RWVersion = "board_v1.0.2-rw"
	cfg.Image = "RW"
	cfg.BuildInfo = "board_v1.0.2 2026-08-01 builder"
	cfg.ChipVendor = "acme"
	cfg.ChipName = "ec9000"
	cfg.ChipRevision = "B2"
	cfg.BoardVersion = 7
	sim := ecsim.New(cfg)

	dev, err := host.Probe(sim, device.CanonicalName, 0)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	return sim, dev
}

func TestVersionReport(t *testing.T) {
	sim, dev := testSim(t)

	out, err := Version(sim, dev)
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}

	want := "RO version:    board_v1.0.1-ro\n" +
		"RW version:    board_v1.0.2-rw\n" +
		"Firmware copy: RW\n" +
		"Build info:    board_v1.0.2 2026-08-01 builder\n" +
		"Chip vendor:   acme\n" +
		"Chip name:     ec9000\n" +
		"Chip revision: B2\n" +
		"Board version: 7\n"
	if out != want {
		t.Errorf("report:\ngot:\n%s\nwant:\n%s", out, want)
	}
}

func TestVersionReportLeadingQueryAborts(t *testing.T) {
	sim, dev := testSim(t)
	sim.FailResult(wire.CmdGetVersion, wire.ResultBusy)

	if _, err := Version(sim, dev); err == nil {
		t.Fatal("expected failure when the version query fails")
	}
}

func TestVersionReportToleratesFieldFailures(t *testing.T) {
	sim, dev := testSim(t)
	sim.FailResult(wire.CmdGetChipInfo, wire.ResultUnavailable)
	sim.FailTransfer(wire.CmdGetBoardVersion, host.CodeTimeout)

	out, err := Version(sim, dev)
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}

	// Leading fields stay verbatim.
	if !strings.HasPrefix(out, "RO version:    board_v1.0.1-ro\n") {
		t.Errorf("RO line missing: %q", out)
	}
	if !strings.Contains(out, "Build info:    board_v1.0.2 2026-08-01 builder\n") {
		t.Errorf("build info line missing: %q", out)
	}

	// A device failure annotates with the result code, a transfer
	// failure with the transfer code.
	if !strings.Contains(out, "Chip info:     XFER / EC ERROR 0 / 9\n") {
		t.Errorf("chip annotation missing: %q", out)
	}
	if !strings.Contains(out, "Board version: XFER / EC ERROR -2 / 0\n") {
		t.Errorf("board annotation missing: %q", out)
	}
	if strings.Contains(out, "Chip vendor:") {
		t.Errorf("failed chip query still rendered fields: %q", out)
	}
}

func TestFlashInfoReport(t *testing.T) {
	sim, dev := testSim(t)

	out, err := FlashInfo(sim, dev)
	if err != nil {
		t.Fatalf("FlashInfo failed: %v", err)
	}

	want := "FlashSize 524288\nWriteSize 4\nEraseSize 4096\nProtectSize 4096\n"
	if out != want {
		t.Errorf("report: got %q, want %q", out, want)
	}
}

func TestFlashInfoReportFails(t *testing.T) {
	sim, dev := testSim(t)
	sim.FailResult(wire.CmdFlashInfo, wire.ResultAccessDenied)

	if _, err := FlashInfo(sim, dev); err == nil {
		t.Fatal("expected failure")
	}
}

func TestUSBPDMuxReport(t *testing.T) {
	cfg := ecsim.DefaultConfig()
	cfg.Ports = []ecsim.Port{
		{USB: true},
		{USB: true, DP: true, PolarityInverted: true, HPDLevel: true},
		{SafeMode: true, TBT: true, USB4: true},
	}
	sim := ecsim.New(cfg)
	dev, err := host.Probe(sim, device.CanonicalName, 0)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	out, err := USBPDMux(sim, dev)
	if err != nil {
		t.Fatalf("USBPDMux failed: %v", err)
	}

	want := "Port 0: USB=1 DP=0 POLARITY=NORMAL HPD_IRQ=0 HPD_LVL=0 SAFE=0 TBT=0 USB4=0\n" +
		"Port 1: USB=1 DP=1 POLARITY=INVERTED HPD_IRQ=0 HPD_LVL=1 SAFE=0 TBT=0 USB4=0\n" +
		"Port 2: USB=0 DP=0 POLARITY=NORMAL HPD_IRQ=0 HPD_LVL=0 SAFE=1 TBT=1 USB4=1\n"
	if out != want {
		t.Errorf("report:\ngot:\n%s\nwant:\n%s", out, want)
	}
}

func TestUSBPDMuxReportOmitsFailedPorts(t *testing.T) {
	cfg := ecsim.DefaultConfig()
	cfg.Ports = []ecsim.Port{{USB: true}, {DP: true}, {USB4: true}}
	sim := ecsim.New(cfg)
	sim.FailMuxPort(1, wire.ResultTimeout)
	dev, err := host.Probe(sim, device.CanonicalName, 0)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	out, err := USBPDMux(sim, dev)
	if err != nil {
		t.Fatalf("USBPDMux failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: got %d, want 2\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Port 0:") || !strings.HasPrefix(lines[1], "Port 2:") {
		t.Errorf("wrong ports or order:\n%s", out)
	}
}

func TestUSBPDMuxReportAllPortsFailed(t *testing.T) {
	cfg := ecsim.DefaultConfig()
	cfg.Ports = []ecsim.Port{{USB: true}, {DP: true}}
	sim := ecsim.New(cfg)
	sim.FailMuxPort(0, wire.ResultError)
	sim.FailMuxPort(1, wire.ResultError)
	dev, err := host.Probe(sim, device.CanonicalName, 0)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	if _, err := USBPDMux(sim, dev); !errors.Is(err, ErrNoMuxInfo) {
		t.Errorf("error: got %v, want ErrNoMuxInfo", err)
	}
}

func TestUSBPDMuxReportPortCountQueryFails(t *testing.T) {
	sim, dev := testSim(t)
	sim.FailTransfer(wire.CmdUSBPDPorts, host.CodeLinkError)

	if _, err := USBPDMux(sim, dev); err == nil {
		t.Fatal("expected failure when the port count query fails")
	}
}

func TestAPModeEntry(t *testing.T) {
	tests := []struct {
		name     string
		features wire.FeatureSet
		want     string
	}{
		{
			name:     "required",
			features: wire.NewFeatureSet(wire.FeatureTypeCRequireAPModeEntry),
			want:     "yes\n",
		},
		{
			name: "not required",
			want: "no\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := device.Descriptor{Name: device.CanonicalName, Features: tt.features}
			if got := APModeEntry(dev); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
