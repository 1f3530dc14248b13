package registry

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/echost-protocol/echost-go/pkg/device"
	"github.com/echost-protocol/echost-go/pkg/ecsim"
	"github.com/echost-protocol/echost-go/pkg/host"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		c, err := Lookup(name)
		if err != nil {
			t.Errorf("Lookup(%q) failed: %v", name, err)
			continue
		}
		if c.Name != name {
			t.Errorf("Lookup(%q) returned %q", name, c.Name)
		}
	}

	if _, err := Lookup("nonexistent"); !errors.Is(err, ErrUnknownCapability) {
		t.Errorf("error: got %v, want ErrUnknownCapability", err)
	}
}

func TestVisible(t *testing.T) {
	tests := []struct {
		name string
		dev  device.Descriptor
		want []string
	}{
		{
			name: "full canonical device",
			dev: device.Descriptor{
				Name:           device.CanonicalName,
				HasKBWakeAngle: true,
			},
			want: []string{"ap_mode_entry", "flashinfo", "kb_wake_angle", "reboot", "usbpdmuxinfo", "version"},
		},
		{
			name: "canonical device without wake angle",
			dev:  device.Descriptor{Name: device.CanonicalName},
			want: []string{"ap_mode_entry", "flashinfo", "reboot", "usbpdmuxinfo", "version"},
		},
		{
			name: "passthru sensor hub",
			dev:  device.Descriptor{Name: "cros_sh"},
			want: []string{"flashinfo", "reboot", "version"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Visible(tt.dev)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Visible: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnavailableCapabilityNeverAttempted(t *testing.T) {
	// Guarded surfaces on a non-canonical device fail without touching
	// the channel; a nil channel would panic if they did.
	dev := device.Descriptor{Name: "cros_fp"}

	for _, name := range []string{"usbpdmuxinfo", "ap_mode_entry"} {
		c, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", name, err)
		}
		if _, err := c.Show(nil, dev); !errors.Is(err, host.ErrUnavailable) {
			t.Errorf("%s: got %v, want ErrUnavailable", name, err)
		}
	}

	c, err := Lookup("kb_wake_angle")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if err := c.Store(nil, dev, "45"); !errors.Is(err, host.ErrUnavailable) {
		t.Errorf("kb_wake_angle store: got %v, want ErrUnavailable", err)
	}
}

func TestRebootShowReturnsUsage(t *testing.T) {
	c, err := Lookup("reboot")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	out, err := c.Show(nil, device.Descriptor{Name: device.CanonicalName})
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if out != RebootUsage+"\n" {
		t.Errorf("got %q, want usage string", out)
	}
}

func TestReadOnlyCapabilityRejectsStore(t *testing.T) {
	c, err := Lookup("version")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if c.CanStore() {
		t.Error("version reports CanStore")
	}
	if err := c.Store(nil, device.Descriptor{Name: device.CanonicalName}, "x"); err == nil {
		t.Error("store on read-only capability succeeded")
	}
}

func TestCapabilityEndToEnd(t *testing.T) {
	sim := ecsim.New(ecsim.DefaultConfig())
	dev, err := host.Probe(sim, device.CanonicalName, 0)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	wa, err := Lookup("kb_wake_angle")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if err := wa.Store(sim, dev, "75"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	out, err := wa.Show(sim, dev)
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if out != "75\n" {
		t.Errorf("wake angle report: got %q, want \"75\\n\"", out)
	}

	ver, err := Lookup("version")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	report, err := ver.Show(sim, dev)
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if !strings.Contains(report, "RO version:") {
		t.Errorf("version report missing RO line: %q", report)
	}
}
