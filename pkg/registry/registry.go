package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/echost-protocol/echost-go/pkg/device"
	"github.com/echost-protocol/echost-go/pkg/host"
	"github.com/echost-protocol/echost-go/pkg/report"
)

// ErrUnknownCapability indicates a name the registry does not define.
var ErrUnknownCapability = errors.New("unknown capability")

// Capability is one named operation surface on an EC instance.
type Capability struct {
	// Name is the symbolic capability name.
	Name string

	// available reports whether the device exposes this capability.
	// A nil predicate means always available.
	available func(device.Descriptor) bool

	// show produces the capability's report. Nil for write-only surfaces.
	show func(host.Channel, device.Descriptor) (string, error)

	// store consumes caller text. Nil for read-only surfaces.
	store func(host.Channel, device.Descriptor, string) error
}

// Available reports whether the capability's guard holds for dev.
func (c *Capability) Available(dev device.Descriptor) bool {
	return c.available == nil || c.available(dev)
}

// CanStore reports whether the capability accepts text input.
func (c *Capability) CanStore() bool {
	return c.store != nil
}

// Show runs the capability's read surface. An unavailable capability is
// never attempted.
func (c *Capability) Show(ch host.Channel, dev device.Descriptor) (string, error) {
	if !c.Available(dev) {
		return "", fmt.Errorf("%s: %w", c.Name, host.ErrUnavailable)
	}
	if c.show == nil {
		return "", fmt.Errorf("%s: write-only capability", c.Name)
	}
	return c.show(ch, dev)
}

// Store runs the capability's write surface. An unavailable capability is
// never attempted.
func (c *Capability) Store(ch host.Channel, dev device.Descriptor, input string) error {
	if !c.Available(dev) {
		return fmt.Errorf("%s: %w", c.Name, host.ErrUnavailable)
	}
	if c.store == nil {
		return fmt.Errorf("%s: read-only capability", c.Name)
	}
	return c.store(ch, dev, input)
}

// capabilities is the static capability table. Guards mirror the device
// descriptor: the wake angle requires motion-sense support discovered at
// probe time, and the USB-PD surfaces exist only on the primary EC.
var capabilities = []*Capability{
	{
		Name: "reboot",
		show: func(host.Channel, device.Descriptor) (string, error) {
			return RebootUsage + "\n", nil
		},
		store: Reboot,
	},
	{
		Name: "version",
		show: report.Version,
	},
	{
		Name: "flashinfo",
		show: report.FlashInfo,
	},
	{
		Name:      "kb_wake_angle",
		available: func(dev device.Descriptor) bool { return dev.HasKBWakeAngle },
		show: func(ch host.Channel, dev device.Descriptor) (string, error) {
			angle, err := ReadKBWakeAngle(ch, dev)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d\n", angle), nil
		},
		store: func(ch host.Channel, dev device.Descriptor, input string) error {
			angle, err := ParseWakeAngle(input)
			if err != nil {
				return err
			}
			_, err = SetKBWakeAngle(ch, dev, angle)
			return err
		},
	},
	{
		Name:      "usbpdmuxinfo",
		available: device.Descriptor.IsCanonical,
		show:      report.USBPDMux,
	},
	{
		Name:      "ap_mode_entry",
		available: device.Descriptor.IsCanonical,
		show: func(_ host.Channel, dev device.Descriptor) (string, error) {
			return report.APModeEntry(dev), nil
		},
	},
}

// Lookup resolves a symbolic capability name.
func Lookup(name string) (*Capability, error) {
	for _, c := range capabilities {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCapability, name)
}

// Names returns every capability name, sorted.
func Names() []string {
	names := make([]string, 0, len(capabilities))
	for _, c := range capabilities {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// Visible returns the names of the capabilities whose guards hold for
// dev, sorted.
func Visible(dev device.Descriptor) []string {
	var names []string
	for _, c := range capabilities {
		if c.Available(dev) {
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names
}
