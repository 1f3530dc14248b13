package ecsim

import "github.com/echost-protocol/echost-go/pkg/wire"

// Port configures the mux routing state of one simulated USB-PD port.
type Port struct {
	USB              bool `yaml:"usb"`
	DP               bool `yaml:"dp"`
	PolarityInverted bool `yaml:"polarity_inverted"`
	HPDIRQ           bool `yaml:"hpd_irq"`
	HPDLevel         bool `yaml:"hpd_level"`
	SafeMode         bool `yaml:"safe_mode"`
	TBT              bool `yaml:"tbt"`
	USB4             bool `yaml:"usb4"`
}

// Flags returns the port state as wire mux flags.
func (p Port) Flags() wire.MuxFlags {
	var f wire.MuxFlags
	set := func(on bool, bit wire.MuxFlags) {
		if on {
			f |= bit
		}
	}
	set(p.USB, wire.MuxUSBEnabled)
	set(p.DP, wire.MuxDPEnabled)
	set(p.PolarityInverted, wire.MuxPolarityInverted)
	set(p.HPDIRQ, wire.MuxHPDIRQ)
	set(p.HPDLevel, wire.MuxHPDLevel)
	set(p.SafeMode, wire.MuxSafeMode)
	set(p.TBT, wire.MuxTBTCompat)
	set(p.USB4, wire.MuxUSB4)
	return f
}

// Flash configures the simulated flash geometry.
type Flash struct {
	Size         uint32 `yaml:"size"`
	WriteBlock   uint32 `yaml:"write_block"`
	EraseBlock   uint32 `yaml:"erase_block"`
	ProtectBlock uint32 `yaml:"protect_block"`
}

// Config describes the state of a simulated EC.
type Config struct {
	ROVersion    string `yaml:"ro_version"`
	RWVersion    string `yaml:"rw_version"`
	Image        string `yaml:"image"` // "unknown", "RO" or "RW"
	BuildInfo    string `yaml:"build_info"`
	ChipVendor   string `yaml:"chip_vendor"`
	ChipName     string `yaml:"chip_name"`
	ChipRevision string `yaml:"chip_revision"`
	BoardVersion uint16 `yaml:"board_version"`
	Flash        Flash  `yaml:"flash"`

	// MotionSense enables the motion-sense feature and the keyboard
	// wake-angle sub-command.
	MotionSense bool `yaml:"motion_sense"`

	// WakeAngle is the initial keyboard wake angle in degrees.
	WakeAngle int16 `yaml:"wake_angle"`

	// RequireAPModeEntry sets the Type-C AP-driven mode-entry feature.
	RequireAPModeEntry bool `yaml:"require_ap_mode_entry"`

	// Ports are the simulated USB-PD ports, in port order.
	Ports []Port `yaml:"ports"`
}

// DefaultConfig returns a simulated EC resembling a typical laptop
// controller: two USB-PD ports, motion sense, RW image running.
func DefaultConfig() Config {
	return Config{
		ROVersion:    "ecsim_v0.0.1-ro",
		RWVersion:    "ecsim_v0.0.1-rw",
		Image:        "RW",
		BuildInfo:    "ecsim_v0.0.1 2026-08-26 sim-builder",
		ChipVendor:   "simvendor",
		ChipName:     "simchip",
		ChipRevision: "A1",
		BoardVersion: 3,
		Flash: Flash{
			Size:         512 * 1024,
			WriteBlock:   4,
			EraseBlock:   4096,
			ProtectBlock: 4096,
		},
		MotionSense: true,
		WakeAngle:   180,
		Ports: []Port{
			{USB: true},
			{USB: true, DP: true, HPDLevel: true},
		},
	}
}

// image returns the configured running image.
func (c Config) image() wire.Image {
	switch c.Image {
	case "RO":
		return wire.ImageRO
	case "RW":
		return wire.ImageRW
	default:
		return wire.ImageUnknown
	}
}

// featureSet returns the configured capability bitmap.
func (c Config) featureSet() wire.FeatureSet {
	var features []wire.Feature
	if c.MotionSense {
		features = append(features, wire.FeatureMotionSense)
	}
	if c.RequireAPModeEntry {
		features = append(features, wire.FeatureTypeCRequireAPModeEntry)
	}
	return wire.NewFeatureSet(features...)
}
