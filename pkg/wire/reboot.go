package wire

import "fmt"

// RebootMode selects what a REBOOT_EC command does.
type RebootMode uint8

const (
	// RebootCancel cancels a pending reboot request.
	RebootCancel RebootMode = 0

	// RebootJumpRO jumps to the read-only image without rebooting.
	RebootJumpRO RebootMode = 1

	// RebootJumpRW jumps to the rewritable image without rebooting.
	RebootJumpRW RebootMode = 2

	// RebootCold performs a cold reboot of the EC.
	RebootCold RebootMode = 4

	// RebootDisableJump disables image jumps until the next reboot.
	RebootDisableJump RebootMode = 5

	// RebootHibernate puts the EC into hibernation.
	RebootHibernate RebootMode = 6

	// RebootColdAPOff cold-reboots the EC and leaves the AP off.
	RebootColdAPOff RebootMode = 8
)

// String returns the reboot mode name.
func (m RebootMode) String() string {
	switch m {
	case RebootCancel:
		return "CANCEL"
	case RebootJumpRO:
		return "JUMP_RO"
	case RebootJumpRW:
		return "JUMP_RW"
	case RebootCold:
		return "COLD"
	case RebootDisableJump:
		return "DISABLE_JUMP"
	case RebootHibernate:
		return "HIBERNATE"
	case RebootColdAPOff:
		return "COLD_AP_OFF"
	default:
		return "UNKNOWN"
	}
}

// RebootFlags modify a REBOOT_EC command. Flags are additive and
// independent of the mode.
type RebootFlags uint8

// RebootFlagOnAPShutdown defers the reboot until the AP shuts down.
const RebootFlagOnAPShutdown RebootFlags = 0x02

// RebootParamsSize is the encoded size of RebootParams.
const RebootParamsSize = 2

// RebootParams is the REBOOT_EC parameter block.
type RebootParams struct {
	Cmd   RebootMode
	Flags RebootFlags
}

// Encode returns the fixed-layout encoding of the parameters.
func (p *RebootParams) Encode() []byte {
	return []byte{byte(p.Cmd), byte(p.Flags)}
}

// DecodeRebootParams parses a REBOOT_EC parameter block.
func DecodeRebootParams(data []byte) (*RebootParams, error) {
	if len(data) < RebootParamsSize {
		return nil, fmt.Errorf("reboot params: %w: %d < %d", ErrPacketTruncated, len(data), RebootParamsSize)
	}
	return &RebootParams{
		Cmd:   RebootMode(data[0]),
		Flags: RebootFlags(data[1]),
	}, nil
}
