package wire

// Command is an EC host command code.
type Command uint16

// Host command codes used by this module.
const (
	// CmdGetVersion returns the RO/RW version strings and the running image.
	CmdGetVersion Command = 0x0002

	// CmdGetBuildInfo returns the free-form firmware build string.
	CmdGetBuildInfo Command = 0x0004

	// CmdGetChipInfo returns chip vendor, name and revision.
	CmdGetChipInfo Command = 0x0005

	// CmdGetBoardVersion returns the numeric board revision.
	CmdGetBoardVersion Command = 0x0006

	// CmdGetFeatures returns the device capability bitmap.
	CmdGetFeatures Command = 0x000D

	// CmdFlashInfo returns the flash geometry.
	CmdFlashInfo Command = 0x0010

	// CmdMotionSense multiplexes motion-sensor operations through a
	// sub-opcode in the parameter block.
	CmdMotionSense Command = 0x002B

	// CmdRebootEC requests an EC reboot or image jump.
	CmdRebootEC Command = 0x00D2

	// CmdUSBPDPorts returns the number of USB-PD ports.
	CmdUSBPDPorts Command = 0x0102

	// CmdUSBPDMuxInfo returns the mux routing flags for one port.
	CmdUSBPDMuxInfo Command = 0x011A
)

// PassthruOffset is the command-code offset applied per logical EC
// instance when one physical link multiplexes several controllers.
// Instance n uses codes Cmd* + n*PassthruOffset.
const PassthruOffset Command = 0x4000

// HostParamSize is the maximum parameter or response block size for a
// single host command.
const HostParamSize = 252

// String returns the command name for known codes.
func (c Command) String() string {
	// Strip any passthru offset so multiplexed instances render the
	// same name as instance 0.
	switch c % PassthruOffset {
	case CmdGetVersion:
		return "GET_VERSION"
	case CmdGetBuildInfo:
		return "GET_BUILD_INFO"
	case CmdGetChipInfo:
		return "GET_CHIP_INFO"
	case CmdGetBoardVersion:
		return "GET_BOARD_VERSION"
	case CmdGetFeatures:
		return "GET_FEATURES"
	case CmdFlashInfo:
		return "FLASH_INFO"
	case CmdMotionSense:
		return "MOTION_SENSE"
	case CmdRebootEC:
		return "REBOOT_EC"
	case CmdUSBPDPorts:
		return "USB_PD_PORTS"
	case CmdUSBPDMuxInfo:
		return "USB_PD_MUX_INFO"
	default:
		return "UNKNOWN"
	}
}
