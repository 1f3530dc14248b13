// Package report renders EC response payloads as text.
//
// Multi-field reports are best effort by design: after the leading query
// succeeds, each remaining field query is independent, and a failing one
// is annotated inline with its transfer and device result codes while the
// report continues. The USB-PD mux report differs deliberately: a port
// whose detail query fails is omitted entirely rather than annotated.
// Numeric error codes are embedded directly in the rendered text for
// diagnostics rather than translated to prose.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/echost-protocol/echost-go/pkg/device"
	"github.com/echost-protocol/echost-go/pkg/host"
	"github.com/echost-protocol/echost-go/pkg/wire"
)

// ErrNoMuxInfo indicates that no port's mux detail query succeeded.
var ErrNoMuxInfo = errors.New("no usb-pd mux info available")

// errorAnnotation renders the inline annotation substituted for a failed
// sub-query: the transfer-layer code and the device result code.
func errorAnnotation(err error) string {
	xfer, result := host.ErrorCodes(err)
	return fmt.Sprintf("XFER / EC ERROR %d / %d", xfer, uint16(result))
}

// Version renders the multi-field version report. The leading version
// query must succeed; build info, chip info and board version are each
// tolerated per-field.
func Version(ch host.Channel, dev device.Descriptor) (string, error) {
	var sb strings.Builder

	// Get versions. RW may change.
	data, err := host.Query(ch, dev, wire.CmdGetVersion, wire.VersionResponseSize)
	if err != nil {
		return "", err
	}
	ver, err := wire.DecodeVersionResponse(data)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "RO version:    %s\n", wire.CString(ver.VersionStringRO[:]))
	fmt.Fprintf(&sb, "RW version:    %s\n", wire.CString(ver.VersionStringRW[:]))
	fmt.Fprintf(&sb, "Firmware copy: %s\n", ver.CurrentImage)

	// Get build info.
	data, err = host.Query(ch, dev, wire.CmdGetBuildInfo, wire.HostParamSize)
	if err != nil {
		fmt.Fprintf(&sb, "Build info:    %s\n", errorAnnotation(err))
	} else {
		fmt.Fprintf(&sb, "Build info:    %s\n", wire.CString(data))
	}

	// Get chip info.
	data, err = host.Query(ch, dev, wire.CmdGetChipInfo, wire.ChipInfoResponseSize)
	if err == nil {
		var chip *wire.ChipInfoResponse
		if chip, err = wire.DecodeChipInfoResponse(data); err == nil {
			fmt.Fprintf(&sb, "Chip vendor:   %s\n", wire.CString(chip.Vendor[:]))
			fmt.Fprintf(&sb, "Chip name:     %s\n", wire.CString(chip.Name[:]))
			fmt.Fprintf(&sb, "Chip revision: %s\n", wire.CString(chip.Revision[:]))
		}
	}
	if err != nil {
		fmt.Fprintf(&sb, "Chip info:     %s\n", errorAnnotation(err))
	}

	// Get board version.
	data, err = host.Query(ch, dev, wire.CmdGetBoardVersion, wire.BoardVersionResponseSize)
	if err == nil {
		var board *wire.BoardVersionResponse
		if board, err = wire.DecodeBoardVersionResponse(data); err == nil {
			fmt.Fprintf(&sb, "Board version: %d\n", board.BoardVersion)
		}
	}
	if err != nil {
		fmt.Fprintf(&sb, "Board version: %s\n", errorAnnotation(err))
	}

	return sb.String(), nil
}

// FlashInfo renders the flash geometry report. The geometry should never
// change, but it is queried each time anyway.
func FlashInfo(ch host.Channel, dev device.Descriptor) (string, error) {
	data, err := host.Query(ch, dev, wire.CmdFlashInfo, wire.FlashInfoResponseSize)
	if err != nil {
		return "", err
	}
	info, err := wire.DecodeFlashInfoResponse(data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("FlashSize %d\nWriteSize %d\nEraseSize %d\nProtectSize %d\n",
		info.FlashSize, info.WriteBlockSize, info.EraseBlockSize, info.ProtectBlockSize), nil
}

// USBPDMux renders one line per USB-PD port whose mux detail query
// succeeds, in ascending port order. The port count query must succeed;
// a port whose detail query fails is omitted. When every port fails the
// report is an error, not an empty success.
func USBPDMux(ch host.Channel, dev device.Descriptor) (string, error) {
	data, err := host.Query(ch, dev, wire.CmdUSBPDPorts, wire.PDPortsResponseSize)
	if err != nil {
		return "", err
	}
	ports, err := wire.DecodePDPortsResponse(data)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 0; i < int(ports.NumPorts); i++ {
		params := wire.PDMuxInfoParams{Port: uint8(i)}
		data, err := host.Execute(ch, dev, wire.CmdUSBPDMuxInfo, 0,
			params.Encode(), wire.PDMuxInfoResponseSize)
		if err != nil {
			continue
		}
		mux, err := wire.DecodePDMuxInfoResponse(data)
		if err != nil {
			continue
		}

		flags := mux.Flags
		fmt.Fprintf(&sb, "Port %d:", i)
		fmt.Fprintf(&sb, " USB=%d", boolInt(flags.Has(wire.MuxUSBEnabled)))
		fmt.Fprintf(&sb, " DP=%d", boolInt(flags.Has(wire.MuxDPEnabled)))
		fmt.Fprintf(&sb, " POLARITY=%s", polarity(flags))
		fmt.Fprintf(&sb, " HPD_IRQ=%d", boolInt(flags.Has(wire.MuxHPDIRQ)))
		fmt.Fprintf(&sb, " HPD_LVL=%d", boolInt(flags.Has(wire.MuxHPDLevel)))
		fmt.Fprintf(&sb, " SAFE=%d", boolInt(flags.Has(wire.MuxSafeMode)))
		fmt.Fprintf(&sb, " TBT=%d", boolInt(flags.Has(wire.MuxTBTCompat)))
		fmt.Fprintf(&sb, " USB4=%d\n", boolInt(flags.Has(wire.MuxUSB4)))
	}

	if sb.Len() == 0 {
		return "", ErrNoMuxInfo
	}
	return sb.String(), nil
}

// APModeEntry renders whether alternate-mode entry must be driven by the
// AP. This is a pure feature-flag read; no exchange is needed.
func APModeEntry(dev device.Descriptor) string {
	if dev.HasFeature(wire.FeatureTypeCRequireAPModeEntry) {
		return "yes\n"
	}
	return "no\n"
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func polarity(flags wire.MuxFlags) string {
	if flags.Has(wire.MuxPolarityInverted) {
		return "INVERTED"
	}
	return "NORMAL"
}
