package wire

import "fmt"

// MuxFlags is the USB Type-C alternate-mode routing state of one port.
type MuxFlags uint8

const (
	// MuxUSBEnabled indicates USB data routing is enabled.
	MuxUSBEnabled MuxFlags = 1 << 0

	// MuxDPEnabled indicates DisplayPort alternate mode is enabled.
	MuxDPEnabled MuxFlags = 1 << 1

	// MuxPolarityInverted indicates the CC polarity is inverted.
	MuxPolarityInverted MuxFlags = 1 << 2

	// MuxHPDIRQ indicates a hot-plug-detect interrupt is pending.
	MuxHPDIRQ MuxFlags = 1 << 3

	// MuxHPDLevel is the hot-plug-detect level signal.
	MuxHPDLevel MuxFlags = 1 << 4

	// MuxSafeMode indicates the mux is in safe mode.
	MuxSafeMode MuxFlags = 1 << 5

	// MuxTBTCompat indicates Thunderbolt-compatible mode is enabled.
	MuxTBTCompat MuxFlags = 1 << 6

	// MuxUSB4 indicates USB4 mode is enabled.
	MuxUSB4 MuxFlags = 1 << 7
)

// Has returns true if all bits in f are set.
func (m MuxFlags) Has(f MuxFlags) bool {
	return m&f == f
}

// PDPortsResponseSize is the encoded size of PDPortsResponse.
const PDPortsResponseSize = 1

// PDPortsResponse is the USB_PD_PORTS response payload.
type PDPortsResponse struct {
	NumPorts uint8
}

// Encode returns the fixed-layout encoding of the response.
func (r *PDPortsResponse) Encode() []byte {
	return []byte{r.NumPorts}
}

// DecodePDPortsResponse parses a USB_PD_PORTS response payload.
func DecodePDPortsResponse(data []byte) (*PDPortsResponse, error) {
	if len(data) < PDPortsResponseSize {
		return nil, fmt.Errorf("pd ports response: %w: %d < %d", ErrPacketTruncated, len(data), PDPortsResponseSize)
	}
	return &PDPortsResponse{NumPorts: data[0]}, nil
}

// PDMuxInfoParamsSize is the encoded size of PDMuxInfoParams.
const PDMuxInfoParamsSize = 1

// PDMuxInfoParams is the USB_PD_MUX_INFO parameter block.
type PDMuxInfoParams struct {
	Port uint8
}

// Encode returns the fixed-layout encoding of the parameters.
func (p *PDMuxInfoParams) Encode() []byte {
	return []byte{p.Port}
}

// DecodePDMuxInfoParams parses a USB_PD_MUX_INFO parameter block.
func DecodePDMuxInfoParams(data []byte) (*PDMuxInfoParams, error) {
	if len(data) < PDMuxInfoParamsSize {
		return nil, fmt.Errorf("pd mux info params: %w: %d < %d", ErrPacketTruncated, len(data), PDMuxInfoParamsSize)
	}
	return &PDMuxInfoParams{Port: data[0]}, nil
}

// PDMuxInfoResponseSize is the encoded size of PDMuxInfoResponse.
const PDMuxInfoResponseSize = 1

// PDMuxInfoResponse is the USB_PD_MUX_INFO response payload.
type PDMuxInfoResponse struct {
	Flags MuxFlags
}

// Encode returns the fixed-layout encoding of the response.
func (r *PDMuxInfoResponse) Encode() []byte {
	return []byte{byte(r.Flags)}
}

// DecodePDMuxInfoResponse parses a USB_PD_MUX_INFO response payload.
func DecodePDMuxInfoResponse(data []byte) (*PDMuxInfoResponse, error) {
	if len(data) < PDMuxInfoResponseSize {
		return nil, fmt.Errorf("pd mux info response: %w: %d < %d", ErrPacketTruncated, len(data), PDMuxInfoResponseSize)
	}
	return &PDMuxInfoResponse{Flags: MuxFlags(data[0])}, nil
}
