package wire

import (
	"encoding/binary"
	"fmt"
)

// Image identifies which firmware copy the EC is running.
type Image uint32

const (
	// ImageUnknown indicates the running image could not be determined.
	ImageUnknown Image = 0

	// ImageRO is the read-only (boot) image.
	ImageRO Image = 1

	// ImageRW is the rewritable image.
	ImageRW Image = 2
)

// String returns the image name, or "?" for out-of-range values.
func (i Image) String() string {
	switch i {
	case ImageUnknown:
		return "unknown"
	case ImageRO:
		return "RO"
	case ImageRW:
		return "RW"
	default:
		return "?"
	}
}

// Fixed-size string field width in version and chip-info responses.
const ecStringSize = 32

// Payload sizes.
const (
	VersionResponseSize      = 3*ecStringSize + 4
	ChipInfoResponseSize     = 3 * ecStringSize
	BoardVersionResponseSize = 2
	FlashInfoResponseSize    = 16
)

// VersionResponse is the GET_VERSION response payload.
type VersionResponse struct {
	VersionStringRO [ecStringSize]byte
	VersionStringRW [ecStringSize]byte
	Reserved        [ecStringSize]byte
	CurrentImage    Image
}

// Encode returns the fixed-layout encoding of the response.
func (r *VersionResponse) Encode() []byte {
	buf := make([]byte, VersionResponseSize)
	copy(buf[0:], r.VersionStringRO[:])
	copy(buf[ecStringSize:], r.VersionStringRW[:])
	copy(buf[2*ecStringSize:], r.Reserved[:])
	binary.LittleEndian.PutUint32(buf[3*ecStringSize:], uint32(r.CurrentImage))
	return buf
}

// DecodeVersionResponse parses a GET_VERSION response payload.
func DecodeVersionResponse(data []byte) (*VersionResponse, error) {
	if len(data) < VersionResponseSize {
		return nil, fmt.Errorf("version response: %w: %d < %d", ErrPacketTruncated, len(data), VersionResponseSize)
	}
	r := &VersionResponse{}
	copy(r.VersionStringRO[:], data[0:])
	copy(r.VersionStringRW[:], data[ecStringSize:])
	copy(r.Reserved[:], data[2*ecStringSize:])
	r.CurrentImage = Image(binary.LittleEndian.Uint32(data[3*ecStringSize:]))
	return r, nil
}

// ChipInfoResponse is the GET_CHIP_INFO response payload.
type ChipInfoResponse struct {
	Vendor   [ecStringSize]byte
	Name     [ecStringSize]byte
	Revision [ecStringSize]byte
}

// Encode returns the fixed-layout encoding of the response.
func (r *ChipInfoResponse) Encode() []byte {
	buf := make([]byte, ChipInfoResponseSize)
	copy(buf[0:], r.Vendor[:])
	copy(buf[ecStringSize:], r.Name[:])
	copy(buf[2*ecStringSize:], r.Revision[:])
	return buf
}

// DecodeChipInfoResponse parses a GET_CHIP_INFO response payload.
func DecodeChipInfoResponse(data []byte) (*ChipInfoResponse, error) {
	if len(data) < ChipInfoResponseSize {
		return nil, fmt.Errorf("chip info response: %w: %d < %d", ErrPacketTruncated, len(data), ChipInfoResponseSize)
	}
	r := &ChipInfoResponse{}
	copy(r.Vendor[:], data[0:])
	copy(r.Name[:], data[ecStringSize:])
	copy(r.Revision[:], data[2*ecStringSize:])
	return r, nil
}

// BoardVersionResponse is the GET_BOARD_VERSION response payload.
type BoardVersionResponse struct {
	BoardVersion uint16
}

// Encode returns the fixed-layout encoding of the response.
func (r *BoardVersionResponse) Encode() []byte {
	buf := make([]byte, BoardVersionResponseSize)
	binary.LittleEndian.PutUint16(buf, r.BoardVersion)
	return buf
}

// DecodeBoardVersionResponse parses a GET_BOARD_VERSION response payload.
func DecodeBoardVersionResponse(data []byte) (*BoardVersionResponse, error) {
	if len(data) < BoardVersionResponseSize {
		return nil, fmt.Errorf("board version response: %w: %d < %d", ErrPacketTruncated, len(data), BoardVersionResponseSize)
	}
	return &BoardVersionResponse{
		BoardVersion: binary.LittleEndian.Uint16(data),
	}, nil
}

// FlashInfoResponse is the FLASH_INFO response payload.
type FlashInfoResponse struct {
	FlashSize        uint32
	WriteBlockSize   uint32
	EraseBlockSize   uint32
	ProtectBlockSize uint32
}

// Encode returns the fixed-layout encoding of the response.
func (r *FlashInfoResponse) Encode() []byte {
	buf := make([]byte, FlashInfoResponseSize)
	binary.LittleEndian.PutUint32(buf[0:], r.FlashSize)
	binary.LittleEndian.PutUint32(buf[4:], r.WriteBlockSize)
	binary.LittleEndian.PutUint32(buf[8:], r.EraseBlockSize)
	binary.LittleEndian.PutUint32(buf[12:], r.ProtectBlockSize)
	return buf
}

// DecodeFlashInfoResponse parses a FLASH_INFO response payload.
func DecodeFlashInfoResponse(data []byte) (*FlashInfoResponse, error) {
	if len(data) < FlashInfoResponseSize {
		return nil, fmt.Errorf("flash info response: %w: %d < %d", ErrPacketTruncated, len(data), FlashInfoResponseSize)
	}
	return &FlashInfoResponse{
		FlashSize:        binary.LittleEndian.Uint32(data[0:]),
		WriteBlockSize:   binary.LittleEndian.Uint32(data[4:]),
		EraseBlockSize:   binary.LittleEndian.Uint32(data[8:]),
		ProtectBlockSize: binary.LittleEndian.Uint32(data[12:]),
	}, nil
}

// SetECString copies s into a fixed-size EC string field, truncating if
// needed and always leaving a NUL terminator in the final byte.
func SetECString(dst []byte, s string) {
	n := copy(dst, s)
	if n == len(dst) {
		n--
	}
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}
