package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/echost-protocol/echost-go/pkg/wire"
)

// Framing errors.
var (
	// ErrPacketTooLarge indicates a header declaring more payload than
	// the protocol allows.
	ErrPacketTooLarge = errors.New("packet payload too large")

	// ErrStreamTruncated indicates the stream ended mid-packet.
	ErrStreamTruncated = errors.New("stream truncated mid-packet")
)

// readPacket reads one self-delimiting packet: a fixed-size header whose
// little-endian uint16 at lenOffset gives the payload length.
func readPacket(r io.Reader, headerSize, lenOffset int) ([]byte, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.EOF {
			return nil, err
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrStreamTruncated
		}
		return nil, fmt.Errorf("failed to read packet header: %w", err)
	}

	dataLen := int(binary.LittleEndian.Uint16(header[lenOffset:]))
	if dataLen > wire.HostParamSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrPacketTooLarge, dataLen, wire.HostParamSize)
	}

	pkt := make([]byte, headerSize+dataLen)
	copy(pkt, header)
	if dataLen > 0 {
		if _, err := io.ReadFull(r, pkt[headerSize:]); err != nil {
			if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, ErrStreamTruncated
			}
			return nil, fmt.Errorf("failed to read packet payload: %w", err)
		}
	}
	return pkt, nil
}

// ReadRequestPacket reads one raw request packet from the stream.
func ReadRequestPacket(r io.Reader) ([]byte, error) {
	return readPacket(r, wire.RequestHeaderSize, 6)
}

// ReadResponsePacket reads one raw response packet from the stream.
func ReadResponsePacket(r io.Reader) ([]byte, error) {
	return readPacket(r, wire.ResponseHeaderSize, 4)
}

// WritePacket writes one encoded packet to the stream.
func WritePacket(w io.Writer, pkt []byte) error {
	if _, err := w.Write(pkt); err != nil {
		return fmt.Errorf("failed to write packet: %w", err)
	}
	return nil
}
