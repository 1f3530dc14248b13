package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// StructVersion is the host packet layout version implemented here.
const StructVersion = 3

// Packet header sizes. Both directions use an 8-byte header followed by
// the payload; the payload length is carried in the header, so packets
// are self-delimiting on a byte stream.
const (
	RequestHeaderSize  = 8
	ResponseHeaderSize = 8
)

// Packet errors.
var (
	// ErrParamsTooLarge indicates a parameter block beyond HostParamSize.
	ErrParamsTooLarge = errors.New("parameter block too large")

	// ErrPacketTruncated indicates a packet shorter than its header claims.
	ErrPacketTruncated = errors.New("packet truncated")

	// ErrBadChecksum indicates a packet checksum mismatch.
	ErrBadChecksum = errors.New("bad packet checksum")

	// ErrBadStructVersion indicates an unsupported packet layout version.
	ErrBadStructVersion = errors.New("unsupported packet struct version")
)

// Request is a single host command to transfer to the EC.
//
// MaxResponse is host-local: it bounds the response payload the caller is
// prepared to accept and is not transmitted on the wire.
type Request struct {
	Command     Command
	Version     uint8
	Params      []byte
	MaxResponse int
}

// Validate checks the request against protocol limits.
func (r *Request) Validate() error {
	if len(r.Params) > HostParamSize {
		return fmt.Errorf("%w: %d > %d", ErrParamsTooLarge, len(r.Params), HostParamSize)
	}
	if r.MaxResponse < 0 || r.MaxResponse > HostParamSize {
		return fmt.Errorf("%w: max response %d > %d", ErrParamsTooLarge, r.MaxResponse, HostParamSize)
	}
	return nil
}

// Response is the EC's answer to a single host command.
type Response struct {
	Result Result
	Data   []byte
}

// checksum returns the two's complement of the 8-bit sum of data, so that
// summing data plus the checksum byte yields zero.
func checksum(data []byte) uint8 {
	var sum uint8
	for _, b := range data {
		sum += b
	}
	return uint8(-int8(sum))
}

// verifyChecksum returns true if the 8-bit sum of data is zero.
func verifyChecksum(data []byte) bool {
	var sum uint8
	for _, b := range data {
		sum += b
	}
	return sum == 0
}

// EncodeRequestPacket encodes a request as a version-3 host packet.
//
// Layout: struct_version(1) checksum(1) command(2 LE) command_version(1)
// reserved(1) data_len(2 LE), then data_len payload bytes.
func EncodeRequestPacket(req *Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pkt := make([]byte, RequestHeaderSize+len(req.Params))
	pkt[0] = StructVersion
	// pkt[1] is the checksum, filled in last.
	binary.LittleEndian.PutUint16(pkt[2:4], uint16(req.Command))
	pkt[4] = req.Version
	pkt[5] = 0
	binary.LittleEndian.PutUint16(pkt[6:8], uint16(len(req.Params)))
	copy(pkt[RequestHeaderSize:], req.Params)

	pkt[1] = checksum(pkt)
	return pkt, nil
}

// DecodeRequestPacket parses and verifies a version-3 request packet.
// The returned request has MaxResponse zero; that field never travels on
// the wire.
func DecodeRequestPacket(pkt []byte) (*Request, error) {
	if len(pkt) < RequestHeaderSize {
		return nil, ErrPacketTruncated
	}
	if pkt[0] != StructVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadStructVersion, pkt[0])
	}

	dataLen := int(binary.LittleEndian.Uint16(pkt[6:8]))
	if dataLen > HostParamSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrParamsTooLarge, dataLen, HostParamSize)
	}
	if len(pkt) < RequestHeaderSize+dataLen {
		return nil, ErrPacketTruncated
	}
	if !verifyChecksum(pkt[:RequestHeaderSize+dataLen]) {
		return nil, ErrBadChecksum
	}

	req := &Request{
		Command: Command(binary.LittleEndian.Uint16(pkt[2:4])),
		Version: pkt[4],
	}
	if dataLen > 0 {
		req.Params = make([]byte, dataLen)
		copy(req.Params, pkt[RequestHeaderSize:])
	}
	return req, nil
}

// EncodeResponsePacket encodes a response as a version-3 host packet.
//
// Layout: struct_version(1) checksum(1) result(2 LE) data_len(2 LE)
// reserved(2), then data_len payload bytes.
func EncodeResponsePacket(resp *Response) ([]byte, error) {
	if len(resp.Data) > HostParamSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrParamsTooLarge, len(resp.Data), HostParamSize)
	}

	pkt := make([]byte, ResponseHeaderSize+len(resp.Data))
	pkt[0] = StructVersion
	// pkt[1] is the checksum, filled in last.
	binary.LittleEndian.PutUint16(pkt[2:4], uint16(resp.Result))
	binary.LittleEndian.PutUint16(pkt[4:6], uint16(len(resp.Data)))
	copy(pkt[ResponseHeaderSize:], resp.Data)

	pkt[1] = checksum(pkt)
	return pkt, nil
}

// DecodeResponsePacket parses and verifies a version-3 response packet.
func DecodeResponsePacket(pkt []byte) (*Response, error) {
	if len(pkt) < ResponseHeaderSize {
		return nil, ErrPacketTruncated
	}
	if pkt[0] != StructVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadStructVersion, pkt[0])
	}

	dataLen := int(binary.LittleEndian.Uint16(pkt[4:6]))
	if dataLen > HostParamSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrParamsTooLarge, dataLen, HostParamSize)
	}
	if len(pkt) < ResponseHeaderSize+dataLen {
		return nil, ErrPacketTruncated
	}
	if !verifyChecksum(pkt[:ResponseHeaderSize+dataLen]) {
		return nil, ErrBadChecksum
	}

	resp := &Response{
		Result: Result(binary.LittleEndian.Uint16(pkt[2:4])),
	}
	if dataLen > 0 {
		resp.Data = make([]byte, dataLen)
		copy(resp.Data, pkt[ResponseHeaderSize:])
	}
	return resp, nil
}
