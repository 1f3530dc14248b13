package log

import "time"

// Event represents one protocol capture record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ChannelID uniquely identifies the channel or connection (UUID).
	ChannelID string `cbor:"2,keyasint"`

	// Direction indicates packet flow relative to the host.
	Direction Direction `cbor:"3,keyasint"`

	// Device is the device name this traffic belongs to, if known.
	Device string `cbor:"4,keyasint,omitempty"`

	// Type-specific payload (exactly one is set).
	Frame    *FrameEvent    `cbor:"5,keyasint,omitempty"` // Raw framed packet
	Exchange *ExchangeEvent `cbor:"6,keyasint,omitempty"` // Completed transaction
	Error    *ErrorEvent    `cbor:"7,keyasint,omitempty"` // Transport failure
}

// Direction indicates the direction of packet flow.
type Direction uint8

const (
	// DirectionIn is EC-to-host (a response packet).
	DirectionIn Direction = 0
	// DirectionOut is host-to-EC (a request packet).
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// MaxFrameDataSize is the largest frame payload carried in an event.
// Larger payloads are truncated to bound capture file growth.
const MaxFrameDataSize = 4096

// FrameEvent captures one raw framed packet on the transport.
type FrameEvent struct {
	// Size is the full packet size in bytes, including the header.
	Size int `cbor:"1,keyasint"`

	// Data is the packet payload, possibly truncated.
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates Data was cut at MaxFrameDataSize.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// ExchangeEvent captures one completed host-command transaction.
type ExchangeEvent struct {
	// Command is the command code as sent, offset included.
	Command uint16 `cbor:"1,keyasint"`

	// Version is the command version.
	Version uint8 `cbor:"2,keyasint"`

	// OutSize is the parameter block size.
	OutSize int `cbor:"3,keyasint"`

	// InSize is the response payload size actually received.
	InSize int `cbor:"4,keyasint"`

	// Result is the device-reported result code.
	Result uint16 `cbor:"5,keyasint"`

	// Duration is the wall time of the transaction.
	Duration time.Duration `cbor:"6,keyasint,omitempty"`
}

// ErrorEvent captures a transport-layer failure.
type ErrorEvent struct {
	// Code is the transfer-layer diagnostic code.
	Code int `cbor:"1,keyasint"`

	// Message is the error text.
	Message string `cbor:"2,keyasint,omitempty"`
}

// NewFrameEvent builds a FrameEvent for a packet payload, truncating
// oversized data.
func NewFrameEvent(packet []byte) *FrameEvent {
	fe := &FrameEvent{Size: len(packet), Data: packet}
	if len(packet) > MaxFrameDataSize {
		fe.Data = packet[:MaxFrameDataSize]
		fe.Truncated = true
	}
	return fe
}
