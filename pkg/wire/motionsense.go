package wire

import (
	"encoding/binary"
	"fmt"
)

// MotionSenseOp is the sub-opcode of a MOTION_SENSE command. One command
// code multiplexes many motion-sensor operations; the sub-opcode selects
// which one.
type MotionSenseOp uint8

// MotionSenseKBWakeAngle reads or sets the lid angle at which the
// keyboard wakes the system.
const MotionSenseKBWakeAngle MotionSenseOp = 5

// MotionSenseVersion is the MOTION_SENSE command version this module speaks.
const MotionSenseVersion = 2

// MotionSenseNoValue is the sentinel argument meaning "query the current
// value, do not modify". Any other in-range value is a set request whose
// response echoes the updated value.
const MotionSenseNoValue int16 = -1

// MotionSenseParamsSize is the encoded size of MotionSenseParams.
const MotionSenseParamsSize = 3

// MotionSenseParams is the MOTION_SENSE parameter block for scalar
// sub-opcodes such as kb-wake-angle.
type MotionSenseParams struct {
	Op MotionSenseOp

	// Data is the sub-opcode argument: for kb-wake-angle the angle in
	// degrees to set, or MotionSenseNoValue to read without modifying.
	Data int16
}

// Encode returns the fixed-layout encoding of the parameters.
func (p *MotionSenseParams) Encode() []byte {
	buf := make([]byte, MotionSenseParamsSize)
	buf[0] = byte(p.Op)
	binary.LittleEndian.PutUint16(buf[1:], uint16(p.Data))
	return buf
}

// DecodeMotionSenseParams parses a MOTION_SENSE parameter block.
func DecodeMotionSenseParams(data []byte) (*MotionSenseParams, error) {
	if len(data) < MotionSenseParamsSize {
		return nil, fmt.Errorf("motion sense params: %w: %d < %d", ErrPacketTruncated, len(data), MotionSenseParamsSize)
	}
	return &MotionSenseParams{
		Op:   MotionSenseOp(data[0]),
		Data: int16(binary.LittleEndian.Uint16(data[1:])),
	}, nil
}

// MotionSenseResponseSize is the encoded size of MotionSenseResponse.
const MotionSenseResponseSize = 2

// MotionSenseResponse is the MOTION_SENSE response payload for scalar
// sub-opcodes. For kb-wake-angle Ret is the current (or just-updated)
// angle in degrees.
type MotionSenseResponse struct {
	Ret int16
}

// Encode returns the fixed-layout encoding of the response.
func (r *MotionSenseResponse) Encode() []byte {
	buf := make([]byte, MotionSenseResponseSize)
	binary.LittleEndian.PutUint16(buf, uint16(r.Ret))
	return buf
}

// DecodeMotionSenseResponse parses a MOTION_SENSE response payload.
func DecodeMotionSenseResponse(data []byte) (*MotionSenseResponse, error) {
	if len(data) < MotionSenseResponseSize {
		return nil, fmt.Errorf("motion sense response: %w: %d < %d", ErrPacketTruncated, len(data), MotionSenseResponseSize)
	}
	return &MotionSenseResponse{
		Ret: int16(binary.LittleEndian.Uint16(data)),
	}, nil
}
