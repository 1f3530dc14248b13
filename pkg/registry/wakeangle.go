package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/echost-protocol/echost-go/pkg/device"
	"github.com/echost-protocol/echost-go/pkg/host"
	"github.com/echost-protocol/echost-go/pkg/wire"
)

// ReadKBWakeAngle queries the current keyboard wake angle without
// modifying it, using the NoValue sentinel.
func ReadKBWakeAngle(ch host.Channel, dev device.Descriptor) (int16, error) {
	return kbWakeAngle(ch, dev, wire.MotionSenseNoValue)
}

// SetKBWakeAngle sets the keyboard wake angle and returns the value the
// EC acknowledges.
func SetKBWakeAngle(ch host.Channel, dev device.Descriptor, angle uint16) (int16, error) {
	return kbWakeAngle(ch, dev, int16(angle))
}

// kbWakeAngle performs one kb-wake-angle exchange. The response echoes
// the prior value for a query or the updated value for a set.
func kbWakeAngle(ch host.Channel, dev device.Descriptor, data int16) (int16, error) {
	params := wire.MotionSenseParams{
		Op:   wire.MotionSenseKBWakeAngle,
		Data: data,
	}
	respData, err := host.Execute(ch, dev, wire.CmdMotionSense, wire.MotionSenseVersion,
		params.Encode(), wire.MotionSenseResponseSize)
	if err != nil {
		return 0, err
	}
	resp, err := wire.DecodeMotionSenseResponse(respData)
	if err != nil {
		return 0, err
	}
	return resp.Ret, nil
}

// ParseWakeAngle parses the wake-angle text surface: a single unsigned
// 16-bit integer literal in decimal, hex (0x...) or octal (0...).
func ParseWakeAngle(input string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(input), 0, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an unsigned 16-bit value", host.ErrInvalidArgument, input)
	}
	return uint16(v), nil
}
