package host

import (
	"errors"
	"fmt"

	"github.com/echost-protocol/echost-go/pkg/device"
	"github.com/echost-protocol/echost-go/pkg/wire"
)

// Channel is the link to an embedded controller. A Transfer is one
// complete request/response transaction and blocks until the transport
// finishes or fails.
//
// Implementations must serialize transfers: at most one transaction is in
// flight on a channel at any time, even with concurrent callers. Timeouts
// and retries, if any, also belong to the implementation.
//
// Transfer returns an error only for transport-layer failures; a
// device-reported failure travels in the Response result field.
type Channel interface {
	Transfer(req *wire.Request) (*wire.Response, error)
}

// Execute frames and transfers one host command to the device described
// by dev, returning the response payload on success.
//
// params is the encoded parameter block (nil for a pure control message);
// maxResponse bounds the response payload the caller accepts. A response
// longer than maxResponse is a protocol violation, never a truncated
// success.
func Execute(ch Channel, dev device.Descriptor, cmd wire.Command, version uint8, params []byte, maxResponse int) ([]byte, error) {
	req := &wire.Request{
		Command:     cmd + dev.CmdOffset,
		Version:     version,
		Params:      params,
		MaxResponse: maxResponse,
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}

	resp, err := ch.Transfer(req)
	if err != nil {
		var te *TransferError
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &TransferError{Code: CodeLinkError, Err: err}
	}
	if resp == nil {
		return nil, &TransferError{Code: CodeLinkError, Err: errors.New("channel returned no response")}
	}
	if !resp.Result.IsSuccess() {
		return nil, &DeviceError{Result: resp.Result}
	}
	if len(resp.Data) > maxResponse {
		return nil, &TransferError{
			Code: CodeProtocolError,
			Err:  fmt.Errorf("%d-byte response exceeds %d-byte limit", len(resp.Data), maxResponse),
		}
	}
	return resp.Data, nil
}

// Query sends a command with no parameter block and returns the response
// payload.
func Query(ch Channel, dev device.Descriptor, cmd wire.Command, maxResponse int) ([]byte, error) {
	return Execute(ch, dev, cmd, 0, nil, maxResponse)
}

// Probe discovers a device descriptor for EC instance n behind ch.
//
// The feature bitmap is read once here and treated as immutable
// afterwards. An EC too old to implement GET_FEATURES yields an empty
// feature set rather than an error; transport failures propagate.
func Probe(ch Channel, name string, instance int) (device.Descriptor, error) {
	dev := device.Descriptor{
		Name:      name,
		CmdOffset: wire.Command(instance) * wire.PassthruOffset,
	}

	data, err := Query(ch, dev, wire.CmdGetFeatures, wire.FeaturesResponseSize)
	switch {
	case err == nil:
		fr, err := wire.DecodeFeaturesResponse(data)
		if err != nil {
			return device.Descriptor{}, err
		}
		dev.Features = fr.Set()
	case isDeviceError(err):
		// Old firmware without GET_FEATURES: no optional capabilities.
	default:
		return device.Descriptor{}, err
	}

	if dev.Features.Has(wire.FeatureMotionSense) {
		dev.HasKBWakeAngle = probeKBWakeAngle(ch, dev)
	}
	return dev, nil
}

// probeKBWakeAngle checks whether a read-only wake-angle query succeeds.
func probeKBWakeAngle(ch Channel, dev device.Descriptor) bool {
	params := wire.MotionSenseParams{
		Op:   wire.MotionSenseKBWakeAngle,
		Data: wire.MotionSenseNoValue,
	}
	_, err := Execute(ch, dev, wire.CmdMotionSense, wire.MotionSenseVersion,
		params.Encode(), wire.MotionSenseResponseSize)
	return err == nil
}

func isDeviceError(err error) bool {
	var de *DeviceError
	return errors.As(err, &de)
}
