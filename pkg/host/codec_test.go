package host

import (
	"bytes"
	"errors"
	"testing"

	"github.com/echost-protocol/echost-go/pkg/device"
	"github.com/echost-protocol/echost-go/pkg/wire"
)

// mockChannel records the last request and plays back a scripted reply.
type mockChannel struct {
	lastReq *wire.Request
	resp    *wire.Response
	err     error

	// respond overrides resp/err per request when set.
	respond func(req *wire.Request) (*wire.Response, error)
}

func (m *mockChannel) Transfer(req *wire.Request) (*wire.Response, error) {
	m.lastReq = req
	if m.respond != nil {
		return m.respond(req)
	}
	return m.resp, m.err
}

func TestExecuteSuccess(t *testing.T) {
	ch := &mockChannel{
		resp: &wire.Response{Result: wire.ResultSuccess, Data: []byte{1, 2}},
	}
	dev := device.Descriptor{Name: device.CanonicalName}

	data, err := Execute(ch, dev, wire.CmdGetBoardVersion, 0, nil, 2)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !bytes.Equal(data, []byte{1, 2}) {
		t.Errorf("data: got %x, want 01 02", data)
	}
	if ch.lastReq.Command != wire.CmdGetBoardVersion {
		t.Errorf("command: got %v", ch.lastReq.Command)
	}
}

func TestExecuteAppliesCommandOffset(t *testing.T) {
	ch := &mockChannel{resp: &wire.Response{Result: wire.ResultSuccess}}
	dev := device.Descriptor{Name: "cros_sh", CmdOffset: wire.PassthruOffset}

	if _, err := Execute(ch, dev, wire.CmdGetVersion, 0, nil, 0); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	want := wire.CmdGetVersion + wire.PassthruOffset
	if ch.lastReq.Command != want {
		t.Errorf("command: got %#x, want %#x", uint16(ch.lastReq.Command), uint16(want))
	}
}

func TestExecuteOversizedParams(t *testing.T) {
	ch := &mockChannel{}
	dev := device.Descriptor{Name: device.CanonicalName}

	_, err := Execute(ch, dev, wire.CmdFlashInfo, 0, make([]byte, wire.HostParamSize+1), 0)
	if !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("error: got %v, want ErrOutOfMemory", err)
	}
	if ch.lastReq != nil {
		t.Error("oversized request reached the channel")
	}
}

func TestExecuteDeviceError(t *testing.T) {
	ch := &mockChannel{
		resp: &wire.Response{Result: wire.ResultAccessDenied},
	}
	dev := device.Descriptor{Name: device.CanonicalName}

	_, err := Execute(ch, dev, wire.CmdFlashInfo, 0, nil, wire.FlashInfoResponseSize)
	var de *DeviceError
	if !errors.As(err, &de) {
		t.Fatalf("error: got %v, want *DeviceError", err)
	}
	if de.Result != wire.ResultAccessDenied {
		t.Errorf("result: got %v, want %v", de.Result, wire.ResultAccessDenied)
	}
}

func TestExecuteTransferError(t *testing.T) {
	// A typed transfer error passes through unchanged; any other channel
	// failure gets wrapped with the generic link-error code.
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"typed", &TransferError{Code: CodeTimeout}, CodeTimeout},
		{"untyped", errors.New("connection reset"), CodeLinkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &mockChannel{err: tt.err}
			dev := device.Descriptor{Name: device.CanonicalName}

			_, err := Execute(ch, dev, wire.CmdGetVersion, 0, nil, 0)
			var te *TransferError
			if !errors.As(err, &te) {
				t.Fatalf("error: got %v, want *TransferError", err)
			}
			if te.Code != tt.wantCode {
				t.Errorf("code: got %d, want %d", te.Code, tt.wantCode)
			}
		})
	}
}

func TestExecuteOversizedResponse(t *testing.T) {
	ch := &mockChannel{
		resp: &wire.Response{Result: wire.ResultSuccess, Data: []byte{1, 2, 3}},
	}
	dev := device.Descriptor{Name: device.CanonicalName}

	_, err := Execute(ch, dev, wire.CmdGetBoardVersion, 0, nil, 2)
	var te *TransferError
	if !errors.As(err, &te) {
		t.Fatalf("error: got %v, want *TransferError", err)
	}
	// A reply beyond the caller's limit is a protocol violation, not a
	// link failure.
	if te.Code != CodeProtocolError {
		t.Errorf("code: got %d, want %d", te.Code, CodeProtocolError)
	}
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantXfer   int
		wantResult wire.Result
	}{
		{"device error", &DeviceError{Result: wire.ResultBusy}, 0, wire.ResultBusy},
		{"transfer error", &TransferError{Code: CodeTimeout}, CodeTimeout, 0},
		{"unrelated error", errors.New("boom"), 0, 0},
		{"nil", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xfer, result := ErrorCodes(tt.err)
			if xfer != tt.wantXfer || result != tt.wantResult {
				t.Errorf("got (%d, %d), want (%d, %d)", xfer, result, tt.wantXfer, tt.wantResult)
			}
		})
	}
}

// featureReply scripts GET_FEATURES and MOTION_SENSE replies for Probe.
func featureReply(features wire.FeatureSet, wakeAngleOK bool) func(*wire.Request) (*wire.Response, error) {
	return func(req *wire.Request) (*wire.Response, error) {
		switch req.Command {
		case wire.CmdGetFeatures:
			return &wire.Response{
				Result: wire.ResultSuccess,
				Data:   wire.NewFeaturesResponse(features).Encode(),
			}, nil
		case wire.CmdMotionSense:
			if !wakeAngleOK {
				return &wire.Response{Result: wire.ResultInvalidParam}, nil
			}
			r := wire.MotionSenseResponse{Ret: 180}
			return &wire.Response{Result: wire.ResultSuccess, Data: r.Encode()}, nil
		default:
			return &wire.Response{Result: wire.ResultInvalidCommand}, nil
		}
	}
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name          string
		features      wire.FeatureSet
		wakeAngleOK   bool
		wantWakeAngle bool
	}{
		{
			name:          "motion sense with wake angle",
			features:      wire.NewFeatureSet(wire.FeatureMotionSense),
			wakeAngleOK:   true,
			wantWakeAngle: true,
		},
		{
			name:          "motion sense without wake angle",
			features:      wire.NewFeatureSet(wire.FeatureMotionSense),
			wakeAngleOK:   false,
			wantWakeAngle: false,
		},
		{
			name:          "no motion sense",
			features:      0,
			wantWakeAngle: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &mockChannel{respond: featureReply(tt.features, tt.wakeAngleOK)}

			dev, err := Probe(ch, device.CanonicalName, 0)
			if err != nil {
				t.Fatalf("Probe failed: %v", err)
			}
			if dev.Features != tt.features {
				t.Errorf("features: got %#x, want %#x", dev.Features, tt.features)
			}
			if dev.HasKBWakeAngle != tt.wantWakeAngle {
				t.Errorf("HasKBWakeAngle: got %v, want %v", dev.HasKBWakeAngle, tt.wantWakeAngle)
			}
		})
	}
}

func TestProbeOldFirmware(t *testing.T) {
	// Firmware predating GET_FEATURES reports an error result; the probe
	// succeeds with an empty feature set.
	ch := &mockChannel{resp: &wire.Response{Result: wire.ResultInvalidCommand}}

	dev, err := Probe(ch, device.CanonicalName, 0)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if dev.Features != 0 {
		t.Errorf("features: got %#x, want 0", dev.Features)
	}
}

func TestProbeTransportFailure(t *testing.T) {
	ch := &mockChannel{err: &TransferError{Code: CodeLinkError}}

	if _, err := Probe(ch, device.CanonicalName, 0); err == nil {
		t.Fatal("expected transport failure to propagate")
	}
}

func TestProbeInstanceOffset(t *testing.T) {
	ch := &mockChannel{respond: featureReply(0, false)}

	dev, err := Probe(ch, "cros_sh", 1)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if dev.CmdOffset != wire.PassthruOffset {
		t.Errorf("offset: got %#x, want %#x", uint16(dev.CmdOffset), uint16(wire.PassthruOffset))
	}
	if ch.lastReq.Command != wire.CmdGetFeatures+wire.PassthruOffset {
		t.Errorf("probe command: got %#x", uint16(ch.lastReq.Command))
	}
}
