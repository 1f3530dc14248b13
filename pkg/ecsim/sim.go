// Package ecsim provides an in-memory simulated embedded controller.
//
// The simulator implements host.Channel directly, so it can stand in for
// a real EC link in tests and in-process tooling, and it doubles as the
// request handler behind a transport server. Per-command fault injection
// simulates both transport failures and device-reported errors.
package ecsim

import (
	"sync"

	"github.com/echost-protocol/echost-go/pkg/host"
	"github.com/echost-protocol/echost-go/pkg/wire"
)

// Simulator is a simulated EC. It is safe for concurrent use; like a real
// EC link it processes one transaction at a time.
type Simulator struct {
	mu sync.Mutex

	cfg      Config
	features wire.FeatureSet

	wakeAngle       int16
	wakeAngleWrites int

	lastReboot *wire.RebootParams

	failTransfer map[wire.Command]int
	failResult   map[wire.Command]wire.Result
	failMuxPort  map[uint8]wire.Result
}

// New creates a simulator with the given configuration.
func New(cfg Config) *Simulator {
	return &Simulator{
		cfg:          cfg,
		features:     cfg.featureSet(),
		wakeAngle:    cfg.WakeAngle,
		failTransfer: make(map[wire.Command]int),
		failResult:   make(map[wire.Command]wire.Result),
		failMuxPort:  make(map[uint8]wire.Result),
	}
}

// FailTransfer makes every transfer of cmd fail at the transport layer
// with the given diagnostic code.
func (s *Simulator) FailTransfer(cmd wire.Command, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failTransfer[cmd] = code
}

// FailResult makes the device report result for every cmd.
func (s *Simulator) FailResult(cmd wire.Command, result wire.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failResult[cmd] = result
}

// FailMuxPort makes the mux detail query for one port report result.
func (s *Simulator) FailMuxPort(port uint8, result wire.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMuxPort[port] = result
}

// ClearFaults removes all injected faults.
func (s *Simulator) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failTransfer = make(map[wire.Command]int)
	s.failResult = make(map[wire.Command]wire.Result)
	s.failMuxPort = make(map[uint8]wire.Result)
}

// WakeAngle returns the current wake angle.
func (s *Simulator) WakeAngle() int16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wakeAngle
}

// WakeAngleWrites returns how many set requests have modified the angle.
// Queries using the no-value sentinel never count.
func (s *Simulator) WakeAngleWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wakeAngleWrites
}

// LastReboot returns the most recent reboot request, or nil.
func (s *Simulator) LastReboot() *wire.RebootParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReboot
}

// Transfer implements host.Channel. Injected transport faults surface
// here; everything else is answered by the device model.
func (s *Simulator) Transfer(req *wire.Request) (*wire.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if code, ok := s.failTransfer[req.Command]; ok {
		return nil, &host.TransferError{Code: code}
	}
	return s.handleLocked(req), nil
}

// Handle answers one request on behalf of the device model. It is the
// handler a transport server dispatches decoded request packets to.
func (s *Simulator) Handle(req *wire.Request) *wire.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handleLocked(req)
}

func (s *Simulator) handleLocked(req *wire.Request) *wire.Response {
	if result, ok := s.failResult[req.Command]; ok {
		return &wire.Response{Result: result}
	}

	// The simulator models instance 0 only; passthru codes are unknown.
	switch req.Command {
	case wire.CmdGetVersion:
		return s.getVersion()
	case wire.CmdGetBuildInfo:
		return ok(append([]byte(s.cfg.BuildInfo), 0))
	case wire.CmdGetChipInfo:
		return s.getChipInfo()
	case wire.CmdGetBoardVersion:
		resp := wire.BoardVersionResponse{BoardVersion: s.cfg.BoardVersion}
		return ok(resp.Encode())
	case wire.CmdGetFeatures:
		return ok(wire.NewFeaturesResponse(s.features).Encode())
	case wire.CmdFlashInfo:
		resp := wire.FlashInfoResponse{
			FlashSize:        s.cfg.Flash.Size,
			WriteBlockSize:   s.cfg.Flash.WriteBlock,
			EraseBlockSize:   s.cfg.Flash.EraseBlock,
			ProtectBlockSize: s.cfg.Flash.ProtectBlock,
		}
		return ok(resp.Encode())
	case wire.CmdMotionSense:
		return s.motionSense(req)
	case wire.CmdRebootEC:
		return s.reboot(req)
	case wire.CmdUSBPDPorts:
		resp := wire.PDPortsResponse{NumPorts: uint8(len(s.cfg.Ports))}
		return ok(resp.Encode())
	case wire.CmdUSBPDMuxInfo:
		return s.muxInfo(req)
	default:
		return &wire.Response{Result: wire.ResultInvalidCommand}
	}
}

func (s *Simulator) getVersion() *wire.Response {
	resp := wire.VersionResponse{CurrentImage: s.cfg.image()}
	wire.SetECString(resp.VersionStringRO[:], s.cfg.ROVersion)
	wire.SetECString(resp.VersionStringRW[:], s.cfg.RWVersion)
	return ok(resp.Encode())
}

func (s *Simulator) getChipInfo() *wire.Response {
	resp := wire.ChipInfoResponse{}
	wire.SetECString(resp.Vendor[:], s.cfg.ChipVendor)
	wire.SetECString(resp.Name[:], s.cfg.ChipName)
	wire.SetECString(resp.Revision[:], s.cfg.ChipRevision)
	return ok(resp.Encode())
}

func (s *Simulator) motionSense(req *wire.Request) *wire.Response {
	if !s.features.Has(wire.FeatureMotionSense) {
		return &wire.Response{Result: wire.ResultInvalidCommand}
	}
	if req.Version != wire.MotionSenseVersion {
		return &wire.Response{Result: wire.ResultInvalidVersion}
	}
	params, err := wire.DecodeMotionSenseParams(req.Params)
	if err != nil {
		return &wire.Response{Result: wire.ResultInvalidParam}
	}
	if params.Op != wire.MotionSenseKBWakeAngle {
		return &wire.Response{Result: wire.ResultInvalidParam}
	}

	// The no-value sentinel reads without modifying; anything else is a
	// set whose response echoes the updated angle.
	if params.Data != wire.MotionSenseNoValue {
		s.wakeAngle = params.Data
		s.wakeAngleWrites++
	}
	resp := wire.MotionSenseResponse{Ret: s.wakeAngle}
	return ok(resp.Encode())
}

func (s *Simulator) reboot(req *wire.Request) *wire.Response {
	params, err := wire.DecodeRebootParams(req.Params)
	if err != nil {
		return &wire.Response{Result: wire.ResultInvalidParam}
	}
	switch params.Cmd {
	case wire.RebootCancel, wire.RebootJumpRO, wire.RebootJumpRW,
		wire.RebootCold, wire.RebootDisableJump, wire.RebootHibernate,
		wire.RebootColdAPOff:
	default:
		return &wire.Response{Result: wire.ResultInvalidParam}
	}
	s.lastReboot = params
	return &wire.Response{Result: wire.ResultSuccess}
}

func (s *Simulator) muxInfo(req *wire.Request) *wire.Response {
	params, err := wire.DecodePDMuxInfoParams(req.Params)
	if err != nil {
		return &wire.Response{Result: wire.ResultInvalidParam}
	}
	if result, ok := s.failMuxPort[params.Port]; ok {
		return &wire.Response{Result: result}
	}
	if int(params.Port) >= len(s.cfg.Ports) {
		return &wire.Response{Result: wire.ResultInvalidParam}
	}
	resp := wire.PDMuxInfoResponse{Flags: s.cfg.Ports[params.Port].Flags()}
	return ok(resp.Encode())
}

func ok(data []byte) *wire.Response {
	return &wire.Response{Result: wire.ResultSuccess, Data: data}
}
