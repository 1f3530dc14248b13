package host

import (
	"errors"
	"fmt"

	"github.com/echost-protocol/echost-go/pkg/wire"
)

// Codec errors.
var (
	// ErrOutOfMemory indicates the transaction buffer cannot be sized
	// within protocol limits. Fatal to the single operation.
	ErrOutOfMemory = errors.New("cannot allocate transaction buffer")

	// ErrInvalidArgument indicates caller-supplied text or numbers did
	// not parse to a valid command.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnavailable indicates a capability whose guard condition is
	// false for this device; the command was never attempted.
	ErrUnavailable = errors.New("capability not available on this device")
)

// Transfer-layer codes attached to TransferError by channel
// implementations. Channels may define their own negative codes; these
// cover the common cases.
const (
	// CodeLinkError is an unspecified link failure.
	CodeLinkError = -1

	// CodeTimeout indicates the transfer deadline passed.
	CodeTimeout = -2

	// CodeClosed indicates the channel is closed.
	CodeClosed = -3

	// CodeProtocolError indicates the transport completed but the reply
	// violated the protocol, such as a payload beyond the caller's limit.
	CodeProtocolError = -4
)

// TransferError reports a transport-layer failure: link down, timeout, or
// a malformed frame. No usable response exists when it is returned.
type TransferError struct {
	// Code is a negative transfer-layer diagnostic code, rendered in
	// report annotations.
	Code int

	// Err is the underlying cause, if any.
	Err error
}

// Error returns the error message.
func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transfer failed (%d): %v", e.Code, e.Err)
	}
	return fmt.Sprintf("transfer failed (%d)", e.Code)
}

// Unwrap returns the underlying cause.
func (e *TransferError) Unwrap() error {
	return e.Err
}

// DeviceError reports a non-success result from the EC on a transfer
// that itself succeeded.
type DeviceError struct {
	Result wire.Result
}

// Error returns the error message.
func (e *DeviceError) Error() string {
	return fmt.Sprintf("device reported %s (%d)", e.Result, uint16(e.Result))
}

// ErrorCodes extracts the transfer-layer code and device result carried
// by err, for embedding in diagnostic text. A DeviceError yields a zero
// transfer code (the transport completed); a TransferError yields a zero
// result (the device never answered).
func ErrorCodes(err error) (xfer int, result wire.Result) {
	var de *DeviceError
	if errors.As(err, &de) {
		return 0, de.Result
	}
	var te *TransferError
	if errors.As(err, &te) {
		return te.Code, 0
	}
	return 0, 0
}
