// Package host implements the EC host-command codec: framing a request,
// transferring it over a channel, and validating the response.
//
// The Channel abstracts the physical link. A channel transfer is one
// complete transaction, blocking until the transport finishes; channels
// own serialization of concurrent callers, timeouts and any retry policy.
// The codec itself adds none of those.
//
// # Errors
//
// The codec distinguishes four failure classes:
//   - ErrOutOfMemory: the transaction buffer would exceed protocol limits.
//   - TransferError: the transport layer failed; no usable response exists.
//   - DeviceError: the transport succeeded but the EC reported non-success.
//   - ErrInvalidArgument: caller-supplied text or numbers did not parse.
//
// TransferError and DeviceError must not be conflated: a version query
// renders a device-reported failure inline and continues, while a reboot
// propagates either class to its caller.
package host
