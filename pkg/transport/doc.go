// Package transport carries EC host packets over a byte stream.
//
// An EC bridge exposes a controller's host-command interface on a TCP or
// unix socket. Packets are self-delimiting: both directions start with an
// 8-byte header carrying the payload length, so no extra framing is
// needed beyond reading exactly one packet per direction per transaction.
//
// Client implements host.Channel: it serializes transactions, applies an
// IO deadline per transfer, and verifies response integrity before
// handing payloads to the codec. Retry policy is deliberately absent -
// a transaction either completes or fails.
//
// Server is the listening side used by the simulator daemon: one
// goroutine per connection, each running a read-handle-write loop.
package transport
