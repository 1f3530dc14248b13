// Package registry maps symbolic capability names to host commands.
//
// The registry is a static table: each capability names the command it
// issues, an availability predicate over the device descriptor, and its
// text surfaces (show and, where supported, store). Availability depends
// on device feature flags and on the device identity; a capability whose
// guard is false is reported unavailable and never attempted.
//
// Text input follows the original controller surfaces: the reboot store
// accepts whitespace-separated case-insensitive keywords, and the wake
// angle store accepts one unsigned 16-bit integer literal.
package registry
