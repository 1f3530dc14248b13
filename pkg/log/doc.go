// Package log provides structured protocol capture for EC exchanges.
//
// This package defines the Logger interface and Event types for recording
// host-command traffic: framed packets on the transport and completed
// exchanges with their result codes. It is separate from operational
// logging (slog) - protocol capture provides a complete machine-readable
// trace for debugging a misbehaving controller or bridge.
//
// # Basic Usage
//
// Components accept any Logger implementation:
//
//	// For development: mirror events to the console via slog
//	client.SetLogger(log.NewSlogAdapter(slog.Default()))
//
//	// For capture: write to a binary file
//	capture, _ := log.NewFileLogger("/var/log/echost/trace.eclog")
//	client.SetLogger(capture)
//
//	// Both at once
//	client.SetLogger(log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    capture,
//	))
//
// # File Format
//
// Capture files use CBOR encoding with integer keys, one event per
// record. Reader streams them back, optionally filtered.
package log
