// Package wire defines the binary wire format for EC host commands.
//
// An embedded controller (EC) exchange is a single request/response
// transaction: the host sends a command code, a command version and a
// parameter block, and the EC answers with a result code and a response
// block. All multi-byte fields are little-endian, matching the EC side.
//
// # Packets
//
// On framed transports each exchange is carried as a host packet
// (struct version 3): an 8-byte header, an 8-bit additive checksum over
// header and payload, and the payload itself. EncodeRequestPacket and
// DecodeResponsePacket implement this layout; transports only move bytes.
//
// # Payloads
//
// Command parameter and response blocks are fixed-layout structs with the
// exact sizes the EC expects. Each typed payload in this package provides
// Encode/Decode against those layouts; a declared payload never differs in
// size from its encoding.
//
// # Strings
//
// Fixed-size string fields inside EC responses are not guaranteed to be
// NUL-terminated by the controller. Use CString to extract text; it treats
// the final byte as a terminator regardless of content.
package wire
