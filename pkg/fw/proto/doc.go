// Package proto implements the hardware-IO command grammar.
package proto

// The grammar is a single ASCII-byte-oriented stream with no framing and
// no checksum. The first byte of a command selects a family (pin mode,
// digital read/write, analog read/write, encoder query, motor drive,
// load-cell query, script-type query); follow-up bytes select a pin or
// carry a payload. No command spans more than 3 bytes.
//
// The parser consumes exactly one byte per call and never blocks waiting
// for more. Any byte outside the grammar abandons the command in progress
// and returns the parser to idle with no side effect and no reply. This
// silent-reject policy is part of the wire contract: a device stays
// available instead of reporting errors it has no channel for.
//
// Producer: host client (originally a MATLAB hardware-IO client)
// Consumer: device loop
