// Package header parses the fixed 16-byte header at the start of a replay.
//
// # Layout
//
//	Offset  Size  Description
//	0       4     Magic number (0xABCD, 0xABCE, 0xABCF or 0xABCA)
//	4       4     Reserved, always zero in observed files
//	8       4     Creation time, Unix seconds
//	12      4     Footer offset
//
// All fields are little-endian. The node region spans from the end of the
// header up to the footer offset; the footer runs from the footer offset to
// the end of the file.
//
// # Magic Numbers
//
// The magic number identifies the wire variant. [Read] rejects any value
// that is not one of the four known magics with [ErrUnsupportedFormat]
// before looking at the rest of the header.
//
// # Errors
//
//   - [ErrUnsupportedFormat]: unknown magic number
//   - [ErrCorruptHeader]: header truncated or footer offset outside the file
package header
