// Package typecode classifies the leading type byte of every replay node.
//
// Each node in the node region starts with a one byte type code. The code
// space is partitioned as follows:
//
//	0x01-0x10  scalar kinds (bool, signed/unsigned integers, floats,
//	           2D/3D coordinates, UTF-16 and ASCII strings, angle)
//	0x12-0x1d  compact aliases: bool true/false sentinels and reduced-width
//	           encodings of uint32, int32 and float32
//	0x41-0x5d  arrays, encoded as the element code with ArrayBit set
//	0x80       record
//	0x81       record array
//
// # Compact Aliases
//
// Compact aliases are a size optimisation of the writer: UINT32_ZERO carries no
// payload and means a uint32 of value 0, INT32_SHORT carries an int16 that is
// widened to int32, and so on. [Info.Canonical] reports the full-width code an
// alias stands for so that decoded values are indistinguishable from their
// full-width counterparts.
//
// # Boolean Sentinels
//
// A BOOL payload byte may be 0x00, 0x01, 0x12 or 0x13. [BoolSentinel] resolves
// these into a Go bool; any other byte is a corrupt node.
//
// # Key Types and Functions
//
//   - [Code]: a raw type byte
//   - [Info]: classification of a code
//   - [Lookup]: returns the Info for a byte, or [ErrUnsupportedTypeCode]
package typecode
