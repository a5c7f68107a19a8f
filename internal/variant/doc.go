// Package variant implements the per-magic-number wire differences of replay
// files.
//
// Four variants are known. They share the node encoding entirely and differ
// only in two places:
//
//	Variant  Footer                      UTF16/ASCII payload
//	-------  --------------------------  ------------------------------
//	ABCD     tags                        inline length-prefixed string
//	ABCE     tags                        inline length-prefixed string
//	ABCF     tags + unicode string table uint32 index into the table
//	ABCA     tags + unicode string table uint32 index into the table
//
// A [Codec] is selected once per decode with [Lookup] and passed explicitly to
// the node decoder. Adding a variant means adding a Codec, not touching the
// decoder.
//
// # Footer Layout
//
//	uint16            tag count
//	ca_ascii × count  tag names, indexed by the record tag id
//
// Table variants continue with:
//
//	uint16            string count
//	uint16            reserved
//	(ca_unicode, uint32 index) × count
package variant
