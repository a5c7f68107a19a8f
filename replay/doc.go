// Package replay decodes Total War battle replay files.
//
// A replay is a 16-byte header, a region of self-describing nodes and a
// footer holding the tag table (and, for newer games, a string table). Four
// wire variants exist, told apart by the header magic:
//
//   - ABCD and ABCE (Empire, Napoleon): strings are stored inline.
//   - ABCF and ABCA (Shogun 2 and later): strings are indices into the
//     footer's string table.
//
// Basic use:
//
//	rep, err := replay.Open("battle.replay")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	setup, err := replay.Find(rep.Nodes, "root/BATTLE_REPLAY/BATTLE_SETUP")
//
// The decoded tree keeps source order. Records keep their tag and version;
// compact encodings such as UINT32_BYTE decode to the same value as their
// full-width type.
//
// Decoding is all or nothing. Every failure is a *DecodeError carrying the
// phase, the byte offset and, where one applies, the offending type code. It
// wraps one of the package sentinels for use with errors.Is.
package replay
