// Package source loads replay bytes from disk or a stream.
//
// Replays shared between players are often compressed. Before decoding, the
// first bytes of the input are matched against the [Registry] of compression
// filters and the first filter that recognises its magic number unwraps the
// data. Input that no filter recognises is returned as is.
//
// # Supported Filters
//
//   - gzip ([Gzip]): magic 1f 8b, via github.com/klauspost/compress/gzip.
//   - zstd ([Zstd]): magic 28 b5 2f fd, via github.com/klauspost/compress/zstd.
//   - zlib ([Zlib]): a 0x78 CMF byte with a valid header check, via
//     github.com/klauspost/compress/zlib.
//
// No replay magic collides with these prefixes: every replay starts with one
// of CD, CE, CF or CA followed by AB.
//
// Decompressed output is capped at [MaxSize] bytes.
package source
