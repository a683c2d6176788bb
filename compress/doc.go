// Package compress provides the compression codecs used for storing NetCDF
// files at rest.
//
// A whole serialized file is compressed in one shot when the session is
// configured with a compression type other than CompressionNone. The codecs
// are deliberately simple: one []byte in, one []byte out, no streaming, since
// payloads are complete files that are read and written in a single operation.
//
// Available codecs:
//   - NoOpCompressor: passes data through unchanged
//   - ZstdCompressor: best ratio, cgo (valyala/gozstd) or pure Go
//     (klauspost/compress/zstd) depending on build environment
//   - S2Compressor: fastest, moderate ratio
//   - LZ4Compressor: fast, widely interoperable
package compress
