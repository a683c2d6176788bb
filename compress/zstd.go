package compress

// ZstdCompressor provides Zstandard compression, the best ratio of the
// available codecs.
//
// Suited for archived simulation output that is written once and read rarely.
// Two implementations exist behind build tags: a cgo binding (valyala/gozstd)
// and a pure-Go fallback (klauspost/compress/zstd); both produce standard
// zstd frames and can read each other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
