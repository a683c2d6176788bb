// Package format defines the shared identifiers of the on-disk artifacts:
// the compression types available for files at rest and the framing constants
// of the compressed container.
package format

type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone stores plain NetCDF bytes.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Container framing for compressed files. Uncompressed files carry no
// framing; readers tell the two apart by the magic bytes.
const (
	// ContainerMagic prefixes every compressed file.
	ContainerMagic = "NCSZ"

	// ContainerVersion is the current framing version.
	ContainerVersion = 1

	// ContainerHeaderSize is magic(4) + version(1) + codec(1) + reserved(2) +
	// raw length(8) + xxhash64 digest(8).
	ContainerHeaderSize = 24
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
