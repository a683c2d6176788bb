package ncio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/batchatco/go-native-netcdf/netcdf"

	"github.com/hydroio/ncseries/compress"
	"github.com/hydroio/ncseries/errs"
	"github.com/hydroio/ncseries/format"
	"github.com/hydroio/ncseries/internal/hash"
)

// finalize moves a fully written staging file to its final path, compressing
// it into a framed container on the way when compression is enabled.
func finalize(staging, final string, compression format.CompressionType) error {
	if compression == format.CompressionNone {
		if err := os.Rename(staging, final); err != nil {
			return fmt.Errorf("finalizing file %q: %w", final, err)
		}

		return nil
	}
	raw, err := os.ReadFile(staging)
	if err != nil {
		return fmt.Errorf("finalizing file %q: %w", final, err)
	}
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return err
	}
	payload, err := codec.Compress(raw)
	if err != nil {
		return fmt.Errorf("compressing file %q with %s: %w", final, compression, err)
	}
	framed := make([]byte, format.ContainerHeaderSize+len(payload))
	copy(framed, format.ContainerMagic)
	framed[4] = format.ContainerVersion
	framed[5] = byte(compression)
	binary.LittleEndian.PutUint64(framed[8:16], uint64(len(raw)))
	binary.LittleEndian.PutUint64(framed[16:24], hash.Digest(raw))
	copy(framed[format.ContainerHeaderSize:], payload)
	if err := os.WriteFile(final, framed, 0o644); err != nil {
		return fmt.Errorf("finalizing file %q: %w", final, err)
	}
	if err := os.Remove(staging); err != nil {
		return fmt.Errorf("removing the staging file of %q: %w", final, err)
	}

	return nil
}

// openFileReader opens a plain or containerized file for reading, detecting
// the framing from the magic bytes.
func openFileReader(path string) (*fileReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %q: %w", path, err)
	}
	if len(data) >= len(format.ContainerMagic) &&
		string(data[:len(format.ContainerMagic)]) == format.ContainerMagic {
		if data, err = unframe(data, path); err != nil {
			return nil, err
		}
	}
	group, err := netcdf.New(nopSeekCloser{bytes.NewReader(data)})
	if err != nil {
		return nil, fmt.Errorf("opening file %q: %w", path, err)
	}

	return newFileReader(group, path), nil
}

// nopSeekCloser adapts an in-memory reader to the reader-ownership contract
// of the array-file runtime.
type nopSeekCloser struct {
	*bytes.Reader
}

func (nopSeekCloser) Close() error { return nil }

// unframe validates a container and returns the raw NetCDF bytes.
func unframe(data []byte, path string) ([]byte, error) {
	if len(data) < format.ContainerHeaderSize {
		return nil, fmt.Errorf("%w: file %q holds %d byte(s), the header needs %d",
			errs.ErrBadContainer, path, len(data), format.ContainerHeaderSize)
	}
	if version := data[4]; version != format.ContainerVersion {
		return nil, fmt.Errorf("%w: file %q uses framing version %d, supported is %d",
			errs.ErrBadContainer, path, version, format.ContainerVersion)
	}
	codec, err := compress.GetCodec(format.CompressionType(data[5]))
	if err != nil {
		return nil, fmt.Errorf("opening file %q: %w", path, err)
	}
	rawLen := binary.LittleEndian.Uint64(data[8:16])
	digest := binary.LittleEndian.Uint64(data[16:24])
	raw, err := codec.Decompress(data[format.ContainerHeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("decompressing file %q: %w", path, err)
	}
	if uint64(len(raw)) != rawLen {
		return nil, fmt.Errorf("%w: file %q declares %d raw byte(s), decompression yields %d",
			errs.ErrBadContainer, path, rawLen, len(raw))
	}
	if hash.Digest(raw) != digest {
		return nil, fmt.Errorf("%w: file %q", errs.ErrChecksumMismatch, path)
	}

	return raw, nil
}
