// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm identifies how a frame body is encoded. Tags are stored in
// the first byte of every frame; changing them breaks existing blocks.
type Algorithm uint8

const (
	// None stores the content unchanged.
	None Algorithm = 0

	// LZ4 uses LZ4 block compression.
	LZ4 Algorithm = 1

	// Zstd uses zstd at the default level. Best ratio for text.
	Zstd Algorithm = 2
)

// MaxDecodedSize bounds the length a frame header may claim.
const MaxDecodedSize = 1 << 30

// ErrFrame means framed content is truncated, carries an unknown tag,
// or does not decode to its declared length.
var ErrFrame = errors.New("payload: malformed frame")

var errIncompressible = errors.New("payload: incompressible")

// String returns the configuration name of an algorithm.
func (algorithm Algorithm) String() string {
	switch algorithm {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(algorithm))
	}
}

// ParseAlgorithm maps a configuration name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return 0, fmt.Errorf("unknown compression algorithm %q (expected none, lz4, or zstd)", name)
	}
}

// Encode frames data with the requested algorithm. When compression
// does not reduce the size the frame uses None instead.
func Encode(data []byte, algorithm Algorithm) ([]byte, error) {
	var (
		body []byte
		err  error
	)
	switch algorithm {
	case None:
		body = data
	case LZ4:
		body, err = compressLZ4(data)
	case Zstd:
		body, err = compressZstd(data)
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %d", algorithm)
	}
	if errors.Is(err, errIncompressible) {
		algorithm, body, err = None, data, nil
	}
	if err != nil {
		return nil, err
	}

	frame := make([]byte, 0, 1+binary.MaxVarintLen64+len(body))
	frame = append(frame, byte(algorithm))
	frame = binary.AppendUvarint(frame, uint64(len(data)))
	return append(frame, body...), nil
}

// Decode reverses Encode.
func Decode(frame []byte) ([]byte, error) {
	if len(frame) < 2 {
		return nil, fmt.Errorf("%w: %d bytes is shorter than a header", ErrFrame, len(frame))
	}
	algorithm := Algorithm(frame[0])
	declared, headerLength := binary.Uvarint(frame[1:])
	if headerLength <= 0 {
		return nil, fmt.Errorf("%w: bad length header", ErrFrame)
	}
	if declared > MaxDecodedSize {
		return nil, fmt.Errorf("%w: declared length %d exceeds %d", ErrFrame, declared, MaxDecodedSize)
	}
	size := int(declared)
	body := frame[1+headerLength:]

	switch algorithm {
	case None:
		if len(body) != size {
			return nil, fmt.Errorf("%w: body is %d bytes, header says %d", ErrFrame, len(body), size)
		}
		return body, nil
	case LZ4:
		return decompressLZ4(body, size)
	case Zstd:
		return decompressZstd(body, size)
	default:
		return nil, fmt.Errorf("%w: unknown algorithm tag %d", ErrFrame, uint8(algorithm))
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// Zero means lz4 gave up on the input.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func decompressLZ4(compressed []byte, size int) ([]byte, error) {
	destination := make([]byte, size)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %v", ErrFrame, err)
	}
	if read != size {
		return nil, fmt.Errorf("%w: lz4 produced %d bytes, header says %d", ErrFrame, read, size)
	}
	return destination, nil
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("payload: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxDecodedSize))
	if err != nil {
		panic("payload: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, size int) ([]byte, error) {
	destination, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, size))
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrFrame, err)
	}
	if len(destination) != size {
		return nil, fmt.Errorf("%w: zstd produced %d bytes, header says %d", ErrFrame, len(destination), size)
	}
	return destination, nil
}
