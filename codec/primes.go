package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression of a packed prime list.
type Compression uint8

const (
	// CompressionNone stores the varint stream as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, good for hot data).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio, slower).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression resolves a name produced by Compression.String.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("codec: unknown compression %q", name)
	}
}

// ErrCorruptPack is returned when a packed prime list cannot be decoded.
var ErrCorruptPack = errors.New("codec: corrupt prime pack")

// Pack layout:
//
//	[Compression uint8][Count uint32][RawSize uint32][StoredSize uint32][Data...]
//
// Data is the delta-encoded uvarint stream, compressed unless StoredSize == 0,
// in which case RawSize bytes follow uncompressed.
const packHeaderSize = 13

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// PackPrimes encodes an ascending prime list. Gaps between consecutive
// primes are small, so deltas stored as uvarints shrink the list to roughly
// one byte per prime before compression.
func PackPrimes(primes []uint32, c Compression) ([]byte, error) {
	raw := make([]byte, 0, len(primes)+binary.MaxVarintLen32)
	prev := uint32(0)
	for i, p := range primes {
		if i > 0 && p <= prev {
			return nil, fmt.Errorf("codec: primes not strictly ascending at index %d", i)
		}
		raw = binary.AppendUvarint(raw, uint64(p-prev))
		prev = p
	}

	var stored []byte
	switch c {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("codec: lz4: %w", err)
		}
		if n > 0 {
			stored = buf[:n]
		}
	case CompressionZSTD:
		enc := getZstdEncoder()
		stored = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("codec: unknown compression %d", c)
	}

	// Store uncompressed if compression doesn't help
	if len(stored) >= len(raw) {
		stored = nil
	}

	out := make([]byte, packHeaderSize, packHeaderSize+max(len(stored), len(raw)))
	out[0] = byte(c)
	binary.LittleEndian.PutUint32(out[1:], uint32(len(primes)))
	binary.LittleEndian.PutUint32(out[5:], uint32(len(raw)))
	binary.LittleEndian.PutUint32(out[9:], uint32(len(stored)))
	if stored == nil {
		return append(out, raw...), nil
	}
	return append(out, stored...), nil
}

// UnpackPrimes decodes a list produced by PackPrimes.
func UnpackPrimes(data []byte) ([]uint32, error) {
	if len(data) < packHeaderSize {
		return nil, fmt.Errorf("%w: short header", ErrCorruptPack)
	}

	c := Compression(data[0])
	count := binary.LittleEndian.Uint32(data[1:])
	rawSize := binary.LittleEndian.Uint32(data[5:])
	storedSize := binary.LittleEndian.Uint32(data[9:])
	body := data[packHeaderSize:]

	var raw []byte
	if storedSize == 0 {
		if uint32(len(body)) < rawSize {
			return nil, fmt.Errorf("%w: truncated body", ErrCorruptPack)
		}
		raw = body[:rawSize]
	} else {
		if uint32(len(body)) < storedSize {
			return nil, fmt.Errorf("%w: truncated body", ErrCorruptPack)
		}
		var err error
		if raw, err = decompress(c, body[:storedSize], rawSize); err != nil {
			return nil, err
		}
	}

	primes := make([]uint32, 0, count)
	prev := uint64(0)
	for len(raw) > 0 {
		delta, n := binary.Uvarint(raw)
		if n <= 0 {
			return nil, fmt.Errorf("%w: bad varint", ErrCorruptPack)
		}
		prev += delta
		primes = append(primes, uint32(prev))
		raw = raw[n:]
	}

	if uint32(len(primes)) != count {
		return nil, fmt.Errorf("%w: count %d, decoded %d", ErrCorruptPack, count, len(primes))
	}

	return primes, nil
}

func decompress(c Compression, stored []byte, rawSize uint32) ([]byte, error) {
	switch c {
	case CompressionLZ4:
		raw := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(stored, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrCorruptPack, err)
		}
		if uint32(n) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptPack)
		}
		return raw, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		raw, err := dec.DecodeAll(stored, make([]byte, 0, rawSize))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrCorruptPack, err)
		}
		if uint32(len(raw)) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorruptPack)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorruptPack, c)
	}
}
