// Package frame implements the binary wire format for dump frames as they
// travel over NATS and into the latest-frame cache.
//
// Layout: magic(2) | version(1) | instance(1) | flags(1) | len(2) |
// timestampNanos(8) | payload(len) | crc32(4). Multi-byte fields are big
// endian; the checksum is IEEE CRC-32 over everything before it.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"time"

	"NavTrace/internal/model"
)

const (
	magic   uint16 = 0x4E54 // "NT"
	version byte   = 1

	headerSize  = 15
	trailerSize = 4
)

var (
	ErrShortFrame  = errors.New("frame: input shorter than header")
	ErrBadMagic    = errors.New("frame: bad magic")
	ErrBadVersion  = errors.New("frame: unsupported version")
	ErrTruncated   = errors.New("frame: payload length exceeds input")
	ErrBadChecksum = errors.New("frame: checksum mismatch")
)

// Encode serializes a dump frame. The returned slice is freshly allocated.
func Encode(f *model.DumpFrame) []byte {
	buf := make([]byte, headerSize+f.Len+trailerSize)

	binary.BigEndian.PutUint16(buf[0:2], magic)
	buf[2] = version
	buf[3] = f.Instance
	buf[4] = f.Flags
	binary.BigEndian.PutUint16(buf[5:7], uint16(f.Len))
	binary.BigEndian.PutUint64(buf[7:15], uint64(f.Timestamp.UnixNano()))
	copy(buf[headerSize:], f.Data[:f.Len])

	sum := crc32.ChecksumIEEE(buf[:headerSize+f.Len])
	binary.BigEndian.PutUint32(buf[headerSize+f.Len:], sum)
	return buf
}

// Decode parses a serialized frame. The payload is copied out of data, so
// the caller may reuse its buffer (NATS recycles message buffers).
func Decode(data []byte) (*model.DumpFrame, error) {
	if len(data) < headerSize+trailerSize {
		return nil, ErrShortFrame
	}
	if binary.BigEndian.Uint16(data[0:2]) != magic {
		return nil, ErrBadMagic
	}
	if data[2] != version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, data[2])
	}

	payloadLen := int(binary.BigEndian.Uint16(data[5:7]))
	if len(data) < headerSize+payloadLen+trailerSize {
		return nil, ErrTruncated
	}

	want := binary.BigEndian.Uint32(data[headerSize+payloadLen:])
	if got := crc32.ChecksumIEEE(data[:headerSize+payloadLen]); got != want {
		return nil, ErrBadChecksum
	}

	payload := make([]byte, payloadLen)
	copy(payload, data[headerSize:headerSize+payloadLen])

	return &model.DumpFrame{
		Data:      payload,
		Len:       payloadLen,
		Flags:     data[4],
		Instance:  data[3],
		Timestamp: time.Unix(0, int64(binary.BigEndian.Uint64(data[7:15]))).UTC(),
	}, nil
}
