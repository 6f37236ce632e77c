package model

import (
	"fmt"
	"time"
)

// CommMode selects which side of the receiver communication stream is dumped.
// Values mirror the autopilot's GPS_DUMP_COMM parameter.
type CommMode int32

const (
	CommModeDisabled CommMode = 0
	CommModeFull     CommMode = 1
	CommModeRTCM     CommMode = 2
)

func (m CommMode) String() string {
	switch m {
	case CommModeDisabled:
		return "disabled"
	case CommModeFull:
		return "full"
	case CommModeRTCM:
		return "rtcm"
	default:
		return fmt.Sprintf("commmode(%d)", int32(m))
	}
}

// ParseCommMode maps a config string to a CommMode.
func ParseCommMode(s string) (CommMode, error) {
	switch s {
	case "", "disabled":
		return CommModeDisabled, nil
	case "full":
		return CommModeFull, nil
	case "rtcm":
		return CommModeRTCM, nil
	default:
		return CommModeDisabled, fmt.Errorf("unknown comm mode %q", s)
	}
}

// FlagSolicited marks a frame whose bytes were sent to the receiver rather
// than read from it. The legacy on-wire report folded this bit into the
// length field; here it lives in its own Flags byte and is only combined
// with the length by ReportedLen.
const FlagSolicited uint8 = 1 << 7

// DumpFrame is one full dump buffer handed to a flush sink. Data holds
// exactly Len meaningful bytes (Len equals the accumulator capacity for
// every flushed frame).
type DumpFrame struct {
	Data      []byte
	Len       int
	Flags     uint8
	Instance  uint8
	Timestamp time.Time
}

// ReportedLen returns the legacy length report: the byte count with the
// solicited bit folded into the high bit. It is computed for the wire and
// storage layers only and must never be used for bounds arithmetic.
func (f *DumpFrame) ReportedLen() uint16 {
	v := uint16(f.Len)
	if f.Flags&FlagSolicited != 0 {
		v |= 1 << 15
	}
	return v
}

// Solicited reports whether the frame carries device-bound bytes.
func (f *DumpFrame) Solicited() bool {
	return f.Flags&FlagSolicited != 0
}

// Sink receives full dump frames from an accumulator. The frame's Data
// slice aliases the accumulator's buffer and is only valid for the duration
// of the call; implementations that retain the bytes must copy them before
// returning.
type Sink interface {
	Flush(frame *DumpFrame) error
}

// Writer defines a generic interface for persisting dump frames to a store.
type Writer interface {
	// Write persists a single frame. The frame and its Data are owned by
	// the caller only until Write returns.
	Write(frame *DumpFrame) error

	// Close flushes any buffered state and releases the store connection.
	Close() error
}
