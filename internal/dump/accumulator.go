package dump

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"NavTrace/internal/model"
	"NavTrace/internal/telemetry"
)

// ErrCursorOutOfRange reports that the fill cursor was outside
// [0, capacity] on entry to Append. The cursor is owned exclusively by the
// accumulator, so this means external corruption of its state; the call
// fails before any room arithmetic can underflow.
var ErrCursorOutOfRange = errors.New("dump: fill cursor out of range")

// Accumulator buffers incoming receiver-stream bytes until a full
// fixed-capacity block is available, hands the block to its sink, resets,
// and keeps consuming. One instance exists per dump source and lives for
// the whole process.
//
// The fill cursor is plain bounds arithmetic only. The solicited signal the
// legacy implementation OR-ed into the cursor travels separately on the
// flushed frame's Flags byte.
type Accumulator struct {
	mu       sync.Mutex
	buf      []byte
	fill     int
	capacity int
	instance uint8
	sink     model.Sink

	lastFlush time.Time
	now       func() time.Time
}

// New creates an Accumulator with the given capacity, source instance and
// flush sink. Capacity must be positive.
func New(capacity int, instance uint8, sink model.Sink) (*Accumulator, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("dump: capacity must be positive, got %d", capacity)
	}
	if sink == nil {
		return nil, errors.New("dump: sink must not be nil")
	}
	return &Accumulator{
		buf:      make([]byte, capacity),
		capacity: capacity,
		instance: instance,
		sink:     sink,
		now:      time.Now,
	}, nil
}

// Append copies data into the buffer, flushing every time it fills, until
// all input is consumed. It is a no-op when mode does not match the active
// mode or when the accumulator handle is absent; that is a disabled
// channel, not an error. solicited marks the bytes as device-bound and is
// reported on flushed frames only.
//
// The lock covers the whole call including sink invocations, so a flushed
// frame's Data is stable until the sink returns.
func (a *Accumulator) Append(data []byte, mode, active model.CommMode, solicited bool) error {
	if a == nil || mode != active {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Room arithmetic below is only safe while the cursor is in range.
	if a.fill < 0 || a.fill > a.capacity {
		telemetry.AppendErrors.Inc()
		return fmt.Errorf("%w: fill=%d capacity=%d", ErrCursorOutOfRange, a.fill, a.capacity)
	}

	for len(data) > 0 {
		writeLen := len(data)
		if room := a.capacity - a.fill; writeLen > room {
			writeLen = room
		}

		copy(a.buf[a.fill:], data[:writeLen])
		data = data[writeLen:]
		a.fill += writeLen
		telemetry.BytesAppended.Add(float64(writeLen))

		if a.fill == a.capacity {
			a.flushLocked(solicited)
		}
	}
	return nil
}

// flushLocked hands the full buffer to the sink and resets the cursor.
// Called with a.mu held and a.fill == a.capacity.
func (a *Accumulator) flushLocked(solicited bool) {
	var flags uint8
	if solicited {
		flags |= model.FlagSolicited
	}

	a.lastFlush = a.now()
	frame := &model.DumpFrame{
		Data:      a.buf[:a.capacity],
		Len:       a.fill,
		Flags:     flags,
		Instance:  a.instance,
		Timestamp: a.lastFlush,
	}

	// Flush is fire-and-forget: delivery failures are the sink's problem.
	if err := a.sink.Flush(frame); err != nil {
		log.Printf("dump: flush for instance %d failed: %v", a.instance, err)
	}
	telemetry.FramesFlushed.Inc()

	a.fill = 0
}

// Fill returns the number of currently buffered bytes.
func (a *Accumulator) Fill() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fill
}

// Capacity returns the fixed buffer size in bytes.
func (a *Accumulator) Capacity() int {
	return a.capacity
}

// Instance returns the identifier of the dump source.
func (a *Accumulator) Instance() uint8 {
	return a.instance
}

// LastFlush returns the time of the most recent flush, or the zero time if
// the accumulator has never flushed.
func (a *Accumulator) LastFlush() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastFlush
}
