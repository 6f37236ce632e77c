package collector

import (
	"sync"
	"testing"
	"time"

	"NavTrace/internal/model"
)

// fakeWriter records frames and whether Close was called.
type fakeWriter struct {
	mu     sync.Mutex
	frames []*model.DumpFrame
	closed bool
}

func (w *fakeWriter) Write(f *model.DumpFrame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frames = append(w.frames, f)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.frames)
}

func TestCollector_FanOutAndStop(t *testing.T) {
	w1 := &fakeWriter{}
	w2 := &fakeWriter{}
	col := New(4, 64, []model.Writer{w1, w2}, nil)
	col.Start()

	const numFrames = 25
	for i := 0; i < numFrames; i++ {
		col.Enqueue(&model.DumpFrame{
			Data:      make([]byte, 200),
			Len:       200,
			Instance:  uint8(i),
			Timestamp: time.Now(),
		})
	}

	col.Stop()

	if w1.count() != numFrames {
		t.Errorf("Writer 1: expected %d frames, got %d", numFrames, w1.count())
	}
	if w2.count() != numFrames {
		t.Errorf("Writer 2: expected %d frames, got %d", numFrames, w2.count())
	}
	if !w1.closed || !w2.closed {
		t.Error("Stop must close all writers")
	}
}

func TestCollector_EnqueueNeverBlocks(t *testing.T) {
	// No workers are draining, so everything beyond the channel capacity
	// must be dropped instead of wedging the subscriber callback.
	col := New(1, 2, nil, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			col.Enqueue(&model.DumpFrame{Len: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full channel")
	}
}
