package collector

import (
	"context"
	"log"
	"sync"

	"NavTrace/internal/model"
	"NavTrace/internal/storage"
	"NavTrace/internal/telemetry"
)

// Collector fans received dump frames out to every configured writer and to
// the latest-frame cache through a pool of workers.
type Collector struct {
	frameChan  chan *model.DumpFrame
	writers    []model.Writer
	latest     *storage.LatestStore
	numWorkers int
	wg         sync.WaitGroup
}

// New creates a Collector. latest may be nil when no cache is configured.
func New(numWorkers, channelSize int, writers []model.Writer, latest *storage.LatestStore) *Collector {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if channelSize <= 0 {
		channelSize = 1024
	}
	return &Collector{
		frameChan:  make(chan *model.DumpFrame, channelSize),
		writers:    writers,
		latest:     latest,
		numWorkers: numWorkers,
	}
}

// Start launches the worker pool.
func (c *Collector) Start() {
	c.wg.Add(c.numWorkers)
	for i := 0; i < c.numWorkers; i++ {
		go c.worker()
	}
	log.Printf("Collector started with %d workers and %d writers.", c.numWorkers, len(c.writers))
}

// Enqueue hands a frame to the worker pool without blocking the subscriber
// callback. Frames are dropped with a log line when the channel is full.
func (c *Collector) Enqueue(f *model.DumpFrame) {
	select {
	case c.frameChan <- f:
	default:
		log.Println("Collector: channel is full, dropping frame.")
	}
}

// Stop drains buffered frames, waits for the workers, and closes all writers.
func (c *Collector) Stop() {
	close(c.frameChan)
	c.wg.Wait()

	for _, w := range c.writers {
		if err := w.Close(); err != nil {
			log.Printf("Collector: error closing writer: %v", err)
		}
	}
	log.Println("Collector stopped.")
}

func (c *Collector) worker() {
	defer c.wg.Done()
	for f := range c.frameChan {
		for _, w := range c.writers {
			if err := w.Write(f); err != nil {
				log.Printf("Collector: error writing frame from instance %d: %v", f.Instance, err)
			}
		}
		if c.latest != nil {
			if err := c.latest.Set(context.Background(), f); err != nil {
				log.Printf("Collector: error caching latest frame: %v", err)
			}
		}
		telemetry.FramesStored.Inc()
	}
}
