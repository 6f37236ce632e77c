package probe

import (
	"log"

	"NavTrace/internal/config"
	"NavTrace/internal/frame"
	"NavTrace/internal/model"

	"github.com/nats-io/nats.go"
)

// Publisher publishes dump frames to a NATS subject. It implements
// model.Sink, so it plugs directly into an accumulator as its flush sink.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.URL)
	return &Publisher{nc: nc, subject: cfg.Subject}, nil
}

// Flush encodes a dump frame and publishes it to the configured subject.
// Encoding copies the payload, so the accumulator may reuse its buffer as
// soon as Flush returns.
func (p *Publisher) Flush(f *model.DumpFrame) error {
	return p.nc.Publish(p.subject, frame.Encode(f))
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		log.Println("NATS connection drained and closed.")
	}
}
