package probe

import (
	"log"

	"NavTrace/internal/config"
	"NavTrace/internal/frame"
	"NavTrace/internal/model"

	"github.com/nats-io/nats.go"
)

// FrameHandler is a function that processes a received dump frame.
type FrameHandler func(f *model.DumpFrame)

// Subscriber subscribes to a NATS subject and decodes dump frames.
type Subscriber struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	subject string
}

// NewSubscriber creates a new NATS subscriber.
func NewSubscriber(cfg config.NATSConfig) (*Subscriber, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.URL)
	return &Subscriber{nc: nc, subject: cfg.Subject}, nil
}

// Start subscribes to the configured subject and decodes every message into
// a dump frame for the handler. Undecodable messages are logged and dropped.
func (s *Subscriber) Start(handler FrameHandler) error {
	sub, err := s.nc.Subscribe(s.subject, func(msg *nats.Msg) {
		f, err := frame.Decode(msg.Data)
		if err != nil {
			log.Printf("Error decoding dump frame: %v", err)
			return
		}
		handler(f)
	})
	if err != nil {
		return err
	}
	s.sub = sub
	log.Printf("Subscribed to '%s'. Waiting for dump frames...", s.subject)
	return nil
}

// Close unsubscribes and closes the NATS connection.
func (s *Subscriber) Close() {
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	if s.nc != nil {
		s.nc.Close()
		log.Println("NATS connection closed.")
	}
}
