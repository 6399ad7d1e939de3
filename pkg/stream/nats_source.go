package stream

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSSource adapts a NATS subject subscription into a paced Source: every
// received message becomes one unit (its payload bytes), and closing the
// source signals end. Flow control is inherited from the embedded
// ChannelSource, so pausing the consumer buffers messages instead of
// dropping them.
type NATSSource struct {
	*ChannelSource
	sub *nats.Subscription
}

// NewNATSSource subscribes to subject on the given connection and returns a
// Source delivering message payloads as units. Callers must Close the source
// to release the subscription and signal end.
func NewNATSSource(conn *nats.Conn, subject string) (*NATSSource, error) {
	if conn == nil {
		return nil, fmt.Errorf("connection cannot be nil")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject cannot be empty")
	}

	cs := NewChannelSource()

	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		cs.Push(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %q: %w", subject, err)
	}

	return &NATSSource{
		ChannelSource: cs,
		sub:           sub,
	}, nil
}

// Close unsubscribes and marks the source exhausted. Units received before
// Close are still delivered ahead of the end signal.
func (s *NATSSource) Close() error {
	err := s.sub.Unsubscribe()
	s.ChannelSource.End()
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	return nil
}
