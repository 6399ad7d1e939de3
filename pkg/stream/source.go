// Package stream provides paced consumption of push-based data sources: units
// are processed strictly one at a time, the source is paused while
// asynchronous per-unit work is outstanding, and results accumulate in a
// shared Context returned when the source ends.
package stream

import "sync"

// Handlers receives a source's signals. A source must deliver signals
// serially: no handler is invoked while another invocation is in progress.
type Handlers struct {
	// Data is invoked once per delivered unit
	Data func(unit interface{})

	// Error is invoked when the source fails; no further signals follow
	Error func(err error)

	// End is invoked when the source is exhausted; no further signals follow
	End func()
}

// Source is a push-based data source with externally observable flow
// control. Delivery does not start until Resume is called; Pause suspends
// further Data delivery without dropping queued units.
type Source interface {
	// Deliver registers the handlers that receive this source's signals
	Deliver(h Handlers)

	// Pause suspends unit delivery until Resume
	Pause()

	// Resume starts or restarts unit delivery
	Resume()

	// IsPaused reports whether delivery is currently suspended
	IsPaused() bool
}

const (
	eventData = iota
	eventError
	eventEnd
)

type event struct {
	kind int
	unit interface{}
	err  error
}

// ChannelSource is an in-memory Source fed through its Push, Fail, and End
// producer methods. Producers may push from any goroutine; delivery to the
// registered handlers happens on a single pump goroutine, so handler
// invocations never overlap. It is the bridge for adapting arbitrary feeds
// into paced consumption.
type ChannelSource struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []event
	paused   bool
	closed   bool
	handlers Handlers
	started  bool
}

// NewChannelSource creates a ChannelSource. The source starts paused;
// delivery begins when a consumer calls Resume.
func NewChannelSource() *ChannelSource {
	s := &ChannelSource{paused: true}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Push enqueues one unit for delivery. Pushing after End or Fail is a no-op.
func (s *ChannelSource) Push(unit interface{}) {
	s.enqueue(event{kind: eventData, unit: unit})
}

// Fail terminates the source with an error. Exactly one of Fail or End may
// take effect; later terminal calls are no-ops.
func (s *ChannelSource) Fail(err error) {
	s.enqueue(event{kind: eventError, err: err})
}

// End marks the source exhausted. Units pushed before End are still
// delivered first.
func (s *ChannelSource) End() {
	s.enqueue(event{kind: eventEnd})
}

func (s *ChannelSource) enqueue(e event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if e.kind != eventData {
		s.closed = true
	}
	s.queue = append(s.queue, e)
	s.cond.Signal()
}

// Deliver registers the handlers and starts the pump goroutine. It must be
// called at most once.
func (s *ChannelSource) Deliver(h Handlers) {
	s.mu.Lock()
	s.handlers = h
	alreadyStarted := s.started
	s.started = true
	s.mu.Unlock()

	if !alreadyStarted {
		go s.pump()
	}
}

// Pause suspends delivery after the in-flight handler invocation returns
func (s *ChannelSource) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume restarts delivery of queued and future units
func (s *ChannelSource) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
	s.cond.Signal()
}

// IsPaused reports whether delivery is suspended
func (s *ChannelSource) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// pump delivers queued events one at a time, blocking while paused or while
// the queue is empty. It exits after dispatching a terminal event.
func (s *ChannelSource) pump() {
	for {
		s.mu.Lock()
		for s.paused || len(s.queue) == 0 {
			s.cond.Wait()
		}
		e := s.queue[0]
		s.queue = s.queue[1:]
		h := s.handlers
		s.mu.Unlock()

		switch e.kind {
		case eventData:
			if h.Data != nil {
				h.Data(e.unit)
			}
		case eventError:
			if h.Error != nil {
				h.Error(e.err)
			}
			return
		case eventEnd:
			if h.End != nil {
				h.End()
			}
			return
		}
	}
}
