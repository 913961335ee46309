package realtime

import "sync"

// Subscription delivers full snapshots on C. Only the newest undelivered
// snapshot is kept, so a slow reader never blocks Notify. A snapshot whose
// load started before one already offered is dropped.
type Subscription struct {
	C <-chan Snapshot

	ch     chan Snapshot
	topic  topic
	broker *Broker

	mu      sync.Mutex
	closed  bool
	lastSeq uint64
	once    sync.Once
}

func newSubscription(b *Broker, t topic) *Subscription {
	ch := make(chan Snapshot, 1)
	return &Subscription{
		C:      ch,
		ch:     ch,
		topic:  t,
		broker: b,
	}
}

func (s *Subscription) Collection() string {
	return s.topic.collection
}

func (s *Subscription) UserID() string {
	return s.topic.userID
}

// Cancel stops delivery and closes C. It is safe to call more than once and
// from any goroutine.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.broker.remove(s)

		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
	})
}

func (s *Subscription) offer(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || snap.seq < s.lastSeq {
		return
	}
	s.lastSeq = snap.seq
	select {
	case s.ch <- snap:
		return
	default:
	}
	// drop the stale snapshot and keep the newest
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- snap:
	default:
	}
}
