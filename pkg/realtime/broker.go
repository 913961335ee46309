package realtime

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"stillhouse/domain"
	"stillhouse/internal/metrics"

	"go.uber.org/zap"
)

type (
	// Loader returns the full current contents of one collection for a user.
	Loader func(ctx context.Context, userID string) (any, error)

	Snapshot struct {
		Collection string    `json:"collection"`
		Data       any       `json:"data"`
		At         time.Time `json:"at"`

		seq uint64
	}

	// Fanout carries change notifications between API instances.
	Fanout interface {
		Publish(ctx context.Context, userID, collection string) error
		Listen(ctx context.Context, deliver func(userID, collection string)) error
	}

	Broker struct {
		mu      sync.RWMutex
		loaders map[string]Loader
		subs    map[topic]map[*Subscription]struct{}
		fanout  Fanout
		logger  *zap.Logger
		now     func() time.Time

		// loads orders snapshot loads; a load that started later is newer
		loads atomic.Uint64
	}

	topic struct {
		userID     string
		collection string
	}
)

func NewBroker(fanout Fanout, logger *zap.Logger) *Broker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broker{
		loaders: make(map[string]Loader),
		subs:    make(map[topic]map[*Subscription]struct{}),
		fanout:  fanout,
		logger:  logger,
		now:     time.Now,
	}
}

func (b *Broker) Register(collection string, loader Loader) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loaders[collection] = loader
}

// Subscribe opens a snapshot stream. The current snapshot is queued before
// Subscribe returns, unless a change delivered during the initial load has
// already queued something newer.
func (b *Broker) Subscribe(ctx context.Context, userID, collection string) (*Subscription, error) {
	b.mu.Lock()
	loader, ok := b.loaders[collection]
	if !ok {
		b.mu.Unlock()
		return nil, domain.ErrUnknownCollection
	}
	sub := newSubscription(b, topic{userID: userID, collection: collection})
	set, ok := b.subs[sub.topic]
	if !ok {
		set = make(map[*Subscription]struct{})
		b.subs[sub.topic] = set
	}
	set[sub] = struct{}{}
	b.mu.Unlock()
	metrics.ActiveSubscriptions.Inc()

	seq := b.loads.Add(1)
	data, err := loader(ctx, userID)
	if err != nil {
		sub.Cancel()
		return nil, err
	}
	sub.offer(Snapshot{Collection: collection, Data: data, At: b.now(), seq: seq})
	return sub, nil
}

// Notify tells every subscriber of (userID, collection) to refresh. With a
// fanout configured the refresh happens when the notification comes back
// through Run, on every instance.
func (b *Broker) Notify(ctx context.Context, userID, collection string) {
	if b.fanout != nil {
		err := b.fanout.Publish(ctx, userID, collection)
		if err == nil {
			return
		}
		b.logger.Warn("fanout publish failed, delivering locally",
			zap.String("collection", collection), zap.Error(err))
	}
	b.deliver(ctx, userID, collection)
}

// Run consumes the fanout until ctx is done. It returns immediately when no
// fanout is configured.
func (b *Broker) Run(ctx context.Context) error {
	if b.fanout == nil {
		return nil
	}
	return b.fanout.Listen(ctx, func(userID, collection string) {
		b.deliver(ctx, userID, collection)
	})
}

func (b *Broker) deliver(ctx context.Context, userID, collection string) {
	key := topic{userID: userID, collection: collection}

	b.mu.RLock()
	loader := b.loaders[collection]
	targets := make([]*Subscription, 0, len(b.subs[key]))
	for sub := range b.subs[key] {
		targets = append(targets, sub)
	}
	b.mu.RUnlock()

	if loader == nil || len(targets) == 0 {
		return
	}

	seq := b.loads.Add(1)
	data, err := loader(ctx, userID)
	if err != nil {
		b.logger.Error("failed to load snapshot",
			zap.String("user_id", userID),
			zap.String("collection", collection),
			zap.Error(err))
		return
	}

	snap := Snapshot{Collection: collection, Data: data, At: b.now(), seq: seq}
	for _, sub := range targets {
		sub.offer(snap)
	}
}

func (b *Broker) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.subs[sub.topic]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(b.subs, sub.topic)
	}
	metrics.ActiveSubscriptions.Dec()
}

// Subscribers reports how many subscriptions are open for a topic.
func (b *Broker) Subscribers(userID, collection string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic{userID: userID, collection: collection}])
}

// Notifier is the part of Broker that writers depend on.
type Notifier interface {
	Notify(ctx context.Context, userID, collection string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string, string) {}

// NopNotifier discards notifications.
func NopNotifier() Notifier {
	return nopNotifier{}
}
