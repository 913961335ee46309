package realtime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"stillhouse/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func counterLoader(n *atomic.Int64) Loader {
	return func(_ context.Context, _ string) (any, error) {
		return n.Load(), nil
	}
}

func receive(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.C:
		require.True(t, ok, "channel closed unexpectedly")
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func assertNothingPending(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case snap := <-sub.C:
		t.Fatalf("unexpected snapshot %v", snap.Data)
	default:
	}
}

func TestSubscribeDeliversCurrentSnapshot(t *testing.T) {
	var n atomic.Int64
	n.Store(7)
	b := NewBroker(nil, nil)
	b.Register(domain.CollectionInventory, counterLoader(&n))

	sub, err := b.Subscribe(context.Background(), "u1", domain.CollectionInventory)
	require.NoError(t, err)
	defer sub.Cancel()

	snap := receive(t, sub)
	assert.Equal(t, domain.CollectionInventory, snap.Collection)
	assert.Equal(t, int64(7), snap.Data)
	assert.Equal(t, 1, b.Subscribers("u1", domain.CollectionInventory))
}

func TestSubscribeUnknownCollection(t *testing.T) {
	b := NewBroker(nil, nil)

	_, err := b.Subscribe(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownCollection)
}

func TestSubscribeLoaderFailure(t *testing.T) {
	b := NewBroker(nil, nil)
	b.Register(domain.CollectionRecipes, func(context.Context, string) (any, error) {
		return nil, errors.New("db down")
	})

	_, err := b.Subscribe(context.Background(), "u1", domain.CollectionRecipes)
	assert.Error(t, err)
	assert.Zero(t, b.Subscribers("u1", domain.CollectionRecipes))
}

func TestNotifyKeepsLatestSnapshot(t *testing.T) {
	var n atomic.Int64
	b := NewBroker(nil, nil)
	b.Register(domain.CollectionInventory, counterLoader(&n))

	sub, err := b.Subscribe(context.Background(), "u1", domain.CollectionInventory)
	require.NoError(t, err)
	defer sub.Cancel()

	for i := 1; i <= 3; i++ {
		n.Store(int64(i))
		b.Notify(context.Background(), "u1", domain.CollectionInventory)
	}

	assert.Equal(t, int64(3), receive(t, sub).Data)
	assertNothingPending(t, sub)
}

func TestNotifyDuringInitialLoadWins(t *testing.T) {
	var (
		version atomic.Int64
		calls   atomic.Int64
	)
	entered := make(chan struct{})
	release := make(chan struct{})

	b := NewBroker(nil, nil)
	b.Register(domain.CollectionInventory, func(context.Context, string) (any, error) {
		v := version.Load()
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
		return v, nil
	})

	type result struct {
		sub *Subscription
		err error
	}
	done := make(chan result, 1)
	go func() {
		sub, err := b.Subscribe(context.Background(), "u1", domain.CollectionInventory)
		done <- result{sub: sub, err: err}
	}()

	<-entered
	version.Store(1)
	b.Notify(context.Background(), "u1", domain.CollectionInventory)
	close(release)

	res := <-done
	require.NoError(t, res.err)
	defer res.sub.Cancel()

	assert.Equal(t, int64(1), receive(t, res.sub).Data)
	assertNothingPending(t, res.sub)
}

func TestNotifyIsScopedToUserAndCollection(t *testing.T) {
	var n atomic.Int64
	b := NewBroker(nil, nil)
	b.Register(domain.CollectionInventory, counterLoader(&n))
	b.Register(domain.CollectionRecipes, counterLoader(&n))

	mine, err := b.Subscribe(context.Background(), "u1", domain.CollectionInventory)
	require.NoError(t, err)
	defer mine.Cancel()
	other, err := b.Subscribe(context.Background(), "u2", domain.CollectionInventory)
	require.NoError(t, err)
	defer other.Cancel()
	recipes, err := b.Subscribe(context.Background(), "u1", domain.CollectionRecipes)
	require.NoError(t, err)
	defer recipes.Cancel()
	receive(t, mine)
	receive(t, other)
	receive(t, recipes)

	n.Store(1)
	b.Notify(context.Background(), "u1", domain.CollectionInventory)

	assert.Equal(t, int64(1), receive(t, mine).Data)
	assertNothingPending(t, other)
	assertNothingPending(t, recipes)
}

func TestCancelClosesChannelAndStopsDelivery(t *testing.T) {
	var n atomic.Int64
	b := NewBroker(nil, nil)
	b.Register(domain.CollectionInventory, counterLoader(&n))

	sub, err := b.Subscribe(context.Background(), "u1", domain.CollectionInventory)
	require.NoError(t, err)

	sub.Cancel()
	sub.Cancel()
	assert.Zero(t, b.Subscribers("u1", domain.CollectionInventory))

	b.Notify(context.Background(), "u1", domain.CollectionInventory)

	// the initial snapshot may still be buffered; after it the channel is closed
	for range sub.C {
	}
	_, ok := <-sub.C
	assert.False(t, ok)
}

func TestConcurrentNotifyAndCancel(t *testing.T) {
	var n atomic.Int64
	b := NewBroker(nil, nil)
	b.Register(domain.CollectionInventory, counterLoader(&n))

	subs := make([]*Subscription, 20)
	for i := range subs {
		sub, err := b.Subscribe(context.Background(), "u1", domain.CollectionInventory)
		require.NoError(t, err)
		subs[i] = sub
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				n.Add(1)
				b.Notify(context.Background(), "u1", domain.CollectionInventory)
			}
		}()
	}
	for _, sub := range subs {
		wg.Add(1)
		go func(s *Subscription) {
			defer wg.Done()
			s.Cancel()
		}(sub)
	}
	wg.Wait()

	assert.Zero(t, b.Subscribers("u1", domain.CollectionInventory))
}

type chanFanout struct {
	ch chan [2]string
}

func (f *chanFanout) Publish(_ context.Context, userID, collection string) error {
	f.ch <- [2]string{userID, collection}
	return nil
}

func (f *chanFanout) Listen(ctx context.Context, deliver func(userID, collection string)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-f.ch:
			deliver(msg[0], msg[1])
		}
	}
}

func TestRunDeliversFanoutNotifications(t *testing.T) {
	var n atomic.Int64
	fanout := &chanFanout{ch: make(chan [2]string, 4)}
	b := NewBroker(fanout, nil)
	b.Register(domain.CollectionBottlingLogs, counterLoader(&n))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	sub, err := b.Subscribe(ctx, "u1", domain.CollectionBottlingLogs)
	require.NoError(t, err)
	defer sub.Cancel()
	receive(t, sub)

	n.Store(42)
	b.Notify(ctx, "u1", domain.CollectionBottlingLogs)
	assert.Equal(t, int64(42), receive(t, sub).Data)

	cancel()
	require.NoError(t, <-done)
}

func TestRunWithoutFanoutReturns(t *testing.T) {
	b := NewBroker(nil, nil)
	assert.NoError(t, b.Run(context.Background()))
}
