package jwt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "stillhouse:revoked:"

// Denylist remembers revoked session ids until their token would have
// expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

type redisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) Denylist {
	return &redisDenylist{client: client}
}

func (d *redisDenylist) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, revokedKeyPrefix+sessionID, 1, ttl).Err()
}

func (d *redisDenylist) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	err := d.client.Get(ctx, revokedKeyPrefix+sessionID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type memoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryDenylist is used when no Redis is configured. Revocations do not
// survive a restart and are not shared between instances.
func NewMemoryDenylist() Denylist {
	return &memoryDenylist{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *memoryDenylist) Revoke(_ context.Context, sessionID string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for id, exp := range d.revoked {
		if !exp.After(now) {
			delete(d.revoked, id)
		}
	}
	if until.After(now) {
		d.revoked[sessionID] = until
	}
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if !exp.After(d.now()) {
		delete(d.revoked, sessionID)
		return false, nil
	}
	return true, nil
}
