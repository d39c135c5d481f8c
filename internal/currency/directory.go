package currency

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const directoryKey = "currency:directory"

// Snapshot is an immutable view of the currency directory. Every reader
// receives a complete directory; a refresh swaps the whole document at
// once, never a partially updated one.
type Snapshot struct {
	currencies []Currency
	byID       map[int64]string
}

// NewSnapshot indexes the given entries. On duplicate ids the first
// entry wins.
func NewSnapshot(entries []Currency) Snapshot {
	byID := make(map[int64]string, len(entries))
	for _, c := range entries {
		if _, ok := byID[c.ID]; ok {
			continue
		}
		byID[c.ID] = c.Code
	}
	return Snapshot{currencies: entries, byID: byID}
}

// CodeFor returns the ISO code for a currency id, or the empty string
// when the directory has no such entry.
func (s Snapshot) CodeFor(id int64) string {
	return s.byID[id]
}

// Currencies returns the raw directory entries.
func (s Snapshot) Currencies() []Currency {
	return s.currencies
}

// Len reports how many entries the snapshot holds.
func (s Snapshot) Len() int {
	return len(s.currencies)
}

// Lister loads the directory from the backing store.
type Lister interface {
	ListCurrencies(ctx context.Context) ([]Currency, error)
}

// Directory is a read-through cache of the currency table. Reads fetch
// the cached JSON document from Redis and fall back to the store on a
// miss; the refresh job replaces the document out-of-band.
type Directory struct {
	repo   Lister
	client *redis.Client
	ttl    time.Duration
}

// NewDirectory constructs the directory cache.
func NewDirectory(repo Lister, client *redis.Client, ttl time.Duration) *Directory {
	return &Directory{repo: repo, client: client, ttl: ttl}
}

// Snapshot returns the current directory snapshot.
func (d *Directory) Snapshot(ctx context.Context) (Snapshot, error) {
	if d == nil || d.repo == nil {
		return Snapshot{}, errors.New("currency: directory not configured")
	}
	if d.client == nil {
		entries, err := d.repo.ListCurrencies(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		return NewSnapshot(entries), nil
	}

	payload, err := d.client.Get(ctx, directoryKey).Bytes()
	if err == nil {
		var entries []Currency
		if err := json.Unmarshal(payload, &entries); err == nil {
			return NewSnapshot(entries), nil
		}
		// Corrupt payload: fall through and rebuild from the store.
	} else if !errors.Is(err, redis.Nil) {
		return Snapshot{}, err
	}

	entries, err := d.load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(entries), nil
}

// Refresh reloads the directory from the store and replaces the cached
// document. It returns the number of entries written.
func (d *Directory) Refresh(ctx context.Context) (int, error) {
	entries, err := d.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (d *Directory) load(ctx context.Context) ([]Currency, error) {
	entries, err := d.repo.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	if d.client != nil {
		raw, err := json.Marshal(entries)
		if err != nil {
			return nil, err
		}
		if err := d.client.Set(ctx, directoryKey, raw, d.ttl).Err(); err != nil {
			return nil, err
		}
	}
	return entries, nil
}
