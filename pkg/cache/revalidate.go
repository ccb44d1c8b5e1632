package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Config controls a wrapped fetch function's revalidation window and the tags
// its entries can be bulk-invalidated by.
type Config struct {
	Revalidate time.Duration
	Tags       []string
}

// Preset configurations, picked by how often the underlying data changes.
var (
	ConfigShort  = Config{Revalidate: 5 * time.Minute, Tags: []string{"short-cache"}}
	ConfigMedium = Config{Revalidate: 30 * time.Minute, Tags: []string{"medium-cache"}}
	ConfigLong   = Config{Revalidate: time.Hour, Tags: []string{"long-cache"}}
	ConfigStatic = Config{Revalidate: 24 * time.Hour, Tags: []string{"static-cache"}}
)

// Well-known logical keys for the listing data paths. The listing category and
// further parameters travel as wrap arguments, not as part of the key.
const (
	KeyListingsByCategory = "listings-by-category"
	KeyListingBySlug      = "listing-by-slug"
	KeySearchListings     = "search-listings"
)

type revalidateEntry struct {
	value     interface{}
	expiresAt time.Time
	tags      []string
}

// Revalidator stores the results of wrapped fetch functions, keyed by logical
// name plus call arguments, for the duration of each entry's revalidation
// window. Entries sharing a tag can be force-expired together, independent of
// their window.
type Revalidator struct {
	mu      sync.RWMutex
	entries map[string]revalidateEntry
	now     func() time.Time
}

// NewRevalidator creates an empty revalidator.
func NewRevalidator() *Revalidator {
	return &Revalidator{
		entries: make(map[string]revalidateEntry),
		now:     time.Now,
	}
}

// Wrap memoizes fn under the given logical key. Calls with the same arguments
// inside the revalidation window return the stored result without invoking fn;
// the first call after the window re-invokes fn and resets the window. Errors
// are never cached: a failed call leaves no entry, so the next call retries.
//
// Two concurrent misses on the same key may both invoke fn; last write wins.
func Wrap[T any](r *Revalidator, key string, cfg Config, fn func(ctx context.Context, args ...string) (T, error)) func(ctx context.Context, args ...string) (T, error) {
	return func(ctx context.Context, args ...string) (T, error) {
		ek := entryKey(key, args)

		r.mu.RLock()
		entry, ok := r.entries[ek]
		r.mu.RUnlock()
		if ok && r.now().Before(entry.expiresAt) {
			if value, ok := entry.value.(T); ok {
				return value, nil
			}
		}

		value, err := fn(ctx, args...)
		if err != nil {
			return value, err
		}

		r.mu.Lock()
		r.entries[ek] = revalidateEntry{
			value:     value,
			expiresAt: r.now().Add(cfg.Revalidate),
			tags:      cfg.Tags,
		}
		r.mu.Unlock()
		return value, nil
	}
}

// InvalidateTag force-expires every entry carrying tag and returns how many
// were dropped.
func (r *Revalidator) InvalidateTag(tag string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for key, entry := range r.entries {
		for _, t := range entry.tags {
			if t == tag {
				delete(r.entries, key)
				dropped++
				break
			}
		}
	}
	return dropped
}

// InvalidateKey force-expires every entry under the logical key, regardless of
// the arguments it was called with.
func (r *Revalidator) InvalidateKey(key string) int {
	prefix := key + "|"
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for entryKey := range r.entries {
		if entryKey == key || strings.HasPrefix(entryKey, prefix) {
			delete(r.entries, entryKey)
			dropped++
		}
	}
	return dropped
}

// Sweep drops entries whose window has elapsed.
func (r *Revalidator) Sweep() {
	now := r.now()
	r.mu.Lock()
	for key, entry := range r.entries {
		if !now.Before(entry.expiresAt) {
			delete(r.entries, key)
		}
	}
	r.mu.Unlock()
}

func entryKey(key string, args []string) string {
	if len(args) == 0 {
		return key
	}
	return key + "|" + strings.Join(args, "|")
}

// Key composes a cache key from a base name and parameters, with parameter
// names sorted so key construction order does not matter.
func Key(base string, params map[string]string) string {
	if len(params) == 0 {
		return base
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(base)
	for _, name := range names {
		b.WriteByte('-')
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(params[name])
	}
	return b.String()
}
