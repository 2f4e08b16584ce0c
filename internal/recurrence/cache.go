package recurrence

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/crypto/blake2b"
)

const (
	defaultPreviewCacheSize = 256
	defaultPreviewCacheTTL  = 5 * time.Minute
)

// PreviewCache memoises previews for repeated identical inputs, which is the
// common case while an organizer edits the recurrence form.
type PreviewCache struct {
	entries *expirable.LRU[string, Preview]
}

// NewPreviewCache returns a cache holding at most size previews for ttl.
// Non-positive arguments select defaults.
func NewPreviewCache(size int, ttl time.Duration) *PreviewCache {
	if size <= 0 {
		size = defaultPreviewCacheSize
	}
	if ttl <= 0 {
		ttl = defaultPreviewCacheTTL
	}
	return &PreviewCache{entries: expirable.NewLRU[string, Preview](size, nil, ttl)}
}

// Get returns a cached preview.
func (c *PreviewCache) Get(key string) (Preview, bool) {
	if c == nil {
		return Preview{}, false
	}
	return c.entries.Get(key)
}

// Add stores preview under key.
func (c *PreviewCache) Add(key string, preview Preview) {
	if c == nil {
		return
	}
	c.entries.Add(key, preview)
}

// Len returns the number of live entries.
func (c *PreviewCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge drops every entry.
func (c *PreviewCache) Purge() {
	if c == nil {
		return
	}
	c.entries.Purge()
}

// Fingerprint derives a stable cache key from everything that influences
// expansion: the base slot, normalised settings, zone and horizon.
func Fingerprint(input Input, loc *time.Location, horizonMonths int) string {
	buf := make([]byte, 0, 128)
	buf = append(buf, loc.String()...)
	buf = append(buf, '|')
	buf = strconv.AppendInt(buf, int64(horizonMonths), 10)
	buf = append(buf, '|')
	buf = input.Base.StartAt.UTC().AppendFormat(buf, time.RFC3339Nano)
	buf = append(buf, '|')
	buf = input.Base.EndAt.UTC().AppendFormat(buf, time.RFC3339Nano)
	buf = append(buf, '|')
	buf = append(buf, input.Settings.Frequency...)
	buf = append(buf, '|')
	if input.Settings.Frequency == FrequencyWeekly {
		for _, day := range validWeekdays(input.Settings.SelectedDays) {
			buf = strconv.AppendInt(buf, int64(day), 10)
		}
	}
	buf = append(buf, '|')
	if input.Settings.EndDate != nil {
		buf = StartOfDay(*input.Settings.EndDate, loc).AppendFormat(buf, time.DateOnly)
	}

	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
