package cache

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Version tag baked into every key. Bumping it invalidates all cached
// entries when the value schema changes.
const Version = "v3"

// BuildKey builds a namespaced cache key. The identifier is
// canonicalized (lower-cased, whitespace collapsed to underscores) so
// the same entity always maps to the same key. A positive periodDays
// appends a bucket suffix.
func BuildKey(kind, identifier string, periodDays int) string {
	canonical := strings.Join(strings.Fields(strings.ToLower(identifier)), "_")
	if periodDays > 0 {
		return fmt.Sprintf("%s:%s:%s:%dd", Version, kind, canonical, periodDays)
	}
	return fmt.Sprintf("%s:%s:%s", Version, kind, canonical)
}

// HashTitles produces a stable hash of an ordered title list. Any
// change to content or order yields a different hash, which is what
// invalidates classification cache entries.
func HashTitles(titles []string) string {
	h := fnv.New64a()
	for i, t := range titles {
		if i > 0 {
			h.Write([]byte{'|'})
		}
		h.Write([]byte(t))
	}
	return fmt.Sprintf("%x", h.Sum64())
}
