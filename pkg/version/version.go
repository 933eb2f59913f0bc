// Package version parses heterogeneous version strings into totally
// ordered values. Versions are sequences of numeric segments
// ("1.2.3"), optionally followed by a development suffix introduced by
// "_" or "-" ("1.0_01", "1.2-alpha") that sorts below the plain
// release with the same segments.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrMalformed is returned when a version string contains no
// recognizable numeric segment.
var ErrMalformed = errors.New("malformed version")

// Version is a parsed, immutable version value.
type Version struct {
	segments []int64
	dev      bool
	devOrd   int64
	original string
}

// versionCache caches parsed versions to avoid re-parsing the same strings.
var versionCache = &boundedCache{
	items: make(map[string]Version),
	max:   10000,
}

type boundedCache struct {
	mu    sync.RWMutex
	items map[string]Version
	max   int
}

func (c *boundedCache) Load(key string) (Version, bool) {
	c.mu.RLock()
	v, ok := c.items[key]
	c.mu.RUnlock()
	return v, ok
}

func (c *boundedCache) Store(key string, value Version) {
	c.mu.Lock()
	if len(c.items) >= c.max {
		c.items = make(map[string]Version)
	}
	c.items[key] = value
	c.mu.Unlock()
}

// Parse parses a version string into a Version.
//
// A leading "v" is stripped. The portion before the first "_" or "-"
// is split on "." and each part's leading digit run becomes a numeric
// segment. A non-empty suffix after "_" or "-" marks a development
// version; the suffix's leading digit run (default 0) is the
// development ordinal.
func Parse(s string) (Version, error) {
	if cached, ok := versionCache.Load(s); ok {
		return cached, nil
	}

	text := strings.TrimSpace(s)
	if len(text) > 1 && (text[0] == 'v' || text[0] == 'V') {
		text = text[1:]
	}
	if text == "" {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	base := text
	suffix := ""
	if idx := strings.IndexAny(text, "_-"); idx >= 0 {
		base = text[:idx]
		suffix = text[idx+1:]
	}

	var segments []int64
	for _, part := range strings.Split(base, ".") {
		n, ok := leadingInt(part)
		if !ok {
			break
		}
		segments = append(segments, n)
	}
	if len(segments) == 0 {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	v := Version{segments: segments, original: s}
	if suffix != "" {
		v.dev = true
		v.devOrd, _ = leadingInt(suffix)
	}

	versionCache.Store(s, v)
	return v, nil
}

// MustParse parses a version string and panics on error. Intended for
// fixed versions in tests and package variables.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// leadingInt parses the leading digit run of s. Returns false if s
// does not start with a digit.
func leadingInt(s string) (int64, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Segments returns a copy of the numeric segments.
func (v Version) Segments() []int64 {
	out := make([]int64, len(v.segments))
	copy(out, v.segments)
	return out
}

// IsDev returns true if this is a development (pre-release) version.
func (v Version) IsDev() bool { return v.dev }

// DevOrdinal returns the development ordinal, 0 for release versions.
func (v Version) DevOrdinal() int64 { return v.devOrd }

// String returns the original input string.
func (v Version) String() string {
	if v.original != "" {
		return v.original
	}
	parts := make([]string, len(v.segments))
	for i, seg := range v.segments {
		parts[i] = strconv.FormatInt(seg, 10)
	}
	return strings.Join(parts, ".")
}

// Compare compares v to other.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
//
// Segments are compared pairwise with the shorter list zero-padded,
// then a release sorts above a development version with equal
// segments, then development ordinals break the tie.
func (v Version) Compare(other Version) int {
	n := len(v.segments)
	if len(other.segments) > n {
		n = len(other.segments)
	}
	for i := 0; i < n; i++ {
		var a, b int64
		if i < len(v.segments) {
			a = v.segments[i]
		}
		if i < len(other.segments) {
			b = other.segments[i]
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}

	if !v.dev && other.dev {
		return 1
	}
	if v.dev && !other.dev {
		return -1
	}
	if v.devOrd < other.devOrd {
		return -1
	}
	if v.devOrd > other.devOrd {
		return 1
	}
	return 0
}

// Equal returns true if v and other compare equal.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// Compare compares two version strings.
// Returns an error if either string fails to parse.
func Compare(a, b string) (int, error) {
	va, err := Parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// Valid checks if a version string is parseable.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}
