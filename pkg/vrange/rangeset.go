// Package vrange parses version range expressions into normalized
// sets of disjoint intervals and decides whether two sets overlap.
//
// A range expression is a list of comparison clauses joined by ","
// (intersection), e.g. ">=1.0,<2.0". Alternatives may be joined by
// "|" (union). An empty expression, "0" or "*" places no constraint.
package vrange

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/advisory-audit/pkg/version"
)

// ErrMalformed is returned when a range expression contains an
// unrecognized operator token or an operand that is not a valid
// version.
var ErrMalformed = errors.New("malformed range")

var operatorRegex = regexp.MustCompile(`^(>=|<=|==|!=|>|<)`)

// RangeSet is an ordered set of disjoint, non-adjacent intervals
// representing a version range. The zero value matches no versions.
type RangeSet []Interval

// Universal returns a RangeSet matching every version.
func Universal() RangeSet {
	return RangeSet{Unbounded()}
}

// Empty returns a RangeSet matching no versions.
func Empty() RangeSet {
	return RangeSet{}
}

// Parse parses a range expression into a normalized RangeSet.
//
// Each "|"-separated alternative is a conjunction of comma-separated
// clauses: an optional operator from {>=, <=, >, <, ==, !=} followed
// by a version. A bare version means exact equality. The clauses of
// one alternative tighten a single interval; "!=" clauses excise
// single points, splitting it. A conjunction whose lower bound
// exceeds its upper bound is an empty set, not an error.
func Parse(text string) (RangeSet, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "0" || text == "*" {
		return Universal(), nil
	}

	var set RangeSet
	for _, alt := range strings.Split(text, "|") {
		intervals, err := parseConjunction(alt)
		if err != nil {
			return nil, err
		}
		set = append(set, intervals...)
	}
	return normalize(set), nil
}

func parseConjunction(text string) ([]Interval, error) {
	iv := Unbounded()
	var excluded []version.Version

	for _, clause := range strings.Split(text, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" || clause == "0" || clause == "*" {
			continue
		}

		op := operatorRegex.FindString(clause)
		body := strings.TrimSpace(clause[len(op):])
		if op == "" {
			op = "=="
			body = clause
		}
		if body == "" {
			return nil, fmt.Errorf("%w: clause %q has no version", ErrMalformed, clause)
		}

		v, err := version.Parse(body)
		if err != nil {
			return nil, fmt.Errorf("%w: clause %q: %w", ErrMalformed, clause, err)
		}

		switch op {
		case ">", ">=":
			iv = iv.Intersect(AtLeast(v, op == ">="))
		case "<", "<=":
			iv = iv.Intersect(AtMost(v, op == "<="))
		case "==":
			iv = iv.Intersect(Exact(v))
		case "!=":
			excluded = append(excluded, v)
		}
	}

	if iv.IsEmpty() {
		return nil, nil
	}

	intervals := []Interval{iv}
	for _, v := range excluded {
		var next []Interval
		for _, cur := range intervals {
			next = append(next, cur.Subtract(Exact(v))...)
		}
		intervals = next
	}
	return intervals, nil
}

// normalize drops empty intervals, sorts by lower bound and merges
// overlapping or adjacent intervals.
func normalize(set RangeSet) RangeSet {
	var live []Interval
	for _, iv := range set {
		if !iv.IsEmpty() {
			live = append(live, iv)
		}
	}
	if len(live) == 0 {
		return RangeSet{}
	}

	sort.SliceStable(live, func(a, b int) bool {
		return lowerBoundLess(live[a], live[b])
	})

	merged := []Interval{live[0]}
	for _, iv := range live[1:] {
		last := &merged[len(merged)-1]
		if u, ok := last.union(iv); ok {
			*last = u
		} else {
			merged = append(merged, iv)
		}
	}
	return RangeSet(merged)
}

// lowerBoundLess orders intervals by lower bound; an unbounded lower
// bound sorts first, and at equal versions an inclusive bound sorts
// before an exclusive one.
func lowerBoundLess(a, b Interval) bool {
	if a.Min == nil {
		return b.Min != nil
	}
	if b.Min == nil {
		return false
	}
	cmp := a.Min.Compare(*b.Min)
	if cmp != 0 {
		return cmp < 0
	}
	return a.MinInclusive && !b.MinInclusive
}

// IsEmpty returns true if the set matches no versions.
func (r RangeSet) IsEmpty() bool {
	for _, iv := range r {
		if !iv.IsEmpty() {
			return false
		}
	}
	return true
}

// IsUniversal returns true if the set matches every version.
func (r RangeSet) IsUniversal() bool {
	for _, iv := range r {
		if iv.IsUnbounded() {
			return true
		}
	}
	return false
}

// Contains checks if any interval of the set contains the version.
func (r RangeSet) Contains(v version.Version) bool {
	for _, iv := range r {
		if iv.Contains(v) {
			return true
		}
	}
	return false
}

// Intersects reports whether the two sets share at least one version.
// The test is symmetric: r.Intersects(o) == o.Intersects(r).
func (r RangeSet) Intersects(other RangeSet) bool {
	for _, a := range r {
		for _, b := range other {
			if a.Overlaps(b) {
				return true
			}
		}
	}
	return false
}

// Intersect returns the normalized intersection of two sets.
func (r RangeSet) Intersect(other RangeSet) RangeSet {
	var out RangeSet
	for _, a := range r {
		for _, b := range other {
			x := a.Intersect(b)
			if !x.IsEmpty() {
				out = append(out, x)
			}
		}
	}
	return normalize(out)
}

// Subtract returns the normalized set of versions in r but not in
// other.
func (r RangeSet) Subtract(other RangeSet) RangeSet {
	remaining := make([]Interval, 0, len(r))
	for _, iv := range r {
		if !iv.IsEmpty() {
			remaining = append(remaining, iv)
		}
	}
	for _, b := range other {
		var next []Interval
		for _, a := range remaining {
			next = append(next, a.Subtract(b)...)
		}
		remaining = next
	}
	return normalize(RangeSet(remaining))
}

// Equal reports whether two normalized sets contain the same
// intervals.
func (r RangeSet) Equal(other RangeSet) bool {
	a := normalize(r)
	b := normalize(other)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !intervalEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func intervalEqual(a, b Interval) bool {
	return boundEqual(a.Min, b.Min, a.MinInclusive, b.MinInclusive) &&
		boundEqual(a.Max, b.Max, a.MaxInclusive, b.MaxInclusive)
}

func boundEqual(a, b *version.Version, aInc, bInc bool) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Compare(*b) == 0 && aInc == bInc
}

// String serializes the set so that Parse(r.String()) yields an equal
// set. The empty set serializes to the canonical contradiction
// ">0,<0".
func (r RangeSet) String() string {
	norm := normalize(r)
	if len(norm) == 0 {
		return ">0,<0"
	}
	if norm.IsUniversal() {
		return "*"
	}
	parts := make([]string, len(norm))
	for i, iv := range norm {
		parts[i] = iv.String()
	}
	return strings.Join(parts, "|")
}
