package vrange

import (
	"strings"

	"github.com/advisory-audit/pkg/version"
)

// Interval is a contiguous range of versions. A nil Min or Max bound
// is unbounded on that side.
type Interval struct {
	Min          *version.Version
	Max          *version.Version
	MinInclusive bool
	MaxInclusive bool
}

// Unbounded returns an interval containing every version.
func Unbounded() Interval {
	return Interval{}
}

// Exact returns an interval containing exactly one version.
func Exact(v version.Version) Interval {
	return Interval{Min: &v, Max: &v, MinInclusive: true, MaxInclusive: true}
}

// AtLeast returns an interval bounded below by v.
func AtLeast(v version.Version, inclusive bool) Interval {
	return Interval{Min: &v, MinInclusive: inclusive}
}

// AtMost returns an interval bounded above by v.
func AtMost(v version.Version, inclusive bool) Interval {
	return Interval{Max: &v, MaxInclusive: inclusive}
}

// IsEmpty returns true if the interval contains no versions.
func (i Interval) IsEmpty() bool {
	if i.Min == nil || i.Max == nil {
		return false
	}
	cmp := i.Min.Compare(*i.Max)
	if cmp > 0 {
		return true
	}
	if cmp == 0 && (!i.MinInclusive || !i.MaxInclusive) {
		return true
	}
	return false
}

// IsUnbounded returns true if the interval contains every version.
func (i Interval) IsUnbounded() bool {
	return i.Min == nil && i.Max == nil
}

// Contains checks if the interval contains the given version.
func (i Interval) Contains(v version.Version) bool {
	if i.IsEmpty() {
		return false
	}
	if i.Min != nil {
		cmp := v.Compare(*i.Min)
		if cmp < 0 || (cmp == 0 && !i.MinInclusive) {
			return false
		}
	}
	if i.Max != nil {
		cmp := v.Compare(*i.Max)
		if cmp > 0 || (cmp == 0 && !i.MaxInclusive) {
			return false
		}
	}
	return true
}

// Intersect returns the intersection of two intervals. The result may
// be empty.
func (i Interval) Intersect(other Interval) Interval {
	result := Interval{}

	switch {
	case i.Min != nil && other.Min != nil:
		cmp := i.Min.Compare(*other.Min)
		if cmp > 0 || (cmp == 0 && !i.MinInclusive) {
			result.Min = i.Min
			result.MinInclusive = i.MinInclusive
		} else {
			result.Min = other.Min
			result.MinInclusive = other.MinInclusive
		}
		if cmp == 0 {
			result.MinInclusive = i.MinInclusive && other.MinInclusive
		}
	case i.Min != nil:
		result.Min = i.Min
		result.MinInclusive = i.MinInclusive
	case other.Min != nil:
		result.Min = other.Min
		result.MinInclusive = other.MinInclusive
	}

	switch {
	case i.Max != nil && other.Max != nil:
		cmp := i.Max.Compare(*other.Max)
		if cmp < 0 || (cmp == 0 && !i.MaxInclusive) {
			result.Max = i.Max
			result.MaxInclusive = i.MaxInclusive
		} else {
			result.Max = other.Max
			result.MaxInclusive = other.MaxInclusive
		}
		if cmp == 0 {
			result.MaxInclusive = i.MaxInclusive && other.MaxInclusive
		}
	case i.Max != nil:
		result.Max = i.Max
		result.MaxInclusive = i.MaxInclusive
	case other.Max != nil:
		result.Max = other.Max
		result.MaxInclusive = other.MaxInclusive
	}

	return result
}

// Overlaps returns true if the two intervals share at least one version.
func (i Interval) Overlaps(other Interval) bool {
	if i.IsEmpty() || other.IsEmpty() {
		return false
	}
	return !i.Intersect(other).IsEmpty()
}

// Subtract removes other from i, returning the zero, one or two
// intervals left over.
func (i Interval) Subtract(other Interval) []Interval {
	if i.IsEmpty() {
		return nil
	}
	x := i.Intersect(other)
	if x.IsEmpty() {
		return []Interval{i}
	}

	var out []Interval
	if x.Min != nil {
		left := Interval{
			Min:          i.Min,
			MinInclusive: i.MinInclusive,
			Max:          x.Min,
			MaxInclusive: !x.MinInclusive,
		}
		if !left.IsEmpty() {
			out = append(out, left)
		}
	}
	if x.Max != nil {
		right := Interval{
			Min:          x.Max,
			MinInclusive: !x.MaxInclusive,
			Max:          i.Max,
			MaxInclusive: i.MaxInclusive,
		}
		if !right.IsEmpty() {
			out = append(out, right)
		}
	}
	return out
}

// Adjacent returns true if the two intervals touch without
// overlapping, so their union is still one contiguous interval.
func (i Interval) Adjacent(other Interval) bool {
	if i.IsEmpty() || other.IsEmpty() {
		return false
	}
	if i.Max != nil && other.Min != nil && i.Max.Compare(*other.Min) == 0 {
		if i.MaxInclusive != other.MinInclusive {
			return true
		}
	}
	if i.Min != nil && other.Max != nil && i.Min.Compare(*other.Max) == 0 {
		if i.MinInclusive != other.MaxInclusive {
			return true
		}
	}
	return false
}

// union merges two overlapping or adjacent intervals. Returns false
// when the inputs are disjoint and cannot be represented as one
// interval.
func (i Interval) union(other Interval) (Interval, bool) {
	if i.IsEmpty() {
		return other, true
	}
	if other.IsEmpty() {
		return i, true
	}
	if !i.Overlaps(other) && !i.Adjacent(other) {
		return Interval{}, false
	}

	result := Interval{}

	if i.Min != nil && other.Min != nil {
		cmp := i.Min.Compare(*other.Min)
		if cmp < 0 || (cmp == 0 && i.MinInclusive) {
			result.Min = i.Min
			result.MinInclusive = i.MinInclusive
		} else {
			result.Min = other.Min
			result.MinInclusive = other.MinInclusive
		}
		if cmp == 0 {
			result.MinInclusive = i.MinInclusive || other.MinInclusive
		}
	}

	if i.Max != nil && other.Max != nil {
		cmp := i.Max.Compare(*other.Max)
		if cmp > 0 || (cmp == 0 && i.MaxInclusive) {
			result.Max = i.Max
			result.MaxInclusive = i.MaxInclusive
		} else {
			result.Max = other.Max
			result.MaxInclusive = other.MaxInclusive
		}
		if cmp == 0 {
			result.MaxInclusive = i.MaxInclusive || other.MaxInclusive
		}
	}

	return result, true
}

// String serializes the interval as a comparison-clause conjunction:
// "*" when unbounded, "==v" for a single point, otherwise the bound
// clauses joined by ",".
func (i Interval) String() string {
	if i.IsUnbounded() {
		return "*"
	}
	if i.Min != nil && i.Max != nil && i.MinInclusive && i.MaxInclusive && i.Min.Compare(*i.Max) == 0 {
		return "==" + i.Min.String()
	}

	var parts []string
	if i.Min != nil {
		op := ">"
		if i.MinInclusive {
			op = ">="
		}
		parts = append(parts, op+i.Min.String())
	}
	if i.Max != nil {
		op := "<"
		if i.MaxInclusive {
			op = "<="
		}
		parts = append(parts, op+i.Max.String())
	}
	return strings.Join(parts, ",")
}
