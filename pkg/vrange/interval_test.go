package vrange

import (
	"testing"

	"github.com/advisory-audit/pkg/version"
)

func iv(t *testing.T, min, max string, minInc, maxInc bool) Interval {
	t.Helper()
	out := Interval{MinInclusive: minInc, MaxInclusive: maxInc}
	if min != "" {
		out.Min = ptr(t, min)
	}
	if max != "" {
		out.Max = ptr(t, max)
	}
	return out
}

func TestIntervalIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		iv   Interval
		want bool
	}{
		{"unbounded", Unbounded(), false},
		{"ordered bounds", iv(t, "1.0", "2.0", true, false), false},
		{"inverted bounds", iv(t, "2.0", "1.0", true, true), true},
		{"point inclusive", iv(t, "1.0", "1.0", true, true), false},
		{"point half open", iv(t, "1.0", "1.0", true, false), true},
		{"lower only", iv(t, "1.0", "", true, false), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.iv.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty(%v) = %v, want %v", tt.iv, got, tt.want)
			}
		})
	}
}

func TestIntervalContains(t *testing.T) {
	half := iv(t, "1.0", "2.0", true, false)

	for _, v := range []string{"1.0", "1.5", "1.999"} {
		if !half.Contains(version.MustParse(v)) {
			t.Errorf("Contains(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"0.9", "2.0", "1.0_01"} {
		if half.Contains(version.MustParse(v)) {
			t.Errorf("Contains(%q) = true, want false", v)
		}
	}
}

func TestIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"nested", iv(t, "1.0", "2.0", true, false), iv(t, "1.5", "1.8", true, false), true},
		{"disjoint", iv(t, "1.0", "2.0", true, false), iv(t, "2.0", "", true, false), false},
		{"touching inclusive", iv(t, "1.0", "2.0", true, true), iv(t, "2.0", "3.0", true, false), true},
		{"unbounded vs bounded", Unbounded(), iv(t, "1.0", "2.0", true, false), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps (flipped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalSubtract(t *testing.T) {
	base := iv(t, "1.0", "2.0", true, false)

	mid := base.Subtract(Exact(version.MustParse("1.5")))
	if len(mid) != 2 {
		t.Fatalf("Subtract(point) = %v, want 2 intervals", mid)
	}
	if mid[0].String() != ">=1.0,<1.5" || mid[1].String() != ">1.5,<2.0" {
		t.Errorf("Subtract(point) = %v | %v", mid[0], mid[1])
	}

	upper := base.Subtract(iv(t, "1.5", "", true, false))
	if len(upper) != 1 || upper[0].String() != ">=1.0,<1.5" {
		t.Errorf("Subtract(tail) = %v", upper)
	}

	all := base.Subtract(Unbounded())
	if len(all) != 0 {
		t.Errorf("Subtract(unbounded) = %v, want none", all)
	}

	disjoint := base.Subtract(iv(t, "3.0", "", true, false))
	if len(disjoint) != 1 || disjoint[0].String() != base.String() {
		t.Errorf("Subtract(disjoint) = %v", disjoint)
	}
}

func TestIntervalString(t *testing.T) {
	tests := []struct {
		iv   Interval
		want string
	}{
		{Unbounded(), "*"},
		{Exact(version.MustParse("1.5")), "==1.5"},
		{iv(t, "1.0", "2.0", true, false), ">=1.0,<2.0"},
		{iv(t, "1.0", "", false, false), ">1.0"},
		{iv(t, "", "2.0", false, true), "<=2.0"},
	}
	for _, tt := range tests {
		if got := tt.iv.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
