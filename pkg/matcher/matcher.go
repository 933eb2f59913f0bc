// Package matcher decides which advisories apply to a declared
// requirement range. A requirement matches an advisory when the
// requirement's range overlaps the advisory's effective vulnerable
// set: the affected range minus the fixed range, if one is present.
package matcher

import (
	"fmt"

	"github.com/advisory-audit/pkg/advisory"
	"github.com/advisory-audit/pkg/vrange"
)

// ModuleStatus describes how a module-name query resolved.
type ModuleStatus int

const (
	// ModuleUnmapped means the module name has no alias entry.
	ModuleUnmapped ModuleStatus = iota
	// PackageNotIndexed means the alias resolved, but the owning
	// package has no entry in the database.
	PackageNotIndexed
	// PackageIndexed means the owning package was found and queried.
	PackageIndexed
)

// Matcher answers overlap queries against an advisory index. It holds
// no mutable state and is safe for concurrent use.
type Matcher struct {
	index *advisory.Index
}

func New(index *advisory.Index) *Matcher {
	return &Matcher{index: index}
}

// AdvisoriesFor returns the advisories for a package whose effective
// vulnerable set overlaps the given requirement range, in database
// order.
//
// An unknown package yields an empty result, not an error. An empty
// or "0" requirement matches every advisory for the package. A
// malformed requirement is returned as an error for the caller to
// downgrade or surface; it never consults the index.
func (m *Matcher) AdvisoriesFor(pkg, requirement string) ([]advisory.Record, error) {
	req, err := vrange.Parse(requirement)
	if err != nil {
		return nil, fmt.Errorf("requirement for %s: %w", pkg, err)
	}

	records, ok := m.index.Lookup(pkg)
	if !ok {
		return nil, nil
	}

	var matched []advisory.Record
	for _, rec := range records {
		vulnerable, err := EffectiveVulnerableSet(rec)
		if err != nil {
			return nil, fmt.Errorf("advisory %s: %w", rec.ID, err)
		}
		if req.Intersects(vulnerable) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// AdvisoriesForModule resolves a module name through the alias map
// before querying. The status distinguishes a module with no alias
// from an aliased package that is simply absent from the database.
func (m *Matcher) AdvisoriesForModule(module, requirement string) ([]advisory.Record, ModuleStatus, error) {
	pkg, ok := m.index.ResolveModule(module)
	if !ok {
		return nil, ModuleUnmapped, nil
	}
	if _, indexed := m.index.Lookup(pkg); !indexed {
		return nil, PackageNotIndexed, nil
	}
	records, err := m.AdvisoriesFor(pkg, requirement)
	return records, PackageIndexed, err
}

// EffectiveVulnerableSet computes the advisory's vulnerable range:
// the affected range minus the fixed range when one is present.
func EffectiveVulnerableSet(rec advisory.Record) (vrange.RangeSet, error) {
	affected, err := vrange.Parse(rec.AffectedVersions)
	if err != nil {
		return nil, fmt.Errorf("affected_versions: %w", err)
	}
	if rec.FixedVersions == "" {
		return affected, nil
	}
	fixed, err := vrange.Parse(rec.FixedVersions)
	if err != nil {
		return nil, fmt.Errorf("fixed_versions: %w", err)
	}
	return affected.Subtract(fixed), nil
}
