// Package advisory provides the read-only advisory index: a mapping
// from package name to its known advisories, plus a module-name alias
// map, built once from a pre-built database file and never mutated.
package advisory

import (
	"fmt"

	"github.com/advisory-audit/pkg/vrange"
)

// Record is a single advisory as stored in the database.
type Record struct {
	ID               string   `json:"id" yaml:"id"`
	Description      string   `json:"description" yaml:"description"`
	AffectedVersions string   `json:"affected_versions" yaml:"affected_versions"`
	FixedVersions    string   `json:"fixed_versions,omitempty" yaml:"fixed_versions,omitempty"`
	References       []string `json:"references,omitempty" yaml:"references,omitempty"`
}

// Database is the document shape of an advisory database file:
// packages with their ordered advisory records, and a map from
// importable module name to the owning package.
type Database struct {
	Packages map[string][]Record `json:"packages" yaml:"packages"`
	Modules  map[string]string   `json:"modules,omitempty" yaml:"modules,omitempty"`
}

// Index is a validated, immutable view over a Database. Safe for
// concurrent use once constructed.
type Index struct {
	packages map[string][]Record
	modules  map[string]string
}

// NewIndex validates a Database and builds an Index from it. A record
// missing its id or affected range, or carrying an unparseable range
// expression, is a construction-time error.
func NewIndex(db Database) (*Index, error) {
	packages := make(map[string][]Record, len(db.Packages))
	for pkg, records := range db.Packages {
		if pkg == "" {
			return nil, fmt.Errorf("advisory database: empty package name")
		}
		for _, rec := range records {
			if err := validateRecord(pkg, rec); err != nil {
				return nil, err
			}
		}
		packages[pkg] = append([]Record(nil), records...)
	}

	modules := make(map[string]string, len(db.Modules))
	for mod, pkg := range db.Modules {
		if mod == "" || pkg == "" {
			return nil, fmt.Errorf("advisory database: incomplete module alias %q -> %q", mod, pkg)
		}
		modules[mod] = pkg
	}

	return &Index{packages: packages, modules: modules}, nil
}

func validateRecord(pkg string, rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("advisory database: package %s: record without id", pkg)
	}
	if rec.AffectedVersions == "" {
		return fmt.Errorf("advisory database: %s: missing affected_versions", rec.ID)
	}
	if _, err := vrange.Parse(rec.AffectedVersions); err != nil {
		return fmt.Errorf("advisory database: %s: affected_versions: %w", rec.ID, err)
	}
	if rec.FixedVersions != "" {
		if _, err := vrange.Parse(rec.FixedVersions); err != nil {
			return fmt.Errorf("advisory database: %s: fixed_versions: %w", rec.ID, err)
		}
	}
	return nil
}

// Lookup returns the ordered advisory records for a package. The
// second return is false when the package is not in the database at
// all; an absent package is not an error.
func (x *Index) Lookup(name string) ([]Record, bool) {
	records, ok := x.packages[name]
	return records, ok
}

// ResolveModule maps an importable module name to its owning package.
// Returns false when the module has no mapping.
func (x *Index) ResolveModule(module string) (string, bool) {
	pkg, ok := x.modules[module]
	return pkg, ok
}

// Packages returns the number of packages in the index.
func (x *Index) Packages() int { return len(x.packages) }
