package matcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advisory-audit/pkg/advisory"
	"github.com/advisory-audit/pkg/vrange"
)

func testIndex(t *testing.T) *advisory.Index {
	t.Helper()
	idx, err := advisory.NewIndex(advisory.Database{
		Packages: map[string][]advisory.Record{
			"Foo": {
				{ID: "FOO-2023-001", Description: "overflow", AffectedVersions: ">=1.0,<2.0"},
			},
			"Bar": {
				{ID: "BAR-2023-001", Description: "traversal", AffectedVersions: ">=1.0", FixedVersions: ">=1.5"},
				{ID: "BAR-2023-002", Description: "injection", AffectedVersions: "<0.9"},
			},
		},
		Modules: map[string]string{
			"Foo::Util":  "Foo",
			"Ghost::Mod": "Ghost",
		},
	})
	require.NoError(t, err)
	return idx
}

func ids(records []advisory.Record) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestAdvisoriesForAffectedOnly(t *testing.T) {
	m := New(testIndex(t))

	// Requirement inside the affected range matches.
	records, err := m.AdvisoriesFor("Foo", ">=1.5,<1.8")
	require.NoError(t, err)
	assert.Equal(t, []string{"FOO-2023-001"}, ids(records))

	// Requirement entirely above the affected range does not.
	records, err = m.AdvisoriesFor("Foo", ">=2.0")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAdvisoriesForFixedRange(t *testing.T) {
	m := New(testIndex(t))

	// Effective vulnerable set for BAR-2023-001 is [1.0, 1.5).
	records, err := m.AdvisoriesFor("Bar", ">=1.6")
	require.NoError(t, err)
	assert.Empty(t, records)

	// "<1.2" overlaps [1.0,1.5) and "<0.9".
	records, err = m.AdvisoriesFor("Bar", "<1.2")
	require.NoError(t, err)
	assert.Equal(t, []string{"BAR-2023-001", "BAR-2023-002"}, ids(records))
}

func TestAdvisoriesForUniversalRequirement(t *testing.T) {
	m := New(testIndex(t))

	for _, rng := range []string{"", "0"} {
		records, err := m.AdvisoriesFor("Bar", rng)
		require.NoError(t, err)
		assert.Equal(t, []string{"BAR-2023-001", "BAR-2023-002"}, ids(records),
			"requirement %q should match every advisory", rng)
	}
}

func TestAdvisoriesForUnknownPackage(t *testing.T) {
	m := New(testIndex(t))

	records, err := m.AdvisoriesFor("Nonexistent", ">=1.0")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAdvisoriesForMalformedRange(t *testing.T) {
	m := New(testIndex(t))

	_, err := m.AdvisoriesFor("Foo", ">=abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, vrange.ErrMalformed)

	// Malformed input must error even for packages not in the index:
	// the caller decides whether to downgrade, never the engine.
	_, err = m.AdvisoriesFor("Nonexistent", ">=abc")
	assert.Error(t, err)
}

func TestAdvisoriesForModule(t *testing.T) {
	m := New(testIndex(t))

	records, status, err := m.AdvisoriesForModule("Foo::Util", ">=1.5,<1.8")
	require.NoError(t, err)
	assert.Equal(t, PackageIndexed, status)
	assert.Equal(t, []string{"FOO-2023-001"}, ids(records))

	// Module with no alias entry.
	records, status, err = m.AdvisoriesForModule("No::Such", "")
	require.NoError(t, err)
	assert.Equal(t, ModuleUnmapped, status)
	assert.Empty(t, records)

	// Alias resolves, but the package has no database entry.
	records, status, err = m.AdvisoriesForModule("Ghost::Mod", "")
	require.NoError(t, err)
	assert.Equal(t, PackageNotIndexed, status)
	assert.Empty(t, records)
}

func TestEffectiveVulnerableSet(t *testing.T) {
	set, err := EffectiveVulnerableSet(advisory.Record{
		ID:               "X-1",
		AffectedVersions: ">=1.0",
		FixedVersions:    ">=1.5",
	})
	require.NoError(t, err)

	want, err := vrange.Parse(">=1.0,<1.5")
	require.NoError(t, err)
	assert.True(t, set.Equal(want), "got %v, want %v", set, want)

	_, err = EffectiveVulnerableSet(advisory.Record{ID: "X-2", AffectedVersions: "bogus()"})
	assert.True(t, errors.Is(err, vrange.ErrMalformed))
}
