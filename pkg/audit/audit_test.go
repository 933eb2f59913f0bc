package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advisory-audit/pkg/advisory"
	"github.com/advisory-audit/pkg/config"
	"github.com/advisory-audit/pkg/manifest"
	"github.com/advisory-audit/pkg/matcher"
	"github.com/advisory-audit/pkg/vrange"
)

func testAuditor(t *testing.T, cfg *config.Config) *Auditor {
	t.Helper()
	idx, err := advisory.NewIndex(advisory.Database{
		Packages: map[string][]advisory.Record{
			"Foo": {
				{ID: "FOO-2023-001", AffectedVersions: ">=1.0,<2.0"},
			},
			"Bar": {
				{ID: "BAR-2023-001", AffectedVersions: ">=1.0", FixedVersions: ">=1.5"},
			},
		},
		Modules: map[string]string{"Foo::Util": "Foo"},
	})
	require.NoError(t, err)
	if cfg == nil {
		cfg = config.Default()
	}
	return New(matcher.New(idx), cfg)
}

func TestRun(t *testing.T) {
	a := testAuditor(t, nil)

	report := a.Run([]manifest.Requirement{
		{Name: "Foo", Range: ">=1.5,<1.8"},
		{Name: "Unknown", Range: ">=1.0"},
		{Name: "Bar", Range: "<1.2"},
	})

	require.Len(t, report.Findings, 2)
	assert.Empty(t, report.Problems)

	// Findings follow input requirement order.
	assert.Equal(t, "FOO-2023-001", report.Findings[0].Advisory.ID)
	assert.Equal(t, "BAR-2023-001", report.Findings[1].Advisory.ID)
}

// One malformed requirement becomes a Problem without losing results
// for the rest of the batch.
func TestRunIsolatesMalformedRequirement(t *testing.T) {
	a := testAuditor(t, nil)

	report := a.Run([]manifest.Requirement{
		{Name: "Foo", Range: ">=1.5,<1.8"},
		{Name: "Bar", Range: ">=abc"},
		{Name: "Bar", Range: "<1.2"},
	})

	require.Len(t, report.Findings, 2)
	require.Len(t, report.Problems, 1)
	assert.Equal(t, "Bar", report.Problems[0].Requirement.Name)
	assert.ErrorIs(t, report.Problems[0].Err, vrange.ErrMalformed)
}

func TestRunResolvesModuleAliases(t *testing.T) {
	a := testAuditor(t, nil)

	report := a.Run([]manifest.Requirement{
		{Name: "Foo::Util", Range: ">=1.5,<1.8"},
	})

	require.Len(t, report.Findings, 1)
	assert.Equal(t, "FOO-2023-001", report.Findings[0].Advisory.ID)
}

func TestRunIgnores(t *testing.T) {
	cfg := config.Default()
	cfg.Ignore.Advisories = []string{"FOO-2023-001"}
	a := testAuditor(t, cfg)

	report := a.Run([]manifest.Requirement{
		{Name: "Foo", Range: ">=1.5,<1.8"},
		{Name: "Bar", Range: "<1.2"},
	})
	require.Len(t, report.Findings, 1)
	assert.Equal(t, "BAR-2023-001", report.Findings[0].Advisory.ID)

	cfg = config.Default()
	cfg.Ignore.Packages = []string{"Bar"}
	a = testAuditor(t, cfg)

	report = a.Run([]manifest.Requirement{
		{Name: "Foo", Range: ">=1.5,<1.8"},
		{Name: "Bar", Range: "<1.2"},
	})
	require.Len(t, report.Findings, 1)
	assert.Equal(t, "FOO-2023-001", report.Findings[0].Advisory.ID)
}

func TestRunEmptyBatch(t *testing.T) {
	a := testAuditor(t, nil)
	report := a.Run(nil)
	assert.Empty(t, report.Findings)
	assert.Empty(t, report.Problems)
}

// A large batch exercises the worker fan-out while keeping output in
// input order.
func TestRunManyWorkers(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 8
	a := testAuditor(t, cfg)

	var reqs []manifest.Requirement
	for i := 0; i < 100; i++ {
		reqs = append(reqs, manifest.Requirement{Name: "Foo", Range: ">=1.0,<2.0"})
		reqs = append(reqs, manifest.Requirement{Name: "Unknown", Range: ""})
	}

	report := a.Run(reqs)
	require.Len(t, report.Findings, 100)
	for _, f := range report.Findings {
		assert.Equal(t, "Foo", f.Requirement.Name)
	}
}
