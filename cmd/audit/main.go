package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/advisory-audit/pkg/advisory"
	"github.com/advisory-audit/pkg/audit"
	"github.com/advisory-audit/pkg/config"
	"github.com/advisory-audit/pkg/manifest"
	"github.com/advisory-audit/pkg/matcher"
	"github.com/advisory-audit/pkg/reporter"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	var hadFindings bool

	rootCmd := &cobra.Command{
		Use:     "advisory-audit",
		Short:   "Match declared dependency ranges against known security advisories",
		Long:    `Reads a pre-built advisory database and a project's dependency manifests, and reports every advisory whose vulnerable version range overlaps a declared requirement range.`,
		Version: fmt.Sprintf("%s (%s)", version, commit),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &hadFindings)
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().String("db", "", "Path to the advisory database (.json, .yml or .sqlite)")
	rootCmd.Flags().StringSlice("manifest", nil, "Manifest file(s) to audit (auto-discovered if omitted)")
	rootCmd.Flags().String("path", ".", "Project directory to discover manifests in")
	rootCmd.Flags().String("package", "", "Query a single package instead of auditing manifests")
	rootCmd.Flags().String("module", "", "Query a single module name via the alias map")
	rootCmd.Flags().String("range", "", "Requirement range for --package/--module (empty means any version)")
	rootCmd.Flags().String("output", "table", "Output format: json | sarif | table")
	rootCmd.Flags().String("config", ".advisory-audit.yml", "Path to config file")
	rootCmd.Flags().StringSlice("ignore", nil, "Advisory IDs to ignore")
	rootCmd.Flags().Int("workers", 0, "Number of parallel audit workers")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
	if hadFindings {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, hadFindings *bool) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: could not load config file: %v (using defaults)\n", err)
		}
		cfg = config.Default()
	}
	cfg = config.MergeFlags(cfg, cmd.Flags())

	if cfg.Database == "" {
		return fmt.Errorf("no advisory database; specify --db or set database in config")
	}
	index, err := advisory.Load(cfg.Database)
	if err != nil {
		return err
	}

	m := matcher.New(index)
	out := reporter.New(cfg.Output)

	if pkg, _ := cmd.Flags().GetString("package"); pkg != "" {
		rng, _ := cmd.Flags().GetString("range")
		return queryOne(m, out, pkg, rng, hadFindings)
	}
	if mod, _ := cmd.Flags().GetString("module"); mod != "" {
		rng, _ := cmd.Flags().GetString("range")
		return queryModule(m, out, mod, rng, hadFindings)
	}

	reqs, err := collectRequirements(cmd, cfg)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		return fmt.Errorf("no manifests found; specify --manifest or point --path at a project")
	}

	report := audit.New(m, cfg).Run(reqs)
	*hadFindings = len(report.Findings) > 0
	return out.Report(report)
}

func collectRequirements(cmd *cobra.Command, cfg *config.Config) ([]manifest.Requirement, error) {
	if len(cfg.Manifests) > 0 {
		var reqs []manifest.Requirement
		for _, path := range cfg.Manifests {
			p, err := manifest.NewParser(path)
			if err != nil {
				return nil, err
			}
			found, err := p.Parse(path)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			reqs = append(reqs, found...)
		}
		return reqs, nil
	}

	dir, _ := cmd.Flags().GetString("path")
	return manifest.Discover(dir)
}

func queryOne(m *matcher.Matcher, out reporter.Reporter, pkg, rng string, hadFindings *bool) error {
	records, err := m.AdvisoriesFor(pkg, rng)
	if err != nil {
		return err
	}
	return renderRecords(out, pkg, rng, records, hadFindings)
}

func queryModule(m *matcher.Matcher, out reporter.Reporter, mod, rng string, hadFindings *bool) error {
	records, status, err := m.AdvisoriesForModule(mod, rng)
	if err != nil {
		return err
	}
	switch status {
	case matcher.ModuleUnmapped:
		fmt.Fprintf(os.Stderr, "module %s maps to no known package\n", mod)
	case matcher.PackageNotIndexed:
		fmt.Fprintf(os.Stderr, "package for module %s is not in the database\n", mod)
	}
	return renderRecords(out, mod, rng, records, hadFindings)
}

func renderRecords(out reporter.Reporter, name, rng string, records []advisory.Record, hadFindings *bool) error {
	report := audit.Report{}
	req := manifest.Requirement{Name: name, Range: rng}
	for _, rec := range records {
		report.Findings = append(report.Findings, audit.Finding{Requirement: req, Advisory: rec})
	}
	*hadFindings = len(report.Findings) > 0
	return out.Report(report)
}
