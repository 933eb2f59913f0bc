// Package audit runs batches of requirement queries against the
// matching engine. One malformed requirement becomes a Problem in the
// report; it never aborts the rest of the batch.
package audit

import (
	"sync"

	"github.com/advisory-audit/pkg/advisory"
	"github.com/advisory-audit/pkg/config"
	"github.com/advisory-audit/pkg/manifest"
	"github.com/advisory-audit/pkg/matcher"
)

// Finding pairs a declared requirement with one advisory whose
// vulnerable range overlaps it.
type Finding struct {
	Requirement manifest.Requirement
	Advisory    advisory.Record
}

// Problem records a requirement that could not be queried, usually
// because its range text failed to parse.
type Problem struct {
	Requirement manifest.Requirement
	Err         error
}

// Report is the outcome of one batch audit. Findings and Problems
// follow the input requirement order.
type Report struct {
	Findings []Finding
	Problems []Problem
}

type Auditor struct {
	matcher *matcher.Matcher
	config  *config.Config
}

func New(m *matcher.Matcher, cfg *config.Config) *Auditor {
	return &Auditor{matcher: m, config: cfg}
}

// Run queries every requirement and assembles the report. Queries are
// independent (the index is immutable), so they fan out across a
// bounded pool of workers; results are reassembled in input order.
func (a *Auditor) Run(reqs []manifest.Requirement) Report {
	type outcome struct {
		records []advisory.Record
		err     error
	}

	workers := a.config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(reqs) {
		workers = len(reqs)
	}

	outcomes := make([]outcome, len(reqs))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records, err := a.query(reqs[i])
				outcomes[i] = outcome{records: records, err: err}
			}
		}()
	}
	for i := range reqs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var report Report
	for i, req := range reqs {
		if outcomes[i].err != nil {
			report.Problems = append(report.Problems, Problem{Requirement: req, Err: outcomes[i].err})
			continue
		}
		for _, rec := range outcomes[i].records {
			if a.isIgnored(rec, req) {
				continue
			}
			report.Findings = append(report.Findings, Finding{Requirement: req, Advisory: rec})
		}
	}
	return report
}

// query resolves a requirement, trying the name first as a package
// and then as a module alias.
func (a *Auditor) query(req manifest.Requirement) ([]advisory.Record, error) {
	records, err := a.matcher.AdvisoriesFor(req.Name, req.Range)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return records, nil
	}
	records, status, err := a.matcher.AdvisoriesForModule(req.Name, req.Range)
	if err != nil || status != matcher.PackageIndexed {
		return nil, err
	}
	return records, nil
}

func (a *Auditor) isIgnored(rec advisory.Record, req manifest.Requirement) bool {
	for _, id := range a.config.Ignore.Advisories {
		if id == rec.ID {
			return true
		}
	}
	for _, pkg := range a.config.Ignore.Packages {
		if pkg == req.Name {
			return true
		}
	}
	return false
}
