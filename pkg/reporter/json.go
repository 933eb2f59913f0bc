package reporter

import (
	"encoding/json"
	"io"

	"github.com/advisory-audit/pkg/advisory"
	"github.com/advisory-audit/pkg/audit"
	"github.com/advisory-audit/pkg/manifest"
)

type JSONReporter struct {
	Out io.Writer
}

type jsonFinding struct {
	Requirement manifest.Requirement `json:"requirement"`
	Advisory    advisory.Record      `json:"advisory"`
}

type jsonProblem struct {
	Requirement manifest.Requirement `json:"requirement"`
	Error       string               `json:"error"`
}

func (r *JSONReporter) Report(report audit.Report) error {
	enc := json.NewEncoder(r.Out)
	enc.SetIndent("", "  ")

	type output struct {
		Count    int           `json:"count"`
		Findings []jsonFinding `json:"findings"`
		Problems []jsonProblem `json:"problems,omitempty"`
	}

	out := output{Count: len(report.Findings)}
	for _, f := range report.Findings {
		out.Findings = append(out.Findings, jsonFinding{Requirement: f.Requirement, Advisory: f.Advisory})
	}
	for _, p := range report.Problems {
		out.Problems = append(out.Problems, jsonProblem{Requirement: p.Requirement, Error: p.Err.Error()})
	}
	return enc.Encode(out)
}
