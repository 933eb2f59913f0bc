package reporter

import (
	"io"
	"os"

	"github.com/advisory-audit/pkg/audit"
)

type Reporter interface {
	Report(report audit.Report) error
}

func New(format string) Reporter {
	return NewWriter(format, os.Stdout)
}

// NewWriter returns a reporter writing to w. Formats: json | sarif |
// table (default).
func NewWriter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{Out: w}
	case "sarif":
		return &SARIFReporter{Out: w}
	default:
		return &TableReporter{Out: w}
	}
}
