package reporter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/advisory-audit/pkg/audit"
)

var (
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	packageStyle = lipgloss.NewStyle().Bold(true)
	problemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type TableReporter struct {
	Out io.Writer
}

func (r *TableReporter) Report(report audit.Report) error {
	if len(report.Findings) == 0 && len(report.Problems) == 0 {
		fmt.Fprintln(r.Out, "No matching advisories found.")
		return nil
	}

	if len(report.Findings) > 0 {
		w := tabwriter.NewWriter(r.Out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ADVISORY\tPACKAGE\tREQUIRED\tAFFECTED\tFIXED")
		fmt.Fprintln(w, "--------\t-------\t--------\t--------\t-----")

		for _, f := range report.Findings {
			required := f.Requirement.Range
			if required == "" {
				required = "(any)"
			}
			fixed := f.Advisory.FixedVersions
			if fixed == "" {
				fixed = "(none)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				idStyle.Render(f.Advisory.ID),
				packageStyle.Render(f.Requirement.Name),
				required,
				f.Advisory.AffectedVersions,
				fixed,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	for _, p := range report.Problems {
		fmt.Fprintf(r.Out, "%s %s: %v\n",
			problemStyle.Render("warning:"), p.Requirement.Name, p.Err)
	}
	return nil
}
