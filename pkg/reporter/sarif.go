package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/advisory-audit/pkg/audit"
)

type SARIFReporter struct {
	Out io.Writer
}

func (r *SARIFReporter) Report(report audit.Report) error {
	sarif := map[string]interface{}{
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"version": "2.1.0",
		"runs": []map[string]interface{}{
			{
				"tool": map[string]interface{}{
					"driver": map[string]interface{}{
						"name":           "advisory-audit",
						"informationUri": "https://github.com/advisory-audit",
						"rules":          buildRules(report.Findings),
					},
				},
				"results": buildResults(report.Findings),
			},
		},
	}

	enc := json.NewEncoder(r.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(sarif)
}

func buildRules(findings []audit.Finding) []map[string]interface{} {
	var rules []map[string]interface{}
	for _, f := range findings {
		rules = append(rules, map[string]interface{}{
			"id":               f.Advisory.ID,
			"shortDescription": map[string]string{"text": f.Advisory.Description},
			"helpUri":          firstReference(f.Advisory.References),
		})
	}
	return rules
}

func buildResults(findings []audit.Finding) []map[string]interface{} {
	var results []map[string]interface{}
	for _, f := range findings {
		required := f.Requirement.Range
		if required == "" {
			required = "any version"
		}
		results = append(results, map[string]interface{}{
			"ruleId": f.Advisory.ID,
			"level":  "warning",
			"message": map[string]string{
				"text": fmt.Sprintf("%s affects %s (required %s, affected %s)",
					f.Advisory.ID, f.Requirement.Name, required, f.Advisory.AffectedVersions),
			},
		})
	}
	return results
}

func firstReference(refs []string) string {
	if len(refs) > 0 {
		return refs[0]
	}
	return ""
}
