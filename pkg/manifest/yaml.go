package manifest

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// YAMLParser reads a dependency-map manifest:
//
//	dependencies:
//	  some-package: ">=1.0,<2.0"
//	  other-package: ""
type YAMLParser struct{}

func (p *YAMLParser) Kind() string { return "yaml" }

type yamlManifest struct {
	Dependencies map[string]string `yaml:"dependencies"`
}

func (p *YAMLParser) Parse(path string) ([]Requirement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc yamlManifest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(doc.Dependencies))
	for name := range doc.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	reqs := make([]Requirement, 0, len(names))
	for _, name := range names {
		reqs = append(reqs, Requirement{
			Name:   name,
			Range:  doc.Dependencies[name],
			Source: path,
		})
	}
	return reqs, nil
}
