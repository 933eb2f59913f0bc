package manifest

import (
	"bufio"
	"os"
	"strings"
)

// RequirementsParser reads pip-style requirement files. Unlike a
// lockfile of pinned versions, each line carries a full constraint
// expression, which is preserved verbatim as the requirement range.
type RequirementsParser struct{}

func (p *RequirementsParser) Kind() string { return "requirements" }

func (p *RequirementsParser) Parse(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reqs []Requirement
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}

		name, rng := splitRequirement(line)
		if name == "" {
			continue
		}
		reqs = append(reqs, Requirement{
			Name:   name,
			Range:  rng,
			Source: path,
		})
	}
	return reqs, scanner.Err()
}

// splitRequirement splits "name>=1.0,<2.0" into the name and the
// constraint expression that follows it.
func splitRequirement(line string) (name, rng string) {
	// Remove environment markers (e.g., "; python_version >= '3.6'")
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)

	if idx := strings.IndexAny(line, "><=!"); idx >= 0 {
		name = strings.TrimSpace(line[:idx])
		rng = strings.TrimSpace(line[idx:])
	} else {
		name = line
	}

	// Strip an extras suffix ("pkg[extra]")
	if idx := strings.Index(name, "["); idx >= 0 {
		name = name[:idx]
	}
	return name, rng
}
