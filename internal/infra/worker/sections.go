package worker

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SectionsFile is the YAML document read from WORKER_CONFIG_FILE.
//
//	sections:
//	  - business
//	  - world
type SectionsFile struct {
	Sections []string `yaml:"sections"`
}

// LoadSectionsFile reads the warm list from path.
// Entries are trimmed and de-duplicated in order; validation of the names is left to the warmer.
func LoadSectionsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read sections file: %w", err)
	}

	var doc SectionsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse sections file: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Sections))
	out := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}
