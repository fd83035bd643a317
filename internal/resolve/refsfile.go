// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// RefsFile is the on-disk input for a batch resolution run: a mixed list
// of citation strings, DOIs and literal references alike.
type RefsFile struct {
	Citations []string `yaml:"citations"`
}

// ResolvedFile is the on-disk output of a batch resolution run.
type ResolvedFile struct {
	References []string        `yaml:"references"`
	Summary    ResolvedSummary `yaml:"summary"`
}

// ResolvedSummary stores run statistics and a timestamp.
type ResolvedSummary struct {
	Citations  int       `yaml:"citations"`
	References int       `yaml:"references"`
	Timestamp  time.Time `yaml:"timestamp"`
}

// ReadRefsFile loads a citations list from a YAML file.
func ReadRefsFile(path string) (*RefsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading refs file: %w", err)
	}
	var rf RefsFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing refs file: %w", err)
	}
	return &rf, nil
}

// WriteResolvedFile saves the merged reference list and a summary to a
// YAML file.
func WriteResolvedFile(path string, citations int, references []string) error {
	rf := ResolvedFile{
		References: references,
		Summary: ResolvedSummary{
			Citations:  citations,
			References: len(references),
			Timestamp:  time.Now(),
		},
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling resolved file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
