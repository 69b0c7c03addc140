package progress

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stage maps a keyword found in a log line to a progress value
type Stage struct {
	Keyword  string  `yaml:"keyword"`
	Progress float64 `yaml:"progress"`
	Label    string  `yaml:"label"`
}

// DefaultStages is the built-in keyword table
var DefaultStages = []Stage{
	{Keyword: "download", Progress: 20, Label: "Downloading video"},
	{Keyword: "transcrib", Progress: 40, Label: "Transcribing audio"},
	{Keyword: "summar", Progress: 70, Label: "Generating summary"},
	{Keyword: "translat", Progress: 85, Label: "Translating summary"},
	{Keyword: "sentiment", Progress: 90, Label: "Analyzing sentiment"},
	{Keyword: "finaliz", Progress: 95, Label: "Finalizing"},
}

type stagesFile struct {
	Stages []Stage `yaml:"stages"`
}

// LoadStages reads a stage table from a YAML file of the form
//
//	stages:
//	  - keyword: download
//	    progress: 20
//	    label: Downloading video
func LoadStages(path string) ([]Stage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stages file: %w", err)
	}
	return ParseStages(data)
}

// ParseStages decodes and validates a YAML stage table
func ParseStages(data []byte) ([]Stage, error) {
	var f stagesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse stages: %w", err)
	}
	if len(f.Stages) == 0 {
		return nil, fmt.Errorf("stages file defines no stages")
	}

	for i, s := range f.Stages {
		if strings.TrimSpace(s.Keyword) == "" {
			return nil, fmt.Errorf("stage %d: keyword is required", i)
		}
		if s.Progress <= 0 || s.Progress >= 100 {
			return nil, fmt.Errorf("stage %q: progress must be between 0 and 100 exclusive", s.Keyword)
		}
		if s.Label == "" {
			f.Stages[i].Label = s.Keyword
		}
		f.Stages[i].Keyword = strings.ToLower(strings.TrimSpace(s.Keyword))
	}
	return f.Stages, nil
}
