package series

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// RunInfoFile is the metadata file written next to the batches of a run.
const RunInfoFile = "series.yaml"

// RunInfo describes one run of a session.
type RunInfo struct {
	Session    string    `yaml:"session"`
	Name       string    `yaml:"name"`
	Directed   bool      `yaml:"directed"`
	Strategy   string    `yaml:"strategy"`
	Partition  int       `yaml:"partition,omitempty"`
	Metrics    []string  `yaml:"metrics"`
	Timestamps []int64   `yaml:"timestamps"`
	Started    time.Time `yaml:"started"`
	Finished   time.Time `yaml:"finished"`
	// Recommended is the strategy the profiler suggests for this workload.
	Recommended string `yaml:"recommended,omitempty"`
}

// WriteRunInfo stores info as runDir/series.yaml.
func WriteRunInfo(runDir string, info RunInfo) error {
	data, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("series: encode run info: %w", err)
	}
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("series: create run dir: %w", err)
	}
	return os.WriteFile(filepath.Join(runDir, RunInfoFile), data, 0o644)
}

// ReadRunInfo loads runDir/series.yaml.
func ReadRunInfo(runDir string) (RunInfo, error) {
	var info RunInfo
	p := filepath.Join(runDir, RunInfoFile)
	data, err := os.ReadFile(p)
	if err != nil {
		return info, fmt.Errorf("series: read run info: %w", err)
	}
	if err := yaml.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("%w: %s: %v", ErrMalformed, p, err)
	}
	return info, nil
}
