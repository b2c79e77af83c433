package mr

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Job is the yaml job description consumed by the cmd/ binaries.
type Job struct {
	App             string `yaml:"app"`
	Input           string `yaml:"input"`
	Output          string `yaml:"output"`
	Tmp             string `yaml:"tmp"`
	Spillsz         int    `yaml:"spillsz"`
	Spillrecords    int    `yaml:"spillrecords"`
	Minspillcombine int    `yaml:"minspillcombine"`
}

func ReadJobConfig(path string) (*Job, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	job := &Job{}
	if err := yaml.Unmarshal(b, job); err != nil {
		return nil, fmt.Errorf("job config %v: %w", path, err)
	}
	return job, nil
}
