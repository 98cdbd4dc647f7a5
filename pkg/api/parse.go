package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// JobFilename is the name of job files picked up by discovery.
const JobFilename = ".expose-env.yaml"

// LoadJob reads a job file, sets Name/Dir/FilePath, and validates it.
func LoadJob(filename string) (*Job, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading job file: %w", err)
	}

	var j Job
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parsing job file: %w", err)
	}

	if err := ValidateSchema(data); err != nil {
		return nil, fmt.Errorf("validating job %s against schema: %w", filename, err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}
	j.FilePath = absPath
	j.Dir = filepath.Dir(absPath)
	j.Name = jobName(absPath)

	if err := j.Validate(); err != nil {
		return nil, fmt.Errorf("validating job %s: %w", filename, err)
	}

	return &j, nil
}

// jobName is the directory name for discovered job files, the file stem otherwise.
func jobName(absPath string) string {
	base := filepath.Base(absPath)
	if base == JobFilename {
		return filepath.Base(filepath.Dir(absPath))
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
