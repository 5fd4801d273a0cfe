package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sriram-PR/leakcrawl/pkg/utils"
)

// LoadConfig reads and parses the YAML config file at path. It does not validate.
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read config file '%s': %w", utils.ErrConfigLoad, path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse config file '%s': %w", utils.ErrConfigLoad, path, err)
	}
	return &cfg, nil
}

// LoadPatterns reads one regex pattern per line from path.
// Lines are trimmed; empty lines and lines starting with '#' are skipped.
func LoadPatterns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read regex file '%s': %w", utils.ErrPatternFile, path, err)
	}
	return ParsePatterns(data)
}

// ParsePatterns splits pattern file content into patterns.
func ParsePatterns(data []byte) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20) // Allow long patterns
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanning patterns: %w", utils.ErrPatternFile, err)
	}
	return patterns, nil
}
