package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Sriram-PR/leakcrawl/pkg/models"
	"github.com/Sriram-PR/leakcrawl/pkg/utils"
)

// Paths names the three report files
type Paths struct {
	Detailed string // output_file
	Sorted   string // sorted_output_file
	NoURL    string // nourl_output_file
}

// Writer serializes reports as YAML files
type Writer struct {
	log *logrus.Entry
}

// NewWriter creates a report Writer
func NewWriter(log *logrus.Entry) *Writer {
	return &Writer{log: log}
}

// WriteAll derives the three views from one crawl and writes each to its file.
// Every file is attempted; the returned error joins all failures and wraps utils.ErrReportWrite.
func (w *Writer) WriteAll(paths Paths, crawled []string, pages map[string]*models.PageResult) error {
	reports := []struct {
		path  string
		label string
		data  any
	}{
		{paths.Detailed, "detailed", BuildDetailed(crawled, pages)},
		{paths.Sorted, "pattern-grouped", GroupByPattern(pages)},
		{paths.NoURL, "pattern-grouped (no URLs)", GroupByPatternNoURL(pages)},
	}

	var errs []error
	for _, r := range reports {
		if err := w.WriteYAML(r.path, r.data); err != nil {
			w.log.WithField("category", utils.CategorizeError(err)).Errorf("Failed to write %s report: %v", r.label, err)
			errs = append(errs, err)
			continue
		}
		w.log.Infof("Wrote %s report to %s", r.label, r.path)
	}
	return errors.Join(errs...)
}

// WriteYAML marshals v with a two-space indent and writes it to path, creating parent directories
func (w *Writer) WriteYAML(path string, v any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: encoding '%s': %w", utils.ErrReportWrite, path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: encoding '%s': %w", utils.ErrReportWrite, path, err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: creating directory for '%s': %w", utils.ErrReportWrite, path, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: '%s': %w", utils.ErrReportWrite, path, err)
	}
	return nil
}
