package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"skillboard/internal/view"
)

const reportFileName = "report.md"

type WriteOptions struct {
	Render    RenderOptions
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteReport renders the report and writes it to toDir/report.md.
func WriteReport(src view.Source, toDir string, opt WriteOptions) (WriteResult, error) {
	if src == nil {
		return WriteResult{}, errors.New("missing source")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	md := RenderReportMarkdown(src, opt.Render)

	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(toDir, reportFileName)
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
