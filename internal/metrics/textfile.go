package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes every metric gathered from reg to path in the Prometheus
// text format. The file is replaced atomically so a scraper never reads a
// partial file.
func WriteTextfile(path string, reg *prom.Registry) error {
	if reg == nil {
		return fmt.Errorf("metrics: nil registry")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("metrics: create %s: %w", dir, err)
		}
	}
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
