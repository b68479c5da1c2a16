// Package ingest finds the PDF files to process and watches directories for
// new ones.
package ingest

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/energy-invoices/internal/common"
)

// DirStats summarizes a discovery walk.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Hidden  uint32
	Failed  uint32
}

// Discover returns the PDF files under root in lexical order. A root that
// is itself a PDF file yields just that file. Hidden files and directories
// are skipped; the extension match ignores case. Unreadable directories are
// logged and counted, not fatal.
func Discover(logger *slog.Logger, root string) ([]string, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var stats DirStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, common.NewAppError(common.CodeInput, "input path is required", common.ErrInvalidInput)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, stats, common.NewAppError(common.CodeInput, root, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}

	if !info.IsDir() {
		stats.Scanned = 1
		if !AllowedExt(filepath.Ext(root)) {
			return nil, stats, common.NewAppError(common.CodeInput, root, fmt.Errorf("%w: not a pdf file", common.ErrInvalidInput))
		}
		stats.Matched = 1
		return []string{root}, stats, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			logger.Warn("ingest.walk.failed", "path", path, "error", walkErr)
			stats.Failed++
			return nil
		}
		if path != root && IsHidden(path) {
			stats.Hidden++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return paths, stats, fmt.Errorf("walk: %w", err)
	}
	sort.Strings(paths)
	return paths, stats, nil
}
