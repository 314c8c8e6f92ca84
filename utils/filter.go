package utils

import (
	"bufio"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// FindSources lists the decompiled class files under cfg.SourceDir that pass
// the extension, file-name and package-of-interest filters. Paths are sorted.
func FindSources(cfg *Config, logger *slog.Logger) ([]string, error) {
	if _, err := os.Stat(cfg.SourceDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("source directory %s does not exist. Please decompile the client into it first", cfg.SourceDir)
	}

	entries, err := os.ReadDir(cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("error reading source directory: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("source directory %s is empty. Please decompile the client into it first", cfg.SourceDir)
	}

	var sources []string
	err = filepath.WalkDir(cfg.SourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !MatchesSource(cfg, path) {
			return nil
		}
		if !shouldIncludeFile(path, cfg.PackagesOfInterest, logger) {
			return nil
		}
		sources = append(sources, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", cfg.SourceDir, err)
	}

	sort.Strings(sources)
	return sources, nil
}

// MatchesSource applies the extension and file-name filters to a path.
func MatchesSource(cfg *Config, path string) bool {
	name := filepath.Base(path)
	if !slices.Contains(cfg.Extensions, filepath.Ext(name)) {
		return false
	}
	return len(cfg.Filter) == 0 || slices.Contains(cfg.Filter, name)
}

func shouldIncludeFile(path string, packagesOfInterest []string, logger *slog.Logger) bool {
	if len(packagesOfInterest) == 0 {
		return true
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Warn("error opening file", "path", path, "error", err)
		return false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		for _, pkg := range packagesOfInterest {
			if strings.Contains(line, pkg) {
				return true
			}
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Warn("error reading file", "path", path, "error", err)
	}
	return false
}
