package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrNoSources = errors.New("no JavaScript sources found")

var sourceExtensions = map[string]bool{
	".js":  true,
	".cjs": true,
	".mjs": true,
}

var skipDirectories = map[string]bool{
	".git":         true,
	".idea":        true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	"vendor":       true,
	"sea-modules":  true,
	"spm_modules":  true,
}

// Source is a file selected for scanning.
type Source struct {
	Path    string
	RelPath string
}

func NormalizeRepoPath(path string) (string, error) {
	if path == "" {
		path = "."
	}
	return filepath.Abs(path)
}

func IsSourceFile(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

func ShouldSkipDir(name string) bool {
	return skipDirectories[name]
}

// CollectSources expands targets, relative to repoPath, into source files.
// Directories are walked with vendored and generated trees skipped; files
// named explicitly are kept whatever their extension. With no targets the
// whole repository is walked. Duplicates keep their first position.
func CollectSources(ctx context.Context, repoPath string, targets []string) ([]Source, error) {
	repoAbs, err := NormalizeRepoPath(repoPath)
	if err != nil {
		return nil, fmt.Errorf("resolve repo path: %w", err)
	}
	if len(targets) == 0 {
		targets = []string{repoAbs}
	}

	collector := sourceCollector{repo: repoAbs, seen: make(map[string]bool)}
	for _, target := range targets {
		if err := collector.add(ctx, target); err != nil {
			return nil, err
		}
	}
	if len(collector.sources) == 0 {
		return nil, ErrNoSources
	}
	return collector.sources, nil
}

type sourceCollector struct {
	repo    string
	seen    map[string]bool
	sources []Source
}

func (c *sourceCollector) add(ctx context.Context, target string) error {
	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.repo, path)
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", target, err)
	}
	if !info.IsDir() {
		c.append(path)
		return nil
	}

	return filepath.WalkDir(path, func(current string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if current != path && ShouldSkipDir(entry.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if IsSourceFile(current) {
			c.append(current)
		}
		return nil
	})
}

func (c *sourceCollector) append(path string) {
	if c.seen[path] {
		return
	}
	c.seen[path] = true
	rel, err := filepath.Rel(c.repo, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		rel = path
	}
	c.sources = append(c.sources, Source{Path: path, RelPath: filepath.ToSlash(rel)})
}
