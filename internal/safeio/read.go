// Package safeio reads and writes files through os.Root so a path can never
// resolve outside the directory it was checked against.
package safeio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// relativeUnder returns targetPath relative to rootDir, both made absolute, or
// an error when targetPath escapes rootDir.
func relativeUnder(rootDir, targetPath string) (string, string, error) {
	rootAbs, err := filepath.Abs(rootDir)
	if err != nil {
		return "", "", fmt.Errorf("resolve root path: %w", err)
	}
	targetAbs, err := filepath.Abs(targetPath)
	if err != nil {
		return "", "", fmt.Errorf("resolve target path: %w", err)
	}
	rel, err := filepath.Rel(rootAbs, targetAbs)
	if err != nil {
		return "", "", fmt.Errorf("compute relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", "", fmt.Errorf("path escapes root: %s", targetPath)
	}
	return rootAbs, filepath.Clean(rel), nil
}

// ReadFileUnder reads targetPath only if it resolves under rootDir.
func ReadFileUnder(rootDir, targetPath string) ([]byte, error) {
	rootAbs, rel, err := relativeUnder(rootDir, targetPath)
	if err != nil {
		return nil, err
	}
	root, err := os.OpenRoot(rootAbs)
	if err != nil {
		return nil, fmt.Errorf("open root: %w", err)
	}
	defer root.Close()

	file, err := root.Open(rel)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// ReadFile reads the exact targetPath by opening its parent directory as a root.
func ReadFile(targetPath string) ([]byte, error) {
	targetAbs, err := filepath.Abs(targetPath)
	if err != nil {
		return nil, fmt.Errorf("resolve target path: %w", err)
	}
	return ReadFileUnder(filepath.Dir(targetAbs), targetAbs)
}
