package safeio

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileUnder replaces targetPath, which must resolve under rootDir. The
// content goes to a temporary sibling first and is renamed into place, so a
// failed write leaves the original file untouched. An existing file keeps its
// permissions.
func WriteFileUnder(rootDir, targetPath string, data []byte) error {
	rootAbs, rel, err := relativeUnder(rootDir, targetPath)
	if err != nil {
		return err
	}
	root, err := os.OpenRoot(rootAbs)
	if err != nil {
		return fmt.Errorf("open root: %w", err)
	}
	defer root.Close()

	perm := os.FileMode(0o644)
	if info, err := root.Stat(rel); err == nil {
		if info.IsDir() {
			return fmt.Errorf("write %s: is a directory", targetPath)
		}
		perm = info.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(rel), "."+filepath.Base(rel)+".cmdast-tmp")
	file, err := root.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		_ = root.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = root.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := root.Rename(tmp, rel); err != nil {
		_ = root.Remove(tmp)
		return fmt.Errorf("replace %s: %w", targetPath, err)
	}
	return nil
}

// WriteFile replaces the exact targetPath, rooted at its parent directory.
func WriteFile(targetPath string, data []byte) error {
	targetAbs, err := filepath.Abs(targetPath)
	if err != nil {
		return fmt.Errorf("resolve target path: %w", err)
	}
	return WriteFileUnder(filepath.Dir(targetAbs), targetAbs, data)
}
