package safeio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ben-ranford/cmdast/internal/testutil"
)

const unexpectedErrFmt = "unexpected error: %v"

func TestReadFileUnder(t *testing.T) {
	rootDir := t.TempDir()
	testutil.WriteTree(t, rootDir, map[string]string{"lib/app.js": "define({})"})

	data, err := ReadFileUnder(rootDir, filepath.Join(rootDir, "lib", "app.js"))
	if err != nil {
		t.Fatalf(unexpectedErrFmt, err)
	}
	if string(data) != "define({})" {
		t.Fatalf("unexpected content %q", data)
	}

	if _, err := ReadFileUnder(rootDir, filepath.Join(rootDir, "lib", "missing.js")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadFileUnderRejectsEscapes(t *testing.T) {
	parentDir := t.TempDir()
	rootDir := filepath.Join(parentDir, "repo")
	testutil.WriteTree(t, parentDir, map[string]string{
		"secret.js":  "secret",
		"repo/a.js": "a",
	})

	cases := map[string]string{
		"sibling":   filepath.Join(parentDir, "secret.js"),
		"traversal": filepath.Join(rootDir, "..", "secret.js"),
	}
	for name, target := range cases {
		_, err := ReadFileUnder(rootDir, target)
		if err == nil || !strings.Contains(err.Error(), "path escapes root") {
			t.Fatalf("%s: expected escape error, got %v", name, err)
		}
	}
}

func TestReadFileUnderRejectsSymlinkOutOfRoot(t *testing.T) {
	parentDir := t.TempDir()
	rootDir := filepath.Join(parentDir, "repo")
	testutil.WriteTree(t, parentDir, map[string]string{
		"secret.js":  "secret",
		"repo/a.js": "a",
	})
	link := filepath.Join(rootDir, "link.js")
	if err := os.Symlink(filepath.Join(parentDir, "secret.js"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if _, err := ReadFileUnder(rootDir, link); err == nil {
		t.Fatal("expected symlink escaping the root to be rejected")
	}
}

func TestReadFileUnderRejectsNonDirectoryRoot(t *testing.T) {
	rootFile := testutil.WriteTempFile(t, "root-file", "not-a-dir")

	_, err := ReadFileUnder(rootFile, rootFile)
	if err == nil || !strings.Contains(err.Error(), "open root") {
		t.Fatalf("expected open root error, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	path := testutil.WriteTempFile(t, "style.css", "/*! define x */")

	data, err := ReadFile(path)
	if err != nil {
		t.Fatalf(unexpectedErrFmt, err)
	}
	if string(data) != "/*! define x */" {
		t.Fatalf("unexpected content %q", data)
	}
}
