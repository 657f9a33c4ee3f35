package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ben-ranford/cmdast/internal/cssblock"
	"github.com/ben-ranford/cmdast/internal/iduri"
	"github.com/ben-ranford/cmdast/internal/report"
	"github.com/ben-ranford/cmdast/internal/safeio"
	"github.com/ben-ranford/cmdast/internal/workspace"
	"github.com/charmbracelet/log"
)

var (
	ErrUnknownMode     = errors.New("unknown mode")
	ErrMissingFile     = errors.New("a file argument is required")
	ErrUnresolvableURI = errors.New("uri cannot be resolved")
)

type App struct {
	Formatter report.Formatter
	Logger    *log.Logger
}

func New(errOut io.Writer) *App {
	return &App{
		Formatter: report.NewFormatter(),
		Logger: log.NewWithOptions(errOut, log.Options{
			Prefix: "cmdast",
		}),
	}
}

func (a *App) Execute(ctx context.Context, req Request) (string, error) {
	if req.Verbose {
		a.Logger.SetLevel(log.DebugLevel)
	}
	switch req.Mode {
	case ModeScan:
		return a.executeScan(ctx, req)
	case ModeModify:
		return a.executeModify(ctx, req)
	case ModeCSS:
		return a.executeCSS(req)
	case ModeResolve:
		return a.executeResolve(req)
	default:
		return "", ErrUnknownMode
	}
}

func (a *App) executeCSS(req Request) (string, error) {
	if strings.TrimSpace(req.CSS.File) == "" {
		return "", ErrMissingFile
	}
	repoAbs, path, err := resolveTarget(req.RepoPath, req.CSS.File)
	if err != nil {
		return "", err
	}
	data, err := readSource(repoAbs, path)
	if err != nil {
		return "", err
	}
	root, err := cssblock.Parse(string(data))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", req.CSS.File, err)
	}
	return a.Formatter.FormatBlocks(root, req.CSS.Format)
}

func (a *App) executeResolve(req Request) (string, error) {
	meta, ok := iduri.Resolve(req.Resolve.URI)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnresolvableURI, req.Resolve.URI)
	}
	return a.Formatter.FormatMeta(meta, req.Resolve.Format)
}

// resolveTarget returns the absolute repo path and target, the latter joined
// onto the repo when relative.
func resolveTarget(repoPath, target string) (string, string, error) {
	repoAbs, err := workspace.NormalizeRepoPath(repoPath)
	if err != nil {
		return "", "", fmt.Errorf("resolve repo path: %w", err)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(repoAbs, target)
	}
	return repoAbs, filepath.Clean(target), nil
}

// readSource reads path through the repo root when it lies inside it.
func readSource(repoAbs, path string) ([]byte, error) {
	if isUnder(repoAbs, path) {
		return safeio.ReadFileUnder(repoAbs, path)
	}
	return safeio.ReadFile(path)
}

func writeSource(repoAbs, path string, data []byte) error {
	if isUnder(repoAbs, path) {
		return safeio.WriteFileUnder(repoAbs, path, data)
	}
	return safeio.WriteFile(path, data)
}

func isUnder(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
