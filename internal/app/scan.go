package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/ben-ranford/cmdast/internal/define"
	"github.com/ben-ranford/cmdast/internal/report"
	"github.com/ben-ranford/cmdast/internal/syntax"
	"github.com/ben-ranford/cmdast/internal/workspace"
	"golang.org/x/sync/errgroup"
)

const maxListedParseErrors = 5

func (a *App) executeScan(ctx context.Context, req Request) (string, error) {
	repoAbs, err := workspace.NormalizeRepoPath(req.RepoPath)
	if err != nil {
		return "", fmt.Errorf("resolve repo path: %w", err)
	}
	sources, err := workspace.CollectSources(ctx, repoAbs, req.Scan.Paths)
	if err != nil {
		return "", err
	}

	files, err := a.scanSources(ctx, repoAbs, sources, req.Scan.Concurrency)
	if err != nil {
		return "", err
	}

	rep := report.Report{
		SchemaVersion: report.SchemaVersion,
		GeneratedAt:   time.Now().UTC(),
		RepoPath:      repoAbs,
		Files:         files,
		Summary:       report.ComputeSummary(files),
	}
	if warning := parseErrorWarning(files); warning != "" {
		rep.Warnings = append(rep.Warnings, warning)
	}
	a.Logger.Debug("scan finished", "files", rep.Summary.FileCount, "modules", rep.Summary.ModuleCount)
	return a.Formatter.Format(rep, req.Scan.Format)
}

// scanSources parses every source concurrently. Results keep the order of
// sources.
func (a *App) scanSources(ctx context.Context, repoAbs string, sources []workspace.Source, limit int) ([]report.FileReport, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	files := make([]report.FileReport, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, source := range sources {
		g.Go(func() error {
			file, err := a.scanFile(gctx, repoAbs, source)
			if err != nil {
				return err
			}
			files[i] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func (a *App) scanFile(ctx context.Context, repoAbs string, source workspace.Source) (report.FileReport, error) {
	file := report.FileReport{Path: source.RelPath, Modules: []report.Module{}}
	data, err := readSource(repoAbs, source.Path)
	if err != nil {
		return file, fmt.Errorf("read %s: %w", source.RelPath, err)
	}

	tree, err := syntax.Parse(ctx, data)
	if err != nil {
		var parseErr *syntax.ParseError
		if !errors.As(err, &parseErr) {
			return file, fmt.Errorf("parse %s: %w", source.RelPath, err)
		}
		a.Logger.Warn("skipping file with syntax errors", "file", source.RelPath, "line", parseErr.Line, "column", parseErr.Column)
		file.ParseError = &report.ParseError{
			Message:  parseErr.Error(),
			Location: report.Location{File: source.RelPath, Line: parseErr.Line, Column: parseErr.Column},
		}
		return file, nil
	}

	modules := define.ScanWith(tree, define.ScanOptions{OnDiagnostic: func(d define.Diagnostic) {
		a.logDiagnostic(source.RelPath, d)
		file.Diagnostics = append(file.Diagnostics, report.Diagnostic{
			Kind:     string(d.Kind),
			Message:  d.Message,
			Text:     d.Text,
			Location: report.Location{File: source.RelPath, Line: d.Span.Line, Column: d.Span.Column},
		})
	}})
	for _, module := range modules {
		file.Modules = append(file.Modules, moduleReport(source.RelPath, module))
	}
	return file, nil
}

func moduleReport(path string, module define.Module) report.Module {
	item := report.Module{
		Dependencies: module.Dependencies,
		Location:     report.Location{File: path, Line: module.Span.Line, Column: module.Span.Column},
		Arity:        module.Outcome.Arity,
		Inferred:     module.Outcome.Inferred,
		Fallbacks:    module.Outcome.Fallbacks(),
	}
	if module.HasID {
		item.ID = module.ID
	}
	if len(item.Fallbacks) == 0 {
		item.Fallbacks = nil
	}
	return item
}

func (a *App) logDiagnostic(path string, d define.Diagnostic) {
	a.Logger.Debug(d.Message, "file", path, "line", d.Span.Line, "column", d.Span.Column, "kind", d.Kind)
}

func parseErrorWarning(files []report.FileReport) string {
	failed := make([]string, 0)
	count := 0
	for _, file := range files {
		if file.ParseError == nil {
			continue
		}
		count++
		if len(failed) < maxListedParseErrors {
			failed = append(failed, file.Path)
		}
	}
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("parse errors in %d file(s): %s", count, strings.Join(failed, ", "))
}
