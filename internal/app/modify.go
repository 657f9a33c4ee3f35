package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ben-ranford/cmdast/internal/config"
	"github.com/ben-ranford/cmdast/internal/define"
	"github.com/ben-ranford/cmdast/internal/iduri"
	"github.com/ben-ranford/cmdast/internal/syntax"
)

func (a *App) executeModify(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Modify.File) == "" {
		return "", ErrMissingFile
	}
	repoAbs, path, err := resolveTarget(req.RepoPath, req.Modify.File)
	if err != nil {
		return "", err
	}

	loaded, err := config.Load(repoAbs, req.Modify.ConfigPath)
	if err != nil {
		return "", err
	}
	if loaded.ConfigPath != "" {
		a.Logger.Debug("loaded config", "path", loaded.ConfigPath)
	}
	settings := req.Modify.Overrides.Apply(loaded.Settings)

	opts, err := a.emitOptions(repoAbs, path, settings)
	if err != nil {
		return "", err
	}

	data, err := readSource(repoAbs, path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", req.Modify.File, err)
	}
	out, err := define.EmitSource(ctx, string(data), opts)
	if err != nil {
		return "", fmt.Errorf("modify %s: %w", req.Modify.File, err)
	}

	if !req.Modify.Write {
		return out, nil
	}
	if err := writeSource(repoAbs, path, []byte(out)); err != nil {
		return "", fmt.Errorf("write %s: %w", req.Modify.File, err)
	}
	a.Logger.Info("rewrote module definitions", "file", req.Modify.File)
	return "", nil
}

// emitOptions turns settings into emit mappings. An explicit value wins over
// a specific suffix, which wins over the shared suffix. Without an explicit id
// a package file supplies one through its id template.
func (a *App) emitOptions(repoAbs, path string, settings config.Settings) (define.EmitOptions, error) {
	pkg, err := loadPackage(repoAbs, settings.Package)
	if err != nil {
		return define.EmitOptions{}, err
	}

	opts := define.EmitOptions{
		Strict: settings.Strict,
		Print: syntax.PrintOptions{
			Compact:       !settings.Beautify,
			StripComments: !settings.Comments,
		},
		OnDiagnostic: func(d define.Diagnostic) {
			a.logDiagnostic(path, d)
		},
	}

	idSuffix := firstNonEmpty(settings.IDSuffix, settings.Suffix)
	switch {
	case settings.ID != "":
		opts.ID = define.Fixed(settings.ID)
	case pkg != nil:
		pkgWithFile := *pkg
		pkgWithFile.Filename = packageRelative(repoAbs, settings.Package, path)
		opts.ID = define.Fixed(iduri.IDFromPackage(pkgWithFile, "") + idSuffix)
	default:
		opts.ID = define.Suffix(idSuffix)
	}

	if settings.FixedDeps {
		opts.Dependencies = define.FixedList(settings.Dependencies)
	} else {
		opts.Dependencies = define.Suffix(firstNonEmpty(settings.DependencySuffix, settings.Suffix))
	}

	opts.Require = requireMapping(settings, pkg)
	return opts, nil
}

func requireMapping(settings config.Settings, pkg *iduri.Package) define.Mapping {
	base := define.Identity()
	switch {
	case len(settings.Require) > 0:
		base = define.Alias(settings.Require)
	case pkg != nil:
		base = iduri.AliasMapping(*pkg)
	}
	suffix := firstNonEmpty(settings.RequireSuffix, settings.Suffix)
	if suffix == "" {
		return base
	}
	if base.IsIdentity() {
		return define.Suffix(suffix)
	}
	return define.Transform(func(value string) string {
		return base.Apply(value) + suffix
	})
}

func loadPackage(repoAbs, packagePath string) (*iduri.Package, error) {
	if strings.TrimSpace(packagePath) == "" {
		return nil, nil
	}
	_, path, err := resolveTarget(repoAbs, packagePath)
	if err != nil {
		return nil, err
	}
	data, err := readSource(repoAbs, path)
	if err != nil {
		return nil, fmt.Errorf("read package %s: %w", packagePath, err)
	}
	pkg, err := iduri.ParsePackage(data)
	if err != nil {
		return nil, fmt.Errorf("load package %s: %w", packagePath, err)
	}
	return &pkg, nil
}

// packageRelative is the slash-separated path of file from the package
// file's directory.
func packageRelative(repoAbs, packagePath, file string) string {
	_, pkgFile, err := resolveTarget(repoAbs, packagePath)
	if err != nil {
		return filepath.Base(file)
	}
	rel, err := filepath.Rel(filepath.Dir(pkgFile), file)
	if err != nil {
		return filepath.Base(file)
	}
	return filepath.ToSlash(rel)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
