package iduri

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ben-ranford/cmdast/internal/define"
)

const DefaultIDFormat = "{{family}}/{{name}}/{{version}}/{{filename}}"

// Package is the subset of package.json the id helpers read.
type Package struct {
	Family   string            `json:"family"`
	Name     string            `json:"name"`
	Version  string            `json:"version"`
	Filename string            `json:"filename,omitempty"`
	Alias    map[string]string `json:"alias,omitempty"`
	Spm      struct {
		Alias map[string]string `json:"alias,omitempty"`
	} `json:"spm"`

	raw map[string]any
}

// ParsePackage decodes package.json content. Keys other than the typed fields
// stay available to IDFromPackage templates.
func ParsePackage(data []byte) (Package, error) {
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return Package{}, fmt.Errorf("invalid package json: %w", err)
	}
	if err := json.Unmarshal(data, &pkg.raw); err != nil {
		return Package{}, fmt.Errorf("invalid package json: %w", err)
	}
	return pkg, nil
}

// aliases prefers spm.alias over a top-level alias table.
func (p Package) aliases() map[string]string {
	if len(p.Spm.Alias) > 0 {
		return p.Spm.Alias
	}
	return p.Alias
}

// ParseAlias maps name through the package aliases. Relative names are never
// aliased; their ".js" extension is dropped instead.
func ParseAlias(pkg Package, name string) string {
	if strings.HasPrefix(name, ".") {
		return strings.TrimSuffix(name, defaultExt)
	}
	if alias, ok := pkg.aliases()[name]; ok {
		return alias
	}
	return name
}

func IsAlias(pkg Package, name string) bool {
	_, ok := pkg.aliases()[name]
	return ok
}

// AliasMapping rewrites require targets the way ParseAlias does.
func AliasMapping(pkg Package) define.Mapping {
	if len(pkg.aliases()) == 0 {
		return define.Identity()
	}
	return define.Transform(func(name string) string {
		return ParseAlias(pkg, name)
	})
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*(.*?)\s*\}\}`)

// IDFromPackage renders format (DefaultIDFormat when empty) with the package
// fields and strips a trailing ".js". A format starting with "." yields a
// relative id.
func IDFromPackage(pkg Package, format string) string {
	if format == "" {
		format = DefaultIDFormat
	}
	filename := strings.TrimPrefix(pkg.Filename, "./")
	id := placeholderPattern.ReplaceAllStringFunc(format, func(placeholder string) string {
		key := placeholderPattern.FindStringSubmatch(placeholder)[1]
		if key == "filename" {
			return filename
		}
		return pkg.lookup(key)
	})
	return strings.TrimSuffix(Normalize(id), defaultExt)
}

func (p Package) lookup(key string) string {
	switch key {
	case "family":
		return p.Family
	case "name":
		return p.Name
	case "version":
		return p.Version
	}

	var current any = p.raw
	for _, part := range strings.Split(key, ".") {
		fields, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		if current, ok = fields[part]; !ok {
			return ""
		}
	}
	switch value := current.(type) {
	case string:
		return value
	case float64, bool:
		return fmt.Sprint(value)
	default:
		return ""
	}
}
