package config

import (
	"fmt"
	"maps"
	"strings"
)

type rawConfig struct {
	ID               *string           `yaml:"id" json:"id" toml:"id"`
	IDSuffix         *string           `yaml:"id_suffix" json:"id_suffix" toml:"id_suffix"`
	Dependencies     any               `yaml:"dependencies" json:"dependencies" toml:"dependencies"`
	DependencySuffix *string           `yaml:"dependency_suffix" json:"dependency_suffix" toml:"dependency_suffix"`
	Require          map[string]string `yaml:"require" json:"require" toml:"require"`
	RequireSuffix    *string           `yaml:"require_suffix" json:"require_suffix" toml:"require_suffix"`
	Suffix           *string           `yaml:"suffix" json:"suffix" toml:"suffix"`
	Package          *string           `yaml:"package" json:"package" toml:"package"`
	Strict           *bool             `yaml:"strict" json:"strict" toml:"strict"`
	Print            rawPrint          `yaml:"print" json:"print" toml:"print"`
}

type rawPrint struct {
	Comments *bool `yaml:"comments" json:"comments" toml:"comments"`
	Beautify *bool `yaml:"beautify" json:"beautify" toml:"beautify"`
}

func (c rawConfig) apply(base Settings) (Settings, error) {
	out := base
	setString(&out.ID, c.ID)
	setString(&out.IDSuffix, c.IDSuffix)
	setString(&out.DependencySuffix, c.DependencySuffix)
	setString(&out.RequireSuffix, c.RequireSuffix)
	setString(&out.Suffix, c.Suffix)
	setString(&out.Package, c.Package)
	setBool(&out.Strict, c.Strict)
	setBool(&out.Comments, c.Print.Comments)
	setBool(&out.Beautify, c.Print.Beautify)

	if c.Dependencies != nil {
		deps, err := dependencyList(c.Dependencies)
		if err != nil {
			return Settings{}, err
		}
		out.Dependencies = deps
		out.FixedDeps = true
	}
	if len(c.Require) > 0 {
		for key := range c.Require {
			if strings.TrimSpace(key) == "" {
				return Settings{}, ErrEmptyRequireKey
			}
		}
		out.Require = maps.Clone(c.Require)
	}
	return out, nil
}

// dependencyList accepts a single string or a list of strings.
func dependencyList(value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []any:
		deps := make([]string, 0, len(v))
		for i, item := range v {
			dep, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: item %d is %T", ErrInvalidDependencies, i, item)
			}
			deps = append(deps, dep)
		}
		return deps, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidDependencies, value)
	}
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

func setBool(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}
