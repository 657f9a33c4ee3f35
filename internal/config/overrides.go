package config

import "maps"

// Overrides carries command-line values. Nil fields keep the loaded setting.
type Overrides struct {
	ID               *string
	IDSuffix         *string
	Dependencies     []string
	DependencySuffix *string
	Require          map[string]string
	RequireSuffix    *string
	Suffix           *string
	Package          *string
	Strict           *bool
	Compact          *bool
	StripComments    *bool
}

func (o Overrides) Apply(base Settings) Settings {
	out := base
	setString(&out.ID, o.ID)
	setString(&out.IDSuffix, o.IDSuffix)
	setString(&out.DependencySuffix, o.DependencySuffix)
	setString(&out.RequireSuffix, o.RequireSuffix)
	setString(&out.Suffix, o.Suffix)
	setString(&out.Package, o.Package)
	setBool(&out.Strict, o.Strict)
	if o.Compact != nil {
		out.Beautify = !*o.Compact
	}
	if o.StripComments != nil {
		out.Comments = !*o.StripComments
	}
	if o.Dependencies != nil {
		out.Dependencies = append([]string{}, o.Dependencies...)
		out.FixedDeps = true
	}
	if len(o.Require) > 0 {
		merged := maps.Clone(base.Require)
		if merged == nil {
			merged = make(map[string]string, len(o.Require))
		}
		maps.Copy(merged, o.Require)
		out.Require = merged
	}
	return out
}
