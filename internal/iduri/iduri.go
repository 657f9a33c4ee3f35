// Package iduri resolves and normalizes spm-style module identifiers such as
// "arale/base/1.0.0/base" or "jquery@1.8.2".
package iduri

import (
	"path"
	"regexp"
	"strings"
)

const defaultExt = ".js"

type Type string

const (
	TypeSpm  Type = "spm"
	TypeGit  Type = "git"
	TypeHTTP Type = "http"
)

// Meta is the resolved form of a module uri.
type Meta struct {
	Type    Type   `json:"type"`
	Family  string `json:"family,omitempty"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

var (
	spmPattern  = regexp.MustCompile(`^([a-z][a-z0-9\-]*)(?:[/.]([a-z][a-z0-9\-]*))?(?:[@#](.*))?$`)
	hostPattern = regexp.MustCompile(`^(?:[a-z][a-z0-9+.\-]*://)?(?:[^@/]+@)?[^/:]+[/:]`)
)

// Resolve parses uri into its meta information. It reports false when uri is
// neither a git or http url nor a family/name@version identifier.
func Resolve(uri string) (Meta, bool) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return Meta{}, false
	}

	switch {
	case isGitURI(uri):
		return resolveRemote(TypeGit, uri)
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return resolveRemote(TypeHTTP, uri)
	}

	m := spmPattern.FindStringSubmatch(uri)
	if m == nil {
		return Meta{}, false
	}
	meta := Meta{Type: TypeSpm, Family: m[1], Name: m[2], Version: m[3]}
	if meta.Name == "" {
		meta.Name = meta.Family
	}
	return meta, true
}

func isGitURI(uri string) bool {
	if strings.HasPrefix(uri, "git@") || strings.HasPrefix(uri, "git://") || strings.HasPrefix(uri, "git+") {
		return true
	}
	location, _, _ := strings.Cut(uri, "#")
	return strings.HasSuffix(location, ".git")
}

func resolveRemote(kind Type, uri string) (Meta, bool) {
	location, version, _ := strings.Cut(uri, "#")
	location = strings.TrimPrefix(location, "git+")
	rest := hostPattern.ReplaceAllString(location, "")
	rest = strings.TrimSuffix(strings.Trim(rest, "/"), ".git")
	if rest == "" || rest == location {
		return Meta{}, false
	}

	segments := strings.Split(rest, "/")
	meta := Meta{Type: kind, Version: version, Name: segments[len(segments)-1]}
	if len(segments) > 1 {
		meta.Family = segments[0]
	}
	return meta, true
}

// Normalize cleans uri: a//b/../c becomes a/c. A trailing slash is kept and a
// trailing '#' is dropped.
func Normalize(uri string) string {
	if uri == "" {
		return "."
	}
	uri = strings.ReplaceAll(uri, `\`, "/")
	trailingSlash := strings.HasSuffix(uri, "/")
	cleaned := path.Clean(uri)
	if strings.HasPrefix(uri, "./") && !strings.HasPrefix(cleaned, ".") {
		cleaned = "./" + cleaned
	}
	if trailingSlash && cleaned != "/" {
		return cleaned + "/"
	}
	return strings.TrimSuffix(cleaned, "#")
}

// Relative returns uri as seen from the directory of base, e.g. base
// "path/to/a" and uri "static/a.js" give "../../static/a.js". Absolute uris
// are returned unchanged.
func Relative(base, uri string) string {
	if strings.HasPrefix(uri, "/") {
		return uri
	}
	bits := strings.Split(Normalize(base), "/")
	if len(bits) <= 1 {
		return uri
	}
	return strings.Repeat("../", len(bits)-1) + uri
}

// Absolute resolves a relative uri against the id base:
// Absolute("arale/base/1.0.0/parser", "./base") is "arale/base/1.0.0/base".
func Absolute(base, uri string) string {
	if !strings.HasPrefix(uri, ".") {
		return uri
	}
	return Normalize(path.Join(Dirname(base), uri))
}

func Join(base, uri string) string {
	return path.Join(strings.ReplaceAll(base, `\`, "/"), strings.ReplaceAll(uri, `\`, "/"))
}

func Dirname(uri string) string {
	return path.Dir(strings.ReplaceAll(uri, `\`, "/"))
}

func Basename(uri string) string {
	return path.Base(strings.ReplaceAll(uri, `\`, "/"))
}

// Extname returns the extension of uri, or ".js" when it has none.
func Extname(uri string) string {
	if ext := path.Ext(uri); ext != "" {
		return ext
	}
	return defaultExt
}

// AppendExt adds ".js" to uris without an extension.
func AppendExt(uri string) string {
	if path.Ext(uri) == "" {
		return uri + defaultExt
	}
	return uri
}
