// Package ignore matches slash-separated relative paths against gitignore-style patterns.
//
// Supported syntax is a pragmatic subset: "*", "?" and character classes as in
// path.Match, a leading "!" to negate, a leading "/" to anchor at the root, a trailing
// "/" to match directories only, and a leading "**/" which is equivalent to an
// unanchored pattern. The last matching pattern wins.
package ignore

import (
	"path"
	"strings"
)

// Matcher holds compiled ignore patterns.
type Matcher struct {
	patterns []pattern
}

type pattern struct {
	glob     string // cleaned pattern using '/' separators
	orig     string // original pattern for reporting
	negated  bool
	dirOnly  bool
	anchored bool // pattern started with '/'
}

// New compiles raw patterns. Blank lines and lines starting with "#" are skipped.
func New(rawPatterns []string) *Matcher {
	m := &Matcher{}
	for _, raw := range rawPatterns {
		p := pattern{orig: raw}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "!") {
			p.negated = true
			trimmed = strings.TrimSpace(trimmed[1:])
		}
		if strings.HasPrefix(trimmed, "/") {
			p.anchored = true
			trimmed = strings.TrimPrefix(trimmed, "/")
		}
		trimmed = strings.TrimPrefix(trimmed, "**/")
		if strings.HasSuffix(trimmed, "/") {
			p.dirOnly = true
			trimmed = strings.TrimSuffix(trimmed, "/")
		}
		p.glob = strings.ReplaceAll(trimmed, "\\", "/")
		if p.glob == "" {
			continue
		}
		m.patterns = append(m.patterns, p)
	}
	return m
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int { return len(m.patterns) }

// Match reports whether relPath (slash-separated, relative to the search root) is ignored.
// The returned string is the original pattern that decided the match, or "".
func (m *Matcher) Match(relPath string, isDir bool) (bool, string) {
	if m == nil || relPath == "" || relPath == "." {
		return false, ""
	}
	ignored, decidedBy := false, ""
	for _, p := range m.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		if !p.matches(relPath) {
			continue
		}
		ignored = !p.negated
		decidedBy = p.orig
	}
	if !ignored {
		return false, ""
	}
	return true, decidedBy
}

func (p pattern) matches(relPath string) bool {
	if ok, _ := path.Match(p.glob, relPath); ok {
		return true
	}
	if p.anchored {
		return false
	}
	// Unanchored patterns may match any trailing run of path segments.
	parts := strings.Split(relPath, "/")
	for i := 1; i < len(parts); i++ {
		if ok, _ := path.Match(p.glob, strings.Join(parts[i:], "/")); ok {
			return true
		}
	}
	return false
}
