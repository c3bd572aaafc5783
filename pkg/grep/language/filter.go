// Package language restricts enumeration to files of selected programming languages,
// classified by filename and extension with go-enry.
package language

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Filter decides whether a file should be searched based on its language.
type Filter interface {
	// Allow reports whether the file at path should be enumerated.
	Allow(path string) bool
}

// allowAll is the Filter used when no language restriction is configured.
type allowAll struct{}

func (allowAll) Allow(string) bool { return true }

// enryFilter implements Filter using go-enry's filename and extension tables.
type enryFilter struct {
	languages map[string]struct{} // lowercase linguist names
}

// NewEnryFilter creates a Filter accepting files whose language is one of languages.
// Names are matched case-insensitively and may be linguist aliases ("golang", "python3").
// An empty list yields a Filter that accepts every file.
func NewEnryFilter(languages []string) Filter {
	normalized := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		name := strings.TrimSpace(l)
		if name == "" {
			continue
		}
		if canonical, ok := enry.GetLanguageByAlias(name); ok {
			name = canonical
		}
		normalized[strings.ToLower(name)] = struct{}{}
	}
	if len(normalized) == 0 {
		return allowAll{}
	}
	return &enryFilter{languages: normalized}
}

// Allow implements Filter. Ambiguous extensions (".h") pass when any candidate matches.
func (f *enryFilter) Allow(path string) bool {
	candidates := enry.GetLanguagesByFilename(path, nil, nil)
	if len(candidates) == 0 {
		candidates = enry.GetLanguagesByExtension(path, nil, nil)
	}
	for _, c := range candidates {
		if _, ok := f.languages[strings.ToLower(c)]; ok {
			return true
		}
	}
	return false
}
