package language_test

import (
	"testing"

	"github.com/stackvity/specific-grep/pkg/grep/language"
	"github.com/stretchr/testify/assert"
)

func TestNewEnryFilter_EmptyAcceptsEverything(t *testing.T) {
	f := language.NewEnryFilter(nil)
	assert.True(t, f.Allow("main.go"))
	assert.True(t, f.Allow("no-extension"))

	f = language.NewEnryFilter([]string{"  ", ""})
	assert.True(t, f.Allow("README.md"))
}

func TestEnryFilter_Allow(t *testing.T) {
	testCases := []struct {
		name      string
		languages []string
		path      string
		want      bool
	}{
		{"go file", []string{"go"}, "cmd/main.go", true},
		{"case insensitive", []string{"GO"}, "main.go", true},
		{"alias", []string{"golang"}, "main.go", true},
		{"other language rejected", []string{"go"}, "script.py", false},
		{"multiple languages", []string{"go", "python"}, "script.py", true},
		{"special filename", []string{"dockerfile"}, "build/Dockerfile", true},
		{"unknown extension", []string{"go"}, "notes.zzz-unknown", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := language.NewEnryFilter(tc.languages)
			assert.Equal(t, tc.want, f.Allow(tc.path))
		})
	}
}
