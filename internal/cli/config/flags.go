package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/stackvity/specific-grep/pkg/grep"
)

// Flag names as they appear on the command line.
const (
	FlagDir            = "dir"
	FlagLogFile        = "log_file"
	FlagResultFile     = "result_file"
	FlagThreads        = "threads"
	FlagConfig         = "config"
	FlagVerbose        = "verbose"
	FlagOutputDir      = "output-dir"
	FlagIgnore         = "ignore"
	FlagLang           = "lang"
	FlagFollowSymlinks = "follow-symlinks"
	FlagEncoding       = "encoding"
	FlagSkipBinary     = "skip-binary"
	FlagSummaryFormat  = "summary-format"
)

// ErrDuplicateOption is returned when a single-valued option is given more than once.
var ErrDuplicateOption = errors.New("option specified more than once")

// onceString is a string flag value that rejects a second occurrence.
type onceString struct {
	value string
	set   bool
}

func (s *onceString) Set(v string) error {
	if s.set {
		return ErrDuplicateOption
	}
	s.value, s.set = v, true
	return nil
}

func (s *onceString) String() string { return s.value }
func (s *onceString) Type() string   { return "string" }

// onceInt is an integer flag value that rejects a second occurrence and anything
// that is not a base-10 integer.
type onceInt struct {
	value int
	set   bool
}

func (i *onceInt) Set(v string) error {
	if i.set {
		return ErrDuplicateOption
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%q is not a number", v)
	}
	i.value, i.set = n, true
	return nil
}

func (i *onceInt) String() string { return strconv.Itoa(i.value) }
func (i *onceInt) Type() string   { return "int" }

// RegisterFlags defines every command line option on flags.
// The four search options (-d, -l, -r, -t) may each be given at most once.
func RegisterFlags(flags *pflag.FlagSet) {
	// Search options
	flags.VarP(&onceString{value: "."}, FlagDir, "d", "Directory to search")
	flags.VarP(&onceString{}, FlagLogFile, "l", "Worker log name, written as <name>.log (default: program name)")
	flags.VarP(&onceString{}, FlagResultFile, "r", "Match report name, written as <name>.txt (default: program name)")
	flags.VarP(&onceInt{value: grep.DefaultThreads}, FlagThreads, "t", "Number of worker threads")

	// Configuration & logging
	flags.String(FlagConfig, "", "Configuration file path (default is ./specific-grep.yaml or $HOME/.config/specific-grep/)")
	flags.BoolP(FlagVerbose, "v", grep.DefaultVerbose, "Enable verbose (debug) logging output")

	// Output
	flags.String(FlagOutputDir, grep.DefaultOutputDir, "Directory the report artifacts are written to")
	flags.String(FlagSummaryFormat, string(grep.DefaultSummaryFormat), `Console summary format ("text", "json", "yaml")`)

	// Enumeration & scanning
	flags.StringArray(FlagIgnore, []string{}, "Glob patterns for files/directories to ignore (can be specified multiple times)")
	flags.StringSlice(FlagLang, []string{}, "Only search files of these languages (e.g. Go,Python)")
	flags.Bool(FlagFollowSymlinks, grep.DefaultFollowSymlinks, "Follow symbolic links during the directory walk")
	flags.String(FlagEncoding, "", "Source file encoding to decode before matching (e.g. latin1, utf-16le)")
	flags.Bool(FlagSkipBinary, grep.DefaultSkipBinary, "Do not search files that look binary")
}
