package grep

// Constants defining default values for configuration options.
// These are used when setting up Viper defaults in the configuration loading process.
const (
	// DefaultThreads is the default worker count W.
	DefaultThreads = 4
	// DefaultFollowSymlinks controls whether symlinks are followed during enumeration.
	DefaultFollowSymlinks = false
	// DefaultSkipBinary controls whether files sniffed as binary are scanned.
	DefaultSkipBinary = false
	// DefaultOutputDir is where the report artifacts are written.
	DefaultOutputDir = "."
	// DefaultSummaryFormat is the default format for the console summary.
	DefaultSummaryFormat = SummaryFormatText
	// DefaultVerbose is the default state for verbose logging.
	DefaultVerbose = false
)

// File extensions of the two report artifacts.
const (
	MatchReportExt = ".txt"
	WorkerLogExt   = ".log"
)

// SummaryFormat defines the format of the console summary printed after a run.
type SummaryFormat string

const (
	SummaryFormatText SummaryFormat = "text"
	SummaryFormatJSON SummaryFormat = "json"
	SummaryFormatYAML SummaryFormat = "yaml"
)
