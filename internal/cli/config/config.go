package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stackvity/specific-grep/pkg/grep"
	"github.com/stackvity/specific-grep/pkg/grep/encoding"
)

const (
	EnvPrefix         = "SPECIFICGREP"
	DefaultConfigName = "specific-grep"
)

// Config is the fully resolved configuration of one CLI invocation.
type Config struct {
	grep.Options `mapstructure:",squash"`

	LogFile        string             `mapstructure:"logFile"`    // worker log name, without extension
	ResultFile     string             `mapstructure:"resultFile"` // match report name, without extension
	OutputDir      string             `mapstructure:"outputDir"`
	SummaryFormat  grep.SummaryFormat `mapstructure:"summaryFormat"`
	Verbose        bool               `mapstructure:"verbose"`
	ConfigFilePath string             `mapstructure:"-"`
}

// ResultPath returns the path of the match report artifact.
func (c Config) ResultPath() string {
	return filepath.Join(c.OutputDir, c.ResultFile+grep.MatchReportExt)
}

// LogPath returns the path of the worker log artifact.
func (c Config) LogPath() string {
	return filepath.Join(c.OutputDir, c.LogFile+grep.WorkerLogExt)
}

// flagKeys maps viper keys to the flag that sets them.
var flagKeys = map[string]string{
	"dir":            FlagDir,
	"threads":        FlagThreads,
	"logFile":        FlagLogFile,
	"resultFile":     FlagResultFile,
	"outputDir":      FlagOutputDir,
	"summaryFormat":  FlagSummaryFormat,
	"verbose":        FlagVerbose,
	"ignore":         FlagIgnore,
	"lang":           FlagLang,
	"followSymlinks": FlagFollowSymlinks,
	"encoding":       FlagEncoding,
	"skipBinary":     FlagSkipBinary,
}

// LoadAndValidate merges defaults, the configuration file, SPECIFICGREP_* environment
// variables and flags (in increasing priority), validates the result and sets up the
// logger, which writes to logOut. pattern is the positional search string.
func LoadAndValidate(flags *pflag.FlagSet, pattern string, logOut io.Writer) (Config, *slog.Logger, error) {
	var cfg Config
	v := viper.New()

	tempLogger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelInfo}))

	setDefaults(v)

	// --- Load Config File ---
	cfgFile, _ := flags.GetString(FlagConfig)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			used := cfgFile
			if used == "" {
				used = DefaultConfigName + ".yaml"
			}
			tempLogger.Error("Error reading configuration file", slog.String("path", used), slog.Any("error", err))
			return cfg, tempLogger, fmt.Errorf("%w: error reading config file '%s': %w", grep.ErrInvalidConfiguration, used, err)
		}
	} else {
		cfg.ConfigFilePath = v.ConfigFileUsed()
	}

	// --- Bind Environment Variables ---
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// --- Bind Flags (Highest Priority) ---
	for key, name := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			tempLogger.Debug("Flag lookup failed during binding", slog.String("flag", name))
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return cfg, tempLogger, fmt.Errorf("error binding flag '--%s': %w", name, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		tempLogger.Error("Error unmarshalling configuration", slog.Any("error", err))
		return cfg, tempLogger, fmt.Errorf("%w: error unmarshalling configuration: %w", grep.ErrInvalidConfiguration, err)
	}
	cfg.Pattern = pattern

	// --- Setup Final Logger ---
	logLevel := slog.LevelInfo
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logHandler)
	cfg.Logger = logHandler

	if err := validateAndDerive(&cfg, logger); err != nil {
		return cfg, logger, err
	}

	logger.Debug("Configuration loading and validation complete",
		slog.String("configFile", cfg.ConfigFilePath),
		slog.String("dir", cfg.RootPath),
		slog.Int("threads", cfg.Threads),
		slog.String("resultFile", cfg.ResultPath()),
		slog.String("logFile", cfg.LogPath()),
		slog.String("logLevel", logLevel.String()),
	)
	return cfg, logger, nil
}

// setDefaults establishes the default values for configuration options in Viper.
func setDefaults(v *viper.Viper) {
	// --- Search ---
	v.SetDefault("dir", ".")
	v.SetDefault("threads", grep.DefaultThreads)
	v.SetDefault("logFile", "")    // derived from the program name
	v.SetDefault("resultFile", "") // derived from the program name

	// --- Enumeration & Scanning ---
	v.SetDefault("ignore", []string{})
	v.SetDefault("lang", []string{})
	v.SetDefault("followSymlinks", grep.DefaultFollowSymlinks)
	v.SetDefault("encoding", "")
	v.SetDefault("skipBinary", grep.DefaultSkipBinary)

	// --- Output ---
	v.SetDefault("outputDir", grep.DefaultOutputDir)
	v.SetDefault("summaryFormat", string(grep.DefaultSummaryFormat))
	v.SetDefault("verbose", grep.DefaultVerbose)
}

// validateAndDerive checks the merged configuration and fills derived defaults.
// Errors wrap grep.ErrInvalidConfiguration or grep.ErrDirectoryNotFound.
func validateAndDerive(cfg *Config, logger *slog.Logger) error {
	// === Search root ===
	if cfg.RootPath == "" {
		cfg.RootPath = "."
	}
	cfg.RootPath = filepath.Clean(cfg.RootPath)
	info, err := os.Stat(cfg.RootPath)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", grep.ErrDirectoryNotFound, cfg.RootPath, err)
		logger.Error(err.Error(), slog.String("key", "dir"))
		return err
	}
	if !info.IsDir() {
		err = fmt.Errorf("%w: %s is not a directory", grep.ErrDirectoryNotFound, cfg.RootPath)
		logger.Error(err.Error(), slog.String("key", "dir"))
		return err
	}

	// === Workers ===
	if cfg.Threads < 1 {
		err := fmt.Errorf("%w: thread count must be a positive integer, got %d", grep.ErrInvalidConfiguration, cfg.Threads)
		logger.Error(err.Error(), slog.String("key", "threads"))
		return err
	}

	// === Output names ===
	if cfg.ResultFile == "" {
		cfg.ResultFile = DefaultOutputName()
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultOutputName()
	}
	for _, n := range []struct{ key, name string }{{"resultFile", cfg.ResultFile}, {"logFile", cfg.LogFile}} {
		if err := ValidateOutputName(n.name); err != nil {
			logger.Error(err.Error(), slog.String("key", n.key), slog.String("value", n.name))
			return err
		}
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = grep.DefaultOutputDir
	}
	if info, err := os.Stat(cfg.OutputDir); err == nil && !info.IsDir() {
		err = fmt.Errorf("%w: output directory %s is not a directory", grep.ErrInvalidConfiguration, cfg.OutputDir)
		logger.Error(err.Error(), slog.String("key", "outputDir"))
		return err
	}

	// === Enums ===
	allowedFormats := []grep.SummaryFormat{grep.SummaryFormatText, grep.SummaryFormatJSON, grep.SummaryFormatYAML}
	if !slices.Contains(allowedFormats, cfg.SummaryFormat) {
		err := fmt.Errorf("%w: invalid summary format '%s' (allowed: text, json, yaml)", grep.ErrInvalidConfiguration, cfg.SummaryFormat)
		logger.Error(err.Error(), slog.String("key", "summaryFormat"))
		return err
	}

	// === Encoding ===
	if cfg.Encoding != "" {
		handler, err := encoding.NewCharsetHandler(cfg.Encoding)
		if err != nil {
			err = fmt.Errorf("%w: %w", grep.ErrInvalidConfiguration, err)
			logger.Error(err.Error(), slog.String("key", "encoding"))
			return err
		}
		cfg.EncodingHandler = handler
	}
	return nil
}

// DefaultOutputName derives the default artifact name from the running program:
// its base name without extension ("specific-grep" for /usr/bin/specific-grep.exe).
func DefaultOutputName() string {
	base := filepath.Base(os.Args[0])
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// reservedChars may not appear in an output name on any supported platform.
const reservedChars = `<>:"/\|?*`

// ValidateOutputName checks that name can be used as a file name inside the output
// directory: non-empty, not "." or "..", and free of separators, reserved and
// control characters.
func ValidateOutputName(name string) error {
	switch name {
	case "":
		return fmt.Errorf("%w: output name cannot be empty", grep.ErrInvalidConfiguration)
	case ".", "..":
		return fmt.Errorf("%w: output name %q is not a file name", grep.ErrInvalidConfiguration, name)
	}
	if i := strings.IndexAny(name, reservedChars); i >= 0 {
		return fmt.Errorf("%w: output name %q contains reserved character %q", grep.ErrInvalidConfiguration, name, name[i])
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: output name %q contains a control character", grep.ErrInvalidConfiguration, name)
		}
	}
	return nil
}
