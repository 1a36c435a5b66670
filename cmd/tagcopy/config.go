package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tagcopy/internal/diagfmt"
	"tagcopy/internal/driver"
	"tagcopy/internal/observ"
	"tagcopy/internal/project"
	"tagcopy/internal/version"
)

// runConfig is the merged view of manifest, environment and flags.
// Precedence: flags, then TAGCOPY_* variables, then the manifest.
type runConfig struct {
	paths    []string
	baseDir  string
	manifest *project.Manifest
	opts     driver.Options
	color    bool
	timings  bool
}

func loadRunConfig(cmd *cobra.Command, args []string) (*runConfig, error) {
	flags := cmd.Flags()
	manifestPath, err := flags.GetString("manifest")
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	targetName, err := flags.GetString("target")
	if err != nil {
		return nil, fmt.Errorf("failed to get target flag: %w", err)
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	werror, err := flags.GetBool("werror")
	if err != nil {
		return nil, fmt.Errorf("failed to get werror flag: %w", err)
	}
	cacheDir, err := flags.GetString("cache-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}

	manifest, err := findManifest(manifestPath, args)
	if err != nil {
		return nil, err
	}
	var cfg project.Config
	if manifest != nil {
		cfg = manifest.Config
		if err := project.CheckRequires(cfg.Project.Requires, version.Version); err != nil {
			return nil, fmt.Errorf("%s: %w", manifest.Path, err)
		}
	}

	envOverrides, err := project.LoadEnv()
	if err != nil {
		return nil, err
	}
	if err := envOverrides.Apply(&cfg); err != nil {
		return nil, err
	}

	if flags.Changed("target") {
		cfg.Target.Name = targetName
		cfg.Target.Purecap = nil
	}
	if flags.Changed("jobs") {
		cfg.Check.Jobs = jobs
	}
	if flags.Changed("max-diagnostics") || cfg.Check.MaxDiagnostics == 0 {
		cfg.Check.MaxDiagnostics = maxDiagnostics
	}
	if werror {
		cfg.Check.WarningsAsErrors = true
	}
	// флаги могли сломать конфиг, проверяем ещё раз
	if err := (project.EnvOverrides{}).Apply(&cfg); err != nil {
		return nil, err
	}
	target, err := cfg.ResolveTarget()
	if err != nil {
		return nil, err
	}

	rc := &runConfig{
		manifest: manifest,
		timings:  timings,
		opts: driver.Options{
			MaxDiagnostics:   cfg.Check.MaxDiagnostics,
			Target:           target,
			Policy:           cfg.TagPolicy(),
			Jobs:             cfg.Check.Jobs,
			WarningsAsErrors: cfg.Check.WarningsAsErrors,
			EnableTimings:    timings,
		},
	}

	switch {
	case len(args) > 0:
		rc.paths = args
	case manifest != nil:
		rc.paths = manifest.SourcePaths()
	default:
		rc.paths = []string{"."}
	}
	if manifest != nil {
		rc.baseDir = manifest.Root
	} else if rc.baseDir, err = os.Getwd(); err != nil {
		return nil, err
	}
	rc.opts.BaseDir = rc.baseDir

	if !noCache {
		if cacheDir == "" {
			cacheDir = envOverrides.CacheDir
		}
		cache, err := driver.OpenDiskCache(cacheDir, "tagcopy")
		if err != nil {
			// без кэша всё равно работаем
			observ.Logger().Warn("disk cache disabled", zap.Error(err))
		} else {
			rc.opts.Cache = cache
		}
	}

	colorMode, err := parseSwitch("color", colorFlag)
	if err != nil {
		return nil, err
	}
	rc.color = colorMode.enabled(os.Stdout, envOverrides.NoColor)

	observ.Logger().Debug("run config",
		zap.Strings("paths", rc.paths),
		zap.String("base", rc.baseDir),
		zap.Bool("manifest", manifest != nil),
		zap.Int("jobs", rc.opts.Jobs),
		zap.Bool("werror", rc.opts.WarningsAsErrors))
	return rc, nil
}

// findManifest honours --manifest, otherwise searches upwards from the first path.
func findManifest(explicit string, args []string) (*project.Manifest, error) {
	if explicit != "" {
		cfg, err := project.LoadConfig(explicit)
		if err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return nil, err
		}
		return &project.Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
	}
	start := "."
	if len(args) > 0 {
		start = args[0]
		if st, err := os.Stat(start); err == nil && !st.IsDir() {
			start = filepath.Dir(start)
		}
	}
	manifest, ok, err := project.LoadManifest(start)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return manifest, nil
}

// renderFlags are shared by check, emit and watch.
type renderFlags struct {
	format    string
	pathMode  diagfmt.PathMode
	withNotes bool
	suggest   bool
	preview   bool
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	cmd.Flags().String("path-mode", "auto", "file path display (auto|absolute|relative|basename)")
	cmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	cmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	cmd.Flags().Bool("preview", false, "preview fix edits")
}

func readRenderFlags(cmd *cobra.Command) (renderFlags, error) {
	var rf renderFlags
	var err error
	if rf.format, err = cmd.Flags().GetString("format"); err != nil {
		return rf, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch rf.format {
	case "pretty", "short", "json", "sarif":
	default:
		return rf, fmt.Errorf("unknown format: %s", rf.format)
	}
	mode, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return rf, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if rf.pathMode, ok = diagfmt.ParsePathMode(mode); !ok {
		return rf, fmt.Errorf("unknown path mode: %s", mode)
	}
	if rf.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return rf, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if rf.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return rf, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if rf.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return rf, fmt.Errorf("failed to get preview flag: %w", err)
	}
	return rf, nil
}
