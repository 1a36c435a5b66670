package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"tagcopy/internal/layout"
	"tagcopy/internal/tags"
)

// Manifest is a loaded project manifest.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors tagcopy.toml / tagcopy.yaml.
type Config struct {
	Project ProjectConfig `toml:"project" yaml:"project"`
	Target  TargetConfig  `toml:"target" yaml:"target"`
	Check   CheckConfig   `toml:"check" yaml:"check"`
	Policy  PolicyConfig  `toml:"policy" yaml:"policy"`
}

type ProjectConfig struct {
	Name     string `toml:"name" yaml:"name"`
	Requires string `toml:"requires" yaml:"requires"` // semver constraint on the tool
	// Sources lists files or directories relative to the manifest; empty means the root.
	Sources []string `toml:"sources" yaml:"sources"`
}

type TargetConfig struct {
	Name      string `toml:"name" yaml:"name"`
	SlotWidth int    `toml:"slot_width" yaml:"slot_width"`
	SlotAlign int    `toml:"slot_align" yaml:"slot_align"`
	Purecap   *bool  `toml:"purecap" yaml:"purecap"`
}

type CheckConfig struct {
	WarningsAsErrors bool `toml:"warnings_as_errors" yaml:"warnings_as_errors"`
	MaxDiagnostics   int  `toml:"max_diagnostics" yaml:"max_diagnostics"`
	Jobs             int  `toml:"jobs" yaml:"jobs"`
}

type PolicyConfig struct {
	ExcludeSubSlotCopies   bool `toml:"exclude_sub_slot_copies" yaml:"exclude_sub_slot_copies"`
	CharArraysAsTagStorage bool `toml:"char_arrays_as_tag_storage" yaml:"char_arrays_as_tag_storage"`
}

// LoadManifest finds and loads the manifest governing startDir.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes and validates a manifest file; the format follows the extension.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	var cfg Config
	switch filepath.Ext(path) {
	case ".toml":
		cfg, err = decodeTOML(data)
	case ".yaml", ".yml":
		cfg, err = decodeYAML(data)
	default:
		err = fmt.Errorf("unsupported manifest format %q", filepath.Ext(path))
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeTOML(data []byte) (Config, error) {
	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if !meta.IsDefined("project") {
		return Config{}, errors.New("missing [project]")
	}
	if !meta.IsDefined("project", "name") {
		return Config{}, errors.New("missing [project].name")
	}
	return cfg, nil
}

func decodeYAML(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Project.Name) == "" {
		return errors.New("project.name must not be empty")
	}
	if c.Target.Name != "" {
		t, ok := layout.LookupTarget(c.Target.Name)
		if !ok {
			return fmt.Errorf("unknown target %q (known: %s)", c.Target.Name, strings.Join(layout.TargetNames(), ", "))
		}
		if c.Target.Purecap != nil && *c.Target.Purecap != t.Purecap {
			return fmt.Errorf("target.purecap = %t contradicts target %q", *c.Target.Purecap, c.Target.Name)
		}
	}
	if (c.Target.SlotWidth == 0) != (c.Target.SlotAlign == 0) {
		return errors.New("target.slot_width and target.slot_align must be set together")
	}
	if c.Target.SlotWidth != 0 {
		l := tags.CapabilityLayout{SlotWidth: c.Target.SlotWidth, SlotAlign: c.Target.SlotAlign}
		if err := l.Validate(); err != nil {
			return fmt.Errorf("invalid capability slot: %w", err)
		}
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("check.jobs must be >= 0, got %d", c.Check.Jobs)
	}
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("check.max_diagnostics must be >= 0, got %d", c.Check.MaxDiagnostics)
	}
	if slices.Contains(c.Project.Sources, "") {
		return errors.New("project.sources must not contain empty entries")
	}
	return nil
}

// ResolveTarget returns the configured target, or nil when the manifest
// leaves the choice to each file.
func (c *Config) ResolveTarget() (*layout.Target, error) {
	if c.Target.Name == "" && c.Target.SlotWidth == 0 {
		return nil, nil
	}
	t := layout.Default()
	if c.Target.Name != "" {
		var ok bool
		if t, ok = layout.LookupTarget(c.Target.Name); !ok {
			return nil, fmt.Errorf("unknown target %q", c.Target.Name)
		}
	}
	if c.Target.SlotWidth != 0 {
		t = t.WithSlot(c.Target.SlotWidth, c.Target.SlotAlign)
	}
	return &t, nil
}

// TagPolicy converts the [policy] table into classifier knobs.
func (c *Config) TagPolicy() tags.Policy {
	return tags.Policy{
		ExcludeSubSlotCopies:   c.Policy.ExcludeSubSlotCopies,
		CharArraysAsTagStorage: c.Policy.CharArraysAsTagStorage,
	}
}

// SourcePaths resolves [project].sources against the manifest root.
func (m *Manifest) SourcePaths() []string {
	if len(m.Config.Project.Sources) == 0 {
		return []string{m.Root}
	}
	out := make([]string, 0, len(m.Config.Project.Sources))
	for _, s := range m.Config.Project.Sources {
		if filepath.IsAbs(s) {
			out = append(out, s)
			continue
		}
		out = append(out, filepath.Join(m.Root, filepath.FromSlash(s)))
	}
	return out
}
