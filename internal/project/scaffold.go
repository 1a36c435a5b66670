package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format selects the manifest encoding written by Scaffold.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ScaffoldResult lists what Scaffold created.
type ScaffoldResult struct {
	Manifest      string
	Example       string
	ExampleExists bool
}

// Scaffold creates a manifest and an example scenario in dir. It refuses to
// overwrite an existing manifest of any format.
func Scaffold(dir, requires string, format Format) (ScaffoldResult, error) {
	var res ScaffoldResult
	if st, err := os.Stat(dir); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return res, err
		}
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	} else if !st.IsDir() {
		return res, fmt.Errorf("%q is not a directory", dir)
	}

	for _, name := range ManifestNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return res, fmt.Errorf("project already initialized: %s exists", name)
		}
	}

	name := strings.TrimSpace(filepath.Base(dir))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "tagcopy-project"
	}

	var manifest string
	switch format {
	case FormatTOML, "":
		res.Manifest = filepath.Join(dir, "tagcopy.toml")
		manifest = defaultTOML(name, requires)
	case FormatYAML:
		res.Manifest = filepath.Join(dir, "tagcopy.yaml")
		manifest = defaultYAML(name, requires)
	default:
		return res, fmt.Errorf("unsupported manifest format %q", format)
	}
	if err := os.WriteFile(res.Manifest, []byte(manifest), 0o600); err != nil {
		return res, fmt.Errorf("failed to write manifest: %w", err)
	}

	res.Example = filepath.Join(dir, "example.cap")
	if _, err := os.Stat(res.Example); err == nil {
		res.ExampleExists = true
		return res, nil
	}
	if err := os.WriteFile(res.Example, []byte(exampleScenario), 0o600); err != nil {
		return res, fmt.Errorf("failed to write example: %w", err)
	}
	return res, nil
}

func defaultTOML(name, requires string) string {
	return fmt.Sprintf(`# tagcopy project manifest
[project]
name = %q
requires = %q

[target]
name = "purecap128"

[check]
warnings_as_errors = false
max_diagnostics = 100

[policy]
exclude_sub_slot_copies = false
char_arrays_as_tag_storage = false
`, name, requires)
}

func defaultYAML(name, requires string) string {
	return fmt.Sprintf(`# tagcopy project manifest
project:
  name: %q
  requires: %q
target:
  name: purecap128
check:
  warnings_as_errors: false
  max_diagnostics: 100
policy:
  exclude_sub_slot_copies: false
  char_arrays_as_tag_storage: false
`, name, requires)
}

const exampleScenario = `struct OneCap { b: cap; }

fn example(c: *OneCap, ch: char) {
    let buf: char[16];
    memcpy(c, &ch, sizeof(ch));
    memcpy(&buf, c, 16);
}
`
