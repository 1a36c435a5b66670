package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckRequires reports whether toolVersion satisfies the manifest's
// requires constraint. An empty constraint always passes.
func CheckRequires(constraint, toolVersion string) error {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid requires constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", toolVersion, err)
	}
	if ok, errs := c.Validate(v); !ok {
		return fmt.Errorf("tagcopy %s does not satisfy requires %q: %w", v, constraint, errors.Join(errs...))
	}
	return nil
}
