package version

import (
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
)

func override(t *testing.T, v, commit, date string) {
	t.Helper()
	origV, origC, origD := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = origV, origC, origD })
}

func TestDefaultVersionIsSemver(t *testing.T) {
	if _, err := semver.StrictNewVersion(Version); err != nil {
		t.Fatalf("Version %q is not strict semver: %v", Version, err)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name            string
		v, commit, date string
		want            string
	}{
		{"plain", "1.2.3", "", "", "tagcopy 1.2.3"},
		{"commit", "1.2.3", "abc123", "", "tagcopy 1.2.3 (abc123)"},
		{"full", "1.2.3", "abc123", "2024-01-15", "tagcopy 1.2.3 (abc123) built 2024-01-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			override(t, tt.v, tt.commit, tt.date)
			if got := String(false); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColored(t *testing.T) {
	override(t, "1.2.3", "", "")
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("Colored(true) = %q, want ANSI escapes", got)
	}
	if Colored(false) != "1.2.3" {
		t.Errorf("Colored(false) = %q", Colored(false))
	}

	override(t, "dev", "", "")
	if Colored(true) != "dev" {
		t.Errorf("non-semver version must pass through")
	}
}
