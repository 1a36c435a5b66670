package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// autoSwitch is the value of a tri-state flag such as --color or --ui.
type autoSwitch uint8

const (
	switchAuto autoSwitch = iota
	switchOn
	switchOff
)

var switchNames = [...]string{
	switchAuto: "auto",
	switchOn:   "on",
	switchOff:  "off",
}

func (s autoSwitch) String() string {
	if int(s) < len(switchNames) {
		return switchNames[s]
	}
	return fmt.Sprintf("autoSwitch(%d)", s)
}

func parseSwitch(flag, value string) (autoSwitch, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return switchAuto, nil
	}
	for s, name := range switchNames {
		if v == name {
			return autoSwitch(s), nil
		}
	}
	return switchAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// enabled resolves auto against w: only a terminal gets colour or a live view.
// suppressed turns auto off (TAGCOPY_NO_COLOR for colour).
func (s autoSwitch) enabled(w io.Writer, suppressed bool) bool {
	switch s {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	if suppressed {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// progressView решает, показывать ли живой прогресс emit: без -o IR идёт
// в stdout, и перерисовка его бы испортила.
func progressView(mode autoSwitch, outDir string, w io.Writer) bool {
	return outDir != "" && mode.enabled(w, false)
}
