// Package detector decides whether tandem runs attached to an interactive terminal.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode describes how child processes are attached and output is styled.
type OutputMode int

const (
	// ModeAuto defers to detection.
	ModeAuto OutputMode = iota
	// ModeInteractive runs children in a pseudo-terminal and uses the terminal's color profile.
	ModeInteractive
	// ModeCI runs children on plain pipes with basic ANSI colors.
	ModeCI
)

// DetectEnvironment inspects stdout and the CI variable.
func DetectEnvironment() OutputMode {
	return detect(term.IsTerminal(int(os.Stdout.Fd())), os.Getenv("CI"))
}

func detect(isTTY bool, ci string) OutputMode {
	if !isTTY || ci == "true" || ci == "1" {
		return ModeCI
	}
	return ModeInteractive
}

// ResolveMode applies the user's --ci switch to the detected mode.
func ResolveMode(detected OutputMode, forceCI bool) OutputMode {
	switch {
	case forceCI:
		return ModeCI
	case detected == ModeAuto:
		return ModeInteractive
	default:
		return detected
	}
}
