package cliutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color modes accepted by --color.
const (
	ColorAuto = "auto"
	ColorOn   = "on"
	ColorOff  = "off"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	ruleColor    = color.New(color.FgCyan)
	pathColor    = color.New(color.Bold)
	faintColor   = color.New(color.Faint)
)

// SetColorMode enables or disables colored output. In auto mode color is
// used only when w is a terminal.
func SetColorMode(mode string, w io.Writer) error {
	switch strings.ToLower(mode) {
	case ColorOn:
		color.NoColor = false
	case ColorOff:
		color.NoColor = true
	case ColorAuto, "":
		color.NoColor = !IsTerminal(w)
	default:
		return fmt.Errorf("cliutil: invalid color mode %q (expected auto, on or off)", mode)
	}
	return nil
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int
}

// Error formats s as an error label.
func Error(s string) string { return errorColor.Sprint(s) }

// Warn formats s as a warning.
func Warn(s string) string { return warnColor.Sprint(s) }

// Success formats s as a success marker.
func Success(s string) string { return successColor.Sprint(s) }

// Path formats a file path or JSON path.
func Path(s string) string { return pathColor.Sprint(s) }

// Faint formats secondary details such as source positions.
func Faint(s string) string { return faintColor.Sprint(s) }

// RuleTitle renders a rule name such as "split-type-array" as
// "Split Type Array", colored as a rule.
func RuleTitle(rule string) string {
	return ruleColor.Sprint(TitleCase(rule))
}

// TitleCase turns a dash separated name into space separated title case.
func TitleCase(name string) string {
	titleCaser := cases.Title(language.English)
	return titleCaser.String(strings.ReplaceAll(name, "-", " "))
}
