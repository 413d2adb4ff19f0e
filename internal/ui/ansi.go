package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/idilsaglam/cards/internal/notify"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"
)

var (
	forceColor   bool
	disableColor bool

	// Out and Err are where Panel, OK and Fail write.
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func C(color, s string) string {
	if disableColor || current.NoColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

func OK(msg string)   { fmt.Fprintln(Out, C(current.Success, current.SymOK+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(Err, C(current.Error, current.SymFail+" "+msg)) }

// Printer shows notices as OK/Fail lines.
type Printer struct{}

func (Printer) Notify(n notify.Notice) {
	if n.Kind == notify.Failure {
		Fail(n.String())
		return
	}
	OK(n.String())
}
