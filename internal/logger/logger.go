package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// ANSI color codes. Disabled automatically when stdout is not a terminal.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func paint(color, s string) string {
	if !colorEnabled {
		return s
	}
	return color + s + reset
}

func emit(symbol, color, tag, msg string) {
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(os.Stdout, "%s %s %s %s\n",
		paint(dim, ts),
		paint(color, symbol),
		paint(bold, fmt.Sprintf("[%s]", tag)),
		msg)
}

// Info logs a neutral informational message.
func Info(tag, msg string) {
	emit("•", cyan, tag, msg)
}

// Success logs a completed operation.
func Success(tag, msg string) {
	emit("✓", green, tag, msg)
}

// Warn logs a recoverable problem.
func Warn(tag, msg string) {
	emit("!", yellow, tag, msg)
}

// Error logs a failure.
func Error(tag, msg string) {
	emit("✗", red, tag, msg)
}

// Banner prints the startup banner with the build version.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Fprintln(os.Stdout, paint(cyan, `
  ┌─────────────────────────────────┐
  │  EVE Hauler / market analytics  │
  └─────────────────────────────────┘`))
	fmt.Fprintf(os.Stdout, "  %s\n\n", paint(dim, "version "+version))
}

// Section prints a visual divider for a named phase.
func Section(name string) {
	fmt.Fprintf(os.Stdout, "\n%s %s\n", paint(cyan, "──"), paint(bold, name))
}

// Stats prints a key/value statistic line.
func Stats(label string, value interface{}) {
	fmt.Fprintf(os.Stdout, "   %s %v\n", paint(dim, label+":"), value)
}

// Server logs the listen address at startup.
func Server(addr string) {
	Success("Server", fmt.Sprintf("Listening on http://%s", addr))
}
