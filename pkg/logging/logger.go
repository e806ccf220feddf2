package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger writes human-readable progress to the console.
// Info and Debug lines are only printed when Verbose is set.
type Logger struct {
	Out     io.Writer
	Err     io.Writer
	Verbose bool
}

// New creates a Logger writing to stdout and stderr
func New(verbose bool) *Logger {
	return &Logger{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Verbose: verbose,
	}
}

// Discard returns a Logger that drops everything (used in tests)
func Discard() *Logger {
	return &Logger{Out: io.Discard, Err: io.Discard}
}

// Printf prints an unprefixed line to Out regardless of verbosity
func (l *Logger) Printf(msg string, args ...any) {
	fmt.Fprintf(l.out(), msg+"\n", args...)
}

// Successf prints a check-marked line to Out
func (l *Logger) Successf(msg string, args ...any) {
	fmt.Fprintf(l.out(), color.GreenString("  ✓ ")+msg+"\n", args...)
}

// Infof prints an [info] line to Out when Verbose is set
func (l *Logger) Infof(msg string, args ...any) {
	if l != nil && l.Verbose {
		fmt.Fprintf(l.out(), color.CyanString("[info] ")+msg+"\n", args...)
	}
}

// Debugf prints a [debug] line to Out when Verbose is set
func (l *Logger) Debugf(msg string, args ...any) {
	if l != nil && l.Verbose {
		fmt.Fprintf(l.out(), color.HiBlackString("[debug] ")+msg+"\n", args...)
	}
}

// Warnf prints a [warn] line to Err
func (l *Logger) Warnf(msg string, args ...any) {
	fmt.Fprintf(l.err(), color.YellowString("[warn] ")+msg+"\n", args...)
}

// Errorf prints an [error] line to Err
func (l *Logger) Errorf(msg string, args ...any) {
	fmt.Fprintf(l.err(), color.RedString("[error] ")+msg+"\n", args...)
}

func (l *Logger) out() io.Writer {
	if l == nil || l.Out == nil {
		return io.Discard
	}
	return l.Out
}

func (l *Logger) err() io.Writer {
	if l == nil || l.Err == nil {
		return io.Discard
	}
	return l.Err
}
