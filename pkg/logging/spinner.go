package logging

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Spin shows a spinner on stderr while fn runs.
// The spinner is skipped when stderr is not a terminal so CI logs stay clean.
func (l *Logger) Spin(suffix string, fn func() error) error {
	if !l.interactive() {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	defer s.Stop()

	return fn()
}

func (l *Logger) interactive() bool {
	if l == nil || l.Err != os.Stderr {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
