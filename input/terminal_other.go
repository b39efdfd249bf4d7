//go:build !unix

package input

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/thesooraj/HangMan-Project/logger"
)

// NewTerminal builds a Reader for f. Without a portable readiness query the
// file is read by a background listener; WithInteractive has no effect.
func NewTerminal(f *os.File, out io.Writer, opts ...Option) *Reader {
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	if !tty {
		opts = append(opts, WithCountdown(false))
	}
	logger.Log.Debugw("Using background listener for terminal", "tty", tty)
	return NewFuncReader(ReaderFunc(f), out, opts...)
}
