//go:build unix

package input

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"

	"github.com/thesooraj/HangMan-Project/logger"
)

// errNoLine is returned by FileSource.ReadLine when Ready has not seen a
// complete line.
var errNoLine = errors.New("no complete line buffered")

// FileSource is a ReadySource over a file descriptor, backed by poll(2).
// Bytes are collected in a source-owned buffer so a partial line never
// blocks ReadLine.
type FileSource struct {
	f       *os.File
	fd      int
	pending []byte
	eof     bool
	buf     []byte
}

func NewFileSource(f *os.File) *FileSource {
	return &FileSource{
		f:   f,
		fd:  int(f.Fd()),
		buf: make([]byte, 4096),
	}
}

// Ready reports true once a complete line is buffered, or the input ended
// after some bytes were buffered. End of input with nothing buffered is also
// ready so ReadLine can report io.EOF.
func (s *FileSource) Ready(wait time.Duration) (bool, error) {
	if s.complete() {
		return true, nil
	}
	readable, err := pollReadable(s.fd, wait)
	if err != nil || !readable {
		return false, err
	}
	n, err := unix.Read(s.fd, s.buf)
	switch {
	case errors.Is(err, unix.EINTR), errors.Is(err, unix.EAGAIN):
		return false, nil
	case err != nil:
		return false, err
	case n == 0:
		s.eof = true
	default:
		s.pending = append(s.pending, s.buf[:n]...)
	}
	return s.complete(), nil
}

// ReadLine returns the first buffered line including its newline. The final
// unterminated line is returned with io.EOF. It never blocks.
func (s *FileSource) ReadLine() (string, error) {
	if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
		line := string(s.pending[:i+1])
		s.pending = s.pending[i+1:]
		return line, nil
	}
	if s.eof {
		line := string(s.pending)
		s.pending = nil
		return line, io.EOF
	}
	return "", errNoLine
}

func (s *FileSource) complete() bool {
	return s.eof || bytes.IndexByte(s.pending, '\n') >= 0
}

// NewTerminal builds a Reader for f. A terminal with WithInteractive(true)
// gets the character-level raw strategy; any other file is polled. The
// countdown is only drawn on terminals.
func NewTerminal(f *os.File, out io.Writer, opts ...Option) *Reader {
	o := buildOptions(opts)
	tty := isatty.IsTerminal(f.Fd())
	if !tty {
		opts = append(opts, WithCountdown(false))
	}
	if tty && o.interactive {
		return newReader(&rawTerminal{
			fd:        int(f.Fd()),
			out:       out,
			countdown: o.countdown,
		}, out, StrategyRaw)
	}
	logger.Log.Debugw("Using readiness polling", "fd", f.Fd(), "tty", tty)
	return NewPollingReader(NewFileSource(f), out, opts...)
}

func pollReadable(fd int, wait time.Duration) (bool, error) {
	ms := int(wait / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, err
	}
	return n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0, nil
}
