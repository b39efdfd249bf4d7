//go:build unix

package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// rawTick is how often the raw strategy checks for keys and redraws.
const rawTick = 100 * time.Millisecond

// clearEOL erases from the cursor to the end of the line.
const clearEOL = "\x1b[K"

// rawTerminal puts the terminal in raw mode for the duration of one read and
// edits the line itself. Ctrl-C arrives as a byte here, not as a signal.
type rawTerminal struct {
	fd        int
	out       io.Writer
	countdown bool
}

func (t *rawTerminal) wait(ctx context.Context, prompt string, deadline time.Time) (string, bool, error) {
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return "", false, fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(t.fd, state)

	var (
		ed  lineEditor
		buf = make([]byte, 64)
	)
	for {
		if ctx.Err() != nil {
			io.WriteString(t.out, "\r\n")
			return "", false, interrupted(ctx)
		}

		wait, expired := nextSlice(deadline, rawTick)
		if expired {
			io.WriteString(t.out, "\r\n")
			return "", false, nil
		}

		ready, err := pollReadable(t.fd, wait)
		if err != nil {
			return "", false, fmt.Errorf("poll terminal: %w", err)
		}
		if ready {
			n, err := unix.Read(t.fd, buf)
			if err != nil && !errors.Is(err, unix.EINTR) && !errors.Is(err, unix.EAGAIN) {
				return "", false, fmt.Errorf("read terminal: %w", err)
			}
			if err == nil && n == 0 {
				io.WriteString(t.out, "\r\n")
				return "", false, ErrInputClosed
			}
			for _, b := range buf[:max(n, 0)] {
				switch ed.feed(b) {
				case editSubmit:
					t.redraw(prompt, &ed, time.Time{})
					io.WriteString(t.out, "\r\n")
					return ed.String(), true, nil
				case editInterrupt:
					io.WriteString(t.out, "\r\n")
					return "", false, ErrInterrupted
				case editEOF:
					io.WriteString(t.out, "\r\n")
					return "", false, ErrInputClosed
				}
			}
		}
		t.redraw(prompt, &ed, deadline)
	}
}

func (t *rawTerminal) redraw(prompt string, ed *lineEditor, deadline time.Time) {
	if !t.countdown || deadline.IsZero() {
		fmt.Fprintf(t.out, "\r%s%s%s", prompt, ed.String(), clearEOL)
		return
	}
	fmt.Fprintf(t.out, "\r%s%s   Time left: %ds %s", prompt, ed.String(), secondsLeft(deadline), clearEOL)
}
