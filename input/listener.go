package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// LineFunc performs one blocking line read.
type LineFunc func() (string, error)

// ReaderFunc adapts r to a LineFunc. Calls are serialised: a listener that
// was abandoned on timeout finishes its read before the next one starts, and
// the line it consumed is lost.
func ReaderFunc(r io.Reader) LineFunc {
	br := bufio.NewReader(r)
	var mutex sync.Mutex
	return func() (string, error) {
		mutex.Lock()
		defer mutex.Unlock()
		line, err := br.ReadString('\n')
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return line, err
	}
}

type lineResult struct {
	line string
	err  error
}

// listener runs the read on its own goroutine and waits for the result in
// bounded slices. On timeout the goroutine is abandoned, not stopped: Go
// cannot cancel a blocking read. Each call gets a fresh one-slot handoff
// channel, so the late goroutine can always complete its send and exit, and
// its value is never seen by a later call.
type listener struct {
	read      LineFunc
	interval  time.Duration
	countdown countdown
}

func (l *listener) wait(ctx context.Context, prompt string, deadline time.Time) (string, bool, error) {
	handoff := make(chan lineResult, 1)
	go func() {
		line, err := l.read()
		handoff <- lineResult{line: line, err: err}
	}()

	for {
		wait, expired := nextSlice(deadline, l.interval)
		if expired {
			return "", false, nil
		}

		timer := time.NewTimer(wait)
		select {
		case res := <-handoff:
			timer.Stop()
			if res.err != nil {
				if errors.Is(res.err, io.EOF) {
					return "", false, ErrInputClosed
				}
				return "", false, fmt.Errorf("read line: %w", res.err)
			}
			return res.line, true, nil
		case <-ctx.Done():
			timer.Stop()
			return "", false, interrupted(ctx)
		case <-timer.C:
			l.countdown.show("", deadline)
		}
	}
}
