package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ReadySource is an input that can say whether a line is waiting without
// consuming it.
type ReadySource interface {
	// Ready blocks for at most wait and reports whether ReadLine would
	// return without blocking.
	Ready(wait time.Duration) (bool, error)
	ReadLine() (string, error)
}

// poller waits on the caller's goroutine; no extra goroutine is started.
type poller struct {
	src       ReadySource
	out       io.Writer
	interval  time.Duration
	countdown countdown
}

func (p *poller) wait(ctx context.Context, prompt string, deadline time.Time) (string, bool, error) {
	for {
		if ctx.Err() != nil {
			fmt.Fprintln(p.out)
			return "", false, interrupted(ctx)
		}

		wait, expired := nextSlice(deadline, p.interval)
		if expired {
			fmt.Fprintln(p.out)
			return "", false, nil
		}

		ready, err := p.src.Ready(wait)
		if err != nil {
			return "", false, fmt.Errorf("poll input: %w", err)
		}
		if !ready {
			p.countdown.show(prompt+"   ", deadline)
			continue
		}

		line, err := p.src.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if line == "" {
					return "", false, ErrInputClosed
				}
				return line, true, nil
			}
			return "", false, fmt.Errorf("read line: %w", err)
		}
		return line, true, nil
	}
}
