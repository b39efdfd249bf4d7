// input/reader.go
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/thesooraj/HangMan-Project/logger"
)

var (
	// ErrInterrupted is returned when the player cancels a pending read.
	ErrInterrupted = errors.New("input interrupted")
	// ErrInputClosed is returned when the input stream ends before a line.
	ErrInputClosed = errors.New("input closed")
)

// MaxPollInterval bounds every waiting slice, so cancellation and the
// countdown are handled at least once a second.
const MaxPollInterval = time.Second

const (
	StrategyPoll     = "poll"
	StrategyListener = "listener"
	StrategyRaw      = "raw"
)

// waiter blocks until a line is available, the deadline passes (ok == false)
// or ctx is cancelled. A zero deadline waits forever.
type waiter interface {
	wait(ctx context.Context, prompt string, deadline time.Time) (line string, ok bool, err error)
}

type options struct {
	pollInterval time.Duration
	countdown    bool
	interactive  bool
}

type Option func(*options)

// WithPollInterval sets the waiting slice. Values outside (0, 1s] use 1s.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d <= 0 || d > MaxPollInterval {
			d = MaxPollInterval
		}
		o.pollInterval = d
	}
}

// WithCountdown toggles the "Time left" indicator.
func WithCountdown(enabled bool) Option {
	return func(o *options) { o.countdown = enabled }
}

// WithInteractive enables character-level editing when the input is a
// terminal that supports raw mode.
func WithInteractive(enabled bool) Option {
	return func(o *options) { o.interactive = enabled }
}

func buildOptions(opts []Option) options {
	o := options{pollInterval: MaxPollInterval}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Reader reads one line at a time with a per-call deadline. The waiting
// strategy is fixed when the Reader is built.
type Reader struct {
	waiter   waiter
	out      io.Writer
	strategy string
}

// NewReader picks a strategy from what src can do: a ReadySource is polled,
// an *os.File goes through NewTerminal, anything else is read by a
// background listener.
func NewReader(src io.Reader, out io.Writer, opts ...Option) *Reader {
	if rs, ok := src.(ReadySource); ok {
		return NewPollingReader(rs, out, opts...)
	}
	if f, ok := src.(*os.File); ok {
		return NewTerminal(f, out, opts...)
	}
	return NewFuncReader(ReaderFunc(src), out, opts...)
}

// NewPollingReader waits on src's readiness query in bounded slices.
func NewPollingReader(src ReadySource, out io.Writer, opts ...Option) *Reader {
	o := buildOptions(opts)
	return newReader(&poller{
		src:       src,
		out:       out,
		interval:  o.pollInterval,
		countdown: countdown{out: out, enabled: o.countdown},
	}, out, StrategyPoll)
}

// NewFuncReader runs fn on a background listener for every read. Used for
// blocking sources and for test stand-ins.
func NewFuncReader(fn LineFunc, out io.Writer, opts ...Option) *Reader {
	o := buildOptions(opts)
	return newReader(&listener{
		read:      fn,
		interval:  o.pollInterval,
		countdown: countdown{out: out, enabled: o.countdown},
	}, out, StrategyListener)
}

func newReader(w waiter, out io.Writer, strategy string) *Reader {
	logger.Log.Debugw("Input reader ready", "strategy", strategy)
	return &Reader{waiter: w, out: out, strategy: strategy}
}

// Strategy names the waiting strategy in use.
func (r *Reader) Strategy() string {
	return r.strategy
}

// ReadLine shows prompt and waits for a line for at most timeout. ok is false
// when the time ran out; that is not an error. A timeout <= 0 waits without a
// deadline. The returned line has its trailing newline and carriage return
// removed.
func (r *Reader) ReadLine(ctx context.Context, prompt string, timeout time.Duration) (line string, ok bool, err error) {
	if ctx.Err() != nil {
		return "", false, interrupted(ctx)
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	if _, err := io.WriteString(r.out, prompt); err != nil {
		return "", false, fmt.Errorf("write prompt: %w", err)
	}

	line, ok, err = r.waiter.wait(ctx, prompt, deadline)
	if err != nil {
		return "", false, err
	}
	if !ok {
		logger.Log.Debugw("Read timed out", "strategy", r.strategy, "timeout", timeout)
		return "", false, nil
	}
	return trimEOL(line), true, nil
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

func interrupted(ctx context.Context) error {
	return fmt.Errorf("%w: %v", ErrInterrupted, context.Cause(ctx))
}

// nextSlice returns how long the next wait may block, or expired once the
// deadline has passed.
func nextSlice(deadline time.Time, interval time.Duration) (wait time.Duration, expired bool) {
	if deadline.IsZero() {
		return interval, false
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return 0, true
	}
	return min(interval, remaining), false
}

// countdown redraws the remaining-time indicator on the current line.
type countdown struct {
	out     io.Writer
	enabled bool
}

func (c countdown) show(prefix string, deadline time.Time) {
	if !c.enabled || deadline.IsZero() {
		return
	}
	fmt.Fprintf(c.out, "\r%sTime left: %ds ", prefix, secondsLeft(deadline))
}

func secondsLeft(deadline time.Time) int {
	secs := int(time.Until(deadline).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}
