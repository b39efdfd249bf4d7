package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/thesooraj/HangMan-Project/game"
	"github.com/thesooraj/HangMan-Project/logger"
	"github.com/thesooraj/HangMan-Project/words"
)

const tierPrompt = "Choose level: (b)asic word or (i)ntermediate phrase [b/i]: "

// AnswerSource hands out a random answer for a tier.
type AnswerSource interface {
	Random(tier words.Tier) (string, error)
}

type Options struct {
	Lives       int
	TurnTimeout time.Duration
	QuitWord    string
	// Tier skips the level prompt when set.
	Tier        string
}

// Manager sets up rounds: it asks for the tier, draws the answer and runs
// the session, and is the outermost place interruptions are handled.
type Manager struct {
	source   AnswerSource
	reader   LineReader
	out      io.Writer
	opts     Options
	recorder Recorder
}

func NewManager(source AnswerSource, reader LineReader, out io.Writer, opts Options, recorder Recorder) *Manager {
	if opts.Lives <= 0 {
		opts.Lives = game.DefaultLives
	}
	if opts.QuitWord == "" {
		opts.QuitWord = "quit"
	}
	return &Manager{
		source:   source,
		reader:   reader,
		out:      out,
		opts:     opts,
		recorder: recorder,
	}
}

// ChooseTier returns the configured tier or asks until the player picks one.
// The question has no time limit.
func (m *Manager) ChooseTier(ctx context.Context) (words.Tier, error) {
	if m.opts.Tier != "" {
		return words.ParseTier(m.opts.Tier)
	}
	for {
		line, _, err := m.reader.ReadLine(ctx, tierPrompt, 0)
		if err != nil {
			return "", err
		}
		tier, err := words.ParseTier(line)
		if err == nil {
			return tier, nil
		}
		fmt.Fprintln(m.out, "Invalid choice. Please enter 'b' or 'i'.")
	}
}

// NewSession draws an answer for tier and starts a round with it.
func (m *Manager) NewSession(tier words.Tier) (*Session, error) {
	answer, err := m.source.Random(tier)
	if err != nil {
		return nil, fmt.Errorf("draw answer: %w", err)
	}
	g, err := game.New(answer, m.opts.Lives)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	s := NewSession(g, m.reader, m.out, m.opts.TurnTimeout, m.opts.QuitWord, m.recorder)
	logger.Log.Infow("Round started", "session", s.ID, "tier", tier, "lives", m.opts.Lives, "length", len([]rune(answer)))
	return s, nil
}

// Play runs one full round. An interrupted or closed input ends it with a
// farewell and OutcomeInterrupted instead of an error.
func (m *Manager) Play(ctx context.Context) (Outcome, error) {
	fmt.Fprintln(m.out, "Welcome to Hangman.")

	tier, err := m.ChooseTier(ctx)
	if err != nil {
		return m.abort(err)
	}

	s, err := m.NewSession(tier)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(m.out, "Starting a %s game. You have %d lives. Type '%s' to exit.\n", tier, s.Game.Lives(), m.opts.QuitWord)

	outcome, err := s.Run(ctx)
	if err != nil {
		return m.abort(err)
	}
	return outcome, nil
}

func (m *Manager) abort(err error) (Outcome, error) {
	if IsAbort(err) {
		fmt.Fprintln(m.out, "\nInterrupted. Goodbye.")
		return OutcomeInterrupted, nil
	}
	if errors.Is(err, words.ErrInvalidTier) {
		return "", fmt.Errorf("choose tier: %w", err)
	}
	return "", err
}
