// session/session.go
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/thesooraj/HangMan-Project/game"
	"github.com/thesooraj/HangMan-Project/input"
	"github.com/thesooraj/HangMan-Project/logger"
)

const turnPrompt = "Enter a letter (or full word/phrase) > "

// Outcome is how a round ended.
type Outcome string

const (
	OutcomeWon         Outcome = "won"
	OutcomeLost        Outcome = "lost"
	OutcomeQuit        Outcome = "quit"
	OutcomeInterrupted Outcome = "interrupted"
)

// LineReader is the timed input a session reads turns from.
type LineReader interface {
	ReadLine(ctx context.Context, prompt string, timeout time.Duration) (line string, ok bool, err error)
}

// Recorder receives gameplay metrics.
type Recorder interface {
	IncTurns()
	IncTimeouts()
	ObserveGuess(kind, result string)
	ObserveGame(outcome string)
	SetLivesLeft(lives int)
	ObserveReadLatency(d time.Duration)
}

// Session is one round: a game plus the loop that feeds it turns.
type Session struct {
	ID         string
	Game       *game.Game
	CreatedAt  time.Time
	LastActive time.Time
	reader     LineReader
	out        io.Writer
	timeout    time.Duration
	quitWord   string
	recorder   Recorder
}

func NewSession(g *game.Game, reader LineReader, out io.Writer, timeout time.Duration, quitWord string, recorder Recorder) *Session {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	now := time.Now()
	return &Session{
		ID:         uuid.New().String(),
		Game:       g,
		CreatedAt:  now,
		LastActive: now,
		reader:     reader,
		out:        out,
		timeout:    timeout,
		quitWord:   quitWord,
		recorder:   recorder,
	}
}

// Run plays turns until the round is won, lost or quit. Interruption and
// end of input are returned as errors for the caller to handle.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	s.recorder.SetLivesLeft(s.Game.Lives())
	for {
		fmt.Fprintf(s.out, "\nWord: %s\n", s.Game.CurrentState())

		start := time.Now()
		line, ok, err := s.reader.ReadLine(ctx, turnPrompt, s.timeout)
		s.recorder.ObserveReadLatency(time.Since(start))
		if err != nil {
			if IsAbort(err) {
				logger.Log.Infow("Round aborted", "session", s.ID, "error", err)
				return s.finish(OutcomeInterrupted), err
			}
			return "", fmt.Errorf("read turn: %w", err)
		}
		s.LastActive = time.Now()

		if !ok {
			s.Game.LoseLife()
			s.recorder.IncTimeouts()
			logger.Log.Infow("Turn timed out", "session", s.ID, "lives", s.Game.Lives())
			fmt.Fprintf(s.out, "\nTime is up! You lost one life. Lives left: %d\n", s.Game.Lives())
		} else {
			played, outcome := s.apply(strings.TrimSpace(line))
			if outcome != "" {
				return s.finish(outcome), nil
			}
			if !played {
				continue
			}
		}

		s.recorder.IncTurns()
		s.recorder.SetLivesLeft(s.Game.Lives())

		if s.Game.IsWon() {
			fmt.Fprintf(s.out, "\nYOU WIN! Answer: %s\n", s.Game.Answer())
			return s.finish(OutcomeWon), nil
		}
		if s.Game.IsLost() {
			fmt.Fprintf(s.out, "\nGAME OVER. Answer: %s\n", s.Game.Answer())
			return s.finish(OutcomeLost), nil
		}
	}
}

// apply interprets one line of input. played is false when the turn had no
// effect and should simply be asked again.
func (s *Session) apply(in string) (played bool, outcome Outcome) {
	switch {
	case strings.EqualFold(in, s.quitWord):
		fmt.Fprintf(s.out, "You quit the game. Answer was: %s\n", s.Game.Answer())
		return false, OutcomeQuit
	case in == "":
		fmt.Fprintln(s.out, "No input provided.")
		return false, ""
	case utf8.RuneCountInString(in) == 1:
		return s.guessLetter(in), ""
	default:
		return s.guessFull(in), ""
	}
}

func (s *Session) guessLetter(letter string) bool {
	if s.Game.Guessed(letter) {
		fmt.Fprintf(s.out, "You already guessed '%s'. Try another letter.\n", letter)
		return false
	}
	correct, err := s.Game.GuessLetter(letter)
	if err != nil {
		s.recorder.ObserveGuess("letter", "invalid")
		fmt.Fprintf(s.out, "Invalid guess: %v\n", err)
		return false
	}
	logger.Log.Infow("Letter guessed", "session", s.ID, "letter", letter, "correct", correct, "lives", s.Game.Lives())
	if correct {
		s.recorder.ObserveGuess("letter", "hit")
		fmt.Fprintf(s.out, "Good! Letter '%s' is in the answer.\n", letter)
	} else {
		s.recorder.ObserveGuess("letter", "miss")
		fmt.Fprintf(s.out, "Sorry, '%s' is not in the answer. Lives left: %d\n", letter, s.Game.Lives())
	}
	return true
}

func (s *Session) guessFull(attempt string) bool {
	correct := s.Game.GuessFull(attempt)
	logger.Log.Infow("Answer guessed", "session", s.ID, "correct", correct, "lives", s.Game.Lives())
	if correct {
		s.recorder.ObserveGuess("full", "hit")
		fmt.Fprintln(s.out, "Congratulations! You guessed the answer!")
	} else {
		s.recorder.ObserveGuess("full", "miss")
		fmt.Fprintf(s.out, "Wrong full guess. Lives left: %d\n", s.Game.Lives())
	}
	return true
}

func (s *Session) finish(outcome Outcome) Outcome {
	s.recorder.ObserveGame(string(outcome))
	logger.Log.Infow("Round finished",
		"session", s.ID,
		"outcome", string(outcome),
		"lives", s.Game.Lives(),
		"duration", time.Since(s.CreatedAt),
	)
	return outcome
}

// IsAbort reports whether err ends the program politely rather than as a
// failure.
func IsAbort(err error) bool {
	return errors.Is(err, input.ErrInterrupted) || errors.Is(err, input.ErrInputClosed)
}

type nopRecorder struct{}

func (nopRecorder) IncTurns()                        {}
func (nopRecorder) IncTimeouts()                     {}
func (nopRecorder) ObserveGuess(kind, result string) {}
func (nopRecorder) ObserveGame(outcome string)       {}
func (nopRecorder) SetLivesLeft(lives int)           {}
func (nopRecorder) ObserveReadLatency(time.Duration) {}
