package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/thesooraj/HangMan-Project/game"
	"github.com/thesooraj/HangMan-Project/input"
	"github.com/thesooraj/HangMan-Project/logger"
	"github.com/thesooraj/HangMan-Project/words"
)

// reply is one scripted ReadLine result.
type reply struct {
	line string
	ok   bool
	err  error
}

func line(s string) reply { return reply{line: s, ok: true} }

var timedOut = reply{}

// MockReader is a LineReader that plays back scripted replies and reports
// closed input once they run out.
type MockReader struct {
	replies  []reply
	prompts  []string
	timeouts []time.Duration
}

func (m *MockReader) ReadLine(ctx context.Context, prompt string, d time.Duration) (string, bool, error) {
	m.prompts = append(m.prompts, prompt)
	m.timeouts = append(m.timeouts, d)
	if len(m.replies) == 0 {
		return "", false, input.ErrInputClosed
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	return r.line, r.ok, r.err
}

// MockRecorder counts metric calls.
type MockRecorder struct {
	turns    int
	timeouts int
	guesses  map[string]int
	games    []string
	lives    int
}

func (m *MockRecorder) IncTurns()    { m.turns++ }
func (m *MockRecorder) IncTimeouts() { m.timeouts++ }
func (m *MockRecorder) ObserveGuess(kind, result string) {
	if m.guesses == nil {
		m.guesses = make(map[string]int)
	}
	m.guesses[kind+"/"+result]++
}
func (m *MockRecorder) ObserveGame(outcome string)         { m.games = append(m.games, outcome) }
func (m *MockRecorder) SetLivesLeft(lives int)             { m.lives = lives }
func (m *MockRecorder) ObserveReadLatency(d time.Duration) {}

func newTestSession(t *testing.T, answer string, lives int, replies ...reply) (*Session, *MockReader, *MockRecorder, *bytes.Buffer) {
	t.Helper()
	g, err := game.New(answer, lives)
	if err != nil {
		t.Fatal(err)
	}
	reader := &MockReader{replies: replies}
	rec := &MockRecorder{}
	var out bytes.Buffer
	return NewSession(g, reader, &out, 15*time.Second, "quit", rec), reader, rec, &out
}

func TestRun_WinByLetters(t *testing.T) {
	s, reader, rec, out := newTestSession(t, "go", 6, line("g"), line("O"))

	outcome, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if outcome != OutcomeWon {
		t.Fatalf("Expected %q, got %q", OutcomeWon, outcome)
	}
	if !strings.Contains(out.String(), "YOU WIN! Answer: go") {
		t.Errorf("Expected win message, got %q", out.String())
	}
	if rec.turns != 2 || rec.guesses["letter/hit"] != 2 {
		t.Errorf("Unexpected metrics: %+v", rec)
	}
	if reader.timeouts[0] != 15*time.Second {
		t.Errorf("Expected turn timeout to be passed through, got %v", reader.timeouts[0])
	}
	if reader.prompts[0] != turnPrompt {
		t.Errorf("Unexpected prompt %q", reader.prompts[0])
	}
}

func TestRun_LoseByWrongLetters(t *testing.T) {
	s, _, rec, out := newTestSession(t, "apple", 2, line("x"), line("z"))

	outcome, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcome != OutcomeLost {
		t.Fatalf("Expected %q, got %q", OutcomeLost, outcome)
	}
	if !strings.Contains(out.String(), "Sorry, 'x' is not in the answer. Lives left: 1") {
		t.Errorf("Expected miss message, got %q", out.String())
	}
	if !strings.Contains(out.String(), "GAME OVER. Answer: apple") {
		t.Errorf("Expected game over message, got %q", out.String())
	}
	if len(rec.games) != 1 || rec.games[0] != "lost" {
		t.Errorf("Expected one lost game recorded, got %v", rec.games)
	}
}

func TestRun_TimeoutCostsALife(t *testing.T) {
	s, _, rec, out := newTestSession(t, "apple", 2, timedOut, line("a"), timedOut)

	outcome, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcome != OutcomeLost {
		t.Fatalf("Expected %q, got %q", OutcomeLost, outcome)
	}
	if rec.timeouts != 2 {
		t.Errorf("Expected 2 timeouts, got %d", rec.timeouts)
	}
	if !strings.Contains(out.String(), "Time is up! You lost one life. Lives left: 1") {
		t.Errorf("Expected timeout message, got %q", out.String())
	}
	if s.Game.Guessed("z") || len(s.Game.GuessedLetters()) != 1 {
		t.Errorf("Timeouts must not add guesses, got %v", s.Game.GuessedLetters())
	}
}

func TestRun_Quit(t *testing.T) {
	s, _, rec, out := newTestSession(t, "apple", 3, line("e"), line("  QuIt \r"))

	outcome, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcome != OutcomeQuit {
		t.Fatalf("Expected %q, got %q", OutcomeQuit, outcome)
	}
	if !strings.Contains(out.String(), "You quit the game. Answer was: apple") {
		t.Errorf("Expected quit message, got %q", out.String())
	}
	if s.Game.Lives() != 3 || rec.turns != 1 {
		t.Errorf("Quit must not consume a turn, lives=%d turns=%d", s.Game.Lives(), rec.turns)
	}
}

func TestRun_EmptyAndRepeatedInputAreFree(t *testing.T) {
	s, _, rec, out := newTestSession(t, "apple", 3,
		line(""), line("   "), line("p"), line("P"), line("quit"))

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(out.String(), "No input provided."); got != 2 {
		t.Errorf("Expected 2 empty input notices, got %d", got)
	}
	if !strings.Contains(out.String(), "You already guessed 'P'. Try another letter.") {
		t.Errorf("Expected repeat notice, got %q", out.String())
	}
	if rec.turns != 1 || rec.guesses["letter/hit"] != 1 {
		t.Errorf("Repeated letter must not be guessed twice: %+v", rec)
	}
	if s.Game.Lives() != 3 {
		t.Errorf("Expected lives 3, got %d", s.Game.Lives())
	}
}

func TestRun_InvalidLetterIsReported(t *testing.T) {
	s, _, rec, out := newTestSession(t, "apple", 3, line("7"), line("quit"))

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Invalid guess:") {
		t.Errorf("Expected invalid guess message, got %q", out.String())
	}
	if s.Game.Lives() != 3 || rec.turns != 0 {
		t.Errorf("Invalid letter must not consume a turn, lives=%d turns=%d", s.Game.Lives(), rec.turns)
	}
}

func TestRun_FullGuess(t *testing.T) {
	s, _, rec, out := newTestSession(t, "hello world", 3, line("goodbye world"), line("Hello World"))

	outcome, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcome != OutcomeWon {
		t.Fatalf("Expected %q, got %q", OutcomeWon, outcome)
	}
	if !strings.Contains(out.String(), "Wrong full guess. Lives left: 2") {
		t.Errorf("Expected wrong guess message, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Congratulations! You guessed the answer!") {
		t.Errorf("Expected congratulations, got %q", out.String())
	}
	if rec.guesses["full/miss"] != 1 || rec.guesses["full/hit"] != 1 {
		t.Errorf("Unexpected guess metrics: %v", rec.guesses)
	}
}

func TestRun_UndecodableGuessCostsALife(t *testing.T) {
	s, _, rec, out := newTestSession(t, "apple", 3, line("\xff\xfe"), line("quit"))

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Game.Lives() != 2 || rec.guesses["full/miss"] != 1 {
		t.Errorf("Undecodable input must count as a wrong guess, lives=%d guesses=%v", s.Game.Lives(), rec.guesses)
	}
	if !strings.Contains(out.String(), "Wrong full guess. Lives left: 2") {
		t.Errorf("Expected wrong guess message, got %q", out.String())
	}
}

func TestRun_RendersMaskEachTurn(t *testing.T) {
	s, _, _, out := newTestSession(t, "banana", 3, line("a"), line("quit"))

	s.Run(context.Background())
	if !strings.Contains(out.String(), "Word: ______") {
		t.Errorf("Expected initial mask, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Word: _a_a_a") {
		t.Errorf("Expected revealed mask, got %q", out.String())
	}
}

func TestRun_InterruptPropagates(t *testing.T) {
	s, _, rec, _ := newTestSession(t, "apple", 3, reply{err: input.ErrInterrupted})

	outcome, err := s.Run(context.Background())
	if !errors.Is(err, input.ErrInterrupted) {
		t.Fatalf("Expected ErrInterrupted, got %v", err)
	}
	if outcome != OutcomeInterrupted {
		t.Errorf("Expected %q, got %q", OutcomeInterrupted, outcome)
	}
	if len(rec.games) != 1 || rec.games[0] != "interrupted" {
		t.Errorf("Expected interrupted game recorded, got %v", rec.games)
	}
}

func TestRun_ReadFailure(t *testing.T) {
	boom := errors.New("terminal gone")
	s, _, _, _ := newTestSession(t, "apple", 3, reply{err: boom})

	_, err := s.Run(context.Background())
	if !errors.Is(err, boom) || IsAbort(err) {
		t.Fatalf("Expected wrapped read failure, got %v", err)
	}
}

func TestRun_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core).Sugar()
	t.Cleanup(func() { logger.Log = prev })

	s, _, _, _ := newTestSession(t, "go", 3, line("go"))
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	finished := logs.FilterMessage("Round finished").All()
	if len(finished) != 1 {
		t.Fatalf("Expected one round finished entry, got %d", len(finished))
	}
	fields := finished[0].ContextMap()
	if fields["session"] != s.ID || fields["outcome"] != "won" {
		t.Errorf("Unexpected log fields: %v", fields)
	}
}

func TestRun_WithTimedReader(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	calls := 0
	reader := input.NewFuncReader(func() (string, error) {
		calls++
		if calls == 1 {
			<-release
		}
		return "quit", nil
	}, io.Discard, input.WithPollInterval(5*time.Millisecond))

	g, _ := game.New("apple", 1)
	s := NewSession(g, reader, io.Discard, 20*time.Millisecond, "quit", nil)

	outcome, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcome != OutcomeLost {
		t.Fatalf("Expected the slow turn to time out and lose, got %q", outcome)
	}
}

type fixedSource string

func (f fixedSource) Random(tier words.Tier) (string, error) {
	if tier != words.TierBasic && tier != words.TierIntermediate {
		return "", words.ErrInvalidTier
	}
	return string(f), nil
}

func TestManager_ChooseTierRetries(t *testing.T) {
	reader := &MockReader{replies: []reply{line("x"), line(" I ")}}
	var out bytes.Buffer
	m := NewManager(fixedSource("cat"), reader, &out, Options{}, nil)

	tier, err := m.ChooseTier(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tier != words.TierIntermediate {
		t.Errorf("Expected %q, got %q", words.TierIntermediate, tier)
	}
	if !strings.Contains(out.String(), "Invalid choice. Please enter 'b' or 'i'.") {
		t.Errorf("Expected invalid choice notice, got %q", out.String())
	}
	for _, d := range reader.timeouts {
		if d != 0 {
			t.Errorf("Tier prompt should have no deadline, got %v", d)
		}
	}
}

func TestManager_ConfiguredTierSkipsPrompt(t *testing.T) {
	reader := &MockReader{}
	m := NewManager(fixedSource("cat"), reader, io.Discard, Options{Tier: "basic"}, nil)

	tier, err := m.ChooseTier(context.Background())
	if err != nil || tier != words.TierBasic {
		t.Fatalf("Expected basic tier, got %q, %v", tier, err)
	}
	if len(reader.prompts) != 0 {
		t.Errorf("No prompt expected, got %v", reader.prompts)
	}
}

func TestManager_PlayFullRound(t *testing.T) {
	reader := &MockReader{replies: []reply{line("b"), line("c"), line("a"), line("t")}}
	var out bytes.Buffer
	m := NewManager(fixedSource("Cat"), reader, &out, Options{Lives: 4, TurnTimeout: time.Second}, nil)

	outcome, err := m.Play(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcome != OutcomeWon {
		t.Fatalf("Expected %q, got %q", OutcomeWon, outcome)
	}
	if !strings.Contains(out.String(), "Starting a basic game. You have 4 lives. Type 'quit' to exit.") {
		t.Errorf("Expected start banner, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Word: ___") {
		t.Errorf("Expected masked answer, got %q", out.String())
	}
}

func TestManager_PlayInterruptedSaysGoodbye(t *testing.T) {
	reader := &MockReader{replies: []reply{line("b"), {err: input.ErrInterrupted}}}
	var out bytes.Buffer
	m := NewManager(fixedSource("cat"), reader, &out, Options{TurnTimeout: time.Second}, nil)

	outcome, err := m.Play(context.Background())
	if err != nil {
		t.Fatalf("Interruption should end gracefully, got %v", err)
	}
	if outcome != OutcomeInterrupted {
		t.Errorf("Expected %q, got %q", OutcomeInterrupted, outcome)
	}
	if !strings.HasSuffix(out.String(), "Interrupted. Goodbye.\n") {
		t.Errorf("Expected farewell, got %q", out.String())
	}
}

func TestManager_PlayClosedDuringTierPrompt(t *testing.T) {
	var out bytes.Buffer
	m := NewManager(fixedSource("cat"), &MockReader{}, &out, Options{}, nil)

	outcome, err := m.Play(context.Background())
	if err != nil || outcome != OutcomeInterrupted {
		t.Fatalf("Expected graceful end, got %q, %v", outcome, err)
	}
}
