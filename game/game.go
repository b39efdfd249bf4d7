// game/game.go
package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// DefaultLives is the number of incorrect actions a player may make.
const DefaultLives = 6

// Placeholder is rendered for letters that have not been guessed yet.
const Placeholder = '_'

var (
	ErrInvalidAnswer = errors.New("answer must be a non-empty string")
	ErrInvalidLetter = errors.New("letter must be a single alphabetic character")
)

// Game holds the hidden answer, the letters guessed so far and the remaining
// lives for one round. It is not safe for concurrent use.
type Game struct {
	answer  string
	chars   []rune
	guessed map[rune]bool
	lives   int
}

// New creates a game for answer with the given number of lives.
func New(answer string, lives int) (*Game, error) {
	if answer == "" || !utf8.ValidString(answer) {
		return nil, ErrInvalidAnswer
	}
	return &Game{
		answer:  answer,
		chars:   []rune(answer),
		guessed: make(map[rune]bool),
		lives:   lives,
	}, nil
}

func (g *Game) Answer() string { return g.answer }

func (g *Game) Lives() int { return g.lives }

// CurrentState renders the answer with unguessed letters masked.
func (g *Game) CurrentState() string {
	var b strings.Builder
	for _, ch := range g.chars {
		if unicode.IsLetter(ch) && !g.guessed[unicode.ToLower(ch)] {
			b.WriteRune(Placeholder)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// RevealCount marks letter as guessed and returns how many times it occurs in
// the answer. A letter that was already guessed yields 0.
func (g *Game) RevealCount(letter string) (int, error) {
	r, err := parseLetter(letter)
	if err != nil {
		return 0, err
	}
	if g.guessed[r] {
		return 0, nil
	}
	g.guessed[r] = true
	return g.occurrences(r), nil
}

// GuessLetter reports whether letter is in the answer. A wrong new letter
// costs one life; repeating a letter never does.
func (g *Game) GuessLetter(letter string) (bool, error) {
	r, err := parseLetter(letter)
	if err != nil {
		return false, err
	}
	if g.guessed[r] {
		return g.occurrences(r) > 0, nil
	}
	count, err := g.RevealCount(letter)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	g.lives--
	return false, nil
}

// GuessFull compares attempt with the whole answer, ignoring case and
// surrounding whitespace. A match reveals every letter; a miss costs one life
// and leaves the guessed letters untouched. Any string is a valid attempt;
// undecodable bytes simply never match.
func (g *Game) GuessFull(attempt string) bool {
	fold := cases.Fold()
	if !utf8.ValidString(attempt) || fold.String(strings.TrimSpace(attempt)) != fold.String(strings.TrimSpace(g.answer)) {
		g.lives--
		return false
	}
	for _, ch := range g.chars {
		if unicode.IsLetter(ch) {
			g.guessed[unicode.ToLower(ch)] = true
		}
	}
	return true
}

// LoseLife takes one life without touching the guessed letters. Used for
// turns that expire without input.
func (g *Game) LoseLife() {
	g.lives--
}

// Guessed reports whether letter has already been guessed. Invalid letters
// are never guessed.
func (g *Game) Guessed(letter string) bool {
	r, err := parseLetter(letter)
	if err != nil {
		return false
	}
	return g.guessed[r]
}

// GuessedLetters returns the guessed letters in alphabetical order.
func (g *Game) GuessedLetters() []string {
	letters := make([]string, 0, len(g.guessed))
	for r := range g.guessed {
		letters = append(letters, string(r))
	}
	sort.Strings(letters)
	return letters
}

func (g *Game) IsWon() bool {
	for _, ch := range g.chars {
		if unicode.IsLetter(ch) && !g.guessed[unicode.ToLower(ch)] {
			return false
		}
	}
	return true
}

func (g *Game) IsLost() bool {
	return g.lives <= 0
}

func (g *Game) occurrences(r rune) int {
	n := 0
	for _, ch := range g.chars {
		if unicode.ToLower(ch) == r {
			n++
		}
	}
	return n
}

// parseLetter returns the lower-cased rune of a one-letter string.
func parseLetter(letter string) (rune, error) {
	if utf8.RuneCountInString(letter) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
	}
	r, _ := utf8.DecodeRuneInString(letter)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
	}
	return unicode.ToLower(r), nil
}
