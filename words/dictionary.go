// words/dictionary.go
package words

import (
	"bufio"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"

	"github.com/thesooraj/HangMan-Project/logger"
)

// Tier selects the kind of answer: a single word or a phrase.
type Tier string

const (
	TierBasic        Tier = "basic"
	TierIntermediate Tier = "intermediate"
)

var ErrInvalidTier = errors.New("tier must be 'basic' or 'intermediate'")

var fallback = map[Tier][]string{
	TierBasic:        {"python", "hangman", "banana", "apple", "testing"},
	TierIntermediate: {"hello world", "unit testing", "test driven development"},
}

// ParseTier accepts the long names and their first letter, ignoring case.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "basic":
		return TierBasic, nil
	case "i", "intermediate":
		return TierIntermediate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTier, s)
}

// Dictionary hands out random answers per tier.
type Dictionary struct {
	lists map[Tier][]string
	rng   *rand.Rand
	mutex sync.Mutex
}

// Load reads the word and phrase files. A tier whose file cannot be read or
// holds no entries uses the built-in list instead.
func Load(wordsFile, phrasesFile string) *Dictionary {
	return &Dictionary{
		lists: map[Tier][]string{
			TierBasic:        loadList(TierBasic, wordsFile),
			TierIntermediate: loadList(TierIntermediate, phrasesFile),
		},
		rng: rand.New(rand.NewSource(newSeed())),
	}
}

// NewDictionary builds a dictionary from in-memory lists. Missing or empty
// tiers fall back to the built-in lists.
func NewDictionary(lists map[Tier][]string, seed int64) *Dictionary {
	d := &Dictionary{
		lists: make(map[Tier][]string, len(fallback)),
		rng:   rand.New(rand.NewSource(seed)),
	}
	for tier, def := range fallback {
		if l := clean(lists[tier]); len(l) > 0 {
			d.lists[tier] = l
		} else {
			d.lists[tier] = def
		}
	}
	return d
}

// Random returns a uniformly chosen answer for tier.
func (d *Dictionary) Random(tier Tier) (string, error) {
	list, ok := d.lists[tier]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}
	d.mutex.Lock()
	i := d.rng.Intn(len(list))
	d.mutex.Unlock()
	return list[i], nil
}

// Size returns the number of answers available for tier.
func (d *Dictionary) Size(tier Tier) int {
	return len(d.lists[tier])
}

func loadList(tier Tier, path string) []string {
	lines, err := readLines(path)
	if err != nil {
		logger.Log.Warnw("Using built-in answers", "tier", tier, "path", path, "error", err)
		return fallback[tier]
	}
	if len(lines) == 0 {
		logger.Log.Warnw("Answer file is empty, using built-in answers", "tier", tier, "path", path)
		return fallback[tier]
	}
	logger.Log.Infow("Loaded answers", "tier", tier, "path", path, "count", len(lines))
	return lines
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return lines, nil
}

func clean(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.Int63()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
