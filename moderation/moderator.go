package moderation

import (
	"bufio"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"feed-lab/errors"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator censors forbidden words in user-submitted text before it is
// persisted. Matching runs over a normalized view of the input (lowercase,
// leet-speak folded, punctuation and spacing stripped) so "B.4.d.g.€r"
// still hits a "badger" entry, while the replacement is applied to the
// original runes to preserve spacing.
type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
	log         *slog.Logger
}

// NewModerator builds the Aho-Corasick automaton from the word list.
// Entries that normalize to nothing (pure punctuation) are dropped; with
// no usable entries the moderator censors nothing.
func NewModerator(censoredWords []string, replacement rune, log *slog.Logger) (Moderator, error) {
	var patterns [][]rune
	for _, word := range censoredWords {
		normalized := normalize([]rune(word), nil)
		if len(normalized) == 0 {
			continue
		}
		patterns = append(patterns, normalized)
	}

	if len(patterns) == 0 {
		log.Debug("Moderation disabled, no usable censored words")
		return Moderator{replacement: replacement, log: log}, nil
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{matcher: machine, replacement: replacement, log: log}, nil
}

// Censor replaces every forbidden span with the replacement character and
// returns the censored text along with the normalized words that matched.
func (m *Moderator) Censor(original string) (string, []string) {
	if m.matcher == nil || original == "" {
		return original, nil
	}

	origRunes := []rune(original)
	origIdx := make([]int, 0, len(origRunes))
	normalized := normalize(origRunes, func(i int) {
		origIdx = append(origIdx, i)
	})
	if len(normalized) == 0 {
		return original, nil
	}

	spans := m.matcher.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return original, nil
	}

	var words []string
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		words = append(words, string(span.Word))

		// Star out the original span, internal punctuation included.
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			origRunes[i] = m.replacement
		}
	}

	return string(origRunes), words
}

// LoadWords reads one censored word per line, skipping blanks. A file with
// no words at all is a configuration mistake and fails loudly.
func LoadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errors.ErrEmptyWords
	}
	return words, nil
}

// normalize lowercases, folds leet-speak substitutions and drops noise
// runes. When track is non-nil it receives the original index of every
// rune that survives, so matches can be mapped back onto the input.
func normalize(input []rune, track func(i int)) []rune {
	out := make([]rune, 0, len(input))
	for i, r := range input {
		folded := foldLeet(r)
		if isNoise(folded) {
			continue
		}
		out = append(out, unicode.ToLower(folded))
		if track != nil {
			track(i)
		}
	}
	return out
}

// foldLeet maps common leet-speak characters back to their standard
// alphabet counterparts.
func foldLeet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
