package keyword

import (
	"regexp"
	"strings"
)

// DefaultStopWords are common filler words never indexed from descriptions.
var DefaultStopWords = []string{
	"the", "and", "for", "with", "from", "his", "her", "that",
	"this", "when", "where", "what", "how", "who", "which", "why",
	"gets", "tells", "know", "find", "make", "does", "says", "during",
}

// DefaultMinLength is the shortest description word that is indexed.
const DefaultMinLength = 3

var wordRe = regexp.MustCompile(`[a-z]+`)

// Options control description tokenization.
type Options struct {
	StopWords []string
	MinLength int
}

// DefaultOptions returns DefaultStopWords and DefaultMinLength.
func DefaultOptions() Options {
	return Options{StopWords: DefaultStopWords, MinLength: DefaultMinLength}
}

// Tokenizer splits descriptions into index keywords.
type Tokenizer struct {
	stop      map[string]struct{}
	minLength int
}

// NewTokenizer returns a Tokenizer for opts. A zero MinLength uses DefaultMinLength and
// a nil StopWords uses DefaultStopWords.
func NewTokenizer(opts Options) *Tokenizer {
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}
	if opts.StopWords == nil {
		opts.StopWords = DefaultStopWords
	}
	stop := make(map[string]struct{}, len(opts.StopWords))
	for _, w := range opts.StopWords {
		stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &Tokenizer{stop: stop, minLength: opts.MinLength}
}

// Tokens returns the keywords of text in order of appearance: maximal runs of a-z after
// lower-casing, without short words and stop words. Digits, punctuation and non-ASCII
// letters separate words and are dropped.
func (t *Tokenizer) Tokens(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	out := words[:0]
	for _, w := range words {
		if len(w) < t.minLength {
			continue
		}
		if _, isStop := t.stop[w]; isStop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// IsStopWord reports whether w (case-insensitive) is a stop word.
func (t *Tokenizer) IsStopWord(w string) bool {
	_, ok := t.stop[strings.ToLower(w)]
	return ok
}
