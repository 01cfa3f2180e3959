// Package generator builds typing text from word lists.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/typeamp/typeamp/internal/model"
	"github.com/typeamp/typeamp/internal/words"
)

// Sizing assumptions for time mode: 40 WPM with a 20% buffer so the
// text outlasts the countdown.
const (
	baselineWPM  = 40
	sizingBuffer = 1.2
)

// Defaults applied when the config omits a limit field.
const (
	defaultDuration  = 30
	defaultWordCount = 25
)

// Generator produces practice text from word lists.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithRand returns a Generator backed by the provided source, so
// tests can make the output reproducible.
func NewWithRand(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// FromWords builds display text from a word list according to the
// config mode. An empty word list is a contract violation.
func (g *Generator) FromWords(list []string, cfg model.TestConfig) (string, error) {
	if len(list) == 0 {
		return "", fmt.Errorf("word list is empty")
	}
	count := g.wordCountFor(cfg)
	if cfg.Punctuation {
		return g.enhance(cycleWords(list, count)), nil
	}
	if cfg.Mode == model.ModeQuote {
		return g.quoteText(list), nil
	}
	return strings.Join(cycleWords(list, count), " "), nil
}

// Fallback builds text from the built-in English list. It cannot fail.
func (g *Generator) Fallback(cfg model.TestConfig) string {
	text, err := g.FromWords(words.Fallback(), cfg)
	if err != nil {
		// Unreachable: the built-in list is never empty.
		return ""
	}
	return text
}

func (g *Generator) wordCountFor(cfg model.TestConfig) int {
	switch cfg.Mode {
	case model.ModeWords:
		count := cfg.WordCount
		if count <= 0 {
			count = defaultWordCount
		}
		return count
	case model.ModeQuote:
		// Size roughly matching 3-5 sentences; only the enhanced path
		// uses this, the plain path builds its own sentences.
		return (3 + g.rnd.Intn(3)) * 10
	default:
		duration := cfg.Duration
		if duration <= 0 {
			duration = defaultDuration
		}
		return int(math.Ceil(float64(duration) / 60.0 * baselineWPM * sizingBuffer))
	}
}

// quoteText synthesizes 3-5 sentences of 5-15 words each.
func (g *Generator) quoteText(list []string) string {
	sentenceCount := 3 + g.rnd.Intn(3)
	offset := 0
	sentences := make([]string, 0, sentenceCount)
	for i := 0; i < sentenceCount; i++ {
		length := 5 + g.rnd.Intn(11)
		sentence := make([]string, 0, length)
		for j := 0; j < length; j++ {
			sentence = append(sentence, list[offset%len(list)])
			offset++
		}
		sentence[0] = capitalize(sentence[0])
		sentences = append(sentences, strings.Join(sentence, " ")+".")
	}
	return strings.Join(sentences, " ")
}

// cycleWords repeats the list with wrap-around indexing until count
// words are collected.
func cycleWords(list []string, count int) []string {
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, list[i%len(list)])
	}
	return out
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func lowercase(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
