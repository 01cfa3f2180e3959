package generator

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/typeamp/typeamp/internal/model"
)

func newSeeded(seed int64) *Generator {
	return NewWithRand(rand.New(rand.NewSource(seed)))
}

func TestFromWordsEmptyListFails(t *testing.T) {
	g := newSeeded(1)
	if _, err := g.FromWords(nil, model.TestConfig{Mode: model.ModeWords, WordCount: 10}); err == nil {
		t.Fatalf("expected error for empty word list")
	}
}

func TestWordsModeExactCount(t *testing.T) {
	g := newSeeded(1)
	text, err := g.FromWords([]string{"a", "b"}, model.TestConfig{Mode: model.ModeWords, WordCount: 10})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	fields := strings.Fields(text)
	if len(fields) != 10 {
		t.Fatalf("expected 10 words, got %d: %q", len(fields), text)
	}
	for _, w := range fields {
		if w != "a" && w != "b" {
			t.Fatalf("unexpected token %q", w)
		}
	}
}

func TestWordsModeCyclesWrapAround(t *testing.T) {
	g := newSeeded(1)
	text, err := g.FromWords([]string{"x", "y", "z"}, model.TestConfig{Mode: model.ModeWords, WordCount: 7})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "x y z x y z x" {
		t.Fatalf("expected wrap-around cycling, got %q", text)
	}
}

func TestTimeModeSizing(t *testing.T) {
	g := newSeeded(1)
	text, err := g.FromWords([]string{"w"}, model.TestConfig{Mode: model.ModeTime, Duration: 60})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := int(math.Ceil(60.0 / 60.0 * 40 * 1.2))
	if got := len(strings.Fields(text)); got != want {
		t.Fatalf("expected %d words for 60s, got %d", want, got)
	}
}

func TestTimeModeDefaultDuration(t *testing.T) {
	g := newSeeded(1)
	text, err := g.FromWords([]string{"w"}, model.TestConfig{Mode: model.ModeTime})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(strings.Fields(text)) == 0 {
		t.Fatalf("expected non-empty text with defaulted duration")
	}
}

func TestQuoteModeShape(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g := newSeeded(seed)
		text, err := g.FromWords([]string{"one", "two", "three"}, model.TestConfig{Mode: model.ModeQuote})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		sentences := strings.Split(strings.TrimSuffix(text, "."), ". ")
		if len(sentences) < 3 || len(sentences) > 5 {
			t.Fatalf("expected 3-5 sentences, got %d: %q", len(sentences), text)
		}
		for _, s := range sentences {
			words := strings.Fields(s)
			if len(words) < 5 || len(words) > 15 {
				t.Fatalf("expected 5-15 words per sentence, got %d: %q", len(words), s)
			}
			first := []rune(words[0])[0]
			if first < 'A' || first > 'Z' {
				t.Fatalf("expected capitalized sentence start: %q", s)
			}
		}
	}
}

func TestFallbackNeverEmpty(t *testing.T) {
	g := newSeeded(1)
	for _, cfg := range []model.TestConfig{
		{Mode: model.ModeTime, Duration: 30},
		{Mode: model.ModeWords, WordCount: 25},
		{Mode: model.ModeQuote},
		{Mode: model.ModeWords, WordCount: 50, Punctuation: true},
	} {
		if g.Fallback(cfg) == "" {
			t.Fatalf("expected non-empty fallback text for %+v", cfg)
		}
	}
}

func TestDeterministicWithSameSeed(t *testing.T) {
	cfg := model.TestConfig{Mode: model.ModeWords, WordCount: 50, Punctuation: true}
	list := []string{"alpha", "beta", "gamma", "delta"}
	a, err := newSeeded(42).FromWords(list, cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := newSeeded(42).FromWords(list, cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical output for identical seeds")
	}
}
