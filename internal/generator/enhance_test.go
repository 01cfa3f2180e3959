package generator

import (
	"strings"
	"testing"

	"github.com/typeamp/typeamp/internal/model"
)

// Enhancement is stochastic: rates are checked statistically over many
// trials rather than per call.

func enhanceSample(t *testing.T, seed int64, trials, wordsPerTrial int) []string {
	t.Helper()
	g := newSeeded(seed)
	cfg := model.TestConfig{Mode: model.ModeWords, WordCount: wordsPerTrial, Punctuation: true}
	list := []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog"}
	texts := make([]string, 0, trials)
	for i := 0; i < trials; i++ {
		text, err := g.FromWords(list, cfg)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		texts = append(texts, text)
	}
	return texts
}

func TestEnhanceSentencesCapitalizedAndTerminated(t *testing.T) {
	for _, text := range enhanceSample(t, 7, 20, 60) {
		trimmed := strings.Trim(text, `"`)
		first := []rune(trimmed)[0]
		if first >= 'a' && first <= 'z' {
			t.Fatalf("expected capitalized text start: %q", text)
		}
		last := trimmed[len(trimmed)-1]
		lastRunes := []rune(trimmed)
		lastRune := lastRunes[len(lastRunes)-1]
		if last != '.' && last != '?' && last != '!' && last != ')' && lastRune != '…' {
			t.Fatalf("expected terminated text, got trailing %q in %q", string(lastRune), text)
		}
	}
}

func TestEnhanceCommaRate(t *testing.T) {
	total := 0
	commas := 0
	for _, text := range enhanceSample(t, 11, 50, 80) {
		for _, w := range strings.Fields(text) {
			total++
			if strings.HasSuffix(w, ",") {
				commas++
			}
		}
	}
	rate := float64(commas) / float64(total)
	if rate < 0.05 || rate > 0.25 {
		t.Fatalf("comma rate %0.3f outside expected band", rate)
	}
}

func TestEnhanceNumberRate(t *testing.T) {
	total := 0
	numbers := 0
	for _, text := range enhanceSample(t, 13, 50, 80) {
		for _, w := range strings.Fields(text) {
			total++
			if strings.ContainsAny(w, "0123456789") {
				numbers++
			}
		}
	}
	rate := float64(numbers) / float64(total)
	if rate < 0.02 || rate > 0.16 {
		t.Fatalf("number rate %0.3f outside expected band", rate)
	}
}

func TestEnhanceTerminatorDistribution(t *testing.T) {
	periods := 0
	others := 0
	for _, text := range enhanceSample(t, 17, 60, 100) {
		for _, w := range strings.Fields(text) {
			switch {
			case strings.HasSuffix(w, "."):
				periods++
			case strings.HasSuffix(w, "?"), strings.HasSuffix(w, "!"), strings.HasSuffix(w, "…"):
				others++
			}
		}
	}
	if periods == 0 {
		t.Fatalf("expected period terminators")
	}
	// The period default dominates the ~15% combined alternatives.
	if others > periods {
		t.Fatalf("expected periods to dominate: %d periods vs %d others", periods, others)
	}
}

func TestEnhanceQuoteRate(t *testing.T) {
	trials := 250
	quoted := 0
	for _, text := range enhanceSample(t, 29, trials, 60) {
		n := strings.Count(text, `"`)
		if n%2 != 0 {
			t.Fatalf("unbalanced quotes in %q", text)
		}
		if n > 0 {
			quoted++
		}
	}
	rate := float64(quoted) / float64(trials)
	if rate < 0.02 || rate > 0.16 {
		t.Fatalf("quoted-sentence rate %0.3f outside expected band", rate)
	}
}

func TestEnhanceJoinRates(t *testing.T) {
	boundaries := 0
	semicolons := 0
	colons := 0
	for _, text := range enhanceSample(t, 31, 300, 80) {
		for _, w := range strings.Fields(text) {
			switch {
			case strings.HasSuffix(w, ";"):
				semicolons++
				boundaries++
			case strings.HasSuffix(w, ":"):
				colons++
				boundaries++
			case strings.HasSuffix(w, "."), strings.HasSuffix(w, "?"),
				strings.HasSuffix(w, "!"), strings.HasSuffix(w, "…"):
				boundaries++
			}
		}
	}
	if semicolons == 0 || colons == 0 {
		t.Fatalf("expected both join marks across trials: %d semicolons, %d colons", semicolons, colons)
	}
	// Joins replace ~3% of period boundaries, so the overall share of
	// sentence boundaries stays small.
	rate := float64(semicolons+colons) / float64(boundaries)
	if rate < 0.005 || rate > 0.08 {
		t.Fatalf("join rate %0.3f outside expected band", rate)
	}
}

func TestEnhanceAsideRate(t *testing.T) {
	trials := 300
	asides := 0
	for _, text := range enhanceSample(t, 37, trials, 80) {
		open := strings.Count(text, "(")
		if open != strings.Count(text, ")") {
			t.Fatalf("unbalanced parentheses in %q", text)
		}
		if open > 0 {
			asides++
		}
	}
	rate := float64(asides) / float64(trials)
	if rate == 0 || rate > 0.10 {
		t.Fatalf("aside rate %0.3f outside expected band", rate)
	}
}

func TestEnhanceContractionsAppear(t *testing.T) {
	found := false
	for _, text := range enhanceSample(t, 19, 40, 80) {
		if strings.Contains(text, "'") {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected contractions or possessives across trials")
	}
}

func TestEnhancePreservesWordCountRoughly(t *testing.T) {
	// Numbers may replace or accompany words, asides add two, so the
	// count floats around the requested size without collapsing.
	for _, text := range enhanceSample(t, 23, 20, 50) {
		n := len(strings.Fields(text))
		if n < 40 || n > 65 {
			t.Fatalf("expected roughly 50 words, got %d", n)
		}
	}
}
