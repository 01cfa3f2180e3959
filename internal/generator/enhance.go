package generator

import (
	"fmt"
	"strings"
)

// Injection rates for the enhancement pipeline. These are statistical
// targets, not guarantees for any single invocation.
const (
	numberRate      = 0.08
	keepWordRate    = 0.70
	commaRate       = 0.15
	contractionRate = 0.12
	possessiveRate  = 0.40 // of the contraction draw, ~5% overall
	questionRate    = 0.05
	exclaimRate     = 0.08
	ellipsisRate    = 0.02
	quoteRate       = 0.08
	semicolonRate   = 0.02
	colonRate       = 0.01
	asideRate       = 0.03
	asideMinIndex   = 10
)

var contractions = map[string]string{
	"it":     "it's",
	"do":     "don't",
	"can":    "can't",
	"is":     "isn't",
	"was":    "wasn't",
	"did":    "didn't",
	"would":  "wouldn't",
	"could":  "couldn't",
	"should": "shouldn't",
	"have":   "haven't",
	"has":    "hasn't",
	"are":    "aren't",
	"were":   "weren't",
	"will":   "won't",
	"that":   "that's",
	"there":  "there's",
	"what":   "what's",
	"he":     "he's",
	"she":    "she's",
	"we":     "we're",
	"they":   "they're",
	"you":    "you're",
}

// enhance injects punctuation and number tokens into a word sequence
// and shapes it into sentences.
func (g *Generator) enhance(seq []string) string {
	sentences := g.partitionSentences(seq)
	rendered := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		rendered = append(rendered, g.renderSentence(sentence))
	}
	if len(rendered) > 1 && g.rnd.Float64() < quoteRate {
		idx := g.rnd.Intn(len(rendered))
		rendered[idx] = `"` + rendered[idx] + `"`
	}
	g.joinSentencePairs(rendered)
	out := strings.Join(rendered, " ")
	return g.insertAside(out, seq)
}

// partitionSentences splits the sequence into runs of 6-18 words.
func (g *Generator) partitionSentences(seq []string) [][]string {
	var sentences [][]string
	for i := 0; i < len(seq); {
		length := 6 + g.rnd.Intn(13)
		end := i + length
		if end > len(seq) {
			end = len(seq)
		}
		sentences = append(sentences, seq[i:end])
		i = end
	}
	return sentences
}

func (g *Generator) renderSentence(sentence []string) string {
	out := make([]string, 0, len(sentence)+2)
	for idx, word := range sentence {
		if g.rnd.Float64() < numberRate {
			out = append(out, g.numberToken())
			if g.rnd.Float64() >= keepWordRate {
				continue
			}
		}
		word = g.applyContraction(word)
		if idx > 0 && idx < len(sentence)-1 && g.rnd.Float64() < commaRate {
			word += ","
		}
		out = append(out, word)
	}
	if len(out) == 0 {
		out = append(out, g.numberToken())
	}
	out[0] = capitalize(out[0])
	return strings.Join(out, " ") + g.terminator()
}

// numberToken draws one of the numeric patterns.
func (g *Generator) numberToken() string {
	switch g.rnd.Intn(6) {
	case 0:
		return fmt.Sprintf("%d", 2000+g.rnd.Intn(26)) // year
	case 1:
		return fmt.Sprintf("%d", 1+g.rnd.Intn(100)) // quantity
	case 2:
		return fmt.Sprintf("%.1f%%", g.rnd.Float64()*100) // percentage
	case 3:
		return fmt.Sprintf("$%.2f", g.rnd.Float64()*100) // price
	case 4:
		return fmt.Sprintf("%d", 1+g.rnd.Intn(12)) // month
	default:
		return fmt.Sprintf("%d", 1+g.rnd.Intn(28)) // day
	}
}

func (g *Generator) applyContraction(word string) string {
	if g.rnd.Float64() >= contractionRate {
		return word
	}
	if sub, ok := contractions[strings.ToLower(word)]; ok {
		return sub
	}
	if g.rnd.Float64() < possessiveRate && !strings.ContainsAny(word, "0123456789'") {
		return word + "'s"
	}
	return word
}

// terminator draws the sentence-ending mark. One draw decides among
// question, exclamation, ellipsis, and the period default.
func (g *Generator) terminator() string {
	r := g.rnd.Float64()
	switch {
	case r < questionRate:
		return "?"
	case r < questionRate+exclaimRate:
		return "!"
	case r < questionRate+exclaimRate+ellipsisRate:
		return "…"
	default:
		return "."
	}
}

// joinSentencePairs occasionally fuses adjacent sentences with a
// semicolon or colon, lowering the second sentence's first word.
func (g *Generator) joinSentencePairs(rendered []string) {
	for i := 1; i < len(rendered); i++ {
		prev := rendered[i-1]
		if !strings.HasSuffix(prev, ".") {
			continue
		}
		r := g.rnd.Float64()
		switch {
		case r < semicolonRate:
			rendered[i-1] = strings.TrimSuffix(prev, ".") + ";"
			rendered[i] = lowercase(rendered[i])
		case r < semicolonRate+colonRate:
			rendered[i-1] = strings.TrimSuffix(prev, ".") + ":"
			rendered[i] = lowercase(rendered[i])
		}
	}
}

// insertAside rarely drops a parenthetical at a word position past the
// opening stretch of the text.
func (g *Generator) insertAside(text string, pool []string) string {
	if g.rnd.Float64() >= asideRate {
		return text
	}
	fields := strings.Fields(text)
	if len(fields) <= asideMinIndex+1 {
		return text
	}
	pos := asideMinIndex + 1 + g.rnd.Intn(len(fields)-asideMinIndex-1)
	aside := "(" + pool[g.rnd.Intn(len(pool))] + " " + pool[g.rnd.Intn(len(pool))] + ")"
	fields = append(fields[:pos], append([]string{aside}, fields[pos:]...)...)
	return strings.Join(fields, " ")
}
