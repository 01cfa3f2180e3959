package session

import (
	"unicode"

	"github.com/typeamp/typeamp/internal/model"
)

type wordSpan struct {
	start int
	end   int
}

// findWordSpans locates maximal non-whitespace runs in the target.
// Leading, trailing, and repeated whitespace never form words;
// punctuation belongs to the adjacent word.
func findWordSpans(target []rune) []wordSpan {
	var spans []wordSpan
	start := -1
	for i, r := range target {
		if unicode.IsSpace(r) {
			if start != -1 {
				spans = append(spans, wordSpan{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		spans = append(spans, wordSpan{start: start, end: len(target)})
	}
	return spans
}

func (s *Session) resetProgress() {
	s.progress = model.WordsProgress{}
	if s.cfg.Mode == model.ModeWords {
		s.progress.TargetWordCount = s.cfg.WordCount
		if s.progress.TargetWordCount <= 0 {
			s.progress.TargetWordCount = len(findWordSpans(s.target))
		}
	}
}

// recomputeProgress rebuilds word completion from scratch. A word is
// complete only when every character in its span is correct and the
// cursor has moved past it; backspacing into a word un-completes it.
func (s *Session) recomputeProgress() {
	spans := findWordSpans(s.target)
	cursor := len(s.input)
	completed := 0
	currentIdx := len(spans)
	for i, w := range spans {
		if s.wordComplete(w, cursor) {
			completed++
		}
		if currentIdx == len(spans) && cursor < w.end {
			currentIdx = i
		}
	}
	s.progress.WordsCompleted = completed
	s.progress.CurrentWordIndex = currentIdx
	if s.progress.TargetWordCount > 0 {
		s.progress.Percent = float64(completed) / float64(s.progress.TargetWordCount) * 100
	}
}

func (s *Session) wordComplete(w wordSpan, cursor int) bool {
	advancedPast := cursor > w.end || cursor >= len(s.target)
	if !advancedPast {
		return false
	}
	for i := w.start; i < w.end; i++ {
		if s.charStates[i].Status != model.CharCorrect {
			return false
		}
	}
	return true
}
