// Package session implements the typing session state machine: it
// turns keystrokes into per-character judgments, running statistics,
// difficulty-mode failures, and a finished result.
package session

import (
	"context"
	"math"
	"time"

	"github.com/typeamp/typeamp/internal/generator"
	"github.com/typeamp/typeamp/internal/model"
	"github.com/typeamp/typeamp/internal/words"
)

// Key is a single keyboard event fed to the session.
type Key struct {
	Rune      rune
	Backspace bool
}

// RuneKey wraps a printable character.
func RuneKey(r rune) Key { return Key{Rune: r} }

// BackspaceKey is the deletion event.
func BackspaceKey() Key { return Key{Backspace: true} }

// Clock abstracts time so tests can drive the countdown directly.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// FinishFunc observes a completed session. Cleanup and persistence
// belong to the caller.
type FinishFunc func(model.SessionRecord, []model.CharStats)

type charStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

// Session owns all mutable state of one typing attempt. It is not
// safe for concurrent use; the event loop is the only mutator.
type Session struct {
	cfg      model.TestConfig
	provider words.Provider
	gen      *generator.Generator
	clock    Clock
	onFinish FinishFunc

	text       string
	target     []rune
	charStates []model.CharState
	input      []rune

	status   model.GameStatus
	stats    model.SessionStats
	failure  model.TestFailure
	progress model.WordsProgress

	preparing bool
	prepErr   string

	// elapsedBase accumulates time across pauses; runStart marks the
	// start of the current running stretch.
	elapsedBase time.Duration
	runStart    time.Time
	timerGen    int

	prevCorrectAt time.Time
	charStats     map[rune]*charStat
}

// New constructs a session over the given collaborators. The word
// provider may be nil, in which case every game uses fallback text.
func New(cfg model.TestConfig, provider words.Provider, gen *generator.Generator) *Session {
	s := &Session{
		cfg:      cfg,
		provider: provider,
		gen:      gen,
		clock:    SystemClock{},
		status:   model.StatusReady,
	}
	s.resetState()
	return s
}

// SetClock replaces the clock. Intended for tests; call before the
// first keystroke.
func (s *Session) SetClock(c Clock) { s.clock = c }

// OnFinish registers the observer invoked once per finished session.
func (s *Session) OnFinish(fn FinishFunc) { s.onFinish = fn }

// PrepareGame fetches words, builds display text, and arms a fresh
// ready state. Word-source failures are recorded and recovered with
// fallback text; the session always becomes playable.
func (s *Session) PrepareGame(ctx context.Context) {
	s.timerGen++
	s.preparing = true
	s.prepErr = ""
	defer func() { s.preparing = false }()

	text := ""
	if s.provider != nil {
		resp, err := s.provider.GetWords(ctx, words.Request{
			List:      s.cfg.TextSource,
			Limit:     s.computedLimit(),
			Randomize: true,
			Options: words.Options{
				Punctuation: s.cfg.Punctuation,
				Numbers:     s.cfg.Punctuation,
				Density:     words.DensityMedium,
			},
		})
		if err != nil {
			s.prepErr = err.Error()
		} else if generated, genErr := s.gen.FromWords(resp.Words, s.cfg); genErr != nil {
			s.prepErr = genErr.Error()
		} else {
			text = generated
		}
	}
	if text == "" {
		text = s.gen.Fallback(s.cfg)
	}
	s.setText(text)
	s.resetState()
}

// computedLimit sizes the word fetch for the active mode.
func (s *Session) computedLimit() int {
	switch s.cfg.Mode {
	case model.ModeWords:
		if s.cfg.WordCount > 0 {
			return s.cfg.WordCount
		}
		return 25
	case model.ModeTime:
		limit := int(math.Ceil(float64(s.cfg.Duration) * 50.0 / 60.0))
		if limit < 100 {
			limit = 100
		}
		return limit
	default:
		return 100
	}
}

// HandleKey is the single entry point for keyboard input.
func (s *Session) HandleKey(k Key) {
	if s.status == model.StatusFinished || s.status == model.StatusPaused {
		return
	}
	if k.Backspace {
		s.handleBackspace()
		return
	}
	s.handleRune(k.Rune)
}

func (s *Session) handleBackspace() {
	if len(s.input) == 0 {
		return
	}
	oldCursor := len(s.input)
	s.input = s.input[:len(s.input)-1]
	idx := len(s.input)
	s.charStates[idx] = model.CharState{Char: s.target[idx], Status: model.CharCurrent}
	if oldCursor < len(s.target) {
		s.charStates[oldCursor].Status = model.CharDefault
	}
	// Correct/incorrect counts accumulate forward only; a correction
	// does not rewrite history.
	if s.cfg.Mode == model.ModeWords {
		s.recomputeProgress()
	}
}

func (s *Session) handleRune(r rune) {
	if len(s.input) >= len(s.target) {
		return
	}
	now := s.clock.Now()
	if s.status == model.StatusReady {
		s.status = model.StatusRunning
		s.stats.StartTime = now
		s.runStart = now
		s.elapsedBase = 0
		s.timerGen++
	}

	idx := len(s.input)
	expected := s.target[idx]
	s.input = append(s.input, r)
	correct := r == expected
	if correct {
		s.charStates[idx].Status = model.CharCorrect
		s.stats.CorrectChars++
	} else {
		s.charStates[idx].Status = model.CharIncorrect
		s.stats.IncorrectChars++
	}
	s.stats.TotalChars = s.stats.CorrectChars + s.stats.IncorrectChars
	if idx+1 < len(s.target) {
		s.charStates[idx+1].Status = model.CharCurrent
	}
	s.recordCharStat(expected, correct, now)

	submitted, word, wordHasError := s.wordSubmission(idx, r)
	if failed, reason := evaluate(s.cfg.Difficulty, correct, submitted, word, wordHasError); failed {
		s.failure = model.TestFailure{Failed: true, Reason: reason}
		s.finish(now)
		return
	}

	if s.cfg.Mode == model.ModeWords {
		s.recomputeProgress()
		if s.progress.TargetWordCount > 0 && s.progress.WordsCompleted >= s.progress.TargetWordCount {
			s.finish(now)
			return
		}
	}
	if len(s.input) == len(s.target) && s.cfg.Mode != model.ModeWords {
		s.finish(now)
		return
	}
	s.updateStats(now)
}

// Tick advances the countdown and refreshes live statistics. Stale
// ticks from a cancelled timer generation are rejected.
func (s *Session) Tick(gen int, now time.Time) {
	if gen != s.timerGen || s.status != model.StatusRunning {
		return
	}
	s.updateStats(now)
	if s.cfg.Mode == model.ModeTime && s.Remaining(now) <= 0 {
		s.finish(now)
	}
}

// TimerGen returns the token a caller must echo back into Tick.
func (s *Session) TimerGen() int { return s.timerGen }

// Pause freezes the countdown. Valid only in time mode while running.
func (s *Session) Pause() {
	if s.cfg.Mode != model.ModeTime || s.status != model.StatusRunning {
		return
	}
	now := s.clock.Now()
	s.elapsedBase += now.Sub(s.runStart)
	s.status = model.StatusPaused
	s.timerGen++
}

// Resume restarts the countdown from the frozen remainder.
func (s *Session) Resume() {
	if s.cfg.Mode != model.ModeTime || s.status != model.StatusPaused {
		return
	}
	s.runStart = s.clock.Now()
	s.status = model.StatusRunning
	s.timerGen++
}

// Reset returns to ready against the current text. The test config
// survives resets.
func (s *Session) Reset() {
	s.timerGen++
	s.resetState()
}

// SetTestConfig shallow-merges a partial config. It never validates
// and never restarts a running game; changes take effect on the next
// PrepareGame.
func (s *Session) SetTestConfig(patch model.TestConfigPatch) {
	if patch.Mode != nil {
		s.cfg.Mode = *patch.Mode
	}
	if patch.Duration != nil {
		s.cfg.Duration = *patch.Duration
	}
	if patch.WordCount != nil {
		s.cfg.WordCount = *patch.WordCount
	}
	if patch.Difficulty != nil {
		s.cfg.Difficulty = *patch.Difficulty
	}
	if patch.TextSource != nil {
		s.cfg.TextSource = *patch.TextSource
	}
	if patch.Punctuation != nil {
		s.cfg.Punctuation = *patch.Punctuation
	}
}

func (s *Session) setText(text string) {
	s.text = text
	s.target = []rune(text)
}

func (s *Session) resetState() {
	s.input = nil
	s.status = model.StatusReady
	s.stats = model.SessionStats{}
	s.failure = model.TestFailure{}
	s.elapsedBase = 0
	s.runStart = time.Time{}
	s.prevCorrectAt = time.Time{}
	s.charStats = map[rune]*charStat{}

	s.charStates = make([]model.CharState, len(s.target))
	for i, r := range s.target {
		s.charStates[i] = model.CharState{Char: r, Status: model.CharDefault}
	}
	if len(s.charStates) > 0 {
		s.charStates[0].Status = model.CharCurrent
	}
	s.resetProgress()
}

func (s *Session) finish(now time.Time) {
	s.status = model.StatusFinished
	s.elapsedBase += now.Sub(s.runStart)
	s.runStart = time.Time{}
	s.timerGen++
	s.updateStats(now)

	if s.onFinish == nil {
		return
	}
	record := model.SessionRecord{
		StartedAt:      s.stats.StartTime,
		EndedAt:        now,
		Mode:           s.cfg.Mode,
		Difficulty:     s.cfg.Difficulty,
		TextSource:     s.cfg.TextSource,
		Punctuation:    s.cfg.Punctuation,
		WordCount:      s.cfg.WordCount,
		WPM:            s.stats.WPM,
		Accuracy:       s.stats.Accuracy,
		CorrectChars:   s.stats.CorrectChars,
		IncorrectChars: s.stats.IncorrectChars,
		DurationMs:     s.stats.Elapsed.Milliseconds(),
		TestFailed:     s.failure.Failed,
		FailureReason:  s.failure.Reason,
	}
	charStats := make([]model.CharStats, 0, len(s.charStats))
	for ch, entry := range s.charStats {
		charStats = append(charStats, model.CharStats{
			Char:         string(ch),
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}
	s.onFinish(record, charStats)
}

// wordSubmission reports whether this keystroke submits a word: a
// typed boundary space, or reaching the end of the text.
func (s *Session) wordSubmission(idx int, typed rune) (bool, string, bool) {
	endOfText := idx+1 == len(s.target)
	boundary := s.target[idx] == ' ' && typed == ' '
	if !boundary && !endOfText {
		return false, "", false
	}
	spans := findWordSpans(s.target)
	for i := len(spans) - 1; i >= 0; i-- {
		if spans[i].end <= idx+1 {
			return true, string(s.target[spans[i].start:spans[i].end]), s.spanHasError(spans[i])
		}
	}
	return false, "", false
}

func (s *Session) spanHasError(w wordSpan) bool {
	for i := w.start; i < w.end; i++ {
		if s.charStates[i].Status == model.CharIncorrect {
			return true
		}
	}
	return false
}

func (s *Session) recordCharStat(expected rune, correct bool, now time.Time) {
	if expected == ' ' {
		return
	}
	entry, ok := s.charStats[expected]
	if !ok {
		entry = &charStat{}
		s.charStats[expected] = entry
	}
	if !correct {
		entry.incorrect++
		return
	}
	entry.correct++
	if !s.prevCorrectAt.IsZero() {
		entry.latencySumMs += now.Sub(s.prevCorrectAt).Milliseconds()
		entry.latencyCount++
	}
	s.prevCorrectAt = now
}
