package session

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/typeamp/typeamp/internal/generator"
	"github.com/typeamp/typeamp/internal/model"
	"github.com/typeamp/typeamp/internal/words"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type stubProvider struct {
	words []string
	err   error
	calls int
	last  words.Request
}

func (p *stubProvider) GetWords(_ context.Context, req words.Request) (words.Response, error) {
	p.calls++
	p.last = req
	if p.err != nil {
		return words.Response{}, p.err
	}
	return words.Response{
		Words:    p.words,
		Metadata: words.Metadata{List: req.List, Count: len(p.words)},
	}, nil
}

func newTestSession(cfg model.TestConfig, text string) (*Session, *fakeClock) {
	gen := generator.NewWithRand(rand.New(rand.NewSource(1)))
	s := New(cfg, nil, gen)
	clock := newFakeClock()
	s.SetClock(clock)
	s.setText(text)
	s.resetState()
	return s, clock
}

func typeString(s *Session, text string) {
	for _, r := range text {
		s.HandleKey(RuneKey(r))
	}
}

func TestPrepareGameFallbackOnProviderError(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("connection refused")}
	gen := generator.NewWithRand(rand.New(rand.NewSource(1)))
	s := New(model.TestConfig{Mode: model.ModeWords, WordCount: 10, TextSource: "english"}, provider, gen)

	s.PrepareGame(context.Background())

	if s.Status() != model.StatusReady {
		t.Fatalf("expected ready after failed fetch, got %s", s.Status())
	}
	if s.Text() == "" {
		t.Fatalf("expected fallback text")
	}
	if s.PreparationError() == "" {
		t.Fatalf("expected recorded preparation error")
	}
}

func TestPrepareGameUsesProviderWords(t *testing.T) {
	provider := &stubProvider{words: []string{"aa", "bb"}}
	gen := generator.NewWithRand(rand.New(rand.NewSource(1)))
	s := New(model.TestConfig{Mode: model.ModeWords, WordCount: 6, TextSource: "english"}, provider, gen)

	s.PrepareGame(context.Background())

	if s.Text() != "aa bb aa bb aa bb" {
		t.Fatalf("unexpected text %q", s.Text())
	}
	if s.PreparationError() != "" {
		t.Fatalf("unexpected preparation error %q", s.PreparationError())
	}
	if !provider.last.Randomize {
		t.Fatalf("expected randomized fetch")
	}
	states := s.CharStates()
	if len(states) != len([]rune(s.Text())) {
		t.Fatalf("char states length %d does not match text length", len(states))
	}
	if states[0].Status != model.CharCurrent {
		t.Fatalf("expected first char current")
	}
	for _, cs := range states[1:] {
		if cs.Status != model.CharDefault {
			t.Fatalf("expected default status for untyped chars")
		}
	}
}

func TestComputedLimit(t *testing.T) {
	cases := []struct {
		cfg  model.TestConfig
		want int
	}{
		{model.TestConfig{Mode: model.ModeTime, Duration: 30}, 100},
		{model.TestConfig{Mode: model.ModeTime, Duration: 300}, 250},
		{model.TestConfig{Mode: model.ModeWords, WordCount: 50}, 50},
		{model.TestConfig{Mode: model.ModeQuote}, 100},
	}
	for _, tc := range cases {
		s, _ := newTestSession(tc.cfg, "x")
		if got := s.computedLimit(); got != tc.want {
			t.Fatalf("computedLimit for %+v: got %d, want %d", tc.cfg, got, tc.want)
		}
	}
}

func TestFirstKeystrokeStartsGame(t *testing.T) {
	s, clock := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30}, "hello")
	if s.Status() != model.StatusReady {
		t.Fatalf("expected ready before typing")
	}
	s.HandleKey(RuneKey('h'))
	if s.Status() != model.StatusRunning {
		t.Fatalf("expected running after first keystroke")
	}
	if !s.Stats().StartTime.Equal(clock.Now()) {
		t.Fatalf("expected start time recorded")
	}
}

func TestCharacterJudgments(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30}, "abc")
	s.HandleKey(RuneKey('a'))
	s.HandleKey(RuneKey('x'))

	states := s.CharStates()
	if states[0].Status != model.CharCorrect {
		t.Fatalf("expected first char correct")
	}
	if states[1].Status != model.CharIncorrect {
		t.Fatalf("expected second char incorrect")
	}
	if states[2].Status != model.CharCurrent {
		t.Fatalf("expected cursor on third char")
	}
	stats := s.Stats()
	if stats.CorrectChars != 1 || stats.IncorrectChars != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
}

func TestStatsConsistencyWithoutBackspace(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30}, "the quick brown fox")
	for i, r := range "the quxck bro" {
		s.HandleKey(RuneKey(r))
		stats := s.Stats()
		if stats.CorrectChars+stats.IncorrectChars != i+1 {
			t.Fatalf("at %d: correct+incorrect = %d, want %d", i, stats.CorrectChars+stats.IncorrectChars, i+1)
		}
		if stats.Accuracy < 0 || stats.Accuracy > 100 {
			t.Fatalf("accuracy %d out of bounds", stats.Accuracy)
		}
	}
}

func TestAccuracyZeroWhenNoChars(t *testing.T) {
	s, clock := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30}, "abc")
	s.updateStats(clock.Now())
	if s.Stats().Accuracy != 0 {
		t.Fatalf("expected zero accuracy before typing")
	}
	if s.Stats().WPM != 0 {
		t.Fatalf("expected zero wpm before typing")
	}
}

func TestBackspaceKeepsForwardCounts(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30}, "abc")
	s.HandleKey(RuneKey('a'))
	s.HandleKey(RuneKey('x'))
	s.HandleKey(BackspaceKey())

	if s.Input() != "a" {
		t.Fatalf("expected input %q, got %q", "a", s.Input())
	}
	// Counts accumulate forward only: total can exceed input length
	// after corrections. Replicates the gross-accuracy behavior.
	stats := s.Stats()
	if stats.CorrectChars != 1 || stats.IncorrectChars != 1 {
		t.Fatalf("expected counts untouched by backspace: %+v", stats)
	}
	states := s.CharStates()
	if states[1].Status != model.CharCurrent {
		t.Fatalf("expected cursor back on second char")
	}
	if states[2].Status != model.CharDefault {
		t.Fatalf("expected third char back to default")
	}
}

func TestBackspaceOnEmptyInputIsNoop(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30}, "abc")
	s.HandleKey(BackspaceKey())
	if s.Input() != "" || s.Status() != model.StatusReady {
		t.Fatalf("expected no-op backspace on empty input")
	}
}

func TestWordBoundaries(t *testing.T) {
	if got := len(findWordSpans([]rune("hello   world    test"))); got != 3 {
		t.Fatalf("expected 3 boundaries, got %d", got)
	}
	if got := len(findWordSpans([]rune("  hello world  "))); got != 2 {
		t.Fatalf("expected 2 boundaries, got %d", got)
	}
	if got := len(findWordSpans([]rune("it's done, ok."))); got != 3 {
		t.Fatalf("expected punctuation to stay attached, got %d", got)
	}
}

func TestWordsModeProgressAndCompletion(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeWords, WordCount: 2}, "ab cd")
	typeString(s, "ab ")
	if got := s.Progress().WordsCompleted; got != 1 {
		t.Fatalf("expected 1 word completed, got %d", got)
	}
	if s.Progress().Percent != 50 {
		t.Fatalf("expected 50%%, got %v", s.Progress().Percent)
	}
	typeString(s, "cd")
	if s.Status() != model.StatusFinished {
		t.Fatalf("expected finished at word target, got %s", s.Status())
	}
	if s.Progress().WordsCompleted != 2 {
		t.Fatalf("expected 2 words completed")
	}
}

func TestWordsModeBackspaceUncompletes(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeWords, WordCount: 3}, "ab cd ef")
	typeString(s, "ab ")
	if s.Progress().WordsCompleted != 1 {
		t.Fatalf("expected 1 word completed")
	}
	s.HandleKey(BackspaceKey())
	s.HandleKey(BackspaceKey())
	if s.Progress().WordsCompleted != 0 {
		t.Fatalf("expected completion recomputed after backspace, got %d", s.Progress().WordsCompleted)
	}
}

func TestMasterModeTerminatesImmediately(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30, Difficulty: model.DifficultyMaster}, "hello")
	s.HandleKey(RuneKey('h'))
	s.HandleKey(RuneKey('x'))

	if s.Status() != model.StatusFinished {
		t.Fatalf("expected finished, got %s", s.Status())
	}
	failure := s.Failure()
	if !failure.Failed {
		t.Fatalf("expected test failure")
	}
	if !strings.Contains(failure.Reason, "Master Mode") {
		t.Fatalf("expected Master Mode in reason, got %q", failure.Reason)
	}
}

func TestExpertModeToleratesCorrectedErrors(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30, Difficulty: model.DifficultyExpert}, "hello world")
	typeString(s, "he")
	s.HandleKey(RuneKey('x'))
	s.HandleKey(BackspaceKey())
	typeString(s, "llo ")

	if s.Status() != model.StatusRunning {
		t.Fatalf("expected running after corrected error, got %s", s.Status())
	}
	if s.Failure().Failed {
		t.Fatalf("expected no failure after correction")
	}
}

func TestExpertModeFailsOnSubmittedErrors(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30, Difficulty: model.DifficultyExpert}, "hello world")
	typeString(s, "hellx ")

	if s.Status() != model.StatusFinished {
		t.Fatalf("expected finished on submitted error, got %s", s.Status())
	}
	failure := s.Failure()
	if !failure.Failed || !strings.Contains(failure.Reason, "Expert Mode") {
		t.Fatalf("expected Expert Mode failure, got %+v", failure)
	}
	if !strings.Contains(failure.Reason, "hello") {
		t.Fatalf("expected offending word in reason, got %q", failure.Reason)
	}
}

func TestExpertModeEndOfTextSubmitsLastWord(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30, Difficulty: model.DifficultyExpert}, "ab cd")
	typeString(s, "ab cx")

	failure := s.Failure()
	if !failure.Failed || !strings.Contains(failure.Reason, "Expert Mode") {
		t.Fatalf("expected last-word submission failure, got %+v", failure)
	}
}

func TestNormalModeNeverFails(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30, Difficulty: model.DifficultyNormal}, "ab cd")
	typeString(s, "xx xx")
	if s.Failure().Failed {
		t.Fatalf("expected no failure in normal mode")
	}
	if s.Status() != model.StatusFinished {
		t.Fatalf("expected finished at end of text")
	}
}

func TestFinishAtEndOfText(t *testing.T) {
	s, clock := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30}, "hi")
	s.HandleKey(RuneKey('h'))
	clock.Advance(6 * time.Second)
	s.HandleKey(RuneKey('i'))

	if s.Status() != model.StatusFinished {
		t.Fatalf("expected finished, got %s", s.Status())
	}
	stats := s.Stats()
	if stats.Elapsed != 6*time.Second {
		t.Fatalf("expected frozen elapsed 6s, got %v", stats.Elapsed)
	}
	// 2 correct chars in 0.1 minutes = 4 WPM.
	if stats.WPM != 4 {
		t.Fatalf("expected 4 wpm, got %d", stats.WPM)
	}
	if stats.Accuracy != 100 {
		t.Fatalf("expected 100%% accuracy, got %d", stats.Accuracy)
	}
}

func TestTimerExpiryFinishes(t *testing.T) {
	s, clock := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 10}, strings.Repeat("a ", 50))
	s.HandleKey(RuneKey('a'))
	gen := s.TimerGen()
	clock.Advance(11 * time.Second)
	s.Tick(gen, clock.Now())

	if s.Status() != model.StatusFinished {
		t.Fatalf("expected finished on timer expiry, got %s", s.Status())
	}
	if s.Failure().Failed {
		t.Fatalf("timer expiry is not a failure")
	}
}

func TestStaleTickRejected(t *testing.T) {
	s, clock := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 10}, "aaaa")
	s.HandleKey(RuneKey('a'))
	stale := s.TimerGen() - 1
	clock.Advance(time.Hour)
	s.Tick(stale, clock.Now())

	if s.Status() != model.StatusRunning {
		t.Fatalf("expected stale tick to be ignored, got %s", s.Status())
	}
}

func TestPauseAndResumeFreezeCountdown(t *testing.T) {
	s, clock := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30}, "abcdef")
	s.HandleKey(RuneKey('a'))
	clock.Advance(5 * time.Second)
	s.Pause()
	if s.Status() != model.StatusPaused {
		t.Fatalf("expected paused")
	}

	clock.Advance(time.Minute)
	if got := s.Remaining(clock.Now()); got != 25*time.Second {
		t.Fatalf("expected frozen remaining 25s, got %v", got)
	}

	s.Resume()
	clock.Advance(5 * time.Second)
	if got := s.Remaining(clock.Now()); got != 20*time.Second {
		t.Fatalf("expected remaining 20s after resume, got %v", got)
	}
}

func TestPauseIgnoredOutsideTimeMode(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeWords, WordCount: 2}, "ab cd")
	s.HandleKey(RuneKey('a'))
	s.Pause()
	if s.Status() != model.StatusRunning {
		t.Fatalf("expected pause to be ignored in words mode")
	}
}

func TestPausedSessionIgnoresKeys(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30}, "abc")
	s.HandleKey(RuneKey('a'))
	s.Pause()
	s.HandleKey(RuneKey('b'))
	if s.Input() != "a" {
		t.Fatalf("expected input unchanged while paused, got %q", s.Input())
	}
}

func TestResetClearsEverythingButConfig(t *testing.T) {
	cfg := model.TestConfig{
		Mode:        model.ModeTime,
		Duration:    45,
		Difficulty:  model.DifficultyExpert,
		TextSource:  "english",
		Punctuation: true,
	}
	s, _ := newTestSession(cfg, "hello world")
	typeString(s, "hexlo")
	s.Reset()

	if s.Input() != "" {
		t.Fatalf("expected cleared input")
	}
	if s.Status() != model.StatusReady {
		t.Fatalf("expected ready after reset")
	}
	if s.Stats() != (model.SessionStats{}) {
		t.Fatalf("expected zeroed stats, got %+v", s.Stats())
	}
	if s.Failure().Failed || s.Failure().Reason != "" {
		t.Fatalf("expected cleared failure")
	}
	if s.TestConfig() != cfg {
		t.Fatalf("expected config to survive reset: %+v", s.TestConfig())
	}
	states := s.CharStates()
	if len(states) != len("hello world") {
		t.Fatalf("expected char states rebuilt against current text")
	}
	if states[0].Status != model.CharCurrent {
		t.Fatalf("expected cursor at index 0 after reset")
	}
}

func TestSetTestConfigMergesWithoutRestart(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30}, "abc")
	s.HandleKey(RuneKey('a'))

	mode := model.ModeWords
	count := 50
	s.SetTestConfig(model.TestConfigPatch{Mode: &mode, WordCount: &count})

	cfg := s.TestConfig()
	if cfg.Mode != model.ModeWords || cfg.WordCount != 50 {
		t.Fatalf("expected merged config, got %+v", cfg)
	}
	if cfg.Duration != 30 {
		t.Fatalf("expected untouched duration, got %d", cfg.Duration)
	}
	if s.Status() != model.StatusRunning {
		t.Fatalf("expected config change not to interrupt the game")
	}
}

func TestFinishedSessionIgnoresKeys(t *testing.T) {
	s, _ := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30}, "ab")
	typeString(s, "ab")
	if s.Status() != model.StatusFinished {
		t.Fatalf("expected finished")
	}
	s.HandleKey(RuneKey('c'))
	if s.Input() != "ab" {
		t.Fatalf("expected input frozen after finish")
	}
}

func TestOnFinishObserver(t *testing.T) {
	s, clock := newTestSession(model.TestConfig{Mode: model.ModeTime, Duration: 30, TextSource: "english"}, "ab")
	var record model.SessionRecord
	var chars []model.CharStats
	called := 0
	s.OnFinish(func(r model.SessionRecord, cs []model.CharStats) {
		record = r
		chars = cs
		called++
	})

	s.HandleKey(RuneKey('a'))
	clock.Advance(3 * time.Second)
	s.HandleKey(RuneKey('b'))

	if called != 1 {
		t.Fatalf("expected one finish notification, got %d", called)
	}
	if record.CorrectChars != 2 || record.TestFailed {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.DurationMs != 3000 {
		t.Fatalf("expected 3000ms duration, got %d", record.DurationMs)
	}
	if record.TextSource != "english" {
		t.Fatalf("expected text source carried into record")
	}
	if len(chars) == 0 {
		t.Fatalf("expected per-character stats")
	}
}
