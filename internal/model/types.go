// Package model defines shared data structures.
package model

import "time"

// Mode selects how the target text length is bounded.
type Mode string

// Supported practice modes.
const (
	ModeTime  Mode = "time"
	ModeWords Mode = "words"
	ModeQuote Mode = "quote"
)

// Difficulty selects the failure policy applied to typing errors.
type Difficulty string

// Supported difficulty levels.
const (
	DifficultyNormal Difficulty = "normal"
	DifficultyExpert Difficulty = "expert"
	DifficultyMaster Difficulty = "master"
)

// GameStatus is the session state machine value.
type GameStatus string

// Session states. Paused is reachable only in time mode.
const (
	StatusReady    GameStatus = "ready"
	StatusRunning  GameStatus = "running"
	StatusPaused   GameStatus = "paused"
	StatusFinished GameStatus = "finished"
)

// CharStatus is the per-character judgment of typed input.
type CharStatus int

// Character judgment values, one per target character.
const (
	CharDefault CharStatus = iota
	CharCurrent
	CharCorrect
	CharIncorrect
)

// CharState pairs a target character with its judgment.
type CharState struct {
	Char   rune
	Status CharStatus
}

// TestConfig holds practice settings. Exactly one of Duration and
// WordCount is active, selected by Mode.
type TestConfig struct {
	Mode        Mode
	Duration    int // seconds, time mode only
	WordCount   int // words mode: 10, 25, 50 or 100
	Difficulty  Difficulty
	TextSource  string
	Punctuation bool
}

// TestConfigPatch carries a partial config update. Nil fields are
// left untouched by SetTestConfig.
type TestConfigPatch struct {
	Mode        *Mode
	Duration    *int
	WordCount   *int
	Difficulty  *Difficulty
	TextSource  *string
	Punctuation *bool
}

// SessionStats holds the running metrics of one session.
type SessionStats struct {
	WPM            int
	Accuracy       int
	StartTime      time.Time
	TotalChars     int
	CorrectChars   int
	IncorrectChars int
	Elapsed        time.Duration
}

// WordsProgress tracks completion in words mode.
type WordsProgress struct {
	WordsCompleted   int
	TargetWordCount  int
	Percent          float64
	CurrentWordIndex int
}

// TestFailure records a difficulty-policy failure.
type TestFailure struct {
	Failed bool
	Reason string
}

// SessionRecord captures a completed typing session for persistence.
type SessionRecord struct {
	StartedAt      time.Time
	EndedAt        time.Time
	Mode           Mode
	Difficulty     Difficulty
	TextSource     string
	Punctuation    bool
	WordCount      int
	WPM            int
	Accuracy       int
	CorrectChars   int
	IncorrectChars int
	DurationMs     int64
	TestFailed     bool
	FailureReason  string
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Mode       Mode
	Difficulty Difficulty
	Correct    int
	Incorrect  int
	DurationMs int64
	TestFailed bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Source      string
	Mode        string
	Difficulty  string
	Since       *time.Time
	Last        int
	CurveWindow int
	Chars       string
}
