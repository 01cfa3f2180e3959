package session

import "github.com/typeamp/typeamp/internal/model"

// TestConfig returns the current configuration.
func (s *Session) TestConfig() model.TestConfig { return s.cfg }

// Text returns the target text to type.
func (s *Session) Text() string { return s.text }

// CharStates returns a copy of the per-character judgments.
func (s *Session) CharStates() []model.CharState {
	out := make([]model.CharState, len(s.charStates))
	copy(out, s.charStates)
	return out
}

// Input returns everything typed so far.
func (s *Session) Input() string { return string(s.input) }

// Status returns the state machine value.
func (s *Session) Status() model.GameStatus { return s.status }

// Stats returns the running statistics.
func (s *Session) Stats() model.SessionStats { return s.stats }

// Progress returns the words-mode completion state.
func (s *Session) Progress() model.WordsProgress { return s.progress }

// Failure returns the difficulty-policy verdict.
func (s *Session) Failure() model.TestFailure { return s.failure }

// IsPreparing reports whether a word fetch is in flight. Callers are
// expected to drop keystrokes while it is true.
func (s *Session) IsPreparing() bool { return s.preparing }

// PreparationError returns the recorded word-source failure, if any.
// A non-empty value never prevents play; fallback text is in place.
func (s *Session) PreparationError() string { return s.prepErr }
