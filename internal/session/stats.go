package session

import (
	"math"
	"time"

	"github.com/typeamp/typeamp/internal/model"
)

// elapsed returns time spent typing, excluding paused stretches.
func (s *Session) elapsed(now time.Time) time.Duration {
	if s.status == model.StatusRunning && !s.runStart.IsZero() {
		return s.elapsedBase + now.Sub(s.runStart)
	}
	return s.elapsedBase
}

// Remaining reports the countdown left in time mode.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.cfg.Mode != model.ModeTime {
		return 0
	}
	return time.Duration(s.cfg.Duration)*time.Second - s.elapsed(now)
}

// updateStats recomputes WPM and accuracy from the character counts
// and elapsed time, using the 5-characters-per-word convention.
func (s *Session) updateStats(now time.Time) {
	s.stats.Elapsed = s.elapsed(now)
	s.stats.TotalChars = s.stats.CorrectChars + s.stats.IncorrectChars

	if s.stats.TotalChars == 0 {
		s.stats.Accuracy = 0
	} else {
		s.stats.Accuracy = int(math.Round(float64(s.stats.CorrectChars) / float64(s.stats.TotalChars) * 100))
	}

	minutes := s.stats.Elapsed.Minutes()
	if minutes <= 0 {
		s.stats.WPM = 0
	} else {
		s.stats.WPM = int(math.Round(float64(s.stats.CorrectChars) / 5.0 / minutes))
	}
}
