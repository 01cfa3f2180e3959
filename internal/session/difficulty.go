package session

import (
	"fmt"

	"github.com/typeamp/typeamp/internal/model"
)

// evaluate applies the difficulty policy to one keystroke. It is a
// pure function of the difficulty, the latest character judgment, and
// the word-submission event.
//
// Normal never fails. Expert tolerates mid-word errors until the word
// is submitted (space, or end of text for the last word). Master ends
// the test on the first incorrect character.
func evaluate(d model.Difficulty, correct, submitted bool, word string, wordHasError bool) (bool, string) {
	switch d {
	case model.DifficultyMaster:
		if !correct {
			return true, "Master Mode: the first mistake ends the test"
		}
	case model.DifficultyExpert:
		if submitted && wordHasError {
			if word != "" {
				return true, fmt.Sprintf("Expert Mode: word %q was submitted with errors", word)
			}
			return true, "Expert Mode: a word was submitted with errors"
		}
	}
	return false, ""
}
