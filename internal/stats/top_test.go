package stats

import (
	"testing"

	"github.com/typeamp/typeamp/internal/model"
)

func TestTopCharsByFrequency(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "b", Correct: 3, Incorrect: 1},
		{Char: "a", Correct: 2, Incorrect: 2},
		{Char: "c", Correct: 1, Incorrect: 0},
	}
	top := TopCharsByFrequency(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(top))
	}
	if top[0] != "a" || top[1] != "b" {
		t.Fatalf("unexpected order: %v", top)
	}
}

func TestTopCharsWeightMistypesAndSkipSpace(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: " ", Correct: 100, Incorrect: 0},
		{Char: "e", Correct: 10, Incorrect: 0},
		{Char: "q", Correct: 4, Incorrect: 4},
	}
	top := TopCharsByFrequency(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 chars, got %v", top)
	}
	if top[0] != "q" || top[1] != "e" {
		t.Fatalf("expected the mistyped key first and space skipped: %v", top)
	}
}
