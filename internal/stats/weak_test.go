package stats

import (
	"testing"

	"github.com/typeamp/typeamp/internal/model"
)

func TestSelectWeakCharsRanksByAccuracy(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "a", Correct: 9, Incorrect: 1},
		{Char: "b", Correct: 2, Incorrect: 8},
		{Char: "c", Correct: 5, Incorrect: 5},
	}
	weak := SelectWeakChars(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak chars, got %d", len(weak))
	}
	if _, ok := weak['b']; !ok {
		t.Fatalf("expected b among weak chars: %v", weak)
	}
	if _, ok := weak['c']; !ok {
		t.Fatalf("expected c among weak chars: %v", weak)
	}
}

func TestSelectWeakCharsSkipsRareAndCleanKeys(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "a", Correct: 1, Incorrect: 1},
		{Char: "b", Correct: 50, Incorrect: 0},
		{Char: "c", Correct: 8, Incorrect: 4},
	}
	weak := SelectWeakChars(aggs, 5)
	if len(weak) != 1 {
		t.Fatalf("expected a single weak char, got %v", weak)
	}
	if _, ok := weak['c']; !ok {
		t.Fatalf("expected c to be the weak char: %v", weak)
	}
}

func TestSelectWeakCharsLatencyBreaksTies(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "a", Correct: 8, Incorrect: 2, LatencySumMs: 1000, LatencyCount: 10},
		{Char: "b", Correct: 8, Incorrect: 2, LatencySumMs: 4000, LatencyCount: 10},
	}
	weak := SelectWeakChars(aggs, 1)
	if len(weak) != 1 {
		t.Fatalf("expected a single weak char, got %v", weak)
	}
	if _, ok := weak['b']; !ok {
		t.Fatalf("expected the slower key b, got %v", weak)
	}
}

func TestSelectWeakCharsEmptyWithoutMistakes(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "a", Correct: 40, Incorrect: 0},
		{Char: "b", Correct: 25, Incorrect: 0},
	}
	if weak := SelectWeakChars(aggs, 3); len(weak) != 0 {
		t.Fatalf("expected no weak chars for a clean history, got %v", weak)
	}
}
