package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/typeamp/typeamp/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typeamp.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func insertRecord(t *testing.T, st *Store, rec model.SessionRecord) int64 {
	t.Helper()
	id, err := st.InsertSession(context.Background(), rec, nil)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	return id
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	now := time.Unix(0, 0)
	insertRecord(t, st, model.SessionRecord{
		StartedAt:    now,
		EndedAt:      now.Add(time.Minute),
		Mode:         model.ModeTime,
		Difficulty:   model.DifficultyNormal,
		TextSource:   "english",
		CorrectChars: 0,
	})

	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Mode != model.ModeTime || sessions[0].Difficulty != model.DifficultyNormal {
		t.Fatalf("unexpected session %+v", sessions[0])
	}
}

func TestListSessionsFilters(t *testing.T) {
	st := openTestStore(t)
	now := time.Unix(0, 0)
	base := model.SessionRecord{
		StartedAt: now, EndedAt: now.Add(time.Minute),
		Mode: model.ModeTime, Difficulty: model.DifficultyNormal, TextSource: "english",
	}
	insertRecord(t, st, base)

	failed := base
	failed.Mode = model.ModeWords
	failed.Difficulty = model.DifficultyMaster
	failed.TextSource = "code"
	failed.TestFailed = true
	failed.FailureReason = "Master Mode: the first mistake ends the test"
	insertRecord(t, st, failed)

	byMode, err := st.ListSessions(context.Background(), model.StatsConfig{Mode: string(model.ModeWords)})
	if err != nil {
		t.Fatalf("list by mode: %v", err)
	}
	if len(byMode) != 1 || !byMode[0].TestFailed {
		t.Fatalf("expected the failed words session, got %+v", byMode)
	}

	bySource, err := st.ListSessions(context.Background(), model.StatsConfig{Source: "english"})
	if err != nil {
		t.Fatalf("list by source: %v", err)
	}
	if len(bySource) != 1 || bySource[0].Mode != model.ModeTime {
		t.Fatalf("expected the english session, got %+v", bySource)
	}

	byDifficulty, err := st.ListSessions(context.Background(), model.StatsConfig{Difficulty: string(model.DifficultyMaster)})
	if err != nil {
		t.Fatalf("list by difficulty: %v", err)
	}
	if len(byDifficulty) != 1 {
		t.Fatalf("expected one master session, got %d", len(byDifficulty))
	}
}

func TestWeakCharsWindow(t *testing.T) {
	st := openTestStore(t)
	now := time.Unix(0, 0)
	rec := model.SessionRecord{
		StartedAt: now, EndedAt: now.Add(time.Minute),
		Mode: model.ModeTime, Difficulty: model.DifficultyNormal, TextSource: "english",
	}
	_, err := st.InsertSession(context.Background(), rec, []model.CharStats{
		{Char: "q", Correct: 1, Incorrect: 4},
		{Char: "e", Correct: 9, Incorrect: 0},
	})
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}

	aggs, err := st.GetWeakChars(context.Background(), 10, "english")
	if err != nil {
		t.Fatalf("weak chars: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(aggs))
	}

	none, err := st.GetWeakChars(context.Background(), 0, "")
	if err != nil {
		t.Fatalf("weak chars zero window: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil for zero window")
	}
}
