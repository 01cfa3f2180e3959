package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Char", "Accuracy", "Correct"}
	rows := [][]string{
		{"a", "97.50%", "12"},
		{"<space>", "8.00%", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "Char    Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "------- -------- -------" {
		t.Fatalf("unexpected rule line: %q", lines[1])
	}
	if lines[2] != "a         97.50%      12" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
	if lines[3] != "<space>    8.00%       3" {
		t.Fatalf("unexpected row line: %q", lines[3])
	}
}

func TestFormatTableUsesDisplayWidth(t *testing.T) {
	headers := []string{"Key", "Count"}
	rows := [][]string{
		{"雨", "3"},
		{"a", "12"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true})
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	// The wide rune occupies two cells, so it gets one padding space
	// where the ASCII key gets two.
	if lines[2] != "雨      3" {
		t.Fatalf("unexpected wide-rune row: %q", lines[2])
	}
	if lines[3] != "a      12" {
		t.Fatalf("unexpected row line: %q", lines[3])
	}
}
