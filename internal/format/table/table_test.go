package table

import "testing"

func TestFormatPadsColumns(t *testing.T) {
	got := Format([][]string{
		{"confirm", "space"},
		{"alt_confirm", "enter"},
	}, nil)
	want := []string{
		"confirm      space",
		"alt_confirm  enter",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFormatRightAlign(t *testing.T) {
	got := Format([][]string{{"a", "1"}, {"bb", "100"}}, []Alignment{AlignLeft, AlignRight})
	if got[0] != "a     1" || got[1] != "bb  100" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestFormatIgnoresEscapeSequences(t *testing.T) {
	got := Format([][]string{{"\x1b[1mab\x1b[0m", "x"}, {"abc", "y"}}, nil)
	if got[0] != "\x1b[1mab\x1b[0m   x" {
		t.Fatalf("styled cell padded by byte length: %q", got[0])
	}
}

func TestFormatRaggedRows(t *testing.T) {
	got := Format([][]string{{"a"}, {"bb", "c"}}, nil)
	if got[0] != "a" || got[1] != "bb  c" {
		t.Fatalf("unexpected output %q", got)
	}
	if Format(nil, nil) != nil {
		t.Fatalf("expected nil for no rows")
	}
}
