package parser

import "testing"

func TestTokenizeTable(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "   \t  ", want: nil},
		{in: "  Alpha_1  MOVE  North!!", want: []string{"alpha", "1", "move", "north"}},
		{in: "sqd bravo hold", want: []string{"squad", "bravo", "hold"}},
		{in: "everyone rtb", want: []string{"everyone", "fall", "back"}},
		{in: "drone-1 scout", want: []string{"drone", "1", "scout"}},
	}
	for _, tc := range tests {
		got := Tokenize(tc.in)
		if len(got) != len(tc.want) {
			t.Fatalf("Tokenize(%q) yielded %d tokens, want %d", tc.in, len(got), len(tc.want))
		}
		for i, tok := range got {
			if tok.Text != tc.want[i] {
				t.Fatalf("Tokenize(%q)[%d]=%q want %q", tc.in, i, tok.Text, tc.want[i])
			}
			if tok.Pos != i {
				t.Fatalf("Tokenize(%q)[%d] has Pos=%d", tc.in, i, tok.Pos)
			}
		}
	}
}

func TestTokenOriginalsPreserved(t *testing.T) {
	tokens := Tokenize("Alpha_1 HOLD!")
	if tokens[0].Original != "Alpha_1" || tokens[2].Original != "HOLD!" {
		t.Fatalf("unexpected originals: %+v", tokens)
	}
}

func TestSimilarityBoundaries(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{a: "tanks", b: "tanks", want: 1.0},
		{a: "tnks", b: "tanks", want: 0.8},
		{a: "brvo", b: "bravo", want: 0.8},
		// Adjacent transposition counts as one edit, so "hodl" lands exactly
		// on the acceptance threshold.
		{a: "hodl", b: "hold", want: 0.75},
	}
	for _, tc := range tests {
		if got := similarity(tc.a, tc.b); got != tc.want {
			t.Fatalf("similarity(%q,%q)=%v want %v", tc.a, tc.b, got, tc.want)
		}
	}
	if similarity("hodl", "hold") < fuzzyThreshold {
		t.Fatalf("transposed typo should sit on the threshold, not below it")
	}
}

func TestMapDirectionAliases(t *testing.T) {
	tests := map[string]string{
		"n": "north", "up": "north", "top": "north",
		"s": "south", "down": "south", "bottom": "south",
		"e": "east", "w": "west",
		"left": "left", "right": "right",
		"centre": "center", "middle": "center",
		"banana": "",
	}
	for in, want := range tests {
		if got := mapDirection(in); got != want {
			t.Fatalf("mapDirection(%q)=%q want %q", in, got, want)
		}
	}
}
