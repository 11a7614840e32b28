package parser

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// rewrites expands common radio shorthand before tokenisation. Values may be
// multi-word; they are re-split after expansion.
var rewrites = map[string]string{
	"sqd":  "squad",
	"sqds": "squads",
	"drn":  "drone",
	"drns": "drones",
	"veh":  "vehicle",
	"vehs": "vehicles",
	"atk":  "attack",
	"mv":   "move",
	"pos":  "position",
	"rtb":  "fall back",
}

func normaliseWord(raw string) string {
	raw = strings.ToLower(raw)
	var b strings.Builder
	lastSpace := true
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		// Separators inside a field (alpha_1, pick-up) split it.
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokenize lowercases, strips punctuation, expands shorthand, and splits the
// input. It never fails: malformed input degrades to an empty sequence.
func Tokenize(raw string) []Token {
	fields := strings.Fields(raw)
	tokens := make([]Token, 0, len(fields))
	for _, field := range fields {
		n := normaliseWord(field)
		if n == "" {
			continue
		}
		for _, word := range strings.Fields(n) {
			if expanded, ok := rewrites[word]; ok {
				word = expanded
			}
			for _, part := range strings.Fields(word) {
				tokens = append(tokens, Token{Text: part, Original: field, Pos: len(tokens)})
			}
		}
	}
	return tokens
}

func normalisePhrase(raw string) string {
	words := make([]string, 0, 4)
	for _, t := range Tokenize(raw) {
		words = append(words, t.Text)
	}
	return strings.Join(words, " ")
}

// mapDirection canonicalises a single direction word. Aliases follow the
// original command set: up/top mean north on a screen-oriented map.
func mapDirection(word string) string {
	switch word {
	case "n", "north", "up", "top":
		return "north"
	case "s", "south", "down", "bottom":
		return "south"
	case "e", "east":
		return "east"
	case "w", "west":
		return "west"
	case "left":
		return "left"
	case "right":
		return "right"
	case "center", "centre", "middle":
		return "center"
	default:
		return ""
	}
}

// stopwords are connective tokens that never carry actor or target meaning.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "to": true, "at": true, "on": true,
	"in": true, "of": true, "for": true, "and": true, "then": true,
	"into": true, "toward": true, "towards": true, "please": true,
	"now": true, "unit": true, "units": true, "forces": true,
	"position": true, "positions": true, "point": true,
}

func isStopword(word string) bool {
	return stopwords[word]
}

// editDistance is levenshtein distance with an adjacent transposition counted
// as a single edit, so "hodl" sits one edit from "hold" rather than two.
func editDistance(a, b string) int {
	best := levenshtein.ComputeDistance(a, b)
	ra := []rune(a)
	for i := 0; i+1 < len(ra) && best > 1; i++ {
		if ra[i] == ra[i+1] {
			continue
		}
		ra[i], ra[i+1] = ra[i+1], ra[i]
		if d := levenshtein.ComputeDistance(string(ra), b) + 1; d < best {
			best = d
		}
		ra[i], ra[i+1] = ra[i+1], ra[i]
	}
	return best
}

// similarity is a normalised score in [0,1]; 1.0 is an exact match.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(editDistance(a, b))/float64(longest)
}
