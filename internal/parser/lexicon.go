package parser

import (
	"sort"
	"strings"
)

// LexiconEntry maps a canonical order word and its surface synonyms to an
// intent. Entries are immutable once the lexicon is built.
type LexiconEntry struct {
	Canonical string
	Intent    Intent
	Synonyms  []string
}

type lexiconPhrase struct {
	intent Intent
	text   string
	tokens []string
}

// Lexicon holds every synonym phrase, longest first, so multi-word synonyms
// ("fall back") win over coincidental single-word matches.
type Lexicon struct {
	phrases []lexiconPhrase
	system  []lexiconPhrase
}

func NewLexicon(entries []LexiconEntry) *Lexicon {
	lex := &Lexicon{}
	for _, entry := range entries {
		surfaces := append([]string{entry.Canonical}, entry.Synonyms...)
		for _, surface := range surfaces {
			n := normalisePhrase(surface)
			if n == "" {
				continue
			}
			p := lexiconPhrase{intent: entry.Intent, text: n, tokens: strings.Fields(n)}
			if entry.Intent.NeedsActors() {
				lex.phrases = append(lex.phrases, p)
			} else {
				lex.system = append(lex.system, p)
			}
		}
	}
	order := func(ps []lexiconPhrase) {
		sort.SliceStable(ps, func(i, j int) bool {
			if len(ps[i].tokens) != len(ps[j].tokens) {
				return len(ps[i].tokens) > len(ps[j].tokens)
			}
			if len(ps[i].text) != len(ps[j].text) {
				return len(ps[i].text) > len(ps[j].text)
			}
			return ps[i].text < ps[j].text
		})
	}
	order(lex.phrases)
	order(lex.system)
	return lex
}

// DefaultLexicon carries the stock order vocabulary. Synonym sets follow the
// original command keywords.
func DefaultLexicon() *Lexicon {
	return NewLexicon([]LexiconEntry{
		{Canonical: "attack", Intent: Attack, Synonyms: []string{
			"engage", "strike", "assault", "charge", "hit", "destroy", "fight",
			"fire on", "open fire on",
		}},
		{Canonical: "move", Intent: Move, Synonyms: []string{
			"advance", "go", "push", "shift", "march", "proceed", "head",
			"move out", "move to",
		}},
		{Canonical: "hold", Intent: Hold, Synonyms: []string{
			"defend", "stay", "stop", "hold position", "stay put", "dig in",
		}},
		{Canonical: "scout", Intent: Scout, Synonyms: []string{
			"recon", "observe", "survey", "spot", "reconnoiter",
		}},
		{Canonical: "flank", Intent: Flank, Synonyms: []string{
			"flanking", "encircle", "surround", "circle around",
		}},
		{Canonical: "fall back", Intent: Fallback, Synonyms: []string{
			"fallback", "retreat", "withdraw", "pull back",
		}},
		{Canonical: "resupply", Intent: Resupply, Synonyms: []string{
			"rearm", "refill", "replenish", "reload",
		}},

		// System orders, recognised by leading keyword only.
		{Canonical: "pause", Intent: PauseToggle, Synonyms: []string{"unpause", "resume"}},
		{Canonical: "save", Intent: Save, Synonyms: []string{"save game"}},
		{Canonical: "load", Intent: Load, Synonyms: []string{"load game", "restore"}},
		{Canonical: "map", Intent: MapChange, Synonyms: []string{"change map", "switch map"}},
	})
}

// matchSystem recognises pause/save/load/map sentences by their leading
// keyword, independent of any actor tokens.
func (l *Lexicon) matchSystem(tokens []Token) (Intent, int) {
	for _, phrase := range l.system {
		if len(tokens) < len(phrase.tokens) {
			continue
		}
		hit := true
		for i, word := range phrase.tokens {
			if tokens[i].Text != word {
				hit = false
				break
			}
		}
		if hit {
			return phrase.intent, len(phrase.tokens)
		}
	}
	return Unknown, 0
}

// matchExact scans unconsumed tokens for the longest exact synonym phrase.
// It consumes the matched span and reports the winning intent.
func (l *Lexicon) matchExact(tokens []Token, consumed []bool) (Intent, bool) {
	for _, phrase := range l.phrases {
		for start := 0; start+len(phrase.tokens) <= len(tokens); start++ {
			hit := true
			for i, word := range phrase.tokens {
				if consumed[start+i] || tokens[start+i].Text != word {
					hit = false
					break
				}
			}
			if hit {
				for i := range phrase.tokens {
					consumed[start+i] = true
				}
				return phrase.intent, true
			}
		}
	}
	return Unknown, false
}

type intentCandidate struct {
	intent Intent
	text   string
	score  float64
	start  int
	width  int
}

// matchFuzzy compares unconsumed token windows against every synonym phrase
// by edit similarity. A second intent within the ambiguity margin of the best
// makes the classification ambiguous.
func (l *Lexicon) matchFuzzy(tokens []Token, consumed []bool) (intentCandidate, []intentCandidate) {
	cands := make([]intentCandidate, 0, 8)
	for _, phrase := range l.phrases {
		width := len(phrase.tokens)
		for start := 0; start+width <= len(tokens); start++ {
			free := true
			for i := 0; i < width; i++ {
				if consumed[start+i] {
					free = false
					break
				}
			}
			if !free {
				continue
			}
			words := make([]string, 0, width)
			for i := 0; i < width; i++ {
				words = append(words, tokens[start+i].Text)
			}
			window := strings.Join(words, " ")
			if len(window) < 3 {
				continue
			}
			score := similarity(window, phrase.text)
			if score < fuzzyThreshold {
				continue
			}
			cands = append(cands, intentCandidate{
				intent: phrase.intent,
				text:   phrase.text,
				score:  score,
				start:  start,
				width:  width,
			})
		}
	}
	if len(cands) == 0 {
		return intentCandidate{}, nil
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		if cands[i].width != cands[j].width {
			return cands[i].width > cands[j].width
		}
		return cands[i].text < cands[j].text
	})
	best := cands[0]
	rivals := make([]intentCandidate, 0, 2)
	for _, c := range cands[1:] {
		if c.intent == best.intent {
			continue
		}
		if best.score-c.score <= ambiguityMargin && c.width == best.width {
			rivals = append(rivals, c)
		}
	}
	for i := 0; i < best.width; i++ {
		consumed[best.start+i] = true
	}
	return best, rivals
}
