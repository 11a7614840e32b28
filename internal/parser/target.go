package parser

import (
	"fmt"
	"sort"
	"strings"
)

// placeIndex is the zone/map analogue of AliasIndex.
type placeIndex struct {
	byAlias map[string]Place
	aliases []string
}

func newPlaceIndex(places []Place) *placeIndex {
	idx := &placeIndex{byAlias: make(map[string]Place)}
	for _, p := range places {
		for _, surface := range append([]string{p.ID, p.Name}, p.Aliases...) {
			alias := normalisePhrase(surface)
			if alias == "" {
				continue
			}
			if _, ok := idx.byAlias[alias]; !ok {
				idx.byAlias[alias] = p
				idx.aliases = append(idx.aliases, alias)
			}
		}
	}
	sort.Strings(idx.aliases)
	return idx
}

// targetResolver scans the tokens left over after actor and intent
// resolution for a direction, zone, map, or hostile reference.
type targetResolver struct {
	intent   Intent
	tokens   []Token
	consumed []bool
	idx      *AliasIndex
	zones    *placeIndex
	maps     *placeIndex
}

func (t *targetResolver) resolve() (*Target, *ParseFailure) {
	if !t.intent.AcceptsTarget() {
		return nil, nil
	}

	var target *Target
	switch t.intent {
	case MapChange:
		target = t.findPlace(t.maps, TargetMap)
	case Attack:
		target = t.findHostiles()
	case Flank:
		target = t.findDirection()
	default: // Move, Scout, Fallback
		if target = t.findDirection(); target == nil {
			target = t.findPlace(t.zones, TargetZone)
		}
	}
	if target != nil {
		return target, nil
	}

	if word, ok := t.leftover(); ok {
		return nil, t.invalidTarget(word)
	}
	if t.intent.NeedsTarget() {
		return nil, &ParseFailure{Reason: MissingTarget, Suggestion: t.missingHint()}
	}
	return nil, nil
}

func (t *targetResolver) findDirection() *Target {
	for i, tok := range t.tokens {
		if t.consumed[i] {
			continue
		}
		dir := mapDirection(tok.Text)
		if dir == "" {
			continue
		}
		t.consumed[i] = true
		// "left flank" / "right flank": the trailing noun is part of the
		// direction, not a leftover.
		if i+1 < len(t.tokens) && !t.consumed[i+1] && t.tokens[i+1].Text == "flank" {
			t.consumed[i+1] = true
		}
		return &Target{Kind: TargetDirection, Direction: dir, Label: dir}
	}
	return nil
}

func (t *targetResolver) findHostiles() *Target {
	for i, tok := range t.tokens {
		if t.consumed[i] || !hostileWords[tok.Text] {
			continue
		}
		t.consumed[i] = true
		ids := make([]string, 0, len(t.idx.roster))
		for _, e := range t.idx.roster {
			if e.Hostile {
				ids = append(ids, e.ID)
			}
		}
		if len(ids) == 0 {
			return nil
		}
		return &Target{Kind: TargetEntities, IDs: ids, Label: "the enemy"}
	}
	// A named hostile ("attack tank e1") resolves through the alias index.
	for width := 3; width >= 1; width-- {
		for start := 0; start+width <= len(t.tokens); start++ {
			alias := t.window(start, width)
			if alias == "" {
				continue
			}
			ids := t.idx.lookup(alias, true)
			if len(ids) == 0 {
				continue
			}
			t.consume(start, width)
			return &Target{Kind: TargetEntities, IDs: ids, Label: t.idx.displayLabel(ids)}
		}
	}
	return nil
}

func (t *targetResolver) findPlace(places *placeIndex, kind TargetKind) *Target {
	for width := 3; width >= 1; width-- {
		for start := 0; start+width <= len(t.tokens); start++ {
			alias := t.window(start, width)
			if alias == "" {
				continue
			}
			if p, ok := places.byAlias[alias]; ok {
				t.consume(start, width)
				return t.placeTarget(p, kind)
			}
		}
	}
	// Fuzzy pass over one- and two-token windows.
	type scored struct {
		alias string
		score float64
	}
	for width := 2; width >= 1; width-- {
		for start := 0; start+width <= len(t.tokens); start++ {
			alias := t.window(start, width)
			if alias == "" || len(alias) < 3 {
				continue
			}
			cands := make([]scored, 0, len(places.aliases))
			for _, known := range places.aliases {
				cands = append(cands, scored{alias: known, score: similarity(alias, known)})
			}
			sort.SliceStable(cands, func(i, j int) bool {
				if cands[i].score != cands[j].score {
					return cands[i].score > cands[j].score
				}
				return cands[i].alias < cands[j].alias
			})
			if len(cands) == 0 || cands[0].score < fuzzyThreshold {
				continue
			}
			best := cands[0]
			for _, c := range cands[1:] {
				if places.byAlias[c.alias].ID == places.byAlias[best.alias].ID {
					continue
				}
				if best.score-c.score <= ambiguityMargin {
					// Two distinct places inside the margin: refuse to guess.
					return nil
				}
				break
			}
			t.consume(start, width)
			return t.placeTarget(places.byAlias[best.alias], kind)
		}
	}
	return nil
}

func (t *targetResolver) placeTarget(p Place, kind TargetKind) *Target {
	target := &Target{Kind: kind, Label: p.Name}
	if kind == TargetMap {
		target.MapID = p.ID
	} else {
		target.ZoneID = p.ID
	}
	return target
}

// leftover reports the first unconsumed token that should have named a
// target but did not resolve to anything.
func (t *targetResolver) leftover() (string, bool) {
	for i, tok := range t.tokens {
		if t.consumed[i] || isStopword(tok.Text) {
			continue
		}
		return tok.Text, true
	}
	return "", false
}

func (t *targetResolver) invalidTarget(word string) *ParseFailure {
	switch t.intent {
	case MapChange:
		return &ParseFailure{
			Reason:     InvalidTarget,
			Suggestion: fmt.Sprintf("Unknown map %q. Maps: %s.", word, strings.Join(t.maps.aliases, ", ")),
		}
	case Attack:
		return &ParseFailure{
			Reason:     InvalidTarget,
			Suggestion: fmt.Sprintf("%q is not an enemy I can see. Try \"attack the enemy\".", word),
		}
	default:
		return &ParseFailure{
			Reason:     InvalidTarget,
			Suggestion: fmt.Sprintf("%q is not a direction or zone I know.", word),
		}
	}
}

func (t *targetResolver) missingHint() string {
	switch t.intent {
	case Attack:
		return "Name a target, e.g. \"attack the enemy\"."
	case MapChange:
		return fmt.Sprintf("Name a map: %s.", strings.Join(t.maps.aliases, ", "))
	default:
		return "Add a direction or zone, e.g. \"move north\"."
	}
}

func (t *targetResolver) window(start, width int) string {
	words := make([]string, 0, width)
	for i := start; i < start+width; i++ {
		if t.consumed[i] || isStopword(t.tokens[i].Text) {
			return ""
		}
		words = append(words, t.tokens[i].Text)
	}
	return strings.Join(words, " ")
}

func (t *targetResolver) consume(start, width int) {
	for i := start; i < start+width; i++ {
		t.consumed[i] = true
	}
}
