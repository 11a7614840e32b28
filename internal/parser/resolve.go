package parser

import (
	"fmt"
	"sort"
	"strings"
)

type collectiveDef struct {
	label string
	match func(Entity) bool
}

func classMatcher(c UnitClass) func(Entity) bool {
	return func(e Entity) bool { return e.Class == c }
}

func subtypeMatcher(subtype string) func(Entity) bool {
	return func(e Entity) bool { return e.Class == ClassVehicle && e.Subtype == subtype }
}

// collectives map unit-type words to roster filters. Subtype words stay
// strict: "tanks" never silently widens to every vehicle.
var collectives = map[string]collectiveDef{
	"squads":   {label: "all squads", match: classMatcher(ClassSquad)},
	"infantry": {label: "all squads", match: classMatcher(ClassSquad)},
	"troops":   {label: "all squads", match: classMatcher(ClassSquad)},
	"drone":    {label: "all drones", match: classMatcher(ClassDrone)},
	"drones":   {label: "all drones", match: classMatcher(ClassDrone)},
	"uav":      {label: "all drones", match: classMatcher(ClassDrone)},
	"uavs":     {label: "all drones", match: classMatcher(ClassDrone)},
	"vehicle":  {label: "all vehicles", match: classMatcher(ClassVehicle)},
	"vehicles": {label: "all vehicles", match: classMatcher(ClassVehicle)},
	"armor":    {label: "all vehicles", match: classMatcher(ClassVehicle)},
	"armour":   {label: "all vehicles", match: classMatcher(ClassVehicle)},
	"tank":     {label: "all tanks", match: subtypeMatcher("tank")},
	"tanks":    {label: "all tanks", match: subtypeMatcher("tank")},
	"apc":      {label: "all apcs", match: subtypeMatcher("apc")},
	"apcs":     {label: "all apcs", match: subtypeMatcher("apc")},
}

var broadcastWords = map[string]bool{
	"everyone": true, "everybody": true, "everything": true, "all": true,
}

var hostileWords = map[string]bool{
	"enemy": true, "enemies": true, "hostile": true, "hostiles": true,
	"target": true, "targets": true,
}

// actorResolver accumulates resolved actor references across the exact,
// collective, and fuzzy passes of a single parse.
type actorResolver struct {
	idx      *AliasIndex
	tokens   []Token
	consumed []bool

	ids        []string
	seen       map[string]bool
	kind       RefKind
	labels     []string
	confidence float64

	emptyRef string // collective word that matched a type with no live member
	missWord string // best sub-threshold near miss, for suggestions
	missName string
	missBest float64
}

func newActorResolver(idx *AliasIndex, tokens []Token, consumed []bool) *actorResolver {
	return &actorResolver{
		idx:        idx,
		tokens:     tokens,
		consumed:   consumed,
		seen:       make(map[string]bool),
		kind:       RefEntities,
		confidence: 1,
	}
}

func (r *actorResolver) add(ids []string, label string, kind RefKind, confidence float64) {
	for _, id := range ids {
		if !r.seen[id] {
			r.seen[id] = true
			r.ids = append(r.ids, id)
		}
	}
	if kind > r.kind {
		r.kind = kind
	}
	if label != "" {
		r.labels = append(r.labels, label)
	}
	if confidence < r.confidence {
		r.confidence = confidence
	}
}

func (r *actorResolver) friendly(filter func(Entity) bool) []string {
	ids := make([]string, 0, len(r.idx.roster))
	for _, e := range r.idx.roster {
		if e.Hostile {
			continue
		}
		if filter == nil || filter(e) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// exactPass consumes alias windows (longest first), unit-type collectives,
// and broadcast words, all at confidence 1.0.
func (r *actorResolver) exactPass() {
	for width := 3; width >= 1; width-- {
		for start := 0; start+width <= len(r.tokens); start++ {
			if r.window(start, width) == "" {
				continue
			}
			alias := r.window(start, width)
			ids := r.idx.lookup(alias, false)
			if len(ids) == 0 {
				continue
			}
			r.consume(start, width)
			r.add(ids, r.idx.displayLabel(ids), RefEntities, 1)
		}
	}
	for i, tok := range r.tokens {
		if r.consumed[i] {
			continue
		}
		if def, ok := collectives[tok.Text]; ok {
			r.consumed[i] = true
			ids := r.friendly(def.match)
			if len(ids) == 0 {
				if r.emptyRef == "" {
					r.emptyRef = tok.Text
				}
				continue
			}
			r.add(ids, def.label, RefCollective, 1)
		}
	}
	for i, tok := range r.tokens {
		if r.consumed[i] || !broadcastWords[tok.Text] {
			continue
		}
		r.consumed[i] = true
		// "all" ahead of a matched reference ("all drones", "all alpha")
		// amplifies it; on its own it addresses the whole roster.
		if tok.Text == "all" && len(r.ids) > 0 {
			continue
		}
		r.add(r.friendly(nil), "all units", RefBroadcast, 1)
	}
}

type actorCandidate struct {
	key   string
	label string
	ids   []string
	kind  RefKind
	score float64
}

// fuzzyPass edit-matches leftover tokens against the alias index plus the
// collective and broadcast vocabularies. A tie inside the ambiguity margin is
// reported instead of picking a winner.
func (r *actorResolver) fuzzyPass() *ParseFailure {
	for i, tok := range r.tokens {
		if r.consumed[i] || isStopword(tok.Text) || hostileWords[tok.Text] {
			continue
		}
		if len(tok.Text) < 3 || mapDirection(tok.Text) != "" {
			continue
		}
		best, rival := r.fuzzyCandidates(tok.Text)
		if best.key == "" {
			continue
		}
		if best.score < fuzzyThreshold {
			if best.score >= suggestionFloor && best.score > r.missBest {
				r.missBest = best.score
				r.missWord = tok.Text
				r.missName = best.label
			}
			continue
		}
		if rival.key != "" && best.score-rival.score <= ambiguityMargin {
			return &ParseFailure{
				Reason:     AmbiguousActor,
				Suggestion: fmt.Sprintf("Did you mean %s or %s?", best.label, rival.label),
			}
		}
		r.consumed[i] = true
		r.add(best.ids, best.label, best.kind, best.score)
	}
	return nil
}

func (r *actorResolver) fuzzyCandidates(word string) (actorCandidate, actorCandidate) {
	cands := make([]actorCandidate, 0, len(r.idx.aliases))
	for _, alias := range r.idx.aliases {
		ids := r.idx.lookup(alias, false)
		if len(ids) == 0 {
			continue
		}
		label := alias
		if len(ids) == 1 {
			if e, ok := r.idx.entity(ids[0]); ok {
				label = e.Name
			}
		}
		cands = append(cands, actorCandidate{
			key:   "alias:" + strings.Join(ids, ","),
			label: label,
			ids:   ids,
			kind:  RefEntities,
			score: similarity(word, alias),
		})
	}
	collectiveWords := make([]string, 0, len(collectives))
	for w := range collectives {
		collectiveWords = append(collectiveWords, w)
	}
	sort.Strings(collectiveWords)
	for _, w := range collectiveWords {
		def := collectives[w]
		ids := r.friendly(def.match)
		if len(ids) == 0 {
			continue
		}
		cands = append(cands, actorCandidate{
			key:   "collective:" + def.label,
			label: def.label,
			ids:   ids,
			kind:  RefCollective,
			score: similarity(word, w),
		})
	}
	for _, w := range []string{"all", "everybody", "everyone", "everything"} {
		cands = append(cands, actorCandidate{
			key:   "broadcast",
			label: "all units",
			ids:   r.friendly(nil),
			kind:  RefBroadcast,
			score: similarity(word, w),
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].label < cands[j].label
	})
	if len(cands) == 0 {
		return actorCandidate{}, actorCandidate{}
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.key != best.key {
			return best, c
		}
	}
	return best, actorCandidate{}
}

// finish folds the accumulated references into one ActorRef.
func (r *actorResolver) finish(intent Intent) (ActorRef, *ParseFailure) {
	if len(r.ids) == 0 {
		if !intent.NeedsActors() {
			return ActorRef{}, nil
		}
		if r.emptyRef != "" {
			return ActorRef{}, &ParseFailure{
				Reason:     NoActorMatch,
				Suggestion: fmt.Sprintf("No live %s on your side.", r.emptyRef),
			}
		}
		if r.missWord != "" {
			return ActorRef{}, &ParseFailure{
				Reason:     NoActorMatch,
				Suggestion: fmt.Sprintf("No unit matches %q. Did you mean %q?", r.missWord, r.missName),
			}
		}
		return ActorRef{}, &ParseFailure{
			Reason:     NoActorMatch,
			Suggestion: "Name a squad, drone, or vehicle, or say \"everyone\".",
		}
	}
	label := "all units"
	if r.kind != RefBroadcast {
		label = joinNames(r.labels)
	}
	return ActorRef{
		Kind:       r.kind,
		IDs:        r.ids,
		Label:      label,
		Confidence: r.confidence,
	}, nil
}

func (r *actorResolver) window(start, width int) string {
	words := make([]string, 0, width)
	for i := start; i < start+width; i++ {
		if r.consumed[i] {
			return ""
		}
		words = append(words, r.tokens[i].Text)
	}
	return strings.Join(words, " ")
}

func (r *actorResolver) consume(start, width int) {
	for i := start; i < start+width; i++ {
		r.consumed[i] = true
	}
}
