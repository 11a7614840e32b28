package parser

import "fmt"

// Parser turns one free-form sentence into a ParsedCommand against a live
// roster snapshot, or explains why it could not. It never panics on input.
type Parser struct {
	lex *Lexicon
}

func New() *Parser {
	return &Parser{lex: DefaultLexicon()}
}

// Parse resolves actors, intent, and target jointly over the token sequence.
// Pass order: exact matches first (aliases, collectives, broadcast, synonym
// phrases), fuzzy matches only over what is left, so a typo can never shadow
// an exact hit. Ambiguity is always surfaced, never guessed through.
func (p *Parser) Parse(snap Snapshot, raw string) (ParsedCommand, *ParseFailure) {
	tokens := Tokenize(raw)
	if len(tokens) == 0 {
		return ParsedCommand{}, &ParseFailure{Reason: NoIntentMatch}
	}
	idx := NewAliasIndex(snap)
	consumed := make([]bool, len(tokens))

	// System orders (pause/save/load/map) are keyed on the leading word and
	// take no actor.
	if sys, width := p.lex.matchSystem(tokens); sys != Unknown {
		for i := 0; i < width; i++ {
			consumed[i] = true
		}
		target, tfail := p.resolveTarget(sys, tokens, consumed, snap, idx)
		if tfail != nil {
			return ParsedCommand{}, tfail
		}
		return ParsedCommand{Intent: sys, Target: target, Confidence: 1, Raw: raw}, nil
	}

	actors := newActorResolver(idx, tokens, consumed)
	actors.exactPass()

	intent := Unknown
	intentConf := 0.0
	if got, ok := p.lex.matchExact(tokens, consumed); ok {
		intent = got
		intentConf = 1
	}

	if fail := actors.fuzzyPass(); fail != nil {
		return ParsedCommand{}, fail
	}

	var intentBest intentCandidate
	var intentRivals []intentCandidate
	if intent == Unknown {
		intentBest, intentRivals = p.lex.matchFuzzy(tokens, consumed)
		if intentBest.score >= fuzzyThreshold {
			intent = intentBest.intent
			intentConf = intentBest.score
		}
	}

	actorRef, afail := actors.finish(intent)

	if intent == Unknown {
		if len(actorRef.IDs) == 0 {
			// Neither a unit nor an order word: report both at once, with
			// the actor side leading.
			suggestion := fmt.Sprintf("No unit or order recognised in %q.", raw)
			if actors.missWord != "" {
				suggestion += fmt.Sprintf(" Did you mean %q?", actors.missName)
			}
			return ParsedCommand{}, &ParseFailure{Reason: NoActorMatch, Suggestion: suggestion}
		}
		return ParsedCommand{}, &ParseFailure{
			Reason:     NoIntentMatch,
			Suggestion: "Try: move, attack, hold, scout, flank, fall back, resupply, pause, save, load, map.",
		}
	}
	if afail != nil {
		return ParsedCommand{}, afail
	}
	if len(intentRivals) > 0 {
		return ParsedCommand{}, &ParseFailure{
			Reason:     AmbiguousIntent,
			Suggestion: fmt.Sprintf("Did you mean %q or %q?", intentBest.text, intentRivals[0].text),
		}
	}

	target, tfail := p.resolveTarget(intent, tokens, consumed, snap, idx)
	if tfail != nil {
		return ParsedCommand{}, tfail
	}

	confidence := intentConf
	if actorRef.Confidence < confidence {
		confidence = actorRef.Confidence
	}
	return ParsedCommand{
		Actors:     actorRef,
		Intent:     intent,
		Target:     target,
		Confidence: confidence,
		Raw:        raw,
	}, nil
}

func (p *Parser) resolveTarget(intent Intent, tokens []Token, consumed []bool, snap Snapshot, idx *AliasIndex) (*Target, *ParseFailure) {
	tr := targetResolver{
		intent:   intent,
		tokens:   tokens,
		consumed: consumed,
		idx:      idx,
		zones:    newPlaceIndex(snap.Zones),
		maps:     newPlaceIndex(snap.Maps),
	}
	return tr.resolve()
}
