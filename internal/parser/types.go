package parser

// Intent is the closed set of orders the pipeline can recognise.
type Intent int

const (
	Unknown Intent = iota
	Move
	Attack
	Hold
	Scout
	Flank
	Fallback
	Resupply
	PauseToggle
	Save
	Load
	MapChange
)

func (i Intent) String() string {
	switch i {
	case Move:
		return "move"
	case Attack:
		return "attack"
	case Hold:
		return "hold"
	case Scout:
		return "scout"
	case Flank:
		return "flank"
	case Fallback:
		return "fall back"
	case Resupply:
		return "resupply"
	case PauseToggle:
		return "pause"
	case Save:
		return "save"
	case Load:
		return "load"
	case MapChange:
		return "map"
	default:
		return "unknown"
	}
}

// NeedsActors reports whether the intent is meaningless without a unit to
// apply it to. System intents (pause, save, load, map) take no actor.
func (i Intent) NeedsActors() bool {
	switch i {
	case Move, Attack, Hold, Scout, Flank, Fallback, Resupply:
		return true
	default:
		return false
	}
}

// NeedsTarget reports whether a missing target is a parse failure.
func (i Intent) NeedsTarget() bool {
	switch i {
	case Move, Attack, MapChange:
		return true
	default:
		return false
	}
}

// AcceptsTarget reports whether leftover tokens may legally name a target.
// Intents outside this set ignore leftovers instead of failing on them.
func (i Intent) AcceptsTarget() bool {
	switch i {
	case Move, Attack, Scout, Flank, Fallback, MapChange:
		return true
	default:
		return false
	}
}

type FailureReason int

const (
	NoActorMatch FailureReason = iota
	AmbiguousActor
	NoIntentMatch
	AmbiguousIntent
	MissingTarget
	InvalidTarget
)

func (r FailureReason) String() string {
	switch r {
	case NoActorMatch:
		return "no actor match"
	case AmbiguousActor:
		return "ambiguous actor"
	case NoIntentMatch:
		return "no intent match"
	case AmbiguousIntent:
		return "ambiguous intent"
	case MissingTarget:
		return "missing target"
	case InvalidTarget:
		return "invalid target"
	default:
		return "parse failure"
	}
}

// ParseFailure is the recoverable outcome of a sentence that could not be
// turned into a command. Suggestion, when present, is ready to show verbatim.
type ParseFailure struct {
	Reason     FailureReason
	Suggestion string
}

// Token is one normalised word with the raw field it came from and its
// position in the normalised sequence.
type Token struct {
	Text     string
	Original string
	Pos      int
}

type RefKind int

const (
	RefEntities RefKind = iota
	RefCollective
	RefBroadcast
)

// ActorRef is a resolved "who": one entity, a named set, a unit-type
// collective, or the whole live friendly roster.
type ActorRef struct {
	Kind       RefKind
	IDs        []string
	Label      string
	Confidence float64
}

type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetDirection
	TargetZone
	TargetMap
	TargetEntities
)

// Target is a resolved "where" or "at whom".
type Target struct {
	Kind      TargetKind
	Direction string
	ZoneID    string
	MapID     string
	IDs       []string
	Label     string
}

// ParsedCommand is immutable once built and is only built when actor and
// intent resolution both succeeded above threshold.
type ParsedCommand struct {
	Actors     ActorRef
	Intent     Intent
	Target     *Target
	Confidence float64
	Raw        string
}

// Matching thresholds. Kept as named constants so boundary behaviour is
// testable rather than tuned inline.
const (
	// fuzzyThreshold is the minimum normalised similarity for a fuzzy match.
	fuzzyThreshold = 0.75
	// ambiguityMargin: a second distinct candidate within this much of the
	// best score makes the reference ambiguous instead of picking one.
	ambiguityMargin = 0.05
	// suggestionFloor is the weakest near-miss still worth a "did you mean".
	suggestionFloor = 0.5
)
