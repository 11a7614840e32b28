package parser

import "sort"

// UnitClass is the controllable entity category an entity belongs to.
type UnitClass int

const (
	ClassSquad UnitClass = iota
	ClassDrone
	ClassVehicle
)

func (c UnitClass) String() string {
	switch c {
	case ClassSquad:
		return "squad"
	case ClassDrone:
		return "drone"
	case ClassVehicle:
		return "vehicle"
	default:
		return "unit"
	}
}

// Entity is one roster row as the world reports it. Aliases are raw surface
// strings; the index normalises them.
type Entity struct {
	ID      string
	Name    string
	Aliases []string
	Class   UnitClass
	Subtype string
	Hostile bool
	Alive   bool
}

// Place is a named zone or map the target resolver can match against.
type Place struct {
	ID      string
	Name    string
	Aliases []string
}

// Snapshot is the live world view a single parse runs against. Resolution is
// a pure function of (tokens, snapshot), so re-running a parse against the
// same snapshot always yields the same result.
type Snapshot struct {
	Entities []Entity
	Zones    []Place
	Maps     []Place
}

// AliasIndex maps normalised name fragments to live entity ids. Dead
// entities never enter the index, so a reference that only matches a dead
// unit resolves to nothing. Rebuilt from a fresh snapshot before each parse.
type AliasIndex struct {
	entities map[string]Entity
	roster   []Entity
	byAlias  map[string][]string
	aliases  []string
}

func NewAliasIndex(snap Snapshot) *AliasIndex {
	idx := &AliasIndex{
		entities: make(map[string]Entity, len(snap.Entities)),
		byAlias:  make(map[string][]string),
	}
	for _, e := range snap.Entities {
		if !e.Alive {
			continue
		}
		idx.entities[e.ID] = e
		idx.roster = append(idx.roster, e)
		surfaces := append([]string{e.ID, e.Name}, e.Aliases...)
		seen := make(map[string]bool, len(surfaces))
		for _, surface := range surfaces {
			alias := normalisePhrase(surface)
			if alias == "" || seen[alias] {
				continue
			}
			seen[alias] = true
			idx.byAlias[alias] = append(idx.byAlias[alias], e.ID)
		}
	}
	idx.aliases = make([]string, 0, len(idx.byAlias))
	for alias, ids := range idx.byAlias {
		sort.Strings(ids)
		idx.aliases = append(idx.aliases, alias)
	}
	sort.Strings(idx.aliases)
	return idx
}

func (idx *AliasIndex) entity(id string) (Entity, bool) {
	e, ok := idx.entities[id]
	return e, ok
}

// lookup returns the live ids carrying the exact alias, optionally filtered
// by faction. An alias shared by several entities (the "alpha squad" case)
// legitimately resolves to the whole set.
func (idx *AliasIndex) lookup(alias string, hostile bool) []string {
	out := make([]string, 0, len(idx.byAlias[alias]))
	for _, id := range idx.byAlias[alias] {
		if idx.entities[id].Hostile == hostile {
			out = append(out, id)
		}
	}
	return out
}

// displayLabel names a resolved id set for feedback text.
func (idx *AliasIndex) displayLabel(ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if e, ok := idx.entities[id]; ok {
			names = append(names, e.Name)
		}
	}
	return joinNames(names)
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		out := ""
		for i, n := range names[:len(names)-1] {
			if i > 0 {
				out += ", "
			}
			out += n
		}
		return out + " and " + names[len(names)-1]
	}
}
