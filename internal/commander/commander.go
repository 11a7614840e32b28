// Package commander is the boundary between parsed orders and the live
// world: it re-validates each command against the current roster, applies it
// through the mutation interface, and renders one feedback line per order.
package commander

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/appengine-ltd/urban-legend/internal/parser"
)

// Destination is an abstract "where" for movement-type orders. Exactly one
// field is set; the world resolves it to coordinates.
type Destination struct {
	Direction string
	ZoneID    string
}

// WorldQuery is the read side the pipeline needs: a roster snapshot and the
// known places. Implemented by game.World.
type WorldQuery interface {
	LiveRoster() []parser.Entity
	KnownZones() []parser.Place
	KnownMaps() []parser.Place
}

// WorldMutator is the only path through which a command touches world state.
// Every call is last-writer-wins per entity order slot, so re-applying an
// identical command is always safe.
type WorldMutator interface {
	IssueMove(ids []string, dest Destination) error
	IssueAttack(ids []string, targetIDs []string) error
	IssueHold(ids []string) error
	IssueScout(ids []string, dest Destination) error
	IssueFlank(ids []string, direction string) error
	IssueFallback(ids []string, dest Destination) error
	IssueResupply(ids []string) error
	ChangeMap(mapID string) error
	RequestSave() error
	RequestLoad() error
	TogglePause() (bool, error)
}

type Commander struct {
	parser *parser.Parser
	query  WorldQuery
	world  WorldMutator
	log    *zap.Logger
}

func New(query WorldQuery, world WorldMutator, log *zap.Logger) *Commander {
	if log == nil {
		log = zap.NewNop()
	}
	return &Commander{
		parser: parser.New(),
		query:  query,
		world:  world,
		log:    log,
	}
}

// Submit runs one raw sentence through the whole pipeline and returns the
// feedback line to show the player. It never returns an error: every failure
// mode folds into the string.
func (c *Commander) Submit(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Standing by."
	}
	snap := parser.Snapshot{
		Entities: c.query.LiveRoster(),
		Zones:    c.query.KnownZones(),
		Maps:     c.query.KnownMaps(),
	}
	cmd, fail := c.parser.Parse(snap, raw)
	if fail != nil {
		c.log.Debug("parse failed",
			zap.String("input", raw),
			zap.String("reason", fail.Reason.String()))
		return failureMessage(fail)
	}
	return c.Dispatch(cmd)
}

// Dispatch validates a ParsedCommand against the world as it is now (the
// roster may have shifted since resolution began) and applies it. Dead
// actors are dropped silently while at least one lives; a fully dead actor
// set fails the way an unmatched one would.
func (c *Commander) Dispatch(cmd parser.ParsedCommand) string {
	live := make(map[string]parser.Entity)
	for _, e := range c.query.LiveRoster() {
		if e.Alive {
			live[e.ID] = e
		}
	}

	actors := make([]string, 0, len(cmd.Actors.IDs))
	for _, id := range cmd.Actors.IDs {
		if _, ok := live[id]; ok {
			actors = append(actors, id)
		}
	}
	if cmd.Intent.NeedsActors() && len(actors) == 0 {
		return failureMessage(&parser.ParseFailure{
			Reason:     parser.NoActorMatch,
			Suggestion: "None of those units are still in the fight.",
		})
	}

	label := actorLabel(cmd.Actors, actors, live)
	c.log.Info("dispatching order",
		zap.String("intent", cmd.Intent.String()),
		zap.Strings("actors", actors),
		zap.Float64("confidence", cmd.Confidence))

	var err error
	var feedback string
	switch cmd.Intent {
	case parser.Move:
		dest := destinationOf(cmd.Target)
		err = c.world.IssueMove(actors, dest)
		feedback = fmt.Sprintf("%s: moving to %s.", label, targetLabel(cmd.Target))
	case parser.Attack:
		targets := make([]string, 0, len(cmd.Target.IDs))
		for _, id := range cmd.Target.IDs {
			if _, ok := live[id]; ok {
				targets = append(targets, id)
			}
		}
		if len(targets) == 0 {
			return "Target is already destroyed."
		}
		err = c.world.IssueAttack(actors, targets)
		feedback = fmt.Sprintf("%s: engaging %s.", label, targetLabel(cmd.Target))
	case parser.Hold:
		err = c.world.IssueHold(actors)
		feedback = fmt.Sprintf("%s: holding position.", label)
	case parser.Scout:
		err = c.world.IssueScout(actors, destinationOf(cmd.Target))
		feedback = fmt.Sprintf("%s: scouting %s.", label, targetLabelOr(cmd.Target, "ahead"))
	case parser.Flank:
		direction := ""
		if cmd.Target != nil {
			direction = cmd.Target.Direction
		}
		err = c.world.IssueFlank(actors, direction)
		feedback = fmt.Sprintf("%s: flanking %s.", label, targetLabelOr(cmd.Target, "the enemy"))
	case parser.Fallback:
		err = c.world.IssueFallback(actors, destinationOf(cmd.Target))
		feedback = fmt.Sprintf("%s: falling back to %s.", label, targetLabelOr(cmd.Target, "base"))
	case parser.Resupply:
		err = c.world.IssueResupply(actors)
		feedback = fmt.Sprintf("%s: resupplying.", label)
	case parser.MapChange:
		err = c.world.ChangeMap(cmd.Target.MapID)
		feedback = fmt.Sprintf("Map changed to %s.", cmd.Target.Label)
	case parser.Save:
		err = c.world.RequestSave()
		feedback = "Game saved."
	case parser.Load:
		err = c.world.RequestLoad()
		feedback = "Game loaded."
	case parser.PauseToggle:
		var paused bool
		paused, err = c.world.TogglePause()
		if paused {
			feedback = "Paused."
		} else {
			feedback = "Resumed."
		}
	default:
		return failureMessage(&parser.ParseFailure{Reason: parser.NoIntentMatch})
	}

	if err != nil {
		c.log.Warn("world rejected order",
			zap.String("intent", cmd.Intent.String()),
			zap.Error(err))
		return fmt.Sprintf("Order refused: %v.", err)
	}
	return feedback
}

func destinationOf(t *parser.Target) Destination {
	if t == nil {
		return Destination{}
	}
	return Destination{Direction: t.Direction, ZoneID: t.ZoneID}
}

func targetLabel(t *parser.Target) string {
	if t == nil || t.Label == "" {
		return "position"
	}
	return t.Label
}

func targetLabelOr(t *parser.Target, fallback string) string {
	if t == nil || t.Label == "" {
		return fallback
	}
	return t.Label
}

func actorLabel(ref parser.ActorRef, surviving []string, live map[string]parser.Entity) string {
	if ref.Kind == parser.RefBroadcast {
		return "All units"
	}
	// If the set shrank during validation, rename it from the survivors so
	// feedback never mentions the dead.
	if len(surviving) != len(ref.IDs) || ref.Label == "" {
		names := make([]string, 0, len(surviving))
		for _, id := range surviving {
			names = append(names, live[id].Name)
		}
		if len(names) > 0 {
			return strings.Join(names, ", ")
		}
	}
	return ref.Label
}

func failureMessage(fail *parser.ParseFailure) string {
	base := ""
	switch fail.Reason {
	case parser.NoActorMatch:
		base = "No unit matched that order."
	case parser.AmbiguousActor:
		base = "That could be more than one unit."
	case parser.NoIntentMatch:
		base = "Order not understood."
	case parser.AmbiguousIntent:
		base = "That order could mean two things."
	case parser.MissingTarget:
		base = "That order needs a destination or target."
	case parser.InvalidTarget:
		base = "That target doesn't make sense here."
	default:
		base = "Order not understood."
	}
	if fail.Suggestion == "" {
		return base
	}
	return base + " " + fail.Suggestion
}
