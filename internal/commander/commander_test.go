package commander

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/appengine-ltd/urban-legend/internal/parser"
)

// fakeWorld records every mutation so tests can assert on exactly what the
// dispatcher asked for.
type fakeWorld struct {
	entities []parser.Entity
	zones    []parser.Place
	maps     []parser.Place

	calls   []string
	lastIDs []string
	lastDst Destination
	paused  bool
	fail    error
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		entities: []parser.Entity{
			{ID: "alpha_1", Name: "Alpha_1", Aliases: []string{"alpha 1", "alpha", "alpha squad"}, Class: parser.ClassSquad, Alive: true},
			{ID: "alpha_2", Name: "Alpha_2", Aliases: []string{"alpha 2", "alpha", "alpha squad"}, Class: parser.ClassSquad, Alive: true},
			{ID: "drone_1", Name: "Drone_1", Aliases: []string{"drone 1"}, Class: parser.ClassDrone, Alive: true},
			{ID: "enemy_1", Name: "Enemy_1", Class: parser.ClassSquad, Hostile: true, Alive: true},
		},
		zones: []parser.Place{{ID: "base", Name: "Base", Aliases: []string{"home"}}},
		maps:  []parser.Place{{ID: "urban_district", Name: "Urban District"}},
	}
}

func (w *fakeWorld) kill(id string) {
	for i := range w.entities {
		if w.entities[i].ID == id {
			w.entities[i].Alive = false
		}
	}
}

func (w *fakeWorld) LiveRoster() []parser.Entity { return w.entities }
func (w *fakeWorld) KnownZones() []parser.Place  { return w.zones }
func (w *fakeWorld) KnownMaps() []parser.Place   { return w.maps }

func (w *fakeWorld) record(call string, ids []string) error {
	w.calls = append(w.calls, call)
	w.lastIDs = ids
	return w.fail
}

func (w *fakeWorld) IssueMove(ids []string, dest Destination) error {
	w.lastDst = dest
	return w.record("move", ids)
}
func (w *fakeWorld) IssueAttack(ids []string, targetIDs []string) error {
	return w.record("attack:"+strings.Join(targetIDs, ","), ids)
}
func (w *fakeWorld) IssueHold(ids []string) error { return w.record("hold", ids) }
func (w *fakeWorld) IssueScout(ids []string, dest Destination) error {
	w.lastDst = dest
	return w.record("scout", ids)
}
func (w *fakeWorld) IssueFlank(ids []string, direction string) error {
	return w.record("flank:"+direction, ids)
}
func (w *fakeWorld) IssueFallback(ids []string, dest Destination) error {
	w.lastDst = dest
	return w.record("fallback", ids)
}
func (w *fakeWorld) IssueResupply(ids []string) error { return w.record("resupply", ids) }
func (w *fakeWorld) ChangeMap(mapID string) error     { return w.record("map:"+mapID, nil) }
func (w *fakeWorld) RequestSave() error               { return w.record("save", nil) }
func (w *fakeWorld) RequestLoad() error               { return w.record("load", nil) }
func (w *fakeWorld) TogglePause() (bool, error) {
	w.paused = !w.paused
	return w.paused, w.record("pause", nil)
}

func TestEmptyInputIsANoOp(t *testing.T) {
	w := newFakeWorld()
	c := New(w, w, nil)
	if got := c.Submit("   "); got != "Standing by." {
		t.Fatalf("empty input feedback = %q", got)
	}
	if len(w.calls) != 0 {
		t.Fatalf("empty input must not touch the world: %v", w.calls)
	}
}

func TestSharedAliasDispatchesOneCallForTheSet(t *testing.T) {
	w := newFakeWorld()
	c := New(w, w, nil)
	got := c.Submit("alpha squad hold position")
	if !strings.Contains(got, "holding") {
		t.Fatalf("unexpected feedback %q", got)
	}
	if !reflect.DeepEqual(w.calls, []string{"hold"}) {
		t.Fatalf("expected a single hold call, got %v", w.calls)
	}
	if !reflect.DeepEqual(w.lastIDs, []string{"alpha_1", "alpha_2"}) {
		t.Fatalf("expected both squads in one call, got %v", w.lastIDs)
	}
}

func TestDeadActorsDropSilentlyWhileOneSurvives(t *testing.T) {
	w := newFakeWorld()
	c := New(w, w, nil)
	// The squad dies between resolution and dispatch; the order still goes
	// out to the survivor.
	cmd, fail := parser.New().Parse(parser.Snapshot{Entities: w.entities, Zones: w.zones, Maps: w.maps}, "alpha squad move to base")
	if fail != nil {
		t.Fatalf("parse failed: %+v", fail)
	}
	w.kill("alpha_2")
	got := c.Dispatch(cmd)
	if !reflect.DeepEqual(w.lastIDs, []string{"alpha_1"}) {
		t.Fatalf("dead squad should be dropped, got %v", w.lastIDs)
	}
	if strings.Contains(got, "Alpha_2") {
		t.Fatalf("feedback must not mention the dead: %q", got)
	}
	if w.lastDst.ZoneID != "base" {
		t.Fatalf("expected zone destination, got %+v", w.lastDst)
	}
}

func TestFullyDeadActorSetFailsWithoutMutation(t *testing.T) {
	w := newFakeWorld()
	c := New(w, w, nil)
	w.kill("alpha_1")
	w.kill("alpha_2")
	got := c.Submit("alpha squad hold")
	if !strings.Contains(got, "No unit") {
		t.Fatalf("unexpected feedback %q", got)
	}
	if len(w.calls) != 0 {
		t.Fatalf("dead set must not reach the world: %v", w.calls)
	}
}

func TestRedispatchIsIdempotent(t *testing.T) {
	w := newFakeWorld()
	c := New(w, w, nil)
	first := c.Submit("drone 1 scout north")
	second := c.Submit("drone 1 scout north")
	if first != second {
		t.Fatalf("re-dispatch drifted: %q vs %q", first, second)
	}
	if !reflect.DeepEqual(w.calls, []string{"scout", "scout"}) {
		t.Fatalf("unexpected calls %v", w.calls)
	}
	if w.lastDst.Direction != "north" {
		t.Fatalf("expected north, got %+v", w.lastDst)
	}
}

func TestWorldRejectionFoldsIntoFeedback(t *testing.T) {
	w := newFakeWorld()
	w.fail = errors.New("no passable tile near there")
	c := New(w, w, nil)
	got := c.Submit("alpha 1 move north")
	if !strings.Contains(got, "refused") || !strings.Contains(got, "no passable tile") {
		t.Fatalf("rejection not surfaced: %q", got)
	}
}

func TestAttackTargetAlreadyDead(t *testing.T) {
	w := newFakeWorld()
	c := New(w, w, nil)
	cmd, fail := parser.New().Parse(parser.Snapshot{Entities: w.entities, Zones: w.zones, Maps: w.maps}, "alpha 1 attack the enemy")
	if fail != nil {
		t.Fatalf("parse failed: %+v", fail)
	}
	w.kill("enemy_1")
	got := c.Dispatch(cmd)
	if !strings.Contains(got, "destroyed") {
		t.Fatalf("unexpected feedback %q", got)
	}
	if len(w.calls) != 0 {
		t.Fatalf("dead target must not reach the world: %v", w.calls)
	}
}

func TestAttackTargetsNamedInCall(t *testing.T) {
	w := newFakeWorld()
	c := New(w, w, nil)
	got := c.Submit("alpha 1 attack the enemy")
	if !strings.Contains(got, "engaging") {
		t.Fatalf("unexpected feedback %q", got)
	}
	if !reflect.DeepEqual(w.calls, []string{"attack:enemy_1"}) {
		t.Fatalf("unexpected calls %v", w.calls)
	}
}

func TestPauseFeedbackTracksState(t *testing.T) {
	w := newFakeWorld()
	c := New(w, w, nil)
	if got := c.Submit("pause"); got != "Paused." {
		t.Fatalf("first toggle = %q", got)
	}
	if got := c.Submit("pause"); got != "Resumed." {
		t.Fatalf("second toggle = %q", got)
	}
}

func TestMapChange(t *testing.T) {
	w := newFakeWorld()
	c := New(w, w, nil)
	got := c.Submit("map urban district")
	if !strings.Contains(got, "Urban District") {
		t.Fatalf("unexpected feedback %q", got)
	}
	if !reflect.DeepEqual(w.calls, []string{"map:urban_district"}) {
		t.Fatalf("unexpected calls %v", w.calls)
	}
}

func TestParseFailureBecomesFeedback(t *testing.T) {
	w := newFakeWorld()
	c := New(w, w, nil)
	got := c.Submit("xyzzy")
	if !strings.Contains(got, "No unit matched") {
		t.Fatalf("unexpected feedback %q", got)
	}
	if len(w.calls) != 0 {
		t.Fatalf("failed parse must not touch the world: %v", w.calls)
	}
}
