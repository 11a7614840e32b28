package game

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/appengine-ltd/urban-legend/internal/commander"
)

func testWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(Config{Seed: 42, SavePath: filepath.Join(t.TempDir(), "save.json")}, nil)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestNewWorldSpawnsBothSides(t *testing.T) {
	w := testWorld(t)
	roster := w.LiveRoster()
	friendly, hostile := 0, 0
	for _, e := range roster {
		if !e.Alive {
			t.Fatalf("fresh spawn should be alive: %s", e.ID)
		}
		if e.Hostile {
			hostile++
		} else {
			friendly++
		}
	}
	if friendly != 7 || hostile != 4 {
		t.Fatalf("unexpected force sizes: %d friendly, %d hostile", friendly, hostile)
	}
	for _, u := range w.units {
		if !u.FliesOverTerrain && !w.gm.PassableAt(u.Pos) {
			t.Fatalf("%s spawned on impassable ground", u.ID)
		}
	}
}

func TestIssueMoveAdvancesUnit(t *testing.T) {
	w := testWorld(t)
	if err := w.IssueMove([]string{"alpha_1"}, commander.Destination{Direction: "north"}); err != nil {
		t.Fatalf("IssueMove: %v", err)
	}
	u := w.unitByID("alpha_1")
	start := u.Pos
	dest := u.Order.Dest
	w.Update(0.5)
	if u.Pos.Dist(dest) >= start.Dist(dest) {
		t.Fatalf("unit did not close on its destination")
	}
}

func TestPausedWorldDoesNotMove(t *testing.T) {
	w := testWorld(t)
	if err := w.IssueMove([]string{"alpha_1"}, commander.Destination{Direction: "north"}); err != nil {
		t.Fatalf("IssueMove: %v", err)
	}
	paused, _ := w.TogglePause()
	if !paused {
		t.Fatalf("expected paused after first toggle")
	}
	u := w.unitByID("alpha_1")
	before := u.Pos
	w.Update(1.0)
	if u.Pos != before {
		t.Fatalf("paused world moved a unit")
	}
}

func TestFastModeCoversMoreGround(t *testing.T) {
	a := testWorld(t)
	b := testWorld(t)
	for _, w := range []*World{a, b} {
		if err := w.IssueMove([]string{"alpha_1"}, commander.Destination{Direction: "east"}); err != nil {
			t.Fatalf("IssueMove: %v", err)
		}
	}
	b.ToggleFast()
	a.Update(0.2)
	b.Update(0.2)
	ua, ub := a.unitByID("alpha_1"), b.unitByID("alpha_1")
	if ua.Pos.Dist(ua.Order.Dest) <= ub.Pos.Dist(ub.Order.Dest) {
		t.Fatalf("fast world should have closed more distance")
	}
}

func TestNewOrderReplacesOld(t *testing.T) {
	w := testWorld(t)
	if err := w.IssueMove([]string{"tank_1"}, commander.Destination{Direction: "north"}); err != nil {
		t.Fatalf("IssueMove: %v", err)
	}
	if err := w.IssueHold([]string{"tank_1"}); err != nil {
		t.Fatalf("IssueHold: %v", err)
	}
	if got := w.unitByID("tank_1").Order.Kind; got != OrderHold {
		t.Fatalf("expected hold to replace move, got %s", got)
	}
}

func TestArmorReducesDamage(t *testing.T) {
	tank := NewTank("t", 1, Vec2{}, false)
	squad := NewSquad("s", "Test", 1, Vec2{}, false)
	tank.TakeDamage(20)
	squad.TakeDamage(20)
	if tank.MaxHP-tank.HP >= squad.MaxHP-squad.HP {
		t.Fatalf("armor should absorb part of the hit")
	}
}

func TestDeathClearsOrderAndRoster(t *testing.T) {
	w := testWorld(t)
	u := w.unitByID("drone_1")
	u.SetOrder(Order{Kind: OrderMove, Dest: Vec2{X: 100, Y: 100}})
	u.TakeDamage(u.MaxHP * 10)
	if u.Alive {
		t.Fatalf("unit should be dead")
	}
	if u.Order.Kind != OrderNone {
		t.Fatalf("death should drop the standing order")
	}
	u.SetOrder(Order{Kind: OrderHold})
	if u.Order.Kind != OrderNone {
		t.Fatalf("the dead take no orders")
	}
	for _, e := range w.LiveRoster() {
		if e.ID == "drone_1" && e.Alive {
			t.Fatalf("roster should report the drone dead")
		}
	}
}

func TestResupplyRefillsAtBase(t *testing.T) {
	w := testWorld(t)
	u := w.unitByID("alpha_1")
	u.Ammo = 3
	if err := w.IssueResupply([]string{"alpha_1"}); err != nil {
		t.Fatalf("IssueResupply: %v", err)
	}
	u.Pos = u.Order.Dest
	w.Update(0.1)
	if u.Ammo != u.MaxAmmo {
		t.Fatalf("expected full ammo after resupply, got %d", u.Ammo)
	}
	if u.Order.Kind != OrderHold {
		t.Fatalf("resupplied unit should hold, got %s", u.Order.Kind)
	}
}

func TestAttackClosesAndFires(t *testing.T) {
	w := testWorld(t)
	u := w.unitByID("tank_1")
	target := w.unitByID("enemy_1")
	// Park the tank just outside range with a clear line.
	u.Pos = w.gm.NearestPassable(target.Pos.Add(Vec2{X: -u.Range - TileSize}))
	if err := w.IssueAttack([]string{"tank_1"}, []string{"enemy_1"}); err != nil {
		t.Fatalf("IssueAttack: %v", err)
	}
	hp := target.HP
	for i := 0; i < 400 && target.HP == hp && u.Alive; i++ {
		w.Update(0.1)
	}
	if target.HP >= hp {
		t.Fatalf("target never took damage")
	}
}

func TestChangeMapRedeploysSurvivors(t *testing.T) {
	w := testWorld(t)
	if err := w.ChangeMap("atlantis"); err == nil {
		t.Fatalf("unknown map should be rejected")
	}
	if err := w.IssueMove([]string{"alpha_1"}, commander.Destination{Direction: "north"}); err != nil {
		t.Fatalf("IssueMove: %v", err)
	}
	if err := w.ChangeMap("open_fields"); err != nil {
		t.Fatalf("ChangeMap: %v", err)
	}
	if w.Map().ID != "open_fields" {
		t.Fatalf("map did not change")
	}
	u := w.unitByID("alpha_1")
	if u.Order.Kind != OrderNone {
		t.Fatalf("orders should not survive a redeploy")
	}
	if !w.gm.PassableAt(u.Pos) {
		t.Fatalf("redeployed unit stands on impassable ground")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	w := testWorld(t)
	w.unitByID("alpha_1").Ammo = 7
	w.unitByID("enemy_1").TakeDamage(1000)
	if err := w.RequestSave(); err != nil {
		t.Fatalf("RequestSave: %v", err)
	}

	// Same save path, fresh world.
	w2, err := NewWorld(Config{Seed: 7, SavePath: w.cfg.SavePath}, nil)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if err := w2.RequestLoad(); err != nil {
		t.Fatalf("RequestLoad: %v", err)
	}
	if got := w2.unitByID("alpha_1").Ammo; got != 7 {
		t.Fatalf("ammo not restored, got %d", got)
	}
	if w2.unitByID("enemy_1").Alive {
		t.Fatalf("dead enemy resurrected by load")
	}
	if w2.Map().ID != w.Map().ID {
		t.Fatalf("map id not restored")
	}
}

func TestSeedDrivesTheSimulation(t *testing.T) {
	positions := func(seed int64, ticks int) []Vec2 {
		w, err := NewWorld(Config{Seed: seed, SavePath: filepath.Join(t.TempDir(), "save.json")}, nil)
		if err != nil {
			t.Fatalf("NewWorld: %v", err)
		}
		for i := 0; i < ticks; i++ {
			w.Update(0.1)
		}
		out := make([]Vec2, 0, len(w.units))
		for _, u := range w.units {
			out = append(out, u.Pos)
		}
		return out
	}
	if !reflect.DeepEqual(positions(1, 50), positions(1, 50)) {
		t.Fatalf("same seed must replay the same battle")
	}
	if reflect.DeepEqual(positions(1, 0), positions(999999, 0)) {
		t.Fatalf("different seeds deployed identically")
	}
}

func TestEventLogIsBounded(t *testing.T) {
	w := testWorld(t)
	for i := 0; i < 50; i++ {
		w.logEvent("event")
	}
	if got := len(w.Events()); got > maxEvents {
		t.Fatalf("event log grew to %d, cap is %d", got, maxEvents)
	}
}
