package game

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/appengine-ltd/urban-legend/internal/commander"
	"github.com/appengine-ltd/urban-legend/internal/parser"
)

const (
	arriveRadius   = TileSize * 0.6
	fireCooldown   = 0.8
	fastMultiplier = 3.0
	maxEvents      = 8
)

type Config struct {
	Seed     int64
	MapID    string
	SavePath string
}

func (c Config) Validate() error {
	if c.MapID == "" {
		return nil
	}
	if _, ok := MapByID(c.MapID); !ok {
		return fmt.Errorf("map not found: %s", c.MapID)
	}
	return nil
}

// World owns the whole battlefield: the map, every unit on it, and the
// pause/fast clocks. All exported methods are safe to call from the input
// goroutine while Update runs on the render loop.
type World struct {
	mu sync.Mutex

	cfg    Config
	gm     GameMap
	units  []*Unit
	paused bool
	fast   bool
	clock  float64

	rng    *rand.Rand
	log    *zap.Logger
	events []string
}

func NewWorld(cfg Config, log *zap.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.MapID == "" {
		cfg.MapID = DefaultMapID()
	}
	if log == nil {
		log = zap.NewNop()
	}
	gm, _ := MapByID(cfg.MapID)
	w := &World{
		cfg: cfg,
		gm:  gm,
		rng: seededRNG(cfg.Seed),
		log: log,
	}
	w.spawnForces()
	w.logEvent("Forces deployed on " + gm.Name + ".")
	return w, nil
}

func (w *World) spawnForces() {
	base, _ := w.gm.ZoneByID("base")
	anchor := base.Center()
	// Deployment scatter comes off the seeded RNG, so a given seed always
	// lays both sides out the same way.
	jitter := func() float64 { return (w.rng.Float64() - 0.5) * TileSize }
	place := func(i int) Vec2 {
		offset := Vec2{X: float64(i%3)*TileSize + jitter(), Y: float64(i/3)*TileSize + jitter()}
		p := anchor.Add(offset)
		if !w.gm.PassableAt(p) {
			p = w.gm.NearestPassable(p)
		}
		return p
	}
	w.units = []*Unit{
		NewSquad("alpha_1", "Alpha", 1, place(0), false),
		NewSquad("alpha_2", "Alpha", 2, place(1), false),
		NewSquad("bravo_1", "Bravo", 1, place(2), false),
		NewDrone("drone_1", 1, place(3), false),
		NewDrone("drone_2", 2, place(4), false),
		NewTank("tank_1", 1, place(5), false),
		NewAPC("apc_1", 1, place(6), false),
	}

	// Hostiles hold the opposite corner.
	far := tileCenter(w.gm.Width-3, 2)
	placeEnemy := func(i int) Vec2 {
		offset := Vec2{X: float64(-i%3)*TileSize + jitter(), Y: float64(i/3)*TileSize*2 + jitter()}
		p := far.Add(offset)
		if !w.gm.PassableAt(p) {
			p = w.gm.NearestPassable(p)
		}
		return p
	}
	w.units = append(w.units,
		NewSquad("enemy_1", "Enemy", 1, placeEnemy(0), true),
		NewSquad("enemy_2", "Enemy", 2, placeEnemy(1), true),
		NewSquad("enemy_3", "Enemy", 3, placeEnemy(2), true),
		NewTank("enemy_tank_1", 9, placeEnemy(3), true),
	)
}

// Update advances the simulation by dt seconds of real time. Paused worlds
// do not move; fast worlds move at triple rate.
func (w *World) Update(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.paused || dt <= 0 {
		return
	}
	if w.fast {
		dt *= fastMultiplier
	}
	w.clock += dt
	for _, u := range w.units {
		w.stepUnit(u, dt)
	}
	w.enemyAIStep()
}

func (w *World) stepUnit(u *Unit, dt float64) {
	if !u.Alive {
		return
	}
	if u.cooldown > 0 {
		u.cooldown -= dt
	}
	if u.Morale < 100 {
		u.Morale += 2 * dt
		if u.Morale > 100 {
			u.Morale = 100
		}
	}

	switch u.Order.Kind {
	case OrderMove, OrderScout, OrderFlank:
		if w.advance(u, u.Order.Dest, dt) {
			u.Order = Order{Kind: OrderHold}
		}
	case OrderFallback:
		if w.advance(u, u.Order.Dest, dt) {
			u.Order = Order{Kind: OrderHold}
			u.Morale += 10
			if u.Morale > 100 {
				u.Morale = 100
			}
		}
	case OrderAttack:
		w.stepAttack(u, dt)
	case OrderResupply:
		if w.advance(u, u.Order.Dest, dt) {
			u.Ammo = u.MaxAmmo
			if u.Fuel > 0 || u.Class == parser.ClassVehicle {
				u.Fuel = 100
			}
			u.Order = Order{Kind: OrderHold}
			w.logEvent(u.Name + " resupplied.")
		}
	case OrderHold:
		w.opportunityFire(u)
	default:
		if u.FliesOverTerrain && !u.Hostile {
			// Idle drones self-task onto anything they can see.
			w.opportunityFire(u)
		}
	}
}

// advance moves a unit toward dest and reports arrival. Ground units pay
// the terrain cost of the tile they stand on; drones fly over it.
func (w *World) advance(u *Unit, dest Vec2, dt float64) bool {
	delta := dest.Sub(u.Pos)
	if delta.Len() <= arriveRadius {
		return true
	}
	speed := u.Speed
	if !u.FliesOverTerrain {
		cost := w.gm.MoveCostAt(u.Pos)
		speed /= cost
	}
	step := delta.Norm().Scale(speed * dt)
	next := u.Pos.Add(step)
	if !u.FliesOverTerrain && !w.gm.PassableAt(next) {
		next = w.gm.NearestPassable(next)
		if next.Dist(u.Pos) > step.Len()*3 {
			return false
		}
	}
	u.Pos = next
	return false
}

func (w *World) stepAttack(u *Unit, dt float64) {
	target := w.unitByID(u.Order.TargetID)
	if target == nil || !target.Alive {
		u.Order = Order{Kind: OrderHold}
		return
	}
	if u.Pos.Dist(target.Pos) > u.Range {
		w.advance(u, target.Pos, dt)
		return
	}
	w.fireAt(u, target)
}

// opportunityFire lets a stationary unit engage the nearest visible enemy
// without leaving its post.
func (w *World) opportunityFire(u *Unit) {
	target := w.nearestEnemy(u)
	if target == nil || u.Pos.Dist(target.Pos) > u.Range {
		return
	}
	w.fireAt(u, target)
}

func (w *World) fireAt(u, target *Unit) {
	if !u.readyToFire() {
		return
	}
	if !u.FliesOverTerrain && !w.gm.LineOfSight(u.Pos, target.Pos) {
		return
	}
	u.cooldown = fireCooldown
	u.Ammo--
	// Shot spread: same seed, same battle.
	spread := 0.85 + 0.3*w.rng.Float64()
	dmg := u.effectiveDamage() * (1 - w.gm.CoverAt(target.Pos)) * spread
	target.TakeDamage(dmg)
	if !target.Alive {
		w.logEvent(target.Name + " destroyed by " + u.Name + ".")
		w.log.Info("unit destroyed",
			zap.String("unit", target.ID),
			zap.String("by", u.ID))
	}
}

// enemyAIStep keeps idle hostiles pushing toward the nearest friendly unit.
func (w *World) enemyAIStep() {
	for _, u := range w.units {
		if !u.Alive || !u.Hostile || u.Order.Kind == OrderAttack {
			continue
		}
		if target := w.nearestEnemy(u); target != nil {
			u.SetOrder(Order{Kind: OrderAttack, TargetID: target.ID})
		}
	}
}

func (w *World) nearestEnemy(u *Unit) *Unit {
	var best *Unit
	bestDist := 0.0
	for _, other := range w.units {
		if !other.Alive || other.Hostile == u.Hostile {
			continue
		}
		d := u.Pos.Dist(other.Pos)
		if best == nil || d < bestDist {
			best, bestDist = other, d
		}
	}
	return best
}

func (w *World) unitByID(id string) *Unit {
	for _, u := range w.units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (w *World) logEvent(msg string) {
	w.events = append(w.events, msg)
	if len(w.events) > maxEvents {
		w.events = w.events[len(w.events)-maxEvents:]
	}
}

// Events returns the recent battle log, oldest first.
func (w *World) Events() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.events))
	copy(out, w.events)
	return out
}

func (w *World) Paused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paused
}

func (w *World) Fast() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fast
}

// ToggleFast flips triple-speed simulation and returns the new state.
func (w *World) ToggleFast() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fast = !w.fast
	return w.fast
}

func (w *World) Clock() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clock
}

// Map returns the active battlefield by value; renderers read it freely.
func (w *World) Map() GameMap {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gm
}

// UnitsSnapshot copies the unit list for rendering without holding the lock.
func (w *World) UnitsSnapshot() []Unit {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Unit, 0, len(w.units))
	for _, u := range w.units {
		out = append(out, *u)
	}
	return out
}

// LiveRoster exposes every unit, dead or alive, in spawn order. The parser
// filters on the Alive flag itself.
func (w *World) LiveRoster() []parser.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]parser.Entity, 0, len(w.units))
	for _, u := range w.units {
		out = append(out, parser.Entity{
			ID:      u.ID,
			Name:    u.Name,
			Aliases: u.Aliases,
			Class:   u.Class,
			Subtype: u.Subtype,
			Hostile: u.Hostile,
			Alive:   u.Alive,
		})
	}
	return out
}

func (w *World) KnownZones() []parser.Place {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]parser.Place, 0, len(w.gm.Zones))
	for _, z := range w.gm.Zones {
		out = append(out, parser.Place{ID: z.ID, Name: z.Name, Aliases: z.Aliases})
	}
	return out
}

func (w *World) KnownMaps() []parser.Place {
	out := make([]parser.Place, 0, 4)
	for _, m := range BuiltInMaps() {
		out = append(out, parser.Place{ID: m.ID, Name: m.Name})
	}
	return out
}

var _ commander.WorldQuery = (*World)(nil)
var _ commander.WorldMutator = (*World)(nil)
