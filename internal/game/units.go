package game

import (
	"math"

	"github.com/appengine-ltd/urban-legend/internal/parser"
)

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{X: v.X * f, Y: v.Y * f} }

func (v Vec2) Norm() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Perp rotates 90 degrees counter-clockwise. Flanking offsets hang off this.
func (v Vec2) Perp() Vec2 { return Vec2{X: -v.Y, Y: v.X} }

type OrderKind uint8

const (
	OrderNone OrderKind = iota
	OrderMove
	OrderAttack
	OrderHold
	OrderScout
	OrderFlank
	OrderFallback
	OrderResupply
)

func (k OrderKind) String() string {
	switch k {
	case OrderMove:
		return "move"
	case OrderAttack:
		return "attack"
	case OrderHold:
		return "hold"
	case OrderScout:
		return "scout"
	case OrderFlank:
		return "flank"
	case OrderFallback:
		return "fall back"
	case OrderResupply:
		return "resupply"
	default:
		return "idle"
	}
}

// Order is a unit's single standing instruction. Issuing a new one replaces
// the old without negotiation, so repeating an order changes nothing.
type Order struct {
	Kind     OrderKind `json:"kind"`
	Dest     Vec2      `json:"dest"`
	TargetID string    `json:"target_id,omitempty"`
}

type Unit struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Aliases []string         `json:"aliases,omitempty"`
	Class   parser.UnitClass `json:"class"`
	Subtype string           `json:"subtype,omitempty"`
	Hostile bool             `json:"hostile,omitempty"`

	Pos     Vec2    `json:"pos"`
	HP      float64 `json:"hp"`
	MaxHP   float64 `json:"max_hp"`
	Ammo    int     `json:"ammo"`
	MaxAmmo int     `json:"max_ammo"`
	Morale  float64 `json:"morale"`
	Alive   bool    `json:"alive"`

	Speed  float64 `json:"speed"`
	Range  float64 `json:"range"`
	Damage float64 `json:"damage"`
	Armor  float64 `json:"armor,omitempty"`
	Fuel   float64 `json:"fuel,omitempty"`

	// FliesOverTerrain is set on drones: they ignore ground cost and walls.
	FliesOverTerrain bool `json:"flies,omitempty"`

	Order    Order   `json:"order"`
	cooldown float64
}

// SetOrder replaces the unit's standing order. Last writer wins.
func (u *Unit) SetOrder(o Order) {
	if !u.Alive {
		return
	}
	u.Order = o
}

func (u *Unit) TakeDamage(amount float64) {
	if !u.Alive {
		return
	}
	amount *= 1 - u.Armor
	if amount < 0 {
		amount = 0
	}
	u.HP -= amount
	u.Morale -= amount * 0.5
	if u.Morale < 0 {
		u.Morale = 0
	}
	if u.HP <= 0 {
		u.HP = 0
		u.Alive = false
		u.Order = Order{}
	}
}

func (u *Unit) readyToFire() bool {
	return u.Alive && u.Ammo > 0 && u.cooldown <= 0
}

// effectiveDamage scales with morale: a shaken unit shoots badly.
func (u *Unit) effectiveDamage() float64 {
	factor := 0.5 + u.Morale/200
	return u.Damage * factor
}

func NewSquad(id, team string, n int, pos Vec2, hostile bool) *Unit {
	u := &Unit{
		ID:      id,
		Name:    squadName(team, n),
		Class:   parser.ClassSquad,
		Hostile: hostile,
		Pos:     pos,
		HP:      100, MaxHP: 100,
		Ammo: 120, MaxAmmo: 120,
		Morale: 100,
		Speed:  55,
		Range:  5 * TileSize,
		Damage: 8,
		Alive:  true,
	}
	u.Aliases = squadAliases(team, n)
	return u
}

func NewDrone(id string, n int, pos Vec2, hostile bool) *Unit {
	return &Unit{
		ID:      id,
		Name:    unitName("Drone", n),
		Aliases: numberAliases("drone", n),
		Class:   parser.ClassDrone,
		Hostile: hostile,
		Pos:     pos,
		HP:      40, MaxHP: 40,
		Ammo: 30, MaxAmmo: 30,
		Morale: 100,
		Speed:  95,
		Range:  6 * TileSize,
		Damage: 5,
		Alive:  true,

		FliesOverTerrain: true,
	}
}

func NewTank(id string, n int, pos Vec2, hostile bool) *Unit {
	return &Unit{
		ID:      id,
		Name:    unitName("Tank", n),
		Aliases: numberAliases("tank", n),
		Class:   parser.ClassVehicle,
		Subtype: "tank",
		Hostile: hostile,
		Pos:     pos,
		HP:      220, MaxHP: 220,
		Ammo: 40, MaxAmmo: 40,
		Morale: 100,
		Speed:  40,
		Range:  7 * TileSize,
		Damage: 25,
		Armor:  0.4,
		Fuel:   100,
		Alive:  true,
	}
}

func NewAPC(id string, n int, pos Vec2, hostile bool) *Unit {
	return &Unit{
		ID:      id,
		Name:    unitName("APC", n),
		Aliases: numberAliases("apc", n),
		Class:   parser.ClassVehicle,
		Subtype: "apc",
		Hostile: hostile,
		Pos:     pos,
		HP:      150, MaxHP: 150,
		Ammo: 80, MaxAmmo: 80,
		Morale: 100,
		Speed:  70,
		Range:  4 * TileSize,
		Damage: 10,
		Armor:  0.25,
		Fuel:   100,
		Alive:  true,
	}
}
