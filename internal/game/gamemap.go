package game

import "math"

// TerrainType classifies one tile. Properties hang off the type rather than
// the tile so the grid stays a flat byte slice.
type TerrainType uint8

const (
	TerrainOpen TerrainType = iota
	TerrainCover
	TerrainUrban
	TerrainWater
	TerrainImpassable
	TerrainRoad
)

const (
	// TileSize is the world-unit edge of one tile. Rendering and positions
	// share this scale.
	TileSize = 32

	MapWidthTiles  = 30
	MapHeightTiles = 24
)

type terrainProps struct {
	Passable   bool
	MoveCost   float64
	CoverBonus float64
	BlocksLOS  bool
}

var terrainTable = [...]terrainProps{
	TerrainOpen:       {Passable: true, MoveCost: 1.0, CoverBonus: 0},
	TerrainCover:      {Passable: true, MoveCost: 1.2, CoverBonus: 0.35},
	TerrainUrban:      {Passable: true, MoveCost: 1.4, CoverBonus: 0.5, BlocksLOS: true},
	TerrainWater:      {Passable: false, MoveCost: math.Inf(1)},
	TerrainImpassable: {Passable: false, MoveCost: math.Inf(1), BlocksLOS: true},
	TerrainRoad:       {Passable: true, MoveCost: 0.7, CoverBonus: 0},
}

func (t TerrainType) Passable() bool      { return t.props().Passable }
func (t TerrainType) MoveCost() float64   { return t.props().MoveCost }
func (t TerrainType) CoverBonus() float64 { return t.props().CoverBonus }
func (t TerrainType) BlocksLOS() bool     { return t.props().BlocksLOS }

func (t TerrainType) props() terrainProps {
	if int(t) >= len(terrainTable) {
		return terrainTable[TerrainOpen]
	}
	return terrainTable[t]
}

// Zone is a named rectangular region in tile coordinates. Orders resolve
// zone destinations to the zone center.
type Zone struct {
	ID      string
	Name    string
	Aliases []string
	X, Y    int
	W, H    int
}

func (z Zone) Center() Vec2 {
	return Vec2{
		X: (float64(z.X) + float64(z.W)/2) * TileSize,
		Y: (float64(z.Y) + float64(z.H)/2) * TileSize,
	}
}

type GameMap struct {
	ID     string
	Name   string
	Width  int
	Height int
	Tiles  []TerrainType
	Zones  []Zone
}

func (m *GameMap) InBounds(tx, ty int) bool {
	return tx >= 0 && ty >= 0 && tx < m.Width && ty < m.Height
}

func (m *GameMap) At(tx, ty int) TerrainType {
	if !m.InBounds(tx, ty) {
		return TerrainImpassable
	}
	return m.Tiles[ty*m.Width+tx]
}

func (m *GameMap) set(tx, ty int, t TerrainType) {
	if m.InBounds(tx, ty) {
		m.Tiles[ty*m.Width+tx] = t
	}
}

// TileOf maps a world position to tile coordinates.
func (m *GameMap) TileOf(p Vec2) (int, int) {
	return int(p.X) / TileSize, int(p.Y) / TileSize
}

func (m *GameMap) PassableAt(p Vec2) bool {
	tx, ty := m.TileOf(p)
	return m.At(tx, ty).Passable()
}

func (m *GameMap) MoveCostAt(p Vec2) float64 {
	tx, ty := m.TileOf(p)
	return m.At(tx, ty).MoveCost()
}

func (m *GameMap) CoverAt(p Vec2) float64 {
	tx, ty := m.TileOf(p)
	return m.At(tx, ty).CoverBonus()
}

// NearestPassable walks an outward spiral from the requested tile and
// returns the center of the first passable one. Falls back to the map
// center if the whole spiral is blocked.
func (m *GameMap) NearestPassable(p Vec2) Vec2 {
	tx, ty := m.TileOf(p)
	if m.At(tx, ty).Passable() {
		return tileCenter(tx, ty)
	}
	for radius := 1; radius <= m.Width; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx > -radius && dx < radius && dy > -radius && dy < radius {
					continue
				}
				if m.At(tx+dx, ty+dy).Passable() {
					return tileCenter(tx+dx, ty+dy)
				}
			}
		}
	}
	return tileCenter(m.Width/2, m.Height/2)
}

// LineOfSight steps tile by tile between two world positions and fails on
// the first sight-blocking tile strictly between them.
func (m *GameMap) LineOfSight(a, b Vec2) bool {
	x0, y0 := m.TileOf(a)
	x1, y1 := m.TileOf(b)
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			return true
		}
		if (x != x0 || y != y0) && m.At(x, y).BlocksLOS() {
			return false
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// EdgePoint is the destination for a compass-direction order: the midpoint
// of the named map edge, pulled one tile in so it stays in bounds.
func (m *GameMap) EdgePoint(direction string) (Vec2, bool) {
	w := float64(m.Width) * TileSize
	h := float64(m.Height) * TileSize
	switch direction {
	case "north":
		return m.NearestPassable(Vec2{X: w / 2, Y: TileSize}), true
	case "south":
		return m.NearestPassable(Vec2{X: w / 2, Y: h - TileSize}), true
	case "west", "left":
		return m.NearestPassable(Vec2{X: TileSize, Y: h / 2}), true
	case "east", "right":
		return m.NearestPassable(Vec2{X: w - TileSize, Y: h / 2}), true
	case "center":
		return m.NearestPassable(Vec2{X: w / 2, Y: h / 2}), true
	default:
		return Vec2{}, false
	}
}

func (m *GameMap) ZoneByID(id string) (Zone, bool) {
	for _, z := range m.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return Zone{}, false
}

func tileCenter(tx, ty int) Vec2 {
	return Vec2{
		X: float64(tx)*TileSize + TileSize/2,
		Y: float64(ty)*TileSize + TileSize/2,
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
