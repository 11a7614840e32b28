package game

import "math/rand/v2"

// BuiltInMaps returns the playable battlefields. Layouts are procedural but
// keyed on the map id, so a given map is identical on every run.
func BuiltInMaps() []GameMap {
	return []GameMap{
		buildUrbanDistrict(),
		buildIndustrialZone(),
		buildRiverside(),
		buildOpenFields(),
	}
}

func MapByID(id string) (GameMap, bool) {
	for _, m := range BuiltInMaps() {
		if m.ID == id {
			return m, true
		}
	}
	return GameMap{}, false
}

func DefaultMapID() string { return "urban_district" }

func newBlankMap(id, name string) GameMap {
	m := GameMap{
		ID:     id,
		Name:   name,
		Width:  MapWidthTiles,
		Height: MapHeightTiles,
		Tiles:  make([]TerrainType, MapWidthTiles*MapHeightTiles),
	}
	return m
}

func buildUrbanDistrict() GameMap {
	m := newBlankMap("urban_district", "Urban District")
	rng := layoutRNG(m.ID)

	paintRoadCross(&m, m.Width/2, m.Height/2)
	// City blocks fill the quadrants the roads carve out.
	for by := 0; by < m.Height; by += 6 {
		for bx := 0; bx < m.Width; bx += 7 {
			if rng.Float64() < 0.65 {
				paintRect(&m, bx+1, by+1, 4, 3, TerrainUrban)
			}
		}
	}
	scatter(&m, rng, TerrainCover, 40)
	scatter(&m, rng, TerrainImpassable, 10)

	m.Zones = []Zone{
		{ID: "base", Name: "Base", Aliases: []string{"home", "player spawn"}, X: 1, Y: m.Height - 5, W: 5, H: 4},
		{ID: "market", Name: "Market Square", Aliases: []string{"market", "square"}, X: m.Width/2 - 2, Y: m.Height/2 - 2, W: 5, H: 5},
		{ID: "north_blocks", Name: "North Blocks", Aliases: []string{"blocks"}, X: m.Width/2 - 3, Y: 1, W: 7, H: 4},
	}
	clearZones(&m)
	return m
}

func buildIndustrialZone() GameMap {
	m := newBlankMap("industrial_zone", "Industrial Zone")
	rng := layoutRNG(m.ID)

	// Warehouses: long impassable halls with cover yards between them.
	for by := 2; by < m.Height-4; by += 7 {
		paintRect(&m, 4, by, 9, 3, TerrainImpassable)
		paintRect(&m, m.Width-13, by, 9, 3, TerrainImpassable)
		paintRect(&m, 14, by, 3, 3, TerrainCover)
	}
	paintRect(&m, m.Width/2-1, 0, 2, m.Height, TerrainRoad)
	scatter(&m, rng, TerrainCover, 25)

	m.Zones = []Zone{
		{ID: "base", Name: "Base", Aliases: []string{"home", "player spawn"}, X: 1, Y: 1, W: 4, H: 4},
		{ID: "depot", Name: "Fuel Depot", Aliases: []string{"depot", "fuel"}, X: m.Width - 6, Y: m.Height - 6, W: 4, H: 4},
		{ID: "yard", Name: "Rail Yard", Aliases: []string{"yard"}, X: m.Width/2 - 3, Y: m.Height - 6, W: 6, H: 4},
	}
	clearZones(&m)
	return m
}

func buildRiverside() GameMap {
	m := newBlankMap("riverside", "Riverside")
	rng := layoutRNG(m.ID)

	// The river splits the map; two road bridges cross it.
	riverX := m.Width/2 + 1
	paintRect(&m, riverX, 0, 3, m.Height, TerrainWater)
	paintRect(&m, riverX-1, 5, 5, 2, TerrainRoad)
	paintRect(&m, riverX-1, m.Height-7, 5, 2, TerrainRoad)
	for by := 2; by < m.Height-3; by += 5 {
		if rng.Float64() < 0.7 {
			paintRect(&m, 2+rng.IntN(6), by, 3, 2, TerrainCover)
			paintRect(&m, riverX+5+rng.IntN(4), by, 3, 2, TerrainCover)
		}
	}

	m.Zones = []Zone{
		{ID: "base", Name: "Base", Aliases: []string{"home", "player spawn"}, X: 2, Y: m.Height/2 - 2, W: 4, H: 4},
		{ID: "docks", Name: "Docks", Aliases: []string{"dock", "docks"}, X: riverX - 4, Y: m.Height - 5, W: 3, H: 3},
		{ID: "far_bank", Name: "Far Bank", Aliases: []string{"far bank", "east bank"}, X: m.Width - 6, Y: 2, W: 4, H: 4},
	}
	clearZones(&m)
	return m
}

func buildOpenFields() GameMap {
	m := newBlankMap("open_fields", "Open Fields")
	rng := layoutRNG(m.ID)

	paintRect(&m, 0, m.Height/2, m.Width, 1, TerrainRoad)
	scatter(&m, rng, TerrainCover, 30)
	// Rock outcrops are sparse here; the map plays long and exposed.
	scatter(&m, rng, TerrainImpassable, 6)

	m.Zones = []Zone{
		{ID: "base", Name: "Base", Aliases: []string{"home", "player spawn"}, X: 1, Y: m.Height/2 - 2, W: 4, H: 4},
		{ID: "ridge", Name: "East Ridge", Aliases: []string{"ridge"}, X: m.Width - 7, Y: 2, W: 5, H: 4},
		{ID: "treeline", Name: "Treeline", Aliases: []string{"trees", "treeline"}, X: m.Width/2 - 3, Y: m.Height - 5, W: 7, H: 3},
	}
	clearZones(&m)
	return m
}

func paintRect(m *GameMap, x, y, w, h int, t TerrainType) {
	for ty := y; ty < y+h; ty++ {
		for tx := x; tx < x+w; tx++ {
			m.set(tx, ty, t)
		}
	}
}

func paintRoadCross(m *GameMap, cx, cy int) {
	paintRect(m, 0, cy, m.Width, 2, TerrainRoad)
	paintRect(m, cx, 0, 2, m.Height, TerrainRoad)
}

func scatter(m *GameMap, rng *rand.Rand, t TerrainType, count int) {
	for i := 0; i < count; i++ {
		tx := rng.IntN(m.Width)
		ty := rng.IntN(m.Height)
		if m.At(tx, ty) == TerrainOpen {
			m.set(tx, ty, t)
		}
	}
}

// clearZones keeps every zone interior passable so spawns and rally points
// never land inside a wall.
func clearZones(m *GameMap) {
	for _, z := range m.Zones {
		for ty := z.Y; ty < z.Y+z.H; ty++ {
			for tx := z.X; tx < z.X+z.W; tx++ {
				if !m.At(tx, ty).Passable() {
					m.set(tx, ty, TerrainOpen)
				}
			}
		}
	}
}
