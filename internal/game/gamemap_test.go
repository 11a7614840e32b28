package game

import (
	"reflect"
	"testing"
)

func TestBuiltInMapsAreWellFormed(t *testing.T) {
	maps := BuiltInMaps()
	if len(maps) != 4 {
		t.Fatalf("expected 4 built-in maps, got %d", len(maps))
	}
	for _, m := range maps {
		if len(m.Tiles) != m.Width*m.Height {
			t.Fatalf("%s: tile count %d does not match %dx%d", m.ID, len(m.Tiles), m.Width, m.Height)
		}
		if _, ok := m.ZoneByID("base"); !ok {
			t.Fatalf("%s: every map needs a base zone", m.ID)
		}
		for _, z := range m.Zones {
			for ty := z.Y; ty < z.Y+z.H; ty++ {
				for tx := z.X; tx < z.X+z.W; tx++ {
					if !m.At(tx, ty).Passable() {
						t.Fatalf("%s: zone %s contains impassable tile (%d,%d)", m.ID, z.ID, tx, ty)
					}
				}
			}
		}
	}
}

func TestMapLayoutIsDeterministic(t *testing.T) {
	a, _ := MapByID("urban_district")
	b, _ := MapByID("urban_district")
	if !reflect.DeepEqual(a.Tiles, b.Tiles) {
		t.Fatalf("same map id produced different layouts")
	}
}

func TestOutOfBoundsIsImpassable(t *testing.T) {
	m, _ := MapByID("open_fields")
	if m.At(-1, 0).Passable() || m.At(0, m.Height).Passable() {
		t.Fatalf("out-of-bounds tiles must not be passable")
	}
}

func TestNearestPassableEscapesWater(t *testing.T) {
	m, _ := MapByID("riverside")
	// Find a water tile and ask for the nearest dry ground.
	for ty := 0; ty < m.Height; ty++ {
		for tx := 0; tx < m.Width; tx++ {
			if m.At(tx, ty) != TerrainWater {
				continue
			}
			p := m.NearestPassable(tileCenter(tx, ty))
			if !m.PassableAt(p) {
				t.Fatalf("NearestPassable landed on impassable ground at %+v", p)
			}
			return
		}
	}
	t.Fatalf("riverside should contain water")
}

func TestLineOfSightBlockedByUrban(t *testing.T) {
	m := newBlankMap("test", "Test")
	m.set(5, 5, TerrainUrban)
	a := tileCenter(3, 5)
	b := tileCenter(8, 5)
	if m.LineOfSight(a, b) {
		t.Fatalf("sight line through an urban tile should be blocked")
	}
	if !m.LineOfSight(a, tileCenter(4, 5)) {
		t.Fatalf("adjacent open tiles should see each other")
	}
}

func TestEdgePoints(t *testing.T) {
	m, _ := MapByID("open_fields")
	for _, dir := range []string{"north", "south", "east", "west", "center"} {
		p, ok := m.EdgePoint(dir)
		if !ok {
			t.Fatalf("direction %q should resolve", dir)
		}
		if !m.PassableAt(p) {
			t.Fatalf("edge point for %q is impassable: %+v", dir, p)
		}
	}
	if _, ok := m.EdgePoint("sideways"); ok {
		t.Fatalf("unknown direction should not resolve")
	}
}

func TestTerrainProperties(t *testing.T) {
	if TerrainWater.Passable() || TerrainImpassable.Passable() {
		t.Fatalf("water and walls must be impassable")
	}
	if TerrainRoad.MoveCost() >= TerrainOpen.MoveCost() {
		t.Fatalf("roads should be faster than open ground")
	}
	if TerrainCover.CoverBonus() <= 0 || TerrainUrban.CoverBonus() <= TerrainCover.CoverBonus() {
		t.Fatalf("cover ordering wrong: urban > cover > open expected")
	}
}
